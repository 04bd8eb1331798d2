// Package deserialize turns declaration syntax into model values without
// semantic analysis. Each function walks the immediate children of its node
// once; a false result means the node is not a usable candidate.
package deserialize

import (
	"strings"

	"github.com/okra-platform/forja/internal/model"
	"github.com/okra-platform/forja/internal/syntax"
)

// Class reads a class, struct or record declaration.
func Class(n *syntax.Node) (model.ClassDefinition, bool) {
	assertf(n != nil && n.Kind().IsTypeDeclaration(), "Class called on %v", kindOf(n))
	if n == nil {
		return model.ClassDefinition{}, false
	}

	var c model.ClassDefinition
	for _, el := range n.Children() {
		switch el.Kind() {
		case syntax.PublicKeyword, syntax.PrivateKeyword, syntax.ProtectedKeyword,
			syntax.InternalKeyword, syntax.FileKeyword:
			c.Visibility = c.Visibility.Combine(visibilityOf(el.Kind()))
		case syntax.StaticKeyword:
			c.IsStatic = true
		case syntax.PartialKeyword:
			c.IsPartial = true
		case syntax.AbstractKeyword:
			c.IsAbstract = true
		case syntax.ClassKeyword, syntax.InterfaceKeyword, syntax.EnumKeyword:
			if c.Keyword == "" {
				c.Keyword = syntax.AsToken(el).Text
			}
		case syntax.StructKeyword:
			if c.Keyword == "record" {
				c.Keyword = "record struct"
			} else {
				c.Keyword = "struct"
			}
		case syntax.RecordKeyword:
			c.Keyword = "record"
		case syntax.Identifier:
			c.Name = syntax.AsToken(el).ValueText()
		case syntax.TypeParameterList:
			c.TypeArguments = typeParameters(syntax.AsNode(el))
		case syntax.BaseList:
			c.Interfaces = baseTypes(syntax.AsNode(el))
		case syntax.ConstructorDeclaration:
			if ctor, ok := Constructor(syntax.AsNode(el)); ok {
				c.Constructors = append(c.Constructors, ctor)
			}
		}
	}
	if c.Name == "" || c.Keyword == "" {
		return model.ClassDefinition{}, false
	}
	return c, true
}

// Interface reads an interface declaration including its members.
func Interface(n *syntax.Node) (model.InterfaceDefinition, bool) {
	assertf(n != nil && n.Kind() == syntax.InterfaceDeclaration, "Interface called on %v", kindOf(n))
	if n == nil || n.Kind() != syntax.InterfaceDeclaration {
		return model.InterfaceDefinition{}, false
	}

	var i model.InterfaceDefinition
	for _, el := range n.Children() {
		switch el.Kind() {
		case syntax.PublicKeyword, syntax.PrivateKeyword, syntax.ProtectedKeyword,
			syntax.InternalKeyword, syntax.FileKeyword:
			i.Visibility = i.Visibility.Combine(visibilityOf(el.Kind()))
		case syntax.PartialKeyword:
			i.IsPartial = true
		case syntax.Identifier:
			i.Name = syntax.AsToken(el).ValueText()
		case syntax.TypeParameterList:
			i.TypeArguments = typeParameters(syntax.AsNode(el))
		case syntax.FieldDeclaration:
			for _, f := range Fields(syntax.AsNode(el)) {
				i.Members = append(i.Members, f)
			}
		case syntax.PropertyDeclaration, syntax.MethodDeclaration:
			if m, ok := Member(syntax.AsNode(el)); ok {
				i.Members = append(i.Members, m)
			}
		}
	}
	if i.Name == "" {
		return model.InterfaceDefinition{}, false
	}
	return i, true
}

// Member dispatches on the declaration kind. Fields yield their first
// declarator; use Fields for multi-variable declarations.
func Member(n *syntax.Node) (model.Member, bool) {
	if n == nil {
		return nil, false
	}
	switch n.Kind() {
	case syntax.FieldDeclaration:
		fields := Fields(n)
		if len(fields) == 0 {
			return nil, false
		}
		return fields[0], true
	case syntax.PropertyDeclaration:
		p, ok := Property(n)
		if !ok {
			return nil, false
		}
		return p, true
	case syntax.MethodDeclaration:
		m, ok := Method(n)
		if !ok {
			return nil, false
		}
		return m, true
	case syntax.Parameter:
		p, ok := Parameter(n)
		if !ok {
			return nil, false
		}
		return p, true
	}
	return nil, false
}

// Members reads every field, property and method declared directly in a type
// body, in source order.
func Members(n *syntax.Node) []model.Member {
	var out []model.Member
	for _, m := range n.Members() {
		switch m.Kind() {
		case syntax.FieldDeclaration:
			for _, f := range Fields(m) {
				out = append(out, f)
			}
		case syntax.PropertyDeclaration, syntax.MethodDeclaration:
			if def, ok := Member(m); ok {
				out = append(out, def)
			}
		}
	}
	return out
}

// Field reads the first variable of a field declaration.
func Field(n *syntax.Node) (model.FieldDefinition, bool) {
	fields := Fields(n)
	if len(fields) == 0 {
		return model.FieldDefinition{}, false
	}
	return fields[0], true
}

// Fields reads a field declaration, one definition per declared variable.
func Fields(n *syntax.Node) []model.FieldDefinition {
	assertf(n != nil && n.Kind() == syntax.FieldDeclaration, "Fields called on %v", kindOf(n))
	if n == nil || n.Kind() != syntax.FieldDeclaration {
		return nil
	}

	var base model.FieldDefinition
	var decl *syntax.Node
	for _, el := range n.Children() {
		switch el.Kind() {
		case syntax.PublicKeyword, syntax.PrivateKeyword, syntax.ProtectedKeyword,
			syntax.InternalKeyword, syntax.FileKeyword:
			base.Visibility = base.Visibility.Combine(visibilityOf(el.Kind()))
		case syntax.StaticKeyword, syntax.ConstKeyword:
			base.IsStatic = true
		case syntax.ReadonlyKeyword:
			base.IsReadonly = true
		case syntax.VariableDeclaration:
			decl = syntax.AsNode(el)
		}
	}
	if decl == nil {
		return nil
	}

	var out []model.FieldDefinition
	for _, el := range decl.Children() {
		switch {
		case el.Kind().IsType():
			base.Type = typeText(syntax.AsNode(el))
		case el.Kind() == syntax.VariableDeclarator:
			v := syntax.AsNode(el)
			f := base
			if id := v.Identifier(); id != nil {
				f.Name = id.ValueText()
			}
			f.DefaultValue = defaultValue(v.FirstChild(syntax.EqualsValueClause))
			if f.Name != "" && f.Type != "" {
				out = append(out, f)
			}
		}
	}
	return out
}

// Property reads a property declaration.
func Property(n *syntax.Node) (model.PropertyDefinition, bool) {
	assertf(n != nil && n.Kind() == syntax.PropertyDeclaration, "Property called on %v", kindOf(n))
	if n == nil || n.Kind() != syntax.PropertyDeclaration {
		return model.PropertyDefinition{}, false
	}

	var p model.PropertyDefinition
	for _, el := range n.Children() {
		switch k := el.Kind(); {
		case k.IsVisibility():
			p.Visibility = p.Visibility.Combine(visibilityOf(k))
		case k == syntax.StaticKeyword:
			p.IsStatic = true
		case k.IsType():
			p.Type = typeText(syntax.AsNode(el))
		case k == syntax.Identifier:
			p.Name = syntax.AsToken(el).ValueText()
		case k == syntax.AccessorList:
			p.GetterVisibility, p.Setter = accessors(syntax.AsNode(el))
		case k == syntax.ArrowExpressionClause:
			p.GetterVisibility = model.Some(model.VisibilityNone)
		case k == syntax.EqualsValueClause:
			p.DefaultValue = defaultValue(syntax.AsNode(el))
		}
	}
	if p.Name == "" || p.Type == "" {
		return model.PropertyDefinition{}, false
	}
	return p, true
}

func accessors(list *syntax.Node) (model.Option[model.Visibility], model.SetterVisibility) {
	getter := model.None[model.Visibility]()
	setter := model.NoSetter()
	for _, acc := range list.ChildrenOfKind(syntax.AccessorDeclaration) {
		vis := model.VisibilityNone
		for _, el := range acc.Children() {
			switch k := el.Kind(); {
			case k.IsVisibility():
				vis = vis.Combine(visibilityOf(k))
			case k == syntax.GetKeyword:
				getter = model.Some(vis)
			case k == syntax.SetKeyword:
				setter = model.SetterWith(vis)
			case k == syntax.InitKeyword:
				setter = model.InitSetter()
				setter.Visibility = vis
			}
		}
	}
	return getter, setter
}

// Method reads a method declaration.
func Method(n *syntax.Node) (model.MethodDefinition, bool) {
	assertf(n != nil && n.Kind() == syntax.MethodDeclaration, "Method called on %v", kindOf(n))
	if n == nil || n.Kind() != syntax.MethodDeclaration {
		return model.MethodDefinition{}, false
	}

	var m model.MethodDefinition
	for _, el := range n.Children() {
		switch k := el.Kind(); {
		case k.IsVisibility():
			m.Visibility = m.Visibility.Combine(visibilityOf(k))
		case k == syntax.StaticKeyword:
			m.IsStatic = true
		case k.IsType():
			m.Type = typeText(syntax.AsNode(el))
		case k == syntax.Identifier:
			m.Name = syntax.AsToken(el).ValueText()
		case k == syntax.TypeParameterList:
			m.TypeParameters = typeParameters(syntax.AsNode(el))
		case k == syntax.ParameterList:
			params, ok := Parameters(syntax.AsNode(el))
			if !ok {
				return model.MethodDefinition{}, false
			}
			m.Parameters = params
		}
	}
	if m.Name == "" || m.Type == "" {
		return model.MethodDefinition{}, false
	}
	return m, true
}

// Constructor reads a constructor declaration.
func Constructor(n *syntax.Node) (model.ConstructorDefinition, bool) {
	assertf(n != nil && n.Kind() == syntax.ConstructorDeclaration, "Constructor called on %v", kindOf(n))
	if n == nil || n.Kind() != syntax.ConstructorDeclaration {
		return model.ConstructorDefinition{}, false
	}

	var c model.ConstructorDefinition
	found := false
	for _, el := range n.Children() {
		switch k := el.Kind(); {
		case k.IsVisibility():
			c.Visibility = c.Visibility.Combine(visibilityOf(k))
		case k == syntax.ParameterList:
			params, ok := Parameters(syntax.AsNode(el))
			if !ok {
				return model.ConstructorDefinition{}, false
			}
			c.Parameters = params
			found = true
		}
	}
	return c, found
}

// Parameters reads every parameter of a parameter list. It fails if any
// parameter is malformed.
func Parameters(list *syntax.Node) ([]model.MethodParameterDefinition, bool) {
	var out []model.MethodParameterDefinition
	for _, pn := range list.ChildrenOfKind(syntax.Parameter) {
		p, ok := Parameter(pn)
		if !ok {
			return nil, false
		}
		out = append(out, p)
	}
	return out, true
}

// Parameter reads one parameter.
func Parameter(n *syntax.Node) (model.MethodParameterDefinition, bool) {
	assertf(n != nil && n.Kind() == syntax.Parameter, "Parameter called on %v", kindOf(n))
	if n == nil || n.Kind() != syntax.Parameter {
		return model.MethodParameterDefinition{}, false
	}

	var p model.MethodParameterDefinition
	for _, el := range n.Children() {
		switch k := el.Kind(); {
		case k == syntax.RefKeyword:
			p.ParameterKind = model.ParameterRef
		case k == syntax.ReadonlyKeyword && p.ParameterKind == model.ParameterRef:
			p.ParameterKind = model.ParameterRefReadonly
		case k == syntax.OutKeyword:
			p.ParameterKind = model.ParameterOut
		case k == syntax.InKeyword:
			p.ParameterKind = model.ParameterIn
		case k == syntax.ParamsKeyword:
			p.ParameterKind = model.ParameterParams
		case k == syntax.ThisKeyword:
			p.ParameterKind = model.ParameterThis
		case k.IsType():
			p.Type = typeText(syntax.AsNode(el))
		case k == syntax.Identifier:
			p.Name = syntax.AsToken(el).ValueText()
		case k == syntax.EqualsValueClause:
			p.DefaultValue = defaultValue(syntax.AsNode(el))
		}
	}
	if p.Name == "" || p.Type == "" {
		return model.MethodParameterDefinition{}, false
	}
	return p, true
}

// ContainingClasses returns the type declarations enclosing n, outermost
// first. A containing declaration that cannot be read ends the chain there.
func ContainingClasses(n *syntax.Node) ([]model.ClassDefinition, bool) {
	var chain []model.ClassDefinition
	for _, anc := range n.Ancestors() {
		if !anc.Kind().IsTypeDeclaration() {
			continue
		}
		c, ok := Class(anc)
		if !ok {
			return nil, false
		}
		chain = append(chain, c)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, true
}

// Namespace returns the dotted namespace enclosing n, or "" for the global
// namespace.
func Namespace(n *syntax.Node) string {
	var parts []string
	for _, anc := range n.Ancestors() {
		switch anc.Kind() {
		case syntax.NamespaceDeclaration, syntax.FileScopedNamespaceDeclaration:
			if name := anc.TypeNode(); name != nil {
				parts = append(parts, compact(name.Text()))
			}
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

func typeParameters(list *syntax.Node) []string {
	var out []string
	for _, tp := range list.ChildrenOfKind(syntax.TypeParameter) {
		if id := tp.Identifier(); id != nil {
			out = append(out, id.ValueText())
		}
	}
	return out
}

func baseTypes(list *syntax.Node) []string {
	var out []string
	for _, b := range list.ChildrenOfKind(syntax.SimpleBaseType) {
		if t := b.TypeNode(); t != nil {
			out = append(out, typeText(t))
		}
	}
	return out
}

// typeText is the raw source span of a type, so nested generic arguments are
// kept exactly as written.
func typeText(n *syntax.Node) string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.Text())
}

func defaultValue(clause *syntax.Node) model.Option[string] {
	if clause == nil {
		return model.None[string]()
	}
	expr := clause.FirstChild(syntax.Expression)
	if expr == nil {
		return model.None[string]()
	}
	text := strings.TrimSpace(expr.Text())
	if text == "" {
		return model.None[string]()
	}
	return model.Some(text)
}

func visibilityOf(k syntax.Kind) model.Visibility {
	switch k {
	case syntax.PublicKeyword:
		return model.Public
	case syntax.PrivateKeyword:
		return model.Private
	case syntax.ProtectedKeyword:
		return model.Protected
	case syntax.InternalKeyword:
		return model.Internal
	case syntax.FileKeyword:
		return model.File
	}
	return model.VisibilityNone
}

// compact removes whitespace inside a dotted name.
func compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func kindOf(n *syntax.Node) syntax.Kind {
	if n == nil {
		return syntax.KindNone
	}
	return n.Kind()
}
