package semantic

import (
	"strings"
	"unicode"

	"github.com/okra-platform/forja/internal/model"
	"github.com/okra-platform/forja/internal/syntax"
)

// entity is the result of a name lookup: a namespace or a type.
type entity struct {
	ns  *Namespace
	typ Type
}

func (e entity) ok() bool {
	return e.ns != nil || e.typ != nil
}

// level is one namespace scope with the using directives declared at it.
type level struct {
	ns     *Namespace
	usings []*syntax.Node
}

// scope is the lookup context for a type reference.
type scope struct {
	levels         []level // innermost first
	typeParameters []*TypeParameter
	containing     *NamedType
	noAliases      bool
}

type binder struct {
	c *Compilation
}

// bindUsings resolves using-namespace and alias targets once, from the global
// namespace, before any other binding.
func (b *binder) bindUsings() {
	global := &scope{levels: []level{{ns: b.c.Global}}, noAliases: true}
	for _, t := range b.c.Trees {
		for _, u := range t.Usings() {
			target := u.TypeNode()
			if target == nil || u.HasToken(syntax.StaticKeyword) {
				continue
			}
			e := b.resolveName(target, global)
			if u.FirstChild(syntax.NameEquals) != nil {
				if e.ok() {
					b.c.aliasTargets[u] = e
				}
				continue
			}
			if e.ns != nil {
				b.c.usingTargets[u] = e.ns
			}
		}
	}
}

func (b *binder) bindTypeHeader(t *NamedType) {
	for _, d := range t.Declarations {
		vis := model.VisibilityNone
		for _, el := range d.Node.Children() {
			switch k := el.Kind(); {
			case k.IsVisibility():
				vis = vis.Combine(visibilityOf(k))
			case k == syntax.StaticKeyword:
				t.IsStatic = true
			case k == syntax.AbstractKeyword:
				t.IsAbstract = true
			case k == syntax.SealedKeyword:
				t.IsSealed = true
			}
		}
		if t.DeclaredAccessibility == model.VisibilityNone {
			t.DeclaredAccessibility = vis
		}
		if t.TypeParameters == nil {
			if tpl := d.Node.FirstChild(syntax.TypeParameterList); tpl != nil {
				t.TypeParameters = typeParameters(tpl)
			}
		}
	}
}

func (b *binder) bindBases(t *NamedType) {
	seen := map[string]bool{}
	for _, d := range t.Declarations {
		list := d.Node.FirstChild(syntax.BaseList)
		if list == nil {
			continue
		}
		s := b.typeScope(t, d.Node)
		for i, base := range list.ChildrenOfKind(syntax.SimpleBaseType) {
			tn := base.TypeNode()
			if tn == nil {
				continue
			}
			rt := b.resolveType(tn, s)
			if t.BaseType == nil && i == 0 && t.TypeKind.IsClassLike() && isBaseClass(rt) {
				t.BaseType = rt
				continue
			}
			key := rt.String()
			if !seen[key] {
				seen[key] = true
				t.Interfaces = append(t.Interfaces, rt)
			}
		}
	}
}

// isBaseClass decides whether the first base list entry is a class. An
// unresolved entry counts as a class unless it follows the I-prefix naming
// convention for interfaces.
func isBaseClass(t Type) bool {
	if def, ok := Definition(t); ok {
		return def.TypeKind.IsClassLike()
	}
	if e, ok := t.(*ErrorType); ok {
		return !looksLikeInterface(e.Text)
	}
	return IsObject(t)
}

func looksLikeInterface(text string) bool {
	name := text
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexAny(name, ".:"); i >= 0 {
		name = name[i+1:]
	}
	r := []rune(name)
	return len(r) >= 2 && r[0] == 'I' && unicode.IsUpper(r[1])
}

func (b *binder) bindMembers(t *NamedType) {
	for _, d := range t.Declarations {
		s := b.typeScope(t, d.Node)
		for _, m := range d.Node.Members() {
			switch m.Kind() {
			case syntax.FieldDeclaration:
				for _, f := range b.bindFields(t, d, m, s) {
					t.Fields = append(t.Fields, f)
					t.members = append(t.members, f)
				}
			case syntax.PropertyDeclaration:
				if p := b.bindProperty(t, d, m, s); p != nil {
					t.Properties = append(t.Properties, p)
					t.members = append(t.members, p)
				}
			case syntax.MethodDeclaration:
				if mt := b.bindMethod(t, d, m, s); mt != nil {
					t.Methods = append(t.Methods, mt)
					t.members = append(t.members, mt)
				}
			case syntax.ConstructorDeclaration:
				if ct := b.bindConstructor(t, d, m, s); ct != nil {
					t.Constructors = append(t.Constructors, ct)
					t.members = append(t.members, ct)
				}
			}
		}
	}
}

type modifiers struct {
	vis                          model.Visibility
	static, readonly, cnst, abst bool
}

func readModifiers(n *syntax.Node) modifiers {
	var m modifiers
	for _, el := range n.Children() {
		switch k := el.Kind(); {
		case k.IsVisibility():
			m.vis = m.vis.Combine(visibilityOf(k))
		case k == syntax.StaticKeyword:
			m.static = true
		case k == syntax.ConstKeyword:
			m.cnst = true
			m.static = true
		case k == syntax.ReadonlyKeyword:
			m.readonly = true
		case k == syntax.AbstractKeyword:
			m.abst = true
		}
	}
	return m
}

func (b *binder) bindFields(t *NamedType, d Declaration, n *syntax.Node, s *scope) []*Field {
	decl := n.FirstChild(syntax.VariableDeclaration)
	if decl == nil || decl.TypeNode() == nil {
		return nil
	}
	mods := readModifiers(n)
	typ := b.resolveType(decl.TypeNode(), s)

	var out []*Field
	for _, v := range decl.ChildrenOfKind(syntax.VariableDeclarator) {
		id := v.Identifier()
		if id == nil {
			continue
		}
		f := &Field{
			MemberBase: MemberBase{
				Name:                  id.ValueText(),
				DeclaredAccessibility: mods.vis,
				IsStatic:              mods.static,
				ContainingType:        t,
				Syntax:                n,
				Declaration:           d,
			},
			Type:        typ,
			IsReadonly:  mods.readonly,
			IsConst:     mods.cnst,
			Initializer: initializer(v.FirstChild(syntax.EqualsValueClause)),
			Declarator:  v,
		}
		b.c.declared[v] = f
		out = append(out, f)
	}
	return out
}

func (b *binder) bindProperty(t *NamedType, d Declaration, n *syntax.Node, s *scope) *Property {
	id := n.Identifier()
	tn := n.TypeNode()
	if id == nil || tn == nil {
		return nil
	}
	mods := readModifiers(n)
	p := &Property{
		MemberBase: MemberBase{
			Name:                  id.ValueText(),
			DeclaredAccessibility: mods.vis,
			IsStatic:              mods.static,
			ContainingType:        t,
			Syntax:                n,
			Declaration:           d,
		},
		Type:                     b.resolveType(tn, s),
		Initializer:              initializer(n.FirstChild(syntax.EqualsValueClause)),
		IsExplicitImplementation: n.FirstChild(syntax.ExplicitInterfaceSpecifier) != nil,
	}
	if n.FirstChild(syntax.ArrowExpressionClause) != nil {
		p.Getter = &Accessor{}
	}
	if list := n.FirstChild(syntax.AccessorList); list != nil {
		for _, acc := range list.ChildrenOfKind(syntax.AccessorDeclaration) {
			a := &Accessor{DeclaredAccessibility: readModifiers(acc).vis}
			switch {
			case acc.HasToken(syntax.GetKeyword):
				p.Getter = a
			case acc.HasToken(syntax.SetKeyword):
				p.Setter = a
			case acc.HasToken(syntax.InitKeyword):
				a.IsInit = true
				p.Setter = a
			}
		}
	}
	b.c.declared[n] = p
	return p
}

func (b *binder) bindMethod(t *NamedType, d Declaration, n *syntax.Node, s *scope) *Method {
	id := n.Identifier()
	tn := n.TypeNode()
	if id == nil || tn == nil {
		return nil
	}
	mods := readModifiers(n)
	m := &Method{
		MemberBase: MemberBase{
			Name:                  id.ValueText(),
			DeclaredAccessibility: mods.vis,
			IsStatic:              mods.static,
			ContainingType:        t,
			Syntax:                n,
			Declaration:           d,
		},
		IsAbstract:               mods.abst || (t.TypeKind == Interface && n.FirstChild(syntax.Block) == nil && n.FirstChild(syntax.ArrowExpressionClause) == nil),
		IsExplicitImplementation: n.FirstChild(syntax.ExplicitInterfaceSpecifier) != nil,
	}
	ms := s
	if tpl := n.FirstChild(syntax.TypeParameterList); tpl != nil {
		m.TypeParameters = typeParameters(tpl)
		inner := *s
		inner.typeParameters = m.TypeParameters
		ms = &inner
	}
	m.ReturnType = b.resolveType(tn, ms)
	m.Parameters = b.bindParameters(n.FirstChild(syntax.ParameterList), ms)
	b.c.declared[n] = m
	return m
}

func (b *binder) bindConstructor(t *NamedType, d Declaration, n *syntax.Node, s *scope) *Method {
	mods := readModifiers(n)
	m := &Method{
		MemberBase: MemberBase{
			Name:                  t.Name,
			DeclaredAccessibility: mods.vis,
			IsStatic:              mods.static,
			ContainingType:        t,
			Syntax:                n,
			Declaration:           d,
		},
		IsConstructor: true,
	}
	m.Parameters = b.bindParameters(n.FirstChild(syntax.ParameterList), s)
	b.c.declared[n] = m
	return m
}

func (b *binder) bindParameters(list *syntax.Node, s *scope) []*Parameter {
	if list == nil {
		return nil
	}
	var out []*Parameter
	for i, pn := range list.ChildrenOfKind(syntax.Parameter) {
		p := &Parameter{Ordinal: i, Syntax: pn}
		for _, el := range pn.Children() {
			switch k := el.Kind(); {
			case k == syntax.RefKeyword:
				p.RefKind = model.ParameterRef
			case k == syntax.ReadonlyKeyword && p.RefKind == model.ParameterRef:
				p.RefKind = model.ParameterRefReadonly
			case k == syntax.OutKeyword:
				p.RefKind = model.ParameterOut
			case k == syntax.InKeyword:
				p.RefKind = model.ParameterIn
			case k == syntax.ParamsKeyword:
				p.RefKind = model.ParameterParams
			case k == syntax.ThisKeyword:
				p.RefKind = model.ParameterThis
			case k.IsType():
				p.Type = b.resolveType(syntax.AsNode(el), s)
			case k == syntax.Identifier:
				p.Name = syntax.AsToken(el).ValueText()
			case k == syntax.EqualsValueClause:
				p.Default = initializer(syntax.AsNode(el))
			}
		}
		if p.Type == nil {
			p.Type = &ErrorType{}
		}
		b.c.declared[pn] = p
		out = append(out, p)
	}
	return out
}

func typeParameters(list *syntax.Node) []*TypeParameter {
	var out []*TypeParameter
	for i, tp := range list.ChildrenOfKind(syntax.TypeParameter) {
		id := tp.Identifier()
		if id == nil {
			continue
		}
		p := &TypeParameter{Name: id.ValueText(), Ordinal: i}
		switch {
		case tp.HasToken(syntax.InKeyword):
			p.Variance = "in"
		case tp.HasToken(syntax.OutKeyword):
			p.Variance = "out"
		}
		out = append(out, p)
	}
	return out
}

func initializer(clause *syntax.Node) model.Option[string] {
	if clause == nil {
		return model.None[string]()
	}
	expr := clause.FirstChild(syntax.Expression)
	if expr == nil || strings.TrimSpace(expr.Text()) == "" {
		return model.None[string]()
	}
	return model.Some(strings.TrimSpace(expr.Text()))
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

// typeScope builds the lookup context for references inside decl, a
// declaration fragment of t.
func (b *binder) typeScope(t *NamedType, decl *syntax.Node) *scope {
	return &scope{levels: b.levels(decl), containing: t}
}

// levels lists the namespace scopes enclosing n, innermost first.
func (b *binder) levels(n *syntax.Node) []level {
	var decls []*syntax.Node
	var unit *syntax.Node
	for _, anc := range n.Ancestors() {
		switch anc.Kind() {
		case syntax.NamespaceDeclaration, syntax.FileScopedNamespaceDeclaration:
			decls = append(decls, anc)
		case syntax.CompilationUnit:
			unit = anc
		}
	}

	out := []level{{ns: b.c.Global, usings: usingsOf(unit)}}
	ns := b.c.Global
	for i := len(decls) - 1; i >= 0; i-- {
		name := decls[i].TypeNode()
		if name == nil {
			continue
		}
		segs := splitDotted(name.Text())
		for j, seg := range segs {
			child, ok := ns.Namespace(seg)
			if !ok {
				break
			}
			ns = child
			lv := level{ns: ns}
			if j == len(segs)-1 {
				lv.usings = usingsOf(decls[i])
			}
			out = append(out, lv)
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func usingsOf(n *syntax.Node) []*syntax.Node {
	if n == nil {
		return nil
	}
	return n.ChildrenOfKind(syntax.UsingDirective)
}

// resolveType binds a type syntax node. Unresolvable references become
// error types carrying their source text.
func (b *binder) resolveType(n *syntax.Node, s *scope) Type {
	switch n.Kind() {
	case syntax.PredefinedType:
		return &PredefinedType{Keyword: n.Text()}
	case syntax.ArrayType:
		kids := n.ChildNodes()
		if len(kids) != 2 {
			break
		}
		rank := 1
		for _, el := range kids[1].Children() {
			if el.Kind() == syntax.Comma {
				rank++
			}
		}
		return &ArrayType{Element: b.resolveType(kids[0], s), Rank: rank}
	case syntax.NullableType:
		if kids := n.ChildNodes(); len(kids) == 1 {
			return &NullableType{Element: b.resolveType(kids[0], s)}
		}
	case syntax.PointerType:
		if kids := n.ChildNodes(); len(kids) == 1 {
			return &PointerType{Element: b.resolveType(kids[0], s)}
		}
	case syntax.TupleType:
		var elems []TupleElement
		for _, te := range n.ChildrenOfKind(syntax.TupleElement) {
			tn := te.TypeNode()
			if tn == nil {
				continue
			}
			el := TupleElement{Type: b.resolveType(tn, s)}
			if id := te.Identifier(); id != nil {
				el.Name = id.ValueText()
			}
			elems = append(elems, el)
		}
		return &TupleType{Elements: elems}
	case syntax.IdentifierName, syntax.GenericName, syntax.QualifiedName, syntax.AliasQualifiedName:
		if e := b.resolveName(n, s); e.typ != nil {
			return e.typ
		}
	}
	return &ErrorType{Text: strings.TrimSpace(n.Text())}
}

// resolveName binds a possibly qualified name to a namespace or type.
func (b *binder) resolveName(n *syntax.Node, s *scope) entity {
	switch n.Kind() {
	case syntax.IdentifierName:
		id := n.Identifier()
		if id == nil {
			return entity{}
		}
		return b.lookup(id.ValueText(), nil, s)
	case syntax.GenericName:
		id := n.Identifier()
		if id == nil {
			return entity{}
		}
		return b.lookup(id.ValueText(), b.typeArguments(n, s), s)
	case syntax.QualifiedName:
		kids := n.ChildNodes()
		if len(kids) != 2 {
			return entity{}
		}
		left := b.resolveName(kids[0], s)
		if !left.ok() {
			return entity{}
		}
		return b.member(left, kids[1], s)
	case syntax.AliasQualifiedName:
		kids := n.ChildNodes()
		if len(kids) != 2 {
			return entity{}
		}
		var left entity
		if kids[0].FirstToken(syntax.GlobalKeyword) != nil {
			left = entity{ns: b.c.Global}
		} else if id := kids[0].Identifier(); id != nil {
			left = b.alias(id.ValueText(), s)
		}
		if left.ns == nil {
			return entity{}
		}
		return b.member(left, kids[1], s)
	}
	return entity{}
}

func (b *binder) typeArguments(n *syntax.Node, s *scope) []Type {
	list := n.FirstChild(syntax.TypeArgumentList)
	if list == nil {
		return nil
	}
	var args []Type
	for _, a := range list.ChildNodes() {
		if a.Kind().IsType() {
			args = append(args, b.resolveType(a, s))
		}
	}
	return args
}

// member resolves the simple name right inside left.
func (b *binder) member(left entity, right *syntax.Node, s *scope) entity {
	id := right.Identifier()
	if id == nil {
		return entity{}
	}
	name := id.ValueText()
	var args []Type
	if right.Kind() == syntax.GenericName {
		args = b.typeArguments(right, s)
	}
	if left.ns != nil {
		if t, ok := left.ns.Type(name, len(args)); ok {
			return entity{typ: construct(t, args)}
		}
		if len(args) == 0 {
			if ns, ok := left.ns.Namespace(name); ok {
				return entity{ns: ns}
			}
		}
		return entity{}
	}
	if def, ok := Definition(left.typ); ok {
		if t, ok := def.NestedType(name, len(args)); ok {
			return entity{typ: construct(t, args)}
		}
	}
	return entity{}
}

// lookup resolves a simple name through type parameters, containing types,
// enclosing namespaces, aliases and using namespaces, innermost first.
func (b *binder) lookup(name string, args []Type, s *scope) entity {
	arity := len(args)
	if arity == 0 {
		for _, tp := range s.typeParameters {
			if tp.Name == name {
				return entity{typ: tp}
			}
		}
	}
	for c := s.containing; c != nil; c = c.ContainingType {
		if arity == 0 {
			for _, tp := range c.TypeParameters {
				if tp.Name == name {
					return entity{typ: tp}
				}
			}
		}
		if t, ok := c.NestedType(name, arity); ok {
			return entity{typ: construct(t, args)}
		}
		if c.Name == name && c.Arity() == arity {
			return entity{typ: construct(c, args)}
		}
	}
	for _, lv := range s.levels {
		if t, ok := lv.ns.Type(name, arity); ok {
			return entity{typ: construct(t, args)}
		}
		if arity == 0 {
			if ns, ok := lv.ns.Namespace(name); ok {
				return entity{ns: ns}
			}
			if !s.noAliases {
				if e, ok := b.aliasAt(lv, name); ok {
					return e
				}
			}
		}
		for _, u := range lv.usings {
			if ns, ok := b.c.usingTargets[u]; ok {
				if t, ok := ns.Type(name, arity); ok {
					return entity{typ: construct(t, args)}
				}
			}
		}
	}
	return entity{}
}

func (b *binder) alias(name string, s *scope) entity {
	for _, lv := range s.levels {
		if e, ok := b.aliasAt(lv, name); ok {
			return e
		}
	}
	return entity{}
}

func (b *binder) aliasAt(lv level, name string) (entity, bool) {
	for _, u := range lv.usings {
		eq := u.FirstChild(syntax.NameEquals)
		if eq == nil || eq.Identifier() == nil || eq.Identifier().ValueText() != name {
			continue
		}
		e, ok := b.c.aliasTargets[u]
		return e, ok
	}
	return entity{}, false
}

func construct(t *NamedType, args []Type) Type {
	if len(args) == 0 {
		return t
	}
	return &ConstructedType{Definition: t, Arguments: args}
}
