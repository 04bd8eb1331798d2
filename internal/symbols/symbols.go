// Package symbols converts resolved symbols into model values. It is used
// where syntax alone is not enough: inherited members, members spread over
// several partial fragments, and fully qualified type names.
package symbols

import (
	"strings"

	"github.com/okra-platform/forja/internal/model"
	"github.com/okra-platform/forja/internal/semantic"
)

// FormatType renders t as a reference that is valid anywhere in generated
// source: global::Ns.Type<Ns2.Arg>. Predefined keywords are unchanged, open
// type parameters stay bare and unresolved references keep their text.
func FormatType(t semantic.Type) string {
	return format(t, true)
}

func format(t semantic.Type, top bool) string {
	switch v := t.(type) {
	case nil:
		return ""
	case *semantic.PredefinedType:
		return v.Keyword
	case *semantic.TypeParameter:
		return v.Name
	case *semantic.NamedType:
		return prefix(top) + v.QualifiedName()
	case *semantic.ConstructedType:
		args := make([]string, len(v.Arguments))
		for i, a := range v.Arguments {
			args[i] = format(a, false)
		}
		return prefix(top) + v.Definition.QualifiedName() + "<" + strings.Join(args, ", ") + ">"
	case *semantic.ArrayType:
		return format(v.Element, top) + "[" + strings.Repeat(",", v.Rank-1) + "]"
	case *semantic.NullableType:
		return format(v.Element, top) + "?"
	case *semantic.PointerType:
		return format(v.Element, top) + "*"
	case *semantic.TupleType:
		parts := make([]string, len(v.Elements))
		for i, e := range v.Elements {
			parts[i] = format(e.Type, top)
			if e.Name != "" {
				parts[i] += " " + e.Name
			}
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *semantic.ErrorType:
		return v.Text
	}
	return t.String()
}

func prefix(top bool) string {
	if top {
		return "global::"
	}
	return ""
}

// Substitution maps the type parameters of a generic base to the arguments
// supplied by a derived type.
type Substitution struct {
	Parameters []*semantic.TypeParameter
	Arguments  []semantic.Type
}

func (s Substitution) apply(t semantic.Type) semantic.Type {
	return semantic.Substitute(t, s.Parameters, s.Arguments)
}

// Member converts a member symbol. Constructors are not members in the model
// and yield false.
func Member(sym semantic.Member) (model.Member, bool) {
	return MemberWith(sym, Substitution{})
}

// MemberWith converts a member symbol after applying sub to its types.
func MemberWith(sym semantic.Member, sub Substitution) (model.Member, bool) {
	switch v := sym.(type) {
	case *semantic.Field:
		return model.FieldDefinition{
			MemberCommon: common(&v.MemberBase, sub.apply(v.Type)),
			IsReadonly:   v.IsReadonly,
			DefaultValue: v.Initializer,
		}, true
	case *semantic.Property:
		p := model.PropertyDefinition{
			MemberCommon: common(&v.MemberBase, sub.apply(v.Type)),
			Setter:       model.NoSetter(),
			DefaultValue: v.Initializer,
		}
		if v.Getter != nil {
			p.GetterVisibility = model.Some(v.Getter.DeclaredAccessibility)
		}
		if v.Setter != nil {
			if v.Setter.IsInit {
				p.Setter = model.InitSetter()
				p.Setter.Visibility = v.Setter.DeclaredAccessibility
			} else {
				p.Setter = model.SetterWith(v.Setter.DeclaredAccessibility)
			}
		}
		return p, true
	case *semantic.Method:
		if v.IsConstructor {
			return nil, false
		}
		m := model.MethodDefinition{
			MemberCommon: common(&v.MemberBase, sub.apply(v.ReturnType)),
			Parameters:   Parameters(v.Parameters, sub),
		}
		for _, tp := range v.TypeParameters {
			m.TypeParameters = append(m.TypeParameters, tp.Name)
		}
		return m, true
	}
	return nil, false
}

func common(b *semantic.MemberBase, t semantic.Type) model.MemberCommon {
	return model.MemberCommon{
		Visibility: b.Accessibility(),
		IsStatic:   b.IsStatic,
		Type:       FormatType(t),
		Name:       b.Name,
	}
}

// Parameters converts parameter symbols.
func Parameters(params []*semantic.Parameter, sub Substitution) []model.MethodParameterDefinition {
	var out []model.MethodParameterDefinition
	for _, p := range params {
		out = append(out, Parameter(p, sub))
	}
	return out
}

// Parameter converts one parameter symbol.
func Parameter(p *semantic.Parameter, sub Substitution) model.MethodParameterDefinition {
	return model.MethodParameterDefinition{
		MemberCommon: model.MemberCommon{
			Type: FormatType(sub.apply(p.Type)),
			Name: p.Name,
		},
		ParameterKind: p.RefKind,
		DefaultValue:  p.Default,
	}
}

// Class converts a named type. Interfaces are fully qualified.
func Class(t *semantic.NamedType) model.ClassDefinition {
	c := model.ClassDefinition{
		Visibility: t.Accessibility(),
		IsStatic:   t.IsStatic,
		IsPartial:  t.IsPartial(),
		IsAbstract: t.IsAbstract,
		Keyword:    t.TypeKind.String(),
		Name:       t.Name,
	}
	for _, tp := range t.TypeParameters {
		c.TypeArguments = append(c.TypeArguments, tp.Name)
	}
	for _, i := range t.Interfaces {
		c.Interfaces = append(c.Interfaces, FormatType(i))
	}
	for _, ctor := range t.Constructors {
		c.Constructors = append(c.Constructors, model.ConstructorDefinition{
			Visibility: ctor.Accessibility(),
			Parameters: Parameters(ctor.Parameters, Substitution{}),
		})
	}
	return c
}

// ContainingClasses converts the containing chain of t, outermost first.
func ContainingClasses(t *semantic.NamedType) []model.ClassDefinition {
	var out []model.ClassDefinition
	for _, c := range t.ContainingTypes() {
		out = append(out, Class(c))
	}
	return out
}

// Interface converts an interface symbol with its property and method
// members.
func Interface(t *semantic.NamedType) model.InterfaceDefinition {
	i := model.InterfaceDefinition{
		Visibility: t.Accessibility(),
		IsPartial:  t.IsPartial(),
		Name:       t.Name,
	}
	for _, tp := range t.TypeParameters {
		i.TypeArguments = append(i.TypeArguments, tp.Name)
	}
	for _, m := range t.Members() {
		if def, ok := Member(m); ok {
			i.Members = append(i.Members, def)
		}
	}
	return i
}

// ImplementedInterfaces returns the resolved interfaces t declares that are
// part of the compilation.
func ImplementedInterfaces(t *semantic.NamedType) []*semantic.NamedType {
	var out []*semantic.NamedType
	for _, i := range t.Interfaces {
		if def, ok := semantic.Definition(i); ok && def.TypeKind == semantic.Interface {
			out = append(out, def)
		}
	}
	return out
}
