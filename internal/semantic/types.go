package semantic

import (
	"strings"
)

// Type is a resolved type reference.
type Type interface {
	// String renders a namespace-qualified display form without global::.
	String() string
	isType()
}

// PredefinedType is a built-in keyword type such as int or string.
type PredefinedType struct {
	Keyword string
}

func (t *PredefinedType) String() string { return t.Keyword }
func (*PredefinedType) isType()          {}

// IsObject reports whether t is the universal root type.
func IsObject(t Type) bool {
	switch v := t.(type) {
	case *PredefinedType:
		return v.Keyword == "object"
	case *ErrorType:
		switch v.Text {
		case "Object", "System.Object", "global::System.Object":
			return true
		}
	}
	return false
}

// ConstructedType is a generic type definition applied to type arguments.
type ConstructedType struct {
	Definition *NamedType
	Arguments  []Type
}

func (t *ConstructedType) String() string {
	args := make([]string, len(t.Arguments))
	for i, a := range t.Arguments {
		args[i] = a.String()
	}
	return t.Definition.QualifiedName() + "<" + strings.Join(args, ", ") + ">"
}
func (*ConstructedType) isType() {}

// ArrayType is an array of an element type.
type ArrayType struct {
	Element Type
	Rank    int
}

func (t *ArrayType) String() string {
	return t.Element.String() + "[" + strings.Repeat(",", t.Rank-1) + "]"
}
func (*ArrayType) isType() {}

// NullableType is T? for a value or reference type.
type NullableType struct {
	Element Type
}

func (t *NullableType) String() string { return t.Element.String() + "?" }
func (*NullableType) isType()          {}

// PointerType is T*.
type PointerType struct {
	Element Type
}

func (t *PointerType) String() string { return t.Element.String() + "*" }
func (*PointerType) isType()          {}

// TupleElement is one element of a tuple type.
type TupleElement struct {
	Type Type
	Name string
}

// TupleType is (T1 a, T2 b).
type TupleType struct {
	Elements []TupleElement
}

func (t *TupleType) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.Type.String()
		if e.Name != "" {
			parts[i] += " " + e.Name
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (*TupleType) isType() {}

// ErrorType is a reference that could not be resolved. It keeps the source
// text it was written with.
type ErrorType struct {
	Text string
}

func (t *ErrorType) String() string { return t.Text }
func (*ErrorType) isType()          {}

// Substitute replaces type parameters of owner with the matching arguments.
func Substitute(t Type, params []*TypeParameter, args []Type) Type {
	if len(params) == 0 || t == nil {
		return t
	}
	switch v := t.(type) {
	case *TypeParameter:
		for i, p := range params {
			if p == v && i < len(args) {
				return args[i]
			}
		}
		return v
	case *ConstructedType:
		out := make([]Type, len(v.Arguments))
		for i, a := range v.Arguments {
			out[i] = Substitute(a, params, args)
		}
		return &ConstructedType{Definition: v.Definition, Arguments: out}
	case *ArrayType:
		return &ArrayType{Element: Substitute(v.Element, params, args), Rank: v.Rank}
	case *NullableType:
		return &NullableType{Element: Substitute(v.Element, params, args)}
	case *PointerType:
		return &PointerType{Element: Substitute(v.Element, params, args)}
	case *TupleType:
		out := make([]TupleElement, len(v.Elements))
		for i, e := range v.Elements {
			out[i] = TupleElement{Type: Substitute(e.Type, params, args), Name: e.Name}
		}
		return &TupleType{Elements: out}
	}
	return t
}

// Definition returns the named type behind t, unwrapping construction.
func Definition(t Type) (*NamedType, bool) {
	switch v := t.(type) {
	case *NamedType:
		return v, true
	case *ConstructedType:
		return v.Definition, true
	}
	return nil, false
}
