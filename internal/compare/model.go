package compare

import (
	"github.com/okra-platform/forja/internal/model"
)

// Common compares the fields shared by every member.
var Common = Comparer[model.MemberCommon]{
	Equal: func(a, b model.MemberCommon) bool {
		return a.Visibility == b.Visibility &&
			a.IsStatic == b.IsStatic &&
			a.Type == b.Type &&
			a.Name == b.Name
	},
	Hash: func(v model.MemberCommon) uint64 {
		return newHasher().
			u64(uint64(v.Visibility)).
			boolean(v.IsStatic).
			str(v.Type).
			str(v.Name).
			sum()
	},
}

// Field compares field definitions.
var Field = Comparer[model.FieldDefinition]{
	Equal: func(a, b model.FieldDefinition) bool {
		return Common.Equal(a.MemberCommon, b.MemberCommon) &&
			a.IsReadonly == b.IsReadonly &&
			OptionalString.Equal(a.DefaultValue, b.DefaultValue)
	},
	Hash: func(v model.FieldDefinition) uint64 {
		return newHasher().
			u64(Common.Hash(v.MemberCommon)).
			boolean(v.IsReadonly).
			u64(OptionalString.Hash(v.DefaultValue)).
			sum()
	},
}

// Setter compares setter states.
var Setter = Comparer[model.SetterVisibility]{
	Equal: func(a, b model.SetterVisibility) bool {
		return a.State == b.State && a.Visibility == b.Visibility
	},
	Hash: func(v model.SetterVisibility) uint64 {
		return newHasher().u64(uint64(v.State)).u64(uint64(v.Visibility)).sum()
	},
}

var optionalVisibility = OptionOf(Visibility)

// Property compares property definitions.
var Property = Comparer[model.PropertyDefinition]{
	Equal: func(a, b model.PropertyDefinition) bool {
		return Common.Equal(a.MemberCommon, b.MemberCommon) &&
			optionalVisibility.Equal(a.GetterVisibility, b.GetterVisibility) &&
			Setter.Equal(a.Setter, b.Setter) &&
			OptionalString.Equal(a.DefaultValue, b.DefaultValue)
	},
	Hash: func(v model.PropertyDefinition) uint64 {
		return newHasher().
			u64(Common.Hash(v.MemberCommon)).
			u64(optionalVisibility.Hash(v.GetterVisibility)).
			u64(Setter.Hash(v.Setter)).
			u64(OptionalString.Hash(v.DefaultValue)).
			sum()
	},
}

// Parameter compares method parameters.
var Parameter = Comparer[model.MethodParameterDefinition]{
	Equal: func(a, b model.MethodParameterDefinition) bool {
		return Common.Equal(a.MemberCommon, b.MemberCommon) &&
			a.ParameterKind == b.ParameterKind &&
			OptionalString.Equal(a.DefaultValue, b.DefaultValue)
	},
	Hash: func(v model.MethodParameterDefinition) uint64 {
		return newHasher().
			u64(Common.Hash(v.MemberCommon)).
			u64(uint64(v.ParameterKind)).
			u64(OptionalString.Hash(v.DefaultValue)).
			sum()
	},
}

// Parameters compares ordered parameter lists.
var Parameters = SliceOf(Parameter)

// Method compares method definitions.
var Method = Comparer[model.MethodDefinition]{
	Equal: func(a, b model.MethodDefinition) bool {
		return Common.Equal(a.MemberCommon, b.MemberCommon) &&
			Strings.Equal(a.TypeParameters, b.TypeParameters) &&
			Parameters.Equal(a.Parameters, b.Parameters)
	},
	Hash: func(v model.MethodDefinition) uint64 {
		return newHasher().
			u64(Common.Hash(v.MemberCommon)).
			u64(Strings.Hash(v.TypeParameters)).
			u64(Parameters.Hash(v.Parameters)).
			sum()
	},
}

// Member dispatches on the member variant. Members of different kinds are
// never equal.
var Member = Comparer[model.Member]{
	Equal: func(a, b model.Member) bool {
		if a == nil || b == nil {
			return a == nil && b == nil
		}
		switch av := a.(type) {
		case model.FieldDefinition:
			bv, ok := b.(model.FieldDefinition)
			return ok && Field.Equal(av, bv)
		case model.PropertyDefinition:
			bv, ok := b.(model.PropertyDefinition)
			return ok && Property.Equal(av, bv)
		case model.MethodDefinition:
			bv, ok := b.(model.MethodDefinition)
			return ok && Method.Equal(av, bv)
		case model.MethodParameterDefinition:
			bv, ok := b.(model.MethodParameterDefinition)
			return ok && Parameter.Equal(av, bv)
		}
		return false
	},
	Hash: func(v model.Member) uint64 {
		if v == nil {
			return 0
		}
		h := newHasher().u64(uint64(v.Kind()))
		switch m := v.(type) {
		case model.FieldDefinition:
			h.u64(Field.Hash(m))
		case model.PropertyDefinition:
			h.u64(Property.Hash(m))
		case model.MethodDefinition:
			h.u64(Method.Hash(m))
		case model.MethodParameterDefinition:
			h.u64(Parameter.Hash(m))
		}
		return h.sum()
	},
}

// Members compares ordered member lists.
var Members = SliceOf(Member)

// Constructor compares constructor signatures.
var Constructor = Comparer[model.ConstructorDefinition]{
	Equal: func(a, b model.ConstructorDefinition) bool {
		return a.Visibility == b.Visibility && Parameters.Equal(a.Parameters, b.Parameters)
	},
	Hash: func(v model.ConstructorDefinition) uint64 {
		return newHasher().u64(uint64(v.Visibility)).u64(Parameters.Hash(v.Parameters)).sum()
	},
}

var constructors = SliceOf(Constructor)

// Class compares class definitions.
var Class = Comparer[model.ClassDefinition]{
	Equal: func(a, b model.ClassDefinition) bool {
		return a.Visibility == b.Visibility &&
			a.IsStatic == b.IsStatic &&
			a.IsPartial == b.IsPartial &&
			a.IsAbstract == b.IsAbstract &&
			a.Keyword == b.Keyword &&
			a.Name == b.Name &&
			Strings.Equal(a.TypeArguments, b.TypeArguments) &&
			Strings.Equal(a.Interfaces, b.Interfaces) &&
			constructors.Equal(a.Constructors, b.Constructors)
	},
	Hash: func(v model.ClassDefinition) uint64 {
		return newHasher().
			u64(uint64(v.Visibility)).
			boolean(v.IsStatic).
			boolean(v.IsPartial).
			boolean(v.IsAbstract).
			str(v.Keyword).
			str(v.Name).
			u64(Strings.Hash(v.TypeArguments)).
			u64(Strings.Hash(v.Interfaces)).
			u64(constructors.Hash(v.Constructors)).
			sum()
	},
}

// Classes compares ordered class lists such as containing chains.
var Classes = SliceOf(Class)

// Interface compares interface definitions.
var Interface = Comparer[model.InterfaceDefinition]{
	Equal: func(a, b model.InterfaceDefinition) bool {
		return a.Visibility == b.Visibility &&
			a.IsPartial == b.IsPartial &&
			a.Name == b.Name &&
			Strings.Equal(a.TypeArguments, b.TypeArguments) &&
			Members.Equal(a.Members, b.Members)
	},
	Hash: func(v model.InterfaceDefinition) uint64 {
		return newHasher().
			u64(uint64(v.Visibility)).
			boolean(v.IsPartial).
			str(v.Name).
			u64(Strings.Hash(v.TypeArguments)).
			u64(Members.Hash(v.Members)).
			sum()
	},
}

// OptionalInterface compares an interface that may be absent.
var OptionalInterface = OptionOf(Interface)
