package model

// MemberKind identifies the variant behind a Member.
type MemberKind uint8

const (
	FieldMember MemberKind = iota + 1
	PropertyMember
	MethodMember
	ParameterMember
)

func (k MemberKind) String() string {
	switch k {
	case FieldMember:
		return "field"
	case PropertyMember:
		return "property"
	case MethodMember:
		return "method"
	case ParameterMember:
		return "parameter"
	}
	return "unknown"
}

// MemberCommon holds the capability surface shared by every member variant.
type MemberCommon struct {
	Visibility Visibility
	IsStatic   bool
	Type       string
	Name       string
}

// Common returns the shared fields. Variants embed MemberCommon and so
// satisfy this part of Member automatically.
func (c MemberCommon) Common() MemberCommon {
	return c
}

// Member is the closed set of member variants: FieldDefinition,
// PropertyDefinition, MethodDefinition and MethodParameterDefinition.
type Member interface {
	Common() MemberCommon
	Kind() MemberKind
	isMember()
}

// FieldDefinition describes one declared field variable.
type FieldDefinition struct {
	MemberCommon
	IsReadonly   bool
	DefaultValue Option[string]
}

func (FieldDefinition) Kind() MemberKind { return FieldMember }
func (FieldDefinition) isMember()        {}

// SetterState distinguishes the shapes a property setter can take.
type SetterState uint8

const (
	SetterAbsent SetterState = iota
	SetterPlain
	SetterInit
)

// SetterVisibility describes a property's setter: absent, a set accessor
// (optionally with its own accessibility) or an init accessor.
type SetterVisibility struct {
	State      SetterState
	Visibility Visibility
}

// NoSetter is a get-only property.
func NoSetter() SetterVisibility {
	return SetterVisibility{State: SetterAbsent}
}

// SetterWith is a set accessor. vis is the accessor's own modifier, or
// VisibilityNone when it inherits the property's accessibility.
func SetterWith(vis Visibility) SetterVisibility {
	return SetterVisibility{State: SetterPlain, Visibility: vis}
}

// InitSetter is an init accessor, optionally restricted.
func InitSetter() SetterVisibility {
	return SetterVisibility{State: SetterInit}
}

// IsPresent reports whether the property has any setter.
func (s SetterVisibility) IsPresent() bool {
	return s.State != SetterAbsent
}

// IsRestricted reports whether the accessor carries its own accessibility.
func (s SetterVisibility) IsRestricted() bool {
	return s.State != SetterAbsent && s.Visibility != VisibilityNone
}

// Effective returns the accessor's accessibility given the property's.
func (s SetterVisibility) Effective(property Visibility) Visibility {
	if s.Visibility != VisibilityNone {
		return s.Visibility
	}
	return property
}

// PropertyDefinition describes a property declaration. GetterVisibility is
// present when the property has a getter; its value is the accessor's own
// modifier or VisibilityNone.
type PropertyDefinition struct {
	MemberCommon
	GetterVisibility Option[Visibility]
	Setter           SetterVisibility
	DefaultValue     Option[string]
}

func (PropertyDefinition) Kind() MemberKind { return PropertyMember }
func (PropertyDefinition) isMember()        {}

// WithSetter returns a copy with the setter replaced.
func (p PropertyDefinition) WithSetter(s SetterVisibility) PropertyDefinition {
	p.Setter = s
	return p
}

// ParameterKind is the passing convention of a method parameter.
type ParameterKind uint8

const (
	ParameterNone ParameterKind = iota
	ParameterRef
	ParameterOut
	ParameterIn
	ParameterParams
	ParameterRefReadonly
	ParameterThis
)

var parameterKeywords = map[ParameterKind]string{
	ParameterRef:         "ref",
	ParameterOut:         "out",
	ParameterIn:          "in",
	ParameterParams:      "params",
	ParameterRefReadonly: "ref readonly",
	ParameterThis:        "this",
}

// Keyword returns the modifier text, or "" for ParameterNone.
func (k ParameterKind) Keyword() string {
	return parameterKeywords[k]
}

// MethodParameterDefinition describes one method or constructor parameter.
// Parameters carry no visibility and are never static.
type MethodParameterDefinition struct {
	MemberCommon
	ParameterKind ParameterKind
	DefaultValue  Option[string]
}

func (MethodParameterDefinition) Kind() MemberKind { return ParameterMember }
func (MethodParameterDefinition) isMember()        {}

// MethodDefinition describes a method declaration.
type MethodDefinition struct {
	MemberCommon
	TypeParameters []string
	Parameters     []MethodParameterDefinition
}

func (MethodDefinition) Kind() MemberKind { return MethodMember }
func (MethodDefinition) isMember()        {}

// WithParameters returns a copy holding its own copy of params.
func (m MethodDefinition) WithParameters(params ...MethodParameterDefinition) MethodDefinition {
	m.Parameters = append([]MethodParameterDefinition(nil), params...)
	return m
}

// WithTypeParameters returns a copy holding its own copy of names.
func (m MethodDefinition) WithTypeParameters(names ...string) MethodDefinition {
	m.TypeParameters = append([]string(nil), names...)
	return m
}
