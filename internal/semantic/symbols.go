package semantic

import (
	"strconv"
	"strings"

	"github.com/okra-platform/forja/internal/model"
	"github.com/okra-platform/forja/internal/syntax"
)

// Namespace is a namespace symbol. The global namespace has an empty name.
type Namespace struct {
	Name   string
	Parent *Namespace

	namespaces map[string]*Namespace
	types      map[string]*NamedType
	typeOrder  []*NamedType
}

func newNamespace(name string, parent *Namespace) *Namespace {
	return &Namespace{
		Name:       name,
		Parent:     parent,
		namespaces: map[string]*Namespace{},
		types:      map[string]*NamedType{},
	}
}

// IsGlobal reports whether n is the global namespace.
func (n *Namespace) IsGlobal() bool {
	return n.Parent == nil
}

// QualifiedName is the dotted name, "" for the global namespace.
func (n *Namespace) QualifiedName() string {
	if n.IsGlobal() {
		return ""
	}
	if n.Parent.IsGlobal() {
		return n.Name
	}
	return n.Parent.QualifiedName() + "." + n.Name
}

// Namespace returns a direct child namespace.
func (n *Namespace) Namespace(name string) (*Namespace, bool) {
	ns, ok := n.namespaces[name]
	return ns, ok
}

// Type returns a direct member type by name and arity.
func (n *Namespace) Type(name string, arity int) (*NamedType, bool) {
	t, ok := n.types[metadataKey(name, arity)]
	return t, ok
}

// Types returns the member types in first-declaration order.
func (n *Namespace) Types() []*NamedType {
	return n.typeOrder
}

func (n *Namespace) child(name string) *Namespace {
	if ns, ok := n.namespaces[name]; ok {
		return ns
	}
	ns := newNamespace(name, n)
	n.namespaces[name] = ns
	return ns
}

// TypeKind classifies a named type.
type TypeKind uint8

const (
	Class TypeKind = iota + 1
	Struct
	Interface
	Enum
	Record
	RecordStruct
)

func (k TypeKind) String() string {
	switch k {
	case Class:
		return "class"
	case Struct:
		return "struct"
	case Interface:
		return "interface"
	case Enum:
		return "enum"
	case Record:
		return "record"
	case RecordStruct:
		return "record struct"
	}
	return "unknown"
}

// IsClassLike reports whether the kind can carry a base class.
func (k TypeKind) IsClassLike() bool {
	return k == Class || k == Record
}

// Declaration is one syntax fragment that contributes to a named type.
type Declaration struct {
	Node *syntax.Node
	Tree *syntax.Tree
}

// NamedType is a class, struct, interface, record or enum symbol merged
// from every partial declaration.
type NamedType struct {
	Name           string
	TypeKind       TypeKind
	Namespace      *Namespace
	ContainingType *NamedType
	TypeParameters []*TypeParameter

	// DeclaredAccessibility is the explicit modifier, VisibilityNone when
	// no fragment declares one.
	DeclaredAccessibility model.Visibility
	IsStatic              bool
	IsAbstract            bool
	IsSealed              bool

	// Declarations are ordered by file name then position so that the
	// order does not depend on the order trees were supplied in.
	Declarations []Declaration

	BaseType   Type
	Interfaces []Type

	Fields       []*Field
	Properties   []*Property
	Methods      []*Method
	Constructors []*Method
	NestedTypes  []*NamedType

	members []Member
	nested  map[string]*NamedType
}

func (t *NamedType) String() string { return t.QualifiedName() }
func (*NamedType) isType()          {}

// QualifiedName is the namespace and containing-type qualified name without
// type arguments.
func (t *NamedType) QualifiedName() string {
	prefix := ""
	if t.ContainingType != nil {
		prefix = t.ContainingType.QualifiedName() + "."
	} else if ns := t.Namespace.QualifiedName(); ns != "" {
		prefix = ns + "."
	}
	return prefix + t.Name
}

// MetadataName is the name with its arity suffix, e.g. "Dummy`1".
func (t *NamedType) MetadataName() string {
	return metadataKey(t.Name, len(t.TypeParameters))
}

// Arity is the number of type parameters.
func (t *NamedType) Arity() int {
	return len(t.TypeParameters)
}

// IsPartial reports whether every declaration carries the partial modifier.
func (t *NamedType) IsPartial() bool {
	if len(t.Declarations) == 0 {
		return false
	}
	for _, d := range t.Declarations {
		if !d.Node.HasToken(syntax.PartialKeyword) {
			return false
		}
	}
	return true
}

// Accessibility is the effective accessibility: the declared one, or the
// language default for the position of the type.
func (t *NamedType) Accessibility() model.Visibility {
	if t.DeclaredAccessibility != model.VisibilityNone {
		return t.DeclaredAccessibility
	}
	if t.ContainingType != nil {
		return model.Private
	}
	return model.Internal
}

// Members returns fields, properties, methods and constructors in
// declaration order across all fragments.
func (t *NamedType) Members() []Member {
	return t.members
}

// NestedType returns a directly nested type by name and arity.
func (t *NamedType) NestedType(name string, arity int) (*NamedType, bool) {
	n, ok := t.nested[metadataKey(name, arity)]
	return n, ok
}

// BaseDefinition returns the named type of the base class, if resolved.
func (t *NamedType) BaseDefinition() (*NamedType, bool) {
	if t.BaseType == nil || IsObject(t.BaseType) {
		return nil, false
	}
	return Definition(t.BaseType)
}

// ContainingTypes returns the enclosing types, outermost first.
func (t *NamedType) ContainingTypes() []*NamedType {
	var chain []*NamedType
	for c := t.ContainingType; c != nil; c = c.ContainingType {
		chain = append(chain, c)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// RootNamespace returns the namespace of the outermost containing type.
func (t *NamedType) RootNamespace() *Namespace {
	for c := t; ; c = c.ContainingType {
		if c.ContainingType == nil {
			return c.Namespace
		}
	}
}

// TypeParameter is a generic parameter of a type or method.
type TypeParameter struct {
	Name    string
	Ordinal int
	// Variance is "in", "out" or "".
	Variance string
}

func (t *TypeParameter) String() string { return t.Name }
func (*TypeParameter) isType()          {}

// Member is a field, property, method or constructor symbol.
type Member interface {
	Base() *MemberBase
}

// MemberBase holds what every member symbol has.
type MemberBase struct {
	Name                  string
	DeclaredAccessibility model.Visibility
	IsStatic              bool
	ContainingType        *NamedType
	// Syntax is the declaration node, for fields the FieldDeclaration.
	Syntax *syntax.Node
	// Declaration is the fragment of the containing type the member was
	// declared in.
	Declaration Declaration
}

func (m *MemberBase) Base() *MemberBase { return m }

// Accessibility is the effective accessibility of the member.
func (m *MemberBase) Accessibility() model.Visibility {
	if m.DeclaredAccessibility != model.VisibilityNone {
		return m.DeclaredAccessibility
	}
	if m.ContainingType != nil && m.ContainingType.TypeKind == Interface {
		return model.Public
	}
	return model.Private
}

// Field is one declared field variable.
type Field struct {
	MemberBase
	Type        Type
	IsReadonly  bool
	IsConst     bool
	Initializer model.Option[string]
	Declarator  *syntax.Node
}

// Accessor is a get, set or init accessor.
type Accessor struct {
	DeclaredAccessibility model.Visibility
	IsInit                bool
}

// Property is a property symbol.
type Property struct {
	MemberBase
	Type        Type
	Getter      *Accessor
	Setter      *Accessor
	Initializer model.Option[string]
	// IsExplicitImplementation is set for IFoo.Bar style declarations.
	IsExplicitImplementation bool
}

// Method is a method or constructor symbol.
type Method struct {
	MemberBase
	ReturnType               Type
	TypeParameters           []*TypeParameter
	Parameters               []*Parameter
	IsConstructor            bool
	IsAbstract               bool
	IsExplicitImplementation bool
}

// Parameter is a method or constructor parameter.
type Parameter struct {
	Name    string
	Type    Type
	RefKind model.ParameterKind
	Default model.Option[string]
	Ordinal int
	Syntax  *syntax.Node
}

func metadataKey(name string, arity int) string {
	if arity == 0 {
		return name
	}
	return name + "`" + strconv.Itoa(arity)
}

func splitDotted(s string) []string {
	return strings.Split(strings.Join(strings.Fields(s), ""), ".")
}
