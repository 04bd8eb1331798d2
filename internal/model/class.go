package model

import (
	"strconv"
	"strings"
)

// ConstructorDefinition is the signature of one declared constructor.
type ConstructorDefinition struct {
	Visibility Visibility
	Parameters []MethodParameterDefinition
}

// ClassDefinition describes one user type at the point a generator inspects
// it. Name is never empty for a definition built from a real declaration.
type ClassDefinition struct {
	Visibility    Visibility
	IsStatic      bool
	IsPartial     bool
	IsAbstract    bool
	Keyword       string
	Name          string
	TypeArguments []string
	Interfaces    []string
	Constructors  []ConstructorDefinition
}

// DisplayName renders the name with its type arguments, e.g. "Dummy<T, U>".
func (c ClassDefinition) DisplayName() string {
	return genericName(c.Name, c.TypeArguments)
}

// MetadataName renders the name with its arity suffix, e.g. "Dummy`2".
func (c ClassDefinition) MetadataName() string {
	return metadataName(c.Name, len(c.TypeArguments))
}

// HasInterface reports whether name is among the declared interfaces.
func (c ClassDefinition) HasInterface(name string) bool {
	for _, i := range c.Interfaces {
		if i == name {
			return true
		}
	}
	return false
}

func (c ClassDefinition) WithName(name string) ClassDefinition {
	c.Name = name
	return c
}

func (c ClassDefinition) WithVisibility(v Visibility) ClassDefinition {
	c.Visibility = v
	return c
}

func (c ClassDefinition) WithTypeArguments(args ...string) ClassDefinition {
	c.TypeArguments = append([]string(nil), args...)
	return c
}

func (c ClassDefinition) WithInterfaces(names ...string) ClassDefinition {
	c.Interfaces = append([]string(nil), names...)
	return c
}

func (c ClassDefinition) WithConstructors(ctors ...ConstructorDefinition) ClassDefinition {
	c.Constructors = append([]ConstructorDefinition(nil), ctors...)
	return c
}

// InterfaceDefinition describes a declared or generated interface. A value
// that has not been resolved is expressed as Option[InterfaceDefinition].
type InterfaceDefinition struct {
	Visibility    Visibility
	IsPartial     bool
	Name          string
	TypeArguments []string
	Members       []Member
}

// DisplayName renders the name with its type arguments.
func (i InterfaceDefinition) DisplayName() string {
	return genericName(i.Name, i.TypeArguments)
}

func (i InterfaceDefinition) WithName(name string) InterfaceDefinition {
	i.Name = name
	return i
}

func (i InterfaceDefinition) WithMembers(members ...Member) InterfaceDefinition {
	i.Members = append([]Member(nil), members...)
	return i
}

func (i InterfaceDefinition) WithTypeArguments(args ...string) InterfaceDefinition {
	i.TypeArguments = append([]string(nil), args...)
	return i
}

func genericName(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + "<" + strings.Join(args, ", ") + ">"
}

func metadataName(name string, arity int) string {
	if arity == 0 {
		return name
	}
	return name + "`" + strconv.Itoa(arity)
}
