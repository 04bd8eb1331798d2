// Package semantic binds parsed trees into a symbol graph: namespaces, named
// types merged across partial declarations, members and resolved type
// references. A Compilation is built eagerly and is read-only afterwards, so
// it may be shared by concurrent readers.
package semantic

import (
	"sort"

	"github.com/okra-platform/forja/internal/syntax"
)

// Compilation is the symbol graph for a set of trees.
type Compilation struct {
	Trees  []*syntax.Tree
	Global *Namespace

	types    []*NamedType
	declared map[*syntax.Node]any
	byPath   map[string]*syntax.Tree

	usingTargets map[*syntax.Node]*Namespace
	aliasTargets map[*syntax.Node]entity
}

// NewCompilation binds trees. Trees are processed in path order, so the
// result does not depend on the order of the argument.
func NewCompilation(trees []*syntax.Tree) *Compilation {
	sorted := append([]*syntax.Tree(nil), trees...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	c := &Compilation{
		Trees:        sorted,
		Global:       newNamespace("", nil),
		declared:     map[*syntax.Node]any{},
		byPath:       map[string]*syntax.Tree{},
		usingTargets: map[*syntax.Node]*Namespace{},
		aliasTargets: map[*syntax.Node]entity{},
	}
	for _, t := range sorted {
		c.byPath[t.Path] = t
		c.declareScope(t, t.Root, c.Global, nil)
	}
	for _, t := range c.types {
		sort.SliceStable(t.Declarations, func(i, j int) bool {
			a, b := t.Declarations[i], t.Declarations[j]
			if a.Tree.Path != b.Tree.Path {
				return a.Tree.Path < b.Tree.Path
			}
			return a.Node.Span().Start < b.Node.Span().Start
		})
	}

	b := &binder{c: c}
	b.bindUsings()
	for _, t := range c.types {
		b.bindTypeHeader(t)
	}
	for _, t := range c.types {
		b.bindBases(t)
	}
	for _, t := range c.types {
		b.bindMembers(t)
	}
	return c
}

// Tree returns the tree with the given path.
func (c *Compilation) Tree(path string) (*syntax.Tree, bool) {
	t, ok := c.byPath[path]
	return t, ok
}

// Types returns every named type, outer types before their nested types, in
// first-declaration order.
func (c *Compilation) Types() []*NamedType {
	return c.types
}

// DeclaredSymbol returns the symbol declared by a node: *NamedType for type
// declarations, *Field for variable declarators, *Property, *Method for
// methods and constructors, and *Parameter.
func (c *Compilation) DeclaredSymbol(n *syntax.Node) (any, bool) {
	s, ok := c.declared[n]
	return s, ok
}

// DeclaredType returns the named type declared by a type declaration node.
func (c *Compilation) DeclaredType(n *syntax.Node) (*NamedType, bool) {
	s, ok := c.declared[n]
	if !ok {
		return nil, false
	}
	t, ok := s.(*NamedType)
	return t, ok
}

// LookupType finds a type by dotted name. Generic types use their metadata
// name for each segment, e.g. "N.Outer`1.Inner".
func (c *Compilation) LookupType(dotted string) (*NamedType, bool) {
	parts := splitDotted(dotted)
	ns := c.Global
	var cur *NamedType
	for i, p := range parts {
		if cur == nil {
			if child, ok := ns.namespaces[p]; ok && i < len(parts)-1 {
				ns = child
				continue
			}
			t, ok := ns.types[p]
			if !ok {
				return nil, false
			}
			cur = t
			continue
		}
		t, ok := cur.nested[p]
		if !ok {
			return nil, false
		}
		cur = t
	}
	return cur, cur != nil
}

func (c *Compilation) declareScope(tree *syntax.Tree, n *syntax.Node, ns *Namespace, container *NamedType) {
	for _, m := range n.Members() {
		switch {
		case m.Kind() == syntax.NamespaceDeclaration || m.Kind() == syntax.FileScopedNamespaceDeclaration:
			inner := ns
			if name := m.TypeNode(); name != nil {
				for _, seg := range splitDotted(name.Text()) {
					inner = inner.child(seg)
				}
			}
			c.declareScope(tree, m, inner, nil)
		case m.Kind().IsTypeDeclaration():
			c.declareType(tree, m, ns, container)
		}
	}
}

func (c *Compilation) declareType(tree *syntax.Tree, n *syntax.Node, ns *Namespace, container *NamedType) {
	id := n.Identifier()
	if id == nil {
		return
	}
	name := id.ValueText()
	arity := 0
	if tpl := n.FirstChild(syntax.TypeParameterList); tpl != nil {
		arity = len(tpl.ChildrenOfKind(syntax.TypeParameter))
	}
	key := metadataKey(name, arity)

	var t *NamedType
	if container != nil {
		t = container.nested[key]
	} else {
		t = ns.types[key]
	}
	if t == nil {
		t = &NamedType{
			Name:           name,
			TypeKind:       typeKindOf(n.Kind()),
			Namespace:      ns,
			ContainingType: container,
			nested:         map[string]*NamedType{},
		}
		if container != nil {
			container.nested[key] = t
			container.NestedTypes = append(container.NestedTypes, t)
		} else {
			ns.types[key] = t
			ns.typeOrder = append(ns.typeOrder, t)
		}
		c.types = append(c.types, t)
	}
	t.Declarations = append(t.Declarations, Declaration{Node: n, Tree: tree})
	c.declared[n] = t

	for _, m := range n.Members() {
		if m.Kind().IsTypeDeclaration() {
			c.declareType(tree, m, ns, t)
		}
	}
}

func typeKindOf(k syntax.Kind) TypeKind {
	switch k {
	case syntax.StructDeclaration:
		return Struct
	case syntax.InterfaceDeclaration:
		return Interface
	case syntax.EnumDeclaration:
		return Enum
	case syntax.RecordDeclaration:
		return Record
	case syntax.RecordStructDeclaration:
		return RecordStruct
	}
	return Class
}

// ResolveTypeText binds type text as if it were written inside decl, a
// declaration fragment of t. Text that does not parse as one type yields an
// error type.
func (c *Compilation) ResolveTypeText(text string, t *NamedType, decl *syntax.Node) Type {
	n, ok := syntax.ParseType(text)
	if !ok {
		return &ErrorType{Text: text}
	}
	b := &binder{c: c}
	return b.resolveType(n, b.typeScope(t, decl))
}
