package syntax

// Node is an interior element of a syntax tree. Nodes are immutable once the
// tree has been built and are safe to read from multiple goroutines.
type Node struct {
	kind     Kind
	span     Span
	children []Element
	parent   *Node
	tree     *Tree
}

func (n *Node) Kind() Kind { return n.kind }
func (n *Node) Span() Span { return n.span }
func (n *Node) isElement() {}

// Children returns the node's immediate child nodes and tokens in source order.
// Callers must not modify the returned slice.
func (n *Node) Children() []Element {
	return n.children
}

// Parent returns the enclosing node, or nil for the compilation unit.
func (n *Node) Parent() *Node {
	return n.parent
}

// Tree returns the tree the node belongs to.
func (n *Node) Tree() *Tree {
	return n.tree
}

// Text returns the raw source text covered by the node.
func (n *Node) Text() string {
	if n.tree == nil {
		return ""
	}
	return n.tree.Text[n.span.Start:n.span.End]
}

// Location returns the position of the node in its tree.
func (n *Node) Location() Location {
	return n.tree.Location(n.span)
}

// ChildNodes returns only the node children.
func (n *Node) ChildNodes() []*Node {
	var out []*Node
	for _, c := range n.children {
		if cn, ok := c.(*Node); ok {
			out = append(out, cn)
		}
	}
	return out
}

// FirstChild returns the first child node of the given kind.
func (n *Node) FirstChild(kind Kind) *Node {
	for _, c := range n.children {
		if cn, ok := c.(*Node); ok && cn.kind == kind {
			return cn
		}
	}
	return nil
}

// ChildrenOfKind returns every child node of the given kind.
func (n *Node) ChildrenOfKind(kind Kind) []*Node {
	var out []*Node
	for _, c := range n.children {
		if cn, ok := c.(*Node); ok && cn.kind == kind {
			out = append(out, cn)
		}
	}
	return out
}

// FirstToken returns the first direct child token of the given kind.
func (n *Node) FirstToken(kind Kind) *Token {
	for _, c := range n.children {
		if t, ok := c.(*Token); ok && t.kind == kind {
			return t
		}
	}
	return nil
}

// HasToken reports whether a direct child token of the given kind exists.
func (n *Node) HasToken(kind Kind) bool {
	return n.FirstToken(kind) != nil
}

// TypeNode returns the first direct child that is a type syntax node.
func (n *Node) TypeNode() *Node {
	for _, c := range n.children {
		if cn, ok := c.(*Node); ok && cn.kind.IsType() {
			return cn
		}
	}
	return nil
}

// Identifier returns the declared identifier token of a declaration node.
func (n *Node) Identifier() *Token {
	return n.FirstToken(Identifier)
}

// Ancestors returns the chain of enclosing nodes, innermost first.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for p := n.parent; p != nil; p = p.parent {
		out = append(out, p)
	}
	return out
}

// Walk visits n and all descendant nodes in pre-order. Returning false from
// visit skips the node's children.
func (n *Node) Walk(visit func(*Node) bool) {
	if !visit(n) {
		return
	}
	for _, c := range n.children {
		if cn, ok := c.(*Node); ok {
			cn.Walk(visit)
		}
	}
}

// Members returns the member declarations of a type or namespace body.
func (n *Node) Members() []*Node {
	var out []*Node
	for _, c := range n.children {
		cn, ok := c.(*Node)
		if !ok {
			continue
		}
		switch cn.kind {
		case AttributeList, TypeParameterList, BaseList, TypeParameterConstraintClause,
			ParameterList, UsingDirective, NameEquals, EnumMemberList:
			continue
		}
		if cn.kind.IsType() {
			continue
		}
		out = append(out, cn)
	}
	return out
}
