package syntax

import (
	"sort"
)

// Location is a resolved source position.
type Location struct {
	File   string
	Line   int
	Column int
	Offset int
	Length int
}

// Tree is a parsed source file.
type Tree struct {
	Path     string
	Text     string
	Root     *Node
	Problems []Problem

	lineStarts []int
}

// Location converts a span to a line/column position (both 1-based).
func (t *Tree) Location(span Span) Location {
	line := sort.Search(len(t.lineStarts), func(i int) bool {
		return t.lineStarts[i] > span.Start
	}) - 1
	if line < 0 {
		line = 0
	}
	return Location{
		File:   t.Path,
		Line:   line + 1,
		Column: span.Start - t.lineStarts[line] + 1,
		Offset: span.Start,
		Length: span.Len(),
	}
}

// Usings returns every using directive in the tree, including those nested
// inside namespace declarations.
func (t *Tree) Usings() []*Node {
	var out []*Node
	t.Root.Walk(func(n *Node) bool {
		switch n.kind {
		case UsingDirective:
			out = append(out, n)
			return false
		case CompilationUnit, NamespaceDeclaration, FileScopedNamespaceDeclaration:
			return true
		}
		return false
	})
	return out
}

// HasErrors reports whether lexing or parsing recorded problems.
func (t *Tree) HasErrors() bool {
	return len(t.Problems) > 0
}

func computeLineStarts(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// link fills parent and tree pointers after construction.
func link(n *Node, parent *Node, t *Tree) {
	n.parent = parent
	n.tree = t
	for _, c := range n.children {
		if cn, ok := c.(*Node); ok {
			link(cn, n, t)
		}
	}
}
