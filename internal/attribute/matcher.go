// Package attribute decides syntactically whether a declaration carries a
// trigger attribute. It reads only the attribute node and the using
// directives in scope, so it is cheap enough for the predicate phase.
package attribute

import (
	"strings"

	"github.com/okra-platform/forja/internal/syntax"
)

const suffix = "Attribute"

// HasAttribute reports whether decl carries an attribute denoting shortName.
func HasAttribute(decl *syntax.Node, shortName string) bool {
	return Find(decl, shortName) != nil
}

// Find returns the first attribute on decl denoting shortName, or nil.
func Find(decl *syntax.Node, shortName string) *syntax.Node {
	if decl == nil {
		return nil
	}
	for _, list := range decl.ChildrenOfKind(syntax.AttributeList) {
		if !appliesToDeclaration(list) {
			continue
		}
		for _, attr := range list.ChildrenOfKind(syntax.Attribute) {
			if Matches(attr, shortName) {
				return attr
			}
		}
	}
	return nil
}

func appliesToDeclaration(list *syntax.Node) bool {
	target := list.FirstChild(syntax.AttributeTargetSpecifier)
	if target == nil {
		return true
	}
	switch syntax.AsToken(target.Children()[0]).Text {
	case "return", "assembly", "module", "param", "typevar":
		return false
	}
	return true
}

// Matches reports whether attr names shortName in any of its spellings: bare,
// with the Attribute suffix, namespace-qualified, global::-qualified or
// through a using alias. Only the last segment of the resolved name is
// compared.
func Matches(attr *syntax.Node, shortName string) bool {
	if attr == nil || attr.Kind() != syntax.Attribute {
		return false
	}
	last, ok := LastSegment(attr)
	if !ok {
		return false
	}
	return last == shortName || last == shortName+suffix
}

// LastSegment returns the final name segment of attr after alias
// substitution.
func LastSegment(attr *syntax.Node) (string, bool) {
	name := attr.TypeNode()
	if name == nil {
		return "", false
	}
	alias, segs := segments(name)
	if len(segs) == 0 {
		return "", false
	}
	if alias == "" {
		if target, ok := lookupAlias(attr, segs[0]); ok {
			segs = append(target, segs[1:]...)
		}
	}
	if len(segs) == 0 {
		return "", false
	}
	return segs[len(segs)-1], true
}

// segments flattens a name node into its identifier segments. The alias of
// an alias-qualified name is returned separately.
func segments(n *syntax.Node) (alias string, segs []string) {
	switch n.Kind() {
	case syntax.IdentifierName, syntax.GenericName:
		if id := n.Identifier(); id != nil {
			return "", []string{id.ValueText()}
		}
		return "", nil
	case syntax.QualifiedName:
		kids := n.ChildNodes()
		if len(kids) != 2 {
			return "", nil
		}
		alias, left := segments(kids[0])
		_, right := segments(kids[1])
		return alias, append(left, right...)
	case syntax.AliasQualifiedName:
		kids := n.ChildNodes()
		if len(kids) != 2 {
			return "", nil
		}
		a := strings.TrimSpace(kids[0].Text())
		_, right := segments(kids[1])
		return a, right
	}
	return "", nil
}

// lookupAlias resolves name against the using aliases visible at n, innermost
// scope first.
func lookupAlias(n *syntax.Node, name string) ([]string, bool) {
	for _, scope := range n.Ancestors() {
		switch scope.Kind() {
		case syntax.CompilationUnit, syntax.NamespaceDeclaration, syntax.FileScopedNamespaceDeclaration:
		default:
			continue
		}
		for _, u := range scope.ChildrenOfKind(syntax.UsingDirective) {
			eq := u.FirstChild(syntax.NameEquals)
			if eq == nil || eq.Identifier() == nil || eq.Identifier().ValueText() != name {
				continue
			}
			target := u.TypeNode()
			if target == nil {
				return nil, false
			}
			_, segs := segments(target)
			return segs, true
		}
	}
	return nil, false
}
