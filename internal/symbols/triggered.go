package symbols

import (
	"github.com/okra-platform/forja/internal/attribute"
	"github.com/okra-platform/forja/internal/diag"
	"github.com/okra-platform/forja/internal/model"
	"github.com/okra-platform/forja/internal/semantic"
	"github.com/okra-platform/forja/internal/syntax"
)

// Triggered is a field or property that carries the trigger attribute.
type Triggered struct {
	Symbol semantic.Member
	// Member is the model value with base-class type parameters already
	// substituted by the arguments the derived type supplies.
	Member model.Member
	// Declaring is the type that declares the member.
	Declaring *semantic.NamedType
}

// Collected is the result of walking a type and its base chain.
type Collected struct {
	// Own members are declared by the type itself, in declaration order
	// across partial fragments.
	Own []Triggered
	// Inherited members come from base classes, root-most base first.
	Inherited []Triggered
}

// All returns inherited members followed by own members.
func (c Collected) All() []Triggered {
	out := make([]Triggered, 0, len(c.Inherited)+len(c.Own))
	out = append(out, c.Inherited...)
	return append(out, c.Own...)
}

// CollectTriggered walks t and its base classes, stopping at object or at
// the first base outside the compilation. Static members of t that carry
// the trigger are reported with staticRule and excluded. Static inherited
// members are excluded silently; the base type reports them itself.
func CollectTriggered(t *semantic.NamedType, shortName string, staticRule diag.Descriptor) (Collected, []diag.Diagnostic) {
	var (
		out   Collected
		diags []diag.Diagnostic
	)

	own, ownDiags := collectOwn(t, shortName, Substitution{}, &staticRule)
	out.Own = own
	diags = append(diags, ownDiags...)

	var chain [][]Triggered
	seen := map[*semantic.NamedType]bool{t: true}
	cur, sub := t, Substitution{}
	for {
		if cur.BaseType == nil || semantic.IsObject(cur.BaseType) {
			break
		}
		base := sub.apply(cur.BaseType)
		def, ok := semantic.Definition(base)
		if !ok || seen[def] {
			break
		}
		seen[def] = true

		sub = Substitution{Parameters: def.TypeParameters}
		if ct, ok := base.(*semantic.ConstructedType); ok {
			sub.Arguments = ct.Arguments
		}
		members, _ := collectOwn(def, shortName, sub, nil)
		chain = append(chain, members)
		cur = def
	}
	for i := len(chain) - 1; i >= 0; i-- {
		out.Inherited = append(out.Inherited, chain[i]...)
	}
	return out, diags
}

func collectOwn(t *semantic.NamedType, shortName string, sub Substitution, staticRule *diag.Descriptor) ([]Triggered, []diag.Diagnostic) {
	var (
		out   []Triggered
		diags []diag.Diagnostic
	)
	for _, m := range t.Members() {
		switch m.(type) {
		case *semantic.Field, *semantic.Property:
		default:
			continue
		}
		b := m.Base()
		if !attribute.HasAttribute(b.Syntax, shortName) {
			continue
		}
		if b.IsStatic {
			if staticRule != nil {
				diags = append(diags, diag.New(*staticRule, MemberLocation(m), b.Name, t.Name))
			}
			continue
		}
		def, ok := MemberWith(m, sub)
		if !ok {
			continue
		}
		out = append(out, Triggered{Symbol: m, Member: def, Declaring: t})
	}
	return out, diags
}

// MemberLocation is the location of a member's identifier.
func MemberLocation(m semantic.Member) syntax.Location {
	b := m.Base()
	n := b.Syntax
	if f, ok := m.(*semantic.Field); ok && f.Declarator != nil {
		n = f.Declarator
	}
	if id := n.Identifier(); id != nil {
		return n.Tree().Location(id.Span())
	}
	return n.Location()
}

// TypeLocation is the location of the identifier of a type declaration.
func TypeLocation(d semantic.Declaration) syntax.Location {
	if id := d.Node.Identifier(); id != nil {
		return d.Tree.Location(id.Span())
	}
	return d.Node.Location()
}

// FirstTriggeringDeclaration returns the first fragment of t, in declaration
// order, for which has reports true.
func FirstTriggeringDeclaration(t *semantic.NamedType, has func(semantic.Declaration) bool) (semantic.Declaration, bool) {
	for _, d := range t.Declarations {
		if has(d) {
			return d, true
		}
	}
	return semantic.Declaration{}, false
}

// HasTriggeredMember reports whether a declaration fragment directly
// declares a field or property carrying the trigger.
func HasTriggeredMember(shortName string) func(semantic.Declaration) bool {
	return func(d semantic.Declaration) bool {
		return DeclaresTriggeredMember(d.Node, shortName)
	}
}

// DeclaresTriggeredMember reports whether a type declaration node directly
// declares a field or property carrying the trigger.
func DeclaresTriggeredMember(n *syntax.Node, shortName string) bool {
	for _, m := range n.Members() {
		switch m.Kind() {
		case syntax.FieldDeclaration, syntax.PropertyDeclaration:
			if attribute.HasAttribute(m, shortName) {
				return true
			}
		}
	}
	return false
}

// IsTypeAttributed returns a predicate for fragments whose declaration
// carries the trigger itself.
func IsTypeAttributed(shortName string) func(semantic.Declaration) bool {
	return func(d semantic.Declaration) bool {
		return attribute.HasAttribute(d.Node, shortName)
	}
}
