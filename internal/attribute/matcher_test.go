package attribute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/forja/internal/syntax"
)

func firstField(t *testing.T, src string) *syntax.Node {
	t.Helper()
	tree := syntax.Parse("Test.cs", src)
	require.Empty(t, tree.Problems)
	var field *syntax.Node
	tree.Root.Walk(func(n *syntax.Node) bool {
		if field == nil && n.Kind() == syntax.FieldDeclaration {
			field = n
		}
		return field == nil
	})
	require.NotNil(t, field)
	return field
}

func TestHasAttribute_Spellings(t *testing.T) {
	// Test: Every supported spelling of the trigger attribute matches
	tests := []struct {
		name   string
		usings string
		attr   string
		want   bool
	}{
		{"bare", "", "Inject", true},
		{"suffix", "", "InjectAttribute", true},
		{"qualified", "", "Forja.Inject", true},
		{"qualified suffix", "", "Forja.InjectAttribute", true},
		{"global", "", "global::Forja.InjectAttribute", true},
		{"alias to attribute", "using Dep = Forja.InjectAttribute;", "Dep", true},
		{"alias to namespace", "using F = Forja;", "F.Inject", true},
		{"alias with unrelated target", "using Inject = Other.Thing;", "Inject", false},
		{"unrelated", "", "Obsolete", false},
		{"prefix only", "", "Injector", false},
		{"suffix only", "", "Attribute", false},
		{"lowercase", "", "inject", false},
		{"with arguments", "", "Inject(1)", true},
		{"generic", "", "Inject<int>", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := tt.usings + "\nclass A { [" + tt.attr + "] private int _x; }"
			field := firstField(t, src)
			assert.Equal(t, tt.want, HasAttribute(field, "Inject"))
		})
	}
}

func TestHasAttribute_NamespaceScopedAlias(t *testing.T) {
	// Test: Aliases declared inside a namespace apply to its members
	field := firstField(t, `
namespace N
{
    using D = Forja.InjectAttribute;
    class A { [D] private int _x; }
}`)
	assert.True(t, HasAttribute(field, "Inject"))
}

func TestHasAttribute_InnermostAliasWins(t *testing.T) {
	// Test: An inner alias shadows an outer alias of the same name
	field := firstField(t, `
using D = Forja.InjectAttribute;
namespace N
{
    using D = System.ObsoleteAttribute;
    class A { [D] private int _x; }
}`)
	assert.False(t, HasAttribute(field, "Inject"))
}

func TestHasAttribute_UnrelatedNamespaceAlias(t *testing.T) {
	// Test: Only the last segment is compared, so an alias to another namespace still matches
	field := firstField(t, `
using X = Unrelated.Lib;
class A { [X.Inject] private int _x; }`)
	assert.True(t, HasAttribute(field, "Inject"))
}

func TestHasAttribute_GlobalAlias(t *testing.T) {
	// Test: A global using alias applies within its own file
	field := firstField(t, `
global using Inj = Forja.InjectAttribute;
class A { [Inj] private int _x; }`)
	assert.True(t, HasAttribute(field, "Inject"))

	// Test: Aliases are read per tree, so a global alias from another file is not seen
	aliases := syntax.Parse("Usings.cs", "global using Inj = Forja.InjectAttribute;")
	require.Empty(t, aliases.Problems)
	field = firstField(t, "class A { [Inj] private int _x; }")
	assert.False(t, HasAttribute(field, "Inject"))
}

func TestHasAttribute_Targets(t *testing.T) {
	// Test: Attribute lists targeting something other than the declaration are ignored
	field := firstField(t, "class A { [field: Inject] private int _x; }")
	assert.True(t, HasAttribute(field, "Inject"))

	tree := syntax.Parse("Test.cs", "class A { [return: Inject] int M() => 0; }")
	var method *syntax.Node
	tree.Root.Walk(func(n *syntax.Node) bool {
		if n.Kind() == syntax.MethodDeclaration {
			method = n
		}
		return true
	})
	require.NotNil(t, method)
	assert.False(t, HasAttribute(method, "Inject"))
}

func TestFind_MultipleLists(t *testing.T) {
	// Test: Find returns the matching attribute across several lists
	field := firstField(t, "class A { [Obsolete][Required, Inject(Key = 1)] private int _x; }")
	attr := Find(field, "Inject")
	require.NotNil(t, attr)
	assert.Equal(t, "Inject(Key = 1)", attr.Text())
	assert.Nil(t, Find(field, "Missing"))
	assert.Nil(t, Find(nil, "Inject"))
}
