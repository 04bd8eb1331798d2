package attribute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/forja/internal/syntax"
)

func classAttribute(t *testing.T, src, shortName string) *syntax.Node {
	t.Helper()
	tree := syntax.Parse("Test.cs", src)
	require.Empty(t, tree.Problems)
	var attr *syntax.Node
	tree.Root.Walk(func(n *syntax.Node) bool {
		if attr == nil && n.Kind() == syntax.ClassDeclaration {
			attr = Find(n, shortName)
		}
		return attr == nil
	})
	require.NotNil(t, attr)
	return attr
}

func TestArguments(t *testing.T) {
	attr := classAttribute(t, `[RegisterService(Lifetime = ServiceLifetime.Scoped, As = typeof(IRepo<int>))] class Repo {}`, "RegisterService")

	args := Arguments(attr)
	require.Len(t, args, 2)
	assert.Equal(t, "Lifetime", args[0].Name)
	assert.True(t, args[0].Named)

	// Test: Enum member access yields the member name
	v, ok := Named(attr, "Lifetime")
	require.True(t, ok)
	lifetime, ok := EnumValue(v)
	require.True(t, ok)
	assert.Equal(t, "Scoped", lifetime)

	// Test: typeof yields the type text
	v, ok = Named(attr, "As")
	require.True(t, ok)
	typ, ok := TypeOfValue(v)
	require.True(t, ok)
	assert.Equal(t, "IRepo<int>", typ)

	// Test: Missing arguments are absent
	_, ok = Named(attr, "Name")
	assert.False(t, ok)
	_, ok = Positional(attr, 0)
	assert.False(t, ok)
}

func TestStringValue(t *testing.T) {
	tests := []struct {
		src  string
		want string
		ok   bool
	}{
		{`[GenerateInterface("IRepository")] class A {}`, "IRepository", true},
		{`[GenerateInterface(@"IQuoted""")] class A {}`, `IQuoted"`, true},
		{`[GenerateInterface(name: "INamed")] class A {}`, "INamed", true},
		{`[GenerateInterface(Prefix + "X")] class A {}`, "", false},
	}
	for _, tt := range tests {
		attr := classAttribute(t, tt.src, "GenerateInterface")
		v, ok := Positional(attr, 0)
		require.True(t, ok, tt.src)

		// Test: Only a lone string literal has a value
		got, ok := StringValue(v)
		assert.Equal(t, tt.ok, ok, tt.src)
		assert.Equal(t, tt.want, got, tt.src)
	}
}

func TestEnumValue(t *testing.T) {
	tests := []struct {
		expr string
		want string
		ok   bool
	}{
		{"Singleton", "Singleton", true},
		{"ServiceLifetime.Transient", "Transient", true},
		{"global::Forja.ServiceLifetime.Scoped", "Scoped", true},
		{"(ServiceLifetime)1", "", false},
		{"ServiceLifetime.", "", false},
	}
	for _, tt := range tests {
		attr := classAttribute(t, "[RegisterService(Lifetime = "+tt.expr+")] class A {}", "RegisterService")
		v, ok := Named(attr, "Lifetime")
		require.True(t, ok, tt.expr)

		got, ok := EnumValue(v)
		assert.Equal(t, tt.ok, ok, tt.expr)
		assert.Equal(t, tt.want, got, tt.expr)
	}
}
