package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/forja/internal/diag"
	"github.com/okra-platform/forja/internal/model"
	"github.com/okra-platform/forja/internal/semantic"
	"github.com/okra-platform/forja/internal/syntax"
)

var staticRule = diag.Descriptor{
	ID:            "TEST001",
	Title:         "Static member",
	MessageFormat: "member '%s' of '%s' is static",
	Category:      "Test",
	Severity:      diag.SevError,
}

func compile(t *testing.T, files map[string]string) *semantic.Compilation {
	t.Helper()
	var trees []*syntax.Tree
	for path, text := range files {
		tree := syntax.Parse(path, text)
		require.Empty(t, tree.Problems, "%s", path)
		trees = append(trees, tree)
	}
	return semantic.NewCompilation(trees)
}

func lookup(t *testing.T, c *semantic.Compilation, name string) *semantic.NamedType {
	t.Helper()
	typ, ok := c.LookupType(name)
	require.True(t, ok, "type %s", name)
	return typ
}

func TestFormatType(t *testing.T) {
	c := compile(t, map[string]string{"A.cs": `
namespace Lib.Core
{
    public class Item {}
    public class Box<T> {}
}
namespace App
{
    using Lib.Core;
    public class Host<T>
    {
        int a;
        Item b;
        Box<Item> c;
        Box<Box<T>> d;
        Item[] e;
        Item? f;
        (Item x, int) g;
        Missing<Item> h;
        string[,] i;
        T j;
    }
}`})

	host := lookup(t, c, "App.Host`1")
	got := map[string]string{}
	for _, f := range host.Fields {
		got[f.Name] = FormatType(f.Type)
	}

	tests := []struct {
		field string
		want  string
	}{
		{"a", "int"},
		{"b", "global::Lib.Core.Item"},
		{"c", "global::Lib.Core.Box<Lib.Core.Item>"},
		{"d", "global::Lib.Core.Box<Lib.Core.Box<T>>"},
		{"e", "global::Lib.Core.Item[]"},
		{"f", "global::Lib.Core.Item?"},
		{"g", "(global::Lib.Core.Item x, int)"},
		{"h", "Missing<Item>"},
		{"i", "string[,]"},
		{"j", "T"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			// Test: Types are global-qualified at the top and namespace-qualified inside
			assert.Equal(t, tt.want, got[tt.field])
		})
	}
}

func TestFormatType_GlobalNamespace(t *testing.T) {
	// Test: A type in the global namespace still gets the global prefix
	c := compile(t, map[string]string{"A.cs": "class Item {} class Host { Item a; }"})
	host := lookup(t, c, "Host")
	assert.Equal(t, "global::Item", FormatType(host.Fields[0].Type))
}

func TestMember(t *testing.T) {
	c := compile(t, map[string]string{"A.cs": `
namespace N
{
    public class Dep {}
    public class X
    {
        protected readonly Dep _dep = null;
        public Dep Prop { get; private set; }
        public string Name { get; init; }
        public int ReadOnly => 1;
        public T Make<T>(ref Dep a, int b = 3) => default;
        public X() {}
    }
}`})
	x := lookup(t, c, "N.X")
	members := x.Members()
	require.Len(t, members, 6)

	field, ok := Member(members[0])
	require.True(t, ok)
	assert.Equal(t, model.FieldDefinition{
		MemberCommon: model.MemberCommon{Visibility: model.Protected, Type: "global::N.Dep", Name: "_dep"},
		IsReadonly:   true,
		DefaultValue: model.Some("null"),
	}, field)

	prop, ok := Member(members[1])
	require.True(t, ok)
	p := prop.(model.PropertyDefinition)
	assert.Equal(t, model.Some(model.VisibilityNone), p.GetterVisibility)
	assert.Equal(t, model.SetterWith(model.Private), p.Setter)

	name, _ := Member(members[2])
	assert.Equal(t, model.SetterInit, name.(model.PropertyDefinition).Setter.State)

	ro, _ := Member(members[3])
	assert.False(t, ro.(model.PropertyDefinition).Setter.IsPresent())
	assert.True(t, ro.(model.PropertyDefinition).GetterVisibility.IsPresent())

	method, ok := Member(members[4])
	require.True(t, ok)
	m := method.(model.MethodDefinition)
	assert.Equal(t, "T", m.Type)
	assert.Equal(t, []string{"T"}, m.TypeParameters)
	require.Len(t, m.Parameters, 2)
	assert.Equal(t, model.ParameterRef, m.Parameters[0].ParameterKind)
	assert.Equal(t, "global::N.Dep", m.Parameters[0].Type)
	assert.Equal(t, model.Some("3"), m.Parameters[1].DefaultValue)

	_, ok = Member(members[5])
	assert.False(t, ok, "constructors are not model members")
}

func TestClassAndInterface(t *testing.T) {
	c := compile(t, map[string]string{"A.cs": `
namespace N
{
    public partial interface IThing<T> { T Get(); int Count { get; } }
    partial class Outer
    {
        internal sealed partial record Thing<T> : IThing<T>
        {
            public Thing(T seed) {}
        }
    }
}`})

	thing := lookup(t, c, "N.Outer.Thing`1")
	class := Class(thing)
	assert.Equal(t, model.ClassDefinition{
		Visibility:    model.Internal,
		IsPartial:     true,
		Keyword:       "record",
		Name:          "Thing",
		TypeArguments: []string{"T"},
		Interfaces:    []string{"global::N.IThing<T>"},
		Constructors: []model.ConstructorDefinition{{
			Visibility: model.Public,
			Parameters: []model.MethodParameterDefinition{{MemberCommon: model.MemberCommon{Type: "T", Name: "seed"}}},
		}},
	}, class)

	chain := ContainingClasses(thing)
	require.Len(t, chain, 1)
	assert.Equal(t, "Outer", chain[0].Name)
	assert.True(t, chain[0].IsPartial)

	impl := ImplementedInterfaces(thing)
	require.Len(t, impl, 1)
	iface := Interface(impl[0])
	assert.Equal(t, "IThing", iface.Name)
	assert.True(t, iface.IsPartial)
	assert.Equal(t, model.Public, iface.Visibility)
	require.Len(t, iface.Members, 2)
	assert.Equal(t, model.MethodMember, iface.Members[0].Kind())
	assert.Equal(t, model.Public, iface.Members[0].Common().Visibility)
}

func TestCollectTriggered_Inheritance(t *testing.T) {
	// Test: Inherited trigger members come first, root-most base first, with type parameters substituted
	c := compile(t, map[string]string{"A.cs": `
namespace N
{
    public class Repo<T> {}
    public class Root : object
    {
        [Inject] private readonly string _name;
    }
    public partial class Middle<T> : Root
    {
        [Inject] protected Repo<T> _repo;
        [Inject] private static int _ignored;
        private int _plain;
    }
    public partial class Leaf : Middle<int>
    {
        [Inject] public Repo<Leaf> Self { get; }
    }
}`})

	leaf := lookup(t, c, "N.Leaf")
	collected, diags := CollectTriggered(leaf, "Inject", staticRule)
	assert.Empty(t, diags, "static inherited members are reported by their own type")

	require.Len(t, collected.Own, 1)
	assert.Equal(t, "Self", collected.Own[0].Member.Common().Name)
	assert.Equal(t, "global::N.Repo<N.Leaf>", collected.Own[0].Member.Common().Type)

	require.Len(t, collected.Inherited, 2)
	assert.Equal(t, "_name", collected.Inherited[0].Member.Common().Name)
	assert.Equal(t, "Root", collected.Inherited[0].Declaring.Name)
	assert.Equal(t, "_repo", collected.Inherited[1].Member.Common().Name)
	assert.Equal(t, "global::N.Repo<int>", collected.Inherited[1].Member.Common().Type)

	all := collected.All()
	require.Len(t, all, 3)
	assert.Equal(t, "Self", all[2].Member.Common().Name)
}

func TestCollectTriggered_StaticMembers(t *testing.T) {
	// Test: Each static trigger member yields one diagnostic and is excluded while siblings survive
	c := compile(t, map[string]string{"A.cs": `
public partial class Dummy
{
    [Inject] private static string _a;
    [Inject] private string _b;
    [Inject] public static int C { get; set; }
}`})

	dummy := lookup(t, c, "Dummy")
	collected, diags := CollectTriggered(dummy, "Inject", staticRule)
	require.Len(t, collected.Own, 1)
	assert.Equal(t, "_b", collected.Own[0].Member.Common().Name)

	require.Len(t, diags, 2)
	assert.Equal(t, "TEST001", diags[0].ID())
	assert.Equal(t, "member '_a' of 'Dummy' is static", diags[0].Message())
	assert.Equal(t, 4, diags[0].Location.Line)
	assert.Equal(t, "member 'C' of 'Dummy' is static", diags[1].Message())
}

func TestCollectTriggered_MultiFilePartial(t *testing.T) {
	// Test: Partial fragments contribute in declaration order whatever the file order
	files := map[string]string{
		"B.cs": "namespace N { public partial class Dummy { [Inject] private int _second; } }",
		"A.cs": "namespace N { public partial class Dummy { [Inject] private int _first; } }",
		"C.cs": "namespace N { public partial class Dummy { private int _untagged; } }",
	}
	c := compile(t, files)
	dummy := lookup(t, c, "N.Dummy")

	collected, _ := CollectTriggered(dummy, "Inject", staticRule)
	require.Len(t, collected.Own, 2)
	assert.Equal(t, "_first", collected.Own[0].Member.Common().Name)
	assert.Equal(t, "_second", collected.Own[1].Member.Common().Name)

	first, ok := FirstTriggeringDeclaration(dummy, HasTriggeredMember("Inject"))
	require.True(t, ok)
	assert.Equal(t, "A.cs", first.Tree.Path)
}

func TestCollectTriggered_BaseCycle(t *testing.T) {
	// Test: A cyclic base chain terminates
	c := compile(t, map[string]string{"A.cs": `
class A : B { [Inject] int _a; }
class B : A { [Inject] int _b; }`})
	a := lookup(t, c, "A")
	collected, _ := CollectTriggered(a, "Inject", staticRule)
	assert.Len(t, collected.Own, 1)
	assert.Len(t, collected.Inherited, 1)
}

func TestFirstTriggeringDeclaration(t *testing.T) {
	c := compile(t, map[string]string{
		"A.cs": "partial class X { }",
		"B.cs": "[GenerateInterface] partial class X { }",
		"C.cs": "[GenerateInterface] partial class X { }",
	})
	x := lookup(t, c, "X")

	// Test: The first attributed fragment by declaration order is chosen
	d, ok := FirstTriggeringDeclaration(x, IsTypeAttributed("GenerateInterface"))
	require.True(t, ok)
	assert.Equal(t, "B.cs", d.Tree.Path)

	// Test: No fragment matches
	_, ok = FirstTriggeringDeclaration(x, IsTypeAttributed("RegisterService"))
	assert.False(t, ok)
}
