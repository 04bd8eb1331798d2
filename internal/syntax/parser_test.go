package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test plan:
// 1. Namespaces (block and file-scoped), usings and aliases
// 2. Type declarations with modifiers, type parameters and base lists
// 3. Fields, properties, methods and constructors keep their parts
// 4. Unmodelled members become opaque nodes without derailing the parser
// 5. Type syntax round-trips through Text()

func parse(t *testing.T, src string) *Tree {
	t.Helper()
	tree := Parse("Test.cs", src)
	require.NotNil(t, tree)
	return tree
}

func firstOfKind(root *Node, kind Kind) *Node {
	var found *Node
	root.Walk(func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.Kind() == kind {
			found = n
			return false
		}
		return true
	})
	return found
}

func allOfKind(root *Node, kind Kind) []*Node {
	var out []*Node
	root.Walk(func(n *Node) bool {
		if n.Kind() == kind {
			out = append(out, n)
		}
		return true
	})
	return out
}

func TestParse_NamespacesAndUsings(t *testing.T) {
	// Test: Usings, aliases and nested namespaces are recognised
	tree := parse(t, `
using System;
using static System.Math;
using Inj = Forja.InjectAttribute;
global using System.Linq;

namespace Outer.Inner
{
    using System.Text;
    class A {}
}
`)
	require.Empty(t, tree.Problems)

	usings := tree.Usings()
	require.Len(t, usings, 5)
	alias := usings[2].FirstChild(NameEquals)
	require.NotNil(t, alias)
	assert.Equal(t, "Inj", alias.Identifier().Text)
	assert.Equal(t, "Forja.InjectAttribute", usings[2].TypeNode().Text())
	assert.True(t, usings[1].HasToken(StaticKeyword))
	assert.True(t, usings[3].HasToken(GlobalKeyword))

	ns := firstOfKind(tree.Root, NamespaceDeclaration)
	require.NotNil(t, ns)
	assert.Equal(t, "Outer.Inner", ns.TypeNode().Text())
	members := ns.Members()
	require.Len(t, members, 1)
	assert.Equal(t, ClassDeclaration, members[0].Kind())
}

func TestParse_FileScopedNamespace(t *testing.T) {
	// Test: Declarations after a file-scoped namespace belong to it
	tree := parse(t, "namespace N;\nclass A {}\nclass B {}\n")
	require.Empty(t, tree.Problems)

	ns := firstOfKind(tree.Root, FileScopedNamespaceDeclaration)
	require.NotNil(t, ns)
	assert.Len(t, ns.Members(), 2)
}

func TestParse_ClassDeclaration(t *testing.T) {
	// Test: Modifiers, type parameters, bases and attributes are kept on the class
	tree := parse(t, `
[Forja.Inject, Other(1, Name = "x")]
public static partial class Dummy<T, in U> : Base<T>, IFoo where T : class, new()
{
}
`)
	require.Empty(t, tree.Problems)

	cls := firstOfKind(tree.Root, ClassDeclaration)
	require.NotNil(t, cls)
	assert.Equal(t, "Dummy", cls.Identifier().Text)
	assert.True(t, cls.HasToken(PublicKeyword))
	assert.True(t, cls.HasToken(StaticKeyword))
	assert.True(t, cls.HasToken(PartialKeyword))

	tps := cls.FirstChild(TypeParameterList).ChildrenOfKind(TypeParameter)
	require.Len(t, tps, 2)
	assert.Equal(t, "T", tps[0].Identifier().Text)
	assert.Equal(t, "U", tps[1].Identifier().Text)
	assert.True(t, tps[1].HasToken(InKeyword))

	bases := cls.FirstChild(BaseList).ChildrenOfKind(SimpleBaseType)
	require.Len(t, bases, 2)
	assert.Equal(t, "Base<T>", bases[0].Text())
	assert.Equal(t, "IFoo", bases[1].Text())
	assert.NotNil(t, cls.FirstChild(TypeParameterConstraintClause))

	attrs := allOfKind(cls, Attribute)
	require.Len(t, attrs, 2)
	assert.Equal(t, "Forja.Inject", attrs[0].TypeNode().Text())
	args := attrs[1].FirstChild(AttributeArgumentList).ChildrenOfKind(AttributeArgument)
	require.Len(t, args, 2)
	assert.NotNil(t, args[1].FirstChild(NameEquals))
}

func TestParse_Records(t *testing.T) {
	// Test: record, record class and record struct declarations
	tree := parse(t, `
public record Point(int X, int Y);
public record class Named { }
public readonly record struct Pair(int A, int B);
`)
	require.Empty(t, tree.Problems)

	recs := tree.Root.Members()
	require.Len(t, recs, 3)
	assert.Equal(t, RecordDeclaration, recs[0].Kind())
	assert.NotNil(t, recs[0].FirstChild(ParameterList))
	assert.Equal(t, RecordDeclaration, recs[1].Kind())
	assert.Equal(t, RecordStructDeclaration, recs[2].Kind())
}

func TestParse_Fields(t *testing.T) {
	// Test: Field declarations with multiple declarators and initializers
	tree := parse(t, `
class A
{
    private readonly IService _service;
    public static int X = 1, Y = Compute(1, 2);
    private List<string> _names = new() { "a", "b" };
}
`)
	require.Empty(t, tree.Problems)

	fields := allOfKind(tree.Root, FieldDeclaration)
	require.Len(t, fields, 3)

	decl := fields[0].FirstChild(VariableDeclaration)
	assert.Equal(t, "IService", decl.TypeNode().Text())
	assert.True(t, fields[0].HasToken(ReadonlyKeyword))

	vars := fields[1].FirstChild(VariableDeclaration).ChildrenOfKind(VariableDeclarator)
	require.Len(t, vars, 2)
	assert.Equal(t, "Y", vars[1].Identifier().Text)
	assert.Equal(t, "Compute(1, 2)", vars[1].FirstChild(EqualsValueClause).FirstChild(Expression).Text())

	init := fields[2].FirstChild(VariableDeclaration).FirstChild(VariableDeclarator).FirstChild(EqualsValueClause)
	assert.Equal(t, `new() { "a", "b" }`, init.FirstChild(Expression).Text())
}

func TestParse_Properties(t *testing.T) {
	// Test: Accessor lists, accessor modifiers, initializers and expression bodies
	tree := parse(t, `
class A
{
    public int P { get; private set; } = 5;
    public string Q { get; init; }
    public int R => 42;
    protected internal int S { private get => s; set { s = value; } }
    int IFoo.T { get; }
}
`)
	require.Empty(t, tree.Problems)

	props := allOfKind(tree.Root, PropertyDeclaration)
	require.Len(t, props, 5)

	accs := props[0].FirstChild(AccessorList).ChildrenOfKind(AccessorDeclaration)
	require.Len(t, accs, 2)
	assert.True(t, accs[0].HasToken(GetKeyword))
	assert.True(t, accs[1].HasToken(SetKeyword))
	assert.True(t, accs[1].HasToken(PrivateKeyword))
	assert.Equal(t, "5", props[0].FirstChild(EqualsValueClause).FirstChild(Expression).Text())

	accs = props[1].FirstChild(AccessorList).ChildrenOfKind(AccessorDeclaration)
	assert.True(t, accs[1].HasToken(InitKeyword))

	assert.NotNil(t, props[2].FirstChild(ArrowExpressionClause))
	assert.Nil(t, props[2].FirstChild(AccessorList))

	assert.True(t, props[3].HasToken(ProtectedKeyword))
	assert.True(t, props[3].HasToken(InternalKeyword))

	assert.NotNil(t, props[4].FirstChild(ExplicitInterfaceSpecifier))
	assert.Equal(t, "T", props[4].Identifier().Text)
}

func TestParse_Methods(t *testing.T) {
	// Test: Methods keep type parameters, parameter modifiers and defaults
	tree := parse(t, `
class A
{
    public static T Get<T>(this IFoo foo, ref int a, out string b, in long c, params object[] rest) where T : new() => default;
    internal void Opt(int x = 3, string s = "a,b") { var y = (x, s); }
    ref readonly int Peek(scoped ref int v);
    abstract void Abstract();
}
`)
	require.Empty(t, tree.Problems)

	methods := allOfKind(tree.Root, MethodDeclaration)
	require.Len(t, methods, 4)

	m := methods[0]
	assert.Equal(t, "Get", m.Identifier().Text)
	assert.Equal(t, "T", m.TypeNode().Text())
	tps := m.FirstChild(TypeParameterList).ChildrenOfKind(TypeParameter)
	require.Len(t, tps, 1)
	assert.Equal(t, "T", tps[0].Identifier().Text)

	params := m.FirstChild(ParameterList).ChildrenOfKind(Parameter)
	require.Len(t, params, 5)
	assert.True(t, params[0].HasToken(ThisKeyword))
	assert.True(t, params[1].HasToken(RefKeyword))
	assert.True(t, params[2].HasToken(OutKeyword))
	assert.True(t, params[3].HasToken(InKeyword))
	assert.True(t, params[4].HasToken(ParamsKeyword))
	assert.Equal(t, "object[]", params[4].TypeNode().Text())

	opt := methods[1].FirstChild(ParameterList).ChildrenOfKind(Parameter)
	require.Len(t, opt, 2)
	assert.Equal(t, "3", opt[0].FirstChild(EqualsValueClause).FirstChild(Expression).Text())
	assert.Equal(t, `"a,b"`, opt[1].FirstChild(EqualsValueClause).FirstChild(Expression).Text())
	assert.NotNil(t, methods[1].FirstChild(Block))

	peek := methods[2].FirstChild(ParameterList).ChildrenOfKind(Parameter)
	require.Len(t, peek, 1)
	assert.True(t, peek[0].HasToken(ScopedKeyword))
	assert.True(t, peek[0].HasToken(RefKeyword))
}

func TestParse_Constructors(t *testing.T) {
	// Test: Constructors are recognised by the enclosing type name
	tree := parse(t, `
class Dummy : Base
{
    public Dummy(int a) : base(a) { }
    private Dummy() { }
    public void Dummy2() { }
}
`)
	require.Empty(t, tree.Problems)

	ctors := allOfKind(tree.Root, ConstructorDeclaration)
	require.Len(t, ctors, 2)
	assert.NotNil(t, ctors[0].FirstChild(ConstructorInitializer))
	assert.Len(t, allOfKind(tree.Root, MethodDeclaration), 1)
}

func TestParse_NestedTypes(t *testing.T) {
	// Test: Nested types are members of their containing type
	tree := parse(t, `
namespace N
{
    partial class Outer
    {
        partial struct Middle
        {
            interface IInner { void M(); }
        }
    }
}
`)
	require.Empty(t, tree.Problems)

	iface := firstOfKind(tree.Root, InterfaceDeclaration)
	require.NotNil(t, iface)
	anc := iface.Ancestors()
	require.GreaterOrEqual(t, len(anc), 3)
	assert.Equal(t, StructDeclaration, anc[0].Kind())
	assert.Equal(t, ClassDeclaration, anc[1].Kind())
	assert.Equal(t, NamespaceDeclaration, anc[2].Kind())
}

func TestParse_OpaqueMembers(t *testing.T) {
	// Test: Events, indexers, operators, destructors and delegates do not derail parsing
	tree := parse(t, `
class A
{
    public event EventHandler Changed;
    public event EventHandler Custom { add { } remove { } }
    public int this[int i] { get { return i; } }
    public static A operator +(A a, A b) => a;
    public static implicit operator int(A a) => 0;
    ~A() { }
    public delegate void Handler(int x);
    enum Color { Red, Green = 2 }
    public int After;
}
`)
	require.Empty(t, tree.Problems)

	assert.Len(t, allOfKind(tree.Root, EventFieldDeclaration), 2)
	assert.Len(t, allOfKind(tree.Root, DelegateDeclaration), 1)
	assert.Len(t, allOfKind(tree.Root, EnumDeclaration), 1)
	assert.Len(t, allOfKind(tree.Root, IncompleteMember), 4)

	field := firstOfKind(tree.Root, FieldDeclaration)
	require.NotNil(t, field)
	assert.Equal(t, "After", field.FirstChild(VariableDeclaration).FirstChild(VariableDeclarator).Identifier().Text)
}

func TestParse_TypeSyntax(t *testing.T) {
	// Test: Type references keep their exact text and shape
	tests := []struct {
		src  string
		kind Kind
	}{
		{"int", PredefinedType},
		{"Foo", IdentifierName},
		{"List<int>", GenericName},
		{"System.Collections.Generic.List<Dictionary<string, int[]>>", QualifiedName},
		{"global::System.String", QualifiedName},
		{"int?", NullableType},
		{"string[,]", ArrayType},
		{"int*", PointerType},
		{"(int a, string b)", TupleType},
		{"List<(int, string)>?", NullableType},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tree := parse(t, "class A { "+tt.src+" F; }")
			require.Empty(t, tree.Problems)
			decl := firstOfKind(tree.Root, VariableDeclaration)
			require.NotNil(t, decl)
			typ := decl.TypeNode()
			require.NotNil(t, typ)
			assert.Equal(t, tt.kind, typ.Kind())
			assert.Equal(t, tt.src, typ.Text())
		})
	}
}

func TestParse_AliasQualifiedName(t *testing.T) {
	// Test: global:: produces an alias qualified name with a global keyword
	tree := parse(t, "class A { global::Foo F; }")
	typ := firstOfKind(tree.Root, VariableDeclaration).TypeNode()
	require.Equal(t, AliasQualifiedName, typ.Kind())
	alias := typ.ChildNodes()[0]
	assert.True(t, alias.HasToken(GlobalKeyword))
}

func TestParse_Locations(t *testing.T) {
	// Test: Node locations have 1-based line and column
	tree := parse(t, "namespace N\n{\n    class Dummy {}\n}\n")
	cls := firstOfKind(tree.Root, ClassDeclaration)
	loc := cls.Location()
	assert.Equal(t, "Test.cs", loc.File)
	assert.Equal(t, 3, loc.Line)
	assert.Equal(t, 5, loc.Column)
}

func TestParse_MalformedInputTerminates(t *testing.T) {
	// Test: Broken sources record problems and still produce a tree
	inputs := []string{
		"class",
		"class A {",
		"class A { int }",
		"class A { public ) int X; }",
		"namespace { ]]] }",
		"[Inject class A {}",
		"class A<T { }",
		"} } }",
		"class A { void M( }",
	}

	for _, src := range inputs {
		tree := Parse("Bad.cs", src)
		require.NotNil(t, tree.Root, "source %q", src)
		assert.True(t, tree.HasErrors(), "source %q", src)
	}
}

func TestParse_ParentLinks(t *testing.T) {
	// Test: Every node except the root points at its parent and tree
	tree := parse(t, "namespace N { class A { int X; void M(int a) {} } }")
	tree.Root.Walk(func(n *Node) bool {
		assert.Same(t, tree, n.Tree())
		if n != tree.Root {
			require.NotNil(t, n.Parent())
			assert.Contains(t, n.Parent().ChildNodes(), n)
		}
		return true
	})
}

func TestParseType(t *testing.T) {
	// Test: Standalone type text parses into one type node
	n, ok := ParseType("global::N.Repo<int, List<string>>")
	require.True(t, ok)
	assert.Equal(t, QualifiedName, n.Kind())
	assert.Equal(t, "global::N.Repo<int, List<string>>", n.Text())

	// Test: Trailing tokens are rejected
	_, ok = ParseType("IFoo bar")
	assert.False(t, ok)
}
