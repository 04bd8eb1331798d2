package iface

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/forja/internal/diag"
	"github.com/okra-platform/forja/internal/model"
	"github.com/okra-platform/forja/internal/naming"
	"github.com/okra-platform/forja/internal/pipeline"
)

// Test plan for the interface generator:
// 1. Public instance members are mirrored with their public accessors
// 2. A non-partial interface of the same name forces a suffixed name
// 3. A partial interface of the same name is extended in place
// 4. Explicit names come from the attribute arguments
// 5. Class-level rule violations report and emit nothing
// 6. Fragments across files produce one output
// 7. Body-only edits are served from cache

func newDriver(t *testing.T) *pipeline.Driver {
	t.Helper()
	d, err := pipeline.NewDriver([]pipeline.Generator{New()})
	require.NoError(t, err)
	return d
}

func run(t *testing.T, d *pipeline.Driver, pairs ...string) *pipeline.PassResult {
	t.Helper()
	if d == nil {
		d = newDriver(t)
	}
	var in []pipeline.Input
	for i := 0; i+1 < len(pairs); i += 2 {
		in = append(in, pipeline.Input{Path: pairs[i], Text: pairs[i+1]})
	}
	r, err := d.RunPass(context.Background(), in)
	require.NoError(t, err)
	return r
}

func source(t *testing.T, r *pipeline.PassResult, hint string) string {
	t.Helper()
	s, ok := r.Source(hint)
	require.True(t, ok, "missing %s, have %v", hint, r.HintNames())
	return s.Text
}

func TestInterface_Members(t *testing.T) {
	r := run(t, nil, "Dummy.cs", `
namespace N
{
    [GenerateInterface]
    public partial class Dummy<T>
    {
        public Dummy(T seed) {}
        public T Get(int id, string label = "x") => default;
        public string Name { get; set; }
        public int Count { get; private set; }
        public int Secret { private get; set; }
        public string Id { get; init; }
        public static void Shared() {}
        private void Hidden() {}
        internal void Internal() {}
        public void Generic<U>(ref U value) {}
        private int _field;
    }
}`)
	require.Empty(t, r.Diagnostics)

	expected := `// <auto-generated/>
#nullable enable

namespace N
{
    public partial interface IDummy<T>
    {
        T Get(int id, string label = "x");
        string Name { get; set; }
        int Count { get; }
        int Secret { set; }
        string Id { get; init; }
        void Generic<U>(ref U value);
    }

    partial class Dummy<T> : IDummy<T>
    {
    }
}
`
	// Test: Only public instance members appear, with public accessors only
	assert.Equal(t, expected, source(t, r, "N.Dummy_1.Interface.g.cs"))
}

func TestInterface_NameConflict(t *testing.T) {
	r := run(t, nil, "Dummy.cs", `
namespace N
{
    public interface IDummy { void Existing(); }

    [GenerateInterface]
    public partial class Dummy : IDummy
    {
        public void Existing() {}
        public void Run() {}
    }
}`)
	out := source(t, r, "N.Dummy.Interface.g.cs")

	// Test: A non-partial IDummy yields IDummy2 with every member
	assert.Contains(t, out, "    public partial interface IDummy2\n")
	assert.Contains(t, out, "        void Existing();\n        void Run();\n")
	assert.Contains(t, out, "    partial class Dummy : IDummy2\n")
}

func TestInterface_ExternalConflict(t *testing.T) {
	r := run(t, nil, "Dummy.cs", `
[GenerateInterface("IDisposable")]
public partial class Dummy : System.IDisposable
{
    public void Dispose() {}
}`)
	out := source(t, r, "Dummy.Interface.g.cs")

	// Test: An interface outside the compilation still counts as taken
	assert.Contains(t, out, "public partial interface IDisposable2\n")
}

func TestInterface_ExtendsPartial(t *testing.T) {
	r := run(t, nil,
		"Contracts.cs", `
namespace Contracts
{
    public partial interface IDummy
    {
        void Existing();
        int Count { get; }
    }
}`,
		"Dummy.cs", `
namespace App
{
    using Contracts;

    [GenerateInterface]
    public partial class Dummy : IDummy
    {
        public void Existing() {}
        public int Count { get; }
        public void Run(int times) {}
    }
}`)
	require.Empty(t, r.Diagnostics)

	expected := `// <auto-generated/>
#nullable enable

namespace Contracts
{
    partial interface IDummy
    {
        void Run(int times);
    }
}
`
	// Test: Only missing members are added, in the interface's own namespace
	assert.Equal(t, expected, source(t, r, "App.Dummy.Interface.g.cs"))
}

func TestInterface_RequestedName(t *testing.T) {
	tests := []struct {
		attr string
		want string
	}{
		{`[GenerateInterface]`, "IDummy"},
		{`[GenerateInterface("IRunner")]`, "IRunner"},
		{`[GenerateInterface(Name = "IWalker")]`, "IWalker"},
		{`[Forja.GenerateInterfaceAttribute("")]`, "IDummy"},
	}
	for _, tt := range tests {
		t.Run(tt.attr, func(t *testing.T) {
			r := run(t, nil, "Dummy.cs", tt.attr+" partial class Dummy { public void Run() {} }")

			// Test: The attribute argument overrides the default name
			out := source(t, r, "Dummy.Interface.g.cs")
			assert.Contains(t, out, "internal partial interface "+tt.want+"\n")
			assert.Contains(t, out, "partial class Dummy : "+tt.want+"\n")
		})
	}
}

func TestInterface_ClassRules(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"not partial", "[GenerateInterface] class Dummy {}", "FJ2001"},
		{"static", "[GenerateInterface] static partial class Dummy {}", "FJ2002"},
		{"containing type", "class Outer { [GenerateInterface] partial class Dummy {} }", "FJ2003"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(t, nil, "Dummy.cs", tt.src)

			// Test: The class is reported and nothing is generated for it
			require.Len(t, r.Diagnostics, 1)
			assert.Equal(t, tt.want, r.Diagnostics[0].ID())
			assert.Equal(t, diag.SevError, r.Diagnostics[0].Severity())
			assert.Equal(t, []string{AttributeHintName}, r.HintNames())
		})
	}
}

func TestInterface_Nested(t *testing.T) {
	r := run(t, nil, "Dummy.cs", `
namespace N
{
    partial class Outer
    {
        [GenerateInterface]
        internal partial class Inner { public void Run() {} }
    }
}`)
	out := source(t, r, "N.Outer.Inner.Interface.g.cs")

	// Test: The interface is declared next to the class inside the container
	assert.Contains(t, out, "    partial class Outer\n    {\n        internal partial interface IInner\n")
	assert.Contains(t, out, "        partial class Inner : IInner\n")
}

func TestInterface_MultiFilePartial(t *testing.T) {
	r := run(t, nil,
		"B.cs", "[GenerateInterface] partial class Dummy { public void Second() {} }",
		"A.cs", "[GenerateInterface] partial class Dummy { public void First() {} }",
	)
	out := source(t, r, "Dummy.Interface.g.cs")

	// Test: Members of every fragment appear once, in declaration order
	assert.Contains(t, out, "void First();\n        void Second();\n")
	assert.Len(t, r.StepsIn(pipeline.StateEmitted), 1)
	assert.Len(t, r.StepsIn(pipeline.StateCandidate), 1)
}

func TestInterface_Incremental(t *testing.T) {
	d := newDriver(t)
	run(t, d, "Dummy.cs", "[GenerateInterface] partial class Dummy { public void Run() { A(); } }")

	// Test: A body-only edit keeps the model equal
	r := run(t, d, "Dummy.cs", "[GenerateInterface] partial class Dummy { public void Run() { B(); } }")
	assert.Len(t, r.StepsIn(pipeline.StateCachedEqual), 1)

	// Test: A signature change re-emits
	r = run(t, d, "Dummy.cs", "[GenerateInterface] partial class Dummy { public int Run() => 1; }")
	assert.Len(t, r.StepsIn(pipeline.StateEmitted), 1)
	assert.Contains(t, source(t, r, "Dummy.Interface.g.cs"), "int Run();")
}

func TestInterface_NamingExhausted(t *testing.T) {
	bases := []string{"IDummy"}
	for i := 2; i <= naming.MaxAttempts+1; i++ {
		bases = append(bases, fmt.Sprintf("IDummy%d", i))
	}
	src := "[GenerateInterface] partial class Dummy : " + strings.Join(bases, ", ") + " {}"

	_, err := newDriver(t).RunPass(context.Background(), []pipeline.Input{{Path: "Dummy.cs", Text: src}})

	// Test: Exhausting the suffix search is a contract violation, not a diagnostic
	require.Error(t, err)
	assert.True(t, errors.HasAssertionFailure(err))
}

func TestPublicAccessors(t *testing.T) {
	prop := model.PropertyDefinition{
		MemberCommon:     model.MemberCommon{Visibility: model.Public, Type: "int", Name: "X"},
		GetterVisibility: model.Some(model.Protected),
		Setter:           model.SetterWith(model.Private),
	}

	// Test: A property without any public accessor is dropped
	_, ok := publicAccessors(prop)
	assert.False(t, ok)

	// Test: Init setters keep their state
	prop.Setter = model.InitSetter()
	got, ok := publicAccessors(prop)
	require.True(t, ok)
	assert.Equal(t, model.InitSetter(), got.Setter)
	assert.False(t, got.GetterVisibility.IsPresent())
	assert.Equal(t, "int X { init; }", Declaration(got))
}
