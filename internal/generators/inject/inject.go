// Package inject generates constructors for classes whose fields and
// properties carry [Inject]. Injected members of base classes are taken as
// leading parameters and forwarded to the base constructor.
package inject

import (
	"context"

	"github.com/okra-platform/forja/internal/codegen"
	"github.com/okra-platform/forja/internal/compare"
	"github.com/okra-platform/forja/internal/diag"
	"github.com/okra-platform/forja/internal/model"
	"github.com/okra-platform/forja/internal/pipeline"
	"github.com/okra-platform/forja/internal/semantic"
	"github.com/okra-platform/forja/internal/symbols"
	"github.com/okra-platform/forja/internal/syntax"
)

const (
	// Name identifies the generator in configuration and logs.
	Name = "inject"
	// AttributeName is the short name of the trigger attribute.
	AttributeName = "Inject"
	// AttributeHintName is the file the attribute definition is added as.
	AttributeHintName = "Forja.InjectAttribute.g.cs"
)

const attributeSource = `// <auto-generated/>
namespace Forja
{
    [global::System.AttributeUsage(global::System.AttributeTargets.Field | global::System.AttributeTargets.Property, AllowMultiple = false, Inherited = false)]
    internal sealed class InjectAttribute : global::System.Attribute
    {
    }
}
`

var (
	NotPartial = diag.Register(diag.Descriptor{
		ID:            "FJ1001",
		Title:         "Injected class must be partial",
		MessageFormat: "class '%s' has [Inject] members but is not declared partial",
		Category:      "Forja.Inject",
		Severity:      diag.SevError,
	})
	StaticClass = diag.Register(diag.Descriptor{
		ID:            "FJ1002",
		Title:         "Injected class cannot be static",
		MessageFormat: "class '%s' has [Inject] members but is static",
		Category:      "Forja.Inject",
		Severity:      diag.SevError,
	})
	StaticMember = diag.Register(diag.Descriptor{
		ID:            "FJ1003",
		Title:         "Injected member cannot be static",
		MessageFormat: "member '%s' of '%s' is static and cannot be injected",
		Category:      "Forja.Inject",
		Severity:      diag.SevError,
	})
	ContainingNotPartial = diag.Register(diag.Descriptor{
		ID:            "FJ1004",
		Title:         "Containing type must be partial",
		MessageFormat: "type '%s' contains injected class '%s' but is not declared partial",
		Category:      "Forja.Inject",
		Severity:      diag.SevError,
	})
	BaseNotForwarding = diag.Register(diag.Descriptor{
		ID:            "FJ1005",
		Title:         "Base class cannot forward injected members",
		MessageFormat: "base class '%s' of '%s' has no [Inject] members and no constructor, so injected members of its bases cannot be forwarded",
		Category:      "Forja.Inject",
		Severity:      diag.SevError,
	})
)

// Dependency is one constructor parameter.
type Dependency struct {
	Member model.Member
	// Inherited dependencies are forwarded to the base constructor.
	Inherited bool
}

// Result is the transform output for one class.
type Result struct {
	Scope        codegen.Scope
	Class        model.ClassDefinition
	Dependencies []Dependency
	Diagnostics  []diag.Diagnostic
	// Rejected is set when a class-level rule failed; nothing is emitted.
	Rejected bool
}

var dependencies = compare.SliceOf(compare.Comparer[Dependency]{
	Equal: func(a, b Dependency) bool {
		return a.Inherited == b.Inherited && compare.Member.Equal(a.Member, b.Member)
	},
	Hash: func(d Dependency) uint64 {
		h := compare.Member.Hash(d.Member)
		if d.Inherited {
			h = ^h
		}
		return h
	},
})

// ResultComparer gates re-emission between passes.
var ResultComparer = compare.EqualityOnly(func(a, b Result) bool {
	return a.Rejected == b.Rejected &&
		a.Scope.Namespace == b.Scope.Namespace &&
		compare.Classes.Equal(a.Scope.Containers, b.Scope.Containers) &&
		compare.Class.Equal(a.Class, b.Class) &&
		dependencies.Equal(a.Dependencies, b.Dependencies) &&
		compare.Diagnostics.Equal(a.Diagnostics, b.Diagnostics)
})

// Generator is the [Inject] constructor generator.
type Generator struct{}

// New returns the generator.
func New() *Generator {
	return &Generator{}
}

func (*Generator) Name() string { return Name }

func (*Generator) Initialize(ctx *pipeline.InitContext) {
	ctx.RegisterPostInitialization(AttributeHintName, attributeSource)
	pipeline.RegisterSyntaxOutput(ctx, "constructor", pipeline.SyntaxProvider[Result]{
		Predicate: Predicate,
		Transform: Transform,
		Key:       func(r Result) string { return r.Scope.HintName(r.Class, "") },
		Diagnosed: func(r Result) bool { return r.Rejected },
		Comparer:  ResultComparer,
		Execute:   Execute,
	})
}

// Predicate selects type declarations that declare at least one injected
// member.
func Predicate(n *syntax.Node) bool {
	switch n.Kind() {
	case syntax.ClassDeclaration, syntax.StructDeclaration,
		syntax.RecordDeclaration, syntax.RecordStructDeclaration:
		return symbols.DeclaresTriggeredMember(n, AttributeName)
	}
	return false
}

// Transform builds the result for the first triggering fragment of a type.
// Later fragments of the same partial type are declined.
func Transform(_ context.Context, sc pipeline.SyntaxContext) (Result, bool, error) {
	t, ok := sc.Compilation.DeclaredType(sc.Node)
	if !ok {
		return Result{}, false, nil
	}
	first, ok := symbols.FirstTriggeringDeclaration(t, symbols.HasTriggeredMember(AttributeName))
	if !ok || first.Node != sc.Node {
		return Result{}, false, nil
	}

	r := Result{Scope: codegen.ScopeOf(t), Class: symbols.Class(t)}
	loc := symbols.TypeLocation(first)
	if !t.IsPartial() {
		r.Diagnostics = append(r.Diagnostics, diag.New(NotPartial, loc, t.Name))
	}
	if t.IsStatic {
		r.Diagnostics = append(r.Diagnostics, diag.New(StaticClass, loc, t.Name))
	}
	for _, c := range t.ContainingTypes() {
		if !c.IsPartial() {
			r.Diagnostics = append(r.Diagnostics, diag.New(ContainingNotPartial, loc, c.Name, t.Name))
		}
	}
	if len(r.Diagnostics) > 0 {
		r.Rejected = true
		return r, true, nil
	}

	collected, diags := symbols.CollectTriggered(t, AttributeName, StaticMember)
	r.Diagnostics = diags
	if gap, ok := unforwardedBase(t, collected); ok {
		r.Diagnostics = append(r.Diagnostics, diag.New(BaseNotForwarding, loc, gap.Name, t.Name))
		r.Rejected = true
		return r, true, nil
	}
	for _, m := range collected.Inherited {
		r.Dependencies = append(r.Dependencies, Dependency{Member: m.Member, Inherited: true})
	}
	for _, m := range collected.Own {
		r.Dependencies = append(r.Dependencies, Dependency{Member: m.Member})
	}
	return r, true, nil
}

// unforwardedBase finds the first base between t and an injected ancestor
// that gets no generated constructor and declares none itself. The
// base(...) call of t would not bind against it.
func unforwardedBase(t *semantic.NamedType, collected symbols.Collected) (*semantic.NamedType, bool) {
	declaring := map[*semantic.NamedType]bool{}
	for _, m := range collected.Inherited {
		declaring[m.Declaring] = true
	}

	var chain []*semantic.NamedType
	seen := map[*semantic.NamedType]bool{t: true}
	for cur := t; ; {
		base, ok := cur.BaseDefinition()
		if !ok || seen[base] {
			break
		}
		seen[base] = true
		chain = append(chain, base)
		cur = base
	}

	for i, base := range chain {
		if declaring[base] || len(base.Constructors) > 0 {
			continue
		}
		for _, above := range chain[i+1:] {
			if declaring[above] {
				return base, true
			}
		}
	}
	return nil, false
}

// Execute reports the diagnostics and emits the constructor.
func Execute(spc *pipeline.SourceProductionContext, r Result) {
	for _, d := range r.Diagnostics {
		spc.ReportDiagnostic(d)
	}
	if r.Rejected || len(r.Dependencies) == 0 {
		return
	}
	spc.AddSource(r.Scope.HintName(r.Class, ""), Render(r))
}
