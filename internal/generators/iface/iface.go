// Package iface generates a companion interface for classes marked with
// [GenerateInterface] from their public instance methods and properties.
package iface

import (
	"context"
	"strings"

	"github.com/okra-platform/forja/internal/attribute"
	"github.com/okra-platform/forja/internal/codegen"
	"github.com/okra-platform/forja/internal/compare"
	"github.com/okra-platform/forja/internal/diag"
	"github.com/okra-platform/forja/internal/model"
	"github.com/okra-platform/forja/internal/naming"
	"github.com/okra-platform/forja/internal/pipeline"
	"github.com/okra-platform/forja/internal/semantic"
	"github.com/okra-platform/forja/internal/symbols"
	"github.com/okra-platform/forja/internal/syntax"
)

const (
	// Name identifies the generator in configuration and logs.
	Name = "interface"
	// AttributeName is the short name of the trigger attribute.
	AttributeName = "GenerateInterface"
	// AttributeHintName is the file the attribute definition is added as.
	AttributeHintName = "Forja.GenerateInterfaceAttribute.g.cs"
)

const attributeSource = `// <auto-generated/>
namespace Forja
{
    [global::System.AttributeUsage(global::System.AttributeTargets.Class, AllowMultiple = false, Inherited = false)]
    internal sealed class GenerateInterfaceAttribute : global::System.Attribute
    {
        public GenerateInterfaceAttribute()
        {
        }

        public GenerateInterfaceAttribute(string name)
        {
            Name = name;
        }

        public string? Name { get; set; }
    }
}
`

var (
	NotPartial = diag.Register(diag.Descriptor{
		ID:            "FJ2001",
		Title:         "Class must be partial",
		MessageFormat: "class '%s' is marked [GenerateInterface] but is not declared partial",
		Category:      "Forja.Interface",
		Severity:      diag.SevError,
	})
	StaticClass = diag.Register(diag.Descriptor{
		ID:            "FJ2002",
		Title:         "Class cannot be static",
		MessageFormat: "class '%s' is marked [GenerateInterface] but is static",
		Category:      "Forja.Interface",
		Severity:      diag.SevError,
	})
	ContainingNotPartial = diag.Register(diag.Descriptor{
		ID:            "FJ2003",
		Title:         "Containing type must be partial",
		MessageFormat: "type '%s' contains class '%s' marked [GenerateInterface] but is not declared partial",
		Category:      "Forja.Interface",
		Severity:      diag.SevError,
	})
)

// Result is the transform output for one class.
type Result struct {
	Scope codegen.Scope
	Class model.ClassDefinition
	// Interface is what gets emitted. When extending an existing partial
	// interface it holds only the members that interface lacks.
	Interface model.InterfaceDefinition
	// Extends is set when the members go into an existing partial
	// interface declared in InterfaceScope.
	Extends        bool
	InterfaceScope codegen.Scope
	Diagnostics    []diag.Diagnostic
	Rejected       bool
}

// ResultComparer gates re-emission between passes.
var ResultComparer = compare.EqualityOnly(func(a, b Result) bool {
	return a.Rejected == b.Rejected &&
		a.Extends == b.Extends &&
		scopeEqual(a.Scope, b.Scope) &&
		scopeEqual(a.InterfaceScope, b.InterfaceScope) &&
		compare.Class.Equal(a.Class, b.Class) &&
		compare.Interface.Equal(a.Interface, b.Interface) &&
		compare.Diagnostics.Equal(a.Diagnostics, b.Diagnostics)
})

func scopeEqual(a, b codegen.Scope) bool {
	return a.Namespace == b.Namespace && compare.Classes.Equal(a.Containers, b.Containers)
}

// Generator is the [GenerateInterface] generator.
type Generator struct{}

// New returns the generator.
func New() *Generator {
	return &Generator{}
}

func (*Generator) Name() string { return Name }

func (*Generator) Initialize(ctx *pipeline.InitContext) {
	ctx.RegisterPostInitialization(AttributeHintName, attributeSource)
	pipeline.RegisterSyntaxOutput(ctx, "interface", pipeline.SyntaxProvider[Result]{
		Predicate: Predicate,
		Transform: Transform,
		Key:       hintName,
		Diagnosed: func(r Result) bool { return r.Rejected },
		Comparer:  ResultComparer,
		Execute:   Execute,
	})
}

func hintName(r Result) string {
	return r.Scope.HintName(r.Class, "Interface")
}

// Predicate selects class and record declarations carrying the attribute.
func Predicate(n *syntax.Node) bool {
	switch n.Kind() {
	case syntax.ClassDeclaration, syntax.RecordDeclaration,
		syntax.StructDeclaration, syntax.RecordStructDeclaration:
		return attribute.HasAttribute(n, AttributeName)
	}
	return false
}

// Transform builds the result for the first attributed fragment of a type.
// An exhausted naming search is returned as an error.
func Transform(_ context.Context, sc pipeline.SyntaxContext) (Result, bool, error) {
	t, ok := sc.Compilation.DeclaredType(sc.Node)
	if !ok {
		return Result{}, false, nil
	}
	first, ok := symbols.FirstTriggeringDeclaration(t, symbols.IsTypeAttributed(AttributeName))
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

	candidate := RequestedName(attribute.Find(first.Node, AttributeName)).OrElse(naming.DefaultName(t.Name))
	existing, symbolsByName := implemented(t)
	res, err := naming.ResolveInterfaceName(candidate, existing)
	if err != nil {
		return Result{}, false, err
	}

	members := PublicMembers(t)
	if ext, ok := res.Extends.Get(); ok {
		r.Extends = true
		r.InterfaceScope = codegen.ScopeOf(symbolsByName[ext.Name])
		r.Interface = ext.WithMembers(naming.MergeMembers(ext, members)...)
		return r, true, nil
	}

	r.Interface = model.InterfaceDefinition{
		Visibility:    t.Accessibility(),
		IsPartial:     true,
		Name:          res.Name,
		TypeArguments: r.Class.TypeArguments,
		Members:       members,
	}
	return r, true, nil
}

// RequestedName reads the interface name from the first constructor
// argument or the Name named argument.
func RequestedName(attr *syntax.Node) model.Option[string] {
	if v, ok := attribute.Positional(attr, 0); ok {
		if s, ok := attribute.StringValue(v); ok && s != "" {
			return model.Some(s)
		}
	}
	if v, ok := attribute.Named(attr, "Name"); ok {
		if s, ok := attribute.StringValue(v); ok && s != "" {
			return model.Some(s)
		}
	}
	return model.None[string]()
}

// implemented lists the interfaces t implements. Interfaces outside the
// compilation are known only by name and treated as non-partial.
func implemented(t *semantic.NamedType) ([]model.InterfaceDefinition, map[string]*semantic.NamedType) {
	var out []model.InterfaceDefinition
	byName := map[string]*semantic.NamedType{}
	for _, i := range t.Interfaces {
		if def, ok := semantic.Definition(i); ok {
			if def.TypeKind != semantic.Interface {
				continue
			}
			out = append(out, symbols.Interface(def))
			if _, dup := byName[def.Name]; !dup {
				byName[def.Name] = def
			}
			continue
		}
		if e, ok := i.(*semantic.ErrorType); ok {
			out = append(out, model.InterfaceDefinition{Name: simpleName(e.Text)})
		}
	}
	return out, byName
}

// simpleName strips qualification and type arguments: "global::N.IRepo<T>"
// becomes "IRepo".
func simpleName(text string) string {
	if i := strings.IndexByte(text, '<'); i >= 0 {
		text = text[:i]
	}
	if i := strings.LastIndexAny(text, ".:"); i >= 0 {
		text = text[i+1:]
	}
	return strings.TrimSpace(text)
}

// PublicMembers returns the interface members of t: public instance methods
// and properties with their public accessors, in declaration order.
func PublicMembers(t *semantic.NamedType) []model.Member {
	var out []model.Member
	for _, m := range t.Members() {
		b := m.Base()
		if b.IsStatic || b.Accessibility() != model.Public {
			continue
		}
		switch v := m.(type) {
		case *semantic.Method:
			if v.IsConstructor || v.IsExplicitImplementation {
				continue
			}
			def, ok := symbols.Member(v)
			if !ok {
				continue
			}
			method := def.(model.MethodDefinition)
			method.Visibility = model.Public
			out = append(out, method)
		case *semantic.Property:
			if v.IsExplicitImplementation {
				continue
			}
			def, ok := symbols.Member(v)
			if !ok {
				continue
			}
			if p, ok := publicAccessors(def.(model.PropertyDefinition)); ok {
				out = append(out, p)
			}
		}
	}
	return out
}

// publicAccessors keeps the accessors of p that are visible through the
// interface, in the shape an interface declaration has.
func publicAccessors(p model.PropertyDefinition) (model.PropertyDefinition, bool) {
	out := model.PropertyDefinition{
		MemberCommon: model.MemberCommon{Visibility: model.Public, Type: p.Type, Name: p.Name},
		Setter:       model.NoSetter(),
	}
	if v, ok := p.GetterVisibility.Get(); ok && isPublic(v) {
		out.GetterVisibility = model.Some(model.VisibilityNone)
	}
	if p.Setter.IsPresent() && isPublic(p.Setter.Visibility) {
		out.Setter = model.SetterVisibility{State: p.Setter.State}
	}
	return out, out.GetterVisibility.IsPresent() || out.Setter.IsPresent()
}

func isPublic(v model.Visibility) bool {
	return v == model.VisibilityNone || v == model.Public
}

// Execute reports the diagnostics and emits the interface.
func Execute(spc *pipeline.SourceProductionContext, r Result) {
	for _, d := range r.Diagnostics {
		spc.ReportDiagnostic(d)
	}
	if r.Rejected {
		return
	}
	spc.AddSource(hintName(r), Render(r))
}
