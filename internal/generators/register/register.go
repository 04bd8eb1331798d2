// Package register generates one AddForjaServices extension method that
// registers every class marked with [RegisterService] with the dependency
// injection container.
package register

import (
	"context"
	"slices"
	"strings"

	"github.com/okra-platform/forja/internal/attribute"
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
	Name = "register"
	// AttributeName is the short name of the trigger attribute.
	AttributeName = "RegisterService"
	// AttributeHintName is the file the attribute definition is added as.
	AttributeHintName = "Forja.RegisterServiceAttribute.g.cs"
	// HintName is the file the registrations are emitted to.
	HintName = "Forja.ServiceRegistrations.g.cs"
)

const attributeSource = `// <auto-generated/>
namespace Forja
{
    internal enum ServiceLifetime
    {
        Singleton,
        Scoped,
        Transient,
    }

    [global::System.AttributeUsage(global::System.AttributeTargets.Class, AllowMultiple = false, Inherited = false)]
    internal sealed class RegisterServiceAttribute : global::System.Attribute
    {
        public ServiceLifetime Lifetime { get; set; } = ServiceLifetime.Transient;

        public global::System.Type? As { get; set; }
    }
}
`

var (
	StaticClass = diag.Register(diag.Descriptor{
		ID:            "FJ3001",
		Title:         "Service cannot be static",
		MessageFormat: "class '%s' is marked [RegisterService] but is static",
		Category:      "Forja.Register",
		Severity:      diag.SevError,
	})
	AbstractClass = diag.Register(diag.Descriptor{
		ID:            "FJ3002",
		Title:         "Service cannot be abstract",
		MessageFormat: "class '%s' is marked [RegisterService] but is abstract",
		Category:      "Forja.Register",
		Severity:      diag.SevError,
	})
)

// Lifetime is the container lifetime of a service.
type Lifetime string

const (
	Singleton Lifetime = "Singleton"
	Scoped    Lifetime = "Scoped"
	Transient Lifetime = "Transient"
)

// ParseLifetime maps an enum member name to a lifetime.
func ParseLifetime(s string) (Lifetime, bool) {
	switch l := Lifetime(s); l {
	case Singleton, Scoped, Transient:
		return l, true
	}
	return "", false
}

// Service is one registration.
type Service struct {
	// Namespace and Name order the registrations. Name includes the
	// containing types.
	Namespace string
	Name      string
	Arity     int
	// Implementation is the fully qualified implementation type, in open
	// generic form for generic classes.
	Implementation string
	// As is the fully qualified service type, when one is given.
	As          model.Option[string]
	Lifetime    Lifetime
	Diagnostics []diag.Diagnostic
	Rejected    bool
}

// ServiceComparer compares single registrations.
var ServiceComparer = compare.EqualityOnly(func(a, b Service) bool {
	return a.Namespace == b.Namespace &&
		a.Name == b.Name &&
		a.Arity == b.Arity &&
		a.Implementation == b.Implementation &&
		compare.OptionalString.Equal(a.As, b.As) &&
		a.Lifetime == b.Lifetime &&
		a.Rejected == b.Rejected &&
		compare.Diagnostics.Equal(a.Diagnostics, b.Diagnostics)
})

// Generator is the [RegisterService] generator.
type Generator struct{}

// New returns the generator.
func New() *Generator {
	return &Generator{}
}

func (*Generator) Name() string { return Name }

func (*Generator) Initialize(ctx *pipeline.InitContext) {
	ctx.RegisterPostInitialization(AttributeHintName, attributeSource)
	pipeline.RegisterCollectedOutput(ctx, "registrations", pipeline.CollectedProvider[Service]{
		Predicate: Predicate,
		Transform: Transform,
		Comparer:  ServiceComparer,
		Execute:   Execute,
	})
}

// Predicate selects class and record declarations carrying the attribute.
func Predicate(n *syntax.Node) bool {
	switch n.Kind() {
	case syntax.ClassDeclaration, syntax.RecordDeclaration:
		return attribute.HasAttribute(n, AttributeName)
	}
	return false
}

// Transform builds the registration for the first attributed fragment of a
// class.
func Transform(_ context.Context, sc pipeline.SyntaxContext) (Service, bool, error) {
	t, ok := sc.Compilation.DeclaredType(sc.Node)
	if !ok {
		return Service{}, false, nil
	}
	first, ok := symbols.FirstTriggeringDeclaration(t, symbols.IsTypeAttributed(AttributeName))
	if !ok || first.Node != sc.Node {
		return Service{}, false, nil
	}

	s := Service{
		Namespace:      t.RootNamespace().QualifiedName(),
		Name:           relativeName(t),
		Arity:          t.Arity(),
		Implementation: typeName(t),
		Lifetime:       Transient,
	}
	loc := symbols.TypeLocation(first)
	if t.IsStatic {
		s.Diagnostics = append(s.Diagnostics, diag.New(StaticClass, loc, t.Name))
	}
	if t.IsAbstract {
		s.Diagnostics = append(s.Diagnostics, diag.New(AbstractClass, loc, t.Name))
	}
	s.Rejected = len(s.Diagnostics) > 0

	attr := attribute.Find(first.Node, AttributeName)
	if v, ok := attribute.Named(attr, "Lifetime"); ok {
		if name, ok := attribute.EnumValue(v); ok {
			if l, ok := ParseLifetime(name); ok {
				s.Lifetime = l
			}
		}
	}
	if v, ok := attribute.Named(attr, "As"); ok {
		if text, ok := attribute.TypeOfValue(v); ok {
			s.As = model.Some(serviceType(sc.Compilation, text, t, first.Node))
		}
	}
	return s, true, nil
}

func relativeName(t *semantic.NamedType) string {
	var parts []string
	for _, c := range t.ContainingTypes() {
		parts = append(parts, c.Name)
	}
	return strings.Join(append(parts, t.Name), ".")
}

// typeName is the fully qualified name of t, in open generic form when t is
// generic: global::N.Repo<,>.
func typeName(t *semantic.NamedType) string {
	if t.Arity() == 0 {
		return symbols.FormatType(t)
	}
	return "global::" + t.QualifiedName() + "<" + strings.Repeat(",", t.Arity()-1) + ">"
}

// serviceType resolves the text of typeof(...) in the scope of decl.
// Unbound generic forms such as IRepo<> are looked up by arity.
func serviceType(c *semantic.Compilation, text string, t *semantic.NamedType, decl *syntax.Node) string {
	open, arity, ok := unbound(text)
	if !ok {
		return symbols.FormatType(c.ResolveTypeText(text, t, decl))
	}
	placeholders := make([]string, arity)
	for i := range placeholders {
		placeholders[i] = "object"
	}
	resolved := c.ResolveTypeText(open+"<"+strings.Join(placeholders, ", ")+">", t, decl)
	if def, ok := semantic.Definition(resolved); ok && def.Arity() == arity {
		return typeName(def)
	}
	return text
}

// unbound splits "IRepo<,>" into "IRepo" and 2.
func unbound(text string) (string, int, bool) {
	i := strings.IndexByte(text, '<')
	if i < 0 || !strings.HasSuffix(text, ">") {
		return "", 0, false
	}
	args := text[i+1 : len(text)-1]
	if strings.TrimSpace(strings.ReplaceAll(args, ",", "")) != "" {
		return "", 0, false
	}
	return strings.TrimSpace(text[:i]), strings.Count(args, ",") + 1, true
}

// Execute reports the diagnostics and emits every accepted registration
// ordered by namespace and name.
func Execute(spc *pipeline.SourceProductionContext, items []Service) {
	var accepted []Service
	for _, s := range items {
		for _, d := range s.Diagnostics {
			spc.ReportDiagnostic(d)
		}
		if !s.Rejected {
			accepted = append(accepted, s)
		}
	}
	slices.SortStableFunc(accepted, func(a, b Service) int {
		if c := strings.Compare(a.Namespace, b.Namespace); c != 0 {
			return c
		}
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return a.Arity - b.Arity
	})
	spc.AddSource(HintName, Render(accepted))
}

// Registration renders the call for s. Generic implementations are
// registered through their open type.
func Registration(s Service) string {
	method := "services.Add" + string(s.Lifetime)
	as, hasAs := s.As.Get()
	switch {
	case s.Arity > 0 && hasAs:
		return method + "(typeof(" + as + "), typeof(" + s.Implementation + "));"
	case s.Arity > 0:
		return method + "(typeof(" + s.Implementation + "));"
	case hasAs:
		return method + "<" + as + ", " + s.Implementation + ">();"
	}
	return method + "<" + s.Implementation + ">();"
}
