// Package codegen holds the C# emission helpers shared by the generators.
package codegen

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/okra-platform/forja/internal/codegen/writer"
	"github.com/okra-platform/forja/internal/model"
	"github.com/okra-platform/forja/internal/semantic"
	"github.com/okra-platform/forja/internal/symbols"
	"github.com/okra-platform/forja/internal/syntax"
)

// Indent is the indentation of generated sources.
const Indent = "    "

// NewWriter returns a writer configured for generated sources.
func NewWriter() *writer.Writer {
	return writer.NewWriter(Indent)
}

// Header writes the preamble every generated file starts with.
func Header(w *writer.Writer) {
	w.WriteComment("<auto-generated/>")
	w.WriteLine("#nullable enable")
	w.Newline()
}

// Scope is where a generated declaration sits: a namespace and the chain of
// types containing it, outermost first.
type Scope struct {
	Namespace  string
	Containers []model.ClassDefinition
}

// ScopeOf returns the scope t is declared in.
func ScopeOf(t *semantic.NamedType) Scope {
	return Scope{
		Namespace:  t.RootNamespace().QualifiedName(),
		Containers: symbols.ContainingClasses(t),
	}
}

// Open writes the namespace and container declarations and returns the
// function that closes them.
func (s Scope) Open(w *writer.Writer) func() {
	var closers []func()
	if s.Namespace != "" {
		closers = append(closers, w.OpenBlock("namespace "+s.Namespace))
	}
	for _, c := range s.Containers {
		closers = append(closers, w.OpenBlock(PartialDeclaration(c)))
	}
	return func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
}

// HintName derives the generated file name, e.g.
// "N.Controllers.Wrapper1.Dummy.g.cs". Generic names carry their arity as
// "Dummy_1". suffix, when set, goes before ".g.cs".
func (s Scope) HintName(c model.ClassDefinition, suffix string) string {
	var parts []string
	if s.Namespace != "" {
		parts = append(parts, s.Namespace)
	}
	for _, outer := range s.Containers {
		parts = append(parts, hintSegment(outer))
	}
	parts = append(parts, hintSegment(c))
	if suffix != "" {
		parts = append(parts, suffix)
	}
	return strings.Join(parts, ".") + ".g.cs"
}

func hintSegment(c model.ClassDefinition) string {
	if len(c.TypeArguments) == 0 {
		return c.Name
	}
	return c.Name + "_" + strconv.Itoa(len(c.TypeArguments))
}

// PartialDeclaration renders "partial class Name<T>". Accessibility is left
// to the user's declaration.
func PartialDeclaration(c model.ClassDefinition) string {
	keyword := c.Keyword
	if keyword == "" {
		keyword = "class"
	}
	return "partial " + keyword + " " + c.DisplayName()
}

// TypeParameters renders "<T, U>", or "" when names is empty.
func TypeParameters(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return "<" + strings.Join(names, ", ") + ">"
}

// Parameter renders one parameter declaration.
func Parameter(p model.MethodParameterDefinition) string {
	var sb strings.Builder
	if kw := p.ParameterKind.Keyword(); kw != "" {
		sb.WriteString(kw)
		sb.WriteByte(' ')
	}
	sb.WriteString(p.Type)
	sb.WriteByte(' ')
	sb.WriteString(Escape(p.Name))
	if def, ok := p.DefaultValue.Get(); ok {
		sb.WriteString(" = ")
		sb.WriteString(def)
	}
	return sb.String()
}

// ParameterList renders the comma separated parameters without parentheses.
func ParameterList(params []model.MethodParameterDefinition) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = Parameter(p)
	}
	return strings.Join(parts, ", ")
}

// Escape prefixes reserved words with @.
func Escape(name string) string {
	name = strings.TrimPrefix(name, "@")
	if syntax.IsReservedWord(name) {
		return "@" + name
	}
	return name
}

// ParameterName derives a constructor parameter name from a field or
// property name: "_service" and "m_service" become "service", "Repo"
// becomes "repo".
func ParameterName(member string) string {
	name := strings.TrimPrefix(member, "@")
	if strings.HasPrefix(name, "m_") && len(name) > 2 {
		name = name[2:]
	}
	if trimmed := strings.TrimLeft(name, "_"); trimmed != "" {
		name = trimmed
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToLower(r)) + name[size:]
}

// UniqueNames suffixes repeated names with an ordinal so that every entry
// is distinct: [a, a, b] becomes [a, a2, b].
func UniqueNames(names []string) []string {
	out := make([]string, len(names))
	used := map[string]bool{}
	for i, n := range names {
		candidate := n
		for k := 2; used[candidate]; k++ {
			candidate = n + strconv.Itoa(k)
		}
		used[candidate] = true
		out[i] = candidate
	}
	return out
}
