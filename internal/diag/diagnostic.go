package diag

import (
	"fmt"
	"sort"
	"sync"

	"github.com/okra-platform/forja/internal/syntax"
)

// Location is the source position a diagnostic points at.
type Location = syntax.Location

// Descriptor is the static definition of one diagnostic rule.
type Descriptor struct {
	ID            string
	Title         string
	MessageFormat string
	Category      string
	Severity      Severity
}

// Diagnostic is one reported instance of a rule.
type Diagnostic struct {
	Descriptor Descriptor
	Location   Location
	Args       []any
}

// New creates a diagnostic for d at loc.
func New(d Descriptor, loc Location, args ...any) Diagnostic {
	return Diagnostic{Descriptor: d, Location: loc, Args: args}
}

// ID returns the rule id.
func (d Diagnostic) ID() string {
	return d.Descriptor.ID
}

// Severity returns the rule severity.
func (d Diagnostic) Severity() Severity {
	return d.Descriptor.Severity
}

// Message formats the rule message with the diagnostic arguments.
func (d Diagnostic) Message() string {
	if len(d.Args) == 0 {
		return d.Descriptor.MessageFormat
	}
	return fmt.Sprintf(d.Descriptor.MessageFormat, d.Args...)
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s %s: %s",
		d.Location.File, d.Location.Line, d.Location.Column, d.Severity(), d.ID(), d.Message())
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity() >= SevError {
			return true
		}
	}
	return false
}

// Sort orders diagnostics by file, offset and id.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i].Location, diags[j].Location
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Offset != b.Offset {
			return a.Offset < b.Offset
		}
		return diags[i].ID() < diags[j].ID()
	})
}

var (
	registryMu sync.Mutex
	registry   = map[string]Descriptor{}
)

// Register records a descriptor so that ids stay unique across generators.
// Registering a second, different descriptor under an existing id panics.
func Register(d Descriptor) Descriptor {
	registryMu.Lock()
	defer registryMu.Unlock()
	if prev, ok := registry[d.ID]; ok && prev != d {
		panic(fmt.Sprintf("diag: id %s already registered as %q", d.ID, prev.Title))
	}
	registry[d.ID] = d
	return d
}

// Registered returns every registered descriptor ordered by id.
func Registered() []Descriptor {
	registryMu.Lock()
	defer registryMu.Unlock()
	out := make([]Descriptor, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
