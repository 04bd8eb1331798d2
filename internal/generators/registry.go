// Package generators maps generator names to their implementations.
package generators

import (
	"fmt"
	"sort"

	"github.com/okra-platform/forja/internal/pipeline"
)

// Registry manages available generators
type Registry struct {
	generators map[string]func() pipeline.Generator
}

// NewRegistry creates a new generator registry
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]func() pipeline.Generator),
	}
}

// Register adds a generator factory to the registry
func (r *Registry) Register(name string, factory func() pipeline.Generator) {
	r.generators[name] = factory
}

// Get returns a fresh generator for name
func (r *Registry) Get(name string) (pipeline.Generator, error) {
	factory, exists := r.generators[name]
	if !exists {
		return nil, fmt.Errorf("unknown generator: %s", name)
	}
	return factory(), nil
}

// Names returns the registered names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns generators for names in the given order. An empty list
// selects every registered generator.
func (r *Registry) Select(names []string) ([]pipeline.Generator, error) {
	if len(names) == 0 {
		names = r.Names()
	}
	out := make([]pipeline.Generator, 0, len(names))
	for _, name := range names {
		g, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}
