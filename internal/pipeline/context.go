package pipeline

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/okra-platform/forja/internal/diag"
	"github.com/okra-platform/forja/internal/semantic"
	"github.com/okra-platform/forja/internal/syntax"
)

// InitContext collects what a generator registers during Initialize.
type InitContext struct {
	generator string
	postInit  []Source
	outputs   []output
}

// RegisterPostInitialization adds a source that is part of every pass
// before any candidate is inspected, typically a trigger attribute
// definition.
func (c *InitContext) RegisterPostInitialization(hintName, text string) {
	c.postInit = append(c.postInit, Source{Generator: c.generator, HintName: hintName, Text: text})
}

// SyntaxContext is what a transform sees for one candidate.
type SyntaxContext struct {
	Node        *syntax.Node
	Tree        *syntax.Tree
	Compilation *semantic.Compilation
}

// SourceProductionContext is handed to execute steps. It is scoped to one
// pass of one generator.
type SourceProductionContext struct {
	ctx     context.Context
	emitted *sync.Map
	log     zerolog.Logger

	generator string
	sources   []Source
	diags     []diag.Diagnostic
}

func newProductionContext(ctx context.Context, generator string, emitted *sync.Map, log zerolog.Logger) *SourceProductionContext {
	return &SourceProductionContext{ctx: ctx, emitted: emitted, log: log, generator: generator}
}

// Context returns the pass context.
func (c *SourceProductionContext) Context() context.Context {
	return c.ctx
}

// AddSource registers a generated file. A hint name already registered by
// this generator in this pass is suppressed and false is returned.
func (c *SourceProductionContext) AddSource(hintName, text string) bool {
	if _, loaded := c.emitted.LoadOrStore(hintName, struct{}{}); loaded {
		c.log.Debug().Str("generator", c.generator).Str("hint", hintName).Msg("suppressed duplicate source")
		return false
	}
	c.sources = append(c.sources, Source{Generator: c.generator, HintName: hintName, Text: text})
	return true
}

// ReportDiagnostic records a diagnostic. It is surfaced with the pass result.
func (c *SourceProductionContext) ReportDiagnostic(d diag.Diagnostic) {
	c.diags = append(c.diags, d)
}

func (c *SourceProductionContext) effects() effects {
	return effects{sources: c.sources, diags: c.diags}
}

// effects is what one execute call produced, kept for replay.
type effects struct {
	sources []Source
	diags   []diag.Diagnostic
}

func (c *SourceProductionContext) replay(e effects) {
	for _, s := range e.sources {
		c.AddSource(s.HintName, s.Text)
	}
	c.diags = append(c.diags, e.diags...)
}
