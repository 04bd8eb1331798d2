// Package pipeline runs incremental generators over a set of C# sources.
//
// A pass parses the inputs, binds them into a compilation together with the
// post-initialization sources of every generator, selects candidate nodes
// with a syntactic predicate, builds a model value per candidate in parallel
// and then, in a deterministic order, compares each value with the one kept
// from the previous pass. Only values that changed reach the generator's
// execute step; unchanged ones replay their recorded output.
package pipeline

import (
	"context"
	"sort"

	"github.com/okra-platform/forja/internal/diag"
	"github.com/okra-platform/forja/internal/semantic"
)

// Input is one source file handed to a pass.
type Input struct {
	Path string
	Text string
}

// Source is one generated file.
type Source struct {
	Generator string
	HintName  string
	Text      string
}

// Generator registers its outputs once when the driver is created.
type Generator interface {
	Name() string
	Initialize(ctx *InitContext)
}

// State is where one candidate ended up in a pass.
type State uint8

const (
	StateUnseen State = iota
	// StateCandidate matched the predicate but the transform declined it.
	StateCandidate
	StateTransformed
	// StateDiagnosed carries error data only and produced no source.
	StateDiagnosed
	// StateCachedEqual compared equal to the previous pass and replayed.
	StateCachedEqual
	StateEmitted
)

func (s State) String() string {
	switch s {
	case StateUnseen:
		return "unseen"
	case StateCandidate:
		return "candidate"
	case StateTransformed:
		return "transformed"
	case StateDiagnosed:
		return "diagnosed"
	case StateCachedEqual:
		return "cached-equal"
	case StateEmitted:
		return "emitted"
	}
	return "unknown"
}

// Step records the final state of one candidate.
type Step struct {
	Generator string
	Output    string
	Key       string
	State     State
}

// PassResult is everything one pass produced.
type PassResult struct {
	Compilation *semantic.Compilation
	// Sources holds post-initialization sources first, then generated
	// sources in generator registration order.
	Sources     []Source
	Diagnostics []diag.Diagnostic
	Steps       []Step
}

// Source returns the generated source with the given hint name.
func (r *PassResult) Source(hintName string) (Source, bool) {
	for _, s := range r.Sources {
		if s.HintName == hintName {
			return s, true
		}
	}
	return Source{}, false
}

// HintNames returns the sorted hint names of every source.
func (r *PassResult) HintNames() []string {
	out := make([]string, 0, len(r.Sources))
	for _, s := range r.Sources {
		out = append(out, s.HintName)
	}
	sort.Strings(out)
	return out
}

// StepsIn returns the steps that ended in state.
func (r *PassResult) StepsIn(state State) []Step {
	var out []Step
	for _, s := range r.Steps {
		if s.State == state {
			out = append(out, s)
		}
	}
	return out
}

// Runner is the part of Driver that commands depend on.
type Runner interface {
	RunPass(ctx context.Context, inputs []Input) (*PassResult, error)
}
