package pipeline

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/okra-platform/forja/internal/compare"
	"github.com/okra-platform/forja/internal/syntax"
)

// SyntaxProvider describes a per-candidate output.
type SyntaxProvider[T any] struct {
	// Predicate selects candidate nodes. It must be purely syntactic.
	Predicate func(n *syntax.Node) bool
	// Transform builds the model value for a candidate. Returning false
	// declines the candidate without output.
	Transform func(ctx context.Context, sc SyntaxContext) (T, bool, error)
	// Key identifies a value across passes. Without it the candidate's
	// file and offset are used.
	Key func(v T) string
	// Diagnosed reports whether v carries only error data.
	Diagnosed func(v T) bool
	Comparer  compare.Comparer[T]
	Execute   func(spc *SourceProductionContext, v T)
}

// CollectedProvider describes an output over every candidate at once.
type CollectedProvider[T any] struct {
	Predicate func(n *syntax.Node) bool
	Transform func(ctx context.Context, sc SyntaxContext) (T, bool, error)
	// Comparer compares single items; the collection is compared in order.
	Comparer compare.Comparer[T]
	Execute  func(spc *SourceProductionContext, items []T)
}

// RegisterSyntaxOutput adds a per-candidate output to the generator.
func RegisterSyntaxOutput[T any](c *InitContext, name string, p SyntaxProvider[T]) {
	c.outputs = append(c.outputs, &syntaxOutput[T]{name: name, p: p})
}

// RegisterCollectedOutput adds an output whose execute step sees every
// accepted candidate in deterministic order.
func RegisterCollectedOutput[T any](c *InitContext, name string, p CollectedProvider[T]) {
	c.outputs = append(c.outputs, &collectedOutput[T]{name: name, p: p, items: compare.SliceOf(p.Comparer)})
}

type output interface {
	outputName() string
	run(ctx context.Context, ps *pass, gen *generatorState) error
}

type cacheEntry struct {
	value   any
	effects effects
}

type transformed[T any] struct {
	value T
	ok    bool
}

// transformAll runs fn over every candidate with bounded parallelism.
// Cancellation is observed before each transform starts.
func transformAll[T any](ctx context.Context, ps *pass, nodes []*syntax.Node, fn func(context.Context, SyntaxContext) (T, bool, error)) ([]transformed[T], error) {
	out := make([]transformed[T], len(nodes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ps.workers)
	for i, n := range nodes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, ok, err := fn(gctx, SyntaxContext{Node: n, Tree: n.Tree(), Compilation: ps.compilation})
			if err != nil {
				loc := n.Location()
				return errors.Wrapf(err, "%s:%d:%d", loc.File, loc.Line, loc.Column)
			}
			out[i] = transformed[T]{value: v, ok: ok}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func nodeKey(n *syntax.Node) string {
	return fmt.Sprintf("%s@%d", n.Tree().Path, n.Span().Start)
}

type syntaxOutput[T any] struct {
	name string
	p    SyntaxProvider[T]
}

func (o *syntaxOutput[T]) outputName() string { return o.name }

func (o *syntaxOutput[T]) run(ctx context.Context, ps *pass, gen *generatorState) error {
	nodes, err := ps.candidates(ctx, o.p.Predicate)
	if err != nil {
		return err
	}
	results, err := transformAll(ctx, ps, nodes, o.p.Transform)
	if err != nil {
		return err
	}

	seen := map[string]int{}
	for i, r := range results {
		if !r.ok {
			ps.step(gen.name, o.name, nodeKey(nodes[i]), StateCandidate)
			continue
		}
		key := nodeKey(nodes[i])
		if o.p.Key != nil {
			key = o.p.Key(r.value)
		}
		if n := seen[key]; n > 0 {
			seen[key]++
			key += "#" + strconv.Itoa(n)
		} else {
			seen[key] = 1
		}
		cacheKey := gen.name + "/" + o.name + "/" + key
		ps.touch(cacheKey)

		spc := newProductionContext(ctx, gen.name, gen.emitted, ps.log)
		switch {
		case o.p.Diagnosed != nil && o.p.Diagnosed(r.value):
			o.p.Execute(spc, r.value)
			ps.cache.Remove(cacheKey)
			ps.step(gen.name, o.name, key, StateDiagnosed)
		case o.cached(ps, cacheKey, r.value, spc):
			ps.step(gen.name, o.name, key, StateCachedEqual)
		default:
			o.p.Execute(spc, r.value)
			ps.cache.Add(cacheKey, &cacheEntry{value: r.value, effects: spc.effects()})
			ps.step(gen.name, o.name, key, StateEmitted)
		}
		ps.commit(spc)
	}
	return nil
}

func (o *syntaxOutput[T]) cached(ps *pass, cacheKey string, v T, spc *SourceProductionContext) bool {
	entry, ok := ps.cache.Get(cacheKey)
	if !ok {
		return false
	}
	prev, ok := entry.value.(T)
	if !ok || !o.p.Comparer.Equal(prev, v) {
		return false
	}
	ps.log.Debug().Str("key", cacheKey).Msg("cache hit")
	spc.replay(entry.effects)
	return true
}

type collectedOutput[T any] struct {
	name  string
	p     CollectedProvider[T]
	items compare.Comparer[[]T]
}

func (o *collectedOutput[T]) outputName() string { return o.name }

func (o *collectedOutput[T]) run(ctx context.Context, ps *pass, gen *generatorState) error {
	nodes, err := ps.candidates(ctx, o.p.Predicate)
	if err != nil {
		return err
	}
	results, err := transformAll(ctx, ps, nodes, o.p.Transform)
	if err != nil {
		return err
	}
	var items []T
	for i, r := range results {
		if !r.ok {
			ps.step(gen.name, o.name, nodeKey(nodes[i]), StateCandidate)
			continue
		}
		items = append(items, r.value)
	}

	const key = "collected"
	cacheKey := gen.name + "/" + o.name + "/" + key
	ps.touch(cacheKey)
	spc := newProductionContext(ctx, gen.name, gen.emitted, ps.log)
	if entry, ok := ps.cache.Get(cacheKey); ok {
		if prev, ok := entry.value.([]T); ok && o.items.Equal(prev, items) {
			ps.log.Debug().Str("key", cacheKey).Msg("cache hit")
			spc.replay(entry.effects)
			ps.commit(spc)
			ps.step(gen.name, o.name, key, StateCachedEqual)
			return nil
		}
	}
	o.p.Execute(spc, items)
	ps.cache.Add(cacheKey, &cacheEntry{value: items, effects: spc.effects()})
	ps.commit(spc)
	ps.step(gen.name, o.name, key, StateEmitted)
	return nil
}
