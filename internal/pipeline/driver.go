package pipeline

import (
	"context"
	"runtime"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/okra-platform/forja/internal/diag"
	"github.com/okra-platform/forja/internal/semantic"
	"github.com/okra-platform/forja/internal/syntax"
)

// DefaultCacheSize is the number of candidates kept between passes.
const DefaultCacheSize = 1024

// SyntaxProblem is reported for every lexing or parsing problem.
var SyntaxProblem = diag.Register(diag.Descriptor{
	ID:            "FJ0001",
	Title:         "Source could not be fully parsed",
	MessageFormat: "%s",
	Category:      "Syntax",
	Severity:      diag.SevWarning,
})

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the driver logger.
func WithLogger(log zerolog.Logger) Option {
	return func(d *Driver) {
		d.log = log.With().Str("component", "pipeline").Logger()
	}
}

// WithCacheSize bounds the cross-pass cache.
func WithCacheSize(n int) Option {
	return func(d *Driver) {
		d.cacheSize = n
	}
}

// WithWorkers bounds parallel parsing and transforms.
func WithWorkers(n int) Option {
	return func(d *Driver) {
		d.workers = n
	}
}

type generatorState struct {
	name     string
	postInit []Source
	outputs  []output
	emitted  *sync.Map
}

// Driver runs passes and keeps the incremental cache between them. RunPass
// calls are serialized.
type Driver struct {
	mu         sync.Mutex
	generators []*generatorState
	cache      *lru.Cache[string, *cacheEntry]
	trees      *lru.Cache[uint64, *syntax.Tree]
	log        zerolog.Logger
	cacheSize  int
	workers    int
}

// NewDriver initializes every generator.
func NewDriver(generators []Generator, opts ...Option) (*Driver, error) {
	d := &Driver{
		log:       zerolog.Nop(),
		cacheSize: DefaultCacheSize,
		workers:   runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.workers < 1 {
		d.workers = 1
	}

	var err error
	if d.cache, err = lru.New[string, *cacheEntry](d.cacheSize); err != nil {
		return nil, errors.Wrap(err, "create pass cache")
	}
	if d.trees, err = lru.New[uint64, *syntax.Tree](d.cacheSize); err != nil {
		return nil, errors.Wrap(err, "create tree cache")
	}

	seen := map[string]bool{}
	for _, g := range generators {
		name := g.Name()
		if seen[name] {
			return nil, errors.Newf("generator %q registered twice", name)
		}
		seen[name] = true
		ic := &InitContext{generator: name}
		g.Initialize(ic)
		d.generators = append(d.generators, &generatorState{name: name, postInit: ic.postInit, outputs: ic.outputs})
	}
	return d, nil
}

// pass holds the state of one RunPass call.
type pass struct {
	compilation *semantic.Compilation
	cache       *lru.Cache[string, *cacheEntry]
	log         zerolog.Logger
	workers     int

	touched map[string]bool
	steps   []Step
	sources []Source
	diags   []diag.Diagnostic
}

func (p *pass) touch(key string) {
	p.touched[key] = true
}

func (p *pass) step(generator, output, key string, state State) {
	p.log.Debug().Str("generator", generator).Str("output", output).Str("key", key).Stringer("state", state).Msg("step")
	p.steps = append(p.steps, Step{Generator: generator, Output: output, Key: key, State: state})
}

func (p *pass) commit(spc *SourceProductionContext) {
	p.sources = append(p.sources, spc.sources...)
	p.diags = append(p.diags, spc.diags...)
}

// candidates returns every node matching predicate, trees in compilation
// order and nodes in source order. Trees are scanned in parallel.
func (p *pass) candidates(ctx context.Context, predicate func(*syntax.Node) bool) ([]*syntax.Node, error) {
	trees := p.compilation.Trees
	perTree := make([][]*syntax.Node, len(trees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, t := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t.Root.Walk(func(n *syntax.Node) bool {
				if predicate(n) {
					perTree[i] = append(perTree[i], n)
				}
				return true
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var out []*syntax.Node
	for _, nodes := range perTree {
		out = append(out, nodes...)
	}
	return out, nil
}

// RunPass runs every generator over inputs. Inputs must have unique paths.
func (d *Driver) RunPass(ctx context.Context, inputs []Input) (*PassResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	all := append([]Input(nil), inputs...)
	paths := map[string]bool{}
	for _, in := range inputs {
		if paths[in.Path] {
			return nil, errors.Newf("duplicate input %q", in.Path)
		}
		paths[in.Path] = true
	}
	var postInit []Source
	for _, g := range d.generators {
		for _, s := range g.postInit {
			if paths[s.HintName] {
				return nil, errors.Newf("post-initialization source %q collides with an input", s.HintName)
			}
			paths[s.HintName] = true
			postInit = append(postInit, s)
			all = append(all, Input{Path: s.HintName, Text: s.Text})
		}
	}

	trees, err := d.parse(ctx, all)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}

	p := &pass{
		compilation: semantic.NewCompilation(trees),
		cache:       d.cache,
		log:         d.log,
		workers:     d.workers,
		touched:     map[string]bool{},
		sources:     postInit,
	}
	for _, t := range p.compilation.Trees {
		for _, prob := range t.Problems {
			p.diags = append(p.diags, diag.New(SyntaxProblem, t.Location(prob.Span), prob.Message))
		}
	}

	for _, g := range d.generators {
		g.emitted = &sync.Map{}
		for _, s := range g.postInit {
			g.emitted.Store(s.HintName, struct{}{})
		}
		for _, o := range g.outputs {
			if err := o.run(ctx, p, g); err != nil {
				return nil, errors.Wrapf(err, "%s/%s", g.name, o.outputName())
			}
		}
	}

	for _, key := range d.cache.Keys() {
		if !p.touched[key] {
			d.cache.Remove(key)
			d.log.Debug().Str("key", key).Msg("evicted superseded entry")
		}
	}

	diag.Sort(p.diags)
	return &PassResult{
		Compilation: p.compilation,
		Sources:     p.sources,
		Diagnostics: p.diags,
		Steps:       p.steps,
	}, nil
}

func (d *Driver) parse(ctx context.Context, inputs []Input) ([]*syntax.Tree, error) {
	trees := make([]*syntax.Tree, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			trees[i] = d.tree(in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return trees, nil
}

func (d *Driver) tree(in Input) *syntax.Tree {
	key := contentKey(in)
	if t, ok := d.trees.Get(key); ok {
		return t
	}
	t := syntax.Parse(in.Path, in.Text)
	d.trees.Add(key, t)
	return t
}

func contentKey(in Input) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(in.Path)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(in.Text)
	return h.Sum64()
}
