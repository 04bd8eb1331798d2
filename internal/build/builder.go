// Package build runs the generators over a project on disk
package build

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/okra-platform/forja/internal/config"
	"github.com/okra-platform/forja/internal/generators"
	"github.com/okra-platform/forja/internal/pipeline"
)

// Artifacts describes one generation run
type Artifacts struct {
	// Result is the pass the run was based on
	Result *pipeline.PassResult

	// Inputs is the number of source files read
	Inputs int

	// Written, Unchanged and Deleted are output paths relative to the output directory
	Written   []string
	Unchanged []string
	Deleted   []string

	// Conflicts are output names produced by more than one generator. Only
	// the first source of each is kept.
	Conflicts []string

	// Duration is the wall time of the run
	Duration time.Duration
}

// Builder provides the interface for running generation over a project
type Builder interface {
	// Check runs one pass and reports what Generate would change without
	// touching the output directory
	Check(ctx context.Context) (*Artifacts, error)

	// Generate runs one pass and brings the output directory up to date
	Generate(ctx context.Context) (*Artifacts, error)
}

// ProjectBuilder implements Builder for a project root and its config. It
// keeps one driver so consecutive runs are incremental.
type ProjectBuilder struct {
	config      *config.Config
	projectRoot string
	logger      zerolog.Logger
	fs          FileSystem
	runner      pipeline.Runner
	output      *OutputWriter
}

// BuilderOption configures a ProjectBuilder
type BuilderOption func(*ProjectBuilder)

// WithFileSystem replaces the file system used for reading sources and writing outputs
func WithFileSystem(fsys FileSystem) BuilderOption {
	return func(b *ProjectBuilder) {
		b.fs = fsys
	}
}

// WithRunner replaces the pass runner
func WithRunner(r pipeline.Runner) BuilderOption {
	return func(b *ProjectBuilder) {
		b.runner = r
	}
}

// NewProjectBuilder creates a builder running the generators the config selects
func NewProjectBuilder(cfg *config.Config, projectRoot string, logger zerolog.Logger, opts ...BuilderOption) (*ProjectBuilder, error) {
	b := &ProjectBuilder{
		config:      cfg,
		projectRoot: projectRoot,
		logger:      logger.With().Str("component", "builder").Logger(),
		fs:          OSFileSystem{},
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.runner == nil {
		driver, err := NewDriver(cfg, logger)
		if err != nil {
			return nil, err
		}
		b.runner = driver
	}
	b.output = NewOutputWriter(b.fs, b.OutputDir(), b.logger)
	return b, nil
}

// NewDriver creates a driver for the generators cfg selects
func NewDriver(cfg *config.Config, logger zerolog.Logger) (*pipeline.Driver, error) {
	if err := cfg.Validate(generators.DefaultRegistry.Names()); err != nil {
		return nil, err
	}
	gens, err := generators.DefaultRegistry.Select(cfg.Generators)
	if err != nil {
		return nil, err
	}
	driver, err := pipeline.NewDriver(gens,
		pipeline.WithLogger(logger),
		pipeline.WithCacheSize(cfg.Cache.Size))
	if err != nil {
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}
	return driver, nil
}

// OutputDir returns the absolute output directory
func (b *ProjectBuilder) OutputDir() string {
	if filepath.IsAbs(b.config.Output) {
		return filepath.Clean(b.config.Output)
	}
	return filepath.Join(b.projectRoot, b.config.Output)
}

// Sources reads every source file of the project in path order. Paths are
// slash-separated and relative to the project root.
func (b *ProjectBuilder) Sources() ([]pipeline.Input, error) {
	var inputs []pipeline.Input

	err := b.fs.WalkDir(b.projectRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(b.projectRoot, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if b.SkipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !b.config.Includes(rel) {
			return nil
		}

		data, err := b.fs.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read source %s: %w", rel, err)
		}
		inputs = append(inputs, pipeline.Input{Path: rel, Text: string(data)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect sources: %w", err)
	}

	b.logger.Debug().Int("count", len(inputs)).Msg("collected sources")
	return inputs, nil
}

// SkipDir reports whether the directory at an absolute path holds no sources
func (b *ProjectBuilder) SkipDir(path string) bool {
	if path == b.OutputDir() {
		return true
	}
	rel, err := filepath.Rel(b.projectRoot, path)
	if err != nil || rel == "." {
		return false
	}
	return b.config.Excludes(filepath.ToSlash(rel), true)
}

// IsSource reports whether an absolute path is a project source
func (b *ProjectBuilder) IsSource(path string) bool {
	if isWithin(b.OutputDir(), path) {
		return false
	}
	rel, err := filepath.Rel(b.projectRoot, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	return b.config.Includes(filepath.ToSlash(rel))
}

// Check runs one pass and reports what Generate would change without
// touching the output directory. Artifacts.Written and Artifacts.Deleted
// list the outputs that are out of date.
func (b *ProjectBuilder) Check(ctx context.Context) (*Artifacts, error) {
	return b.run(ctx, b.output.Plan)
}

// Generate runs one pass and brings the output directory up to date
func (b *ProjectBuilder) Generate(ctx context.Context) (*Artifacts, error) {
	artifacts, err := b.run(ctx, b.output.Sync)
	if err != nil {
		return nil, err
	}

	b.logger.Debug().
		Int("inputs", artifacts.Inputs).
		Int("written", len(artifacts.Written)).
		Int("unchanged", len(artifacts.Unchanged)).
		Int("deleted", len(artifacts.Deleted)).
		Dur("duration", artifacts.Duration).
		Msg("generation finished")
	return artifacts, nil
}

func (b *ProjectBuilder) run(ctx context.Context, apply func([]pipeline.Source, *Artifacts) error) (*Artifacts, error) {
	start := time.Now()

	inputs, err := b.Sources()
	if err != nil {
		return nil, err
	}
	result, err := b.runner.RunPass(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	artifacts := &Artifacts{Result: result, Inputs: len(inputs)}
	if err := apply(result.Sources, artifacts); err != nil {
		return nil, err
	}
	artifacts.Duration = time.Since(start)
	return artifacts, nil
}

// Stale reports whether the output directory differs from what was generated
func (a *Artifacts) Stale() bool {
	return len(a.Written) > 0 || len(a.Deleted) > 0
}

func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
