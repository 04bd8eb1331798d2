package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// CheckCommand runs one pass and fails on errors or out-of-date outputs
// without writing anything
type CheckCommand struct {
	deps     Dependencies
	logger   zerolog.Logger
	useColor bool
}

// NewCheckCommand creates a new check command with default dependencies
func NewCheckCommand(logger zerolog.Logger, useColor bool) *CheckCommand {
	return &CheckCommand{deps: defaultDependencies(), logger: logger, useColor: useColor}
}

// WithDependencies allows injecting custom dependencies for testing
func (cc *CheckCommand) WithDependencies(deps Dependencies) *CheckCommand {
	cc.deps = deps
	return cc
}

// Execute runs the check command
func (cc *CheckCommand) Execute(ctx context.Context) error {
	_, _, builder, err := loadProject(cc.deps.ConfigLoader, cc.deps.BuilderFactory, cc.logger)
	if err != nil {
		return err
	}

	artifacts, err := builder.Check(ctx)
	if err != nil {
		return fmt.Errorf("failed to check: %w", err)
	}

	printDiagnostics(cc.deps.Output, artifacts, cc.useColor)
	printConflicts(cc.deps.Output, artifacts)
	if failed(artifacts) {
		return ErrDiagnostics
	}
	if artifacts.Stale() {
		printStale(cc.deps.Output, artifacts)
		return ErrStale
	}
	cc.deps.Output.Printf("✅ %d source(s) checked, generated files are up to date\n", artifacts.Inputs)
	return nil
}
