package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// GenerateCommand runs one pass and writes the outputs
type GenerateCommand struct {
	deps     Dependencies
	logger   zerolog.Logger
	useColor bool
}

// NewGenerateCommand creates a new generate command with default dependencies
func NewGenerateCommand(logger zerolog.Logger, useColor bool) *GenerateCommand {
	return &GenerateCommand{deps: defaultDependencies(), logger: logger, useColor: useColor}
}

// WithDependencies allows injecting custom dependencies for testing
func (gc *GenerateCommand) WithDependencies(deps Dependencies) *GenerateCommand {
	gc.deps = deps
	return gc
}

// Execute runs the generate command
func (gc *GenerateCommand) Execute(ctx context.Context) error {
	_, _, builder, err := loadProject(gc.deps.ConfigLoader, gc.deps.BuilderFactory, gc.logger)
	if err != nil {
		return err
	}

	artifacts, err := builder.Generate(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate: %w", err)
	}

	printDiagnostics(gc.deps.Output, artifacts, gc.useColor)
	printSummary(gc.deps.Output, artifacts)
	if failed(artifacts) {
		return ErrDiagnostics
	}
	return nil
}
