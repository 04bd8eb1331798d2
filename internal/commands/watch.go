package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/okra-platform/forja/internal/build"
	"github.com/okra-platform/forja/internal/config"
	"github.com/okra-platform/forja/internal/dev"
)

type WatchServer interface {
	Start(ctx context.Context) error
}

type WatchServerFactory interface {
	NewServer(cfg *config.Config, projectRoot string, builder ProjectBuilder, reporter dev.Reporter, logger zerolog.Logger) (WatchServer, error)
}

type defaultWatchServerFactory struct{}

func (f *defaultWatchServerFactory) NewServer(cfg *config.Config, projectRoot string, builder ProjectBuilder, reporter dev.Reporter, logger zerolog.Logger) (WatchServer, error) {
	debounce, err := cfg.DebounceDuration()
	if err != nil {
		return nil, err
	}
	return dev.NewServer(projectRoot, builder, builder, reporter, debounce, logger), nil
}

// WatchCommand encapsulates the watch logic with injected dependencies
type WatchCommand struct {
	deps          Dependencies
	serverFactory WatchServerFactory
	logger        zerolog.Logger
	useColor      bool
}

// NewWatchCommand creates a new watch command with default dependencies
func NewWatchCommand(logger zerolog.Logger, useColor bool) *WatchCommand {
	return &WatchCommand{
		deps:          defaultDependencies(),
		serverFactory: &defaultWatchServerFactory{},
		logger:        logger,
		useColor:      useColor,
	}
}

// WithDependencies allows injecting custom dependencies for testing
func (wc *WatchCommand) WithDependencies(deps Dependencies, serverFactory WatchServerFactory) *WatchCommand {
	wc.deps = deps
	wc.serverFactory = serverFactory
	return wc
}

// Execute runs the watch command until interrupted
func (wc *WatchCommand) Execute(ctx context.Context) error {
	cfg, projectRoot, builder, err := loadProject(wc.deps.ConfigLoader, wc.deps.BuilderFactory, wc.logger)
	if err != nil {
		return err
	}

	wc.deps.Output.Printf("👀 Watching %s for changes...\n", cfg.Name)
	wc.deps.Output.Printf("📁 Project root: %s\n", projectRoot)
	wc.deps.Output.Printf("📦 Output: %s\n", cfg.Output)

	server, err := wc.serverFactory.NewServer(cfg, projectRoot, builder, dev.ReporterFunc(wc.report), wc.logger)
	if err != nil {
		return fmt.Errorf("failed to start watching: %w", err)
	}

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	wc.deps.SignalNotifier.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer wc.deps.SignalNotifier.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			wc.deps.Output.Println("\n👋 Stopping watch mode...")
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := server.Start(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("watch error: %w", err)
	}
	return nil
}

// report prints the outcome of one run. Errors never stop watch mode.
func (wc *WatchCommand) report(artifacts *build.Artifacts, err error) {
	if err != nil {
		wc.deps.Output.Printf("❌ %v\n", err)
		return
	}
	printDiagnostics(wc.deps.Output, artifacts, wc.useColor)
	printSummary(wc.deps.Output, artifacts)
}
