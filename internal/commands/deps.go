package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog"

	"github.com/okra-platform/forja/internal/build"
	"github.com/okra-platform/forja/internal/config"
	"github.com/okra-platform/forja/internal/dev"
)

// Dependencies for the generate, check and watch commands
type Dependencies struct {
	ConfigLoader   ConfigLoader
	BuilderFactory BuilderFactory
	SignalNotifier SignalNotifier
	Output         Output
}

func defaultDependencies() Dependencies {
	return Dependencies{
		ConfigLoader:   &defaultConfigLoader{},
		BuilderFactory: &defaultBuilderFactory{},
		SignalNotifier: &defaultSignalNotifier{},
		Output:         &defaultOutput{},
	}
}

// Interfaces for dependency injection
type ConfigLoader interface {
	LoadConfig() (*config.Config, string, error)
}

// ProjectBuilder is what the commands need from build.ProjectBuilder
type ProjectBuilder interface {
	build.Builder
	dev.PathFilter
}

type BuilderFactory interface {
	NewBuilder(cfg *config.Config, projectRoot string, logger zerolog.Logger) (ProjectBuilder, error)
}

type SignalNotifier interface {
	Notify(c chan<- os.Signal, sig ...os.Signal)
	Stop(c chan<- os.Signal)
}

type Output interface {
	Printf(format string, args ...any)
	Println(args ...any)
	Writer() io.Writer
}

// Default implementations
type defaultConfigLoader struct{}

func (l *defaultConfigLoader) LoadConfig() (*config.Config, string, error) {
	return config.LoadConfig()
}

type defaultBuilderFactory struct{}

func (f *defaultBuilderFactory) NewBuilder(cfg *config.Config, projectRoot string, logger zerolog.Logger) (ProjectBuilder, error) {
	b, err := build.NewProjectBuilder(cfg, projectRoot, logger)
	if err != nil {
		return nil, err
	}
	return b, nil
}

type defaultSignalNotifier struct{}

func (n *defaultSignalNotifier) Notify(c chan<- os.Signal, sig ...os.Signal) {
	signal.Notify(c, sig...)
}

func (n *defaultSignalNotifier) Stop(c chan<- os.Signal) {
	signal.Stop(c)
}

type defaultOutput struct{}

func (o *defaultOutput) Printf(format string, args ...any) {
	fmt.Printf(format, args...)
}

func (o *defaultOutput) Println(args ...any) {
	fmt.Println(args...)
}

func (o *defaultOutput) Writer() io.Writer {
	return os.Stdout
}

// loadProject loads the config and creates the builder for it
func loadProject(loader ConfigLoader, factory BuilderFactory, logger zerolog.Logger) (*config.Config, string, ProjectBuilder, error) {
	cfg, projectRoot, err := loader.LoadConfig()
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to load project config: %w", err)
	}
	builder, err := factory.NewBuilder(cfg, projectRoot, logger)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to set up generators: %w", err)
	}
	return cfg, projectRoot, builder, nil
}
