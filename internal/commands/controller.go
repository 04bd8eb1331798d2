// Package commands contains the CLI commands for the application
package commands

import (
	"context"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

type Flags struct {
	LogLevel string
	NoColor  bool
}

type Controller struct {
	Flags  *Flags
	Logger zerolog.Logger
}

func (c *Controller) Generate(ctx context.Context) error {
	return NewGenerateCommand(c.Logger, c.color()).Execute(ctx)
}

func (c *Controller) Check(ctx context.Context) error {
	return NewCheckCommand(c.Logger, c.color()).Execute(ctx)
}

func (c *Controller) Watch(ctx context.Context) error {
	return NewWatchCommand(c.Logger, c.color()).Execute(ctx)
}

func (c *Controller) color() bool {
	return !color.NoColor && (c.Flags == nil || !c.Flags.NoColor)
}
