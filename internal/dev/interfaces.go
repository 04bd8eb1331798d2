package dev

import (
	"context"

	"github.com/okra-platform/forja/internal/build"
)

// Generator is the part of the project builder the watch server drives
type Generator interface {
	Generate(ctx context.Context) (*build.Artifacts, error)
}

// PathFilter decides which paths are watched
type PathFilter interface {
	// IsSource reports whether a change to the file at path matters
	IsSource(path string) bool
	// SkipDir reports whether the directory at path is left unwatched
	SkipDir(path string) bool
}

// Reporter receives the outcome of every generation run
type Reporter interface {
	Report(artifacts *build.Artifacts, err error)
}

// ReporterFunc adapts a function to Reporter
type ReporterFunc func(artifacts *build.Artifacts, err error)

func (f ReporterFunc) Report(artifacts *build.Artifacts, err error) { f(artifacts, err) }
