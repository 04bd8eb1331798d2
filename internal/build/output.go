package build

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"

	"github.com/okra-platform/forja/internal/pipeline"
)

// GeneratedSuffix marks files owned by the output directory
const GeneratedSuffix = ".g.cs"

// OutputWriter keeps a directory in sync with the sources of a pass
type OutputWriter struct {
	fs     FileSystem
	dir    string
	logger zerolog.Logger
}

// NewOutputWriter creates a writer for dir
func NewOutputWriter(fsys FileSystem, dir string, logger zerolog.Logger) *OutputWriter {
	return &OutputWriter{fs: fsys, dir: dir, logger: logger}
}

// Sync writes every source whose content differs from the file on disk and
// removes generated files no source produced. Files without the generated
// suffix are never touched. When two generators produce the same file name
// the first source wins and the name is listed in Artifacts.Conflicts.
func (w *OutputWriter) Sync(sources []pipeline.Source, artifacts *Artifacts) error {
	if err := w.fs.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return w.sync(sources, artifacts, false)
}

// Plan fills artifacts with what Sync would do without changing anything.
func (w *OutputWriter) Plan(sources []pipeline.Source, artifacts *Artifacts) error {
	return w.sync(sources, artifacts, true)
}

func (w *OutputWriter) sync(sources []pipeline.Source, artifacts *Artifacts, dryRun bool) error {
	produced := make(map[string]bool, len(sources))
	owner := make(map[string]string, len(sources))
	for _, s := range sources {
		name := filepath.Base(s.HintName)
		if first, ok := owner[name]; ok {
			w.logger.Warn().
				Str("file", name).
				Str("generator", s.Generator).
				Str("kept", first).
				Msg("skipped output with a name another generator already produced")
			artifacts.Conflicts = append(artifacts.Conflicts, name)
			continue
		}
		owner[name] = s.Generator
		produced[name] = true
		changed, err := w.differs(name, s.Text)
		if err != nil {
			return err
		}
		if !changed {
			artifacts.Unchanged = append(artifacts.Unchanged, name)
			continue
		}
		if !dryRun {
			if err := w.write(name, s.Text); err != nil {
				return err
			}
		}
		artifacts.Written = append(artifacts.Written, name)
	}

	entries, err := w.fs.ReadDir(w.dir)
	if err != nil && !(dryRun && errors.Is(err, fs.ErrNotExist)) {
		return fmt.Errorf("failed to list output directory: %w", err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || produced[name] || !strings.HasSuffix(name, GeneratedSuffix) {
			continue
		}
		if !dryRun {
			if err := w.fs.Remove(filepath.Join(w.dir, name)); err != nil {
				return fmt.Errorf("failed to remove stale output %s: %w", name, err)
			}
			w.logger.Debug().Str("file", name).Msg("removed stale output")
		}
		artifacts.Deleted = append(artifacts.Deleted, name)
	}

	sort.Strings(artifacts.Written)
	sort.Strings(artifacts.Unchanged)
	sort.Strings(artifacts.Deleted)
	sort.Strings(artifacts.Conflicts)
	return nil
}

func (w *OutputWriter) differs(name, text string) (bool, error) {
	existing, err := w.fs.ReadFile(filepath.Join(w.dir, name))
	switch {
	case err == nil:
		return len(existing) != len(text) || xxhash.Sum64(existing) != xxhash.Sum64String(text), nil
	case errors.Is(err, fs.ErrNotExist):
		return true, nil
	}
	return false, fmt.Errorf("failed to read output %s: %w", name, err)
}

func (w *OutputWriter) write(name, text string) error {
	if err := w.fs.WriteFile(filepath.Join(w.dir, name), []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write output %s: %w", name, err)
	}
	w.logger.Debug().Str("file", name).Int("size", len(text)).Msg("wrote output")
	return nil
}
