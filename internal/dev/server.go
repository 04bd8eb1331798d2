// Package dev implements watch mode: regenerate whenever a source changes.
package dev

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Server regenerates the project after every burst of source changes
type Server struct {
	projectRoot string
	generator   Generator
	filter      PathFilter
	reporter    Reporter
	debounce    time.Duration
	logger      zerolog.Logger
	watcher     *FileWatcher

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]fsnotify.Op
	trigger chan struct{}
}

// NewServer creates a watch server. generator and filter are usually the same
// project builder.
func NewServer(projectRoot string, generator Generator, filter PathFilter, reporter Reporter, debounce time.Duration, logger zerolog.Logger) *Server {
	return &Server{
		projectRoot: projectRoot,
		generator:   generator,
		filter:      filter,
		reporter:    reporter,
		debounce:    debounce,
		logger:      logger.With().Str("component", "watch").Logger(),
		pending:     map[string]fsnotify.Op{},
		trigger:     make(chan struct{}, 1),
	}
}

// Start runs one generation, then watches until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	s.generate(ctx)

	watcher, err := NewFileWatcher(s.filter, s.handleFileChange, s.logger)
	if err != nil {
		return err
	}
	s.watcher = watcher
	defer s.Stop()

	if err := watcher.AddDirectory(s.projectRoot); err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.projectRoot, err)
	}

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- watcher.Start(ctx)
	}()

	s.logger.Info().Str("root", s.projectRoot).Msg("watching for changes")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-watchErr:
			if errors.Is(err, context.Canceled) {
				return err
			}
			return fmt.Errorf("watcher stopped: %w", err)
		case <-s.trigger:
			changed := s.drain()
			s.logger.Debug().Strs("files", changed).Msg("sources changed")
			s.generate(ctx)
		}
	}
}

// Stop releases the file watcher and any pending debounce timer
func (s *Server) Stop() error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	if s.watcher == nil {
		return nil
	}
	err := s.watcher.Close()
	s.watcher = nil
	return err
}

// handleFileChange records a change and restarts the debounce timer
func (s *Server) handleFileChange(path string, op fsnotify.Op) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[path] |= op
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.fire)
}

func (s *Server) fire() {
	select {
	case s.trigger <- struct{}{}:
	default:
		// A run is already queued and will see this change.
	}
}

// drain returns the pending changes relative to the project root
func (s *Server) drain() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := make([]string, 0, len(s.pending))
	for path := range s.pending {
		rel, err := filepath.Rel(s.projectRoot, path)
		if err != nil {
			rel = path
		}
		changed = append(changed, filepath.ToSlash(rel))
	}
	sort.Strings(changed)
	s.pending = map[string]fsnotify.Op{}
	return changed
}

func (s *Server) generate(ctx context.Context) {
	artifacts, err := s.generator.Generate(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("generation failed")
	}
	s.reporter.Report(artifacts, err)
}
