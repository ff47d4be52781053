// SPDX-License-Identifier: MIT

// Package yamlstore serves reference data from a YAML dataset file.
package yamlstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/katalvlaran/lca/assemble"
)

// Store holds the last successfully parsed snapshot of one file.
// Snapshot is safe for concurrent use with Reload and Watch.
type Store struct {
	path    string
	current atomic.Pointer[assemble.Snapshot]
	logger  *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open reads and parses path.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{path: path, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}

	return s, nil
}

// Path returns the watched file.
func (s *Store) Path() string { return s.path }

// Snapshot returns the current snapshot. It never blocks on I/O.
func (s *Store) Snapshot(ctx context.Context) (*assemble.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return s.current.Load(), nil
}

// Reload re-reads the file. On error the previous snapshot stays current.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("yamlstore: %w", err)
	}
	snap, err := Parse(data)
	if err != nil {
		return err
	}
	if old := s.current.Swap(snap); old == nil || old.Version != snap.Version {
		s.logger.Info("dataset loaded", "path", s.path, "version", shortVersion(snap.Version))
	}

	return nil
}

// Watch reloads the file whenever it is written, created or renamed into
// place, until ctx is done. The parent directory is watched so editors that
// replace the file atomically are followed. Failed reloads are logged.
func (s *Store) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("yamlstore: watch: %w", err)
	}
	defer w.Close()

	if err = w.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("yamlstore: watch: %w", err)
	}
	target := filepath.Clean(s.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.logger.Error("dataset reload failed", "path", s.path, "err", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				s.logger.Warn("watch overflow, reloading", "path", s.path)
				if rerr := s.Reload(); rerr != nil {
					s.logger.Error("dataset reload failed", "path", s.path, "err", rerr)
				}
				continue
			}
			s.logger.Error("watch error", "path", s.path, "err", err)
		}
	}
}

func shortVersion(v string) string {
	if len(v) > 12 {
		return v[:12]
	}

	return v
}
