// Package watcher implements recursive file system watching for watch mode.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/markup/internal/core/domain"
	"go.trai.ch/markup/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// skippedDirs are never descended into.
var skippedDirs = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
}

const eventBuffer = 100

// Watcher implements ports.Watcher using fsnotify.
// The underlying notifier is created by Start, so an idle Watcher holds no OS resources.
type Watcher struct {
	logger ports.Logger

	mu      sync.Mutex
	notify  *fsnotify.Watcher
	events  chan ports.WatchEvent
	stopped bool
}

// NewWatcher creates a Watcher reporting notifier errors to logger.
func NewWatcher(logger ports.Logger) *Watcher {
	return &Watcher{
		logger: logger,
		events: make(chan ports.WatchEvent, eventBuffer),
	}
}

// Start begins watching root and every directory below it.
func (w *Watcher) Start(ctx context.Context, root string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.notify != nil {
		return zerr.With(domain.ErrWatchFailed, "reason", "already started")
	}

	info, err := os.Stat(root)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatchFailed.Error()), "root", root)
	}
	if !info.IsDir() {
		return zerr.With(zerr.With(domain.ErrWatchFailed, "root", root), "reason", "not a directory")
	}

	notify, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, domain.ErrWatchFailed.Error())
	}

	for dir := range directories(root) {
		if err := notify.Add(dir); err != nil {
			_ = notify.Close()
			return zerr.With(zerr.Wrap(err, domain.ErrWatchFailed.Error()), "dir", dir)
		}
	}

	w.notify = notify
	go w.process(ctx, notify)
	return nil
}

// Stop stops the watcher. The Events iterator ends once pending events are drained.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true

	if w.notify == nil {
		close(w.events)
		return nil
	}
	return w.notify.Close()
}

// Events returns an iterator of file system events.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

func directories(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are skipped
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && skippedDirs[d.Name()] {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Watcher) process(ctx context.Context, notify *fsnotify.Watcher) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-notify.Events:
			if !ok {
				return
			}

			op, ok := convertOp(event.Op)
			if !ok {
				continue
			}

			if op == ports.OpCreate {
				w.watchNewDir(notify, event.Name)
			}

			select {
			case w.events <- ports.WatchEvent{Path: event.Name, Operation: op}:
			case <-ctx.Done():
				return
			}
		case err, ok := <-notify.Errors:
			if !ok {
				return
			}
			w.logger.Warn(fmt.Sprintf("watcher: %v", err))
		}
	}
}

// watchNewDir adds a freshly created directory tree to the notifier.
func (w *Watcher) watchNewDir(notify *fsnotify.Watcher, path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || skippedDirs[info.Name()] {
		return
	}
	for dir := range directories(path) {
		_ = notify.Add(dir)
	}
}

func convertOp(op fsnotify.Op) (ports.WatchOp, bool) {
	switch {
	case op.Has(fsnotify.Write):
		return ports.OpWrite, true
	case op.Has(fsnotify.Create):
		return ports.OpCreate, true
	case op.Has(fsnotify.Remove):
		return ports.OpRemove, true
	case op.Has(fsnotify.Rename):
		return ports.OpRename, true
	default:
		return 0, false
	}
}
