// Package watcher reruns a job when a file changes on disk.
//
// The parent directory is watched rather than the file itself so that files
// replaced by an atomic rename keep being observed.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/rulebot/internal/logger"
)

// DefaultDebounce is how long the file must stay quiet before the job runs.
const DefaultDebounce = 500 * time.Millisecond

// ErrWatcherFailed indicates the filesystem watcher could not be set up.
var ErrWatcherFailed = errors.New("failed to initialise filesystem watcher")

// ChangeFunc is run after the watched file changes.
type ChangeFunc func(ctx context.Context) error

// Watcher runs a ChangeFunc each time a file settles after a change.
type Watcher struct {
	path     string
	onChange ChangeFunc
	debounce time.Duration
	fs       *fsnotify.Watcher
}

// New starts watching path. The file does not need to exist yet, but its
// directory does. Call Run to process events.
func New(path string, onChange ChangeFunc) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("watcher: nil change function")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWatcherFailed, err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("%w: watch %s: %w", ErrWatcherFailed, filepath.Dir(abs), err)
	}

	return &Watcher{
		path:     abs,
		onChange: onChange,
		debounce: DefaultDebounce,
		fs:       fs,
	}, nil
}

// SetDebounce changes the quiet period. Non-positive values are ignored.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Run processes events until ctx is cancelled, then releases the watcher.
// A failing ChangeFunc is logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.isRelevant(event) {
				continue
			}
			logger.Debug("watcher: %s %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.onChange(ctx); err != nil {
				logger.Warn("watcher: rebuild after change to %s failed: %v", w.path, err)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: %v", err)
		}
	}
}

// isRelevant reports whether event means the watched file has new content.
// Removal and attribute changes are ignored.
func (w *Watcher) isRelevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write)
}
