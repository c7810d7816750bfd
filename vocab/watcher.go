package vocab

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is how long the watcher waits for further changes before
// reloading.
const defaultDebounce = 500 * time.Millisecond

// Watcher reloads a Store when its backing file changes on disk, so
// hand-edited translations take effect in a running server. The parent
// directory is watched rather than the file itself: editors typically
// replace files by rename, which drops a direct file watch.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration

	pendingMu sync.Mutex
	pending   bool
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithDebounce sets the debounce delay before a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher creates a watcher for the store's backing file.
func NewWatcher(store *Store, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		store:    store,
		watcher:  fsw,
		logger:   slog.Default(),
		debounce: defaultDebounce,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Start begins watching and processes events until ctx is cancelled or the
// watcher is stopped.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.store.Path())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("Vocabulary watcher started",
		"path", w.store.Path(),
		"debounce", w.debounce)
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// processEvents handles fsnotify events with debouncing.
func (w *Watcher) processEvents(ctx context.Context) {
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	base := filepath.Base(w.store.Path())

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.pendingMu.Lock()
				w.pending = true
				w.pendingMu.Unlock()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Vocabulary watcher error", "error", err)

		case <-ticker.C:
			w.flushPending()
		}
	}
}

// flushPending reloads the store if a change was seen since the last tick.
func (w *Watcher) flushPending() {
	w.pendingMu.Lock()
	pending := w.pending
	w.pending = false
	w.pendingMu.Unlock()

	if !pending {
		return
	}

	n, err := w.store.Reload()
	if err != nil {
		w.logger.Warn("Vocabulary reload failed",
			"path", w.store.Path(),
			"error", err)
		return
	}

	w.logger.Info("Vocabulary reloaded",
		"path", w.store.Path(),
		"entries", n)
}
