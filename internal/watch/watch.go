// Package watch reports changes to TypeScript sources under a directory.
package watch

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jward/sapling/internal/compiler"
)

// Watcher watches a directory tree and delivers debounced batches of
// changed source file paths. fsnotify is not recursive, so every
// directory is added on start and new directories are added as they
// appear.
type Watcher struct {
	root     string
	debounce time.Duration
	skip     func(name string) bool
	logger   *slog.Logger

	watcher  *fsnotify.Watcher
	changes  chan []string
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce duration (default 100ms).
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger for the watcher.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithSkipDir sets the predicate deciding which directory names are not
// watched. Hidden directories are always skipped.
func WithSkipDir(skip func(name string) bool) Option {
	return func(w *Watcher) { w.skip = skip }
}

// New starts watching root.
func New(root string, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		root:     root,
		debounce: 100 * time.Millisecond,
		skip:     func(string) bool { return false },
		logger:   slog.Default(),
		watcher:  fsw,
		changes:  make(chan []string, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, o := range opts {
		o(w)
	}
	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	go w.run()
	return w, nil
}

// Changes delivers sorted, de-duplicated batches of changed file paths.
// The channel is closed when the watcher stops.
func (w *Watcher) Changes() <-chan []string { return w.changes }

func (w *Watcher) skipped(name string) bool {
	return (strings.HasPrefix(name, ".") && name != ".") || w.skip(name)
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skipped(d.Name()) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.changes)

	pending := make(map[string]bool)
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-w.stop:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !w.skipped(filepath.Base(event.Name)) {
						if err := w.addTree(event.Name); err != nil {
							w.logger.Warn("watch new directory", "path", event.Name, "error", err)
						}
					}
					continue
				}
			}
			if !compiler.IsSourceFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending[event.Name] = true
				if timer != nil {
					timer.Stop()
				}
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			}

		case <-fire:
			fire = nil
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			sort.Strings(batch)
			clear(pending)
			w.logger.Debug("source files changed", "count", len(batch))
			select {
			case w.changes <- batch:
			case <-w.stop:
				return
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.stopOnce.Do(func() { close(w.stop) })
	err := w.watcher.Close()
	<-w.done
	return err
}
