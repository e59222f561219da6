package server

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// SourceWatcher watches source directories and reports changed files.
// Rapid writes to the same file are debounced into one callback.
type SourceWatcher struct {
	roots    []string
	accept   func(path string) bool
	onChange func(path string)
	delay    time.Duration
	logger   *slog.Logger

	watcher *fsnotify.Watcher
	done    chan struct{}
	mu      sync.Mutex
	timers  map[string]*time.Timer
}

// NewSourceWatcher creates a watcher over roots. accept filters the files
// that trigger onChange.
func NewSourceWatcher(roots []string, accept func(path string) bool, onChange func(path string), delay time.Duration, logger *slog.Logger) *SourceWatcher {
	return &SourceWatcher{
		roots:    roots,
		accept:   accept,
		onChange: onChange,
		delay:    delay,
		logger:   logger,
		done:     make(chan struct{}),
		timers:   make(map[string]*time.Timer),
	}
}

// Start begins watching every directory under the roots.
func (w *SourceWatcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.watcher = watcher
	w.mu.Unlock()

	for _, root := range w.roots {
		if err := w.addTree(watcher, root); err != nil {
			w.mu.Lock()
			w.watcher = nil
			w.mu.Unlock()
			watcher.Close()
			return err
		}
	}

	w.logger.Info("watching sources", "roots", w.roots)

	go w.watchLoop(watcher)
	return nil
}

// Stop stops watching for changes. Pending callbacks are cancelled.
func (w *SourceWatcher) Stop() {
	w.mu.Lock()
	watcher := w.watcher
	w.watcher = nil
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()

	if watcher != nil {
		close(w.done)
		watcher.Close()
	}
}

// addTree watches root and its subdirectories, skipping hidden ones.
func (w *SourceWatcher) addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func (w *SourceWatcher) watchLoop(watcher *fsnotify.Watcher) {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(watcher, event.Name); err != nil {
						w.logger.Warn("failed to watch directory", "path", event.Name, "error", err)
					}
					continue
				}
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.accept(event.Name) {
				continue
			}

			w.logger.Debug("source changed", "path", event.Name, "event", event.Op.String())
			w.schedule(event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// schedule debounces callbacks per path.
func (w *SourceWatcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher == nil {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.delay, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		w.onChange(path)
	})
}
