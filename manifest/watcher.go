package manifest

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/qmin/logger"
)

// RunCallback is called with the freshly reloaded manifest after each
// debounced change. Returning an error logs it; the watcher keeps running.
type RunCallback func(*Manifest) error

// Watcher watches a manifest file for changes and triggers run callbacks
type Watcher struct {
	manifestPath   string
	watcher        *fsnotify.Watcher
	callbacks      []RunCallback
	mu             sync.RWMutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
}

// NewWatcher creates a new manifest file watcher
func NewWatcher(manifestPath string) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	// Watch the manifest file
	if err := watcher.Add(manifestPath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch manifest %s: %w", manifestPath, err)
	}

	w := &Watcher{
		manifestPath:   manifestPath,
		watcher:        watcher,
		callbacks:      make([]RunCallback, 0),
		debouncePeriod: 500 * time.Millisecond, // Debounce rapid file changes
	}

	return w, nil
}

// OnRun registers a callback to be called when the manifest is reloaded
func (w *Watcher) OnRun(callback RunCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start begins watching for manifest changes
func (w *Watcher) Start() {
	go w.watchLoop()
}

// watchLoop monitors file system events
func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Only rerun on Write or Create events
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				logger.Infow("Manifest watcher detected change",
					"file", event.Name,
					"op", event.Op.String())
				w.scheduleRun()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Manifest watcher error",
				"error", err)
		}
	}
}

// scheduleRun debounces rapid file changes and triggers a rerun
func (w *Watcher) scheduleRun() {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Cancel existing timer if any
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	// Schedule rerun after debounce period
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, func() {
		if err := w.run(); err != nil {
			logger.Errorw("Manifest rerun failed",
				"error", err)
		}
	})
}

// run reloads the manifest and calls all callbacks
func (w *Watcher) run() error {
	m, err := Load(w.manifestPath)
	if err != nil {
		return fmt.Errorf("failed to reload manifest: %w", err)
	}

	logger.Infow("Manifest reloaded",
		"path", w.manifestPath,
		"encoders", len(m.Encoders))

	w.mu.RLock()
	callbacks := make([]RunCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	for _, callback := range callbacks {
		if err := callback(m); err != nil {
			logger.Warnw("Manifest run callback error",
				"error", err)
			// Continue calling other callbacks even if one fails
		}
	}

	return nil
}

// Stop stops watching for manifest changes
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}
