package daemon

import (
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jmylchreest/aether/internal/scheme"
)

// SchemesWatcher watches the user schemes directory for changes so edits to
// the applied scheme file can be re-applied immediately. Events are debounced
// because editors and atomic writers produce bursts of create/write/rename
// events for a single save.
type SchemesWatcher struct {
	mu      sync.Mutex
	logger  *slog.Logger
	watcher *fsnotify.Watcher
	dir     string

	debounce time.Duration
	pending  map[string]struct{}
	timer    *time.Timer

	// Callback receives the scheme names whose files changed
	onChange func(names []string)

	done    chan struct{}
	running bool
}

// NewSchemesWatcher creates a watcher for the given schemes directory.
func NewSchemesWatcher(dir string, logger *slog.Logger) (*SchemesWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &SchemesWatcher{
		logger:   logger,
		watcher:  watcher,
		dir:      dir,
		debounce: 250 * time.Millisecond,
		done:     make(chan struct{}),
	}, nil
}

// SetDebounce sets the quiet period after the last event before the change
// callback fires. Zero disables debouncing.
func (w *SchemesWatcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if d >= 0 {
		w.debounce = d
	}
}

// SetChangeCallback sets the callback to invoke when scheme files change.
func (w *SchemesWatcher) SetChangeCallback(fn func(names []string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start begins watching the schemes directory.
func (w *SchemesWatcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}

	go w.watch()

	w.logger.Debug("schemes watcher started", "dir", w.dir, "debounce", w.debounce)
	return nil
}

// Stop stops the watcher.
func (w *SchemesWatcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	close(w.done)
	w.mu.Unlock()

	return w.watcher.Close()
}

// watch is the main event loop.
func (w *SchemesWatcher) watch() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Only care about scheme files
			name := schemeNameFromPath(event.Name)
			if name == "" {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				w.logger.Debug("scheme file changed", "file", event.Name, "op", event.Op.String())
				w.note(name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("schemes watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

// note records a changed scheme and (re)arms the debounce timer.
func (w *SchemesWatcher) note(name string) {
	w.mu.Lock()
	if w.pending == nil {
		w.pending = make(map[string]struct{})
	}
	w.pending[name] = struct{}{}

	if w.debounce <= 0 {
		w.mu.Unlock()
		w.flush()
		return
	}

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
	w.mu.Unlock()
}

// flush invokes the change callback with all pending scheme names.
func (w *SchemesWatcher) flush() {
	w.mu.Lock()
	names := make([]string, 0, len(w.pending))
	for name := range w.pending {
		names = append(names, name)
	}
	w.pending = nil
	callback := w.onChange
	w.mu.Unlock()

	if callback == nil || len(names) == 0 {
		return
	}
	sort.Strings(names)
	callback(names)
}

// schemeNameFromPath returns the scheme name for a path inside the schemes
// directory, or "" when the file is not a scheme (wrong extension, hidden,
// or an editor temp file).
func schemeNameFromPath(path string) string {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return ""
	}
	for _, ext := range scheme.Extensions {
		if strings.HasSuffix(base, ext) {
			return strings.TrimSuffix(base, ext)
		}
	}
	return ""
}
