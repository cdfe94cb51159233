package scheme

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Watcher monitors a scheme file for changes and triggers reloads.
type Watcher struct {
	mu       sync.Mutex
	scheme   *Scheme
	logger   *slog.Logger
	interval time.Duration
	onChange func(*Scheme)
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// DefaultWatchInterval is how often the scheme file is checked for changes.
const DefaultWatchInterval = 2 * time.Second

// NewWatcher creates a watcher for the given scheme.
func NewWatcher(s *Scheme, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		scheme:   s,
		logger:   logger,
		interval: DefaultWatchInterval,
	}
}

// SetInterval changes the poll interval. Must be called before Start.
func (w *Watcher) SetInterval(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if d > 0 {
		w.interval = d
	}
}

// SetChangeCallback sets the function called when the scheme file changes.
// The callback receives the freshly parsed scheme.
func (w *Watcher) SetChangeCallback(fn func(*Scheme)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start begins watching the scheme file. Bundled schemes have no file on
// disk and are never watched.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}
	if w.scheme == nil || w.scheme.IsBundled || w.scheme.Path == "" {
		w.logger.Debug("scheme has no file to watch")
		return nil
	}

	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.running = true

	go w.watch(ctx)
	w.logger.Debug("started scheme watcher", "path", w.scheme.Path, "interval", w.interval)
	return nil
}

// Stop halts the watcher and waits for the watch loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	doneCh := w.doneCh
	w.mu.Unlock()

	<-doneCh
	w.logger.Debug("stopped scheme watcher")
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.check()
		}
	}
}

// CheckNow performs an immediate change check outside the poll cycle.
func (w *Watcher) CheckNow() {
	w.check()
}

func (w *Watcher) check() {
	w.mu.Lock()
	s := w.scheme
	onChange := w.onChange
	w.mu.Unlock()

	if s == nil {
		return
	}

	changed, err := s.Reload()
	if err != nil {
		w.logger.Warn("failed to reload scheme", "path", s.Path, "error", err)
		return
	}
	if !changed {
		return
	}

	w.logger.Debug("scheme file changed", "path", s.Path)
	if onChange != nil {
		onChange(s)
	}
}
