package scheme

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Info provides basic scheme information for listing.
type Info struct {
	Name      string `json:"name"`
	Path      string `json:"path,omitempty"`
	Variant   string `json:"variant,omitempty"`
	Author    string `json:"author,omitempty"`
	IsBundled bool   `json:"bundled"`
}

// Loader resolves schemes by name with hot-reload support.
type Loader struct {
	mu         sync.RWMutex
	logger     *slog.Logger
	schemesDir string
	current    *Scheme
	watcher    *Watcher
}

// NewLoader creates a new scheme loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}

	schemesDir, err := SchemesDir()
	if err != nil {
		logger.Warn("failed to get schemes directory", "error", err)
		schemesDir = ""
	}

	return &Loader{
		logger:     logger,
		schemesDir: schemesDir,
	}
}

// SchemesDir returns the path to the user's schemes directory.
func SchemesDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "aether", "schemes"), nil
}

// CreateSchemesDir creates the schemes directory if it doesn't exist.
func CreateSchemesDir() error {
	schemesDir, err := SchemesDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(schemesDir, 0755)
}

// SetSchemesDir overrides the user schemes directory. Mainly used by tests
// and the --schemes-dir flag.
func (l *Loader) SetSchemesDir(dir string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.schemesDir = dir
}

// LoadScheme loads a scheme by name and makes it current.
// Scheme resolution order:
//  1. User schemes directory (~/.config/aether/schemes/)
//  2. Embedded/bundled schemes
//
// This allows users to override bundled schemes by placing a file with the
// same name in their schemes directory.
func (l *Loader) LoadScheme(name string) (*Scheme, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if name == "" {
		name = DefaultSchemeName
	}

	// First, check user schemes directory
	if l.schemesDir != "" {
		for _, ext := range Extensions {
			path := filepath.Join(l.schemesDir, name+ext)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			s, err := Load(path)
			if err != nil {
				l.logger.Warn("failed to load user scheme, trying bundled", "scheme", name, "error", err)
				break
			}
			l.current = s
			l.logger.Info("loaded user scheme", "name", s.Name, "path", path)
			return s, nil
		}
	}

	// Second, check embedded schemes
	if s, found := GetEmbeddedScheme(name); found {
		l.current = s
		l.logger.Info("loaded bundled scheme", "name", s.Name)
		return s, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrSchemeNotFound, name)
}

// Current returns the currently loaded scheme, or nil.
func (l *Loader) Current() *Scheme {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// CurrentName returns the name of the currently loaded scheme.
func (l *Loader) CurrentName() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.current == nil {
		return ""
	}
	return l.current.Name
}

// Reload re-resolves the current scheme from its source.
func (l *Loader) Reload() (*Scheme, error) {
	name := l.CurrentName()
	if name == "" {
		name = DefaultSchemeName
	}
	return l.LoadScheme(name)
}

// StartHotReload starts watching the current scheme file for changes.
// The callback receives the freshly parsed scheme on every change.
func (l *Loader) StartHotReload(ctx context.Context, onChange func(*Scheme)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil || l.current.IsBundled {
		l.logger.Debug("not starting hot-reload for bundled scheme")
		return
	}

	// Stop existing watcher if any
	if l.watcher != nil {
		l.watcher.Stop()
	}

	l.watcher = NewWatcher(l.current, l.logger)
	l.watcher.SetChangeCallback(func(s *Scheme) {
		l.mu.Lock()
		l.current = s
		l.mu.Unlock()
		l.logger.Info("hot-reloaded scheme", "name", s.Name)
		if onChange != nil {
			onChange(s)
		}
	})

	if err := l.watcher.Start(ctx); err != nil {
		l.logger.Warn("failed to start scheme watcher", "error", err)
	}
}

// StopHotReload stops watching the scheme file for changes.
func (l *Loader) StopHotReload() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.watcher != nil {
		l.watcher.Stop()
		l.watcher = nil
	}
}

// ListSchemes returns all available schemes (bundled + user), with
// user files that shadow a bundled name reported once.
func (l *Loader) ListSchemes() []Info {
	l.mu.RLock()
	schemesDir := l.schemesDir
	l.mu.RUnlock()

	seen := make(map[string]bool)
	var infos []Info

	// Add bundled schemes first
	for _, name := range ListEmbeddedSchemes() {
		if seen[name] {
			continue
		}
		seen[name] = true
		info := Info{Name: name, IsBundled: true}
		if s, found := GetEmbeddedScheme(name); found {
			info.Variant = s.Variant
			info.Author = s.Author
		}
		infos = append(infos, info)
	}

	// Add user schemes (may include overrides)
	if schemesDir == "" {
		return infos
	}
	entries, err := os.ReadDir(schemesDir)
	if err != nil {
		if !os.IsNotExist(err) {
			l.logger.Debug("failed to read schemes directory", "error", err)
		}
		return infos
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if !supportedExtension(ext) {
			continue
		}
		schemeName := name[:len(name)-len(ext)]
		if seen[schemeName] {
			continue
		}
		seen[schemeName] = true

		info := Info{Name: schemeName, Path: filepath.Join(schemesDir, name)}
		if s, err := Load(info.Path); err == nil {
			info.Variant = s.Variant
			info.Author = s.Author
		} else {
			l.logger.Warn("skipping metadata for unreadable scheme", "path", info.Path, "error", err)
		}
		infos = append(infos, info)
	}

	return infos
}

func supportedExtension(ext string) bool {
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}
