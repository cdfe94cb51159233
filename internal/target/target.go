// Package target defines the applications a scheme is rendered for and the
// order they are applied in.
package target

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrTargetNameRequired is returned when a target has no name.
	ErrTargetNameRequired = errors.New("target name is required")
	// ErrNegativePriority is returned when a target has a negative priority.
	ErrNegativePriority = errors.New("target priority must be non-negative")
	// ErrTargetExists is returned when registering a duplicate target name.
	ErrTargetExists = errors.New("target already registered")
	// ErrTargetNotFound is returned when a target is not found.
	ErrTargetNotFound = errors.New("target not found")
)

// Target describes one application the scheme is rendered for: which
// template to render, where the fragment goes, and how to tell the
// application to pick it up.
type Target struct {
	Name      string         `toml:"name" json:"name"`
	Priority  int            `toml:"priority" json:"priority"`
	Enabled   bool           `toml:"enabled" json:"enabled"`
	Template  string         `toml:"template,omitempty" json:"template,omitempty"`
	Output    string         `toml:"output,omitempty" json:"output,omitempty"`
	ReloadCmd []string       `toml:"reload_cmd,omitempty" json:"reload_cmd,omitempty"`
	Options   map[string]any `toml:"options,omitempty" json:"options,omitempty"`
}

// Validate checks the target invariants: a non-empty slug name and a
// non-negative priority. Priority carries no absolute meaning, it only
// orders targets relative to each other.
func (t *Target) Validate() error {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return ErrTargetNameRequired
	}
	if strings.ContainsAny(name, "/\\ ") {
		return fmt.Errorf("target name %q must not contain spaces or path separators", t.Name)
	}
	if t.Priority < 0 {
		return fmt.Errorf("target %s: %w (got %d)", t.Name, ErrNegativePriority, t.Priority)
	}
	return nil
}

// TemplateName returns the template the target renders with. Defaults to
// the target name.
func (t *Target) TemplateName() string {
	if t.Template != "" {
		return t.Template
	}
	return t.Name
}

// Option returns a raw option value.
func (t *Target) Option(key string) (any, bool) {
	v, ok := t.Options[key]
	return v, ok
}

// BoolOption returns a boolean option, or the fallback when absent or not
// a boolean.
func (t *Target) BoolOption(key string, fallback bool) bool {
	v, ok := t.Options[key]
	if !ok {
		return fallback
	}
	b, ok := v.(bool)
	if !ok {
		return fallback
	}
	return b
}

// Clone returns a deep copy the caller may mutate freely.
func (t *Target) Clone() *Target {
	c := *t
	if t.ReloadCmd != nil {
		c.ReloadCmd = append([]string(nil), t.ReloadCmd...)
	}
	if t.Options != nil {
		c.Options = make(map[string]any, len(t.Options))
		for k, v := range t.Options {
			c.Options[k] = v
		}
	}
	return &c
}

// Registry holds the known targets.
type Registry struct {
	mu      sync.RWMutex
	targets map[string]*Target
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{targets: make(map[string]*Target)}
}

// DefaultRegistry creates a registry pre-populated with the builtin targets.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, t := range Builtins() {
		// Builtins are valid by construction
		_ = r.Register(t)
	}
	return r
}

// Register validates and adds a target. Duplicate names are rejected.
func (r *Registry) Register(t *Target) error {
	if err := t.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.targets[t.Name]; exists {
		return fmt.Errorf("%w: %s", ErrTargetExists, t.Name)
	}
	r.targets[t.Name] = t
	return nil
}

// Replace validates and adds a target, overwriting any existing entry with
// the same name. Used when config overrides a builtin.
func (r *Registry) Replace(t *Target) error {
	if err := t.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets[t.Name] = t
	return nil
}

// Get returns a target by name.
func (r *Registry) Get(name string) (*Target, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.targets[name]
	return t, ok
}

// Names returns all registered target names sorted alphabetically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.targets))
	for name := range r.targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered targets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.targets)
}

// Ordered returns all targets in apply order: priority descending so that
// higher-priority targets apply first, names ascending on ties.
func (r *Registry) Ordered() []*Target {
	r.mu.RLock()
	targets := make([]*Target, 0, len(r.targets))
	for _, t := range r.targets {
		targets = append(targets, t)
	}
	r.mu.RUnlock()

	sort.SliceStable(targets, func(i, j int) bool {
		if targets[i].Priority != targets[j].Priority {
			return targets[i].Priority > targets[j].Priority
		}
		return targets[i].Name < targets[j].Name
	})
	return targets
}

// Enabled returns the enabled targets in apply order.
func (r *Registry) Enabled() []*Target {
	ordered := r.Ordered()
	enabled := make([]*Target, 0, len(ordered))
	for _, t := range ordered {
		if t.Enabled {
			enabled = append(enabled, t)
		}
	}
	return enabled
}
