// Package contracts defines the interfaces for aether.
// This file serves as documentation and is not compiled.
// Actual implementations live in internal/ packages.
package contracts

import (
	"context"
	"io"
	"time"
)

// =============================================================================
// Model Types
// =============================================================================

// Scheme represents a single base16 colorscheme.
// See data-model.md for full field descriptions.
type Scheme struct {
	Name    string  `toml:"name"`              // slug, unique across bundled and user schemes
	Author  string  `toml:"author,omitempty"`  // free-form attribution
	Variant string  `toml:"variant,omitempty"` // "dark" or "light"
	Palette Palette `toml:"palette"`

	// Provenance (not serialized)
	Path      string // scheme file path, empty for bundled
	IsBundled bool
}

// Palette holds the sixteen base16 slots. Every slot is a #RRGGBB hex
// color; base00 is the default background and base05 the default
// foreground, base08..base0F carry the accent hues.
type Palette struct {
	Base00 string `toml:"base00"`
	Base01 string `toml:"base01"`
	Base02 string `toml:"base02"`
	Base03 string `toml:"base03"`
	Base04 string `toml:"base04"`
	Base05 string `toml:"base05"`
	Base06 string `toml:"base06"`
	Base07 string `toml:"base07"`
	Base08 string `toml:"base08"`
	Base09 string `toml:"base09"`
	Base0A string `toml:"base0A"`
	Base0B string `toml:"base0B"`
	Base0C string `toml:"base0C"`
	Base0D string `toml:"base0D"`
	Base0E string `toml:"base0E"`
	Base0F string `toml:"base0F"`
}

// Target describes one application a scheme is rendered for.
type Target struct {
	Name      string         // slug, no spaces or path separators
	Priority  int            // non-negative; orders targets relative to each other only
	Enabled   bool           // disabled targets are skipped by apply
	Template  string         // template name (default: target name)
	Output    string         // fragment destination path (~ and $VARS expanded)
	ReloadCmd []string       // command run after the fragment changes
	Options   map[string]any // template options, e.g. disable_italics
}

// FilterOptions specifies criteria for filtering scheme listings.
type FilterOptions struct {
	Variant string // "dark" or "light" ("" = any)
	Search  string // fuzzy match on name and author
	Limit   int    // maximum results (0 = unlimited)
}

// ApplyOptions configures one apply run.
type ApplyOptions struct {
	Trigger  string   // "cli", "tui", "daemon", "dbus"
	DryRun   bool     // render and diff without writing or reloading
	NoReload bool     // write fragments but skip reload commands
	Targets  []string // restrict to these targets ("" = all enabled)
}

// PruneOptions configures the journal prune operation.
type PruneOptions struct {
	OlderThan time.Duration // remove events older than this (default: 90d)
	Keep      int           // keep at most N events (0 = unlimited)
	DryRun    bool          // if true, return counts without removing
}

// =============================================================================
// Scheme Loader Interface
// =============================================================================

// Loader resolves schemes by name, user directory first, bundled second.
type Loader interface {
	// LoadScheme loads a scheme by name and makes it current.
	LoadScheme(name string) (*Scheme, error)

	// ListSchemes returns metadata for every known scheme.
	ListSchemes() ([]Scheme, error)

	// Reload re-reads the current scheme from disk.
	Reload() (*Scheme, error)

	// StartHotReload watches the current scheme file and invokes the
	// callback with the reloaded scheme after each change.
	StartHotReload(ctx context.Context, onChange func(*Scheme))

	// StopHotReload stops watching. Safe to call when not watching.
	StopHotReload()
}

// =============================================================================
// Input Adapter Interface
// =============================================================================

// InputAdapter imports a scheme from an external format.
type InputAdapter interface {
	// Name returns the adapter identifier (e.g., "base16", "native").
	Name() string

	// Import reads one scheme from the reader.
	Import(r io.Reader) (*Scheme, error)
}

// =============================================================================
// Output Formatter Interface
// =============================================================================

// Formatter formats scheme listings for output.
type Formatter interface {
	// Format outputs scheme metadata to the writer.
	Format(w io.Writer, schemes []Scheme) error
}

// =============================================================================
// Renderer Interface
// =============================================================================

// Renderer renders a scheme through a target's template.
type Renderer interface {
	// Render produces the config fragment for one target.
	// Rendering is deterministic: the same scheme and target always
	// produce the same bytes.
	Render(s *Scheme, t *Target) ([]byte, error)
}

// =============================================================================
// Apply Engine Interface
// =============================================================================

// Engine renders a scheme for every enabled target, writes the
// fragments and runs the reload commands.
type Engine interface {
	// Apply runs one apply across all selected targets in priority
	// order. Unchanged fragments are not rewritten and their reload
	// commands are skipped. Returns the journal event and the
	// per-target results.
	Apply(ctx context.Context, s *Scheme, opts ApplyOptions) (*ApplyEvent, []Result, error)
}

// Result is the per-target outcome of one apply.
type Result struct {
	Target  string
	Outcome string // "written", "unchanged", "failed", "reload_failed"
	Output  string // fragment path
	Err     error
}

// =============================================================================
// Journal Interface
// =============================================================================

// ApplyEvent records one scheme apply across all targets.
type ApplyEvent struct {
	ID         string // ULID, sortable by time
	SchemeName string
	Variant    string
	Trigger    string
	DryRun     bool
	Timestamp  int64
}

// Journal records apply history as an append-only log.
type Journal interface {
	// Load reads all events, oldest first.
	// Returns an empty slice if the file doesn't exist.
	Load() ([]ApplyEvent, error)

	// Append adds a single event.
	Append(e ApplyEvent) error

	// Rewrite replaces the entire journal (used after prune).
	Rewrite(es []ApplyEvent) error

	// Clear removes all events.
	Clear() error

	// Close releases file handles and resources.
	Close() error
}

// =============================================================================
// Clipboard Interface (TUI mode only)
// =============================================================================

// Clipboard handles copying hex values to the system clipboard.
// Only used in TUI mode - shell pipelines handle clipboard for list output.
type Clipboard interface {
	// Copy copies text to the system clipboard.
	// Returns error if no clipboard tool is available.
	Copy(text string) error

	// IsAvailable checks if clipboard functionality is available.
	IsAvailable() bool
}

// =============================================================================
// TUI Interface
// =============================================================================

// TUI represents the interactive scheme browser.
type TUI interface {
	// Run starts the interactive TUI session.
	// Blocks until user quits.
	Run(loader Loader, engine Engine) error
}
