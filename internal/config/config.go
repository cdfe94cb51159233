// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/aether/internal/target"
)

// Default configuration values.
const (
	DefaultScheme     = "aether"
	DefaultListFormat = "plain"
	DefaultListSort   = "name"
	DefaultSeparator  = " | "
	DefaultRetention  = "90d"
)

// Config represents the aether configuration, shared by the CLI, the TUI
// and the daemon. Loaded from ~/.config/aether/config.toml.
type Config struct {
	General   GeneralConfig           `toml:"general"`
	List      ListConfig              `toml:"list"`
	Journal   JournalConfig           `toml:"journal"`
	Templates TemplatesConfig         `toml:"templates"`
	Clipboard ClipboardConfig         `toml:"clipboard"`
	Targets   map[string]TargetConfig `toml:"targets"`
}

// GeneralConfig holds scheme selection and path overrides.
type GeneralConfig struct {
	Scheme        string   `toml:"scheme"`         // Default scheme when none applied yet
	SchemesDir    string   `toml:"schemes_dir"`    // Override user schemes directory
	TemplatesDir  string   `toml:"templates_dir"`  // Override user templates directory
	ReloadTimeout Duration `toml:"reload_timeout"` // Per-target reload command timeout
}

// ListConfig holds default listing options.
type ListConfig struct {
	Format    string `toml:"format"`    // plain, json, dmenu, names
	Variant   string `toml:"variant"`   // Default variant filter ("" = all)
	Sort      string `toml:"sort"`      // name, variant, source
	Separator string `toml:"separator"` // Field separator for dmenu output
}

// JournalConfig holds default prune options for the apply journal.
type JournalConfig struct {
	Retention string `toml:"retention"` // Drop events older than this
	Keep      int    `toml:"keep"`      // Max events to keep (0 = unlimited)
}

// TemplatesConfig holds listing templates.
type TemplatesConfig struct {
	List   string            `toml:"list"`   // Default listing template ("" = built-in formatting)
	Custom map[string]string `toml:"custom"` // Named templates referenced by --template
}

// ClipboardConfig holds clipboard settings (TUI only).
type ClipboardConfig struct {
	Command string `toml:"command"` // Auto-detected if empty
}

// TargetConfig overrides or defines a render target. Pointer fields
// distinguish "not set" from an explicit false/zero so a partial block
// only touches what it names.
type TargetConfig struct {
	Enabled        *bool    `toml:"enabled,omitempty"`
	Priority       *int     `toml:"priority,omitempty"`
	Template       string   `toml:"template,omitempty"`
	Output         string   `toml:"output,omitempty"`
	ReloadCmd      []string `toml:"reload_cmd,omitempty"`
	DisableItalics *bool    `toml:"disable_italics,omitempty"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			Scheme:        DefaultScheme,
			ReloadTimeout: Duration(5 * time.Second),
		},
		List: ListConfig{
			Format:    DefaultListFormat,
			Variant:   "",
			Sort:      DefaultListSort,
			Separator: DefaultSeparator,
		},
		Journal: JournalConfig{
			Retention: DefaultRetention,
			Keep:      0,
		},
		Templates: TemplatesConfig{
			List:   "",
			Custom: make(map[string]string),
		},
		Clipboard: ClipboardConfig{
			Command: "", // Auto-detect
		},
		Targets: make(map[string]TargetConfig),
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "aether", "config.toml")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	// Start with defaults
	cfg := DefaultConfig()

	// Check if file exists
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// No config file, use defaults
			return cfg, nil
		}
		return nil, err
	}

	// Parse TOML
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GetTemplate returns the template for the given name.
// First checks custom templates, then built-in ones.
// Returns empty string if not found.
func (c *Config) GetTemplate(name string) string {
	// Check custom templates first
	if tmpl, ok := c.Templates.Custom[name]; ok {
		return tmpl
	}

	if name == "list" {
		return c.Templates.List
	}
	return ""
}

// ApplyTargets overlays the config's target blocks onto a registry.
// Known names are modified in place (a block only touches the fields it
// sets); unknown names define new targets.
func (c *Config) ApplyTargets(r *target.Registry) error {
	for name, tc := range c.Targets {
		t, ok := r.Get(name)
		if ok {
			t = t.Clone()
		} else {
			t = &target.Target{Name: name, Enabled: true}
		}

		if tc.Enabled != nil {
			t.Enabled = *tc.Enabled
		}
		if tc.Priority != nil {
			t.Priority = *tc.Priority
		}
		if tc.Template != "" {
			t.Template = tc.Template
		}
		if tc.Output != "" {
			t.Output = tc.Output
		}
		if tc.ReloadCmd != nil {
			t.ReloadCmd = append([]string(nil), tc.ReloadCmd...)
		}
		if tc.DisableItalics != nil {
			if t.Options == nil {
				t.Options = make(map[string]any)
			}
			t.Options[target.OptionDisableItalics] = *tc.DisableItalics
		}

		if err := r.Replace(t); err != nil {
			return fmt.Errorf("target %s: %w", name, err)
		}
	}
	return nil
}
