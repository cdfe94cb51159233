package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "5s", "10s", "1m", "1h30m", or integer milliseconds for backwards compatibility.
// A value of "0" or 0 means disabled.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	// Try parsing as integer (milliseconds) for backwards compatibility
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	// Parse as duration string (e.g., "5s", "1m", "1h30m")
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '5s', '1m', '1h30m' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Milliseconds returns the duration in milliseconds.
func (d Duration) Milliseconds() int {
	return int(time.Duration(d).Milliseconds())
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// DaemonConfig is the configuration for aetherd.
// Loaded from ~/.config/aether/aetherd.toml
type DaemonConfig struct {
	ApplyOnStart  bool         `toml:"apply_on_start"` // Apply a scheme when the daemon starts
	Scheme        string       `toml:"scheme"`         // Startup scheme ("" = last applied, then general default)
	Watch         WatchConfig  `toml:"watch"`
	DBus          DBusConfig   `toml:"dbus"`
	Notifications NotifyConfig `toml:"notifications"`
}

// WatchConfig contains file watching settings.
type WatchConfig struct {
	Enabled      bool     `toml:"enabled"`       // Watch schemes/config for changes
	Debounce     Duration `toml:"debounce"`      // Coalesce rapid filesystem events
	PollInterval Duration `toml:"poll_interval"` // Active scheme file polling interval
}

// DBusConfig contains D-Bus service settings.
type DBusConfig struct {
	Enabled bool `toml:"enabled"` // Claim the session bus name and export the manager
}

// NotifyConfig contains desktop notification settings.
type NotifyConfig struct {
	Enabled     bool     `toml:"enabled"`      // Send desktop notifications on applies and errors
	MinInterval Duration `toml:"min_interval"` // Minimum interval between duplicate notifications
}

// DefaultDaemonConfig returns a new DaemonConfig with default values.
func DefaultDaemonConfig() *DaemonConfig {
	return &DaemonConfig{
		ApplyOnStart: true,
		Scheme:       "",
		Watch: WatchConfig{
			Enabled:      true,
			Debounce:     Duration(250 * time.Millisecond),
			PollInterval: Duration(500 * time.Millisecond),
		},
		DBus: DBusConfig{
			Enabled: true,
		},
		Notifications: NotifyConfig{
			Enabled:     true,
			MinInterval: Duration(5 * time.Second),
		},
	}
}

// DaemonConfigPath returns the path to the daemon config file.
func DaemonConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "aether", "aetherd.toml"), nil
}

// LoadDaemonConfig loads the daemon configuration from disk.
// If the file doesn't exist, returns the default configuration.
func LoadDaemonConfig() (*DaemonConfig, error) {
	path, err := DaemonConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultDaemonConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	config := DefaultDaemonConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate the configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// SaveDaemonConfig saves the daemon configuration to disk.
func SaveDaemonConfig(config *DaemonConfig) error {
	path, err := DaemonConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *DaemonConfig) Validate() error {
	if c.Watch.Debounce.Duration() < 0 || c.Watch.Debounce.Duration() > 10*time.Second {
		return fmt.Errorf("watch debounce must be between 0 and 10s, got %s", c.Watch.Debounce.Duration())
	}

	if c.Watch.PollInterval.Duration() < 100*time.Millisecond || c.Watch.PollInterval.Duration() > 5*time.Minute {
		return fmt.Errorf("watch poll_interval must be between 100ms and 5m, got %s", c.Watch.PollInterval.Duration())
	}

	if c.Notifications.MinInterval.Duration() < 0 {
		return fmt.Errorf("notifications min_interval must not be negative, got %s", c.Notifications.MinInterval.Duration())
	}

	return nil
}
