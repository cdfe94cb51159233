// Package state persists the currently applied scheme so the CLI, TUI and
// daemon agree on what is active. Stored at ~/.local/share/aether/state.json.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SourceBundled marks schemes applied from the embedded set.
const SourceBundled = "bundled"

// CurrentSchemaVersion is the current version of the state schema.
const CurrentSchemaVersion = 1

// Applied is the shared record of the last applied scheme.
// Persisted to ~/.local/share/aether/state.json.
type Applied struct {
	SchemeName   string `json:"scheme_name,omitempty"`
	SchemeSource string `json:"scheme_source,omitempty"` // file path or "bundled"
	Variant      string `json:"variant,omitempty"`
	AppliedAt    int64  `json:"applied_at,omitempty"` // Unix timestamp
	LastEventID  string `json:"last_event_id,omitempty"`

	SchemaVersion int `json:"schema_version"`
}

// stateFileMutex protects concurrent access to the state file.
var stateFileMutex sync.RWMutex

// Default returns an empty applied state.
func Default() *Applied {
	return &Applied{SchemaVersion: CurrentSchemaVersion}
}

// HasScheme reports whether a scheme has ever been applied.
func (a *Applied) HasScheme() bool {
	return a.SchemeName != ""
}

// AppliedTime returns the applied-at timestamp as a time.Time.
func (a *Applied) AppliedTime() time.Time {
	if a.AppliedAt == 0 {
		return time.Time{}
	}
	return time.Unix(a.AppliedAt, 0)
}

// DataDir returns the path to the aether data directory.
// Uses XDG_DATA_HOME or defaults to ~/.local/share/aether.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "aether"), nil
}

// FilePath returns the path to the state file.
func FilePath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "state.json"), nil
}

// Load reads the applied state from disk.
// A missing or corrupted file degrades to the default state.
func Load() (*Applied, error) {
	stateFileMutex.RLock()
	defer stateFileMutex.RUnlock()

	path, err := FilePath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	var a Applied
	if err := json.Unmarshal(data, &a); err != nil {
		return Default(), nil
	}

	if a.SchemaVersion == 0 {
		a.SchemaVersion = CurrentSchemaVersion
	}
	return &a, nil
}

// Save writes the applied state to disk atomically.
func Save(a *Applied) error {
	stateFileMutex.Lock()
	defer stateFileMutex.Unlock()

	path, err := FilePath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	if a.SchemaVersion == 0 {
		a.SchemaVersion = CurrentSchemaVersion
	}

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
