package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemeNameFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/schemes/gruvbox-dark.toml", "gruvbox-dark"},
		{"/schemes/nord.yaml", "nord"},
		{"/schemes/nord.yml", "nord"},
		{"/schemes/notes.txt", ""},
		{"/schemes/.gruvbox-dark.toml.swp", ""},
		{"/schemes/gruvbox-dark.toml~", ""},
		{"gruvbox-dark.toml", "gruvbox-dark"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, schemeNameFromPath(tt.path))
		})
	}
}

func TestSchemesWatcher_ReportsChangedScheme(t *testing.T) {
	dir := t.TempDir()

	w, err := NewSchemesWatcher(dir, nil)
	require.NoError(t, err)
	w.SetDebounce(50 * time.Millisecond)

	changed := make(chan []string, 1)
	w.SetChangeCallback(func(names []string) {
		select {
		case changed <- names:
		default:
		}
	})

	require.NoError(t, w.Start())
	defer w.Stop()

	path := filepath.Join(dir, "gruvbox-dark.toml")
	require.NoError(t, os.WriteFile(path, []byte("name = \"gruvbox-dark\"\n"), 0644))

	select {
	case names := <-changed:
		assert.Contains(t, names, "gruvbox-dark")
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change callback")
	}
}

func TestSchemesWatcher_IgnoresNonSchemeFiles(t *testing.T) {
	dir := t.TempDir()

	w, err := NewSchemesWatcher(dir, nil)
	require.NoError(t, err)
	w.SetDebounce(50 * time.Millisecond)

	changed := make(chan []string, 1)
	w.SetChangeCallback(func(names []string) {
		select {
		case changed <- names:
		default:
		}
	})

	require.NoError(t, w.Start())
	defer w.Stop()

	path := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(path, []byte("notes\n"), 0644))

	select {
	case names := <-changed:
		t.Fatalf("unexpected change callback for %v", names)
	case <-time.After(500 * time.Millisecond):
	}
}
