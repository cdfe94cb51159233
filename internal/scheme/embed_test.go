package scheme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEmbeddedScheme_Default(t *testing.T) {
	s, found := GetEmbeddedScheme(DefaultSchemeName)
	require.True(t, found, "default scheme should be found")
	assert.Equal(t, "aether", s.Name)
	assert.True(t, s.IsBundled)
	assert.Empty(t, s.Path)
	assert.NoError(t, s.Validate())
}

func TestGetEmbeddedScheme_NotFound(t *testing.T) {
	s, found := GetEmbeddedScheme("nonexistent")
	assert.False(t, found)
	assert.Nil(t, s)
}

func TestListEmbeddedSchemes(t *testing.T) {
	names := ListEmbeddedSchemes()

	assert.GreaterOrEqual(t, len(names), 3)
	assert.Contains(t, names, "aether", "should contain the default scheme")
	assert.Contains(t, names, "catppuccin-mocha")
	assert.Contains(t, names, "gruvbox-dark")
}

func TestIsEmbeddedScheme(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"aether", true},
		{"catppuccin-mocha", true},
		{"gruvbox-dark", true},
		{"nonexistent", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsEmbeddedScheme(tt.name))
		})
	}
}

func TestBundledSchemes_AllValid(t *testing.T) {
	for _, name := range BundledSchemes {
		t.Run(name, func(t *testing.T) {
			s, found := GetEmbeddedScheme(name)
			require.True(t, found)

			assert.Equal(t, name, s.Name, "bundled scheme name should match its file name")
			assert.NoError(t, s.Validate())

			// Every slot must be a well formed lowercase-friendly hex color
			for _, slot := range s.Palette.Slots() {
				assert.True(t, slot.Color.Valid(),
					"scheme %s slot %s should be valid, got %q", name, slot.Name, slot.Color)
			}
		})
	}
}

func TestBundledSchemes_MatchEmbeddedList(t *testing.T) {
	names := ListEmbeddedSchemes()
	assert.ElementsMatch(t, BundledSchemes, names)
}
