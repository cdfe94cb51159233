package scheme

import (
	"embed"
	"io/fs"
	"path/filepath"
	"strings"
)

// EmbeddedSchemes contains all bundled scheme files.
//
//go:embed schemes/*.toml
var EmbeddedSchemes embed.FS

// DefaultSchemeName is the name of the built-in default scheme.
const DefaultSchemeName = "aether"

// BundledSchemes lists all embedded scheme names.
var BundledSchemes = []string{"aether", "catppuccin-mocha", "gruvbox-dark"}

// GetEmbeddedScheme retrieves a bundled scheme by name.
// Returns the parsed scheme and whether it was found.
func GetEmbeddedScheme(name string) (*Scheme, bool) {
	path := "schemes/" + name + ".toml"
	data, err := EmbeddedSchemes.ReadFile(path)
	if err != nil {
		return nil, false
	}

	s, err := Parse(data, ".toml")
	if err != nil {
		// Bundled schemes are validated by tests; a parse failure here
		// means a broken build, treat it as absent.
		return nil, false
	}
	s.IsBundled = true
	return s, true
}

// ListEmbeddedSchemes returns names of all embedded schemes.
func ListEmbeddedSchemes() []string {
	var names []string

	entries, err := fs.ReadDir(EmbeddedSchemes, "schemes")
	if err != nil {
		return BundledSchemes // Fallback to known list
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if ext := filepath.Ext(name); ext == ".toml" {
			names = append(names, strings.TrimSuffix(name, ext))
		}
	}

	return names
}

// IsEmbeddedScheme checks if a scheme name is bundled.
func IsEmbeddedScheme(name string) bool {
	_, found := GetEmbeddedScheme(name)
	return found
}
