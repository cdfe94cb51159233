package input

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/aether/internal/scheme"
)

const classicBase16 = `scheme: "Ocean Dark"
author: "Chris Kempson"
base00: "2b303b"
base01: "343d46"
base02: "4f5b66"
base03: "65737e"
base04: "a7adba"
base05: "c0c5ce"
base06: "dfe1e8"
base07: "eff1f5"
base08: "bf616a"
base09: "d08770"
base0A: "ebcb8b"
base0B: "a3be8c"
base0C: "96b5b4"
base0D: "8fa1b3"
base0E: "b48ead"
base0F: "ab7967"
`

const modernBase16 = `system: "base16"
name: "Rose Pine"
slug: "rose-pine"
author: "Emilia Dunfelt"
variant: "dark"
palette:
  base00: "#191724"
  base01: "#1f1d2e"
  base02: "#26233a"
  base03: "#6e6a86"
  base04: "#908caa"
  base05: "#e0def4"
  base06: "#e0def4"
  base07: "#524f67"
  base08: "#eb6f92"
  base09: "#f6c177"
  base0A: "#ebbcba"
  base0B: "#31748f"
  base0C: "#9ccfd8"
  base0D: "#c4a7e7"
  base0E: "#f6c177"
  base0F: "#524f67"
`

func TestParseBase16_ClassicFormat(t *testing.T) {
	s, err := ParseBase16([]byte(classicBase16))
	require.NoError(t, err)

	assert.Equal(t, "ocean-dark", s.Name)
	assert.Equal(t, "Chris Kempson", s.Author)
	assert.Equal(t, scheme.HexColor("#2b303b"), s.Palette.Base00)
	assert.Equal(t, scheme.HexColor("#ab7967"), s.Palette.Base0F)
	assert.NoError(t, s.Validate())
}

func TestParseBase16_ModernFormat(t *testing.T) {
	s, err := ParseBase16([]byte(modernBase16))
	require.NoError(t, err)

	assert.Equal(t, "rose-pine", s.Name)
	assert.Equal(t, "Emilia Dunfelt", s.Author)
	assert.Equal(t, "dark", s.Variant)
	assert.Equal(t, scheme.HexColor("#191724"), s.Palette.Base00)
	assert.Equal(t, scheme.HexColor("#c4a7e7"), s.Palette.Base0D)
}

func TestParseBase16_LowercaseSlotKeys(t *testing.T) {
	doc := strings.ReplaceAll(modernBase16, "base0A", "base0a")
	doc = strings.ReplaceAll(doc, "base0B", "base0b")

	s, err := ParseBase16([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, scheme.HexColor("#ebbcba"), s.Palette.Base0A)
	assert.Equal(t, scheme.HexColor("#31748f"), s.Palette.Base0B)
}

func TestParseBase16_ExtendedSlotsIgnored(t *testing.T) {
	// base24 extensions, including ones that are not colors at all
	doc := modernBase16 + "  base10: \"#111111\"\n  base17: \"not-a-color\"\n"

	s, err := ParseBase16([]byte(doc))
	require.NoError(t, err)
	assert.NoError(t, s.Validate())
}

func TestParseBase16_MissingSlots(t *testing.T) {
	doc := `scheme: "Partial"
base00: "2b303b"
base01: "343d46"
`
	_, err := ParseBase16([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete")
}

func TestParseBase16_BadHex(t *testing.T) {
	doc := strings.Replace(classicBase16, `"2b303b"`, `"2b30"`, 1)

	_, err := ParseBase16([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base00")
}

func TestParseBase16_NotYAML(t *testing.T) {
	_, err := ParseBase16([]byte("{{{"))
	assert.Error(t, err)
}

func TestParseBase16_NoSlots(t *testing.T) {
	_, err := ParseBase16([]byte(`scheme: "Empty"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no palette slots")
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ocean Dark", "ocean-dark"},
		{"Catppuccin Mocha", "catppuccin-mocha"},
		{"  Gruvbox   (Dark) Hard  ", "gruvbox-dark-hard"},
		{"already-a-slug", "already-a-slug"},
		{"Solarized", "solarized"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.in))
		})
	}
}
