package scheme

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexColor_Valid(t *testing.T) {
	tests := []struct {
		color    HexColor
		expected bool
	}{
		{"#000000", true},
		{"#ffffff", true},
		{"#FFFFFF", true},
		{"#1a2B3c", true},
		{"", false},
		{"#fff", false},
		{"#1234567", false},
		{"123456", false},
		{"#12345g", false},
		{"#12 456", false},
		{" #123456", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.color), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.color.Valid())
		})
	}
}

func TestHexColor_Strip(t *testing.T) {
	assert.Equal(t, "1a2b3c", HexColor("#1a2b3c").Strip())
	assert.Equal(t, "1a2b3c", HexColor("1a2b3c").Strip())
}

func TestPalette_Slots_CanonicalOrder(t *testing.T) {
	p := testPalette()
	slots := p.Slots()

	require.Len(t, slots, SlotCount)
	for i, slot := range slots {
		assert.Equal(t, SlotNames[i], slot.Name)
		assert.True(t, slot.Color.Valid(), "slot %s should hold a valid color", slot.Name)
	}
}

func TestPalette_Map_HasAllSlots(t *testing.T) {
	p := testPalette()
	m := p.Map()

	require.Len(t, m, SlotCount)
	for _, name := range SlotNames {
		color, ok := m[name]
		require.True(t, ok, "map should contain %s", name)
		assert.True(t, color.Valid())
	}
}

func TestPalette_Slot(t *testing.T) {
	p := testPalette()

	color, ok := p.Slot("base0D")
	require.True(t, ok)
	assert.Equal(t, p.Base0D, color)

	_, ok = p.Slot("base10")
	assert.False(t, ok)
}

func TestScheme_Validate(t *testing.T) {
	s := testScheme("valid")
	assert.NoError(t, s.Validate())
}

func TestScheme_Validate_NameRequired(t *testing.T) {
	s := testScheme("")
	err := s.Validate()
	assert.ErrorIs(t, err, ErrNameRequired)

	s.Name = "   "
	err = s.Validate()
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestScheme_Validate_Variant(t *testing.T) {
	s := testScheme("variants")

	for _, variant := range []string{"", VariantDark, VariantLight} {
		s.Variant = variant
		assert.NoError(t, s.Validate(), "variant %q should be accepted", variant)
	}

	s.Variant = "solarized"
	err := s.Validate()
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestScheme_Validate_MissingSlot(t *testing.T) {
	s := testScheme("incomplete")
	s.Palette.Base0A = ""

	err := s.Validate()
	require.Error(t, err)

	var slotErr *SlotError
	require.ErrorAs(t, err, &slotErr)
	assert.Equal(t, "base0A", slotErr.Slot)
	assert.Contains(t, err.Error(), "missing")
}

func TestScheme_Validate_MalformedSlot(t *testing.T) {
	tests := []HexColor{"#fff", "123456", "#12345g", "#1234567"}

	for _, bad := range tests {
		t.Run(string(bad), func(t *testing.T) {
			s := testScheme("malformed")
			s.Palette.Base08 = bad

			err := s.Validate()
			var slotErr *SlotError
			require.ErrorAs(t, err, &slotErr)
			assert.Equal(t, "base08", slotErr.Slot)
			assert.Contains(t, err.Error(), "#RRGGBB")
		})
	}
}

func TestScheme_Dark(t *testing.T) {
	s := testScheme("d")
	s.Variant = VariantDark
	assert.True(t, s.Dark())

	s.Variant = ""
	assert.True(t, s.Dark(), "missing variant should default to dark")

	s.Variant = VariantLight
	assert.False(t, s.Dark())
}

func TestScheme_Equal_IgnoresProvenance(t *testing.T) {
	a := testScheme("same")
	b := testScheme("same")
	b.Path = "/somewhere/else.toml"
	b.ModTime = time.Now()
	b.IsBundled = true

	assert.True(t, a.Equal(b))

	b.Palette.Base00 = "#111111"
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(nil))
}

func TestParse_TOML(t *testing.T) {
	data := []byte(testSchemeTOML("parsed", "#1e1e2e"))

	s, err := Parse(data, ".toml")
	require.NoError(t, err)
	assert.Equal(t, "parsed", s.Name)
	assert.Equal(t, HexColor("#1e1e2e"), s.Palette.Base00)
}

func TestParse_YAML(t *testing.T) {
	data := []byte(`name: yamled
variant: light
palette:
  base00: "#fbf1c7"
  base01: "#ebdbb2"
  base02: "#d5c4a1"
  base03: "#bdae93"
  base04: "#665c54"
  base05: "#504945"
  base06: "#3c3836"
  base07: "#282828"
  base08: "#9d0006"
  base09: "#af3a03"
  base0A: "#b57614"
  base0B: "#79740e"
  base0C: "#427b58"
  base0D: "#076678"
  base0E: "#8f3f71"
  base0F: "#d65d0e"
`)

	s, err := Parse(data, ".yaml")
	require.NoError(t, err)
	assert.Equal(t, "yamled", s.Name)
	assert.Equal(t, VariantLight, s.Variant)
	assert.Equal(t, HexColor("#fbf1c7"), s.Palette.Base00)
	assert.NoError(t, s.Validate())
}

func TestParse_UnsupportedFormat(t *testing.T) {
	_, err := Parse([]byte("{}"), ".json5")
	assert.Error(t, err)
}

func TestParse_InvalidSchemeRejected(t *testing.T) {
	// Parse validates: a syntactically fine file with a bad slot must fail
	data := []byte(testSchemeTOML("broken", "nothex"))

	_, err := Parse(data, ".toml")
	var slotErr *SlotError
	require.ErrorAs(t, err, &slotErr)
	assert.Equal(t, "base00", slotErr.Slot)
}

func TestLoad_NameDefaultsToBasename(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nord.toml")

	content := testSchemeTOML("", "#2e3440")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "nord", s.Name)
	assert.Equal(t, path, s.Path)
	assert.False(t, s.ModTime.IsZero())
	assert.False(t, s.IsBundled)
}

func TestLoad_Twice_Identical(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "stable.toml")
	require.NoError(t, os.WriteFile(path, []byte(testSchemeTOML("stable", "#101010")), 0644))

	first, err := Load(path)
	require.NoError(t, err)
	second, err := Load(path)
	require.NoError(t, err)

	assert.True(t, first.Equal(second), "loading the same file twice should yield identical schemes")
}

func TestScheme_Reload_Unchanged(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "calm.toml")
	require.NoError(t, os.WriteFile(path, []byte(testSchemeTOML("calm", "#202020")), 0644))

	s, err := Load(path)
	require.NoError(t, err)

	changed, err := s.Reload()
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestScheme_Reload_PicksUpChanges(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "shifting.toml")
	require.NoError(t, os.WriteFile(path, []byte(testSchemeTOML("shifting", "#202020")), 0644))

	s, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(testSchemeTOML("shifting", "#303030")), 0644))
	// Make sure the mtime moves forward even on coarse filesystems
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	changed, err := s.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, HexColor("#303030"), s.Palette.Base00)
}

func TestScheme_Reload_Bundled(t *testing.T) {
	s, found := GetEmbeddedScheme(DefaultSchemeName)
	require.True(t, found)

	changed, err := s.Reload()
	require.NoError(t, err)
	assert.False(t, changed, "bundled schemes never change")
}

func TestScheme_Encode_RoundTrip(t *testing.T) {
	s := testScheme("canonical")
	s.Author = "someone"
	s.Variant = VariantDark

	data, err := s.Encode()
	require.NoError(t, err)

	decoded, err := Parse(data, ".toml")
	require.NoError(t, err)
	assert.True(t, s.Equal(decoded))
}

// testPalette returns a complete valid palette.
func testPalette() Palette {
	var p Palette
	slots := []*HexColor{
		&p.Base00, &p.Base01, &p.Base02, &p.Base03,
		&p.Base04, &p.Base05, &p.Base06, &p.Base07,
		&p.Base08, &p.Base09, &p.Base0A, &p.Base0B,
		&p.Base0C, &p.Base0D, &p.Base0E, &p.Base0F,
	}
	for i, slot := range slots {
		*slot = HexColor(fmt.Sprintf("#%02x%02x%02x", i*16, i*8, i*4))
	}
	return p
}

func testScheme(name string) *Scheme {
	return &Scheme{Name: name, Palette: testPalette()}
}

// testSchemeTOML renders a scheme file with base00 set to the given value and
// the remaining slots filled with valid colors.
func testSchemeTOML(name, base00 string) string {
	header := ""
	if name != "" {
		header = fmt.Sprintf("name = %q\n", name)
	}
	body := header + "\n[palette]\n" + fmt.Sprintf("base00 = %q\n", base00)
	for i, slot := range SlotNames {
		if slot == "base00" {
			continue
		}
		body += fmt.Sprintf("%s = \"#%02x%02x%02x\"\n", slot, 0x20+i, 0x30+i, 0x40+i)
	}
	return body
}
