package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/aether/internal/scheme"
)

func testInfos() []scheme.Info {
	return []scheme.Info{
		{
			Name:      "aether",
			Variant:   "dark",
			Author:    "aether authors",
			IsBundled: true,
		},
		{
			Name:    "solarized-light",
			Variant: "light",
			Path:    "/home/u/.config/aether/schemes/solarized-light.toml",
		},
	}
}

func TestPlainFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	formatter := NewPlainFormatter(DefaultFormatterOptions())
	err := formatter.Format(&buf, testInfos())
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "[1] aether (dark) [bundled]")
	assert.Contains(t, output, "[2] solarized-light (light) [user]")
}

func TestPlainFormatter_MarksCurrent(t *testing.T) {
	var buf bytes.Buffer

	opts := DefaultFormatterOptions()
	opts.Current = "aether"
	formatter := NewPlainFormatter(opts)
	require.NoError(t, formatter.Format(&buf, testInfos()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.True(t, strings.HasSuffix(lines[0], " *"))
	assert.False(t, strings.HasSuffix(lines[1], " *"))
}

func TestPlainFormatter_ShowAuthor(t *testing.T) {
	var buf bytes.Buffer

	opts := DefaultFormatterOptions()
	opts.ShowAuthor = true
	formatter := NewPlainFormatter(opts)
	require.NoError(t, formatter.Format(&buf, testInfos()))

	assert.Contains(t, buf.String(), "by aether authors")
}

func TestPlainFormatter_CustomTemplate(t *testing.T) {
	var buf bytes.Buffer

	opts := DefaultFormatterOptions()
	opts.Template = "{{.Index}}: {{.Scheme.Name}}{{if .Current}} (active){{end}}"
	opts.Current = "aether"
	formatter := NewPlainFormatter(opts)
	require.NoError(t, formatter.Format(&buf, testInfos()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "1: aether (active)", lines[0])
	assert.Equal(t, "2: solarized-light", lines[1])
}

func TestDmenuFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	formatter := NewDmenuFormatter(DefaultFormatterOptions())
	err := formatter.Format(&buf, testInfos())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1 | aether | dark | bundled", lines[0])
	assert.Equal(t, "2 | solarized-light | light | user", lines[1])
}

func TestDmenuFormatter_NoIndex(t *testing.T) {
	var buf bytes.Buffer

	opts := DefaultFormatterOptions()
	opts.ShowIndex = false
	formatter := NewDmenuFormatter(opts)
	require.NoError(t, formatter.Format(&buf, testInfos()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "aether"))
}

func TestDmenuFormatter_CustomSeparator(t *testing.T) {
	var buf bytes.Buffer

	opts := DefaultFormatterOptions()
	opts.Separator = "\t"
	formatter := NewDmenuFormatter(opts)
	require.NoError(t, formatter.Format(&buf, testInfos()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "1\taether\tdark\tbundled", lines[0])
}

func TestDmenuFormatter_CustomTemplate(t *testing.T) {
	var buf bytes.Buffer

	opts := DefaultFormatterOptions()
	opts.Template = "{{.Scheme.Name}} [{{variant .Scheme.Variant}}]"
	formatter := NewDmenuFormatter(opts)
	require.NoError(t, formatter.Format(&buf, testInfos()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "aether [dark]", lines[0])
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	formatter := NewJSONFormatter(DefaultFormatterOptions())
	err := formatter.Format(&buf, testInfos())
	require.NoError(t, err)

	var result []scheme.Info
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	require.Len(t, result, 2)
	assert.Equal(t, "aether", result[0].Name)
	assert.True(t, result[0].IsBundled)
	assert.Equal(t, "solarized-light", result[1].Name)
}

func TestJSONFormatter_FormatScheme(t *testing.T) {
	s, ok := scheme.GetEmbeddedScheme(scheme.DefaultSchemeName)
	require.True(t, ok)

	var buf bytes.Buffer
	formatter := NewJSONFormatter(DefaultFormatterOptions())
	require.NoError(t, formatter.FormatScheme(&buf, s))

	var result scheme.Scheme
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, s.Name, result.Name)
	assert.Equal(t, s.Palette.Base00, result.Palette.Base00)
}

func TestNamesFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	formatter := NewNamesFormatter()
	require.NoError(t, formatter.Format(&buf, testInfos()))

	assert.Equal(t, "aether\nsolarized-light\n", buf.String())
}

func TestNewFormatter(t *testing.T) {
	opts := DefaultFormatterOptions()

	t.Run("plain", func(t *testing.T) {
		f := NewFormatter(FormatPlain, opts)
		_, ok := f.(*PlainFormatter)
		assert.True(t, ok)
	})

	t.Run("json", func(t *testing.T) {
		f := NewFormatter(FormatJSON, opts)
		_, ok := f.(*JSONFormatter)
		assert.True(t, ok)
	})

	t.Run("dmenu", func(t *testing.T) {
		f := NewFormatter(FormatDmenu, opts)
		_, ok := f.(*DmenuFormatter)
		assert.True(t, ok)
	})

	t.Run("names", func(t *testing.T) {
		f := NewFormatter(FormatNames, opts)
		_, ok := f.(*NamesFormatter)
		assert.True(t, ok)
	})

	t.Run("default", func(t *testing.T) {
		f := NewFormatter("unknown", opts)
		_, ok := f.(*PlainFormatter)
		assert.True(t, ok) // defaults to plain
	})
}

func TestVariantLabel(t *testing.T) {
	tests := []struct {
		variant  string
		expected string
	}{
		{"dark", "dark"},
		{"light", "light"},
		{"", "-"},
		{"sepia", "-"},
	}

	for _, tt := range tests {
		t.Run("variant "+tt.variant, func(t *testing.T) {
			assert.Equal(t, tt.expected, variantLabel(tt.variant))
		})
	}
}
