package preview

import (
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/aether/internal/scheme"
)

func TestRender_ListsEverySlot(t *testing.T) {
	out, err := Render(testScheme(t))
	require.NoError(t, err)

	for _, name := range scheme.SlotNames {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "default background")
	assert.Contains(t, out, "keywords, changes")
}

func TestRender_AllBundledSchemes(t *testing.T) {
	for _, name := range scheme.ListEmbeddedSchemes() {
		t.Run(name, func(t *testing.T) {
			s, ok := scheme.GetEmbeddedScheme(name)
			require.True(t, ok)

			out, err := Render(s)
			require.NoError(t, err)
			assert.Contains(t, out, s.Name)
		})
	}
}

func TestSwatches_ShowsHexValues(t *testing.T) {
	s := testScheme(t)
	out := Swatches(s)

	for _, slot := range s.Palette.Slots() {
		assert.Contains(t, out, string(slot.Color))
	}
	assert.Equal(t, scheme.SlotCount, strings.Count(out, "\n"))
}

func TestStyle_FollowsSlotAssignments(t *testing.T) {
	s := testScheme(t)

	style, err := Style(s)
	require.NoError(t, err)

	keyword := style.Get(chroma.Keyword)
	assert.Equal(t, strings.ToLower(string(s.Palette.Base0E)), keyword.Colour.String())

	str := style.Get(chroma.LiteralString)
	assert.Equal(t, strings.ToLower(string(s.Palette.Base0B)), str.Colour.String())

	comment := style.Get(chroma.Comment)
	assert.True(t, comment.Italic == chroma.Yes)

	bg := style.Get(chroma.Background)
	assert.Equal(t, strings.ToLower(string(s.Palette.Base00)), bg.Background.String())
}

func TestCodeSample_HighlightsSnippet(t *testing.T) {
	out, err := CodeSample(testScheme(t))
	require.NoError(t, err)

	assert.Contains(t, out, "func")
	assert.Contains(t, out, "Greet")
	// Truecolor escapes are present
	assert.Contains(t, out, "\x1b[")
}

func testScheme(t *testing.T) *scheme.Scheme {
	t.Helper()
	s, ok := scheme.GetEmbeddedScheme(scheme.DefaultSchemeName)
	require.True(t, ok)
	return s
}
