package render

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/aether/internal/scheme"
	"github.com/jmylchreest/aether/internal/target"
)

func TestRender_Nvim_WireFormat(t *testing.T) {
	r := newTestRenderer(t)
	s := bundledScheme(t, scheme.DefaultSchemeName)
	nvim := nvimTarget()

	out, err := r.Render(s, nvim)
	require.NoError(t, err)
	lua := string(out)

	// First entry: plugin identifier, priority, options
	assert.Contains(t, lua, `name = "aether"`)
	assert.Contains(t, lua, "priority = 1000")
	assert.Contains(t, lua, "disable_italics = false")

	// All 16 slots present as quoted hex values
	for _, slot := range s.Palette.Slots() {
		assert.Contains(t, lua, fmt.Sprintf("%s = %q", slot.Name, slot.Color))
	}

	// Config callback applies the table then activates the colorscheme
	assert.Contains(t, lua, `require("aether").setup(opts)`)
	assert.Contains(t, lua, `vim.cmd("colorscheme aether")`)

	// Second entry mirrors the plugin name
	assert.Contains(t, lua, `colorscheme = "aether"`)
}

func TestRender_Nvim_DisableItalics(t *testing.T) {
	r := newTestRenderer(t)
	s := bundledScheme(t, scheme.DefaultSchemeName)

	nvim := nvimTarget()
	nvim.Options[target.OptionDisableItalics] = true

	out, err := r.Render(s, nvim)
	require.NoError(t, err)
	assert.Contains(t, string(out), "disable_italics = true")
}

func TestRender_Nvim_HeaderNamesScheme(t *testing.T) {
	r := newTestRenderer(t)
	s := bundledScheme(t, "gruvbox-dark")

	out, err := r.Render(s, nvimTarget())
	require.NoError(t, err)
	assert.Contains(t, string(out), "-- scheme: gruvbox-dark (dark)")
}

func TestRender_Deterministic(t *testing.T) {
	r := newTestRenderer(t)
	s := bundledScheme(t, scheme.DefaultSchemeName)

	for _, name := range ListEmbeddedTemplates() {
		t.Run(name, func(t *testing.T) {
			tgt := &target.Target{Name: name, Priority: 100, Enabled: true}

			first, err := r.Render(s, tgt)
			require.NoError(t, err)
			second, err := r.Render(s, tgt)
			require.NoError(t, err)

			assert.Equal(t, first, second, "rendering must be byte-identical across runs")
		})
	}
}

func TestRender_AllTemplatesForAllBundledSchemes(t *testing.T) {
	r := newTestRenderer(t)

	for _, schemeName := range scheme.BundledSchemes {
		s := bundledScheme(t, schemeName)
		for _, tmplName := range ListEmbeddedTemplates() {
			t.Run(schemeName+"/"+tmplName, func(t *testing.T) {
				out, err := r.Render(s, &target.Target{Name: tmplName, Priority: 1})
				require.NoError(t, err)
				assert.NotEmpty(t, out)
			})
		}
	}
}

func TestRender_Kitty_AnsiColors(t *testing.T) {
	r := newTestRenderer(t)
	s := bundledScheme(t, "catppuccin-mocha")

	out, err := r.Render(s, &target.Target{Name: "kitty", Priority: 500})
	require.NoError(t, err)
	conf := string(out)

	for i := 0; i <= 15; i++ {
		assert.Contains(t, conf, fmt.Sprintf("color%d ", i))
	}
	assert.Contains(t, conf, "foreground "+string(s.Palette.Base05))
	assert.Contains(t, conf, "background "+string(s.Palette.Base00))
}

func TestRender_Waybar_DefinesAllSlots(t *testing.T) {
	r := newTestRenderer(t)
	s := bundledScheme(t, scheme.DefaultSchemeName)

	out, err := r.Render(s, &target.Target{Name: "waybar", Priority: 200})
	require.NoError(t, err)
	css := string(out)

	for _, slot := range s.Palette.Slots() {
		assert.Contains(t, css, fmt.Sprintf("@define-color %s %s;", slot.Name, slot.Color))
	}
	assert.Contains(t, css, "@define-color background @base00;")
}

func TestRender_Hyprland_BareHex(t *testing.T) {
	r := newTestRenderer(t)
	s := bundledScheme(t, scheme.DefaultSchemeName)

	out, err := r.Render(s, &target.Target{Name: "hyprland", Priority: 300})
	require.NoError(t, err)
	conf := string(out)

	assert.Contains(t, conf, "$base00 = rgb("+s.Palette.Base00.Strip()+")")
	assert.NotContains(t, conf, "rgb(#", "hyprland colors must not carry the # prefix")
}

func TestRender_UserTemplateOverride(t *testing.T) {
	tmpDir := t.TempDir()
	custom := `{{ .Scheme.Name }}:{{ .Scheme.Palette.Base00 }}`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "kitty.tmpl"), []byte(custom), 0644))

	r := NewRenderer(nil)
	r.SetTemplatesDir(tmpDir)

	s := bundledScheme(t, scheme.DefaultSchemeName)
	out, err := r.Render(s, &target.Target{Name: "kitty", Priority: 1})
	require.NoError(t, err)
	assert.Equal(t, "aether:"+string(s.Palette.Base00), string(out))
}

func TestRender_TemplateNameIndirection(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "special.tmpl"), []byte("ok"), 0644))

	r := NewRenderer(nil)
	r.SetTemplatesDir(tmpDir)

	s := bundledScheme(t, scheme.DefaultSchemeName)
	tgt := &target.Target{Name: "custom", Template: "special", Priority: 1}

	out, err := r.Render(s, tgt)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(out))
}

func TestRender_UnknownTemplate(t *testing.T) {
	r := newTestRenderer(t)
	s := bundledScheme(t, scheme.DefaultSchemeName)

	_, err := r.Render(s, &target.Target{Name: "nosuch", Priority: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nosuch")
}

func TestListEmbeddedTemplates_CoversBuiltinTargets(t *testing.T) {
	names := ListEmbeddedTemplates()

	for _, tgt := range target.Builtins() {
		assert.Contains(t, names, tgt.TemplateName(),
			"builtin target %s needs an embedded template", tgt.Name)
	}
}

func TestNewData_DisableItalicsFromOptions(t *testing.T) {
	s := bundledScheme(t, scheme.DefaultSchemeName)

	d := NewData(s, &target.Target{
		Name:    "nvim",
		Options: map[string]any{target.OptionDisableItalics: true},
	})
	assert.True(t, d.Target.DisableItalics)

	d = NewData(s, &target.Target{Name: "nvim"})
	assert.False(t, d.Target.DisableItalics)

	require.Len(t, d.Scheme.Slots, scheme.SlotCount)
	assert.Equal(t, "base00", d.Scheme.Slots[0].Name)
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r := NewRenderer(nil)
	// Point at an empty dir so developer machines with user overrides
	// don't leak into the tests
	r.SetTemplatesDir(t.TempDir())
	return r
}

func bundledScheme(t *testing.T, name string) *scheme.Scheme {
	t.Helper()
	s, found := scheme.GetEmbeddedScheme(name)
	require.True(t, found, "bundled scheme %s should exist", name)
	return s
}

func nvimTarget() *target.Target {
	for _, tgt := range target.Builtins() {
		if tgt.Name == target.EditorTarget {
			return tgt
		}
	}
	return nil
}
