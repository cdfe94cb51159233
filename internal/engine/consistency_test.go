package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/aether/internal/render"
	"github.com/jmylchreest/aether/internal/target"
)

func TestCheckConsistency_RenderedEditorFragment(t *testing.T) {
	r := render.NewRenderer(nil)
	r.SetTemplatesDir(t.TempDir())

	var editor *target.Target
	for _, tgt := range target.Builtins() {
		if tgt.Name == target.EditorTarget {
			editor = tgt
		}
	}
	require.NotNil(t, editor)

	rendered, err := r.Render(testBundledScheme(t), editor)
	require.NoError(t, err)

	assert.NoError(t, CheckConsistency(rendered))
}

func TestCheckConsistency_Mismatch(t *testing.T) {
	fragment := []byte(`
return {
  {
    "jmylchreest/aether.nvim",
    name = "aether",
    config = function(_, opts)
      vim.cmd("colorscheme gruvbox")
    end,
  },
  {
    "LazyVim/LazyVim",
    opts = {
      colorscheme = "aether",
    },
  },
}
`)
	err := CheckConsistency(fragment)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gruvbox")
	assert.Contains(t, err.Error(), "aether")
}

func TestCheckConsistency_FrameworkOptionMismatch(t *testing.T) {
	fragment := []byte(`
return {
  {
    "jmylchreest/aether.nvim",
    name = "aether",
    config = function(_, opts)
      vim.cmd("colorscheme aether")
    end,
  },
  {
    "LazyVim/LazyVim",
    opts = {
      colorscheme = "tokyonight",
    },
  },
}
`)
	err := CheckConsistency(fragment)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tokyonight")
}

func TestCheckConsistency_MissingDeclarations(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
	}{
		{"empty", ""},
		{"no colorscheme command", `name = "aether"`},
		{"no framework option", `name = "aether"
vim.cmd("colorscheme aether")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckConsistency([]byte(tt.fragment))
			assert.ErrorContains(t, err, "declares no")
		})
	}
}
