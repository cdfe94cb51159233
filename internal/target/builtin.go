package target

// OptionDisableItalics is the editor option that strips italics from the
// rendered scheme.
const OptionDisableItalics = "disable_italics"

// EditorTarget is the neovim target name. It carries the highest builtin
// priority so the colorscheme is in place before anything else reloads.
const EditorTarget = "nvim"

// Builtins returns fresh copies of the builtin targets. Output paths are
// ~-relative and expanded at render time; users typically source or include
// the fragment from their own config.
func Builtins() []*Target {
	return []*Target{
		{
			Name:     EditorTarget,
			Priority: 1000,
			Enabled:  true,
			Output:   "~/.config/nvim/lua/plugins/aether.lua",
			Options:  map[string]any{OptionDisableItalics: false},
		},
		{
			Name:      "kitty",
			Priority:  500,
			Enabled:   true,
			Output:    "~/.config/kitty/aether-colors.conf",
			ReloadCmd: []string{"pkill", "-USR1", "-x", "kitty"},
		},
		{
			Name:     "alacritty",
			Priority: 500,
			Enabled:  true,
			Output:   "~/.config/alacritty/aether.toml",
			// Alacritty live-reloads imported files, no command needed
		},
		{
			Name:      "hyprland",
			Priority:  300,
			Enabled:   true,
			Output:    "~/.config/hypr/aether.conf",
			ReloadCmd: []string{"hyprctl", "reload"},
		},
		{
			Name:      "mako",
			Priority:  200,
			Enabled:   true,
			Output:    "~/.config/mako/aether-colors",
			ReloadCmd: []string{"makoctl", "reload"},
		},
		{
			Name:      "waybar",
			Priority:  200,
			Enabled:   true,
			Output:    "~/.config/waybar/aether.css",
			ReloadCmd: []string{"pkill", "-USR2", "-x", "waybar"},
		},
	}
}
