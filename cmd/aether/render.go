package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/aether/internal/engine"
	"github.com/jmylchreest/aether/internal/target"
)

var renderOpts struct {
	target string
	output string
}

var renderCmd = &cobra.Command{
	Use:   "render <scheme>",
	Short: "Render a scheme's fragment for one target",
	Long: `Render a scheme through a target's template and print the fragment.

This is the same rendering apply performs, without writing to the
target's output path or reloading anything. Useful for inspecting
templates and piping fragments elsewhere.

Examples:
  aether render gruvbox-dark
  aether render gruvbox-dark --target kitty
  aether render nord --target nvim -o /tmp/aether.lua`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderOpts.target, "target", "t", target.EditorTarget,
		"Target whose template to render")
	renderCmd.Flags().StringVarP(&renderOpts.output, "output", "o", "",
		"Write the fragment to a file instead of stdout")
}

func runRender(cmd *cobra.Command, args []string) error {
	registry, err := buildRegistry()
	if err != nil {
		return err
	}
	tgt, ok := registry.Get(renderOpts.target)
	if !ok {
		return fmt.Errorf("unknown target %q", renderOpts.target)
	}
	renderer := buildRenderer()

	s, err := loadSchemeWithSuggestion(args[0])
	if err != nil {
		return err
	}

	rendered, err := renderer.Render(s, tgt)
	if err != nil {
		return fmt.Errorf("failed to render %s for %s: %w", s.Name, tgt.Name, err)
	}

	if renderOpts.output == "" {
		_, err := os.Stdout.Write(rendered)
		return err
	}

	path, err := engine.ExpandPath(renderOpts.output)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, rendered, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Printf("Rendered %s for %s -> %s\n", s.Name, tgt.Name, path)
	return nil
}
