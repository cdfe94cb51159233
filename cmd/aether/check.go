package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/aether/internal/engine"
	"github.com/jmylchreest/aether/internal/render"
	"github.com/jmylchreest/aether/internal/scheme"
	"github.com/jmylchreest/aether/internal/target"
)

var checkOpts struct {
	target string
	quiet  bool
}

var checkCmd = &cobra.Command{
	Use:   "check [scheme...]",
	Short: "Validate colorschemes",
	Long: `Validate colorschemes and their rendered output.

Each scheme is loaded, its palette validated, and its fragment rendered
twice to confirm the output is stable. Editor fragments are additionally
checked for agreement between the plugin name and the colorscheme it
activates.

Arguments are scheme names, or paths to scheme files for checking a
file before importing it. With no arguments every known scheme is
checked.

Examples:
  aether check
  aether check gruvbox-dark
  aether check ~/downloads/rose-pine.toml
  aether check --target kitty gruvbox-dark nord`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkOpts.target, "target", "t", target.EditorTarget,
		"Target whose template to render")
	checkCmd.Flags().BoolVarP(&checkOpts.quiet, "quiet", "q", false,
		"Only report failures")
}

func runCheck(cmd *cobra.Command, args []string) error {
	registry, err := buildRegistry()
	if err != nil {
		return err
	}
	tgt, ok := registry.Get(checkOpts.target)
	if !ok {
		return fmt.Errorf("unknown target %q", checkOpts.target)
	}
	renderer := buildRenderer()

	names := args
	if len(names) == 0 {
		for _, info := range getLoader().ListSchemes() {
			names = append(names, info.Name)
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("no schemes to check")
	}

	failed := 0
	for _, name := range names {
		if err := checkScheme(name, tgt, renderer); err != nil {
			failed++
			fmt.Printf("FAIL %s: %v\n", name, err)
			continue
		}
		if !checkOpts.quiet {
			fmt.Printf("OK   %s\n", name)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d schemes failed", failed, len(names))
	}
	if !checkOpts.quiet {
		fmt.Printf("Checked %d schemes\n", len(names))
	}
	return nil
}

func checkScheme(name string, tgt *target.Target, renderer *render.Renderer) error {
	s, err := resolveCheckArg(name)
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}

	first, err := renderer.Render(s, tgt)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	second, err := renderer.Render(s, tgt)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	if !bytes.Equal(first, second) {
		return fmt.Errorf("rendering is not stable")
	}

	if tgt.Name == target.EditorTarget {
		if err := engine.CheckConsistency(first); err != nil {
			return err
		}
	}
	return nil
}

// resolveCheckArg treats args that point at an existing scheme file as
// files, everything else as scheme names.
func resolveCheckArg(arg string) (*scheme.Scheme, error) {
	for _, ext := range scheme.Extensions {
		if !strings.HasSuffix(arg, ext) {
			continue
		}
		path, err := engine.ExpandPath(arg)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(path); err == nil {
			return scheme.Load(path)
		}
	}
	return getLoader().LoadScheme(arg)
}
