package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/aether/internal/preview"
	"github.com/jmylchreest/aether/internal/scheme"
)

var previewOpts struct {
	swatches bool
	code     bool
}

var previewCmd = &cobra.Command{
	Use:   "preview [scheme]",
	Short: "Preview a scheme in the terminal",
	Long: `Preview a scheme in the terminal: palette swatches plus a syntax
highlighted code sample rendered in the scheme's colors.

With no argument the currently applied scheme is previewed, falling
back to the default scheme when nothing is applied.

Examples:
  aether preview
  aether preview gruvbox-dark
  aether preview nord --swatches
  aether preview nord --code`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().BoolVar(&previewOpts.swatches, "swatches", false,
		"Only print the palette swatches")
	previewCmd.Flags().BoolVar(&previewOpts.code, "code", false,
		"Only print the highlighted code sample")
}

func runPreview(cmd *cobra.Command, args []string) error {
	var s *scheme.Scheme
	var err error
	if len(args) > 0 {
		s, err = loadSchemeWithSuggestion(args[0])
	} else {
		name := appliedSchemeName()
		if name == "" {
			name = scheme.DefaultSchemeName
		}
		s, err = getLoader().LoadScheme(name)
	}
	if err != nil {
		return err
	}

	if previewOpts.swatches {
		fmt.Print(preview.Swatches(s))
		return nil
	}
	if previewOpts.code {
		sample, err := preview.CodeSample(s)
		if err != nil {
			return fmt.Errorf("failed to highlight sample: %w", err)
		}
		fmt.Println(sample)
		return nil
	}

	out, err := preview.Render(s)
	if err != nil {
		return fmt.Errorf("failed to render preview: %w", err)
	}
	fmt.Println(out)
	return nil
}
