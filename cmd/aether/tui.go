package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/aether/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse schemes interactively",
	Long: `Browse schemes in an interactive terminal UI.

The browser lists every known scheme with a live preview. Schemes can
be filtered, previewed and applied without leaving the terminal. This
is also what plain "aether" runs.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine()
	if err != nil {
		return err
	}

	return tui.Run(tui.RunOptions{
		Loader:           getLoader(),
		Engine:           eng,
		ClipboardCommand: cfg.Clipboard.Command,
	})
}
