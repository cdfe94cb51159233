package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/aether/internal/state"
)

var statusOpts struct {
	format string
	quiet  bool // Suppress output, exit code only
}

// WaybarStatus represents the Waybar custom module JSON format.
type WaybarStatus struct {
	Text       string `json:"text"`
	Alt        string `json:"alt,omitempty"`
	Tooltip    string `json:"tooltip,omitempty"`
	Class      string `json:"class,omitempty"`
	Percentage int    `json:"percentage,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the applied colorscheme",
	Long: `Show which colorscheme is currently applied and when.

The waybar format emits Waybar's custom module JSON:

  "custom/colorscheme": {
    "exec": "aether status --format waybar",
    "interval": 30,
    "return-type": "json",
    "on-click": "aether tui"
  }

Exit code is 0 when a scheme is applied and 1 when none is.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVarP(&statusOpts.format, "format", "f", "text",
		"Output format (text, json, waybar)")
	statusCmd.Flags().BoolVarP(&statusOpts.quiet, "quiet", "q", false,
		"Suppress output, return exit code only")
}

func runStatus(cmd *cobra.Command, args []string) error {
	st, err := state.Load()
	if err != nil {
		logger.Warn("failed to load state", "error", err)
		st = state.Default()
	}

	if !statusOpts.quiet {
		switch strings.ToLower(statusOpts.format) {
		case "json":
			if err := outputStatusJSON(st); err != nil {
				return err
			}
		case "waybar":
			if err := outputStatusWaybar(st); err != nil {
				return err
			}
		case "text", "plain":
			outputStatusText(st)
		default:
			return fmt.Errorf("unknown format %q (text, json, waybar)", statusOpts.format)
		}
	}

	if !st.HasScheme() {
		os.Exit(1)
	}
	return nil
}

func outputStatusText(st *state.Applied) {
	if !st.HasScheme() {
		fmt.Println("No colorscheme applied")
		return
	}

	label := st.SchemeName
	if st.Variant != "" {
		label += " (" + st.Variant + ")"
	}
	fmt.Printf("Applied: %s\n", label)
	fmt.Printf("  Source: %s\n", st.SchemeSource)
	if st.AppliedAt != 0 {
		fmt.Printf("  When: %s\n", humanize.Time(st.AppliedTime()))
	}
	if st.LastEventID != "" {
		fmt.Printf("  Event: %s\n", st.LastEventID)
	}
}

func outputStatusJSON(st *state.Applied) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(st)
}

// outputStatusWaybar writes the state in Waybar's custom module format.
func outputStatusWaybar(st *state.Applied) error {
	status := WaybarStatus{
		Text:  "none",
		Alt:   "empty",
		Class: "empty",
	}

	if st.HasScheme() {
		tooltip := st.SchemeName
		if st.Variant != "" {
			tooltip += " (" + st.Variant + ")"
		}
		if st.AppliedAt != 0 {
			tooltip += "\nApplied " + humanize.Time(st.AppliedTime())
		}

		class := st.Variant
		if class == "" {
			class = "applied"
		}

		status = WaybarStatus{
			Text:    st.SchemeName,
			Alt:     class,
			Tooltip: tooltip,
			Class:   class,
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	return encoder.Encode(status)
}
