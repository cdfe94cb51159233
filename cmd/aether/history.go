package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/aether/internal/journal"
)

var historyOpts struct {
	limit      int
	schemeName string
	failedOnly bool
	format     string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show apply history",
	Long: `Show the apply journal, newest first.

Each line is one apply event: when it happened, which scheme was
applied, what triggered it and how the targets fared.

Examples:
  aether history
  aether history -n 50
  aether history --scheme gruvbox-dark
  aether history --failed
  aether history --format json`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyOpts.limit, "limit", "n", 20,
		"Maximum number of events to show (0 = all)")
	historyCmd.Flags().StringVar(&historyOpts.schemeName, "scheme", "",
		"Only show applies of this scheme")
	historyCmd.Flags().BoolVar(&historyOpts.failedOnly, "failed", false,
		"Only show applies with failed targets")
	historyCmd.Flags().StringVarP(&historyOpts.format, "format", "f", "plain",
		"Output format (plain, json)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	jnl, err := openJournal()
	if err != nil {
		return err
	}

	events, err := jnl.Load()
	if err != nil {
		return fmt.Errorf("failed to load journal: %w", err)
	}

	// Newest first, filters applied while reversing
	filtered := make([]journal.ApplyEvent, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		if historyOpts.schemeName != "" && e.SchemeName != historyOpts.schemeName {
			continue
		}
		if historyOpts.failedOnly && !e.Failed() {
			continue
		}
		filtered = append(filtered, e)
	}
	if historyOpts.limit > 0 && len(filtered) > historyOpts.limit {
		filtered = filtered[:historyOpts.limit]
	}

	switch strings.ToLower(historyOpts.format) {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(filtered)
	case "plain":
	default:
		return fmt.Errorf("unknown format %q (plain, json)", historyOpts.format)
	}

	if len(filtered) == 0 {
		fmt.Println("No apply events")
		return nil
	}

	for _, e := range filtered {
		fmt.Println(formatEvent(&e))
	}
	return nil
}

// formatEvent renders one journal event as a single history line.
func formatEvent(e *journal.ApplyEvent) string {
	label := e.SchemeName
	if e.Variant != "" {
		label += " (" + e.Variant + ")"
	}

	line := fmt.Sprintf("%-16s %-28s %-7s %s",
		humanize.Time(e.Time()), label, e.Trigger, summarizeTargets(e.Targets))
	if e.DryRun {
		line += "  [dry-run]"
	}
	return line
}

func summarizeTargets(records []journal.TargetRecord) string {
	var written, unchanged, failed int
	for _, r := range records {
		switch r.Outcome {
		case journal.OutcomeWritten, journal.OutcomeReloadFailed:
			written++
		case journal.OutcomeUnchanged:
			unchanged++
		case journal.OutcomeFailed:
			failed++
		}
	}

	parts := []string{}
	if written > 0 {
		parts = append(parts, fmt.Sprintf("%d written", written))
	}
	if unchanged > 0 {
		parts = append(parts, fmt.Sprintf("%d unchanged", unchanged))
	}
	if failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", failed))
	}
	if len(parts) == 0 {
		return "no targets"
	}
	return strings.Join(parts, ", ")
}
