package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/aether/internal/core"
	"github.com/jmylchreest/aether/internal/journal"
)

var pruneOpts struct {
	olderThan string
	keep      int
	all       bool
	dryRun    bool
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old apply events from the journal",
	Long: `Remove old apply events from the journal.

Without flags the configured retention applies (journal.retention and
journal.keep in the config file). Durations accept day and week
suffixes (30d, 4w) alongside the usual time units.

Examples:
  aether prune
  aether prune --older-than 30d
  aether prune --keep 100
  aether prune --all
  aether prune --older-than 7d --dry-run`,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().StringVar(&pruneOpts.olderThan, "older-than", "",
		"Remove events older than this (default: configured retention)")
	pruneCmd.Flags().IntVar(&pruneOpts.keep, "keep", 0,
		"Keep at most this many newest events (default: configured keep)")
	pruneCmd.Flags().BoolVar(&pruneOpts.all, "all", false,
		"Remove every event")
	pruneCmd.Flags().BoolVar(&pruneOpts.dryRun, "dry-run", false,
		"Report what would be removed without removing it")
}

func runPrune(cmd *cobra.Command, args []string) error {
	jnl, err := openJournal()
	if err != nil {
		return err
	}

	if pruneOpts.all {
		return pruneAll(jnl)
	}

	olderThan := pruneOpts.olderThan
	if olderThan == "" {
		olderThan = cfg.Journal.Retention
	}
	age, err := core.ParseDuration(olderThan)
	if err != nil {
		return fmt.Errorf("invalid --older-than: %w", err)
	}

	keep := pruneOpts.keep
	if !cmd.Flags().Changed("keep") {
		keep = cfg.Journal.Keep
	}

	result, err := journal.Prune(jnl, journal.PruneOptions{
		OlderThan: age,
		Keep:      keep,
		DryRun:    pruneOpts.dryRun,
	}, time.Now())
	if err != nil {
		return err
	}

	reportPrune(result.Removed, result.Kept)
	return nil
}

func pruneAll(jnl journal.Journal) error {
	events, err := jnl.Load()
	if err != nil {
		return fmt.Errorf("failed to load journal: %w", err)
	}
	if pruneOpts.dryRun {
		reportPrune(len(events), 0)
		return nil
	}
	if err := jnl.Clear(); err != nil {
		return fmt.Errorf("failed to clear journal: %w", err)
	}
	reportPrune(len(events), 0)
	return nil
}

func reportPrune(removed, kept int) {
	if removed == 0 {
		fmt.Println("Nothing to prune")
		return
	}
	verb := "Removed"
	if pruneOpts.dryRun {
		verb = "Would remove"
	}
	fmt.Printf("%s %d events (%d kept)\n", verb, removed, kept)
}
