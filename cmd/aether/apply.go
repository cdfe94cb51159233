package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/aether/internal/core"
	"github.com/jmylchreest/aether/internal/engine"
	"github.com/jmylchreest/aether/internal/journal"
	"github.com/jmylchreest/aether/internal/scheme"
	"github.com/jmylchreest/aether/internal/state"
)

// applyRunTimeout bounds a full apply including per-target reload commands.
const applyRunTimeout = 60 * time.Second

var applyOpts struct {
	stdin    bool
	dryRun   bool
	noReload bool
	targets  []string
	quiet    bool
}

var applyCmd = &cobra.Command{
	Use:   "apply [scheme]",
	Short: "Apply a colorscheme to all enabled targets",
	Long: `Render the scheme for every enabled target, write the fragments that
changed, and run each target's reload command.

Without an argument, re-applies the currently applied scheme.

Examples:
  # Apply a bundled or user scheme
  aether apply gruvbox-dark

  # Re-apply the current scheme (after editing templates or config)
  aether apply

  # Preview what would change without touching any file
  aether apply nord --dry-run

  # Write fragments but skip reload commands
  aether apply nord --no-reload

  # Only apply to specific targets
  aether apply nord --target kitty --target waybar

  # Apply a picker selection
  aether list --format names | fuzzel -d | aether apply --stdin`,
	Args: cobra.MaximumNArgs(1),
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().BoolVar(&applyOpts.stdin, "stdin", false,
		"Read the scheme name from stdin")
	applyCmd.Flags().BoolVar(&applyOpts.dryRun, "dry-run", false,
		"Render and report without writing files or reloading")
	applyCmd.Flags().BoolVar(&applyOpts.noReload, "no-reload", false,
		"Write fragments but skip reload commands")
	applyCmd.Flags().StringArrayVarP(&applyOpts.targets, "target", "t", nil,
		"Apply only to the named target (repeatable)")
	applyCmd.Flags().BoolVarP(&applyOpts.quiet, "quiet", "q", false,
		"Only print the summary line")
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), applyRunTimeout)
	defer cancel()

	eng, err := buildEngine()
	if err != nil {
		return err
	}

	opts := engine.ApplyOptions{
		Trigger:  journal.TriggerCLI,
		DryRun:   applyOpts.dryRun,
		NoReload: applyOpts.noReload,
		Targets:  applyOpts.targets,
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	if applyOpts.stdin {
		if name != "" {
			return fmt.Errorf("cannot combine --stdin with a scheme argument")
		}
		var err error
		name, err = readSchemeNameFromStdin()
		if err != nil {
			return err
		}
	}

	var event *journal.ApplyEvent
	var results []engine.Result

	if name != "" {
		s, err := loadSchemeWithSuggestion(name)
		if err != nil {
			return err
		}
		event, results, err = eng.Apply(ctx, s, opts)
		if err != nil {
			return err
		}
	} else {
		// No argument: re-apply whatever is current
		if name := appliedSchemeName(); name != "" {
			if _, err := getLoader().LoadScheme(name); err != nil {
				return err
			}
		}
		event, results, err = eng.Reapply(ctx, getLoader(), opts)
		if err != nil {
			return err
		}
	}

	return reportApply(event, results)
}

// readSchemeNameFromStdin reads the first non-empty line from stdin, for
// piping a picker selection into apply.
func readSchemeNameFromStdin() (string, error) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			return name, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read from stdin: %w", err)
	}
	return "", fmt.Errorf("no scheme name on stdin")
}

// loadSchemeWithSuggestion loads a scheme, attaching a "did you mean" hint
// to unknown-name errors.
func loadSchemeWithSuggestion(name string) (*scheme.Scheme, error) {
	s, err := getLoader().LoadScheme(name)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, scheme.ErrSchemeNotFound) {
		return nil, err
	}

	infos := getLoader().ListSchemes()
	candidates := make([]string, 0, len(infos))
	for _, info := range infos {
		candidates = append(candidates, info.Name)
	}
	if suggestion := core.Suggest(name, candidates); suggestion != "" {
		return nil, fmt.Errorf("%w (did you mean %q?)", err, suggestion)
	}
	return nil, err
}

// reportApply prints per-target outcomes and the summary line.
func reportApply(event *journal.ApplyEvent, results []engine.Result) error {
	succeeded := 0
	for _, r := range results {
		switch r.Outcome {
		case journal.OutcomeWritten, journal.OutcomeUnchanged:
			succeeded++
		case journal.OutcomeReloadFailed:
			// The fragment is in place even though the reload failed
			succeeded++
		}

		if applyOpts.quiet {
			continue
		}
		switch r.Outcome {
		case journal.OutcomeWritten:
			fmt.Printf("  %s: written -> %s\n", r.Target, r.Output)
		case journal.OutcomeUnchanged:
			fmt.Printf("  %s: unchanged\n", r.Target)
		case journal.OutcomeReloadFailed:
			fmt.Printf("  %s: written -> %s (reload failed: %v)\n", r.Target, r.Output, r.Err)
		case journal.OutcomeFailed:
			fmt.Printf("  %s: failed: %v\n", r.Target, r.Err)
		}
	}

	verb := "Applied"
	if event.DryRun {
		verb = "Would apply"
	}
	label := event.SchemeName
	if event.Variant != "" {
		label += " (" + event.Variant + ")"
	}
	fmt.Printf("%s %s: %s\n", verb, label, engine.Summarize(results))

	if succeeded == 0 {
		return fmt.Errorf("all targets failed")
	}
	return nil
}

// appliedSchemeName returns the scheme name on record, or "".
func appliedSchemeName() string {
	st, err := state.Load()
	if err != nil || !st.HasScheme() {
		return ""
	}
	return st.SchemeName
}
