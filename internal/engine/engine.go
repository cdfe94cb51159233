// Package engine orchestrates applying a scheme across render targets:
// render, write-if-changed, reload, journal, state.
package engine

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmylchreest/aether/internal/journal"
	"github.com/jmylchreest/aether/internal/render"
	"github.com/jmylchreest/aether/internal/scheme"
	"github.com/jmylchreest/aether/internal/state"
	"github.com/jmylchreest/aether/internal/target"
)

// DefaultReloadTimeout bounds each target's reload command.
const DefaultReloadTimeout = 5 * time.Second

// Engine applies schemes to targets.
type Engine struct {
	logger        *slog.Logger
	renderer      *render.Renderer
	registry      *target.Registry
	journal       journal.Journal // nil disables journaling
	reloadTimeout time.Duration
}

// New creates an engine. The journal may be nil.
func New(renderer *render.Renderer, registry *target.Registry, jnl journal.Journal, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		logger:        logger,
		renderer:      renderer,
		registry:      registry,
		journal:       jnl,
		reloadTimeout: DefaultReloadTimeout,
	}
}

// SetReloadTimeout changes the per-command reload timeout.
func (e *Engine) SetReloadTimeout(d time.Duration) {
	if d > 0 {
		e.reloadTimeout = d
	}
}

// Registry returns the engine's target registry.
func (e *Engine) Registry() *target.Registry {
	return e.registry
}

// ApplyOptions control a single apply run.
type ApplyOptions struct {
	Trigger  journal.Trigger
	DryRun   bool     // render and report without writing or reloading
	NoReload bool     // write fragments but skip reload commands
	Targets  []string // explicit subset; empty = all enabled targets
}

// Result is the runtime per-target outcome of an apply.
type Result struct {
	Target  string
	Outcome journal.Outcome
	Output  string // destination path
	Err     error
}

// Apply renders the scheme for every selected target in priority order,
// writes fragments that changed, runs reload commands, and records the run.
// Per-target failures are collected in the results, not returned as an
// error; the returned event's Failed method reports them.
func (e *Engine) Apply(ctx context.Context, s *scheme.Scheme, opts ApplyOptions) (*journal.ApplyEvent, []Result, error) {
	if s == nil {
		return nil, nil, fmt.Errorf("no scheme to apply")
	}
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}

	targets, err := e.selectTargets(opts.Targets)
	if err != nil {
		return nil, nil, err
	}
	if len(targets) == 0 {
		return nil, nil, fmt.Errorf("no targets to apply")
	}

	if opts.Trigger == "" {
		opts.Trigger = journal.TriggerCLI
	}

	e.logger.Info("applying scheme",
		"scheme", s.Name,
		"targets", len(targets),
		"dry_run", opts.DryRun)

	results := make([]Result, 0, len(targets))
	for _, t := range targets {
		results = append(results, e.applyTarget(ctx, s, t, opts))
	}

	event, err := journal.NewApplyEvent(s.Name, s.Variant, opts.Trigger)
	if err != nil {
		return nil, results, err
	}
	event.DryRun = opts.DryRun
	event.Source = schemeSource(s)
	for _, r := range results {
		rec := journal.TargetRecord{
			Target:  r.Target,
			Outcome: r.Outcome,
			Output:  r.Output,
		}
		if r.Err != nil {
			rec.Error = r.Err.Error()
		}
		event.Targets = append(event.Targets, rec)
	}

	if e.journal != nil {
		if err := e.journal.Append(*event); err != nil {
			e.logger.Warn("failed to journal apply", "error", err)
		}
	}

	if !opts.DryRun {
		applied := &state.Applied{
			SchemeName:   s.Name,
			SchemeSource: event.Source,
			Variant:      s.Variant,
			AppliedAt:    event.Timestamp,
			LastEventID:  event.ID,
		}
		if err := state.Save(applied); err != nil {
			e.logger.Warn("failed to save state", "error", err)
		}
	}

	return event, results, nil
}

// selectTargets resolves the target list for a run. Explicit names select
// from all registered targets, overriding the enabled flag; otherwise all
// enabled targets apply. Order is always registry priority order.
func (e *Engine) selectTargets(names []string) ([]*target.Target, error) {
	if len(names) == 0 {
		return e.registry.Enabled(), nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := e.registry.Get(name); !ok {
			return nil, fmt.Errorf("%w: %s (known: %s)",
				target.ErrTargetNotFound, name, strings.Join(e.registry.Names(), ", "))
		}
		wanted[name] = true
	}

	var selected []*target.Target
	for _, t := range e.registry.Ordered() {
		if wanted[t.Name] {
			selected = append(selected, t)
		}
	}
	return selected, nil
}

// applyTarget renders one target and writes/reloads as needed.
func (e *Engine) applyTarget(ctx context.Context, s *scheme.Scheme, t *target.Target, opts ApplyOptions) Result {
	res := Result{Target: t.Name}

	rendered, err := e.renderer.Render(s, t)
	if err != nil {
		res.Outcome = journal.OutcomeFailed
		res.Err = err
		e.logger.Warn("render failed", "target", t.Name, "error", err)
		return res
	}

	if t.Output == "" {
		res.Outcome = journal.OutcomeFailed
		res.Err = fmt.Errorf("target %s has no output path", t.Name)
		return res
	}

	dest, err := ExpandPath(t.Output)
	if err != nil {
		res.Outcome = journal.OutcomeFailed
		res.Err = fmt.Errorf("expand output path %s: %w", t.Output, err)
		return res
	}
	res.Output = dest

	changed := contentChanged(dest, rendered)
	if !changed {
		res.Outcome = journal.OutcomeUnchanged
		e.logger.Debug("fragment unchanged", "target", t.Name, "path", dest)
		return res
	}

	if opts.DryRun {
		res.Outcome = journal.OutcomeWritten
		return res
	}

	if err := writeAtomic(dest, rendered); err != nil {
		res.Outcome = journal.OutcomeFailed
		res.Err = err
		e.logger.Warn("write failed", "target", t.Name, "path", dest, "error", err)
		return res
	}
	res.Outcome = journal.OutcomeWritten
	e.logger.Info("wrote fragment", "target", t.Name, "path", dest)

	if opts.NoReload || len(t.ReloadCmd) == 0 {
		return res
	}

	if err := e.runReload(ctx, t); err != nil {
		// The fragment is in place; a failed reload is a warning, not
		// an apply failure
		res.Outcome = journal.OutcomeReloadFailed
		res.Err = err
		e.logger.Warn("reload failed", "target", t.Name, "cmd", t.ReloadCmd, "error", err)
	}
	return res
}

// runReload executes the target's reload command with a timeout.
func (e *Engine) runReload(ctx context.Context, t *target.Target) error {
	cmdCtx, cancel := context.WithTimeout(ctx, e.reloadTimeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, t.ReloadCmd[0], t.ReloadCmd[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if len(out) > 0 {
			return fmt.Errorf("%s: %w: %s", t.ReloadCmd[0], err, strings.TrimSpace(string(out)))
		}
		return fmt.Errorf("%s: %w", t.ReloadCmd[0], err)
	}

	e.logger.Debug("reload command succeeded", "target", t.Name, "cmd", t.ReloadCmd)
	return nil
}

// contentChanged reports whether the rendered content differs from what is
// on disk. Unreadable or missing files count as changed.
func contentChanged(path string, content []byte) bool {
	existing, err := os.ReadFile(path)
	if err != nil {
		return true
	}
	if len(existing) != len(content) {
		return true
	}
	return sha256.Sum256(existing) != sha256.Sum256(content)
}

// writeAtomic writes a fragment via temp file + rename.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// ExpandPath expands a leading ~ to the user's home directory and
// environment variables anywhere in the path.
func ExpandPath(path string) (string, error) {
	path = os.ExpandEnv(path)

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// schemeSource describes where the scheme came from for journaling.
func schemeSource(s *scheme.Scheme) string {
	if s.IsBundled || s.Path == "" {
		return state.SourceBundled
	}
	return s.Path
}

// Reapply re-renders the named scheme through a loader, used by the daemon
// and D-Bus reapply calls.
func (e *Engine) Reapply(ctx context.Context, loader *scheme.Loader, opts ApplyOptions) (*journal.ApplyEvent, []Result, error) {
	s, err := loader.Reload()
	if err != nil {
		return nil, nil, err
	}
	return e.Apply(ctx, s, opts)
}

// Summarize renders a one-line human description of apply results.
func Summarize(results []Result) string {
	var written, unchanged, failed int
	for _, r := range results {
		switch r.Outcome {
		case journal.OutcomeWritten:
			written++
		case journal.OutcomeUnchanged:
			unchanged++
		case journal.OutcomeFailed, journal.OutcomeReloadFailed:
			failed++
		}
	}

	parts := make([]string, 0, 3)
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
		return "nothing to do"
	}
	return strings.Join(parts, ", ")
}
