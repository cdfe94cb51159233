// Package journal records apply history as an append-only JSONL file.
package journal

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Trigger identifies what initiated an apply.
type Trigger string

const (
	// TriggerCLI indicates an apply started from the command line.
	TriggerCLI Trigger = "cli"
	// TriggerTUI indicates an apply started from the interactive browser.
	TriggerTUI Trigger = "tui"
	// TriggerDaemon indicates an apply started by aetherd (startup or watch).
	TriggerDaemon Trigger = "daemon"
	// TriggerDBus indicates an apply requested over the D-Bus interface.
	TriggerDBus Trigger = "dbus"
)

// Outcome is the per-target result of an apply.
type Outcome string

const (
	// OutcomeWritten means the fragment changed and was written.
	OutcomeWritten Outcome = "written"
	// OutcomeUnchanged means the rendered fragment matched what was on disk.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeFailed means rendering or writing the fragment failed.
	OutcomeFailed Outcome = "failed"
	// OutcomeReloadFailed means the fragment was written but the reload
	// command failed. The apply still counts: the file is in place.
	OutcomeReloadFailed Outcome = "reload_failed"
)

// TargetRecord is the persisted per-target outcome.
type TargetRecord struct {
	Target  string  `json:"target"`
	Outcome Outcome `json:"outcome"`
	Output  string  `json:"output,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// ApplyEvent records one scheme apply across all targets.
type ApplyEvent struct {
	ID         string         `json:"id"` // ULID, sortable by time
	SchemeName string         `json:"scheme_name"`
	Variant    string         `json:"variant,omitempty"`
	Source     string         `json:"source,omitempty"` // scheme file path or "bundled"
	Trigger    Trigger        `json:"trigger"`
	DryRun     bool           `json:"dry_run,omitempty"`
	Timestamp  int64          `json:"timestamp"`
	Targets    []TargetRecord `json:"targets,omitempty"`
}

// NewApplyEvent creates an event with a generated ULID and the current time.
func NewApplyEvent(schemeName, variant string, trigger Trigger) (*ApplyEvent, error) {
	now := time.Now()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ULID: %w", err)
	}

	return &ApplyEvent{
		ID:         id.String(),
		SchemeName: schemeName,
		Variant:    variant,
		Trigger:    trigger,
		Timestamp:  now.Unix(),
	}, nil
}

// Time returns the event timestamp as a time.Time.
func (e *ApplyEvent) Time() time.Time {
	return time.Unix(e.Timestamp, 0)
}

// Failed reports whether any target failed outright.
func (e *ApplyEvent) Failed() bool {
	for _, t := range e.Targets {
		if t.Outcome == OutcomeFailed {
			return true
		}
	}
	return false
}

// Changed reports whether any target actually wrote a fragment.
func (e *ApplyEvent) Changed() bool {
	for _, t := range e.Targets {
		if t.Outcome == OutcomeWritten || t.Outcome == OutcomeReloadFailed {
			return true
		}
	}
	return false
}
