package journal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONLJournal_WritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")

	j, err := NewJSONLJournal(path)
	require.NoError(t, err)
	defer j.Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"aether_schema_version":1`)
}

func TestJournal_AppendLoad(t *testing.T) {
	j := testJournal(t)

	first := testEvent(t, "gruvbox-dark")
	second := testEvent(t, "catppuccin-mocha")

	require.NoError(t, j.Append(*first))
	require.NoError(t, j.Append(*second))

	events, err := j.Load()
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "gruvbox-dark", events[0].SchemeName)
	assert.Equal(t, "catppuccin-mocha", events[1].SchemeName)
	assert.Equal(t, first.ID, events[0].ID)
}

func TestJournal_LoadSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	j, err := NewJSONLJournal(path)
	require.NoError(t, err)

	require.NoError(t, j.Append(*testEvent(t, "aether")))
	require.NoError(t, j.Close())

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0600)
	require.NoError(t, err)
	_, err = f.WriteString("{garbage\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	j, err = NewJSONLJournal(path)
	require.NoError(t, err)
	defer j.Close()

	events, err := j.Load()
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestJournal_Rewrite(t *testing.T) {
	j := testJournal(t)

	require.NoError(t, j.Append(*testEvent(t, "one")))
	require.NoError(t, j.Append(*testEvent(t, "two")))
	require.NoError(t, j.Append(*testEvent(t, "three")))

	events, err := j.Load()
	require.NoError(t, err)
	require.Len(t, events, 3)

	require.NoError(t, j.Rewrite(events[2:]))

	events, err = j.Load()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "three", events[0].SchemeName)
}

func TestJournal_Clear(t *testing.T) {
	j := testJournal(t)

	require.NoError(t, j.Append(*testEvent(t, "one")))
	require.NoError(t, j.Clear())

	events, err := j.Load()
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestJournal_ClosedOperationsFail(t *testing.T) {
	j := testJournal(t)
	require.NoError(t, j.Close())

	_, err := j.Load()
	assert.ErrorIs(t, err, ErrJournalClosed)
	assert.ErrorIs(t, j.Append(*testEvent(t, "x")), ErrJournalClosed)

	// Close is idempotent
	assert.NoError(t, j.Close())
}

func TestJournal_ReopenKeepsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")

	j, err := NewJSONLJournal(path)
	require.NoError(t, err)
	require.NoError(t, j.Append(*testEvent(t, "persisted")))
	require.NoError(t, j.Close())

	j, err = NewJSONLJournal(path)
	require.NoError(t, err)
	defer j.Close()

	events, err := j.Load()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "persisted", events[0].SchemeName)
}

func TestNewApplyEvent(t *testing.T) {
	e, err := NewApplyEvent("gruvbox-dark", "dark", TriggerCLI)
	require.NoError(t, err)

	assert.Len(t, e.ID, 26, "ULID should be 26 chars")
	assert.Equal(t, "gruvbox-dark", e.SchemeName)
	assert.Equal(t, TriggerCLI, e.Trigger)
	assert.InDelta(t, time.Now().Unix(), e.Timestamp, 2)
}

func TestApplyEvent_FailedChanged(t *testing.T) {
	e := &ApplyEvent{Targets: []TargetRecord{
		{Target: "kitty", Outcome: OutcomeUnchanged},
		{Target: "nvim", Outcome: OutcomeWritten},
	}}
	assert.False(t, e.Failed())
	assert.True(t, e.Changed())

	e.Targets = append(e.Targets, TargetRecord{Target: "waybar", Outcome: OutcomeFailed})
	assert.True(t, e.Failed())

	e = &ApplyEvent{Targets: []TargetRecord{{Target: "kitty", Outcome: OutcomeUnchanged}}}
	assert.False(t, e.Changed())
}

func TestPrune_ByCount(t *testing.T) {
	j := testJournal(t)

	for _, name := range []string{"one", "two", "three", "four"} {
		require.NoError(t, j.Append(*testEvent(t, name)))
	}

	res, err := Prune(j, PruneOptions{Keep: 2}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Removed)
	assert.Equal(t, 2, res.Kept)

	events, err := j.Load()
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "three", events[0].SchemeName)
	assert.Equal(t, "four", events[1].SchemeName)
}

func TestPrune_ByAge(t *testing.T) {
	j := testJournal(t)

	old := testEvent(t, "ancient")
	old.Timestamp = time.Now().Add(-72 * time.Hour).Unix()
	require.NoError(t, j.Append(*old))
	require.NoError(t, j.Append(*testEvent(t, "recent")))

	res, err := Prune(j, PruneOptions{OlderThan: 48 * time.Hour}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Removed)

	events, err := j.Load()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "recent", events[0].SchemeName)
}

func TestPrune_DryRun(t *testing.T) {
	j := testJournal(t)

	require.NoError(t, j.Append(*testEvent(t, "one")))
	require.NoError(t, j.Append(*testEvent(t, "two")))

	res, err := Prune(j, PruneOptions{Keep: 1, DryRun: true}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Removed)

	events, err := j.Load()
	require.NoError(t, err)
	assert.Len(t, events, 2, "dry-run must not modify the journal")
}

func TestPrune_NoCriteria(t *testing.T) {
	j := testJournal(t)
	_, err := Prune(j, PruneOptions{}, time.Now())
	assert.Error(t, err)
}

func testJournal(t *testing.T) *JSONLJournal {
	t.Helper()
	j, err := NewJSONLJournal(filepath.Join(t.TempDir(), "journal.jsonl"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func testEvent(t *testing.T, schemeName string) *ApplyEvent {
	t.Helper()
	e, err := NewApplyEvent(schemeName, "dark", TriggerCLI)
	require.NoError(t, err)
	e.Targets = []TargetRecord{{Target: "nvim", Outcome: OutcomeWritten}}
	return e
}
