package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/aether/internal/journal"
	"github.com/jmylchreest/aether/internal/render"
	"github.com/jmylchreest/aether/internal/scheme"
	"github.com/jmylchreest/aether/internal/state"
	"github.com/jmylchreest/aether/internal/target"
)

func TestApply_WritesAllEnabledTargets(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	outDir := t.TempDir()

	e, jnl := testEngine(t, outDir)
	s := testBundledScheme(t)

	event, results, err := e.Apply(context.Background(), s, ApplyOptions{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Priority order: alpha (100) before beta (50), disabled skipped
	assert.Equal(t, "alpha", results[0].Target)
	assert.Equal(t, "beta", results[1].Target)
	for _, r := range results {
		assert.Equal(t, journal.OutcomeWritten, r.Outcome)
		assert.NoError(t, r.Err)
	}
	assert.NoFileExists(t, filepath.Join(outDir, "disabled.conf"))

	content, err := os.ReadFile(filepath.Join(outDir, "alpha.conf"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "background "+string(s.Palette.Base00))
	assert.Contains(t, string(content), "target alpha")

	assert.Equal(t, journal.TriggerCLI, event.Trigger)
	assert.Equal(t, state.SourceBundled, event.Source)
	assert.False(t, event.Failed())
	assert.True(t, event.Changed())

	events, err := jnl.Load()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, event.ID, events[0].ID)

	applied, err := state.Load()
	require.NoError(t, err)
	assert.Equal(t, s.Name, applied.SchemeName)
	assert.Equal(t, event.ID, applied.LastEventID)
}

func TestApply_SecondRunUnchanged(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	e, jnl := testEngine(t, t.TempDir())
	s := testBundledScheme(t)

	_, _, err := e.Apply(context.Background(), s, ApplyOptions{})
	require.NoError(t, err)

	event, results, err := e.Apply(context.Background(), s, ApplyOptions{})
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, journal.OutcomeUnchanged, r.Outcome)
	}
	assert.False(t, event.Changed())

	// Both runs are journaled
	events, err := jnl.Load()
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestApply_DryRun(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	outDir := t.TempDir()

	e, jnl := testEngine(t, outDir)

	event, results, err := e.Apply(context.Background(), testBundledScheme(t), ApplyOptions{DryRun: true})
	require.NoError(t, err)

	// Outcomes report what would happen, but nothing is written
	for _, r := range results {
		assert.Equal(t, journal.OutcomeWritten, r.Outcome)
	}
	assert.NoFileExists(t, filepath.Join(outDir, "alpha.conf"))
	assert.NoFileExists(t, filepath.Join(outDir, "beta.conf"))

	// Dry runs are journaled but never become the applied state
	assert.True(t, event.DryRun)
	events, err := jnl.Load()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].DryRun)

	applied, err := state.Load()
	require.NoError(t, err)
	assert.False(t, applied.HasScheme())
}

func TestApply_ExplicitTargetOverridesEnabled(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	outDir := t.TempDir()

	e, _ := testEngine(t, outDir)

	_, results, err := e.Apply(context.Background(), testBundledScheme(t), ApplyOptions{
		Targets: []string{"disabled"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "disabled", results[0].Target)
	assert.Equal(t, journal.OutcomeWritten, results[0].Outcome)
	assert.FileExists(t, filepath.Join(outDir, "disabled.conf"))
}

func TestApply_UnknownTarget(t *testing.T) {
	e, _ := testEngine(t, t.TempDir())

	_, _, err := e.Apply(context.Background(), testBundledScheme(t), ApplyOptions{
		Targets: []string{"nope"},
	})
	assert.ErrorIs(t, err, target.ErrTargetNotFound)
	assert.Contains(t, err.Error(), "nope")
}

func TestApply_NilScheme(t *testing.T) {
	e, _ := testEngine(t, t.TempDir())

	_, _, err := e.Apply(context.Background(), nil, ApplyOptions{})
	assert.Error(t, err)
}

func TestApply_InvalidScheme(t *testing.T) {
	e, _ := testEngine(t, t.TempDir())

	_, _, err := e.Apply(context.Background(), &scheme.Scheme{Name: "bad"}, ApplyOptions{})
	assert.Error(t, err)
}

func TestApply_NoTargets(t *testing.T) {
	r := target.NewRegistry()
	require.NoError(t, r.Register(&target.Target{
		Name:     "off",
		Enabled:  false,
		Template: "frag",
		Output:   filepath.Join(t.TempDir(), "off.conf"),
	}))

	e := New(testRenderer(t), r, nil, nil)
	_, _, err := e.Apply(context.Background(), testBundledScheme(t), ApplyOptions{})
	assert.ErrorContains(t, err, "no targets")
}

func TestApply_RenderFailureRecorded(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	r := target.NewRegistry()
	require.NoError(t, r.Register(&target.Target{
		Name:     "broken",
		Priority: 100,
		Enabled:  true,
		Template: "does-not-exist",
		Output:   filepath.Join(t.TempDir(), "broken.conf"),
	}))

	e := New(testRenderer(t), r, nil, nil)
	event, results, err := e.Apply(context.Background(), testBundledScheme(t), ApplyOptions{})

	// Per-target failures live in the results, not the returned error
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, journal.OutcomeFailed, results[0].Outcome)
	assert.Error(t, results[0].Err)
	assert.True(t, event.Failed())
	require.Len(t, event.Targets, 1)
	assert.NotEmpty(t, event.Targets[0].Error)
}

func TestApply_ReloadFailure(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	outDir := t.TempDir()

	r := target.NewRegistry()
	require.NoError(t, r.Register(&target.Target{
		Name:      "flaky",
		Priority:  100,
		Enabled:   true,
		Template:  "frag",
		Output:    filepath.Join(outDir, "flaky.conf"),
		ReloadCmd: []string{"/nonexistent-reload-helper"},
	}))

	e := New(testRenderer(t), r, nil, nil)
	_, results, err := e.Apply(context.Background(), testBundledScheme(t), ApplyOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)

	// The fragment lands even when the reload command fails
	assert.Equal(t, journal.OutcomeReloadFailed, results[0].Outcome)
	assert.Error(t, results[0].Err)
	assert.FileExists(t, filepath.Join(outDir, "flaky.conf"))
}

func TestApply_ReloadSuccess(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	r := target.NewRegistry()
	require.NoError(t, r.Register(&target.Target{
		Name:      "ok",
		Priority:  100,
		Enabled:   true,
		Template:  "frag",
		Output:    filepath.Join(t.TempDir(), "ok.conf"),
		ReloadCmd: []string{"true"},
	}))

	e := New(testRenderer(t), r, nil, nil)
	_, results, err := e.Apply(context.Background(), testBundledScheme(t), ApplyOptions{})
	require.NoError(t, err)
	assert.Equal(t, journal.OutcomeWritten, results[0].Outcome)
	assert.NoError(t, results[0].Err)
}

func TestApply_NoReloadSkipsCommand(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	r := target.NewRegistry()
	require.NoError(t, r.Register(&target.Target{
		Name:      "flaky",
		Priority:  100,
		Enabled:   true,
		Template:  "frag",
		Output:    filepath.Join(t.TempDir(), "flaky.conf"),
		ReloadCmd: []string{"/nonexistent-reload-helper"},
	}))

	e := New(testRenderer(t), r, nil, nil)
	_, results, err := e.Apply(context.Background(), testBundledScheme(t), ApplyOptions{NoReload: true})
	require.NoError(t, err)
	assert.Equal(t, journal.OutcomeWritten, results[0].Outcome)
	assert.NoError(t, results[0].Err)
}

func TestApply_UnchangedSkipsReload(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	r := target.NewRegistry()
	require.NoError(t, r.Register(&target.Target{
		Name:      "flaky",
		Priority:  100,
		Enabled:   true,
		Template:  "frag",
		Output:    filepath.Join(t.TempDir(), "flaky.conf"),
		ReloadCmd: []string{"/nonexistent-reload-helper"},
	}))

	e := New(testRenderer(t), r, nil, nil)
	s := testBundledScheme(t)

	_, results, err := e.Apply(context.Background(), s, ApplyOptions{})
	require.NoError(t, err)
	assert.Equal(t, journal.OutcomeReloadFailed, results[0].Outcome)

	// No change on the second run, so the reload command never runs
	_, results, err = e.Apply(context.Background(), s, ApplyOptions{})
	require.NoError(t, err)
	assert.Equal(t, journal.OutcomeUnchanged, results[0].Outcome)
	assert.NoError(t, results[0].Err)
}

func TestApply_UserSchemeSourceIsPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "mine.toml")
	require.NoError(t, os.WriteFile(path, []byte(testSchemeTOML("mine")), 0644))
	s, err := scheme.Load(path)
	require.NoError(t, err)

	e, _ := testEngine(t, t.TempDir())
	event, _, err := e.Apply(context.Background(), s, ApplyOptions{})
	require.NoError(t, err)
	assert.Equal(t, path, event.Source)

	applied, err := state.Load()
	require.NoError(t, err)
	assert.Equal(t, path, applied.SchemeSource)
}

func TestReapply_PicksUpFileChanges(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	outDir := t.TempDir()
	schemesDir := t.TempDir()

	path := filepath.Join(schemesDir, "mine.toml")
	require.NoError(t, os.WriteFile(path, []byte(testSchemeTOML("mine")), 0644))

	loader := scheme.NewLoader(nil)
	loader.SetSchemesDir(schemesDir)
	_, err := loader.LoadScheme("mine")
	require.NoError(t, err)

	e, _ := testEngine(t, outDir)
	_, _, err = e.Reapply(context.Background(), loader, ApplyOptions{Trigger: journal.TriggerDaemon})
	require.NoError(t, err)

	// Edit the scheme on disk, then reapply
	edited := strings.Replace(testSchemeTOML("mine"), "#100000", "#ffffff", 1)
	require.NoError(t, os.WriteFile(path, []byte(edited), 0644))

	_, results, err := e.Reapply(context.Background(), loader, ApplyOptions{Trigger: journal.TriggerDaemon})
	require.NoError(t, err)
	assert.Equal(t, journal.OutcomeWritten, results[0].Outcome)
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare tilde", "~", home},
		{"tilde prefix", "~/x/y.conf", filepath.Join(home, "x", "y.conf")},
		{"env var", "$HOME/z.conf", filepath.Join(home, "z.conf")},
		{"absolute untouched", "/etc/foo.conf", "/etc/foo.conf"},
		{"relative untouched", "foo.conf", "foo.conf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		results []Result
		want    string
	}{
		{"empty", nil, "nothing to do"},
		{"written only", []Result{
			{Outcome: journal.OutcomeWritten},
			{Outcome: journal.OutcomeWritten},
		}, "2 written"},
		{"mixed", []Result{
			{Outcome: journal.OutcomeWritten},
			{Outcome: journal.OutcomeUnchanged},
			{Outcome: journal.OutcomeFailed},
		}, "1 written, 1 unchanged, 1 failed"},
		{"reload failure counts as failed", []Result{
			{Outcome: journal.OutcomeReloadFailed},
		}, "1 failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.results))
		})
	}
}

// testEngine builds an engine with two enabled targets (alpha, beta), one
// disabled target, a template dir containing frag.tmpl, and a temp journal.
func testEngine(t *testing.T, outDir string) (*Engine, journal.Journal) {
	t.Helper()

	r := target.NewRegistry()
	require.NoError(t, r.Register(&target.Target{
		Name:     "alpha",
		Priority: 100,
		Enabled:  true,
		Template: "frag",
		Output:   filepath.Join(outDir, "alpha.conf"),
	}))
	require.NoError(t, r.Register(&target.Target{
		Name:     "beta",
		Priority: 50,
		Enabled:  true,
		Template: "frag",
		Output:   filepath.Join(outDir, "beta.conf"),
	}))
	require.NoError(t, r.Register(&target.Target{
		Name:     "disabled",
		Priority: 10,
		Enabled:  false,
		Template: "frag",
		Output:   filepath.Join(outDir, "disabled.conf"),
	}))

	jnl, err := journal.NewJSONLJournal(filepath.Join(t.TempDir(), "journal.jsonl"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = jnl.Close() })

	return New(testRenderer(t), r, jnl, nil), jnl
}

func testRenderer(t *testing.T) *render.Renderer {
	t.Helper()

	tmplDir := t.TempDir()
	content := "background {{ .Scheme.Palette.Base00 }}\ntarget {{ .Target.Name }}\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmplDir, "frag.tmpl"), []byte(content), 0644))

	r := render.NewRenderer(nil)
	r.SetTemplatesDir(tmplDir)
	return r
}

func testBundledScheme(t *testing.T) *scheme.Scheme {
	t.Helper()
	s, ok := scheme.GetEmbeddedScheme(scheme.DefaultSchemeName)
	require.True(t, ok)
	return s
}

func testSchemeTOML(name string) string {
	out := fmt.Sprintf("name = %q\nvariant = \"dark\"\n\n[palette]\n", name)
	slots := []string{
		"base00", "base01", "base02", "base03",
		"base04", "base05", "base06", "base07",
		"base08", "base09", "base0A", "base0B",
		"base0C", "base0D", "base0E", "base0F",
	}
	for i, slot := range slots {
		out += fmt.Sprintf("%s = \"#10%02x%02x\"\n", slot, i*15, i*15)
	}
	return out
}
