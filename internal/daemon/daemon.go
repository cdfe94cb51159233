package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/jmylchreest/aether/internal/config"
	"github.com/jmylchreest/aether/internal/dbus"
	"github.com/jmylchreest/aether/internal/engine"
	"github.com/jmylchreest/aether/internal/journal"
	"github.com/jmylchreest/aether/internal/render"
	"github.com/jmylchreest/aether/internal/scheme"
	"github.com/jmylchreest/aether/internal/state"
	"github.com/jmylchreest/aether/internal/target"
)

// applyTimeout bounds a full apply run including reload commands.
const applyTimeout = 30 * time.Second

// Options configure a daemon instance.
type Options struct {
	Config       *config.Config       // shared config; nil loads from disk
	DaemonConfig *config.DaemonConfig // daemon config; nil loads from disk
	Logger       *slog.Logger
	Version      string
	DisableDBus  bool // skip claiming the bus name even if config enables it
}

// Daemon ties the scheme loader, apply engine, file watchers, D-Bus
// service and desktop notifier together for aetherd.
type Daemon struct {
	mu     sync.Mutex
	logger *slog.Logger

	cfg     *config.Config
	dcfg    *config.DaemonConfig
	version string

	loader   *scheme.Loader
	engine   *engine.Engine
	journal  journal.Journal
	manager  *dbus.Manager // nil when D-Bus is disabled
	notifier *Notifier

	schemesWatcher *SchemesWatcher
	stateWatcher   *StateWatcher
	configWatcher  *ConfigWatcher

	// ULID of the last apply event this process wrote, used to tell our
	// own state writes apart from external ones.
	lastOwnEventID string

	// Set when fsnotify is unavailable and the loader's poll watcher is
	// used instead.
	pollFallback bool
	watchCtx     context.Context
}

// New creates a daemon from the given options.
func New(opts Options) (*Daemon, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cfg := opts.Config
	if cfg == nil {
		var err error
		cfg, err = config.LoadConfig(config.ConfigPath())
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	dcfg := opts.DaemonConfig
	if dcfg == nil {
		var err error
		dcfg, err = config.LoadDaemonConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load daemon config: %w", err)
		}
	}

	loader := scheme.NewLoader(logger)
	if cfg.General.SchemesDir != "" {
		loader.SetSchemesDir(cfg.General.SchemesDir)
	}

	renderer := render.NewRenderer(logger)
	if cfg.General.TemplatesDir != "" {
		renderer.SetTemplatesDir(cfg.General.TemplatesDir)
	}

	registry := target.DefaultRegistry()
	if err := cfg.ApplyTargets(registry); err != nil {
		return nil, fmt.Errorf("invalid target config: %w", err)
	}

	var jnl journal.Journal
	if path, err := journal.DefaultPath(); err != nil {
		logger.Warn("journal disabled", "error", err)
	} else if j, err := journal.NewJSONLJournal(path); err != nil {
		logger.Warn("journal disabled", "error", err)
	} else {
		jnl = j
	}

	eng := engine.New(renderer, registry, jnl, logger)
	if cfg.General.ReloadTimeout.Duration() > 0 {
		eng.SetReloadTimeout(cfg.General.ReloadTimeout.Duration())
	}

	notifier := NewNotifier(logger)
	notifier.SetEnabled(dcfg.Notifications.Enabled)
	notifier.SetMinInterval(dcfg.Notifications.MinInterval.Duration())

	d := &Daemon{
		logger:   logger,
		cfg:      cfg,
		dcfg:     dcfg,
		version:  opts.Version,
		loader:   loader,
		engine:   eng,
		journal:  jnl,
		notifier: notifier,
	}

	if dcfg.DBus.Enabled && !opts.DisableDBus {
		manager := dbus.NewManager(logger)
		info := dbus.DefaultServiceInfo()
		if opts.Version != "" {
			info.Version = opts.Version
		}
		manager.SetServiceInfo(info)
		manager.SetApplyHandler(d.handleApply)
		manager.SetReapplyHandler(d.handleReapply)
		manager.SetListHandler(d.handleList)
		d.manager = manager
	}

	return d, nil
}

// Run starts the daemon and blocks until the context is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	d.logger.Info("starting aetherd", "version", d.version)

	if d.manager != nil {
		if err := d.manager.Start(); err != nil {
			return fmt.Errorf("failed to start D-Bus service: %w", err)
		}
	}

	if d.dcfg.ApplyOnStart {
		if err := d.applyStartup(ctx); err != nil {
			d.logger.Error("startup apply failed", "error", err)
		}
	}

	if d.dcfg.Watch.Enabled {
		d.startSchemeWatching(ctx)
	}
	d.startStateWatcher(ctx)

	if err := d.startConfigWatcher(ctx); err != nil {
		d.logger.Warn("config hot-reload disabled", "error", err)
	}

	d.notifier.NotifyStartup(d.version)
	d.logger.Info("aetherd running")

	<-ctx.Done()

	d.logger.Info("shutting down")
	d.shutdown()
	return nil
}

// RunOnce applies the startup scheme and returns, for one-shot invocations.
func (d *Daemon) RunOnce(ctx context.Context) error {
	defer d.closeJournal()
	return d.applyStartup(ctx)
}

// shutdown stops all watchers and releases the bus name.
func (d *Daemon) shutdown() {
	d.mu.Lock()
	schemesWatcher := d.schemesWatcher
	stateWatcher := d.stateWatcher
	configWatcher := d.configWatcher
	d.mu.Unlock()

	if schemesWatcher != nil {
		if err := schemesWatcher.Stop(); err != nil {
			d.logger.Debug("failed to stop schemes watcher", "error", err)
		}
	}
	if stateWatcher != nil {
		stateWatcher.Stop()
	}
	if configWatcher != nil {
		configWatcher.Stop()
	}
	d.loader.StopHotReload()

	if d.manager != nil {
		if err := d.manager.Stop(); err != nil {
			d.logger.Warn("failed to stop D-Bus service", "error", err)
		}
	}

	d.closeJournal()
}

func (d *Daemon) closeJournal() {
	if d.journal == nil {
		return
	}
	if err := d.journal.Close(); err != nil {
		d.logger.Debug("failed to close journal", "error", err)
	}
}

// startupSchemeName resolves which scheme to apply at startup: the daemon
// config's pin, then the last applied scheme, then the general default.
func (d *Daemon) startupSchemeName() string {
	if d.dcfg.Scheme != "" {
		return d.dcfg.Scheme
	}
	if st, err := state.Load(); err == nil && st.HasScheme() {
		return st.SchemeName
	}
	return d.cfg.General.Scheme
}

func (d *Daemon) applyStartup(ctx context.Context) error {
	name := d.startupSchemeName()
	d.logger.Info("applying startup scheme", "name", name)
	_, err := d.applyByName(ctx, name, journal.TriggerDaemon, true)
	return err
}

// applyByName loads a scheme and applies it to all enabled targets. When
// emit is true a SchemeChanged signal is sent on success; D-Bus initiated
// applies skip it because the bus service emits after the handler returns.
func (d *Daemon) applyByName(ctx context.Context, name string, trigger journal.Trigger, emit bool) (string, error) {
	s, err := d.loader.LoadScheme(name)
	if err != nil {
		d.notifier.NotifyApplyError(name, err)
		return "", err
	}

	summary, err := d.applyScheme(ctx, s, trigger, emit)
	if err != nil {
		return "", err
	}

	// The current scheme may now be a different file
	d.rearmPollWatcher()
	return summary, nil
}

func (d *Daemon) applyScheme(ctx context.Context, s *scheme.Scheme, trigger journal.Trigger, emit bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, applyTimeout)
	defer cancel()

	event, results, err := d.engine.Apply(ctx, s, engine.ApplyOptions{Trigger: trigger})
	if err != nil {
		d.notifier.NotifyApplyError(s.Name, err)
		return "", err
	}

	d.mu.Lock()
	d.lastOwnEventID = event.ID
	d.mu.Unlock()

	summary := engine.Summarize(results)
	d.logger.Info("scheme applied", "name", s.Name, "trigger", trigger, "summary", summary)

	if emit && d.manager != nil {
		if err := d.manager.EmitSchemeChanged(s.Name, s.Variant); err != nil {
			d.logger.Debug("failed to emit SchemeChanged", "error", err)
		}
	}
	d.notifier.NotifySchemeApplied(s.Name, summary)

	return summary, nil
}

// handleApply serves ApplyScheme calls from the bus.
func (d *Daemon) handleApply(name string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), applyTimeout)
	defer cancel()
	return d.applyByName(ctx, name, journal.TriggerDBus, false)
}

// handleReapply serves Reapply calls from the bus. The scheme on record
// wins over whatever the loader currently holds.
func (d *Daemon) handleReapply() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), applyTimeout)
	defer cancel()

	st := d.appliedState()
	name := st.SchemeName
	if name == "" {
		name = d.startupSchemeName()
	}
	return d.applyByName(ctx, name, journal.TriggerDBus, false)
}

// handleList serves ListSchemes calls from the bus.
func (d *Daemon) handleList() []string {
	infos := d.loader.ListSchemes()
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	return names
}

func (d *Daemon) appliedState() *state.Applied {
	st, err := state.Load()
	if err != nil {
		return state.Default()
	}
	return st
}

// schemesDir resolves the user schemes directory, honoring the config
// override.
func (d *Daemon) schemesDir() string {
	if d.cfg.General.SchemesDir != "" {
		return d.cfg.General.SchemesDir
	}
	dir, err := scheme.SchemesDir()
	if err != nil {
		d.logger.Warn("cannot resolve schemes directory", "error", err)
		return ""
	}
	return dir
}

// startSchemeWatching prefers an fsnotify watch on the schemes directory
// and falls back to polling the current scheme file when that fails.
func (d *Daemon) startSchemeWatching(ctx context.Context) {
	d.mu.Lock()
	d.watchCtx = ctx
	d.mu.Unlock()

	dir := d.schemesDir()
	if dir != "" {
		err := os.MkdirAll(dir, 0755)
		if err == nil {
			var watcher *SchemesWatcher
			watcher, err = NewSchemesWatcher(dir, d.logger)
			if err == nil {
				watcher.SetDebounce(d.dcfg.Watch.Debounce.Duration())
				watcher.SetChangeCallback(func(names []string) {
					d.onSchemeFilesChanged(ctx, names)
				})
				if err = watcher.Start(); err == nil {
					d.mu.Lock()
					d.schemesWatcher = watcher
					d.mu.Unlock()
					return
				}
				_ = watcher.Stop()
			}
		}
		d.logger.Warn("falling back to poll watching", "error", err)
	}

	d.mu.Lock()
	d.pollFallback = true
	d.mu.Unlock()
	d.rearmPollWatcher()
}

// onSchemeFilesChanged re-applies when the applied scheme's file changed.
// Other scheme files need no action; listings read the directory fresh.
func (d *Daemon) onSchemeFilesChanged(ctx context.Context, names []string) {
	st := d.appliedState()
	if !st.HasScheme() {
		return
	}

	for _, name := range names {
		if name != st.SchemeName {
			continue
		}
		d.logger.Info("applied scheme file changed, re-applying", "name", name)
		if _, err := d.applyByName(ctx, name, journal.TriggerDaemon, true); err != nil {
			d.logger.Error("failed to re-apply scheme", "name", name, "error", err)
		}
		return
	}

	d.logger.Debug("scheme files changed", "names", names)
}

// rearmPollWatcher re-targets the loader's poll watcher at the current
// scheme file. Only used when fsnotify is unavailable.
func (d *Daemon) rearmPollWatcher() {
	d.mu.Lock()
	fallback := d.pollFallback
	ctx := d.watchCtx
	d.mu.Unlock()

	if !fallback || ctx == nil {
		return
	}
	d.loader.StartHotReload(ctx, d.onSchemeReloaded)
}

// onSchemeReloaded handles a poll-watcher reload of the current scheme.
// The loader keeps watching the same file, so no re-arm here.
func (d *Daemon) onSchemeReloaded(s *scheme.Scheme) {
	d.mu.Lock()
	ctx := d.watchCtx
	d.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := d.applyScheme(ctx, s, journal.TriggerDaemon, true); err != nil {
		d.logger.Error("failed to re-apply scheme", "name", s.Name, "error", err)
	}
}

// startStateWatcher watches the applied-state file so applies done by
// other processes get announced on the bus.
func (d *Daemon) startStateWatcher(ctx context.Context) {
	path, err := state.FilePath()
	if err != nil {
		d.logger.Warn("state watching disabled", "error", err)
		return
	}

	watcher := NewStateWatcher(path, d.logger)
	if d.dcfg.Watch.PollInterval.Duration() > 0 {
		watcher.SetPollInterval(d.dcfg.Watch.PollInterval.Duration())
	}
	watcher.SetChangeCallback(d.onStateChanged)

	if err := watcher.Start(ctx); err != nil {
		d.logger.Warn("state watching disabled", "error", err)
		return
	}

	d.mu.Lock()
	d.stateWatcher = watcher
	d.mu.Unlock()
}

// onStateChanged announces applies recorded by other processes, such as
// the aether CLI writing the state file directly.
func (d *Daemon) onStateChanged() {
	st := d.appliedState()
	if !st.HasScheme() {
		return
	}

	d.mu.Lock()
	own := st.LastEventID != "" && st.LastEventID == d.lastOwnEventID
	fallback := d.pollFallback
	d.mu.Unlock()
	if own {
		return
	}

	d.logger.Info("scheme applied externally", "name", st.SchemeName, "source", st.SchemeSource)

	if d.manager != nil {
		if err := d.manager.EmitSchemeChanged(st.SchemeName, st.Variant); err != nil {
			d.logger.Debug("failed to emit SchemeChanged", "error", err)
		}
	}

	// Track the new scheme in fallback mode so edits keep re-applying
	if fallback && d.loader.CurrentName() != st.SchemeName {
		if _, err := d.loader.LoadScheme(st.SchemeName); err == nil {
			d.rearmPollWatcher()
		}
	}
}

func (d *Daemon) startConfigWatcher(ctx context.Context) error {
	watcher, err := NewConfigWatcher(d.logger)
	if err != nil {
		return err
	}
	watcher.SetReloadCallback(d.handleConfigReload)
	watcher.SetErrorCallback(d.handleConfigError)

	if err := watcher.Start(ctx, d.dcfg); err != nil {
		return err
	}

	d.mu.Lock()
	d.configWatcher = watcher
	d.mu.Unlock()
	return nil
}

// handleConfigReload applies settings that can change at runtime. Watcher
// and D-Bus enablement only take effect on restart.
func (d *Daemon) handleConfigReload(newConfig *config.DaemonConfig) {
	d.mu.Lock()
	old := d.dcfg
	d.dcfg = newConfig
	schemesWatcher := d.schemesWatcher
	d.mu.Unlock()

	d.notifier.SetEnabled(newConfig.Notifications.Enabled)
	d.notifier.SetMinInterval(newConfig.Notifications.MinInterval.Duration())

	if schemesWatcher != nil {
		schemesWatcher.SetDebounce(newConfig.Watch.Debounce.Duration())
	}

	if old.Watch.Enabled != newConfig.Watch.Enabled || old.DBus.Enabled != newConfig.DBus.Enabled {
		d.logger.Warn("watch and D-Bus enablement changes take effect on restart")
	}

	d.notifier.NotifyConfigReloaded()
}

func (d *Daemon) handleConfigError(err error) {
	d.notifier.NotifyConfigError(err)
}
