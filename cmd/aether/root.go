// Package main provides the CLI entrypoint for aether.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/aether/internal/config"
	"github.com/jmylchreest/aether/internal/engine"
	"github.com/jmylchreest/aether/internal/journal"
	"github.com/jmylchreest/aether/internal/render"
	"github.com/jmylchreest/aether/internal/scheme"
	"github.com/jmylchreest/aether/internal/target"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
		schemesDir string
	}
	logger *slog.Logger

	// schemeLoader is the global loader instance
	schemeLoader *scheme.Loader

	// applyJournal is opened lazily by commands that need history
	applyJournal journal.Journal
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "aether",
	Short: "Base16 colorscheme manager for Linux desktops",
	Long: `aether is a base16 colorscheme manager for Linux desktops.

It renders a single scheme definition into per-application config
fragments (neovim, kitty, alacritty, hyprland, mako, waybar, ...) and
runs each application's reload command so the whole desktop switches
at once.

Running aether without a subcommand launches the interactive TUI.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Setup logging
		setupLogger()

		// Load configuration
		configPath := globalOpts.configPath
		if configPath == "" {
			configPath = config.ConfigPath()
		}
		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		schemeLoader = scheme.NewLoader(logger)
		if dir := schemesDir(); dir != "" {
			schemeLoader.SetSchemesDir(dir)
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if applyJournal != nil {
			return applyJournal.Close()
		}
		return nil
	},
	// Default to TUI when no subcommand is provided
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/aether/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.schemesDir, "schemes-dir", "",
		"Path to user schemes directory (default: ~/.config/aether/schemes)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// schemesDir resolves the user schemes directory with the flag winning
// over config.
func schemesDir() string {
	if globalOpts.schemesDir != "" {
		return globalOpts.schemesDir
	}
	return cfg.General.SchemesDir
}

// getLoader returns the global loader instance.
func getLoader() *scheme.Loader {
	return schemeLoader
}

// getConfig returns the global config instance.
func getConfig() *config.Config {
	return cfg
}

// openJournal opens the apply journal, reusing an already open one.
func openJournal() (journal.Journal, error) {
	if applyJournal != nil {
		return applyJournal, nil
	}
	path, err := journal.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve journal path: %w", err)
	}
	j, err := journal.NewJSONLJournal(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	applyJournal = j
	return applyJournal, nil
}

// buildRegistry creates the target registry with config overrides applied.
func buildRegistry() (*target.Registry, error) {
	registry := target.DefaultRegistry()
	if err := cfg.ApplyTargets(registry); err != nil {
		return nil, fmt.Errorf("invalid target config: %w", err)
	}
	return registry, nil
}

// buildRenderer creates the template renderer honoring the config.
func buildRenderer() *render.Renderer {
	renderer := render.NewRenderer(logger)
	if cfg.General.TemplatesDir != "" {
		renderer.SetTemplatesDir(cfg.General.TemplatesDir)
	}
	return renderer
}

// buildEngine creates an apply engine. The journal is optional so applies
// still work when the data directory is unavailable.
func buildEngine() (*engine.Engine, error) {
	registry, err := buildRegistry()
	if err != nil {
		return nil, err
	}

	jnl, err := openJournal()
	if err != nil {
		logger.Warn("journaling disabled", "error", err)
		jnl = nil
	}

	eng := engine.New(buildRenderer(), registry, jnl, logger)
	if cfg.General.ReloadTimeout.Duration() > 0 {
		eng.SetReloadTimeout(cfg.General.ReloadTimeout.Duration())
	}
	return eng, nil
}
