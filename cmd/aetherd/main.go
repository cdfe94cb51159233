// Package main is the entry point for the aetherd colorscheme daemon.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmylchreest/aether/internal/daemon"
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	once := flag.Bool("once", false, "Apply the startup scheme and exit")
	noDBus := flag.Bool("no-dbus", false, "Run without claiming the D-Bus service name")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		println("aetherd version", version)
		os.Exit(0)
	}

	// Set up structured logging
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, err := daemon.New(daemon.Options{
		Logger:      logger,
		Version:     version,
		DisableDBus: *noDBus,
	})
	if err != nil {
		logger.Error("failed to initialize daemon", "error", err)
		os.Exit(1)
	}

	if *once {
		if err := d.RunOnce(ctx); err != nil {
			logger.Error("startup apply failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := d.Run(ctx); err != nil {
		logger.Error("daemon exited with error", "error", err)
		os.Exit(1)
	}

	logger.Info("aetherd stopped")
}
