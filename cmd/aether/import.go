package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/aether/internal/adapter/input"
	"github.com/jmylchreest/aether/internal/scheme"
)

var importOpts struct {
	format string
	name   string
	force  bool
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a scheme into the user schemes directory",
	Long: `Import a scheme file into the user schemes directory.

Reads from the given file, or from stdin when no file (or "-") is
given. Upstream base16 YAML and aether's native TOML are both
understood; the auto format sniffs which one it is.

An imported scheme with the same name as a bundled one shadows it.

Examples:
  aether import rose-pine.yaml
  aether import --name my-variant rose-pine.yaml
  curl -sL https://example.com/scheme.yaml | aether import --format base16`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importOpts.format, "format", "f", "auto",
		fmt.Sprintf("Input format (%s)", strings.Join(input.Formats(), ", ")))
	importCmd.Flags().StringVarP(&importOpts.name, "name", "n", "",
		"Override the scheme name")
	importCmd.Flags().BoolVar(&importOpts.force, "force", false,
		"Overwrite an existing scheme with the same name")
}

func runImport(cmd *cobra.Command, args []string) error {
	adapter, err := input.NewAdapter(importOpts.format)
	if err != nil {
		return err
	}

	var r io.Reader = os.Stdin
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()
		r = f
	}

	s, err := adapter.Import(r)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if importOpts.name != "" {
		s.Name = input.Slug(importOpts.name)
	}
	if s.Name == "" {
		return fmt.Errorf("scheme has no name, set one with --name")
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("imported scheme is invalid: %w", err)
	}

	dir := schemesDir()
	if dir == "" {
		dir, err = scheme.SchemesDir()
		if err != nil {
			return fmt.Errorf("failed to resolve schemes directory: %w", err)
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create schemes directory: %w", err)
	}

	path := filepath.Join(dir, s.Name+".toml")
	if !importOpts.force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("scheme %q already exists at %s (use --force to overwrite)", s.Name, path)
		}
	}

	data, err := s.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode scheme: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	label := s.Name
	if s.Variant != "" {
		label += " (" + s.Variant + ")"
	}
	fmt.Printf("Imported %s -> %s\n", label, path)
	return nil
}
