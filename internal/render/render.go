// Package render turns a scheme into per-target configuration fragments.
// Templates resolve from ~/.config/aether/templates/ first, then from the
// embedded set, mirroring scheme resolution.
package render

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"text/template"

	"github.com/jmylchreest/aether/internal/scheme"
	"github.com/jmylchreest/aether/internal/target"
)

// Data is the root object templates execute against.
type Data struct {
	Scheme SchemeData
	Target TargetData
}

// SchemeData exposes the scheme to templates.
type SchemeData struct {
	Name    string
	Author  string
	Variant string
	Palette scheme.Palette
	Slots   []scheme.Slot
}

// TargetData exposes the target to templates.
type TargetData struct {
	Name           string
	Priority       int
	Options        map[string]any
	DisableItalics bool
}

// NewData builds template data for a scheme/target pair.
func NewData(s *scheme.Scheme, t *target.Target) Data {
	return Data{
		Scheme: SchemeData{
			Name:    s.Name,
			Author:  s.Author,
			Variant: s.Variant,
			Palette: s.Palette,
			Slots:   s.Palette.Slots(),
		},
		Target: TargetData{
			Name:           t.Name,
			Priority:       t.Priority,
			Options:        t.Options,
			DisableItalics: t.BoolOption(target.OptionDisableItalics, false),
		},
	}
}

// Renderer resolves and executes target templates.
type Renderer struct {
	mu           sync.RWMutex
	logger       *slog.Logger
	templatesDir string
}

// NewRenderer creates a renderer using the default user templates directory.
func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}

	templatesDir, err := TemplatesDir()
	if err != nil {
		logger.Warn("failed to get templates directory", "error", err)
		templatesDir = ""
	}

	return &Renderer{
		logger:       logger,
		templatesDir: templatesDir,
	}
}

// TemplatesDir returns the path to the user's template override directory.
func TemplatesDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "aether", "templates"), nil
}

// SetTemplatesDir overrides the user templates directory.
func (r *Renderer) SetTemplatesDir(dir string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templatesDir = dir
}

// Render executes the target's template against the scheme. Output is
// deterministic: the same scheme and target always produce identical bytes.
func (r *Renderer) Render(s *scheme.Scheme, t *target.Target) ([]byte, error) {
	name := t.TemplateName()

	text, source, err := r.lookup(name)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(name).Funcs(Funcs()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template %s (%s): %w", name, source, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, NewData(s, t)); err != nil {
		return nil, fmt.Errorf("render %s for target %s: %w", name, t.Name, err)
	}
	return buf.Bytes(), nil
}

// lookup resolves a template body, user directory first then embedded.
func (r *Renderer) lookup(name string) (string, string, error) {
	r.mu.RLock()
	templatesDir := r.templatesDir
	r.mu.RUnlock()

	if templatesDir != "" {
		path := filepath.Join(templatesDir, name+".tmpl")
		if data, err := os.ReadFile(path); err == nil {
			r.logger.Debug("using user template", "name", name, "path", path)
			return string(data), path, nil
		}
	}

	if data, ok := GetEmbeddedTemplate(name); ok {
		return data, "embedded", nil
	}

	return "", "", fmt.Errorf("no template for target %q", name)
}
