package input

import (
	"io"

	"github.com/jmylchreest/aether/internal/scheme"
)

// NativeAdapter imports schemes already in the native TOML or YAML form.
type NativeAdapter struct{}

// NewNativeAdapter creates a new NativeAdapter.
func NewNativeAdapter() *NativeAdapter {
	return &NativeAdapter{}
}

// Name returns the adapter identifier.
func (a *NativeAdapter) Name() string {
	return "native"
}

// Import parses a native scheme from r, trying TOML first.
func (a *NativeAdapter) Import(r io.Reader) (*scheme.Scheme, error) {
	data, err := readAll(a.Name(), r)
	if err != nil {
		return nil, err
	}
	return parseNative(data)
}

func parseNative(data []byte) (*scheme.Scheme, error) {
	s, tomlErr := scheme.Parse(data, ".toml")
	if tomlErr == nil {
		return s, nil
	}

	s, yamlErr := scheme.Parse(data, ".yaml")
	if yamlErr == nil {
		return s, nil
	}

	return nil, &AdapterError{
		Format:  "native",
		Message: "not a native scheme",
		Err:     tomlErr,
	}
}

// AutoAdapter detects the input format. The modern base16 YAML shape is
// structurally a native YAML scheme, so the base16 interpretation wins:
// it yields slugified, file-basename-friendly names either way. Native
// TOML is never valid base16 and falls through cleanly.
type AutoAdapter struct{}

// NewAutoAdapter creates a new AutoAdapter.
func NewAutoAdapter() *AutoAdapter {
	return &AutoAdapter{}
}

// Name returns the adapter identifier.
func (a *AutoAdapter) Name() string {
	return "auto"
}

// Import parses a scheme from r, trying base16 first and falling back to
// the native form.
func (a *AutoAdapter) Import(r io.Reader) (*scheme.Scheme, error) {
	data, err := readAll(a.Name(), r)
	if err != nil {
		return nil, err
	}

	if s, err := ParseBase16(data); err == nil {
		return s, nil
	}
	if s, err := parseNative(data); err == nil {
		return s, nil
	}

	return nil, &AdapterError{
		Format:  "auto",
		Message: "input matches neither the base16 nor the native format",
	}
}
