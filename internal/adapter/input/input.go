// Package input imports color schemes from external formats.
package input

import (
	"fmt"
	"io"

	"github.com/jmylchreest/aether/internal/scheme"
)

// maxImportSize caps how much scheme data an adapter reads.
const maxImportSize = 10 * 1024 * 1024

// Adapter converts one external scheme format into the native model.
type Adapter interface {
	// Name returns the adapter identifier (e.g., "base16", "native").
	Name() string

	// Import parses a scheme from r.
	Import(r io.Reader) (*scheme.Scheme, error)
}

// Formats lists the recognized import format names.
func Formats() []string {
	return []string{"auto", "base16", "native"}
}

// NewAdapter creates an Adapter for the named format. An empty format
// auto-detects from the input.
func NewAdapter(format string) (Adapter, error) {
	switch format {
	case "base16":
		return NewBase16Adapter(), nil
	case "native":
		return NewNativeAdapter(), nil
	case "", "auto":
		return NewAutoAdapter(), nil
	default:
		return nil, &AdapterError{
			Format:  format,
			Message: "unknown import format",
		}
	}
}

// AdapterError represents an import-related error.
type AdapterError struct {
	Format  string
	Message string
	Err     error
}

func (e *AdapterError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Format, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Format, e.Message)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// readAll reads the full input with a size cap.
func readAll(format string, r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxImportSize))
	if err != nil {
		return nil, &AdapterError{
			Format:  format,
			Message: "failed to read input",
			Err:     err,
		}
	}
	if len(data) == 0 {
		return nil, &AdapterError{
			Format:  format,
			Message: "empty input",
		}
	}
	return data, nil
}
