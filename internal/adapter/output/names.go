package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/aether/internal/scheme"
)

// NamesFormatter outputs just the scheme names, one per line.
// Useful for piping to other commands (e.g., fuzzel | aether apply).
type NamesFormatter struct{}

// NewNamesFormatter creates a new names formatter.
func NewNamesFormatter() *NamesFormatter {
	return &NamesFormatter{}
}

// Format writes scheme names to the writer, one per line.
func (f *NamesFormatter) Format(w io.Writer, infos []scheme.Info) error {
	for _, info := range infos {
		if _, err := fmt.Fprintln(w, info.Name); err != nil {
			return err
		}
	}
	return nil
}
