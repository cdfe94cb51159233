// Package output provides output formatters for scheme listings.
package output

import (
	"io"

	"github.com/jmylchreest/aether/internal/scheme"
)

// Formatter formats scheme listings for output.
type Formatter interface {
	// Format writes formatted scheme infos to the writer.
	Format(w io.Writer, infos []scheme.Info) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatJSON  FormatType = "json"
	FormatDmenu FormatType = "dmenu"
	FormatNames FormatType = "names"
)

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts)
	case FormatDmenu:
		return NewDmenuFormatter(opts)
	case FormatNames:
		return NewNamesFormatter()
	case FormatPlain:
		fallthrough
	default:
		return NewPlainFormatter(opts)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template    string // Custom template for dmenu/plain format
	ShowIndex   bool   // Show 1-based index prefix
	ShowVariant bool   // Show dark/light variant
	ShowAuthor  bool   // Show scheme author
	ShowSource  bool   // Show bundled/user source
	Separator   string // Field separator for dmenu format
	Current     string // Name of the applied scheme, marked in listings
}

// DefaultFormatterOptions returns sensible defaults for listing output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowIndex:   true,
		ShowVariant: true,
		ShowSource:  true,
		Separator:   " | ",
	}
}
