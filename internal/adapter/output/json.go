package output

import (
	"encoding/json"
	"io"

	"github.com/jmylchreest/aether/internal/scheme"
)

// JSONFormatter formats scheme listings as JSON.
type JSONFormatter struct {
	opts FormatterOptions
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(opts FormatterOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Format writes scheme infos as a JSON array.
func (f *JSONFormatter) Format(w io.Writer, infos []scheme.Info) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(infos)
}

// FormatScheme writes a full scheme, palette included, as JSON.
func (f *JSONFormatter) FormatScheme(w io.Writer, s *scheme.Scheme) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(s)
}
