package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/jmylchreest/aether/internal/scheme"
)

// PlainFormatter formats scheme listings as human-readable text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	// Parse custom template if provided
	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes scheme infos as plain text, one per line.
func (f *PlainFormatter) Format(w io.Writer, infos []scheme.Info) error {
	for i, info := range infos {
		if err := f.formatInfo(w, i+1, &info); err != nil {
			return err
		}
	}
	return nil
}

// formatInfo formats a single scheme line.
func (f *PlainFormatter) formatInfo(w io.Writer, index int, info *scheme.Info) error {
	// Use custom template if available
	if f.template != nil {
		data := templateData{
			Index:   index,
			Scheme:  info,
			Current: f.opts.Current != "" && info.Name == f.opts.Current,
		}
		if err := f.template.Execute(w, data); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}

	var sb strings.Builder

	if f.opts.ShowIndex {
		sb.WriteString(fmt.Sprintf("[%d] ", index))
	}

	sb.WriteString(info.Name)

	if f.opts.ShowVariant && info.Variant != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", info.Variant))
	}

	if f.opts.ShowAuthor && info.Author != "" {
		sb.WriteString(fmt.Sprintf(" by %s", info.Author))
	}

	if f.opts.ShowSource {
		sb.WriteString(fmt.Sprintf(" [%s]", sourceName(info)))
	}

	if f.opts.Current != "" && info.Name == f.opts.Current {
		sb.WriteString(" *")
	}

	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// sourceName describes where a scheme comes from.
func sourceName(info *scheme.Info) string {
	if info.IsBundled {
		return "bundled"
	}
	return "user"
}
