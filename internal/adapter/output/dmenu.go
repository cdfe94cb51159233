package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/jmylchreest/aether/internal/scheme"
)

// DmenuFormatter formats scheme listings for dmenu/rofi/fuzzel pickers.
type DmenuFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewDmenuFormatter creates a new dmenu formatter.
func NewDmenuFormatter(opts FormatterOptions) *DmenuFormatter {
	f := &DmenuFormatter{opts: opts}

	// Parse custom template if provided
	if opts.Template != "" {
		tmpl, err := template.New("dmenu").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes schemes in dmenu format (one per line).
func (f *DmenuFormatter) Format(w io.Writer, infos []scheme.Info) error {
	for i, info := range infos {
		line := f.formatLine(i+1, &info)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// formatLine formats a single scheme line.
func (f *DmenuFormatter) formatLine(index int, info *scheme.Info) string {
	// Use custom template if available
	if f.template != nil {
		var buf strings.Builder
		data := templateData{
			Index:   index,
			Scheme:  info,
			Current: f.opts.Current != "" && info.Name == f.opts.Current,
		}
		if err := f.template.Execute(&buf, data); err == nil {
			return buf.String()
		}
	}

	sep := f.opts.Separator
	if sep == "" {
		sep = " | "
	}

	var parts []string

	if f.opts.ShowIndex {
		parts = append(parts, fmt.Sprintf("%d", index))
	}

	parts = append(parts, info.Name)

	if f.opts.ShowVariant {
		parts = append(parts, variantLabel(info.Variant))
	}

	if f.opts.ShowSource {
		parts = append(parts, sourceName(info))
	}

	return strings.Join(parts, sep)
}

// templateData provides data for custom templates.
type templateData struct {
	Index   int
	Scheme  *scheme.Info
	Current bool
}

// templateFuncs returns template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": func(s string, maxLen int) string {
			if maxLen <= 0 || len(s) <= maxLen {
				return s
			}
			if maxLen <= 3 {
				return s[:maxLen]
			}
			return s[:maxLen-3] + "..."
		},
		"pad": func(s string, width int) string {
			if len(s) >= width {
				return s
			}
			return s + strings.Repeat(" ", width-len(s))
		},
		"variant": variantLabel,
	}
}

// variantLabel normalizes the variant for single-column display.
func variantLabel(variant string) string {
	switch variant {
	case scheme.VariantDark:
		return "dark"
	case scheme.VariantLight:
		return "light"
	default:
		return "-"
	}
}
