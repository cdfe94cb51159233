package input

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/aether/internal/scheme"
)

// Base16Adapter imports schemes in the base16 YAML interchange format.
// Both the classic shape (flat bare-hex slots with a "scheme" title) and
// the newer one (metadata plus a nested "palette" map) are accepted.
type Base16Adapter struct{}

// NewBase16Adapter creates a new Base16Adapter.
func NewBase16Adapter() *Base16Adapter {
	return &Base16Adapter{}
}

// Name returns the adapter identifier.
func (a *Base16Adapter) Name() string {
	return "base16"
}

// Import parses a base16 YAML scheme from r.
func (a *Base16Adapter) Import(r io.Reader) (*scheme.Scheme, error) {
	data, err := readAll(a.Name(), r)
	if err != nil {
		return nil, err
	}
	return ParseBase16(data)
}

// base16Document covers both base16 YAML shapes. Classic files carry the
// title under "scheme" and bare-hex slots at the top level; newer files
// carry "name"/"variant" and a "palette" map.
type base16Document struct {
	Scheme  string `yaml:"scheme"`
	Name    string `yaml:"name"`
	Slug    string `yaml:"slug"`
	Author  string `yaml:"author"`
	Variant string `yaml:"variant"`
	System  string `yaml:"system"`

	Palette map[string]string `yaml:"palette"`

	Base00 string `yaml:"base00"`
	Base01 string `yaml:"base01"`
	Base02 string `yaml:"base02"`
	Base03 string `yaml:"base03"`
	Base04 string `yaml:"base04"`
	Base05 string `yaml:"base05"`
	Base06 string `yaml:"base06"`
	Base07 string `yaml:"base07"`
	Base08 string `yaml:"base08"`
	Base09 string `yaml:"base09"`
	Base0A string `yaml:"base0A"`
	Base0B string `yaml:"base0B"`
	Base0C string `yaml:"base0C"`
	Base0D string `yaml:"base0D"`
	Base0E string `yaml:"base0E"`
	Base0F string `yaml:"base0F"`
}

// ParseBase16 converts base16 YAML data into a validated native scheme.
func ParseBase16(data []byte) (*scheme.Scheme, error) {
	var doc base16Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &AdapterError{
			Format:  "base16",
			Message: "failed to parse YAML",
			Err:     err,
		}
	}

	slots := doc.slots()
	if len(slots) == 0 {
		return nil, &AdapterError{
			Format:  "base16",
			Message: "no palette slots found",
		}
	}

	s := &scheme.Scheme{
		Name:    doc.schemeName(),
		Author:  strings.TrimSpace(doc.Author),
		Variant: strings.TrimSpace(doc.Variant),
	}

	for name, value := range slots {
		// Extended slot sets (base17, base24) carry entries the native
		// palette has no home for; ignore them
		if !knownSlot(name) {
			continue
		}
		hex, err := normalizeHex(value)
		if err != nil {
			return nil, &AdapterError{
				Format:  "base16",
				Message: fmt.Sprintf("slot %s", name),
				Err:     err,
			}
		}
		setSlot(&s.Palette, name, hex)
	}

	if err := s.Validate(); err != nil {
		return nil, &AdapterError{
			Format:  "base16",
			Message: "incomplete scheme",
			Err:     err,
		}
	}
	return s, nil
}

// slots collects slot values, preferring the nested palette map.
func (d *base16Document) slots() map[string]string {
	if len(d.Palette) > 0 {
		return d.Palette
	}

	flat := map[string]string{
		"base00": d.Base00, "base01": d.Base01,
		"base02": d.Base02, "base03": d.Base03,
		"base04": d.Base04, "base05": d.Base05,
		"base06": d.Base06, "base07": d.Base07,
		"base08": d.Base08, "base09": d.Base09,
		"base0A": d.Base0A, "base0B": d.Base0B,
		"base0C": d.Base0C, "base0D": d.Base0D,
		"base0E": d.Base0E, "base0F": d.Base0F,
	}

	out := make(map[string]string, len(flat))
	for name, value := range flat {
		if value != "" {
			out[name] = value
		}
	}
	return out
}

// schemeName resolves the native scheme name from the available metadata,
// slugified so it works as a file basename.
func (d *base16Document) schemeName() string {
	for _, candidate := range []string{d.Slug, d.Name, d.Scheme} {
		if strings.TrimSpace(candidate) != "" {
			return Slug(candidate)
		}
	}
	return ""
}

// normalizeHex converts a base16 slot value ("1e1e2e" or "#1e1e2e") to the
// native "#RRGGBB" form.
func normalizeHex(value string) (scheme.HexColor, error) {
	v := strings.TrimSpace(value)
	v = strings.TrimPrefix(v, "#")

	hex := scheme.HexColor("#" + v)
	if !hex.Valid() {
		return "", fmt.Errorf("value %q must be 6 hex digits", value)
	}
	return hex, nil
}

// knownSlot reports whether name is one of the 16 palette slots, matched
// case-insensitively.
func knownSlot(name string) bool {
	n := strings.ToLower(name)
	for _, s := range scheme.SlotNames {
		if strings.ToLower(s) == n {
			return true
		}
	}
	return false
}

// setSlot assigns a color to the named palette slot. Slot names are
// matched case-insensitively; unknown names are reported false.
func setSlot(p *scheme.Palette, name string, hex scheme.HexColor) bool {
	switch strings.ToLower(name) {
	case "base00":
		p.Base00 = hex
	case "base01":
		p.Base01 = hex
	case "base02":
		p.Base02 = hex
	case "base03":
		p.Base03 = hex
	case "base04":
		p.Base04 = hex
	case "base05":
		p.Base05 = hex
	case "base06":
		p.Base06 = hex
	case "base07":
		p.Base07 = hex
	case "base08":
		p.Base08 = hex
	case "base09":
		p.Base09 = hex
	case "base0a":
		p.Base0A = hex
	case "base0b":
		p.Base0B = hex
	case "base0c":
		p.Base0C = hex
	case "base0d":
		p.Base0D = hex
	case "base0e":
		p.Base0E = hex
	case "base0f":
		p.Base0F = hex
	default:
		return false
	}
	return true
}

// Slug converts a scheme title to a file-basename-friendly name:
// lowercase, runs of non-alphanumerics collapsed to single dashes.
func Slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
