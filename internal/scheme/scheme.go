package scheme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// hexColorRegex matches a 6-digit hex color with a leading '#'.
var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// HexColor is a hex color string in "#RRGGBB" form.
type HexColor string

// Valid reports whether the color is a well-formed 6-digit hex string.
func (c HexColor) Valid() bool {
	return hexColorRegex.MatchString(string(c))
}

// Strip returns the color without its leading '#'.
func (c HexColor) Strip() string {
	return strings.TrimPrefix(string(c), "#")
}

// Variant values recognized in scheme metadata.
const (
	VariantDark  = "dark"
	VariantLight = "light"
)

// SlotCount is the number of color slots in a palette.
const SlotCount = 16

// SlotNames lists the palette slots in canonical order.
var SlotNames = [SlotCount]string{
	"base00", "base01", "base02", "base03",
	"base04", "base05", "base06", "base07",
	"base08", "base09", "base0A", "base0B",
	"base0C", "base0D", "base0E", "base0F",
}

// SlotRoles maps each slot to its conventional role. Used for display only;
// nothing in the apply pipeline depends on these descriptions.
var SlotRoles = map[string]string{
	"base00": "default background",
	"base01": "lighter background",
	"base02": "selection background",
	"base03": "comments, invisibles",
	"base04": "dark foreground",
	"base05": "default foreground",
	"base06": "light foreground",
	"base07": "lightest foreground",
	"base08": "variables, errors",
	"base09": "integers, constants",
	"base0A": "classes, search",
	"base0B": "strings, insertions",
	"base0C": "support, regex",
	"base0D": "functions, headings",
	"base0E": "keywords, changes",
	"base0F": "deprecated, special",
}

// Palette holds the 16 fixed color slots consumed by every render target.
type Palette struct {
	Base00 HexColor `toml:"base00" yaml:"base00" json:"base00"`
	Base01 HexColor `toml:"base01" yaml:"base01" json:"base01"`
	Base02 HexColor `toml:"base02" yaml:"base02" json:"base02"`
	Base03 HexColor `toml:"base03" yaml:"base03" json:"base03"`
	Base04 HexColor `toml:"base04" yaml:"base04" json:"base04"`
	Base05 HexColor `toml:"base05" yaml:"base05" json:"base05"`
	Base06 HexColor `toml:"base06" yaml:"base06" json:"base06"`
	Base07 HexColor `toml:"base07" yaml:"base07" json:"base07"`
	Base08 HexColor `toml:"base08" yaml:"base08" json:"base08"`
	Base09 HexColor `toml:"base09" yaml:"base09" json:"base09"`
	Base0A HexColor `toml:"base0A" yaml:"base0A" json:"base0A"`
	Base0B HexColor `toml:"base0B" yaml:"base0B" json:"base0B"`
	Base0C HexColor `toml:"base0C" yaml:"base0C" json:"base0C"`
	Base0D HexColor `toml:"base0D" yaml:"base0D" json:"base0D"`
	Base0E HexColor `toml:"base0E" yaml:"base0E" json:"base0E"`
	Base0F HexColor `toml:"base0F" yaml:"base0F" json:"base0F"`
}

// Slot is a named palette entry.
type Slot struct {
	Name  string
	Color HexColor
}

// Slots returns all palette entries in canonical slot order.
func (p *Palette) Slots() []Slot {
	colors := [SlotCount]HexColor{
		p.Base00, p.Base01, p.Base02, p.Base03,
		p.Base04, p.Base05, p.Base06, p.Base07,
		p.Base08, p.Base09, p.Base0A, p.Base0B,
		p.Base0C, p.Base0D, p.Base0E, p.Base0F,
	}

	slots := make([]Slot, SlotCount)
	for i, name := range SlotNames {
		slots[i] = Slot{Name: name, Color: colors[i]}
	}
	return slots
}

// Slot returns the color for a slot name.
func (p *Palette) Slot(name string) (HexColor, bool) {
	for _, s := range p.Slots() {
		if s.Name == name {
			return s.Color, true
		}
	}
	return "", false
}

// Map returns the palette as a slot-name keyed map.
func (p *Palette) Map() map[string]HexColor {
	m := make(map[string]HexColor, SlotCount)
	for _, s := range p.Slots() {
		m[s.Name] = s.Color
	}
	return m
}

// Scheme is a named 16-slot palette with optional metadata. Provenance
// fields are populated by Load and never serialized.
type Scheme struct {
	Name    string  `toml:"name" yaml:"name" json:"name"`
	Author  string  `toml:"author,omitempty" yaml:"author,omitempty" json:"author,omitempty"`
	Variant string  `toml:"variant,omitempty" yaml:"variant,omitempty" json:"variant,omitempty"`
	Palette Palette `toml:"palette" yaml:"palette" json:"palette"`

	// Provenance
	Path      string    `toml:"-" yaml:"-" json:"-"`
	ModTime   time.Time `toml:"-" yaml:"-" json:"-"`
	IsBundled bool      `toml:"-" yaml:"-" json:"-"`
}

// Validation errors.
var (
	ErrNameRequired   = errors.New("scheme name is required")
	ErrUnknownVariant = errors.New(`scheme variant must be "dark" or "light"`)
	ErrSchemeNotFound = errors.New("scheme not found")
)

// SlotError describes an invalid or missing palette slot.
type SlotError struct {
	Scheme string
	Slot   string
	Value  HexColor
}

func (e *SlotError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("scheme %s: slot %s is missing", e.Scheme, e.Slot)
	}
	return fmt.Sprintf("scheme %s: slot %s value %q must match #RRGGBB", e.Scheme, e.Slot, e.Value)
}

// Validate checks the scheme invariants: a non-empty name, a recognized
// variant (empty defaults to dark), and all 16 slots present as valid
// 6-digit hex colors.
func (s *Scheme) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrNameRequired
	}
	switch s.Variant {
	case "", VariantDark, VariantLight:
	default:
		return fmt.Errorf("scheme %s: %w (got %q)", s.Name, ErrUnknownVariant, s.Variant)
	}
	for _, slot := range s.Palette.Slots() {
		if !slot.Color.Valid() {
			return &SlotError{Scheme: s.Name, Slot: slot.Name, Value: slot.Color}
		}
	}
	return nil
}

// Dark reports whether the scheme is a dark variant. Schemes without an
// explicit variant are treated as dark.
func (s *Scheme) Dark() bool {
	return s.Variant != VariantLight
}

// Equal reports whether two schemes carry the same content, ignoring
// provenance.
func (s *Scheme) Equal(other *Scheme) bool {
	if other == nil {
		return false
	}
	return s.Name == other.Name &&
		s.Author == other.Author &&
		s.Variant == other.Variant &&
		s.Palette == other.Palette
}

// Extensions recognized by Load, in resolution order.
var Extensions = []string{".toml", ".yaml", ".yml"}

// Parse decodes scheme data in the format implied by ext (".toml", ".yaml"
// or ".yml"). The result is validated before being returned.
func Parse(data []byte, ext string) (*Scheme, error) {
	var s Scheme
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode toml scheme: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode yaml scheme: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported scheme format %q", ext)
	}

	s.Name = strings.TrimSpace(s.Name)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads a scheme file from disk. The scheme name defaults to the file
// basename when the file does not declare one.
func Load(path string) (*Scheme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)

	var s Scheme
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported scheme format %q", ext)
	}

	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		s.Name = base
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	s.Path = path
	s.ModTime = info.ModTime()
	return &s, nil
}

// Reload re-reads the scheme from disk when its file has been modified.
// Returns true if the content changed. Bundled schemes never change.
func (s *Scheme) Reload() (bool, error) {
	if s.IsBundled || s.Path == "" {
		return false, nil
	}

	info, err := os.Stat(s.Path)
	if err != nil {
		return false, err
	}
	if !info.ModTime().After(s.ModTime) {
		return false, nil
	}

	fresh, err := Load(s.Path)
	if err != nil {
		return false, err
	}

	changed := !s.Equal(fresh)
	*s = *fresh
	return changed, nil
}

// Encode renders the scheme in its canonical on-disk TOML form.
func (s *Scheme) Encode() ([]byte, error) {
	return toml.Marshal(s)
}
