// Package preview renders a scheme in the terminal: metadata, a swatch
// line per palette slot, and a syntax highlighted code sample.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/aether/internal/scheme"
)

// Render returns the full terminal preview for a scheme.
func Render(s *scheme.Scheme) (string, error) {
	var b strings.Builder

	b.WriteString(header(s))
	b.WriteString("\n\n")
	b.WriteString(Swatches(s))
	b.WriteString("\n")

	sample, err := CodeSample(s)
	if err != nil {
		return "", err
	}
	b.WriteString(sample)

	return b.String(), nil
}

func header(s *scheme.Scheme) string {
	nameStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(string(s.Palette.Base0D)))
	metaStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(string(s.Palette.Base03)))

	out := nameStyle.Render(s.Name)

	meta := s.Variant
	if s.Author != "" {
		if meta != "" {
			meta += ", "
		}
		meta += "by " + s.Author
	}
	if meta != "" {
		out += " " + metaStyle.Render("("+meta+")")
	}
	return out
}

// Swatches renders one line per slot: a color block, the slot name, the
// hex value and the slot's conventional role.
func Swatches(s *scheme.Scheme) string {
	roleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	var b strings.Builder
	for _, slot := range s.Palette.Slots() {
		block := lipgloss.NewStyle().
			Background(lipgloss.Color(string(slot.Color))).
			Render("      ")
		b.WriteString(fmt.Sprintf("%s  %s  %s  %s\n",
			block, slot.Name, slot.Color, roleStyle.Render(scheme.SlotRoles[slot.Name])))
	}
	return b.String()
}
