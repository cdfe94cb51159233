package render

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/jmylchreest/aether/internal/scheme"
)

// Funcs returns the helper functions available to target templates. All
// helpers are pure so rendering stays deterministic.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"strip": func(v any) string {
			return strings.TrimPrefix(hexString(v), "#")
		},
		"upper": func(v any) string {
			return strings.ToUpper(hexString(v))
		},
		"lower": func(v any) string {
			return strings.ToLower(hexString(v))
		},
		"rgb": func(v any) (string, error) {
			c, err := parseColor(v)
			if err != nil {
				return "", err
			}
			cr, cg, cb := c.RGB255()
			return fmt.Sprintf("%d, %d, %d", cr, cg, cb), nil
		},
		"rgba": func(v any, alpha float64) (string, error) {
			c, err := parseColor(v)
			if err != nil {
				return "", err
			}
			cr, cg, cb := c.RGB255()
			return fmt.Sprintf("rgba(%d, %d, %d, %.2f)", cr, cg, cb, clamp01(alpha)), nil
		},
		"lighten": func(v any, amount float64) (string, error) {
			return shiftLightness(v, amount)
		},
		"darken": func(v any, amount float64) (string, error) {
			return shiftLightness(v, -amount)
		},
		"mix": func(a, b any, t float64) (string, error) {
			ca, err := parseColor(a)
			if err != nil {
				return "", err
			}
			cb, err := parseColor(b)
			if err != nil {
				return "", err
			}
			return ca.BlendLab(cb, clamp01(t)).Clamped().Hex(), nil
		},
	}
}

// hexString normalizes template color arguments to plain strings.
func hexString(v any) string {
	switch c := v.(type) {
	case scheme.HexColor:
		return string(c)
	case string:
		return c
	case fmt.Stringer:
		return c.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func parseColor(v any) (colorful.Color, error) {
	s := hexString(v)
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return c, nil
}

func shiftLightness(v any, amount float64) (string, error) {
	c, err := parseColor(v)
	if err != nil {
		return "", err
	}
	h, s, l := c.Hsl()
	return colorful.Hsl(h, s, clamp01(l+amount)).Clamped().Hex(), nil
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
