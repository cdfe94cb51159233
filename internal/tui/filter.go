package tui

import (
	"strings"

	"github.com/jmylchreest/aether/internal/scheme"
)

// filterInfos narrows a scheme listing by variant, source and search query.
func filterInfos(infos []scheme.Info, variant string, userOnly bool, query string) []scheme.Info {
	var out []scheme.Info
	for _, info := range infos {
		if variant != "" && info.Variant != variant {
			continue
		}
		if userOnly && info.IsBundled {
			continue
		}
		if !matchesQuery(info, query) {
			continue
		}
		out = append(out, info)
	}
	return out
}

// matchesQuery reports whether the scheme matches a free-text search.
// Matching is case-insensitive over name and author.
func matchesQuery(info scheme.Info, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(info.Name), q) ||
		strings.Contains(strings.ToLower(info.Author), q)
}

// cycleVariant advances the variant filter: all -> dark -> light -> all.
func cycleVariant(current string) string {
	switch current {
	case "":
		return scheme.VariantDark
	case scheme.VariantDark:
		return scheme.VariantLight
	default:
		return ""
	}
}

// variantFilterLabel names the active variant filter for the status line.
func variantFilterLabel(variant string) string {
	if variant == "" {
		return "all"
	}
	return variant
}
