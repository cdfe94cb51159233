// Package core provides filtering, sorting, and lookup logic for scheme
// listings.
package core

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jmylchreest/aether/internal/scheme"
)

// LookupByName finds a scheme listing by exact name.
// Returns nil if not found.
func LookupByName(infos []scheme.Info, name string) *scheme.Info {
	for i := range infos {
		if infos[i].Name == name {
			return &infos[i]
		}
	}
	return nil
}

// LookupByIndex finds a scheme listing by its index (1-based for
// user-friendliness). Returns nil if index is out of bounds.
func LookupByIndex(infos []scheme.Info, index int) *scheme.Info {
	idx := index - 1
	if idx < 0 || idx >= len(infos) {
		return nil
	}
	return &infos[idx]
}

// Search finds schemes matching a search term in name or author.
// Case-insensitive substring match.
func Search(infos []scheme.Info, term string) []scheme.Info {
	if term == "" {
		return infos
	}

	term = strings.ToLower(term)
	var result []scheme.Info

	for _, info := range infos {
		if strings.Contains(strings.ToLower(info.Name), term) ||
			strings.Contains(strings.ToLower(info.Author), term) {
			result = append(result, info)
		}
	}

	return result
}

// maxSuggestDistance bounds how far a candidate may be from the input to
// still count as a plausible typo.
const maxSuggestDistance = 3

// Suggest returns the closest candidate to name by Levenshtein distance,
// or "" when nothing is plausibly close. Used for "did you mean" hints on
// unknown scheme names.
func Suggest(name string, candidates []string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}

	best := ""
	bestDist := maxSuggestDistance + 1

	for _, candidate := range candidates {
		dist := levenshtein.ComputeDistance(name, strings.ToLower(candidate))
		if dist < bestDist {
			bestDist = dist
			best = candidate
		}
	}

	// A suggestion further away than the name is long is noise
	if bestDist > len(name) {
		return ""
	}
	return best
}
