// Package core provides filtering, sorting, and lookup logic for scheme
// listings.
package core

import (
	"sort"
	"strings"

	"github.com/jmylchreest/aether/internal/scheme"
)

// SortField represents a field to sort by.
type SortField string

const (
	SortByName    SortField = "name"
	SortByVariant SortField = "variant"
	SortBySource  SortField = "source"
)

// SortOrder represents ascending or descending order.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortOptions specifies sorting criteria.
type SortOptions struct {
	Field SortField // Field to sort by
	Order SortOrder // Sort order (asc/desc)
}

// DefaultSortOptions returns default sort options (name ascending).
func DefaultSortOptions() SortOptions {
	return SortOptions{
		Field: SortByName,
		Order: SortAsc,
	}
}

// Sort sorts scheme listings in place based on the provided options.
func Sort(infos []scheme.Info, opts SortOptions) {
	if len(infos) == 0 {
		return
	}

	sort.SliceStable(infos, func(i, j int) bool {
		var less bool

		switch opts.Field {
		case SortByName:
			less = strings.ToLower(infos[i].Name) < strings.ToLower(infos[j].Name)
		case SortByVariant:
			less = infos[i].Variant < infos[j].Variant
		case SortBySource:
			// Bundled first, then by name
			if infos[i].IsBundled != infos[j].IsBundled {
				less = infos[i].IsBundled
			} else {
				less = strings.ToLower(infos[i].Name) < strings.ToLower(infos[j].Name)
			}
		default:
			less = strings.ToLower(infos[i].Name) < strings.ToLower(infos[j].Name)
		}

		if opts.Order == SortDesc {
			return !less
		}
		return less
	})
}

// ParseSortField parses a sort field string.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", "n":
		return SortByName, nil
	case "variant", "v":
		return SortByVariant, nil
	case "source", "s":
		return SortBySource, nil
	default:
		return SortByName, nil
	}
}

// ParseSortOrder parses a sort order string.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending", "a":
		return SortAsc, nil
	case "desc", "descending", "d":
		return SortDesc, nil
	default:
		return SortAsc, nil
	}
}
