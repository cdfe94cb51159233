// Package core provides filtering, sorting, and lookup logic for scheme
// listings.
package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jmylchreest/aether/internal/scheme"
)

// FilterOp represents a comparison operator.
type FilterOp string

const (
	FilterOpEqual    FilterOp = "="  // Exact match
	FilterOpNotEqual FilterOp = "!=" // Not equal
	FilterOpContains FilterOp = "~"  // Contains substring
	FilterOpRegex    FilterOp = "~=" // Regex match
)

// FilterCondition represents a single filter condition.
type FilterCondition struct {
	Field    string   // Field name: name, author, variant, bundled
	Operator FilterOp // Comparison operator
	Value    string   // Value to compare against

	// Cached parsed values for efficiency
	regex   *regexp.Regexp // Compiled regex for ~= operator
	boolVal bool           // Parsed bool value
}

// FilterExpr represents a compound filter expression.
// Multiple conditions are ANDed together.
type FilterExpr struct {
	Conditions []FilterCondition
}

// FilterOptions specifies criteria for filtering scheme listings.
type FilterOptions struct {
	Variant string // Exact match on variant ("" = all)
	Search  string // Case-insensitive substring on name and author
	Limit   int    // Maximum results (0 = unlimited)
}

// Filter filters schemes based on the provided options, preserving order.
func Filter(infos []scheme.Info, opts FilterOptions) []scheme.Info {
	result := make([]scheme.Info, 0, len(infos))

	search := strings.ToLower(strings.TrimSpace(opts.Search))
	for _, info := range infos {
		if opts.Variant != "" && info.Variant != opts.Variant {
			continue
		}

		if search != "" &&
			!strings.Contains(strings.ToLower(info.Name), search) &&
			!strings.Contains(strings.ToLower(info.Author), search) {
			continue
		}

		result = append(result, info)
	}

	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}

	return result
}

// ParseVariant validates a variant filter string.
func ParseVariant(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", scheme.VariantDark, scheme.VariantLight:
		return s, nil
	default:
		return "", fmt.Errorf("invalid variant: %s (use dark or light)", s)
	}
}

// ParseDuration parses a duration string with extended formats.
// Supports: 48h, 7d, 1w, 0 (no limit)
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	// Special case: 0 means no filter
	if s == "0" || s == "" {
		return 0, nil
	}

	// Handle day suffix (7d -> 168h)
	if daysStr, found := strings.CutSuffix(s, "d"); found {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	// Handle week suffix (1w -> 168h)
	if weeksStr, found := strings.CutSuffix(s, "w"); found {
		weeks, err := strconv.Atoi(weeksStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(weeks) * 7 * 24 * time.Hour, nil
	}

	// Standard Go duration parsing
	return time.ParseDuration(s)
}

// ParseFilter parses a filter expression string into a FilterExpr.
// Format: "field=value,field2~value2"
// Multiple conditions are comma-separated and ANDed together.
//
// Supported fields: name, author, variant, bundled
// Supported operators: = (equal), != (not equal), ~ (contains), ~= (regex)
//
// Examples:
//   - "variant=dark" - dark schemes only
//   - "name~gruvbox" - name contains "gruvbox"
//   - "bundled=false" - user-installed schemes only
//   - "name~=(?i)^cat,variant=dark" - regex on name plus variant
func ParseFilter(expr string) (*FilterExpr, error) {
	if expr == "" {
		return &FilterExpr{}, nil
	}

	filter := &FilterExpr{
		Conditions: make([]FilterCondition, 0),
	}

	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		cond, err := parseCondition(part)
		if err != nil {
			return nil, err
		}
		filter.Conditions = append(filter.Conditions, cond)
	}

	return filter, nil
}

// parseCondition parses a single condition like "variant=dark" or "name~gruv"
func parseCondition(s string) (FilterCondition, error) {
	// Try operators in order of specificity (longest first)
	operators := []FilterOp{
		FilterOpNotEqual, // != (must be before =)
		FilterOpRegex,    // ~= (must be before ~)
		FilterOpEqual,
		FilterOpContains,
	}

	for _, op := range operators {
		idx := strings.Index(s, string(op))
		if idx > 0 {
			field := strings.TrimSpace(s[:idx])
			value := strings.TrimSpace(s[idx+len(op):])

			cond := FilterCondition{
				Field:    strings.ToLower(field),
				Operator: op,
				Value:    value,
			}

			if err := cond.init(); err != nil {
				return FilterCondition{}, err
			}

			return cond, nil
		}
	}

	return FilterCondition{}, fmt.Errorf("invalid filter condition: %s (missing operator)", s)
}

// init pre-parses and validates the condition value.
func (c *FilterCondition) init() error {
	switch c.Field {
	case "name", "scheme":
		c.Field = "name" // Normalize
	case "author":
		c.Field = "author"
	case "variant", "mode":
		c.Field = "variant"
		if _, err := ParseVariant(c.Value); err != nil && c.Operator == FilterOpEqual {
			return err
		}
	case "bundled", "builtin":
		c.Field = "bundled"
		c.boolVal = parseBool(c.Value)
	default:
		return fmt.Errorf("unknown filter field: %s", c.Field)
	}

	// Compile regex if needed
	if c.Operator == FilterOpRegex {
		re, err := regexp.Compile(c.Value)
		if err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
		c.regex = re
	}

	return nil
}

// parseBool parses various boolean representations.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "true", "yes", "1", "y", "t":
		return true
	default:
		return false
	}
}

// Match tests if a scheme matches the filter expression.
// All conditions must match (AND logic).
func (f *FilterExpr) Match(info scheme.Info) bool {
	for _, cond := range f.Conditions {
		if !cond.Match(info) {
			return false
		}
	}
	return true
}

// Match tests if a scheme matches this single condition.
func (c *FilterCondition) Match(info scheme.Info) bool {
	switch c.Field {
	case "name":
		return c.matchString(info.Name)
	case "author":
		return c.matchString(info.Author)
	case "variant":
		return c.matchString(info.Variant)
	case "bundled":
		return c.matchBool(info.IsBundled)
	default:
		return false
	}
}

// matchString matches a string field.
func (c *FilterCondition) matchString(fieldValue string) bool {
	switch c.Operator {
	case FilterOpEqual:
		return fieldValue == c.Value
	case FilterOpNotEqual:
		return fieldValue != c.Value
	case FilterOpContains:
		return strings.Contains(strings.ToLower(fieldValue), strings.ToLower(c.Value))
	case FilterOpRegex:
		return c.regex != nil && c.regex.MatchString(fieldValue)
	default:
		return false
	}
}

// matchBool matches a boolean field.
func (c *FilterCondition) matchBool(fieldValue bool) bool {
	switch c.Operator {
	case FilterOpEqual:
		return fieldValue == c.boolVal
	case FilterOpNotEqual:
		return fieldValue != c.boolVal
	default:
		return false
	}
}

// FilterWithExpr filters schemes using a filter expression.
func FilterWithExpr(infos []scheme.Info, expr *FilterExpr) []scheme.Info {
	if expr == nil || len(expr.Conditions) == 0 {
		return infos
	}

	result := make([]scheme.Info, 0, len(infos))
	for _, info := range infos {
		if expr.Match(info) {
			result = append(result, info)
		}
	}
	return result
}
