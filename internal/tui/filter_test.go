package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/aether/internal/scheme"
)

func testListing() []scheme.Info {
	return []scheme.Info{
		{Name: "aether", Variant: "dark", Author: "aether authors", IsBundled: true},
		{Name: "gruvbox-dark", Variant: "dark", Author: "Dawid Kurek", IsBundled: true},
		{Name: "gruvbox-light", Variant: "light", Author: "Dawid Kurek", IsBundled: true},
		{Name: "mine", Variant: "dark", Path: "/tmp/mine.toml"},
	}
}

func TestFilterInfos(t *testing.T) {
	tests := []struct {
		name     string
		variant  string
		userOnly bool
		query    string
		expected []string
	}{
		{"no_filters", "", false, "", []string{"aether", "gruvbox-dark", "gruvbox-light", "mine"}},
		{"dark_only", "dark", false, "", []string{"aether", "gruvbox-dark", "mine"}},
		{"light_only", "light", false, "", []string{"gruvbox-light"}},
		{"user_only", "", true, "", []string{"mine"}},
		{"query_name", "", false, "gruv", []string{"gruvbox-dark", "gruvbox-light"}},
		{"query_author", "", false, "kurek", []string{"gruvbox-dark", "gruvbox-light"}},
		{"query_case_insensitive", "", false, "GRUV", []string{"gruvbox-dark", "gruvbox-light"}},
		{"combined", "dark", false, "gruv", []string{"gruvbox-dark"}},
		{"no_matches", "", false, "nord", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterInfos(testListing(), tt.variant, tt.userOnly, tt.query)
			var names []string
			for _, info := range got {
				names = append(names, info.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestMatchesQuery_EmptyMatchesEverything(t *testing.T) {
	for _, info := range testListing() {
		assert.True(t, matchesQuery(info, ""))
	}
}

func TestCycleVariant(t *testing.T) {
	assert.Equal(t, "dark", cycleVariant(""))
	assert.Equal(t, "light", cycleVariant("dark"))
	assert.Equal(t, "", cycleVariant("light"))
}

func TestSchemeItem_Description(t *testing.T) {
	tests := []struct {
		name     string
		info     scheme.Info
		expected string
	}{
		{
			"bundled_with_author",
			scheme.Info{Name: "aether", Variant: "dark", Author: "aether authors", IsBundled: true},
			"dark | bundled | by aether authors",
		},
		{
			"user_no_author",
			scheme.Info{Name: "mine", Variant: "light", Path: "/tmp/mine.toml"},
			"light | user",
		},
		{
			"missing_variant",
			scheme.Info{Name: "plain", IsBundled: true},
			"- | bundled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := schemeItem{info: tt.info}
			assert.Equal(t, tt.expected, item.Description())
		})
	}
}
