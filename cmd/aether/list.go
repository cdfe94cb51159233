package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/aether/internal/adapter/output"
	"github.com/jmylchreest/aether/internal/core"
	"github.com/jmylchreest/aether/internal/scheme"
	"github.com/jmylchreest/aether/internal/state"
)

var listOpts struct {
	// Filter options
	variant string
	search  string
	filter  string
	limit   int

	// Sort options
	sortBy    string
	sortOrder string

	// Output options
	format   string
	template string
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available colorschemes",
	Long: `List bundled and user colorschemes in various formats.

The applied scheme is marked with a * in plain output. User scheme files
shadow bundled schemes with the same name.

Examples:
  # List all schemes
  aether list

  # Only dark schemes
  aether list --variant dark

  # Search by name or author
  aether list --search gruvbox

  # Filter expressions (field=value, field!=value, field~substr, field~=regex)
  aether list --filter "variant=dark,bundled=false"

  # Bare names for scripting
  aether list --format names

  # Pipe through a picker and apply the selection
  aether list --format dmenu | fuzzel -d | cut -d'|' -f2 | xargs aether apply`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	// Filter flags
	listCmd.Flags().StringVar(&listOpts.variant, "variant", "",
		"Filter by variant (dark, light)")
	listCmd.Flags().StringVarP(&listOpts.search, "search", "s", "",
		"Search in name and author")
	listCmd.Flags().StringVar(&listOpts.filter, "filter", "",
		"Filter expression (comma-separated conditions on name, author, variant, bundled)")
	listCmd.Flags().IntVarP(&listOpts.limit, "limit", "n", 0,
		"Maximum number of schemes to show (0=unlimited)")

	// Sort flags
	listCmd.Flags().StringVar(&listOpts.sortBy, "sort", "",
		"Sort by field (name, variant, source)")
	listCmd.Flags().StringVar(&listOpts.sortOrder, "order", "asc",
		"Sort order (asc, desc)")

	// Output flags
	listCmd.Flags().StringVarP(&listOpts.format, "format", "f", "",
		"Output format (plain, json, dmenu, names)")
	listCmd.Flags().StringVar(&listOpts.template, "template", "",
		"Custom Go template for output formatting")
}

func runList(cmd *cobra.Command, args []string) error {
	infos := getLoader().ListSchemes()

	infos, err := filterListing(infos)
	if err != nil {
		return err
	}
	if err := sortListing(infos); err != nil {
		return err
	}
	if listOpts.limit > 0 && len(infos) > listOpts.limit {
		infos = infos[:listOpts.limit]
	}

	if len(infos) == 0 {
		logger.Debug("no schemes to list")
		return nil
	}

	formatter, err := createListFormatter()
	if err != nil {
		return err
	}
	return formatter.Format(os.Stdout, infos)
}

// filterListing applies variant/search/expression filters.
func filterListing(infos []scheme.Info) ([]scheme.Info, error) {
	variant := listOpts.variant
	if variant == "" {
		variant = cfg.List.Variant
	}
	if variant != "" {
		v, err := core.ParseVariant(variant)
		if err != nil {
			return nil, err
		}
		variant = v
	}

	infos = core.Filter(infos, core.FilterOptions{
		Variant: variant,
		Search:  listOpts.search,
		Limit:   0, // limit applies after expressions and sort
	})

	if listOpts.filter != "" {
		expr, err := core.ParseFilter(listOpts.filter)
		if err != nil {
			return nil, fmt.Errorf("invalid filter: %w", err)
		}
		infos = core.FilterWithExpr(infos, expr)
	}

	return infos, nil
}

// sortListing sorts in place per flags, falling back to config.
func sortListing(infos []scheme.Info) error {
	sortBy := listOpts.sortBy
	if sortBy == "" {
		sortBy = cfg.List.Sort
	}

	field, err := core.ParseSortField(sortBy)
	if err != nil {
		return err
	}
	order, err := core.ParseSortOrder(listOpts.sortOrder)
	if err != nil {
		return err
	}

	core.Sort(infos, core.SortOptions{
		Field: field,
		Order: order,
	})
	return nil
}

// createListFormatter builds the output formatter from flags and config.
func createListFormatter() (output.Formatter, error) {
	name := listOpts.format
	if name == "" {
		name = cfg.List.Format
	}

	var format output.FormatType
	switch strings.ToLower(name) {
	case "json":
		format = output.FormatJSON
	case "dmenu":
		format = output.FormatDmenu
	case "names":
		format = output.FormatNames
	case "", "plain":
		format = output.FormatPlain
	default:
		return nil, fmt.Errorf("unknown format %q (plain, json, dmenu, names)", name)
	}

	opts := output.DefaultFormatterOptions()
	if cfg.List.Separator != "" {
		opts.Separator = cfg.List.Separator
	}

	// Mark the applied scheme in listings
	if st, err := state.Load(); err == nil && st.HasScheme() {
		opts.Current = st.SchemeName
	}

	opts.Template = listOpts.template
	if opts.Template == "" {
		opts.Template = cfg.GetTemplate(string(format))
	}
	if opts.Template == "" && format == output.FormatPlain {
		opts.Template = cfg.GetTemplate("list")
	}

	return output.NewFormatter(format, opts), nil
}
