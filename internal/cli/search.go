package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tmcosta/goine/pkg/ine"
)

// searchOpts holds the command-line flags for the search command.
type searchOpts struct {
	theme       string // restrict matches to a theme prefix
	limit       int    // maximum results to print (0 = all)
	interactive bool   // open the bubbletea picker on the results
}

// searchCommand creates the catalogue search command.
func (c *CLI) searchCommand() *cobra.Command {
	opts := searchOpts{limit: 25}

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the indicator catalogue by title",
		Long: `Search the indicator catalogue by title substring.

With no query, lists the whole catalogue. The first search fetches the
complete catalogue from INE and caches it for subsequent runs.

Examples:
  goine search population
  goine search --theme Economy prices
  goine search -i population        # interactive picker`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			return c.runSearch(cmd, query, opts)
		},
	}

	cmd.Flags().StringVar(&opts.theme, "theme", "", "restrict results to a catalogue theme")
	cmd.Flags().IntVar(&opts.limit, "limit", 25, "maximum results to show (0 for all)")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick an indicator interactively")

	return cmd
}

func (c *CLI) runSearch(cmd *cobra.Command, query string, opts searchOpts) error {
	ctx := cmd.Context()

	api, err := c.newClient(ctx)
	if err != nil {
		return err
	}
	defer api.Close()

	spin := newSpinner(ctx, "Searching catalogue…")
	spin.Start()

	results, err := api.Search(ctx, query)
	if err == nil && opts.theme != "" {
		results = filterTheme(results, opts.theme)
	}

	spin.Stop()
	if err != nil {
		return decorate(err)
	}

	if len(results) == 0 {
		printInfo("No indicators match %q", query)
		return nil
	}

	if opts.interactive {
		selected, err := pickIndicator(results)
		if err != nil {
			return err
		}
		if selected == nil {
			return nil
		}
		printIndicatorDetail(selected)
		printNewline()
		printNextStep("Extract data", fmt.Sprintf("goine data %s", selected.Code))
		return nil
	}

	shown := results
	if opts.limit > 0 && len(shown) > opts.limit {
		shown = shown[:opts.limit]
	}

	printIndicatorList(shown)
	if len(shown) < len(results) {
		printDetail("… %d more matches (use --limit 0 to show all)", len(results)-len(shown))
	}
	printNewline()
	printNextStep("Inspect an indicator", "goine indicator <code>")

	return nil
}

// filterTheme keeps indicators whose theme matches the given prefix.
func filterTheme(indicators []ine.Indicator, theme string) []ine.Indicator {
	out := make([]ine.Indicator, 0, len(indicators))
	for _, ind := range indicators {
		if matchesTheme(ind.Theme, theme) {
			out = append(out, ind)
		}
	}
	return out
}

func matchesTheme(have, want string) bool {
	return strings.HasPrefix(strings.ToLower(have), strings.ToLower(want))
}
