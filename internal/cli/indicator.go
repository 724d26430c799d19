package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tmcosta/goine/pkg/ine"
)

// indicatorCommand creates the indicator detail command.
func (c *CLI) indicatorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "indicator <code>",
		Short: "Show catalogue details for one indicator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			api, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			defer api.Close()

			ind, err := api.Indicator(ctx, args[0])
			if err != nil {
				return decorate(err)
			}

			printIndicatorDetail(ind)
			printNewline()
			printNextStep("Inspect dimensions", fmt.Sprintf("goine metadata %s", ind.Code))
			printNextStep("Extract data", fmt.Sprintf("goine data %s", ind.Code))
			return nil
		},
	}
}

// printIndicatorDetail renders one catalogue entry as labeled lines.
func printIndicatorDetail(ind *ine.Indicator) {
	fmt.Println(StyleTitle.Render(ind.Title))
	printNewline()
	printKeyValue("Code", ind.Code)
	printKeyValue("Theme", joinNonEmpty(ind.Theme, ind.Subtheme))
	printKeyValue("Periodicity", ind.Periodicity)
	printKeyValue("Unit", ind.Unit)
	printKeyValue("Source", ind.Source)
	if ind.GeoLevel != "" {
		printKeyValue("Geo level", ind.GeoLevel)
	}
	printKeyValue("Last period", ind.LastPeriod)
	if ind.LastUpdate != nil {
		printKeyValue("Last update", ind.LastUpdate.Format("2006-01-02"))
	}
	if ind.HTMLURL != "" {
		printKeyValue("Web", StyleLink.Render(ind.HTMLURL))
	}
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " / "
		}
		out += p
	}
	return out
}

// themesCommand creates the theme listing command.
func (c *CLI) themesCommand() *cobra.Command {
	var theme string

	cmd := &cobra.Command{
		Use:   "themes",
		Short: "List catalogue themes and subthemes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			api, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			defer api.Close()

			spin := newSpinner(ctx, "Loading catalogue…")
			spin.Start()

			var items []string
			if theme == "" {
				items, err = api.Themes(ctx)
			} else {
				items, err = api.Subthemes(ctx, theme)
			}

			spin.Stop()
			if err != nil {
				return decorate(err)
			}

			if len(items) == 0 {
				printInfo("No themes found")
				return nil
			}
			for _, item := range items {
				fmt.Println(item)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "", "list subthemes of this theme instead")

	return cmd
}
