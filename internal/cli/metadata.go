package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// metadataCommand creates the metadata inspection command.
func (c *CLI) metadataCommand() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "metadata <code>",
		Short: "Show dimensions and dimension values for an indicator",
		Long: `Show the dimensions of an indicator and, with --full, every valid
value code per dimension. Value codes are what the data command accepts
as --dim filters.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			api, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			defer api.Close()

			spin := newSpinner(ctx, "Fetching metadata…")
			spin.Start()
			meta, err := api.GetMetadata(ctx, args[0])
			spin.Stop()
			if err != nil {
				return decorate(err)
			}

			fmt.Println(StyleTitle.Render(meta.Title))
			printNewline()
			printKeyValue("Code", meta.Code)
			printKeyValue("Unit", meta.Unit)
			printKeyValue("Source", meta.Source)
			printKeyValue("Periodicity", meta.Periodicity)
			if meta.LastPeriod != "" {
				printKeyValue("Last period", meta.LastPeriod)
			}
			printNewline()

			for _, dim := range meta.Dimensions {
				header := fmt.Sprintf("%s  %s", dim.ID, dim.Name)
				fmt.Println(StyleHighlight.Render(header) + StyleDim.Render(fmt.Sprintf("  (%d values)", len(dim.Values))))
				if !full {
					continue
				}
				rows := make([][]string, 0, len(dim.Values))
				for _, v := range dim.Values {
					rows = append(rows, []string{v.Code, v.Label})
				}
				printColumns([]string{"CODE", "LABEL"}, rows)
				printNewline()
			}

			if !full {
				printNewline()
				printNextStep("List value codes", fmt.Sprintf("goine metadata %s --full", meta.Code))
			}
			printNextStep("Filter data", fmt.Sprintf("goine data %s --dim Dim1=<code>", meta.Code))
			return nil
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "list every value code per dimension")

	return cmd
}
