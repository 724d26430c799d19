package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// dataOpts holds the command-line flags for the data command.
type dataOpts struct {
	dims   []string // raw Dim filters as "DimN=code" pairs
	format string   // table, json, or csv
	output string   // output file path (stdout if empty)
	limit  int      // maximum table rows to print (0 = all)
}

// dataCommand creates the data extraction command.
func (c *CLI) dataCommand() *cobra.Command {
	opts := dataOpts{format: "table", limit: 40}

	cmd := &cobra.Command{
		Use:   "data <code>",
		Short: "Extract a data series for an indicator",
		Long: `Extract the data series for an indicator, optionally filtered per
dimension. Filters are validated against the indicator's metadata before
any data request is made.

Examples:
  goine data 0004167
  goine data 0004167 --dim Dim1=S7A2023 --dim Dim2=PT
  goine data 0004167 --format csv --output population.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runData(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.dims, "dim", "d", nil, "dimension filter as DimN=code (repeatable)")
	cmd.Flags().StringVar(&opts.format, "format", "table", "output format: table, json, or csv")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().IntVar(&opts.limit, "limit", 40, "maximum table rows to print (0 for all)")

	return cmd
}

func (c *CLI) runData(cmd *cobra.Command, code string, opts dataOpts) error {
	ctx := cmd.Context()

	filters, err := parseDimFlags(opts.dims)
	if err != nil {
		return err
	}

	api, err := c.newClient(ctx)
	if err != nil {
		return err
	}
	defer api.Close()

	// File output goes through the export helpers so metadata comments and
	// indentation stay consistent with the library API.
	if opts.output != "" {
		prog := newProgress(c.Logger)
		switch opts.format {
		case "csv":
			err = api.ExportCSV(ctx, code, opts.output, filters, true)
		case "json":
			err = api.ExportJSON(ctx, code, opts.output, filters, true)
		default:
			return fmt.Errorf("format %q cannot be written to a file (use csv or json)", opts.format)
		}
		if err != nil {
			return decorate(err)
		}
		prog.done("Exported " + code)
		printFile(opts.output)
		return nil
	}

	spin := newSpinner(ctx, "Fetching data…")
	spin.Start()
	table, err := api.GetData(ctx, code, filters)
	spin.Stop()
	if err != nil {
		return decorate(err)
	}

	switch opts.format {
	case "table":
		fmt.Println(StyleTitle.Render(table.Title))
		if table.Unit != "" {
			printDetail("Unit: %s", table.Unit)
		}
		printNewline()
		printDataTable(table, opts.limit)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(table); err != nil {
			return err
		}
	case "csv":
		if err := table.WriteCSV(os.Stdout); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (expected table, json, or csv)", opts.format)
	}

	return nil
}

// parseDimFlags converts repeated "DimN=code" flags into a filter map.
func parseDimFlags(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	filters := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("invalid --dim %q (expected DimN=code)", pair)
		}
		filters[key] = value
	}
	return filters, nil
}
