package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tmcosta/goine/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the response cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheStatsCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cached responses",
		Long: `Clear cached responses. By default every namespace is cleared;
--namespace restricts clearing to "data" or "metadata".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch namespace {
			case "", cache.NamespaceData, cache.NamespaceMetadata:
			default:
				return fmt.Errorf("unknown namespace %q (expected %q or %q)",
					namespace, cache.NamespaceData, cache.NamespaceMetadata)
			}

			api, err := c.newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer api.Close()

			count, err := api.ClearCache(cmd.Context(), namespace)
			if err != nil {
				return decorate(err)
			}

			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			return nil
		},
	}

	cmd.Flags().StringVar(&namespace, "namespace", "", "clear only this namespace (data or metadata)")

	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Println(cfg.Cache.Dir)
			return nil
		},
	}
}

// cacheStatsCommand creates the "cache stats" subcommand.
func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry counts and sizes per namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := c.newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer api.Close()

			stats, err := api.CacheStats(cmd.Context())
			if err != nil {
				return decorate(err)
			}

			names := make([]string, 0, len(stats.Namespaces))
			for name := range stats.Namespaces {
				names = append(names, name)
			}
			sort.Strings(names)

			rows := make([][]string, 0, len(names)+1)
			for _, name := range names {
				ns := stats.Namespaces[name]
				rows = append(rows, []string{name, fmt.Sprintf("%d", ns.Entries), formatBytes(ns.Bytes)})
			}
			rows = append(rows, []string{"total", fmt.Sprintf("%d", stats.Entries), formatBytes(stats.Bytes)})

			printColumns([]string{"NAMESPACE", "ENTRIES", "SIZE"}, rows)
			return nil
		},
	}
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
