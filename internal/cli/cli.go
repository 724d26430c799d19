// Package cli implements the goine command-line interface.
//
// This package provides commands for searching the indicator catalogue,
// inspecting indicator metadata, extracting data series, and managing the
// response cache. The CLI is built using cobra and supports verbose logging
// via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - search: Search the indicator catalogue by title
//   - indicator: Show catalogue details for one indicator
//   - metadata: Show dimensions and dimension values
//   - data: Extract a data series, optionally filtered per dimension
//   - themes: List catalogue themes and subthemes
//   - cache: Manage the response cache
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tmcosta/goine/pkg/buildinfo"
	"github.com/tmcosta/goine/pkg/client"
	"github.com/tmcosta/goine/pkg/config"
	"github.com/tmcosta/goine/pkg/ine"
)

// appName is the application name used for directories and display.
const appName = "goine"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Persistent flag values, bound in RootCommand.
	configPath string
	lang       string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Goine queries the INE Portugal statistics API",
		Long:         `Goine is a CLI for the INE Portugal (Instituto Nacional de Estatística) open data API: search the indicator catalogue, inspect dimensions, and extract data series as tables, JSON, or CSV.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to config file (default ~/.config/goine/config.toml)")
	root.PersistentFlags().StringVar(&c.lang, "lang", "", "response language: EN or PT")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "bypass the response cache")

	// Register all subcommands
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.indicatorCommand())
	root.AddCommand(c.metadataCommand())
	root.AddCommand(c.dataCommand())
	root.AddCommand(c.themesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Client Factory
// =============================================================================

// loadConfig resolves the effective configuration from file, environment,
// and persistent flags. Flags win over both.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.lang != "" {
		cfg.Language = c.lang
	}
	if c.noCache {
		cfg.Cache.Backend = config.BackendOff
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newClient builds an API client from the effective configuration.
// Callers own the returned client and must Close it.
func (c *CLI) newClient(ctx context.Context) (*client.Client, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return client.New(ctx, cfg, c.Logger)
}

// =============================================================================
// Error Presentation
// =============================================================================

// decorate rewrites API error values into actionable one-line messages,
// leaving unknown errors untouched.
func decorate(err error) error {
	if err == nil {
		return nil
	}

	var inv *ine.InvalidIndicatorError
	if errors.As(err, &inv) {
		return fmt.Errorf("indicator %q does not exist (check the code with 'goine search')", inv.Code)
	}

	var dim *ine.DimensionError
	if errors.As(err, &dim) {
		return fmt.Errorf("%s (see 'goine metadata %s' for valid dimensions)", dim.Error(), dim.Indicator)
	}

	var api *ine.APIError
	if errors.As(err, &api) {
		if api.StatusCode != 0 {
			return fmt.Errorf("INE API request failed with status %d: %v", api.StatusCode, api.Err)
		}
		return fmt.Errorf("INE API unreachable: %v", api.Err)
	}

	var cerr *ine.CacheError
	if errors.As(err, &cerr) {
		return fmt.Errorf("cache %s failed: %v", cerr.Op, cerr.Err)
	}

	return err
}

// progress tracks the start time of an operation and logs completion with
// elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
