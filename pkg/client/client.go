package client

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/tmcosta/goine/pkg/cache"
	"github.com/tmcosta/goine/pkg/config"
	"github.com/tmcosta/goine/pkg/export"
	"github.com/tmcosta/goine/pkg/httputil"
	"github.com/tmcosta/goine/pkg/ine"
	"github.com/tmcosta/goine/pkg/search"
)

// Client is the high-level entry point: it owns the cache backend, the
// HTTP client, the three endpoint clients, and the catalogue search
// index, all constructed from one explicit [config.Config].
type Client struct {
	Catalogue *CatalogueClient
	Metadata  *MetadataClient
	Data      *DataClient

	cfg    *config.Config
	logger *log.Logger
	cache  cache.Cache
	index  *search.Index
}

// New builds a Client from cfg. A nil logger falls back to
// log.Default(). The context is only used to verify backend
// connectivity (Redis ping); it is not retained.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Client, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backend, err := newBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	httpc := httputil.NewClient(cfg.HTTP(), logger)

	c := &Client{
		cfg:    cfg,
		logger: logger,
		cache:  backend,
	}
	c.Catalogue = NewCatalogueClient(httpc, backend, cfg.Language, logger)
	c.Metadata = NewMetadataClient(httpc, backend, cfg.Language, logger)
	c.Data = NewDataClient(httpc, backend, cfg.Language, c.Metadata, logger)
	c.index = search.New(c.Catalogue.Complete)

	logger.Debug("client initialized",
		"language", cfg.Language, "cache", cfg.Cache.Backend, "base_url", cfg.BaseURL)
	return c, nil
}

// newBackend constructs the configured cache backend. A file backend
// that cannot be initialized degrades to no caching with a warning; a
// misconfigured Redis backend is an error, since it was opted into
// explicitly.
func newBackend(ctx context.Context, cfg *config.Config, logger *log.Logger) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.BackendOff:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
	default:
		dir := cfg.Cache.Dir
		if dir == "" {
			dir = config.DefaultCacheDir()
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			logger.Warn("cache disabled: directory unavailable", "dir", dir, "err", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
}

// Search finds indicators whose title matches query, best match first.
func (c *Client) Search(ctx context.Context, query string) ([]ine.Indicator, error) {
	return c.index.Search(ctx, query)
}

// AllIndicators returns the complete indicator universe.
func (c *Client) AllIndicators(ctx context.Context) ([]ine.Indicator, error) {
	return c.index.All(ctx)
}

// FilterByTheme returns indicators whose theme matches exactly or by
// prefix.
func (c *Client) FilterByTheme(ctx context.Context, theme string) ([]ine.Indicator, error) {
	return c.index.FilterByTheme(ctx, theme)
}

// Themes lists the distinct catalogue themes.
func (c *Client) Themes(ctx context.Context) ([]string, error) {
	return c.index.Themes(ctx)
}

// Subthemes lists the distinct subthemes, optionally within one theme.
func (c *Client) Subthemes(ctx context.Context, theme string) ([]string, error) {
	return c.index.Subthemes(ctx, theme)
}

// RecentlyUpdated returns up to limit indicators ordered by last
// update, most recent first.
func (c *Client) RecentlyUpdated(ctx context.Context, limit int) ([]ine.Indicator, error) {
	return c.index.RecentlyUpdated(ctx, limit)
}

// Indicator fetches a single catalogue entry by code.
func (c *Client) Indicator(ctx context.Context, code string) (*ine.Indicator, error) {
	return c.Catalogue.Indicator(ctx, code)
}

// ValidateIndicator reports whether code names a known indicator.
func (c *Client) ValidateIndicator(ctx context.Context, code string) (bool, error) {
	_, err := c.Catalogue.Indicator(ctx, code)
	if err != nil {
		var inv *ine.InvalidIndicatorError
		if errors.As(err, &inv) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetData fetches an indicator's series as a normalized table,
// optionally restricted by dimension filters.
func (c *Client) GetData(ctx context.Context, code string, filters map[string]string) (*ine.Table, error) {
	return c.Data.Data(ctx, code, filters)
}

// GetMetadata fetches the full metadata record for an indicator.
func (c *Client) GetMetadata(ctx context.Context, code string) (*ine.Metadata, error) {
	return c.Metadata.Metadata(ctx, code)
}

// Dimensions fetches the dimension definitions for an indicator.
func (c *Client) Dimensions(ctx context.Context, code string) ([]ine.Dimension, error) {
	return c.Metadata.Dimensions(ctx, code)
}

// DimensionValues fetches the admissible values of one dimension of an
// indicator. An unknown dimension id is a *ine.DimensionError.
func (c *Client) DimensionValues(ctx context.Context, code, dimID string) ([]ine.DimensionValue, error) {
	meta, err := c.GetMetadata(ctx, code)
	if err != nil {
		return nil, err
	}
	dim, ok := meta.Dimension(dimID)
	if !ok {
		return nil, &ine.DimensionError{Indicator: code, Dimension: dimID, Reason: "unknown dimension id"}
	}
	return append([]ine.DimensionValue(nil), dim.Values...), nil
}

// ExportCSV fetches an indicator's (optionally filtered) series and
// writes it to a CSV file. When includeMetadata is set the file starts
// with identifying comment lines.
func (c *Client) ExportCSV(ctx context.Context, code, path string, filters map[string]string, includeMetadata bool) error {
	table, err := c.GetData(ctx, code, filters)
	if err != nil {
		return err
	}
	var meta *ine.Metadata
	if includeMetadata {
		if meta, err = c.GetMetadata(ctx, code); err != nil {
			return err
		}
	}
	if err := export.CSVFile(path, table, meta); err != nil {
		return err
	}
	c.logger.Info("exported CSV", "indicator", code, "path", path, "rows", table.Len())
	return nil
}

// ExportJSON fetches an indicator's (optionally filtered) series and
// writes it to a JSON file.
func (c *Client) ExportJSON(ctx context.Context, code, path string, filters map[string]string, pretty bool) error {
	table, err := c.GetData(ctx, code, filters)
	if err != nil {
		return err
	}
	if err := export.JSONFile(path, table, pretty); err != nil {
		return err
	}
	c.logger.Info("exported JSON", "indicator", code, "path", path, "rows", table.Len())
	return nil
}

// ClearCache removes cached entries in namespace ("" for all) and
// invalidates the in-memory catalogue index.
func (c *Client) ClearCache(ctx context.Context, namespace string) (int, error) {
	removed, err := c.cache.Clear(ctx, namespace)
	if err != nil {
		return removed, err
	}
	c.index.Invalidate()
	c.logger.Debug("cache cleared", "namespace", namespace, "removed", removed)
	return removed, nil
}

// CacheStats reports cache occupancy.
func (c *Client) CacheStats(ctx context.Context) (cache.Stats, error) {
	return c.cache.Stats(ctx)
}

// Close releases the cache backend.
func (c *Client) Close() error {
	return c.cache.Close()
}
