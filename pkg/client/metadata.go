package client

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/tmcosta/goine/pkg/cache"
	"github.com/tmcosta/goine/pkg/httputil"
	"github.com/tmcosta/goine/pkg/ine"
	"github.com/tmcosta/goine/pkg/normalize"
)

// metadataEndpoint serves indicator metadata as JSON.
const metadataEndpoint = "/ine/json_indicador/pindicaMeta.jsp"

// MetadataClient fetches indicator metadata: dimensions and their coded
// values plus descriptive fields. Responses are cached with the
// metadata TTL class (7 days).
type MetadataClient struct {
	base
}

// NewMetadataClient creates a metadata client with injected
// dependencies.
func NewMetadataClient(httpc *httputil.Client, c cache.Cache, lang string, logger *log.Logger) *MetadataClient {
	return &MetadataClient{base: newBase(httpc, c, lang, logger)}
}

// Metadata fetches the complete metadata record for an indicator.
// An unknown code surfaces as *ine.InvalidIndicatorError.
func (c *MetadataClient) Metadata(ctx context.Context, code string) (*ine.Metadata, error) {
	params := c.params()
	params.Set("varcd", code)

	payload, key, fromCache, err := c.fetch(ctx, cache.ClassMetadata, metadataEndpoint, params)
	if err != nil {
		if errors.Is(err, httputil.ErrNotFound) {
			return nil, &ine.InvalidIndicatorError{Code: code}
		}
		return nil, err
	}

	meta, err := normalize.ParseMetadata(payload, c.lang)
	if err != nil {
		if errors.Is(err, normalize.ErrEmpty) {
			return nil, &ine.InvalidIndicatorError{Code: code}
		}
		return nil, err
	}
	if meta.Code == "" {
		meta.Code = code
	}
	if !fromCache {
		c.store(ctx, cache.ClassMetadata, key, payload)
	}
	c.logger.Debug("metadata parsed", "indicator", meta.Code, "dimensions", len(meta.Dimensions))
	return meta, nil
}

// Dimensions fetches the dimension definitions for an indicator.
func (c *MetadataClient) Dimensions(ctx context.Context, code string) ([]ine.Dimension, error) {
	meta, err := c.Metadata(ctx, code)
	if err != nil {
		return nil, err
	}
	return meta.Dimensions, nil
}

// DimensionValues fetches the available values for one dimension of an
// indicator. An unknown dimension id surfaces as *ine.DimensionError.
func (c *MetadataClient) DimensionValues(ctx context.Context, code, dimID string) ([]ine.DimensionValue, error) {
	meta, err := c.Metadata(ctx, code)
	if err != nil {
		return nil, err
	}
	dim, ok := meta.Dimension(dimID)
	if !ok {
		return nil, &ine.DimensionError{
			Indicator: code,
			Dimension: dimID,
			Reason:    "no such dimension for this indicator",
		}
	}
	return dim.Values, nil
}
