package client

import (
	"context"
	"errors"
	"net/url"

	"github.com/charmbracelet/log"

	"github.com/tmcosta/goine/pkg/cache"
	"github.com/tmcosta/goine/pkg/httputil"
	"github.com/tmcosta/goine/pkg/ine"
	"github.com/tmcosta/goine/pkg/normalize"
)

// catalogueEndpoint serves the indicator catalogue as XML.
const catalogueEndpoint = "/ine/xml_indic.jsp"

// Catalogue modes — values of the upstream "opc" parameter. The exact
// semantics of each value are a provider-defined contract; opc=2 is
// the documented way to get the complete indicator universe.
const (
	opcSingle   = "1"
	opcComplete = "2"
	opcMain     = "3"
)

// CatalogueClient fetches and parses the indicator catalogue.
// Catalogue responses are cached with the metadata TTL class (7 days).
type CatalogueClient struct {
	base
}

// NewCatalogueClient creates a catalogue client with injected
// dependencies.
func NewCatalogueClient(httpc *httputil.Client, c cache.Cache, lang string, logger *log.Logger) *CatalogueClient {
	return &CatalogueClient{base: newBase(httpc, c, lang, logger)}
}

// Indicator fetches a single catalogue entry by code. An unknown code
// surfaces as *ine.InvalidIndicatorError.
func (c *CatalogueClient) Indicator(ctx context.Context, code string) (*ine.Indicator, error) {
	params := c.params()
	params.Set("opc", opcSingle)
	params.Set("varcd", code)

	indicators, err := c.catalogue(ctx, params)
	if err != nil {
		if errors.Is(err, httputil.ErrNotFound) {
			return nil, &ine.InvalidIndicatorError{Code: code}
		}
		return nil, err
	}
	if len(indicators) == 0 {
		return nil, &ine.InvalidIndicatorError{Code: code}
	}
	return &indicators[0], nil
}

// Complete fetches the complete catalogue: the full indicator universe,
// not the default-filtered listing. Callers needing exhaustive
// discovery must use this mode explicitly.
func (c *CatalogueClient) Complete(ctx context.Context) ([]ine.Indicator, error) {
	params := c.params()
	params.Set("opc", opcComplete)
	return c.catalogue(ctx, params)
}

// Main fetches the main-indicators group, a curated subset of the
// catalogue.
func (c *CatalogueClient) Main(ctx context.Context) ([]ine.Indicator, error) {
	params := c.params()
	params.Set("opc", opcMain)
	return c.catalogue(ctx, params)
}

// catalogue runs one catalogue request through cache, fetch, and parse.
func (c *CatalogueClient) catalogue(ctx context.Context, params url.Values) ([]ine.Indicator, error) {
	payload, key, fromCache, err := c.fetch(ctx, cache.ClassMetadata, catalogueEndpoint, params)
	if err != nil {
		return nil, err
	}
	indicators, err := normalize.ParseCatalogue(payload)
	if err != nil {
		return nil, err
	}
	if !fromCache {
		c.store(ctx, cache.ClassMetadata, key, payload)
	}
	c.logger.Debug("catalogue parsed", "indicators", len(indicators), "opc", params.Get("opc"))
	return indicators, nil
}
