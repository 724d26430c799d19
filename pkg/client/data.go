package client

import (
	"context"
	"errors"
	"regexp"

	"github.com/charmbracelet/log"

	"github.com/tmcosta/goine/pkg/cache"
	"github.com/tmcosta/goine/pkg/httputil"
	"github.com/tmcosta/goine/pkg/ine"
	"github.com/tmcosta/goine/pkg/normalize"
)

// dataEndpoint serves indicator data as JSON.
const dataEndpoint = "/ine/json_indicador/pindica.jsp"

// opData is the upstream operation code for data retrieval.
const opData = "2"

var filterKeyRE = regexp.MustCompile(`^Dim[0-9]+$`)

// DataClient fetches indicator data with optional dimension filters.
// Data responses are cached with the data TTL class (1 day). Filters
// are validated against the indicator's resolved dimension set (served
// by the metadata client) before any request is built.
type DataClient struct {
	base
	meta *MetadataClient
}

// NewDataClient creates a data client. The metadata client resolves the
// dimension sets used for filter validation and label substitution.
func NewDataClient(httpc *httputil.Client, c cache.Cache, lang string, meta *MetadataClient, logger *log.Logger) *DataClient {
	return &DataClient{base: newBase(httpc, c, lang, logger), meta: meta}
}

// Data fetches an indicator's series as a normalized table.
//
// filters maps dimension ids ("Dim1", ...) to value codes; an empty or
// nil map means all available dimension values. Invalid filters surface
// as *ine.DimensionError before any network request, unknown indicator
// codes as *ine.InvalidIndicatorError.
func (c *DataClient) Data(ctx context.Context, code string, filters map[string]string) (*ine.Table, error) {
	meta, err := c.meta.Metadata(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := validateFilters(code, meta, filters); err != nil {
		return nil, err
	}

	params := c.params()
	params.Set("op", opData)
	params.Set("varcd", code)
	for id, value := range filters {
		params.Set(id, value)
	}

	payload, key, fromCache, err := c.fetch(ctx, cache.ClassData, dataEndpoint, params)
	if err != nil {
		if errors.Is(err, httputil.ErrNotFound) {
			return nil, &ine.InvalidIndicatorError{Code: code}
		}
		return nil, err
	}

	table, err := normalize.ParseData(payload, code, c.lang, meta.Dimensions)
	if err != nil {
		if errors.Is(err, normalize.ErrEmpty) {
			return nil, &ine.InvalidIndicatorError{Code: code}
		}
		return nil, err
	}
	if table.Title == "" {
		table.Title = meta.Title
	}
	if table.Unit == "" {
		table.Unit = meta.Unit
	}
	if !fromCache {
		c.store(ctx, cache.ClassData, key, payload)
	}
	c.logger.Debug("data parsed", "indicator", code, "points", table.Len(), "filters", len(filters))
	return table, nil
}

// validateFilters checks a dimension filter map against the indicator's
// resolved dimension set.
func validateFilters(code string, meta *ine.Metadata, filters map[string]string) error {
	for id, value := range filters {
		if !filterKeyRE.MatchString(id) {
			return &ine.DimensionError{
				Indicator: code,
				Dimension: id,
				Reason:    `dimension ids must be of the form "Dim1", "Dim2", ...`,
			}
		}
		dim, ok := meta.Dimension(id)
		if !ok {
			return &ine.DimensionError{
				Indicator: code,
				Dimension: id,
				Reason:    "no such dimension for this indicator",
			}
		}
		if !dim.HasValue(value) {
			return &ine.DimensionError{
				Indicator: code,
				Dimension: id,
				Value:     value,
				Reason:    "value is not defined for this dimension",
			}
		}
	}
	return nil
}
