package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/tmcosta/goine/pkg/config"
	"github.com/tmcosta/goine/pkg/ine"
)

const testCatalogueXML = `<?xml version="1.0" encoding="UTF-8"?>
<ine_indicators>
  <indicator>
    <varcd>0004167</varcd>
    <title>Resident population (No.) by Place of residence</title>
    <theme>Population</theme>
    <periodicity>Annual</periodicity>
    <unit>No.</unit>
  </indicator>
  <indicator>
    <varcd>0004127</varcd>
    <title>Population density (No./km2)</title>
    <theme>Population</theme>
  </indicator>
</ine_indicators>`

const testMetadataJSON = `[{
  "indicador": "0004127",
  "nome": "Population density (No./km2)",
  "lang": "EN",
  "unidade": "No./km2",
  "dimensoes": [
    {"id": 1, "nome": "Data reference period", "valores": [
      {"codigo": "2022", "label": "2022"},
      {"codigo": "2023", "label": "2023"}
    ]},
    {"id": 2, "nome": "Place of residence", "valores": [
      {"codigo": "PT", "label": "Portugal"}
    ]}
  ]
}]`

const testDataJSON = `[{
  "indicador": "0004127",
  "nome": "Population density (No./km2)",
  "dados": [
    {"Dim1": "2023", "Dim2": "PT", "valor": "112.2"}
  ]
}]`

// testCounters tracks how many requests each endpoint served.
type testCounters struct {
	catalogue atomic.Int32
	metadata  atomic.Int32
	data      atomic.Int32
}

// newTestClient spins up a stub INE server and a Client with a file
// cache in a temp dir pointed at it.
func newTestClient(t *testing.T, mutate func(*config.Config)) (*Client, *testCounters) {
	t.Helper()

	counters := &testCounters{}
	mux := http.NewServeMux()
	mux.HandleFunc("/ine/xml_indic.jsp", func(w http.ResponseWriter, r *http.Request) {
		counters.catalogue.Add(1)
		if r.URL.Query().Get("opc") == "1" && r.URL.Query().Get("varcd") == "9999999" {
			w.Write([]byte(`<ine_indicators></ine_indicators>`))
			return
		}
		w.Write([]byte(testCatalogueXML))
	})
	mux.HandleFunc("/ine/json_indicador/pindicaMeta.jsp", func(w http.ResponseWriter, r *http.Request) {
		counters.metadata.Add(1)
		if r.URL.Query().Get("varcd") == "9999999" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(testMetadataJSON))
	})
	mux.HandleFunc("/ine/json_indicador/pindica.jsp", func(w http.ResponseWriter, r *http.Request) {
		counters.data.Add(1)
		w.Write([]byte(testDataJSON))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.BaseURL = srv.URL
	cfg.MaxRetries = -1
	cfg.Cache.Backend = config.BackendFile
	cfg.Cache.Dir = t.TempDir()
	if mutate != nil {
		mutate(cfg)
	}

	c, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, counters
}

func TestClient_Search(t *testing.T) {
	c, counters := newTestClient(t, nil)
	ctx := context.Background()

	results, err := c.Search(ctx, "population")
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	found := false
	for _, r := range results {
		if r.Code == "0004167" {
			found = true
		}
	}
	if !found {
		t.Error("search did not surface indicator 0004167")
	}

	// The index memoizes the catalogue across calls.
	if _, err := c.Themes(ctx); err != nil {
		t.Fatalf("Themes() failed: %v", err)
	}
	if counters.catalogue.Load() != 1 {
		t.Errorf("catalogue fetched %d times, want 1", counters.catalogue.Load())
	}
}

func TestClient_Indicator_Unknown(t *testing.T) {
	c, _ := newTestClient(t, nil)

	_, err := c.Indicator(context.Background(), "9999999")
	var inv *ine.InvalidIndicatorError
	if !errors.As(err, &inv) {
		t.Fatalf("got %v, want InvalidIndicatorError", err)
	}
	if inv.Code != "9999999" {
		t.Errorf("Code = %q, want 9999999", inv.Code)
	}
}

func TestClient_ValidateIndicator(t *testing.T) {
	c, _ := newTestClient(t, nil)
	ctx := context.Background()

	ok, err := c.ValidateIndicator(ctx, "0004127")
	if err != nil || !ok {
		t.Errorf("ValidateIndicator(0004127) = %v, %v; want true, nil", ok, err)
	}

	ok, err = c.ValidateIndicator(ctx, "9999999")
	if err != nil {
		t.Fatalf("ValidateIndicator() should not fail for unknown codes: %v", err)
	}
	if ok {
		t.Error("ValidateIndicator() = true for unknown code")
	}
}

func TestClient_DimensionValues(t *testing.T) {
	c, _ := newTestClient(t, nil)
	ctx := context.Background()

	values, err := c.DimensionValues(ctx, "0004127", "Dim1")
	if err != nil {
		t.Fatalf("DimensionValues() error = %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("DimensionValues() returned %d values, want 2", len(values))
	}

	_, err = c.DimensionValues(ctx, "0004127", "Dim9")
	var dimErr *ine.DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("DimensionValues(Dim9) error = %v, want *ine.DimensionError", err)
	}
	if dimErr.Dimension != "Dim9" {
		t.Errorf("DimensionError.Dimension = %q, want Dim9", dimErr.Dimension)
	}
}

func TestClient_GetMetadata_Cached(t *testing.T) {
	c, counters := newTestClient(t, nil)
	ctx := context.Background()

	meta, err := c.GetMetadata(ctx, "0004127")
	if err != nil {
		t.Fatalf("GetMetadata() failed: %v", err)
	}
	if meta.Code != "0004127" || len(meta.Dimensions) != 2 {
		t.Errorf("metadata = %q with %d dimensions", meta.Code, len(meta.Dimensions))
	}

	// Second call is served from the cache.
	if _, err := c.GetMetadata(ctx, "0004127"); err != nil {
		t.Fatalf("cached GetMetadata() failed: %v", err)
	}
	if counters.metadata.Load() != 1 {
		t.Errorf("metadata fetched %d times, want 1", counters.metadata.Load())
	}
}

func TestClient_GetMetadata_NotFound(t *testing.T) {
	c, _ := newTestClient(t, nil)

	_, err := c.GetMetadata(context.Background(), "9999999")
	var inv *ine.InvalidIndicatorError
	if !errors.As(err, &inv) {
		t.Fatalf("got %v, want InvalidIndicatorError", err)
	}
}

func TestClient_GetData_Filtered(t *testing.T) {
	c, counters := newTestClient(t, nil)
	ctx := context.Background()

	table, err := c.GetData(ctx, "0004127", map[string]string{"Dim1": "2023"})
	if err != nil {
		t.Fatalf("GetData() failed: %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("got %d points, want 1", table.Len())
	}

	p := table.Points()[0]
	if p.Dims["Dim1"] != "2023" || p.Dims["Dim2"] != "PT" {
		t.Errorf("dims = %v", p.Dims)
	}
	if p.Value == nil || *p.Value != 112.2 {
		t.Errorf("value = %v, want 112.2", p.Value)
	}
	if counters.data.Load() != 1 {
		t.Errorf("data fetched %d times, want 1", counters.data.Load())
	}

	// Same request again is a cache hit.
	if _, err := c.GetData(ctx, "0004127", map[string]string{"Dim1": "2023"}); err != nil {
		t.Fatalf("cached GetData() failed: %v", err)
	}
	if counters.data.Load() != 1 {
		t.Errorf("data fetched %d times after cache hit, want 1", counters.data.Load())
	}

	// A different filter is a different cache key.
	if _, err := c.GetData(ctx, "0004127", map[string]string{"Dim1": "2022"}); err != nil {
		t.Fatalf("GetData() with other filter failed: %v", err)
	}
	if counters.data.Load() != 2 {
		t.Errorf("data fetched %d times, want 2", counters.data.Load())
	}
}

func TestClient_GetData_InvalidFilter(t *testing.T) {
	c, counters := newTestClient(t, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		filters map[string]string
	}{
		{"malformed id", map[string]string{"period": "2023"}},
		{"unknown dimension", map[string]string{"Dim9": "2023"}},
		{"unknown value", map[string]string{"Dim1": "1999"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.GetData(ctx, "0004127", tt.filters)
			var dimErr *ine.DimensionError
			if !errors.As(err, &dimErr) {
				t.Fatalf("got %v, want DimensionError", err)
			}
		})
	}

	// Validation happens before any data request.
	if counters.data.Load() != 0 {
		t.Errorf("data endpoint saw %d requests for invalid filters, want 0", counters.data.Load())
	}
}

func TestClient_MalformedPayloadLeavesNoCacheWrite(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/ine/json_indicador/pindicaMeta.jsp", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testMetadataJSON))
	})
	mux.HandleFunc("/ine/json_indicador/pindica.jsp", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		// Envelope without the "dados" container.
		w.Write([]byte(`[{"indicador": "0004127"}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cacheDir := t.TempDir()
	cfg := config.Default()
	cfg.BaseURL = srv.URL
	cfg.MaxRetries = -1
	cfg.Cache.Dir = cacheDir

	c, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer c.Close()

	_, err = c.GetData(context.Background(), "0004127", nil)
	var perr *ine.DataProcessingError
	if !errors.As(err, &perr) {
		t.Fatalf("got %v, want DataProcessingError", err)
	}

	// No partial write: the data namespace stays empty.
	entries, _ := os.ReadDir(filepath.Join(cacheDir, "data"))
	if len(entries) != 0 {
		t.Errorf("data namespace has %d entries after a failed parse, want 0", len(entries))
	}

	// The next call goes back to the network.
	c.GetData(context.Background(), "0004127", nil)
	if calls.Load() != 2 {
		t.Errorf("data endpoint saw %d requests, want 2", calls.Load())
	}
}

func TestClient_ClearCache(t *testing.T) {
	c, counters := newTestClient(t, nil)
	ctx := context.Background()

	if _, err := c.GetData(ctx, "0004127", nil); err != nil {
		t.Fatalf("GetData() failed: %v", err)
	}
	if _, err := c.Search(ctx, "population"); err != nil {
		t.Fatalf("Search() failed: %v", err)
	}

	removed, err := c.ClearCache(ctx, "")
	if err != nil {
		t.Fatalf("ClearCache() failed: %v", err)
	}
	if removed == 0 {
		t.Error("ClearCache() removed nothing")
	}

	// The catalogue index was invalidated along with the cache.
	if _, err := c.Search(ctx, "population"); err != nil {
		t.Fatalf("Search() after clear failed: %v", err)
	}
	if counters.catalogue.Load() != 2 {
		t.Errorf("catalogue fetched %d times, want refetch after clear", counters.catalogue.Load())
	}
}

func TestClient_CacheStats(t *testing.T) {
	c, _ := newTestClient(t, nil)
	ctx := context.Background()

	c.GetMetadata(ctx, "0004127")
	c.GetData(ctx, "0004127", nil)

	stats, err := c.CacheStats(ctx)
	if err != nil {
		t.Fatalf("CacheStats() failed: %v", err)
	}
	if stats.Namespaces["metadata"].Entries == 0 {
		t.Error("no metadata entries recorded")
	}
	if stats.Namespaces["data"].Entries == 0 {
		t.Error("no data entries recorded")
	}
}

func TestClient_ExportCSV(t *testing.T) {
	c, _ := newTestClient(t, nil)
	path := filepath.Join(t.TempDir(), "out.csv")

	if err := c.ExportCSV(context.Background(), "0004127", path, nil, true); err != nil {
		t.Fatalf("ExportCSV() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export failed: %v", err)
	}
	content := string(data)
	if len(content) == 0 {
		t.Fatal("export is empty")
	}
	if content[0] != '#' {
		t.Error("export should start with the metadata comment block")
	}
}

func TestClient_NoCacheBackend(t *testing.T) {
	c, counters := newTestClient(t, func(cfg *config.Config) {
		cfg.Cache.Backend = config.BackendOff
	})
	ctx := context.Background()

	c.GetMetadata(ctx, "0004127")
	c.GetMetadata(ctx, "0004127")
	if counters.metadata.Load() != 2 {
		t.Errorf("metadata fetched %d times with caching off, want 2", counters.metadata.Load())
	}
}

func TestValidateFilters(t *testing.T) {
	meta := &ine.Metadata{
		Code: "0004127",
		Dimensions: []ine.Dimension{
			{ID: "Dim1", Values: []ine.DimensionValue{{Code: "2023", Label: "2023"}}},
		},
	}

	if err := validateFilters("0004127", meta, map[string]string{"Dim1": "2023"}); err != nil {
		t.Errorf("valid filter rejected: %v", err)
	}
	if err := validateFilters("0004127", meta, nil); err != nil {
		t.Errorf("nil filters rejected: %v", err)
	}
	if err := validateFilters("0004127", meta, map[string]string{"Dim1": "1999"}); err == nil {
		t.Error("unknown value accepted")
	}
}
