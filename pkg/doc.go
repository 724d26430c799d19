// Package pkg provides the core libraries of goine, a Go client for the
// INE Portugal (Instituto Nacional de Estatística) open data API.
//
// # Overview
//
// The pkg directory is organized by concern:
//
//   - [ine] - Domain model: indicators, dimensions, metadata, the
//     normalized Table, and the error taxonomy
//   - [normalize] - Parsers that turn the API's XML and JSON payloads
//     into the domain model
//   - [httputil] - HTTP client with retry and capped exponential backoff
//   - [cache] - TTL response cache with file, Redis, and null backends
//   - [client] - Endpoint clients (catalogue, metadata, data) and the
//     high-level facade
//   - [search] - In-memory catalogue index for title search and theme
//     filtering
//   - [export] - CSV and JSON file output for normalized tables
//   - [config] - Explicit configuration: defaults, TOML file, environment
//   - [buildinfo] - Build-time version information
//
// # Architecture
//
// The data flow for one request:
//
//	INE API (XML catalogue / JSON data + metadata)
//	         ↓
//	    [httputil] (GET with retry and backoff)
//	         ↓
//	    [cache] (TTL read-through: metadata 7d, data 1d)
//	         ↓
//	    [normalize] (payload → ine.Table / ine.Metadata / catalogue)
//	         ↓
//	    [client] facade → [search] / [export] / caller code
//
// # Quick Start
//
// Fetch a filtered data series:
//
//	import (
//	    "context"
//	    "github.com/tmcosta/goine/pkg/client"
//	    "github.com/tmcosta/goine/pkg/config"
//	)
//
//	cfg := config.Default()
//	c, err := client.New(context.Background(), cfg, nil)
//	if err != nil {
//	    // handle
//	}
//	defer c.Close()
//
//	table, err := c.GetData(context.Background(), "0004167",
//	    map[string]string{"Dim1": "S7A2023"})
//
// [ine]: https://pkg.go.dev/github.com/tmcosta/goine/pkg/ine
// [normalize]: https://pkg.go.dev/github.com/tmcosta/goine/pkg/normalize
// [httputil]: https://pkg.go.dev/github.com/tmcosta/goine/pkg/httputil
// [cache]: https://pkg.go.dev/github.com/tmcosta/goine/pkg/cache
// [client]: https://pkg.go.dev/github.com/tmcosta/goine/pkg/client
// [search]: https://pkg.go.dev/github.com/tmcosta/goine/pkg/search
// [export]: https://pkg.go.dev/github.com/tmcosta/goine/pkg/export
// [config]: https://pkg.go.dev/github.com/tmcosta/goine/pkg/config
// [buildinfo]: https://pkg.go.dev/github.com/tmcosta/goine/pkg/buildinfo
package pkg
