// Package ine defines the data model and error taxonomy shared by all
// goine components.
//
// # Overview
//
// The types here describe what the INE Portugal API exposes:
//
//   - [Indicator]: one catalogue entry for a statistical time series
//   - [Dimension]: a classification axis (year, region, sex, ...) with
//     its coded values
//   - [Metadata]: the full dimension set and descriptive fields for an
//     indicator
//   - [DataPoint] and [Table]: the normalized tabular representation of
//     a retrieved series
//
// All of them are plain values, produced by the parsers in package
// normalize and consumed by the endpoint clients, the search index, the
// export helpers, and the CLI. None of them perform I/O.
//
// # Errors
//
// The typed errors ([APIError], [InvalidIndicatorError], [DimensionError],
// [CacheError], [DataProcessingError]) let callers distinguish "no such
// series" from "API temporarily down" from "upstream changed its payload
// shape". Check them with errors.As:
//
//	var inv *ine.InvalidIndicatorError
//	if errors.As(err, &inv) {
//	    fmt.Printf("unknown indicator %s, check the code\n", inv.Code)
//	}
package ine
