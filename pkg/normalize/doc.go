// Package normalize turns raw INE API payloads into the uniform data
// model of package ine.
//
// The three parsers mirror the three upstream endpoints:
//
//   - [ParseCatalogue]: catalogue XML -> []ine.Indicator
//   - [ParseMetadata]: metadata JSON -> *ine.Metadata
//   - [ParseData]: data JSON + resolved dimensions -> *ine.Table
//
// All parsers are pure transforms: they hold no state and perform no
// I/O. Structural violations of the expected envelope (a missing
// top-level container, malformed XML) are fatal and reported as
// *ine.DataProcessingError — the parsers never guess an alternate
// shape. Per-record problems (an indicator element without a code, a
// dimension code with no known label, a non-numeric value) degrade
// gracefully without failing the whole parse.
package normalize
