package ine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Language codes accepted by the INE API.
const (
	LangEN = "EN"
	LangPT = "PT"
)

// ValidLanguage reports whether lang is a language the API understands.
func ValidLanguage(lang string) bool {
	return lang == LangEN || lang == LangPT
}

// Indicator is one catalogue entry: a named statistical time series
// identified by a code. Immutable once fetched; produced only by
// catalogue parsing.
type Indicator struct {
	Code        string     `json:"code"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Theme       string     `json:"theme,omitempty"`
	Subtheme    string     `json:"subtheme,omitempty"`
	Periodicity string     `json:"periodicity,omitempty"`
	Source      string     `json:"source,omitempty"`
	Unit        string     `json:"unit,omitempty"`
	GeoLevel    string     `json:"geo_level,omitempty"`
	LastPeriod  string     `json:"last_period,omitempty"`
	LastUpdate  *time.Time `json:"last_update,omitempty"`
	HTMLURL     string     `json:"html_url,omitempty"`
	MetadataURL string     `json:"metadata_url,omitempty"`
	DataURL     string     `json:"data_url,omitempty"`
}

// DimensionValue is one coded value of a dimension, e.g. ("11", "Norte").
type DimensionValue struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Order int    `json:"order,omitempty"`
}

// Dimension describes one axis of a data series: an identifier in the
// API's "DimN" form, a display name, and the ordered set of valid values.
// Immutable; produced by metadata parsing.
type Dimension struct {
	ID     string           `json:"id"` // "Dim1", "Dim2", ...
	Name   string           `json:"name"`
	Desc   string           `json:"description,omitempty"`
	Values []DimensionValue `json:"values"`
}

// Label resolves a value code to its human label.
func (d Dimension) Label(code string) (string, bool) {
	for _, v := range d.Values {
		if v.Code == code {
			return v.Label, true
		}
	}
	return "", false
}

// HasValue reports whether code is a valid value for this dimension.
func (d Dimension) HasValue(code string) bool {
	_, ok := d.Label(code)
	return ok
}

// Metadata is the full descriptive record for an indicator, including
// its resolved dimension set.
type Metadata struct {
	Code        string      `json:"code"`
	Title       string      `json:"title"`
	Language    string      `json:"language"`
	Unit        string      `json:"unit,omitempty"`
	Source      string      `json:"source,omitempty"`
	Theme       string      `json:"theme,omitempty"`
	Subtheme    string      `json:"subtheme,omitempty"`
	Periodicity string      `json:"periodicity,omitempty"`
	LastPeriod  string      `json:"last_period,omitempty"`
	LastUpdate  *time.Time  `json:"last_update,omitempty"`
	Dimensions  []Dimension `json:"dimensions"`
}

// Dimension returns the dimension with the given id ("Dim1", ...).
func (m *Metadata) Dimension(id string) (Dimension, bool) {
	for _, d := range m.Dimensions {
		if d.ID == id {
			return d, true
		}
	}
	return Dimension{}, false
}

// DimID builds the canonical dimension id for a 1-based position.
func DimID(n int) string { return fmt.Sprintf("Dim%d", n) }

// dimOrdinal extracts the numeric suffix of a "DimN" id for ordering.
// Non-canonical ids sort after canonical ones, alphabetically.
func dimOrdinal(id string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(id, "Dim"))
	if err != nil || !strings.HasPrefix(id, "Dim") {
		return 0, false
	}
	return n, true
}

// SortDimIDs orders dimension ids Dim1, Dim2, ... Dim10 numerically,
// with any non-canonical ids at the end.
func SortDimIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		a, aok := dimOrdinal(ids[i])
		b, bok := dimOrdinal(ids[j])
		switch {
		case aok && bok:
			return a < b
		case aok:
			return true
		case bok:
			return false
		default:
			return ids[i] < ids[j]
		}
	})
}
