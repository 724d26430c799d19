package ine

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
)

// DataPoint is one observation of an indicator: the dimension codes that
// locate it, its numeric value (nil when the upstream reports no data),
// and an optional annotation flag such as a provisional marker.
type DataPoint struct {
	Indicator  string            `json:"indicator"`
	Dims       map[string]string `json:"dims"` // dimension id -> value code
	Value      *float64          `json:"value"`
	Flag       string            `json:"flag,omitempty"`
	Attrs      map[string]string `json:"attrs,omitempty"`      // extra payload fields, passed through
	Unresolved []string          `json:"unresolved,omitempty"` // dim ids whose code had no label
}

// Table is the uniform tabular representation of one indicator's full or
// filtered series: an ordered sequence of DataPoints plus the dimension
// label lookups needed to project them. A Table is constructed fresh per
// request and never mutated afterwards.
type Table struct {
	Indicator string
	Title     string
	Language  string
	Unit      string

	points []DataPoint
	dims   map[string]Dimension
	dimIDs []string
}

// NewTable builds a Table from parsed data points and the indicator's
// resolved dimension set. The dimension id order is derived from the
// union of the dimension set and the ids seen in points.
func NewTable(indicator, title, lang, unit string, dims []Dimension, points []DataPoint) *Table {
	byID := make(map[string]Dimension, len(dims))
	seen := make(map[string]bool)
	var ids []string
	for _, d := range dims {
		byID[d.ID] = d
		if !seen[d.ID] {
			seen[d.ID] = true
			ids = append(ids, d.ID)
		}
	}
	for _, p := range points {
		for id := range p.Dims {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	SortDimIDs(ids)

	return &Table{
		Indicator: indicator,
		Title:     title,
		Language:  lang,
		Unit:      unit,
		points:    points,
		dims:      byID,
		dimIDs:    ids,
	}
}

// Len returns the number of data points.
func (t *Table) Len() int { return len(t.points) }

// Points returns the data points in upstream order.
// The returned slice is a copy; the Table itself stays immutable.
func (t *Table) Points() []DataPoint {
	out := make([]DataPoint, len(t.points))
	copy(out, t.points)
	return out
}

// DimensionIDs returns the ordered dimension ids covered by this table.
func (t *Table) DimensionIDs() []string {
	out := make([]string, len(t.dimIDs))
	copy(out, t.dimIDs)
	return out
}

// Label resolves a dimension value code to its label, falling back to
// the raw code when no label is known.
func (t *Table) Label(dimID, code string) string {
	if d, ok := t.dims[dimID]; ok {
		if label, ok := d.Label(code); ok {
			return label
		}
	}
	return code
}

// Headers returns the column headers for the row projection: for each
// dimension its id (code column) and display name (label column), then
// "value" and "flag".
func (t *Table) Headers() []string {
	headers := make([]string, 0, 2*len(t.dimIDs)+2)
	for _, id := range t.dimIDs {
		name := id
		if d, ok := t.dims[id]; ok && d.Name != "" {
			name = d.Name
		}
		headers = append(headers, id, name)
	}
	return append(headers, "value", "flag")
}

// Rows projects every data point onto the header layout of [Table.Headers].
// Missing values render as empty cells, never as zero.
func (t *Table) Rows() [][]string {
	rows := make([][]string, 0, len(t.points))
	for _, p := range t.points {
		row := make([]string, 0, 2*len(t.dimIDs)+2)
		for _, id := range t.dimIDs {
			code := p.Dims[id]
			row = append(row, code, t.Label(id, code))
		}
		row = append(row, FormatValue(p.Value), p.Flag)
		rows = append(rows, row)
	}
	return rows
}

// Maps projects every data point into a generic map: dimension codes
// under their ids, resolved labels under "<id>_label", plus "value" and
// "flag".
func (t *Table) Maps() []map[string]any {
	out := make([]map[string]any, 0, len(t.points))
	for _, p := range t.points {
		m := make(map[string]any, 2*len(p.Dims)+2)
		for id, code := range p.Dims {
			m[id] = code
			m[id+"_label"] = t.Label(id, code)
		}
		m["value"] = p.Value
		m["flag"] = p.Flag
		out = append(out, m)
	}
	return out
}

type tableJSON struct {
	Indicator string      `json:"indicator"`
	Title     string      `json:"title,omitempty"`
	Language  string      `json:"language,omitempty"`
	Unit      string      `json:"unit,omitempty"`
	Data      []DataPoint `json:"data"`
}

// MarshalJSON encodes the table with its identifying fields and the raw
// data points, preserving dimension codes so the output can be re-parsed
// without the label lookups.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(tableJSON{
		Indicator: t.Indicator,
		Title:     t.Title,
		Language:  t.Language,
		Unit:      t.Unit,
		Data:      t.points,
	})
}

// WriteCSV writes the header row followed by all projected rows to w.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers()); err != nil {
		return err
	}
	for _, row := range t.Rows() {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatValue renders a possibly-missing numeric value for display.
// Missing values are the empty string.
func FormatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
