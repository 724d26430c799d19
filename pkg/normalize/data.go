package normalize

import (
	"bytes"
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tmcosta/goine/pkg/ine"
)

var dimKeyRE = regexp.MustCompile(`^Dim[0-9]+$`)

// ParseData parses a data JSON payload into a normalized table.
//
// The payload is either the endpoint envelope (object or single-object
// array carrying a "dados" container) or, as the API sometimes answers,
// a bare array of data points. An envelope without "dados" is fatal.
// The "dados" container itself holds either a flat point array or a
// period -> point-array object; the latter is flattened with the period
// recorded on each point.
//
// dims is the indicator's resolved dimension set, used to substitute
// value codes with labels. Codes without a known label keep their raw
// form and mark the point as unresolved; they never fail the parse.
// Values that are present but non-numeric become missing values, never
// zero.
func ParseData(raw []byte, code, fallbackLang string, dims []ine.Dimension) (*ine.Table, error) {
	indicator := code
	title, lang, unit := "", fallbackLang, ""
	var pointsRaw json.RawMessage

	if isPointArray(raw) {
		pointsRaw = bytes.TrimSpace(raw)
	} else {
		fields, err := unwrapEnvelope("data", raw)
		if err != nil {
			return nil, err
		}
		dados, ok := fields["dados"]
		if !ok {
			return nil, &ine.DataProcessingError{
				Endpoint: "data",
				Reason:   `missing "dados" container`,
			}
		}
		pointsRaw = dados
		if s := jsonString(fields, "indicador"); s != "" {
			indicator = s
		}
		title = jsonString(fields, "nome")
		if s := jsonString(fields, "lang"); s != "" {
			lang = s
		}
		unit = jsonString(fields, "unidade")
	}

	rawPoints, err := decodePoints(pointsRaw)
	if err != nil {
		return nil, err
	}

	points := make([]ine.DataPoint, 0, len(rawPoints))
	for _, rp := range rawPoints {
		points = append(points, parsePoint(indicator, rp, dims))
	}
	return ine.NewTable(indicator, title, lang, unit, dims, points), nil
}

// isPointArray reports whether raw is a JSON array whose first element
// is not an envelope object (i.e. the API answered with the data array
// directly).
func isPointArray(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return false
	}
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil || len(items) == 0 {
		return false
	}
	_, isEnvelope := items[0]["dados"]
	return !isEnvelope
}

// decodePoints decodes the "dados" container: a flat point array, or an
// object keyed by period whose values are point arrays.
func decodePoints(raw json.RawMessage) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, &ine.DataProcessingError{Endpoint: "data", Reason: `empty "dados" container`}
	}

	switch trimmed[0] {
	case '[':
		return decodePointArray(trimmed)
	case '{':
		var byPeriod map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &byPeriod); err != nil {
			return nil, &ine.DataProcessingError{Endpoint: "data", Reason: `malformed "dados" container`, Err: err}
		}
		periods := make([]string, 0, len(byPeriod))
		for p := range byPeriod {
			periods = append(periods, p)
		}
		sort.Strings(periods)

		var all []map[string]any
		for _, period := range periods {
			pts, err := decodePointArray(byPeriod[period])
			if err != nil {
				return nil, err
			}
			for _, pt := range pts {
				if _, ok := pt["period"]; !ok {
					pt["period"] = period
				}
				all = append(all, pt)
			}
		}
		return all, nil
	default:
		return nil, &ine.DataProcessingError{Endpoint: "data", Reason: `"dados" is neither array nor object`}
	}
}

func decodePointArray(raw json.RawMessage) ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var points []map[string]any
	if err := dec.Decode(&points); err != nil {
		return nil, &ine.DataProcessingError{Endpoint: "data", Reason: "malformed data point array", Err: err}
	}
	return points, nil
}

// parsePoint splits one raw point into dimension codes, the value, the
// annotation flag, and pass-through attributes.
func parsePoint(indicator string, rp map[string]any, dims []ine.Dimension) ine.DataPoint {
	p := ine.DataPoint{
		Indicator: indicator,
		Dims:      make(map[string]string),
	}
	for k, v := range rp {
		switch {
		case strings.HasPrefix(k, "_"):
			// internal field, dropped
		case dimKeyRE.MatchString(k):
			p.Dims[k] = scalarString(v)
		case k == "valor" || k == "value":
			p.Value = parseValue(v)
		case k == "sinal" || k == "flag":
			p.Flag = scalarString(v)
		default:
			if p.Attrs == nil {
				p.Attrs = make(map[string]string)
			}
			p.Attrs[k] = scalarString(v)
		}
	}

	byID := make(map[string]ine.Dimension, len(dims))
	for _, d := range dims {
		byID[d.ID] = d
	}
	for id, code := range p.Dims {
		d, ok := byID[id]
		if !ok || !d.HasValue(code) {
			p.Unresolved = append(p.Unresolved, id)
		}
	}
	ine.SortDimIDs(p.Unresolved)
	return p
}

// parseValue normalizes the upstream value field. Placeholder strings
// for "no data" become an explicit missing value (nil), never zero.
func parseValue(v any) *float64 {
	switch x := v.(type) {
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return &f
		}
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f
		}
	}
	return nil
}
