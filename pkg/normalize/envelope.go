package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/tmcosta/goine/pkg/ine"
)

// ErrEmpty is returned when the API answered with an empty envelope
// (an empty JSON array). The endpoint clients translate it into an
// *ine.InvalidIndicatorError for the code they asked about.
var ErrEmpty = errors.New("empty response envelope")

// unwrapEnvelope reduces the two envelope shapes the JSON endpoints use —
// a bare object, or an array holding exactly one object — to the object's
// fields. Anything else is a schema violation.
func unwrapEnvelope(endpoint string, raw []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, &ine.DataProcessingError{Endpoint: endpoint, Reason: "invalid JSON", Err: err}
		}
		if len(items) == 0 {
			return nil, ErrEmpty
		}
		if len(items) > 1 {
			return nil, &ine.DataProcessingError{
				Endpoint: endpoint,
				Reason:   fmt.Sprintf("expected a single envelope object, got %d", len(items)),
			}
		}
		trimmed = bytes.TrimSpace(items[0])
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, &ine.DataProcessingError{Endpoint: endpoint, Reason: "invalid JSON", Err: err}
	}
	return fields, nil
}

// jsonString decodes a field that may arrive as a JSON string or number.
func jsonString(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// parseTimestamp accepts the timestamp formats the API is known to emit.
// Unparseable values are dropped rather than failing the payload.
func parseTimestamp(s string) *time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02", lastUpdateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// flexString is a JSON scalar that may arrive as a string or a number.
// The API is not consistent about quoting codes and ids.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}
	if string(bytes.TrimSpace(data)) == "null" {
		*f = ""
		return nil
	}
	return fmt.Errorf("expected string or number, got %s", data)
}

func (f flexString) String() string { return string(f) }

// scalarString renders a decoded JSON scalar as a string.
// Decoding uses json.Number, so numeric codes keep their exact form.
func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", x)
	}
}
