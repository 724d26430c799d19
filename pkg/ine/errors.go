package ine

import "fmt"

// APIError reports a failed HTTP exchange with the INE API: a transport
// error or non-2xx status that survived the retry budget.
type APIError struct {
	StatusCode int   // last observed HTTP status, 0 for transport failures
	Err        error // underlying transport or status error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("ine api request failed (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("ine api request failed: %v", e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// InvalidIndicatorError reports an indicator code unknown to the INE
// catalogue (404-class responses and empty single-indicator lookups).
type InvalidIndicatorError struct {
	Code string
}

func (e *InvalidIndicatorError) Error() string {
	return fmt.Sprintf("unknown indicator code %q", e.Code)
}

// DimensionError reports a dimension filter that is not valid for the
// indicator it was applied to.
type DimensionError struct {
	Indicator string // indicator code the filter was built for
	Dimension string // offending dimension id, e.g. "Dim1"
	Value     string // offending dimension value code, empty if the id itself is bad
	Reason    string
}

func (e *DimensionError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("indicator %s: dimension %s has no value %q: %s",
			e.Indicator, e.Dimension, e.Value, e.Reason)
	}
	return fmt.Sprintf("indicator %s: dimension %s: %s", e.Indicator, e.Dimension, e.Reason)
}

// CacheError reports a storage-layer failure in the cache backend.
// It is non-fatal for reads and writes around a fetch: callers fall back
// to the network, but the condition is always surfaced or logged.
type CacheError struct {
	Op  string // "get", "set", "clear", "stats"
	Err error
}

func (e *CacheError) Error() string { return fmt.Sprintf("cache %s: %v", e.Op, e.Err) }

func (e *CacheError) Unwrap() error { return e.Err }

// DataProcessingError reports an upstream payload whose structure
// violates the expected schema. It is fatal for the request: the
// normalizer never guesses an alternate shape.
type DataProcessingError struct {
	Endpoint string // "catalogue", "data" or "metadata"
	Reason   string
	Err      error
}

func (e *DataProcessingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s payload: %s: %v", e.Endpoint, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s payload: %s", e.Endpoint, e.Reason)
}

func (e *DataProcessingError) Unwrap() error { return e.Err }
