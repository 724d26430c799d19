// Package export serializes normalized tables to CSV and JSON files.
// It consumes only the ine.Table projections; no cache or HTTP
// internals leak in here.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tmcosta/goine/pkg/ine"
)

// WriteCSV writes the table as CSV. When meta is non-nil an identifying
// header block is written first as "# key: value" comment lines, the
// way the upstream portal annotates its own extracts.
func WriteCSV(w io.Writer, t *ine.Table, meta *ine.Metadata) error {
	bw := bufio.NewWriter(w)
	if meta != nil {
		header := []struct{ key, value string }{
			{"indicator", meta.Code},
			{"title", meta.Title},
			{"unit", meta.Unit},
			{"source", meta.Source},
		}
		for _, h := range header {
			if h.value == "" {
				continue
			}
			if _, err := fmt.Fprintf(bw, "# %s: %s\n", h.key, h.value); err != nil {
				return err
			}
		}
	}
	if err := t.WriteCSV(bw); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteJSON writes the table as JSON, indented when pretty is set.
func WriteJSON(w io.Writer, t *ine.Table, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(t)
}

// CSVFile writes the table to a CSV file at path.
func CSVFile(path string, t *ine.Table, meta *ine.Metadata) error {
	return toFile(path, func(w io.Writer) error { return WriteCSV(w, t, meta) })
}

// JSONFile writes the table to a JSON file at path.
func JSONFile(path string, t *ine.Table, pretty bool) error {
	return toFile(path, func(w io.Writer) error { return WriteJSON(w, t, pretty) })
}

func toFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
