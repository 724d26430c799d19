package normalize

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tmcosta/goine/pkg/ine"
)

func dataDims() []ine.Dimension {
	return []ine.Dimension{
		{ID: "Dim1", Name: "Period", Values: []ine.DimensionValue{
			{Code: "S7A2023", Label: "2023"},
		}},
		{ID: "Dim2", Name: "Region", Values: []ine.DimensionValue{
			{Code: "PT", Label: "Portugal"},
			{Code: "11", Label: "Norte"},
		}},
	}
}

const dataJSON = `[{
  "indicador": "0004167",
  "nome": "Resident population",
  "lang": "EN",
  "unidade": "No.",
  "dados": [
    {"Dim1": "S7A2023", "Dim2": "PT", "valor": "10639726"},
    {"Dim1": "S7A2023", "Dim2": 11, "valor": 3586586},
    {"Dim1": "S7A2023", "Dim2": "PT", "valor": "x", "sinal": "x"}
  ]
}]`

func TestParseData(t *testing.T) {
	table, err := ParseData([]byte(dataJSON), "0004167", "EN", dataDims())
	if err != nil {
		t.Fatalf("ParseData() failed: %v", err)
	}

	if table.Indicator != "0004167" || table.Title != "Resident population" || table.Unit != "No." {
		t.Errorf("table header = %q/%q/%q", table.Indicator, table.Title, table.Unit)
	}

	points := table.Points()
	if len(points) != 3 {
		t.Fatalf("got %d points, want 3", len(points))
	}

	if points[0].Value == nil || *points[0].Value != 10639726 {
		t.Errorf("string-typed valor = %v, want 10639726", points[0].Value)
	}
	if points[1].Value == nil || *points[1].Value != 3586586 {
		t.Errorf("number-typed valor = %v, want 3586586", points[1].Value)
	}

	// Numeric dimension codes keep their exact form.
	if points[1].Dims["Dim2"] != "11" {
		t.Errorf("Dim2 code = %q, want 11", points[1].Dims["Dim2"])
	}

	// Non-numeric valor is a missing value, never zero.
	if points[2].Value != nil {
		t.Errorf("non-numeric valor = %v, want nil", points[2].Value)
	}
	if points[2].Flag != "x" {
		t.Errorf("Flag = %q, want x", points[2].Flag)
	}
}

func TestParseData_UnresolvedCode(t *testing.T) {
	raw := `[{"dados": [{"Dim1": "S7A2023", "Dim2": "ZZ", "Dim9": "1", "valor": 1}]}]`
	table, err := ParseData([]byte(raw), "0004167", "EN", dataDims())
	if err != nil {
		t.Fatalf("ParseData() failed: %v", err)
	}

	p := table.Points()[0]
	// Unknown codes and unknown dimension ids are flagged, the raw code
	// stays, and the parse succeeds.
	if !reflect.DeepEqual(p.Unresolved, []string{"Dim2", "Dim9"}) {
		t.Errorf("Unresolved = %v, want [Dim2 Dim9]", p.Unresolved)
	}
	if p.Dims["Dim2"] != "ZZ" {
		t.Errorf("raw code = %q, want ZZ", p.Dims["Dim2"])
	}
}

func TestParseData_PeriodKeyedContainer(t *testing.T) {
	raw := `[{"dados": {
	  "2022": [{"Dim2": "PT", "valor": 1}],
	  "2023": [{"Dim2": "PT", "valor": 2}]
	}}]`
	table, err := ParseData([]byte(raw), "0004167", "EN", dataDims())
	if err != nil {
		t.Fatalf("ParseData() failed: %v", err)
	}

	points := table.Points()
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if points[0].Attrs["period"] != "2022" || points[1].Attrs["period"] != "2023" {
		t.Errorf("periods = %q, %q; want sorted 2022, 2023",
			points[0].Attrs["period"], points[1].Attrs["period"])
	}
}

func TestParseData_BarePointArray(t *testing.T) {
	raw := `[{"Dim1": "S7A2023", "Dim2": "PT", "valor": 42}]`
	table, err := ParseData([]byte(raw), "0004167", "EN", dataDims())
	if err != nil {
		t.Fatalf("ParseData() failed: %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("got %d points, want 1", table.Len())
	}
	if table.Indicator != "0004167" || table.Language != "EN" {
		t.Errorf("fallback fields = %q/%q", table.Indicator, table.Language)
	}
}

func TestParseData_MissingDados(t *testing.T) {
	_, err := ParseData([]byte(`[{"indicador": "0004167"}]`), "0004167", "EN", nil)
	var perr *ine.DataProcessingError
	if !errors.As(err, &perr) {
		t.Fatalf("got %v, want DataProcessingError", err)
	}
	if perr.Endpoint != "data" {
		t.Errorf("Endpoint = %q, want data", perr.Endpoint)
	}
}

func TestParseData_EmptyEnvelope(t *testing.T) {
	_, err := ParseData([]byte(`[]`), "0004167", "EN", nil)
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("got %v, want ErrEmpty", err)
	}
}

func TestParseData_UnderscoreFieldsDropped(t *testing.T) {
	raw := `[{"dados": [{"Dim1": "S7A2023", "_id": "internal", "valor": 1}]}]`
	table, err := ParseData([]byte(raw), "x", "EN", dataDims())
	if err != nil {
		t.Fatalf("ParseData() failed: %v", err)
	}
	p := table.Points()[0]
	if _, ok := p.Attrs["_id"]; ok {
		t.Error("underscore field leaked into Attrs")
	}
}
