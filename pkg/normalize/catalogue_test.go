package normalize

import (
	"errors"
	"testing"

	"github.com/tmcosta/goine/pkg/ine"
)

const catalogueXML = `<?xml version="1.0" encoding="UTF-8"?>
<ine_indicators>
  <indicator>
    <varcd>0004167</varcd>
    <title>Resident population (No.) by Place of residence, Sex and Age group</title>
    <theme>Population</theme>
    <subtheme>Population and demography</subtheme>
    <periodicity>Annual</periodicity>
    <geo_lastlevel>Municipality</geo_lastlevel>
    <source>INE, Annual estimates of resident population</source>
    <unit>No.</unit>
    <html>
      <bdd_url>https://www.ine.pt/xportal/xmain?xpid=INE&amp;indOcorrCod=0004167</bdd_url>
    </html>
    <json>
      <json_metainfo>https://www.ine.pt/ine/json_indicador/pindicaMeta.jsp?varcd=0004167&amp;lang=EN</json_metainfo>
      <json_dataset>https://www.ine.pt/ine/json_indicador/pindica.jsp?op=2&amp;varcd=0004167&amp;lang=EN</json_dataset>
    </json>
    <dates>
      <last_period_available>2023</last_period_available>
      <last_update>14-06-2024</last_update>
    </dates>
  </indicator>
  <indicator>
    <varcd>0008380</varcd>
    <title>Consumer price index (Base - 2012)</title>
    <theme>Prices</theme>
    <periodicity>Monthly</periodicity>
  </indicator>
  <indicator>
    <title>orphan entry without a code</title>
  </indicator>
</ine_indicators>`

func TestParseCatalogue(t *testing.T) {
	indicators, err := ParseCatalogue([]byte(catalogueXML))
	if err != nil {
		t.Fatalf("ParseCatalogue() failed: %v", err)
	}

	// The entry without a varcd is skipped.
	if len(indicators) != 2 {
		t.Fatalf("got %d indicators, want 2", len(indicators))
	}

	first := indicators[0]
	if first.Code != "0004167" {
		t.Errorf("Code = %q, want 0004167", first.Code)
	}
	if first.Title != "Resident population (No.) by Place of residence, Sex and Age group" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.Theme != "Population" || first.Subtheme != "Population and demography" {
		t.Errorf("theme = %q/%q", first.Theme, first.Subtheme)
	}
	if first.Unit != "No." || first.GeoLevel != "Municipality" {
		t.Errorf("unit/geo = %q/%q", first.Unit, first.GeoLevel)
	}
	if first.LastPeriod != "2023" {
		t.Errorf("LastPeriod = %q, want 2023", first.LastPeriod)
	}
	if first.LastUpdate == nil {
		t.Fatal("LastUpdate not parsed")
	}
	if y, m, d := first.LastUpdate.Date(); y != 2024 || m != 6 || d != 14 {
		t.Errorf("LastUpdate = %v, want 2024-06-14", first.LastUpdate)
	}
	if first.MetadataURL == "" || first.DataURL == "" || first.HTMLURL == "" {
		t.Error("endpoint URLs not captured")
	}

	second := indicators[1]
	if second.Code != "0008380" || second.LastUpdate != nil {
		t.Errorf("sparse entry = %+v", second)
	}
}

func TestParseCatalogue_Empty(t *testing.T) {
	indicators, err := ParseCatalogue([]byte(`<ine_indicators></ine_indicators>`))
	if err != nil {
		t.Fatalf("ParseCatalogue() failed on empty catalogue: %v", err)
	}
	if len(indicators) != 0 {
		t.Errorf("got %d indicators, want 0", len(indicators))
	}
}

func TestParseCatalogue_MalformedXML(t *testing.T) {
	_, err := ParseCatalogue([]byte(`<ine_indicators><indicator>`))
	var perr *ine.DataProcessingError
	if !errors.As(err, &perr) {
		t.Fatalf("got %v, want DataProcessingError", err)
	}
	if perr.Endpoint != "catalogue" {
		t.Errorf("Endpoint = %q, want catalogue", perr.Endpoint)
	}
}
