package normalize

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/tmcosta/goine/pkg/ine"
)

// lastUpdateLayout is the date format the catalogue uses, DD-MM-YYYY.
const lastUpdateLayout = "02-01-2006"

type xmlCatalogue struct {
	XMLName    xml.Name
	Indicators []xmlIndicator `xml:"indicator"`
}

type xmlIndicator struct {
	Code        string `xml:"varcd"`
	Title       string `xml:"title"`
	Description string `xml:"description"`
	Theme       string `xml:"theme"`
	Subtheme    string `xml:"subtheme"`
	Periodicity string `xml:"periodicity"`
	GeoLevel    string `xml:"geo_lastlevel"`
	Source      string `xml:"source"`
	Unit        string `xml:"unit"`
	HTML        struct {
		DatabaseURL string `xml:"bdd_url"`
	} `xml:"html"`
	JSON struct {
		MetadataURL string `xml:"json_metainfo"`
		DataURL     string `xml:"json_dataset"`
	} `xml:"json"`
	Dates struct {
		LastPeriod string `xml:"last_period_available"`
		LastUpdate string `xml:"last_update"`
	} `xml:"dates"`
}

// ParseCatalogue parses a catalogue XML payload into indicators.
//
// Indicator elements without a varcd are skipped; an empty catalogue is
// a valid result. Malformed XML is fatal and returns an
// *ine.DataProcessingError.
func ParseCatalogue(raw []byte) ([]ine.Indicator, error) {
	var doc xmlCatalogue
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, &ine.DataProcessingError{
			Endpoint: "catalogue",
			Reason:   "invalid XML",
			Err:      err,
		}
	}

	indicators := make([]ine.Indicator, 0, len(doc.Indicators))
	for _, el := range doc.Indicators {
		code := strings.TrimSpace(el.Code)
		if code == "" {
			continue
		}
		ind := ine.Indicator{
			Code:        code,
			Title:       strings.TrimSpace(el.Title),
			Description: strings.TrimSpace(el.Description),
			Theme:       strings.TrimSpace(el.Theme),
			Subtheme:    strings.TrimSpace(el.Subtheme),
			Periodicity: strings.TrimSpace(el.Periodicity),
			Source:      strings.TrimSpace(el.Source),
			Unit:        strings.TrimSpace(el.Unit),
			GeoLevel:    strings.TrimSpace(el.GeoLevel),
			LastPeriod:  strings.TrimSpace(el.Dates.LastPeriod),
			HTMLURL:     strings.TrimSpace(el.HTML.DatabaseURL),
			MetadataURL: strings.TrimSpace(el.JSON.MetadataURL),
			DataURL:     strings.TrimSpace(el.JSON.DataURL),
		}
		if s := strings.TrimSpace(el.Dates.LastUpdate); s != "" {
			if t, err := time.Parse(lastUpdateLayout, s); err == nil {
				ind.LastUpdate = &t
			}
		}
		indicators = append(indicators, ind)
	}
	return indicators, nil
}
