package normalize

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tmcosta/goine/pkg/ine"
)

type metaDimension struct {
	ID     flexString  `json:"id"`
	Name   string      `json:"nome"`
	Desc   string      `json:"descricao"`
	Values []metaValue `json:"valores"`
}

type metaValue struct {
	Code  flexString `json:"codigo"`
	Label string     `json:"label"`
	Order flexString `json:"ordem"`
}

// ParseMetadata parses a metadata JSON payload into an ine.Metadata.
//
// The payload is the endpoint's envelope (object or single-object
// array) and must carry the "dimensoes" container; its absence is fatal.
// fallbackLang fills the language field when the payload omits it.
func ParseMetadata(raw []byte, fallbackLang string) (*ine.Metadata, error) {
	fields, err := unwrapEnvelope("metadata", raw)
	if err != nil {
		return nil, err
	}

	dimsRaw, ok := fields["dimensoes"]
	if !ok {
		return nil, &ine.DataProcessingError{
			Endpoint: "metadata",
			Reason:   `missing "dimensoes" container`,
		}
	}
	var rawDims []metaDimension
	if err := json.Unmarshal(dimsRaw, &rawDims); err != nil {
		return nil, &ine.DataProcessingError{
			Endpoint: "metadata",
			Reason:   `malformed "dimensoes" container`,
			Err:      err,
		}
	}

	meta := &ine.Metadata{
		Code:        jsonString(fields, "indicador"),
		Title:       jsonString(fields, "nome"),
		Language:    jsonString(fields, "lang"),
		Unit:        jsonString(fields, "unidade"),
		Source:      jsonString(fields, "fonte"),
		Theme:       jsonString(fields, "tema"),
		Subtheme:    jsonString(fields, "subtema"),
		Periodicity: jsonString(fields, "periodicidade"),
		LastPeriod:  jsonString(fields, "ultimoPeriodo"),
		Dimensions:  make([]ine.Dimension, 0, len(rawDims)),
	}
	if meta.Language == "" {
		meta.Language = fallbackLang
	}
	if s := jsonString(fields, "ultimaActualizacao"); s != "" {
		meta.LastUpdate = parseTimestamp(s)
	}

	for i, rd := range rawDims {
		meta.Dimensions = append(meta.Dimensions, parseDimension(rd, i+1))
	}
	return meta, nil
}

// parseDimension converts one "dimensoes" entry. The dimension id comes
// from the payload when it carries one, and falls back to the ordinal
// position otherwise.
func parseDimension(rd metaDimension, ordinal int) ine.Dimension {
	id := ordinal
	if n, err := strconv.Atoi(rd.ID.String()); err == nil && n > 0 {
		id = n
	}
	dim := ine.Dimension{
		ID:     ine.DimID(id),
		Name:   strings.TrimSpace(rd.Name),
		Desc:   strings.TrimSpace(rd.Desc),
		Values: make([]ine.DimensionValue, 0, len(rd.Values)),
	}
	if dim.Name == "" {
		dim.Name = dim.ID
	}
	for _, rv := range rd.Values {
		val := ine.DimensionValue{
			Code:  rv.Code.String(),
			Label: strings.TrimSpace(rv.Label),
		}
		if n, err := strconv.Atoi(rv.Order.String()); err == nil {
			val.Order = n
		}
		dim.Values = append(dim.Values, val)
	}
	return dim
}
