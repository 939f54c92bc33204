package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// AreaType is a coarse land-use/density classification. It drives which
// expectation row and which component weights apply; no scoring decision
// may branch on anything more specific (city names, metro names).
type AreaType string

const (
	AreaUrbanCore          AreaType = "urban_core"
	AreaUrbanResidential   AreaType = "urban_residential"
	AreaSuburban           AreaType = "suburban"
	AreaExurban            AreaType = "exurban"
	AreaRural              AreaType = "rural"
	AreaHistoricUrban      AreaType = "historic_urban"
	AreaCommuterRailSuburb AreaType = "commuter_rail_suburb"
)

// AreaTypes lists all known area types in stable order.
var AreaTypes = []AreaType{
	AreaUrbanCore,
	AreaUrbanResidential,
	AreaSuburban,
	AreaExurban,
	AreaRural,
	AreaHistoricUrban,
	AreaCommuterRailSuburb,
}

// ParseAreaType validates a string against the known area types.
func ParseAreaType(s string) (AreaType, error) {
	at := AreaType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AreaTypes {
		if at == known {
			return at, nil
		}
	}
	return "", eris.Errorf("model: unknown area type %q", s)
}

// Urban reports whether the area type is one of the dense urban tiers where
// a missing feature is more plausibly a data gap than a genuine absence.
func (a AreaType) Urban() bool {
	switch a {
	case AreaUrbanCore, AreaUrbanResidential, AreaHistoricUrban:
		return true
	}
	return false
}

// AreaClassification describes the location being scored. It is computed once
// per request by an external classifier and is immutable afterward.
type AreaClassification struct {
	AreaType  AreaType `json:"area_type"`
	Density   float64  `json:"density"`
	MetroName string   `json:"metro_name,omitempty"`
}

// ContextTag is an objective terrain/special-context label detected from
// measurement signals. It selects an alternate expectation row when present.
type ContextTag string

const (
	ContextNone     ContextTag = ""
	ContextMountain ContextTag = "mountain"
	ContextCoastal  ContextTag = "coastal"
	ContextDesert   ContextTag = "desert"
)
