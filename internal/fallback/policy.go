// Package fallback decides whether a failed or empty upstream query should be
// replaced by a conservative floor score. The point is to distinguish "the
// API failed" from "the feature genuinely does not exist": a pure zero is
// only trusted when the policy's conditions do not hold.
package fallback

import (
	"fmt"

	"github.com/placepulse/livability/internal/model"
)

// DensityThreshold is the density above which a failed query in a non-urban
// area type can still trigger a floor.
const DensityThreshold = 1500.0

// ProxySignal is an independent corroborating metric (e.g. commute time from
// a different data source) used to sanity-check a floor before applying it.
type ProxySignal struct {
	Name      string
	Value     float64
	Favorable bool
}

// Decision is a fired fallback: the floor is a fraction of the component's
// maximum score, always strictly below the at-expectation credit.
type Decision struct {
	FloorFrac float64
	Reason    string
}

// Policy holds the area-tiered floor fractions. Zero-value tiers never fire.
type Policy struct {
	floors map[model.AreaType]float64
}

// DefaultFloors is the shipped tier table: a fraction of the component max
// per area type. Rural and exurban tiers are deliberately absent; a zero
// there is accepted as correct.
var DefaultFloors = map[model.AreaType]float64{
	model.AreaUrbanCore:          0.30,
	model.AreaHistoricUrban:      0.28,
	model.AreaUrbanResidential:   0.25,
	model.AreaSuburban:           0.20,
	model.AreaCommuterRailSuburb: 0.20,
}

// New creates a policy with the given floor fractions; nil uses the defaults.
func New(floors map[model.AreaType]float64) *Policy {
	if floors == nil {
		floors = DefaultFloors
	}
	return &Policy{floors: floors}
}

// Decide returns a floor decision, or nil when a true zero must be trusted.
// It fires only when ALL hold: the caller observed a failed/empty query, the
// area is urban-tier or denser than DensityThreshold, and the proxy signal
// (when present) does not contradict the feature's existence.
func (p *Policy) Decide(area model.AreaClassification, proxy *ProxySignal) *Decision {
	eligible := area.AreaType.Urban() ||
		area.AreaType == model.AreaSuburban ||
		area.Density > DensityThreshold
	if !eligible {
		return nil
	}

	if proxy != nil && !proxy.Favorable {
		return nil
	}

	frac, ok := p.floors[area.AreaType]
	if !ok {
		// Density-qualified but no tier of its own: use the most conservative
		// configured floor.
		frac = p.minFloor()
	}
	if frac <= 0 {
		return nil
	}

	reason := fmt.Sprintf("source query failed in %s (density %.0f); floor applied", area.AreaType, area.Density)
	if proxy != nil {
		reason = fmt.Sprintf("%s, corroborated by %s=%.1f", reason, proxy.Name, proxy.Value)
	}
	return &Decision{FloorFrac: frac, Reason: reason}
}

func (p *Policy) minFloor() float64 {
	min := 0.0
	for _, f := range p.floors {
		if f > 0 && (min == 0 || f < min) {
			min = f
		}
	}
	return min
}

// CommuteFavorable reports whether a commute-time proxy corroborates the
// presence of urban-grade infrastructure. A short, functioning commute is
// evidence the area has the fabric the failed query was probing for.
func CommuteFavorable(minutes float64) bool {
	return minutes > 0 && minutes <= 45
}
