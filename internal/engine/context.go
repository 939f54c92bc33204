package engine

import (
	"github.com/placepulse/livability/internal/model"
)

// Objective multi-signal thresholds for special-context detection. Contexts
// are never derived from place names; only measured terrain signals qualify.
const (
	mountainTrailMiles = 40.0
	mountainReliefM    = 300.0
	coastalWaterDistM  = 1500.0
	coastalWaterCount  = 3.0
	desertCanopyPct    = 8.0
	desertWaterCount   = 1.0
)

// detectContext classifies terrain from the request's measurement signals.
// Each tag requires two independent corroborating signals, and a failed
// query never contributes a signal.
func detectContext(all map[string]model.MeasurementSet) model.ContextTag {
	get := func(pillar, metric string) (float64, bool) {
		ms, ok := all[pillar]
		if !ok {
			return 0, false
		}
		m, ok := ms.Get(metric)
		if !ok || m.QueryFailed {
			return 0, false
		}
		return m.Value, true
	}

	relief, hasRelief := get("natural_beauty", "terrain_relief_m")
	trails, hasTrails := get("active_outdoors", "trail_miles")
	if hasRelief && hasTrails && relief >= mountainReliefM && trails >= mountainTrailMiles {
		return model.ContextMountain
	}

	waterDist, hasWaterDist := get("natural_beauty", "water_proximity_m")
	waterCount, hasWaterCount := get("natural_beauty", "water_feature_count")
	if hasWaterDist && hasWaterCount && waterDist <= coastalWaterDistM && waterCount >= coastalWaterCount {
		return model.ContextCoastal
	}

	canopy, hasCanopy := get("natural_beauty", "tree_canopy_pct")
	if !hasCanopy {
		canopy, hasCanopy = get("active_outdoors", "tree_canopy_pct")
	}
	if hasCanopy && hasWaterCount && canopy < desertCanopyPct && waterCount <= desertWaterCount {
		return model.ContextDesert
	}

	return model.ContextNone
}
