// Package pillars declares the component makeup of every livability pillar.
// Everything here is swappable configuration data: component sets, point
// budgets and curve parameters are tunable, not structural.
package pillars

import (
	"github.com/placepulse/livability/internal/curve"
	"github.com/placepulse/livability/internal/model"
)

// Component is one measurable sub-feature of a pillar. Points is the
// component's score cap; PointsByContext shifts the cap when an objective
// terrain context is detected (e.g. terrain relief matters more in mountain
// country). ProxyMetric names an independent measurement consulted by the
// fallback policy when this component's own query fails.
type Component struct {
	Name            string
	Metric          string
	Points          float64
	PointsByContext map[model.ContextTag]float64
	Curve           curve.Spec
	ProxyMetric     string
}

// EffectivePoints returns the component cap for a detected context.
func (c Component) EffectivePoints(ctxTag model.ContextTag) float64 {
	if pts, ok := c.PointsByContext[ctxTag]; ok {
		return pts
	}
	return c.Points
}

// Definition is a pillar's fixed component list.
type Definition struct {
	Name       string
	Components []Component
}

// Names returns all default pillar names in stable order.
func Names() []string {
	defs := Defaults()
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = d.Name
	}
	return out
}

// Defaults returns the shipped pillar definitions. Point budgets within a
// pillar sum to 100 so a pillar score is the plain component sum.
func Defaults() []Definition {
	pw := func() curve.Spec { return curve.Spec{Shape: curve.Piecewise} }

	return []Definition{
		{
			Name: "active_outdoors",
			Components: []Component{
				{Name: "park_density", Metric: "park_density", Points: 25, Curve: pw()},
				{Name: "trail_miles", Metric: "trail_miles", Points: 25, Curve: pw(),
					PointsByContext: map[model.ContextTag]float64{model.ContextMountain: 35}},
				{Name: "recreation_facilities", Metric: "recreation_facility_count", Points: 20, Curve: pw()},
				{Name: "tree_canopy", Metric: "tree_canopy_pct", Points: 30, Curve: pw(),
					PointsByContext: map[model.ContextTag]float64{model.ContextMountain: 20, model.ContextDesert: 15}},
			},
		},
		{
			Name: "natural_beauty",
			Components: []Component{
				{Name: "water_proximity", Metric: "water_proximity_m", Points: 30,
					Curve:           curve.Spec{Shape: curve.ExpDecay, Optimal: 800, DecayRate: 0.0004},
					PointsByContext: map[model.ContextTag]float64{model.ContextCoastal: 40, model.ContextDesert: 20}},
				{Name: "terrain_relief", Metric: "terrain_relief_m", Points: 25, Curve: pw(),
					PointsByContext: map[model.ContextTag]float64{model.ContextMountain: 40}},
				{Name: "tree_canopy", Metric: "tree_canopy_pct", Points: 25, Curve: pw(),
					PointsByContext: map[model.ContextTag]float64{model.ContextMountain: 15, model.ContextDesert: 15}},
				{Name: "scenic_landcover", Metric: "scenic_landcover_pct", Points: 20, Curve: pw()},
			},
		},
		{
			Name: "built_beauty",
			Components: []Component{
				{Name: "historic_density", Metric: "historic_building_density", Points: 25, Curve: pw()},
				{Name: "streetwall_continuity", Metric: "streetwall_continuity_pct", Points: 25,
					Curve: curve.Spec{Shape: curve.Hump, Band: &curve.Band{
						PeakStart: 40, PeakEnd: 75, GentleUntil: 88, GentleFrac: 0.7, ZeroAt: 100,
					}}},
				{Name: "building_coverage", Metric: "building_coverage_pct", Points: 25,
					Curve: curve.Spec{Shape: curve.Hump, Band: &curve.Band{
						PeakStart: 25, PeakEnd: 55, GentleUntil: 70, GentleFrac: 0.65, ZeroAt: 95,
					}}},
				{Name: "intersection_density", Metric: "intersection_density", Points: 25,
					Curve: curve.Spec{Shape: curve.SweetSpot,
						Band: &curve.Band{PeakStart: 50, PeakEnd: 90, GentleUntil: 140, GentleFrac: 0.7, ZeroAt: 260},
						Bands: map[model.AreaType]curve.Band{
							model.AreaUrbanCore:        {PeakStart: 110, PeakEnd: 180, GentleUntil: 240, GentleFrac: 0.7, ZeroAt: 380},
							model.AreaHistoricUrban:    {PeakStart: 120, PeakEnd: 200, GentleUntil: 260, GentleFrac: 0.7, ZeroAt: 400},
							model.AreaUrbanResidential: {PeakStart: 80, PeakEnd: 130, GentleUntil: 180, GentleFrac: 0.7, ZeroAt: 300},
							model.AreaSuburban:         {PeakStart: 45, PeakEnd: 80, GentleUntil: 120, GentleFrac: 0.7, ZeroAt: 220},
							model.AreaRural:            {PeakStart: 6, PeakEnd: 25, GentleUntil: 60, GentleFrac: 0.6, ZeroAt: 140},
						}}},
			},
		},
		{
			Name: "neighborhood_amenities",
			Components: []Component{
				{Name: "grocery", Metric: "grocery_count", Points: 25, Curve: pw()},
				{Name: "restaurants", Metric: "restaurant_count", Points: 25, Curve: pw()},
				{Name: "cafes", Metric: "cafe_count", Points: 20, Curve: pw()},
				{Name: "retail", Metric: "retail_count", Points: 30, Curve: pw()},
			},
		},
		{
			Name: "public_transit",
			Components: []Component{
				{Name: "route_count", Metric: "route_count", Points: 35, Curve: pw(), ProxyMetric: "commute_minutes"},
				{Name: "stop_density", Metric: "stop_density", Points: 35, Curve: pw(), ProxyMetric: "commute_minutes"},
				{Name: "service_span", Metric: "service_span_hours", Points: 30, Curve: pw(), ProxyMetric: "commute_minutes"},
			},
		},
		{
			Name: "healthcare",
			Components: []Component{
				{Name: "pharmacies", Metric: "pharmacy_count", Points: 30, Curve: pw()},
				{Name: "clinics", Metric: "clinic_count", Points: 35, Curve: pw()},
				{Name: "hospital_proximity", Metric: "hospital_distance_m", Points: 35,
					Curve: curve.Spec{Shape: curve.ExpDecay, Optimal: 3000, DecayRate: 0.00012}},
			},
		},
		{
			Name: "housing_value",
			Components: []Component{
				{Name: "price_to_income", Metric: "price_to_income_ratio", Points: 40,
					Curve: curve.Spec{Shape: curve.Hump, Band: &curve.Band{
						PeakStart: 1.5, PeakEnd: 3.5, GentleUntil: 5.5, GentleFrac: 0.55, ZeroAt: 9,
					}}},
				{Name: "rent_burden", Metric: "rent_to_income_pct", Points: 35,
					Curve: curve.Spec{Shape: curve.Hump, Band: &curve.Band{
						PeakStart: 10, PeakEnd: 25, GentleUntil: 33, GentleFrac: 0.6, ZeroAt: 50,
					}}},
				{Name: "new_construction", Metric: "new_construction_pct", Points: 25, Curve: pw()},
			},
		},
		{
			Name: "quality_education",
			Components: []Component{
				{Name: "school_rating", Metric: "avg_school_rating", Points: 45, Curve: pw()},
				{Name: "school_count", Metric: "school_count", Points: 30, Curve: pw()},
				{Name: "class_size", Metric: "student_teacher_ratio", Points: 25,
					Curve: curve.Spec{Shape: curve.Hump, Band: &curve.Band{
						PeakStart: 8, PeakEnd: 16, GentleUntil: 22, GentleFrac: 0.6, ZeroAt: 35,
					}}},
			},
		},
		{
			Name: "economic_security",
			Components: []Component{
				{Name: "income_ratio", Metric: "median_income_ratio", Points: 40, Curve: pw()},
				{Name: "employment", Metric: "unemployment_pct", Points: 30,
					Curve: curve.Spec{Shape: curve.ExpDecay, Optimal: 3.5, DecayRate: 0.25}},
				{Name: "poverty", Metric: "poverty_pct", Points: 30,
					Curve: curve.Spec{Shape: curve.ExpDecay, Optimal: 6, DecayRate: 0.08}},
			},
		},
		{
			Name: "social_fabric",
			Components: []Component{
				{Name: "nonprofits", Metric: "nonprofit_density", Points: 40, Curve: pw()},
				{Name: "civic_spaces", Metric: "civic_space_count", Points: 30, Curve: pw()},
				{Name: "religious_orgs", Metric: "religious_org_count", Points: 30, Curve: pw()},
			},
		},
		{
			Name: "climate_risk",
			Components: []Component{
				{Name: "extreme_heat", Metric: "extreme_heat_days", Points: 35,
					Curve: curve.Spec{Shape: curve.ExpDecay, Optimal: 8, DecayRate: 0.05}},
				{Name: "air_quality", Metric: "air_quality_index", Points: 35,
					Curve: curve.Spec{Shape: curve.ExpDecay, Optimal: 45, DecayRate: 0.03}},
				{Name: "flood_exposure", Metric: "flood_risk_pct", Points: 30,
					Curve: curve.Spec{Shape: curve.ExpDecay, Optimal: 4, DecayRate: 0.09}},
			},
		},
	}
}
