package model

// PriorityAllocation maps pillar names to non-negative relative weights
// ("tokens"). It need not sum to any fixed total; the aggregator normalizes
// over the pillars actually present.
type PriorityAllocation map[string]float64

// ScoreRequest is the input the engine consumes from the surrounding service
// layer. Measurements are keyed by pillar name, then metric name. PillarFlags
// disables whole pillars; a disabled pillar is treated identically to one
// whose data source failed entirely for renormalization purposes.
type ScoreRequest struct {
	Area         AreaClassification        `json:"area_classification"`
	Measurements map[string]MeasurementSet `json:"measurements"`
	Allocation   PriorityAllocation        `json:"priority_allocation,omitempty"`
	PillarFlags  map[string]bool           `json:"pillar_flags,omitempty"`
}

// PillarEnabled reports whether a pillar is enabled for this request.
// Pillars are enabled by default; only an explicit false disables one.
func (r *ScoreRequest) PillarEnabled(pillar string) bool {
	if r.PillarFlags == nil {
		return true
	}
	enabled, ok := r.PillarFlags[pillar]
	if !ok {
		return true
	}
	return enabled
}
