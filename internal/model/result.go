package model

// QualityTier buckets a pillar's data quality for reporting.
type QualityTier string

const (
	QualityHigh   QualityTier = "high"
	QualityMedium QualityTier = "medium"
	QualityLow    QualityTier = "low"
)

// ComponentResult records how one sub-measurement was scored, including every
// decision taken along the way. Invariant: 0 <= Score <= MaxScore.
type ComponentResult struct {
	Name            string  `json:"name"`
	RawValue        float64 `json:"raw_value"`
	ExpectedValue   float64 `json:"expected_value"`
	Score           float64 `json:"score"`
	MaxScore        float64 `json:"max_score"`
	FallbackApplied bool    `json:"fallback_applied"`
	FallbackReason  string  `json:"fallback_reason,omitempty"`
}

// DataQuality summarizes the trustworthiness of a pillar's inputs.
type DataQuality struct {
	QualityTier     QualityTier `json:"quality_tier"`
	FallbackUsed    bool        `json:"fallback_used"`
	DataSourcesUsed []string    `json:"data_sources_used"`
}

// PillarResult is one pillar's 0-100 score with full provenance. Score is the
// component composition scaled to 0-100; the only transform ever applied on
// top is an offline-derived linear calibration, clamped to [0,100].
type PillarResult struct {
	PillarName   string            `json:"pillar_name"`
	Score        float64           `json:"score"`
	Weight       float64           `json:"weight"`
	Contribution float64           `json:"contribution"`
	Components   []ComponentResult `json:"breakdown"`
	Confidence   float64           `json:"confidence"`
	DataQuality  DataQuality       `json:"data_quality"`
	Unavailable  bool              `json:"unavailable,omitempty"`
}

// OverallConfidence aggregates per-pillar confidence across the request.
type OverallConfidence struct {
	AverageConfidence       float64             `json:"average_confidence"`
	FallbackPercentage      float64             `json:"fallback_percentage"`
	QualityTierDistribution map[QualityTier]int `json:"quality_tier_distribution"`
}

// TotalScoreResult is the engine's response. Field names and the 0-100 scale
// are a wire contract consumed by the HTTP layer and frontend.
type TotalScoreResult struct {
	TotalScore        float64                 `json:"total_score"`
	TokenAllocation   map[string]float64      `json:"token_allocation"`
	LivabilityPillars map[string]PillarResult `json:"livability_pillars"`
	OverallConfidence OverallConfidence       `json:"overall_confidence"`
}
