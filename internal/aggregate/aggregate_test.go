package aggregate

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placepulse/livability/internal/model"
)

func pillar(name string, score, conf float64) model.PillarResult {
	return model.PillarResult{
		PillarName: name,
		Score:      score,
		Confidence: conf,
		DataQuality: model.DataQuality{
			QualityTier: model.QualityHigh,
		},
	}
}

func unavailable(name string) model.PillarResult {
	return model.PillarResult{
		PillarName:  name,
		Unavailable: true,
		DataQuality: model.DataQuality{QualityTier: model.QualityLow},
	}
}

func TestAggregate_TwoPillars(t *testing.T) {
	results := []model.PillarResult{
		pillar("walkability", 80, 0.9),
		pillar("healthcare", 40, 0.7),
	}
	alloc := model.PriorityAllocation{"walkability": 0.3, "healthcare": 0.7}

	out, err := Aggregate(results, alloc)
	require.NoError(t, err)

	assert.Equal(t, 52.0, out.TotalScore)
	assert.Equal(t, 0.3, out.LivabilityPillars["walkability"].Weight)
	assert.Equal(t, 24.0, out.LivabilityPillars["walkability"].Contribution)
	assert.Equal(t, 28.0, out.LivabilityPillars["healthcare"].Contribution)
	assert.Equal(t, 0.3, out.TokenAllocation["walkability"])
	assert.InDelta(t, 0.76, out.OverallConfidence.AverageConfidence, 1e-9)
}

func TestAggregate_DisabledPillarRenormalizes(t *testing.T) {
	results := []model.PillarResult{
		pillar("walkability", 80, 0.9),
		unavailable("healthcare"),
	}
	alloc := model.PriorityAllocation{"walkability": 0.3, "healthcare": 0.7}

	out, err := Aggregate(results, alloc)
	require.NoError(t, err)

	// The remaining pillar absorbs all the weight.
	assert.Equal(t, 80.0, out.TotalScore)
	assert.Equal(t, 1.0, out.LivabilityPillars["walkability"].Weight)

	// The disabled pillar is surfaced but contributes nothing.
	hc := out.LivabilityPillars["healthcare"]
	assert.True(t, hc.Unavailable)
	assert.Equal(t, 0.0, hc.Weight)
	assert.Equal(t, 0.0, hc.Contribution)
	assert.Equal(t, 0.7, out.TokenAllocation["healthcare"])
}

func TestAggregate_ScaleInvariant(t *testing.T) {
	results := []model.PillarResult{
		pillar("walkability", 72.5, 0.8),
		pillar("healthcare", 41.3, 0.6),
		pillar("public_transit", 88.0, 0.95),
	}
	base := model.PriorityAllocation{"walkability": 1, "healthcare": 2, "public_transit": 3}
	scaled := model.PriorityAllocation{}
	for k, v := range base {
		scaled[k] = v * 7
	}

	a, err := Aggregate(results, base)
	require.NoError(t, err)
	b, err := Aggregate(results, scaled)
	require.NoError(t, err)

	assert.Equal(t, a.TotalScore, b.TotalScore)
	for name := range base {
		assert.Equal(t, a.LivabilityPillars[name].Weight, b.LivabilityPillars[name].Weight, name)
		assert.Equal(t, a.LivabilityPillars[name].Contribution, b.LivabilityPillars[name].Contribution, name)
	}
}

func TestAggregate_RenormalizationPreservesRatios(t *testing.T) {
	all := []model.PillarResult{
		pillar("a", 60, 0.9),
		pillar("b", 90, 0.9),
		pillar("c", 50, 0.9),
	}
	without := []model.PillarResult{all[0], all[1], unavailable("c")}
	alloc := model.PriorityAllocation{"a": 1, "b": 2, "c": 1}

	before, err := Aggregate(all, alloc)
	require.NoError(t, err)
	after, err := Aggregate(without, alloc)
	require.NoError(t, err)

	ratioBefore := before.LivabilityPillars["a"].Contribution / before.LivabilityPillars["b"].Contribution
	ratioAfter := after.LivabilityPillars["a"].Contribution / after.LivabilityPillars["b"].Contribution
	assert.InDelta(t, ratioBefore, ratioAfter, 0.01)
}

func TestAggregate_Idempotent(t *testing.T) {
	results := []model.PillarResult{
		pillar("walkability", 73.33, 0.81),
		pillar("healthcare", 41.67, 0.62),
		unavailable("schools"),
	}
	alloc := model.PriorityAllocation{"walkability": 1.5, "healthcare": 2.5, "schools": 1}

	a, err := Aggregate(results, alloc)
	require.NoError(t, err)
	b, err := Aggregate(results, alloc)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestAggregate_FallbackPercentage(t *testing.T) {
	withFallback := pillar("walkability", 55, 0.6)
	withFallback.Components = []model.ComponentResult{
		{Name: "intersection_density", Score: 10, MaxScore: 20},
		{Name: "sidewalk_coverage", Score: 10.5, MaxScore: 35, FallbackApplied: true},
	}
	clean := pillar("healthcare", 70, 0.9)
	clean.Components = []model.ComponentResult{
		{Name: "hospital_distance_m", Score: 25, MaxScore: 40},
		{Name: "clinic_count", Score: 20, MaxScore: 30},
	}

	out, err := Aggregate([]model.PillarResult{withFallback, clean}, model.PriorityAllocation{"walkability": 1, "healthcare": 1})
	require.NoError(t, err)

	assert.Equal(t, 25.0, out.OverallConfidence.FallbackPercentage)
	assert.Equal(t, 2, out.OverallConfidence.QualityTierDistribution[model.QualityHigh])
}

func TestAggregate_Errors(t *testing.T) {
	results := []model.PillarResult{pillar("walkability", 80, 0.9)}

	_, err := Aggregate(results, model.PriorityAllocation{"walkability": -1})
	assert.True(t, eris.Is(err, ErrInvalidAllocation))

	_, err = Aggregate(results, model.PriorityAllocation{"walkability": 1, "nope": 2})
	assert.True(t, eris.Is(err, ErrUnknownPillar))

	_, err = Aggregate(results, model.PriorityAllocation{"walkability": 0})
	assert.True(t, eris.Is(err, ErrInvalidAllocation))

	_, err = Aggregate(nil, model.PriorityAllocation{})
	assert.True(t, eris.Is(err, ErrInvalidAllocation))

	// All supplied weight on an unavailable pillar leaves nothing to score.
	_, err = Aggregate([]model.PillarResult{pillar("a", 50, 0.9), unavailable("b")},
		model.PriorityAllocation{"a": 0, "b": 5})
	assert.True(t, eris.Is(err, ErrInvalidAllocation))
}
