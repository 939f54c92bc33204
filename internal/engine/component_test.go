package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/placepulse/livability/internal/curve"
	"github.com/placepulse/livability/internal/expectation"
	"github.com/placepulse/livability/internal/fallback"
	"github.com/placepulse/livability/internal/model"
	"github.com/placepulse/livability/internal/pillars"
)

func countComp(name, metric string) pillars.Component {
	return pillars.Component{Name: name, Metric: metric, Curve: curve.Spec{Shape: curve.Piecewise}}
}

func entryFor(expected float64) expectation.Entry {
	return expectation.Entry{Expected: expected, SampleSize: 40}
}

func TestScoreComponent_AtExpectation(t *testing.T) {
	res := scoreComponent(componentInput{
		comp:      countComp("routes", "route_count"),
		maxPoints: 35,
		meas:      model.Measurement{Name: "route_count", Value: 24, Unit: model.UnitCount},
		present:   true,
		entry:     entryFor(24),
		haveEntry: true,
	}, model.AreaClassification{AreaType: model.AreaUrbanCore, Density: 9000}, model.ContextNone, fallback.New(nil))

	assert.Equal(t, 21.0, res.Score) // 60% of 35
	assert.Equal(t, 24.0, res.RawValue)
	assert.Equal(t, 24.0, res.ExpectedValue)
	assert.False(t, res.FallbackApplied)
}

func TestScoreComponent_FailedQueryUrbanCoreFloor(t *testing.T) {
	res := scoreComponent(componentInput{
		comp:      countComp("routes", "route_count"),
		maxPoints: 35,
		meas:      model.Measurement{Name: "route_count", QueryFailed: true},
		present:   true,
		entry:     entryFor(24),
		haveEntry: true,
		proxy:     &fallback.ProxySignal{Name: "commute_minutes", Value: 18, Favorable: true},
	}, model.AreaClassification{AreaType: model.AreaUrbanCore, Density: 9000}, model.ContextNone, fallback.New(nil))

	assert.Equal(t, 10.5, res.Score) // 30% floor of 35
	assert.True(t, res.FallbackApplied)
	assert.NotEmpty(t, res.FallbackReason)
	// A floor is always worth less than actually meeting the expectation.
	assert.Less(t, res.Score, 0.60*res.MaxScore)
}

func TestScoreComponent_RuralZeroTrusted(t *testing.T) {
	res := scoreComponent(componentInput{
		comp:      countComp("cafes", "cafe_count"),
		maxPoints: 20,
		meas:      model.Measurement{Name: "cafe_count", Value: 0, Unit: model.UnitCount},
		present:   true,
		entry:     entryFor(0.8),
		haveEntry: true,
	}, model.AreaClassification{AreaType: model.AreaRural, Density: 150}, model.ContextNone, fallback.New(nil))

	assert.Equal(t, 0.0, res.Score)
	assert.False(t, res.FallbackApplied)
	assert.Empty(t, res.FallbackReason)
}

func TestScoreComponent_EmptyCountInUrbanIsFallbackEligible(t *testing.T) {
	// A successful query that returned zero grocery stores in an urban core is
	// overwhelmingly a data gap, not a food desert.
	res := scoreComponent(componentInput{
		comp:      countComp("grocery", "grocery_count"),
		maxPoints: 25,
		meas:      model.Measurement{Name: "grocery_count", Value: 0, Unit: model.UnitCount},
		present:   true,
		entry:     entryFor(9),
		haveEntry: true,
	}, model.AreaClassification{AreaType: model.AreaUrbanCore, Density: 8000}, model.ContextNone, fallback.New(nil))

	assert.True(t, res.FallbackApplied)
	assert.Equal(t, 7.5, res.Score) // 30% of 25
}

func TestScoreComponent_ZeroPercentIsNotEmpty(t *testing.T) {
	// Only empty counts are fallback-eligible; a measured 0% is a real value.
	res := scoreComponent(componentInput{
		comp:      countComp("canopy", "tree_canopy_pct"),
		maxPoints: 30,
		meas:      model.Measurement{Name: "tree_canopy_pct", Value: 0, Unit: model.UnitPercent},
		present:   true,
		entry:     entryFor(18),
		haveEntry: true,
	}, model.AreaClassification{AreaType: model.AreaUrbanCore, Density: 8000}, model.ContextNone, fallback.New(nil))

	assert.False(t, res.FallbackApplied)
	assert.Equal(t, 0.0, res.Score)
}

func TestScoreComponent_MissingMeasurement(t *testing.T) {
	area := model.AreaClassification{AreaType: model.AreaSuburban, Density: 1800}

	res := scoreComponent(componentInput{
		comp:      countComp("stops", "stop_density"),
		maxPoints: 20,
		present:   false,
		entry:     entryFor(9),
		haveEntry: true,
	}, area, model.ContextNone, fallback.New(nil))

	assert.True(t, res.FallbackApplied)
	assert.Equal(t, 4.0, res.Score) // 20% suburban floor of 20

	// The same gap in a rural area scores a trusted zero.
	res = scoreComponent(componentInput{
		comp:      countComp("stops", "stop_density"),
		maxPoints: 20,
		present:   false,
		entry:     entryFor(0.8),
		haveEntry: true,
	}, model.AreaClassification{AreaType: model.AreaRural, Density: 90}, model.ContextNone, fallback.New(nil))
	assert.False(t, res.FallbackApplied)
	assert.Equal(t, 0.0, res.Score)
}

func TestScoreComponent_NoExpectationRow(t *testing.T) {
	// Without a baseline row the piecewise curve falls back to absolute-count
	// anchors instead of a ratio.
	res := scoreComponent(componentInput{
		comp:      countComp("civic", "civic_space_count"),
		maxPoints: 30,
		meas:      model.Measurement{Name: "civic_space_count", Value: 3, Unit: model.UnitCount},
		present:   true,
	}, model.AreaClassification{AreaType: model.AreaExurban, Density: 400}, model.ContextNone, fallback.New(nil))

	assert.False(t, res.FallbackApplied)
	assert.Equal(t, 0.0, res.ExpectedValue)
	assert.InDelta(t, 13.5, res.Score, 1e-9) // 45% of 30
}

func TestScoreComponent_Bounds(t *testing.T) {
	areas := []model.AreaClassification{
		{AreaType: model.AreaUrbanCore, Density: 12000},
		{AreaType: model.AreaRural, Density: 50},
	}
	values := []struct {
		meas    model.Measurement
		present bool
	}{
		{model.Measurement{Value: 0, Unit: model.UnitCount}, true},
		{model.Measurement{Value: 1e9, Unit: model.UnitCount}, true},
		{model.Measurement{QueryFailed: true}, true},
		{model.Measurement{}, false},
	}
	for _, area := range areas {
		for _, v := range values {
			res := scoreComponent(componentInput{
				comp:      countComp("c", "m"),
				maxPoints: 35,
				meas:      v.meas,
				present:   v.present,
				entry:     entryFor(10),
				haveEntry: true,
			}, area, model.ContextNone, fallback.New(nil))
			assert.GreaterOrEqual(t, res.Score, 0.0)
			assert.LessOrEqual(t, res.Score, res.MaxScore)
		}
	}
}
