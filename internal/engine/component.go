package engine

import (
	"math"

	"github.com/placepulse/livability/internal/curve"
	"github.com/placepulse/livability/internal/expectation"
	"github.com/placepulse/livability/internal/fallback"
	"github.com/placepulse/livability/internal/model"
	"github.com/placepulse/livability/internal/pillars"
)

// componentInput bundles everything needed to score one component.
type componentInput struct {
	comp      pillars.Component
	maxPoints float64
	meas      model.Measurement
	present   bool
	entry     expectation.Entry
	haveEntry bool
	proxy     *fallback.ProxySignal
}

// scoreComponent produces a ComponentResult. Every decision is recorded on
// the result; nothing is silently adjusted. Invariant: 0 <= Score <= MaxScore.
func scoreComponent(in componentInput, area model.AreaClassification, ctxTag model.ContextTag, policy *fallback.Policy) model.ComponentResult {
	res := model.ComponentResult{
		Name:     in.comp.Name,
		MaxScore: in.maxPoints,
	}
	if in.haveEntry {
		res.ExpectedValue = in.entry.Expected
	}

	// A missing measurement, a failed query, or an empty count are all
	// fallback-eligible: the measured number cannot be trusted as a real zero
	// until the policy says so.
	empty := in.present && !in.meas.QueryFailed &&
		in.meas.Unit == model.UnitCount && in.meas.Value == 0
	if !in.present || in.meas.QueryFailed || empty {
		if d := policy.Decide(area, in.proxy); d != nil {
			res.Score = round2(d.FloorFrac * in.maxPoints)
			res.FallbackApplied = true
			res.FallbackReason = d.Reason
			return res
		}
		// True zero accepted as correct.
		return res
	}

	res.RawValue = in.meas.Value

	spec := in.comp.Curve
	spec.Max = in.maxPoints
	expected := 0.0
	if in.haveEntry {
		expected = in.entry.Expected
	}
	res.Score = round2(math.Min(curve.Score(in.meas.Value, expected, spec, area.AreaType), in.maxPoints))
	return res
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
