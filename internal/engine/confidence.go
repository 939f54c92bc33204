package engine

import "github.com/placepulse/livability/internal/model"

// confidenceSignals tallies what degraded a pillar's inputs. Confidence is
// lowered by these signals; the score itself never is.
type confidenceSignals struct {
	components int
	fallbacks  int
	hardFails  int // query failed and no fallback was available
	lowSamples int // expectation rows below the sample-size threshold
	tierSubs   int // expectation resolved via a neighboring default tier
}

// confidence derives a 0-1 confidence value. Weights reflect severity: an
// unrecovered failure is worse than a floored one, which is worse than a
// thin reference sample.
func (s confidenceSignals) confidence() float64 {
	if s.components == 0 {
		return 0
	}
	n := float64(s.components)
	c := 1.0 -
		0.45*float64(s.fallbacks)/n -
		0.30*float64(s.hardFails)/n -
		0.15*float64(s.lowSamples)/n -
		0.10*float64(s.tierSubs)/n
	if c < 0.05 {
		c = 0.05
	}
	return round2(c)
}

// qualityTier buckets confidence plus fallback usage for reporting.
func qualityTier(confidence float64, fallbackUsed bool) model.QualityTier {
	switch {
	case confidence >= 0.8 && !fallbackUsed:
		return model.QualityHigh
	case confidence >= 0.5:
		return model.QualityMedium
	default:
		return model.QualityLow
	}
}
