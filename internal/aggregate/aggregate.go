// Package aggregate combines independent pillar results and a caller priority
// allocation into one total score with full provenance. It is the only layer
// allowed to renormalize weights over available pillars.
package aggregate

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/placepulse/livability/internal/model"
)

// Caller-contract violations. Everything else (missing data, failed sources)
// is absorbed into confidence metadata, never raised.
var (
	ErrInvalidAllocation = eris.New("aggregate: invalid priority allocation")
	ErrUnknownPillar     = eris.New("aggregate: unknown pillar in allocation")
)

// Aggregate computes the total score. Unavailable pillars (disabled, or with
// no data at all) are excluded and the remaining weights renormalize,
// preserving their relative ratios. The aggregator only runs once every
// pillar has completed; a pending pillar is missing, never zero.
func Aggregate(results []model.PillarResult, alloc model.PriorityAllocation) (*model.TotalScoreResult, error) {
	if len(results) == 0 {
		return nil, eris.Wrap(ErrInvalidAllocation, "no pillar results")
	}

	known := make(map[string]bool, len(results))
	for _, r := range results {
		known[r.PillarName] = true
	}

	// Validate the allocation in stable order so errors are deterministic.
	names := make([]string, 0, len(alloc))
	for name := range alloc {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if alloc[name] < 0 {
			return nil, eris.Wrapf(ErrInvalidAllocation, "pillar %s has negative weight %.4f", name, alloc[name])
		}
		if !known[name] {
			return nil, eris.Wrapf(ErrUnknownPillar, "pillar %s", name)
		}
	}

	var weightSum float64
	for _, r := range results {
		if !r.Unavailable {
			weightSum += alloc[r.PillarName]
		}
	}
	if weightSum <= 0 {
		return nil, eris.Wrap(ErrInvalidAllocation, "allocation is zero across all available pillars")
	}

	out := &model.TotalScoreResult{
		TokenAllocation:   make(map[string]float64, len(results)),
		LivabilityPillars: make(map[string]model.PillarResult, len(results)),
	}

	var (
		total         float64
		weightedConf  float64
		compTotal     int
		compFallbacks int
	)
	tiers := make(map[model.QualityTier]int)

	for _, r := range results {
		out.TokenAllocation[r.PillarName] = alloc[r.PillarName]

		if r.Unavailable {
			r.Weight = 0
			r.Contribution = 0
			out.LivabilityPillars[r.PillarName] = r
			continue
		}

		w := alloc[r.PillarName] / weightSum
		r.Weight = round4(w)
		r.Contribution = round2(w * r.Score)
		total += w * r.Score
		weightedConf += w * r.Confidence

		for _, c := range r.Components {
			compTotal++
			if c.FallbackApplied {
				compFallbacks++
			}
		}
		tiers[r.DataQuality.QualityTier]++

		out.LivabilityPillars[r.PillarName] = r
	}

	fallbackPct := 0.0
	if compTotal > 0 {
		fallbackPct = float64(compFallbacks) / float64(compTotal) * 100
	}

	out.TotalScore = round2(total)
	out.OverallConfidence = model.OverallConfidence{
		AverageConfidence:       round2(weightedConf),
		FallbackPercentage:      round2(fallbackPct),
		QualityTierDistribution: tiers,
	}
	return out, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
