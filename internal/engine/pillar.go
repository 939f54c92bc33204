package engine

import (
	"math"

	"go.uber.org/zap"

	"github.com/placepulse/livability/internal/expectation"
	"github.com/placepulse/livability/internal/fallback"
	"github.com/placepulse/livability/internal/model"
	"github.com/placepulse/livability/internal/pillars"
)

// PillarScorer composes one pillar's components into a 0-100 score with a
// breakdown and a confidence record. It carries no per-request state and is
// safe for concurrent use.
type PillarScorer struct {
	def      pillars.Definition
	provider expectation.Provider
	policy   *fallback.Policy
	cal      *Calibration
}

// NewPillarScorer builds a scorer. cal is optional; nil means no calibration.
func NewPillarScorer(def pillars.Definition, provider expectation.Provider, policy *fallback.Policy, cal *Calibration) *PillarScorer {
	return &PillarScorer{def: def, provider: provider, policy: policy, cal: cal}
}

// Score evaluates the pillar against the supplied measurements. The pillar
// score is the component sum scaled to 0-100; calibration, when configured,
// is the only transform applied on top.
func (s *PillarScorer) Score(area model.AreaClassification, ctxTag model.ContextTag, ms model.MeasurementSet) model.PillarResult {
	log := zap.L().With(
		zap.String("pillar", s.def.Name),
		zap.String("area_type", string(area.AreaType)),
	)

	var (
		components []model.ComponentResult
		sig        confidenceSignals
		sum        float64
		maxSum     float64
	)

	for _, comp := range s.def.Components {
		maxPts := comp.EffectivePoints(ctxTag)
		meas, present := ms.Get(comp.Metric)
		entry, exact, haveEntry := s.provider.Lookup(area.AreaType, ctxTag, s.def.Name, comp.Metric)

		var proxy *fallback.ProxySignal
		if comp.ProxyMetric != "" {
			if pm, ok := ms.Get(comp.ProxyMetric); ok && !pm.QueryFailed {
				proxy = &fallback.ProxySignal{
					Name:      comp.ProxyMetric,
					Value:     pm.Value,
					Favorable: proxyFavorable(comp.ProxyMetric, pm.Value),
				}
			}
		}

		res := scoreComponent(componentInput{
			comp:      comp,
			maxPoints: maxPts,
			meas:      meas,
			present:   present,
			entry:     entry,
			haveEntry: haveEntry,
			proxy:     proxy,
		}, area, ctxTag, s.policy)

		sig.components++
		if res.FallbackApplied {
			sig.fallbacks++
		} else if !present || meas.QueryFailed {
			sig.hardFails++
		}
		if haveEntry {
			if entry.LowSample() {
				sig.lowSamples++
			}
			if !exact {
				sig.tierSubs++
			}
		}

		components = append(components, res)
		sum += res.Score
		maxSum += maxPts
	}

	raw := 0.0
	if maxSum > 0 {
		raw = sum / maxSum * 100
	}
	raw = math.Min(math.Max(raw, 0), 100)

	score := raw
	if s.cal != nil {
		score = s.cal.Apply(raw)
	}

	conf := sig.confidence()
	fallbackUsed := sig.fallbacks > 0
	result := model.PillarResult{
		PillarName: s.def.Name,
		Score:      round2(score),
		Components: components,
		Confidence: conf,
		DataQuality: model.DataQuality{
			QualityTier:     qualityTier(conf, fallbackUsed),
			FallbackUsed:    fallbackUsed,
			DataSourcesUsed: ms.Sources(),
		},
	}

	log.Debug("pillar scored",
		zap.Float64("score", result.Score),
		zap.Float64("confidence", conf),
		zap.Int("fallback_components", sig.fallbacks),
	)
	return result
}

// proxyFavorable evaluates a named proxy signal. Unknown proxies corroborate
// whenever their query produced a positive value.
func proxyFavorable(metric string, value float64) bool {
	switch metric {
	case "commute_minutes":
		return fallback.CommuteFavorable(value)
	default:
		return value > 0
	}
}
