// Package engine runs the per-request scoring pipeline: context detection,
// parallel pillar scoring over shared-nothing inputs, then aggregation. The
// engine itself performs no I/O and carries no state across requests.
package engine

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/placepulse/livability/internal/aggregate"
	"github.com/placepulse/livability/internal/expectation"
	"github.com/placepulse/livability/internal/fallback"
	"github.com/placepulse/livability/internal/model"
	"github.com/placepulse/livability/internal/pillars"
)

// ErrInvalidArea marks a request whose area classification fails validation.
// It is a caller-contract violation, not a data-quality condition.
var ErrInvalidArea = eris.New("engine: invalid area classification")

// Engine scores locations. All reference tables and tunables are fixed at
// construction; concurrent Score calls share nothing mutable.
type Engine struct {
	scorers      []*PillarScorer
	defs         []pillars.Definition
	defaultAlloc model.PriorityAllocation
}

// Option customizes engine construction.
type Option func(*options)

type options struct {
	defs         []pillars.Definition
	policy       *fallback.Policy
	calibrations map[string]Calibration
	defaultAlloc model.PriorityAllocation
}

// WithDefinitions replaces the default pillar definitions.
func WithDefinitions(defs []pillars.Definition) Option {
	return func(o *options) { o.defs = defs }
}

// WithFallbackPolicy replaces the default fallback policy.
func WithFallbackPolicy(p *fallback.Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithCalibrations sets per-pillar linear calibration pairs. Pillars without
// an entry get the identity transform.
func WithCalibrations(cals map[string]Calibration) Option {
	return func(o *options) { o.calibrations = cals }
}

// WithDefaultAllocation replaces the baseline priority allocation.
func WithDefaultAllocation(alloc model.PriorityAllocation) Option {
	return func(o *options) { o.defaultAlloc = alloc }
}

// New builds an engine over an expectation provider.
func New(provider expectation.Provider, opts ...Option) *Engine {
	o := options{
		defs:   pillars.Defaults(),
		policy: fallback.New(nil),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.defaultAlloc == nil {
		o.defaultAlloc = DefaultAllocation(o.defs)
	}

	e := &Engine{defs: o.defs, defaultAlloc: o.defaultAlloc}
	for _, def := range o.defs {
		var cal *Calibration
		if c, ok := o.calibrations[def.Name]; ok {
			cc := c
			cal = &cc
		}
		e.scorers = append(e.scorers, NewPillarScorer(def, provider, o.policy, cal))
	}
	return e
}

// Pillars returns the configured pillar names in definition order.
func (e *Engine) Pillars() []string {
	out := make([]string, len(e.defs))
	for i, d := range e.defs {
		out[i] = d.Name
	}
	return out
}

// DefaultAllocation is the documented baseline: every pillar weighted
// equally. Callers spend their own tokens to reshape it.
func DefaultAllocation(defs []pillars.Definition) model.PriorityAllocation {
	alloc := make(model.PriorityAllocation, len(defs))
	for _, d := range defs {
		alloc[d.Name] = 1
	}
	return alloc
}

// Score runs the full pipeline for one request. Pillar scoring is evaluated
// in parallel; the aggregator waits for every enabled pillar before
// computing the total, so partial totals cannot occur.
func (e *Engine) Score(ctx context.Context, req *model.ScoreRequest) (*model.TotalScoreResult, error) {
	if req == nil {
		return nil, eris.New("engine: nil request")
	}
	if _, err := model.ParseAreaType(string(req.Area.AreaType)); err != nil {
		return nil, eris.Wrap(ErrInvalidArea, err.Error())
	}

	requestID := uuid.NewString()
	log := zap.L().With(
		zap.String("request_id", requestID),
		zap.String("area_type", string(req.Area.AreaType)),
		zap.Float64("density", req.Area.Density),
	)

	ctxTag := detectContext(req.Measurements)
	if ctxTag != model.ContextNone {
		log.Info("special context detected", zap.String("context", string(ctxTag)))
	}

	results := make([]model.PillarResult, len(e.scorers))
	g, gctx := errgroup.WithContext(ctx)
	for i, scorer := range e.scorers {
		name := scorer.def.Name
		ms, hasData := req.Measurements[name]
		if !req.PillarEnabled(name) || !hasData || len(ms) == 0 {
			results[i] = unavailableResult(name)
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = scorer.Score(req.Area, ctxTag, ms)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "engine: pillar scoring")
	}

	alloc := e.mergeAllocation(req.Allocation)
	out, err := aggregate.Aggregate(results, alloc)
	if err != nil {
		return nil, err
	}

	log.Info("request scored",
		zap.Float64("total_score", out.TotalScore),
		zap.Float64("average_confidence", out.OverallConfidence.AverageConfidence),
		zap.Float64("fallback_percentage", out.OverallConfidence.FallbackPercentage),
	)
	return out, nil
}

// mergeAllocation fills pillars absent from the caller's allocation with the
// documented baseline weights.
func (e *Engine) mergeAllocation(supplied model.PriorityAllocation) model.PriorityAllocation {
	merged := make(model.PriorityAllocation, len(e.defaultAlloc))
	for k, v := range e.defaultAlloc {
		merged[k] = v
	}
	for k, v := range supplied {
		merged[k] = v
	}
	return merged
}

// unavailableResult records a pillar that was disabled or wholly unscoreable.
// It is surfaced in the response but excluded from renormalization.
func unavailableResult(name string) model.PillarResult {
	return model.PillarResult{
		PillarName:  name,
		Unavailable: true,
		DataQuality: model.DataQuality{
			QualityTier:     model.QualityLow,
			FallbackUsed:    false,
			DataSourcesUsed: nil,
		},
	}
}
