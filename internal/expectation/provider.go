// Package expectation provides the read-only baseline table the scoring
// engine ratios observations against. The table is loaded once at startup
// (from the embedded defaults, YAML, XLSX, SQLite, or Postgres) and is safe
// for concurrent reads with no synchronization.
package expectation

import (
	"sort"

	"go.uber.org/zap"

	"github.com/placepulse/livability/internal/model"
)

// LowSampleThreshold marks entries derived from few reference locations as
// low-confidence. They are still used; only confidence reporting changes.
const LowSampleThreshold = 12

// Entry is one research-derived baseline row, keyed by area type, pillar and
// metric. Context selects terrain-specific overrides (mountain, coastal).
type Entry struct {
	AreaType   model.AreaType   `yaml:"area_type" json:"area_type"`
	Context    model.ContextTag `yaml:"context,omitempty" json:"context,omitempty"`
	Pillar     string           `yaml:"pillar" json:"pillar"`
	Metric     string           `yaml:"metric" json:"metric"`
	Expected   float64          `yaml:"expected" json:"expected"`
	P25        *float64         `yaml:"p25,omitempty" json:"p25,omitempty"`
	P75        *float64         `yaml:"p75,omitempty" json:"p75,omitempty"`
	SampleSize int              `yaml:"sample_size" json:"sample_size"`
}

// LowSample reports whether the entry was derived from a small reference set.
func (e Entry) LowSample() bool {
	return e.SampleSize < LowSampleThreshold
}

// Provider looks up baseline entries. Implementations must be safe for
// concurrent use after construction.
type Provider interface {
	// Lookup returns the entry for (area, context, pillar, metric). A context
	// row is preferred when present; otherwise the plain area row is used.
	// exact is false when the entry came from a neighboring default tier.
	Lookup(area model.AreaType, ctxTag model.ContextTag, pillar, metric string) (entry Entry, exact bool, ok bool)
}

// defaultTierOrder lists, per area type, the neighboring tiers to consult
// when a row is missing, nearest first.
var defaultTierOrder = map[model.AreaType][]model.AreaType{
	model.AreaUrbanCore:          {model.AreaHistoricUrban, model.AreaUrbanResidential},
	model.AreaHistoricUrban:      {model.AreaUrbanCore, model.AreaUrbanResidential},
	model.AreaUrbanResidential:   {model.AreaUrbanCore, model.AreaSuburban},
	model.AreaSuburban:           {model.AreaUrbanResidential, model.AreaExurban},
	model.AreaCommuterRailSuburb: {model.AreaSuburban, model.AreaUrbanResidential},
	model.AreaExurban:            {model.AreaSuburban, model.AreaRural},
	model.AreaRural:              {model.AreaExurban, model.AreaSuburban},
}

type key struct {
	area   model.AreaType
	ctxTag model.ContextTag
	pillar string
	metric string
}

// StaticProvider is an immutable in-memory expectation table.
type StaticProvider struct {
	entries map[key]Entry
}

// NewStatic builds a provider from a flat entry list. Later duplicates win,
// which lets callers layer overrides on top of the embedded defaults.
func NewStatic(entries []Entry) *StaticProvider {
	m := make(map[key]Entry, len(entries))
	for _, e := range entries {
		m[key{e.AreaType, e.Context, e.Pillar, e.Metric}] = e
	}
	return &StaticProvider{entries: m}
}

// Lookup implements Provider. Resolution order: exact context row, plain area
// row, then the plain row of each neighboring default tier. Tier substitution
// is logged because it degrades confidence reporting downstream.
func (p *StaticProvider) Lookup(area model.AreaType, ctxTag model.ContextTag, pillar, metric string) (Entry, bool, bool) {
	if ctxTag != model.ContextNone {
		if e, ok := p.entries[key{area, ctxTag, pillar, metric}]; ok {
			return e, true, true
		}
	}
	if e, ok := p.entries[key{area, model.ContextNone, pillar, metric}]; ok {
		return e, true, true
	}
	for _, tier := range defaultTierOrder[area] {
		if e, ok := p.entries[key{tier, model.ContextNone, pillar, metric}]; ok {
			zap.L().Debug("expectation: default tier substitution",
				zap.String("pillar", pillar),
				zap.String("metric", metric),
				zap.String("requested", string(area)),
				zap.String("used", string(tier)),
			)
			return e, false, true
		}
	}
	return Entry{}, false, false
}

// Entries returns all rows in stable order, for inspection tooling.
func (p *StaticProvider) Entries() []Entry {
	out := make([]Entry, 0, len(p.entries))
	for _, e := range p.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Pillar != b.Pillar {
			return a.Pillar < b.Pillar
		}
		if a.Metric != b.Metric {
			return a.Metric < b.Metric
		}
		if a.AreaType != b.AreaType {
			return a.AreaType < b.AreaType
		}
		return a.Context < b.Context
	})
	return out
}
