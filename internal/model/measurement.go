package model

import "sort"

// Unit identifies what kind of raw observation a Measurement carries.
type Unit string

const (
	UnitCount   Unit = "count"
	UnitMeters  Unit = "meters"
	UnitPercent Unit = "percent"
)

// Measurement is a named raw observation handed to the engine by an external
// data collaborator. A failed upstream query is recorded explicitly via
// QueryFailed and is never silently coerced to zero.
type Measurement struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Unit        Unit    `json:"unit"`
	QueryFailed bool    `json:"query_failed"`
	Source      string  `json:"source,omitempty"`
}

// MeasurementSet is the per-pillar map of named measurements.
type MeasurementSet map[string]Measurement

// Get returns the named measurement. A measurement that was never supplied is
// indistinguishable from a failed query for scoring purposes: the component
// scorer must consult the fallback policy either way.
func (ms MeasurementSet) Get(name string) (Measurement, bool) {
	m, ok := ms[name]
	return m, ok
}

// Sources returns the distinct source labels of measurements whose queries
// succeeded, in stable order.
func (ms MeasurementSet) Sources() []string {
	seen := make(map[string]bool, len(ms))
	var out []string
	for _, name := range sortedKeys(ms) {
		m := ms[name]
		if m.QueryFailed || m.Source == "" || seen[m.Source] {
			continue
		}
		seen[m.Source] = true
		out = append(out, m.Source)
	}
	return out
}

func sortedKeys(ms MeasurementSet) []string {
	keys := make([]string, 0, len(ms))
	for k := range ms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
