package expectation

import (
	_ "embed"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/placepulse/livability/internal/model"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// yamlRow is the per-area-type leaf of the YAML table format.
type yamlRow struct {
	Expected   float64  `yaml:"expected"`
	P25        *float64 `yaml:"p25"`
	P75        *float64 `yaml:"p75"`
	SampleSize int      `yaml:"sample_size"`
}

// yamlTable is the nested on-disk format: pillar -> metric -> area type,
// plus context-specific overrides keyed the same way.
type yamlTable struct {
	Pillars  map[string]map[string]map[string]yamlRow            `yaml:"pillars"`
	Contexts map[string]map[string]map[string]map[string]yamlRow `yaml:"contexts"`
}

// Defaults returns the embedded baseline table.
func Defaults() ([]Entry, error) {
	return ParseYAML(defaultsYAML)
}

// LoadYAMLFile reads an expectation table from a YAML file on disk.
func LoadYAMLFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "expectation: read yaml file")
	}
	return ParseYAML(data)
}

// ParseYAML decodes the nested table format into a flat entry list.
func ParseYAML(data []byte) ([]Entry, error) {
	var table yamlTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, eris.Wrap(err, "expectation: parse yaml table")
	}

	var entries []Entry
	for pillar, metrics := range table.Pillars {
		for metric, areas := range metrics {
			for area, row := range areas {
				at, err := model.ParseAreaType(area)
				if err != nil {
					return nil, eris.Wrapf(err, "expectation: pillar %s metric %s", pillar, metric)
				}
				entries = append(entries, Entry{
					AreaType:   at,
					Pillar:     pillar,
					Metric:     metric,
					Expected:   row.Expected,
					P25:        row.P25,
					P75:        row.P75,
					SampleSize: row.SampleSize,
				})
			}
		}
	}
	for ctxName, pillars := range table.Contexts {
		for pillar, metrics := range pillars {
			for metric, areas := range metrics {
				for area, row := range areas {
					at, err := model.ParseAreaType(area)
					if err != nil {
						return nil, eris.Wrapf(err, "expectation: context %s pillar %s metric %s", ctxName, pillar, metric)
					}
					entries = append(entries, Entry{
						AreaType:   at,
						Context:    model.ContextTag(ctxName),
						Pillar:     pillar,
						Metric:     metric,
						Expected:   row.Expected,
						P25:        row.P25,
						P75:        row.P75,
						SampleSize: row.SampleSize,
					})
				}
			}
		}
	}

	// Map iteration order is random; sort for deterministic provider builds.
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
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
	return entries, nil
}
