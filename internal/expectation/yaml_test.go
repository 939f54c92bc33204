package expectation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placepulse/livability/internal/model"
)

func TestDefaults(t *testing.T) {
	entries, err := Defaults()
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	p := NewStatic(entries)

	e, exact, ok := p.Lookup(model.AreaUrbanCore, model.ContextNone, "active_outdoors", "park_density")
	require.True(t, ok)
	assert.True(t, exact)
	assert.Equal(t, 8.5, e.Expected)
	require.NotNil(t, e.P25)
	assert.Equal(t, 5.0, *e.P25)
	assert.Equal(t, 44, e.SampleSize)

	// Context overrides ship too.
	e, _, ok = p.Lookup(model.AreaUrbanCore, model.ContextCoastal, "natural_beauty", "water_proximity_m")
	require.True(t, ok)
	assert.Equal(t, 800.0, e.Expected)

	// Every shipped row names a valid area type and a positive sample.
	for _, e := range entries {
		_, err := model.ParseAreaType(string(e.AreaType))
		assert.NoError(t, err)
		assert.Greater(t, e.SampleSize, 0)
	}
}

func TestDefaults_CoverEveryPillarForUrbanCore(t *testing.T) {
	entries, err := Defaults()
	require.NoError(t, err)

	pillarSeen := map[string]bool{}
	for _, e := range entries {
		if e.AreaType == model.AreaUrbanCore && e.Context == model.ContextNone {
			pillarSeen[e.Pillar] = true
		}
	}
	for _, name := range []string{
		"active_outdoors", "natural_beauty", "built_beauty", "neighborhood_amenities",
		"public_transit", "healthcare", "housing_value", "quality_education",
		"economic_security", "social_fabric", "climate_risk",
	} {
		assert.True(t, pillarSeen[name], name)
	}
}

func TestParseYAML_Deterministic(t *testing.T) {
	a, err := ParseYAML(defaultsYAML)
	require.NoError(t, err)
	b, err := ParseYAML(defaultsYAML)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestParseYAML_RejectsUnknownAreaType(t *testing.T) {
	bad := []byte(`
pillars:
  healthcare:
    clinic_count:
      downtown: {expected: 5, sample_size: 10}
`)
	_, err := ParseYAML(bad)
	assert.Error(t, err)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	data := []byte(`
pillars:
  healthcare:
    clinic_count:
      suburban: {expected: 9, p25: 5, p75: 14, sample_size: 68}
contexts:
  mountain:
    active_outdoors:
      trail_miles:
        rural: {expected: 60, sample_size: 14}
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	entries, err := LoadYAMLFile(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "active_outdoors", entries[0].Pillar)
	assert.Equal(t, model.ContextMountain, entries[0].Context)
	assert.Equal(t, "healthcare", entries[1].Pillar)
	require.NotNil(t, entries[1].P25)
	assert.Equal(t, 5.0, *entries[1].P25)

	_, err = LoadYAMLFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
