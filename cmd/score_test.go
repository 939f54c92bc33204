package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placepulse/livability/internal/model"
)

func TestParseAllocation(t *testing.T) {
	alloc, err := parseAllocation("public_transit=3, healthcare=2,quality_education=0.5")
	require.NoError(t, err)
	assert.Equal(t, model.PriorityAllocation{
		"public_transit":    3,
		"healthcare":        2,
		"quality_education": 0.5,
	}, alloc)
}

func TestParseAllocation_Malformed(t *testing.T) {
	_, err := parseAllocation("public_transit")
	assert.Error(t, err)

	_, err = parseAllocation("healthcare=lots")
	assert.Error(t, err)

	alloc, err := parseAllocation("")
	require.NoError(t, err)
	assert.Empty(t, alloc)
}

func TestPrintTable(t *testing.T) {
	result := &model.TotalScoreResult{
		TotalScore: 61.25,
		LivabilityPillars: map[string]model.PillarResult{
			"walkability": {PillarName: "walkability", Score: 70, Weight: 0.5, Contribution: 35, Confidence: 0.9,
				DataQuality: model.DataQuality{QualityTier: model.QualityHigh}},
			"healthcare": {PillarName: "healthcare", Unavailable: true},
		},
		OverallConfidence: model.OverallConfidence{AverageConfidence: 0.9},
	}

	var sb strings.Builder
	printTable(&sb, result)
	out := sb.String()

	assert.Contains(t, out, "walkability")
	assert.Contains(t, out, "70.00")
	assert.Contains(t, out, "unavailable")
	assert.Contains(t, out, "61.25")
}
