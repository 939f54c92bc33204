package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/placepulse/livability/internal/expectation"
	"github.com/placepulse/livability/internal/model"
)

func TestPrintEntries(t *testing.T) {
	p25 := 14.0
	entries := []expectation.Entry{
		{AreaType: model.AreaUrbanCore, Pillar: "public_transit", Metric: "route_count", Expected: 24, P25: &p25, SampleSize: 41},
		{AreaType: model.AreaRural, Pillar: "public_transit", Metric: "route_count", Expected: 0.4, SampleSize: 28},
		{AreaType: model.AreaUrbanCore, Pillar: "healthcare", Metric: "clinic_count", Expected: 30, SampleSize: 49},
	}

	var sb strings.Builder
	printEntries(&sb, entries, "", "")
	out := sb.String()
	assert.Contains(t, out, "route_count")
	assert.Contains(t, out, "clinic_count")
	assert.Contains(t, out, "14.00")
	assert.Contains(t, out, "-") // missing percentiles render as a dash

	sb.Reset()
	printEntries(&sb, entries, "rural", "")
	out = sb.String()
	assert.Contains(t, out, "rural")
	assert.NotContains(t, out, "clinic_count")

	sb.Reset()
	printEntries(&sb, entries, "", "healthcare")
	out = sb.String()
	assert.Contains(t, out, "clinic_count")
	assert.NotContains(t, out, "route_count")
}

func TestFmtOpt(t *testing.T) {
	assert.Equal(t, "-", fmtOpt(nil))
	v := 3.456
	assert.Equal(t, "3.46", fmtOpt(&v))
}
