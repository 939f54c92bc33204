package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAreaType(t *testing.T) {
	for _, at := range AreaTypes {
		got, err := ParseAreaType(string(at))
		require.NoError(t, err)
		assert.Equal(t, at, got)
	}

	got, err := ParseAreaType("  Urban_Core ")
	require.NoError(t, err)
	assert.Equal(t, AreaUrbanCore, got)

	_, err = ParseAreaType("downtown")
	assert.Error(t, err)
	_, err = ParseAreaType("")
	assert.Error(t, err)
}

func TestAreaTypeUrban(t *testing.T) {
	assert.True(t, AreaUrbanCore.Urban())
	assert.True(t, AreaUrbanResidential.Urban())
	assert.True(t, AreaHistoricUrban.Urban())
	assert.False(t, AreaSuburban.Urban())
	assert.False(t, AreaCommuterRailSuburb.Urban())
	assert.False(t, AreaExurban.Urban())
	assert.False(t, AreaRural.Urban())
}
