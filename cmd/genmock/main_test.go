package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_MockFixture(t *testing.T) {
	records, err := readCSV(filepath.Join("..", "..", "data", "mock", "field_visit_measurements.csv"))
	require.NoError(t, err)
	require.Len(t, records, 8)

	first := records[0]
	assert.Equal(t, "fv-2024-0402-01646500", first.Identifier)
	assert.Equal(t, "01646500", first.LocationIdentifier)
	assert.Equal(t, "11200", first.Discharge.Decimal.String())
	require.NotNil(t, first.Grade)
	assert.Equal(t, "GOOD", *first.Grade)
	require.Len(t, first.ShiftBoundaries, 3)
	require.NotNil(t, first.RatingModelIdentifier)
	assert.True(t, first.Publish)

	// Quoted commas survive; leading null boundary is kept positionally.
	debris := records[2]
	assert.Equal(t, "Debris, light", debris.ControlCondition)
	require.Len(t, debris.ShiftBoundaries, 3)
	assert.False(t, debris.ShiftBoundaries[0].Valid)
	assert.True(t, debris.Historic)

	// Trailing empty boundaries are dropped.
	assert.Len(t, records[3].ShiftBoundaries, 1)

	// Empty grade and discharge cells become nulls.
	assert.Nil(t, records[5].Grade)
	assert.False(t, records[5].MeanGageHeight.Valid)
	assert.Nil(t, records[6].ShiftBoundaries)
	assert.False(t, records[7].Discharge.Valid)
}

func TestShiftBoundaries(t *testing.T) {
	got, err := shiftBoundaries("", "", "")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = shiftBoundaries("1.2", "", "1.0")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.False(t, got[1].Valid)

	_, err = shiftBoundaries("abc")
	require.Error(t, err)
}

func TestTransform_CountsStats(t *testing.T) {
	records, err := readCSV(filepath.Join("..", "..", "data", "mock", "field_visit_measurements.csv"))
	require.NoError(t, err)

	var st stats
	var rows int
	for i := range records {
		if _, err := transform(records[i], &st); err != nil {
			st.rejected++
			continue
		}
		rows++
	}

	assert.Equal(t, 7, rows)
	assert.Equal(t, 1, st.rejected)
	assert.Equal(t, 2, st.fallbacks)
	assert.Equal(t, 5, st.shiftsApplied)
	assert.Equal(t, 1, st.shiftFailures)
}
