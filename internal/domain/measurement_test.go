package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIdentifier = "fv-6F2C1A"
	testCFS        = "ft^3/s"
	testFeet       = "ft"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func assertNullDecimal(t *testing.T, want string, got decimal.NullDecimal) {
	t.Helper()
	if assert.True(t, got.Valid, "want %s, got unset", want) {
		assertDecimal(t, want, got.Decimal)
	}
}

func testInput(discharge string) MeasurementInput {
	return MeasurementInput{
		MeasurementNumber: "214",
		ControlCondition:  "Clear",
		Discharge:         dec(discharge),
		DischargeUnits:    testCFS,
		GageHeightUnits:   testFeet,
		StartDate:         NewTimestamp(time.Date(2024, 5, 14, 16, 20, 0, 0, time.UTC)),
		Identifier:        testIdentifier,
	}
}

func recordWithGageHeight(t *testing.T, gh string) *MeasurementRecord {
	t.Helper()
	m := NewMeasurementFromGrade(GradeFair, testInput("100"))
	m.SetMeanGageHeight(nullDec(gh))
	return m
}

func TestNewMeasurementFromGrade_ErrorEnvelope(t *testing.T) {
	tests := []struct {
		grade    Grade
		pct      string
		errorMax string
		errorMin string
	}{
		{GradeExcellent, "0.02", "102", "98"},
		{GradeGood, "0.05", "105.00", "95.00"},
		{GradeFair, "0.08", "108", "92"},
		{GradePoor, "0.10", "110", "90"},
	}

	for _, tt := range tests {
		t.Run(tt.grade.String(), func(t *testing.T) {
			m := NewMeasurementFromGrade(tt.grade, testInput("100"))

			assertDecimal(t, tt.errorMax, m.ErrorMaxDischarge())
			assertDecimal(t, tt.errorMin, m.ErrorMinDischarge())
			assertDecimal(t, "100", m.Discharge())

			upper := m.ErrorMaxDischarge().Sub(m.Discharge())
			lower := m.Discharge().Sub(m.ErrorMinDischarge())
			assertDecimal(t, tt.pct, tt.grade.Percentage())
			assert.True(t, upper.Equal(lower), "envelope not symmetric: +%s / -%s", upper, lower)
			assert.True(t, upper.Equal(m.Discharge().Mul(tt.grade.Percentage())))
			assert.Equal(t, tt.grade, m.QualityRating())
		})
	}
}

func TestNewMeasurementFromGrade_ExactDecimal(t *testing.T) {
	// 0.1 * 0.0800 and friends are not representable in float64.
	m := NewMeasurementFromGrade(GradeFair, testInput("1234.567"))

	assert.Equal(t, "1333.33236", m.ErrorMaxDischarge().String())
	assert.Equal(t, "1135.80164", m.ErrorMinDischarge().String())
	assert.True(t, m.ErrorMaxDischarge().GreaterThanOrEqual(m.Discharge()))
	assert.True(t, m.Discharge().GreaterThanOrEqual(m.ErrorMinDischarge()))
}

func TestNewMeasurementFromGrade_FieldsAndDefaults(t *testing.T) {
	m := NewMeasurementFromGrade(GradeGood, testInput("42.5"))

	assert.Equal(t, testIdentifier, m.Identifier())
	assert.Equal(t, "214", m.MeasurementNumber())
	assert.Equal(t, "Clear", m.ControlCondition())
	assert.Equal(t, testCFS, m.DischargeUnits())
	assert.Equal(t, testFeet, m.MeanGageHeightUnits())
	assert.Equal(t, "2024-05-14T16:20:00Z", m.MeasurementStartDateString())

	assert.False(t, m.MeanGageHeight().Valid)
	assert.False(t, m.ShiftInFeet().Valid)
	assert.False(t, m.ErrorMaxShiftInFeet().Valid)
	assert.False(t, m.ErrorMinShiftInFeet().Valid)
	assert.Nil(t, m.RatingModelIdentifier())
	assert.Zero(t, m.ShiftNumber())
	assert.False(t, m.IsHistoric())
	assert.False(t, m.IsPublish())
}

func TestNewMeasurementRecord_ExternalBounds(t *testing.T) {
	m := NewMeasurementRecord(GradeGood, testInput("50"), dec("60"), dec("45"))

	assertDecimal(t, "60", m.ErrorMaxDischarge())
	assertDecimal(t, "45", m.ErrorMinDischarge())
	assert.Equal(t, GradeGood, m.QualityRating())
}

func TestOutputValues_Order(t *testing.T) {
	t.Run("grade factory", func(t *testing.T) {
		m := NewMeasurementFromGrade(GradeGood, testInput("100"))
		out := m.OutputValues()

		assertDecimal(t, "105", out[0])
		assertDecimal(t, "100", out[1])
		assertDecimal(t, "95", out[2])
	})

	t.Run("raw constructor", func(t *testing.T) {
		m := NewMeasurementRecord(GradePoor, testInput("7"), dec("9"), dec("1"))
		out := m.OutputValues()

		assertDecimal(t, "9", out[0])
		assertDecimal(t, "7", out[1])
		assertDecimal(t, "1", out[2])
	})
}

func TestApplyShifts(t *testing.T) {
	t.Run("all three boundaries", func(t *testing.T) {
		m := recordWithGageHeight(t, "10.0")

		require.NoError(t, m.ApplyShifts([]decimal.NullDecimal{nullDec("12.0"), nullDec("11.0"), nullDec("9.5")}))

		assertNullDecimal(t, "2.0", m.ErrorMaxShiftInFeet())
		assertNullDecimal(t, "1.0", m.ShiftInFeet())
		assertNullDecimal(t, "-0.5", m.ErrorMinShiftInFeet())
	})

	t.Run("single boundary", func(t *testing.T) {
		m := recordWithGageHeight(t, "10.0")

		require.NoError(t, m.ApplyShifts([]decimal.NullDecimal{nullDec("12.0")}))

		assertNullDecimal(t, "2.0", m.ErrorMaxShiftInFeet())
		assert.False(t, m.ShiftInFeet().Valid)
		assert.False(t, m.ErrorMinShiftInFeet().Valid)
	})

	t.Run("null first boundary", func(t *testing.T) {
		m := recordWithGageHeight(t, "10.0")

		require.NoError(t, m.ApplyShifts([]decimal.NullDecimal{{}, nullDec("11.0"), nullDec("9.5")}))

		assert.False(t, m.ErrorMaxShiftInFeet().Valid)
		assertNullDecimal(t, "1.0", m.ShiftInFeet())
		assertNullDecimal(t, "-0.5", m.ErrorMinShiftInFeet())
	})

	t.Run("empty sequence", func(t *testing.T) {
		m := recordWithGageHeight(t, "10.0")

		require.NoError(t, m.ApplyShifts(nil))

		assert.False(t, m.ErrorMaxShiftInFeet().Valid)
		assert.False(t, m.ShiftInFeet().Valid)
		assert.False(t, m.ErrorMinShiftInFeet().Valid)
	})

	t.Run("extra entries ignored", func(t *testing.T) {
		m := recordWithGageHeight(t, "3.21")

		require.NoError(t, m.ApplyShifts([]decimal.NullDecimal{
			nullDec("3.30"), nullDec("3.25"), nullDec("3.19"), nullDec("99"),
		}))

		assertNullDecimal(t, "0.09", m.ErrorMaxShiftInFeet())
		assertNullDecimal(t, "0.04", m.ShiftInFeet())
		assertNullDecimal(t, "-0.02", m.ErrorMinShiftInFeet())
	})

	t.Run("shift computed as zero is set", func(t *testing.T) {
		m := recordWithGageHeight(t, "5")

		require.NoError(t, m.ApplyShifts([]decimal.NullDecimal{{}, nullDec("5")}))

		assertNullDecimal(t, "0", m.ShiftInFeet())
	})
}

func TestApplyShifts_RequiresMeanGageHeight(t *testing.T) {
	m := NewMeasurementFromGrade(GradeGood, testInput("100"))

	err := m.ApplyShifts([]decimal.NullDecimal{nullDec("12.0"), nullDec("11.0"), nullDec("9.5")})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidState))

	var stateErr *InvalidStateError
	require.True(t, errors.As(err, &stateErr))
	assert.Equal(t, "meanGageHeight", stateErr.Prerequisite)
	assert.Contains(t, err.Error(), "meanGageHeight")

	assert.False(t, m.ErrorMaxShiftInFeet().Valid)
	assert.False(t, m.ShiftInFeet().Valid)
	assert.False(t, m.ErrorMinShiftInFeet().Valid)
}

func TestApplyShiftBoundaries(t *testing.T) {
	m := recordWithGageHeight(t, "10.0")

	require.NoError(t, m.ApplyShiftBoundaries(ShiftBoundaries{
		Shift:    nullDec("11.0"),
		ErrorMin: nullDec("9.5"),
	}))

	assert.False(t, m.ErrorMaxShiftInFeet().Valid)
	assertNullDecimal(t, "1.0", m.ShiftInFeet())
	assertNullDecimal(t, "-0.5", m.ErrorMinShiftInFeet())

	err := NewMeasurementFromGrade(GradeGood, testInput("1")).ApplyShiftBoundaries(ShiftBoundaries{Shift: nullDec("1")})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSetters_Idempotent(t *testing.T) {
	once := NewMeasurementFromGrade(GradeGood, testInput("100"))
	twice := NewMeasurementFromGrade(GradeGood, testInput("100"))

	model := "Discharge.ft^3/s@01646500"
	apply := func(m *MeasurementRecord) {
		m.SetHistoric(true)
		m.SetPublish(true)
		m.SetShiftNumber(3)
		m.SetMeanGageHeight(nullDec("4.56"))
		m.SetMeanGageHeightUnits("m")
		m.SetRatingModelIdentifier(&model)
	}
	apply(once)
	apply(twice)
	apply(twice)

	assert.Equal(t, once.IsHistoric(), twice.IsHistoric())
	assert.Equal(t, once.IsPublish(), twice.IsPublish())
	assert.Equal(t, once.ShiftNumber(), twice.ShiftNumber())
	assert.True(t, once.MeanGageHeight().Decimal.Equal(twice.MeanGageHeight().Decimal))
	assert.Equal(t, once.MeanGageHeightUnits(), twice.MeanGageHeightUnits())
	assert.Equal(t, *once.RatingModelIdentifier(), *twice.RatingModelIdentifier())

	assert.True(t, twice.IsHistoric())
	assert.True(t, twice.IsPublish())
	assert.Equal(t, 3, twice.ShiftNumber())
	assert.Equal(t, "m", twice.MeanGageHeightUnits())
}

func TestSetRatingModelIdentifier(t *testing.T) {
	m := NewMeasurementFromGrade(GradeGood, testInput("1"))

	id := "Discharge.ft^3/s@01646500"
	m.SetRatingModelIdentifier(&id)
	id = "mutated"
	require.NotNil(t, m.RatingModelIdentifier())
	assert.Equal(t, "Discharge.ft^3/s@01646500", *m.RatingModelIdentifier())

	m.SetRatingModelIdentifier(nil)
	assert.Nil(t, m.RatingModelIdentifier())
}
