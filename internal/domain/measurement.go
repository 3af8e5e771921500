package domain

import "github.com/shopspring/decimal"

// MeasurementInput holds the values a field-visit loader supplies when a
// measurement record is first built.
type MeasurementInput struct {
	MeasurementNumber string
	ControlCondition  string
	Discharge         decimal.Decimal
	DischargeUnits    string
	GageHeightUnits   string
	StartDate         Timestamp
	Identifier        string
}

// MeasurementRecord is one discharge/gage-height observation from a field
// visit. Discharge, error bounds, grade, and identity are fixed at
// construction; gage height, shifts, and report metadata are filled in later.
//
// A record is not safe for concurrent mutation.
type MeasurementRecord struct {
	identifier        string
	measurementNumber string
	controlCondition  string
	startDate         Timestamp

	discharge         decimal.Decimal
	dischargeUnits    string
	errorMinDischarge decimal.Decimal
	errorMaxDischarge decimal.Decimal
	qualityRating     Grade

	ratingModelIdentifier *string
	meanGageHeight        decimal.NullDecimal
	meanGageHeightUnits   string

	shiftInFeet         decimal.NullDecimal
	errorMinShiftInFeet decimal.NullDecimal
	errorMaxShiftInFeet decimal.NullDecimal
	shiftNumber         int

	historic bool
	publish  bool
}

// NewMeasurementRecord builds a record from discharge error bounds computed
// elsewhere. Most callers want NewMeasurementFromGrade.
func NewMeasurementRecord(grade Grade, in MeasurementInput, errorMax, errorMin decimal.Decimal) *MeasurementRecord {
	return &MeasurementRecord{
		identifier:          in.Identifier,
		measurementNumber:   in.MeasurementNumber,
		controlCondition:    in.ControlCondition,
		startDate:           in.StartDate,
		discharge:           in.Discharge,
		dischargeUnits:      in.DischargeUnits,
		meanGageHeightUnits: in.GageHeightUnits,
		errorMaxDischarge:   errorMax,
		errorMinDischarge:   errorMin,
		qualityRating:       grade,
	}
}

// NewMeasurementFromGrade builds a record whose discharge error envelope is
// discharge ± discharge*grade.Percentage(), computed exactly.
func NewMeasurementFromGrade(grade Grade, in MeasurementInput) *MeasurementRecord {
	delta := in.Discharge.Mul(grade.Percentage())
	return NewMeasurementRecord(grade, in, in.Discharge.Add(delta), in.Discharge.Sub(delta))
}

// ShiftBoundaries names the three gage-height readings used by ApplyShifts.
type ShiftBoundaries struct {
	ErrorMax decimal.NullDecimal
	Shift    decimal.NullDecimal
	ErrorMin decimal.NullDecimal
}

// ApplyShifts subtracts the mean gage height from up to three positional
// boundary values:
//
//	values[0] -> error max shift
//	values[1] -> shift
//	values[2] -> error min shift
//
// Missing positions and null entries leave the matching field untouched;
// entries past index 2 are ignored. The mean gage height must be set first,
// otherwise an *InvalidStateError is returned and the record is unchanged.
func (m *MeasurementRecord) ApplyShifts(values []decimal.NullDecimal) error {
	if !m.meanGageHeight.Valid {
		return &InvalidStateError{Operation: "apply shifts", Prerequisite: "meanGageHeight"}
	}

	targets := [...]*decimal.NullDecimal{&m.errorMaxShiftInFeet, &m.shiftInFeet, &m.errorMinShiftInFeet}
	for i, target := range targets {
		if i >= len(values) {
			break
		}
		if !values[i].Valid {
			continue
		}
		*target = decimal.NewNullDecimal(values[i].Decimal.Sub(m.meanGageHeight.Decimal))
	}
	return nil
}

// ApplyShiftBoundaries is ApplyShifts with named boundaries.
func (m *MeasurementRecord) ApplyShiftBoundaries(b ShiftBoundaries) error {
	return m.ApplyShifts([]decimal.NullDecimal{b.ErrorMax, b.Shift, b.ErrorMin})
}

// OutputValues returns (errorMaxDischarge, discharge, errorMinDischarge) in
// that order, the row layout used by report formatting.
func (m *MeasurementRecord) OutputValues() [3]decimal.Decimal {
	return [3]decimal.Decimal{m.errorMaxDischarge, m.discharge, m.errorMinDischarge}
}

// MeasurementStartDateString renders the start date in ISO 8601.
func (m *MeasurementRecord) MeasurementStartDateString() string {
	return m.startDate.String()
}

func (m *MeasurementRecord) Identifier() string                       { return m.identifier }
func (m *MeasurementRecord) MeasurementNumber() string                { return m.measurementNumber }
func (m *MeasurementRecord) ControlCondition() string                 { return m.controlCondition }
func (m *MeasurementRecord) MeasurementStartDate() Timestamp          { return m.startDate }
func (m *MeasurementRecord) Discharge() decimal.Decimal               { return m.discharge }
func (m *MeasurementRecord) DischargeUnits() string                   { return m.dischargeUnits }
func (m *MeasurementRecord) ErrorMinDischarge() decimal.Decimal       { return m.errorMinDischarge }
func (m *MeasurementRecord) ErrorMaxDischarge() decimal.Decimal       { return m.errorMaxDischarge }
func (m *MeasurementRecord) QualityRating() Grade                     { return m.qualityRating }
func (m *MeasurementRecord) RatingModelIdentifier() *string           { return m.ratingModelIdentifier }
func (m *MeasurementRecord) MeanGageHeight() decimal.NullDecimal      { return m.meanGageHeight }
func (m *MeasurementRecord) MeanGageHeightUnits() string              { return m.meanGageHeightUnits }
func (m *MeasurementRecord) ShiftInFeet() decimal.NullDecimal         { return m.shiftInFeet }
func (m *MeasurementRecord) ErrorMinShiftInFeet() decimal.NullDecimal { return m.errorMinShiftInFeet }
func (m *MeasurementRecord) ErrorMaxShiftInFeet() decimal.NullDecimal { return m.errorMaxShiftInFeet }
func (m *MeasurementRecord) ShiftNumber() int                         { return m.shiftNumber }
func (m *MeasurementRecord) IsHistoric() bool                         { return m.historic }
func (m *MeasurementRecord) IsPublish() bool                          { return m.publish }

func (m *MeasurementRecord) SetHistoric(historic bool) { m.historic = historic }
func (m *MeasurementRecord) SetPublish(publish bool)   { m.publish = publish }
func (m *MeasurementRecord) SetShiftNumber(n int)      { m.shiftNumber = n }

// SetMeanGageHeight sets or clears (Valid=false) the mean gage height.
// Previously computed shifts are not recalculated.
func (m *MeasurementRecord) SetMeanGageHeight(v decimal.NullDecimal) { m.meanGageHeight = v }

func (m *MeasurementRecord) SetMeanGageHeightUnits(units string) { m.meanGageHeightUnits = units }

// SetRatingModelIdentifier sets the rating model id; nil clears it.
func (m *MeasurementRecord) SetRatingModelIdentifier(id *string) {
	if id == nil {
		m.ratingModelIdentifier = nil
		return
	}
	v := *id
	m.ratingModelIdentifier = &v
}
