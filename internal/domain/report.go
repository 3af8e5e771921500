package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

// processedClock stamps ProcessedAt. Fixture generation freezes it.
var processedClock = clockwork.NewRealClock()

// SetClock swaps the ProcessedAt time source; nil restores the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	processedClock = c
}

// ReportRow is the serialized measurement consumed by report assembly.
// Decimals are encoded as JSON strings; unset optionals are null.
type ReportRow struct {
	Identifier           string `json:"identifier"`
	MeasurementNumber    string `json:"measurementNumber"`
	ControlCondition     string `json:"controlCondition"`
	MeasurementStartDate string `json:"measurementStartDate"`

	Discharge         decimal.Decimal `json:"discharge"`
	DischargeUnits    string          `json:"dischargeUnits"`
	ErrorMaxDischarge decimal.Decimal `json:"errorMaxDischarge"`
	ErrorMinDischarge decimal.Decimal `json:"errorMinDischarge"`
	QualityRating     Grade           `json:"qualityRating"`
	// OutputValues is (errorMaxDischarge, discharge, errorMinDischarge).
	OutputValues [3]decimal.Decimal `json:"outputValues"`

	RatingModelIdentifier *string             `json:"ratingModelIdentifier"`
	MeanGageHeight        decimal.NullDecimal `json:"meanGageHeight"`
	MeanGageHeightUnits   string              `json:"meanGageHeightUnits"`
	ShiftInFeet           decimal.NullDecimal `json:"shiftInFeet"`
	ErrorMaxShiftInFeet   decimal.NullDecimal `json:"errorMaxShiftInFeet"`
	ErrorMinShiftInFeet   decimal.NullDecimal `json:"errorMinShiftInFeet"`
	ShiftNumber           int                 `json:"shiftNumber"`

	Historic bool `json:"historic"`
	Publish  bool `json:"publish"`

	ProcessedAt time.Time `json:"processedAt"`
}

// NewReportRow snapshots a record for serialization, stamping ProcessedAt from
// processedClock.
func NewReportRow(m *MeasurementRecord) ReportRow {
	return ReportRow{
		Identifier:            m.Identifier(),
		MeasurementNumber:     m.MeasurementNumber(),
		ControlCondition:      m.ControlCondition(),
		MeasurementStartDate:  m.MeasurementStartDateString(),
		Discharge:             m.Discharge(),
		DischargeUnits:        m.DischargeUnits(),
		ErrorMaxDischarge:     m.ErrorMaxDischarge(),
		ErrorMinDischarge:     m.ErrorMinDischarge(),
		QualityRating:         m.QualityRating(),
		OutputValues:          m.OutputValues(),
		RatingModelIdentifier: m.RatingModelIdentifier(),
		MeanGageHeight:        m.MeanGageHeight(),
		MeanGageHeightUnits:   m.MeanGageHeightUnits(),
		ShiftInFeet:           m.ShiftInFeet(),
		ErrorMaxShiftInFeet:   m.ErrorMaxShiftInFeet(),
		ErrorMinShiftInFeet:   m.ErrorMinShiftInFeet(),
		ShiftNumber:           m.ShiftNumber(),
		Historic:              m.IsHistoric(),
		Publish:               m.IsPublish(),
		ProcessedAt:           processedClock.Now().UTC(),
	}
}
