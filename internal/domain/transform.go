package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ParseRawEvent deserializes a RawEvent's value into the loader's wire record.
func ParseRawEvent(raw RawEvent) (RawFieldVisitRecord, error) {
	var rec RawFieldVisitRecord
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return RawFieldVisitRecord{}, fmt.Errorf("parse raw event: %w", err)
	}
	return rec, nil
}

// GradeLabel returns the record's grade label with null mapped to "".
func (rec RawFieldVisitRecord) GradeLabel() string {
	if rec.Grade == nil {
		return ""
	}
	return *rec.Grade
}

// BuildMeasurement constructs a MeasurementRecord through the grade factory.
// Discharge and start date are the only fields the record cannot be built
// without; everything else defaults.
func BuildMeasurement(rec RawFieldVisitRecord) (*MeasurementRecord, error) {
	if !rec.Discharge.Valid {
		return nil, fmt.Errorf("build measurement %q: %w", rec.Identifier, ErrMissingDischarge)
	}
	start, err := ParseTimestamp(rec.MeasurementStartDate)
	if err != nil {
		return nil, fmt.Errorf("build measurement %q: %w", rec.Identifier, err)
	}

	return NewMeasurementFromGrade(GradeFromName(rec.GradeLabel()), MeasurementInput{
		MeasurementNumber: strings.TrimSpace(rec.MeasurementNumber),
		ControlCondition:  rec.ControlCondition,
		Discharge:         rec.Discharge.Decimal,
		DischargeUnits:    rec.DischargeUnits,
		GageHeightUnits:   rec.GageHeightUnits,
		StartDate:         start,
		Identifier:        rec.Identifier,
	}), nil
}

// EnrichMeasurement copies the report metadata from the wire record onto m,
// sets the mean gage height, and applies shifts when boundaries are present.
// The metadata is always applied; the returned error is the shift
// precondition failure, if any, so callers can publish the record without
// shifts.
func EnrichMeasurement(m *MeasurementRecord, rec RawFieldVisitRecord) error {
	if rec.RatingModelIdentifier != nil && strings.TrimSpace(*rec.RatingModelIdentifier) != "" {
		m.SetRatingModelIdentifier(rec.RatingModelIdentifier)
	}
	m.SetShiftNumber(rec.ShiftNumber)
	m.SetHistoric(rec.Historic)
	m.SetPublish(rec.Publish)

	if rec.MeanGageHeight.Valid {
		m.SetMeanGageHeight(rec.MeanGageHeight)
	}
	if len(rec.ShiftBoundaries) == 0 {
		return nil
	}
	return m.ApplyShifts(rec.ShiftBoundaries)
}

// SerializeMeasurement marshals a record into an OutputEvent keyed by its
// identifier.
func SerializeMeasurement(m *MeasurementRecord) (OutputEvent, error) {
	row := NewReportRow(m)
	data, err := json.Marshal(row)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize measurement %q: %w", m.Identifier(), err)
	}
	return OutputEvent{
		Key:   []byte(row.Identifier),
		Value: data,
		Headers: map[string]string{
			"quality_rating": row.QualityRating.String(),
			"processed_at":   row.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
