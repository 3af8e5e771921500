package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RawFieldVisitRecord is the JSON structure published by the field-visit
// loader, one object per discharge measurement. Decimal fields accept either
// JSON numbers or strings; null and absent values decode as not Valid.
type RawFieldVisitRecord struct {
	Identifier         string `json:"identifier"`
	LocationIdentifier string `json:"locationIdentifier,omitempty"` // monitoring station, e.g. "01646500"
	MeasurementNumber  string `json:"measurementNumber"`
	ControlCondition   string `json:"controlCondition,omitempty"`

	Discharge       decimal.NullDecimal `json:"discharge"`
	DischargeUnits  string              `json:"dischargeUnits"`
	GageHeightUnits string              `json:"gageHeightUnits,omitempty"`
	Grade           *string             `json:"grade"` // null or unknown labels become POOR

	MeasurementStartDate string `json:"measurementStartDate"` // ISO 8601, zoned or floating

	MeanGageHeight decimal.NullDecimal `json:"meanGageHeight"`
	// ShiftBoundaries is positional: [error max, shift, error min].
	ShiftBoundaries []decimal.NullDecimal `json:"shiftBoundaries,omitempty"`

	RatingModelIdentifier *string `json:"ratingModelIdentifier,omitempty"`
	ShiftNumber           int     `json:"shiftNumber,omitempty"`
	Historic              bool    `json:"historic,omitempty"`
	Publish               bool    `json:"publish,omitempty"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
