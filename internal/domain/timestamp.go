package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	floatingParseLayout  = "2006-01-02T15:04:05"
	floatingFormatLayout = "2006-01-02T15:04:05.999999999"
)

// Timestamp is a date and time that may or may not carry a zone offset.
// Floating timestamps are local wall-clock readings from the field sheet and
// are printed without a zone designator; zoned timestamps keep their offset.
type Timestamp struct {
	t     time.Time
	zoned bool
}

// NewTimestamp wraps a zoned time.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t: t, zoned: true}
}

// NewFloatingTimestamp wraps a wall-clock reading with no zone. The location of
// t is ignored.
func NewFloatingTimestamp(t time.Time) Timestamp {
	return Timestamp{
		t: time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC),
	}
}

// ParseTimestamp accepts RFC 3339 (zoned) or YYYY-MM-DDTHH:MM:SS[.fff] (floating).
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return NewTimestamp(t), nil
	}
	t, err := time.Parse(floatingParseLayout, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("%w: %q", ErrInvalidStartDate, s)
	}
	return Timestamp{t: t}, nil
}

// Time returns the underlying time. For floating timestamps the location is UTC
// by convention only.
func (ts Timestamp) Time() time.Time { return ts.t }

// Zoned reports whether the timestamp carries a zone offset.
func (ts Timestamp) Zoned() bool { return ts.zoned }

func (ts Timestamp) IsZero() bool { return ts.t.IsZero() }

// String renders the timestamp in ISO 8601 without converting between zones.
func (ts Timestamp) String() string {
	if ts.zoned {
		return ts.t.Format(time.RFC3339Nano)
	}
	return ts.t.Format(floatingFormatLayout)
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.String())
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidStartDate, data)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
