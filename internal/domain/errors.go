package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is matched by every InvalidStateError.
	ErrInvalidState = errors.New("invalid state")

	// ErrMissingDischarge is returned when a source record carries no discharge value.
	ErrMissingDischarge = errors.New("missing discharge")

	// ErrInvalidStartDate is returned when a source record's start date is not ISO 8601.
	ErrInvalidStartDate = errors.New("invalid measurement start date")
)

// InvalidStateError reports an operation invoked before one of its
// prerequisite fields was set.
type InvalidStateError struct {
	Operation    string
	Prerequisite string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: %s is not set", e.Operation, e.Prerequisite)
}

// Is makes errors.Is(err, ErrInvalidState) hold for any InvalidStateError.
func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}
