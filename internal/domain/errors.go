package domain

import "errors"

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("not found")

type ErrorKind string

const (
	KindInvalidRoute                ErrorKind = "INVALID_ROUTE"
	KindInvalidTimeOrder            ErrorKind = "INVALID_TIME_ORDER"
	KindDiscontinuousRoute          ErrorKind = "DISCONTINUOUS_ROUTE"
	KindDepartureBeforePriorArrival ErrorKind = "DEPARTURE_BEFORE_PRIOR_ARRIVAL"
	KindInsufficientTurnaround      ErrorKind = "INSUFFICIENT_TURNAROUND"
	KindExcessiveIdleGap            ErrorKind = "EXCESSIVE_IDLE_GAP"
	KindSeatOutOfRange              ErrorKind = "SEAT_OUT_OF_RANGE"
	KindBookingPastFlight           ErrorKind = "BOOKING_PAST_FLIGHT"
	KindSeatAlreadyTaken            ErrorKind = "SEAT_ALREADY_TAKEN"
	KindEmptyOrder                  ErrorKind = "EMPTY_ORDER"
)

// ValidationError is a recoverable, user-facing business rule violation.
// Field names the input the message should be displayed next to.
type ValidationError struct {
	Kind    ErrorKind
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(kind ErrorKind, field, message string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Message: message}
}

// KindOf returns the kind of the first ValidationError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Kind, true
	}
	return "", false
}
