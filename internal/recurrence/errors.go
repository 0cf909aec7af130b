package recurrence

import "errors"

var (
	// ErrUnknownKind means a serialized rule carries a kind tag this build does not know.
	ErrUnknownKind = errors.New("unknown recurrence kind")
	// ErrMalformedField means a rule field has the wrong type or is out of range.
	ErrMalformedField = errors.New("malformed recurrence field")
	// ErrUnsupported is returned by operations a rule variant does not implement.
	ErrUnsupported = errors.New("recurrence operation not supported")
	// ErrUnknownWeekday is returned when a weekday name cannot be recognized.
	ErrUnknownWeekday = errors.New("unknown weekday")
)
