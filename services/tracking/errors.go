package tracking

import "fmt"

// Error codes surfaced by delivery tracking.
const (
	CodeNotAssignedRider = "notAssignedRider"
	CodeInvalidEvent     = "invalidEvent"
)

type TrackingError struct {
	Code    string
	Message string
}

func (e *TrackingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AsTrackingError unwraps a tracking error, if err is one.
func AsTrackingError(err error) (*TrackingError, bool) {
	te, ok := err.(*TrackingError)
	return te, ok
}

func newTrackingError(code, format string, args ...interface{}) *TrackingError {
	return &TrackingError{Code: code, Message: fmt.Sprintf(format, args...)}
}
