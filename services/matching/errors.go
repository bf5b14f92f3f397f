package matching

import "fmt"

// Error codes surfaced by the matcher.
const (
	CodeInvalidCoordinates = "invalidCoordinates"
)

type MatchError struct {
	Code    string
	Message string
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidCoordinatesError reports a malformed or out-of-range coordinate pair.
func NewInvalidCoordinatesError(msg string) error {
	return &MatchError{
		Code:    CodeInvalidCoordinates,
		Message: msg,
	}
}

// AsMatchError unwraps a matcher error, if err is one.
func AsMatchError(err error) (*MatchError, bool) {
	me, ok := err.(*MatchError)
	return me, ok
}
