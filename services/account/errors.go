package account

import "fmt"

// Error codes surfaced by account management.
const (
	CodeEmailTaken         = "emailTaken"
	CodeInvalidCredentials = "invalidCredentials"
	CodeInvalidInput       = "invalidInput"
)

type AccountError struct {
	Code    string
	Message string
}

func (e *AccountError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AsAccountError unwraps an account error, if err is one.
func AsAccountError(err error) (*AccountError, bool) {
	ae, ok := err.(*AccountError)
	return ae, ok
}

func newAccountError(code, format string, args ...interface{}) *AccountError {
	return &AccountError{Code: code, Message: fmt.Sprintf(format, args...)}
}
