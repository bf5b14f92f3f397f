package earnings

import "fmt"

// Error codes surfaced by the earnings ledger.
const (
	CodeOfferNotCompleted = "offerNotCompleted"
	CodeNoAssignedRider   = "noAssignedRider"
	CodePaymentRequired   = "paymentRequired"
	CodeInvalidAmount     = "invalidAmount"
	CodeMissingReason     = "missingReason"
)

type LedgerError struct {
	Code    string
	Message string
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AsLedgerError unwraps a ledger error, if err is one.
func AsLedgerError(err error) (*LedgerError, bool) {
	le, ok := err.(*LedgerError)
	return le, ok
}

func newLedgerError(code, format string, args ...interface{}) *LedgerError {
	return &LedgerError{Code: code, Message: fmt.Sprintf(format, args...)}
}
