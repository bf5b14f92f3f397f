package payment

import "fmt"

// Error codes surfaced by the payment coordinator.
const (
	CodeInvalidAmount       = "invalidAmount"
	CodeInvalidRefundAmount = "invalidRefundAmount"
	CodeInvalidStatus       = "invalidStatus"
	CodeMaxRetriesExceeded  = "maxRetriesExceeded"
	CodeRetryCooldown       = "retryCooldown"
	CodeGatewayTimeout      = "gatewayTimeout"
	CodeNoAssignedRider     = "noAssignedRider"
)

type PaymentError struct {
	Code    string
	Message string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AsPaymentError unwraps a payment error, if err is one.
func AsPaymentError(err error) (*PaymentError, bool) {
	pe, ok := err.(*PaymentError)
	return pe, ok
}

func newPaymentError(code, format string, args ...interface{}) *PaymentError {
	return &PaymentError{Code: code, Message: fmt.Sprintf(format, args...)}
}
