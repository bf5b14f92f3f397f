package offer

import (
	"fmt"

	"lastmile/models"
)

// Error codes surfaced by the offer workflow.
const (
	CodeInvalidTransition      = "invalidTransition"
	CodeAlreadyAccepted        = "alreadyAccepted"
	CodeNotAssignedRider       = "notAssignedRider"
	CodeInsufficientPermission = "insufficientPermission"
	CodeInvalidInput           = "invalidInput"
)

// WorkflowError is a business-rule rejection. AllowedNext tells callers which
// target statuses would currently be accepted, so they can self-correct.
type WorkflowError struct {
	Code        string
	Message     string
	AllowedNext []models.OfferStatus
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AsWorkflowError unwraps a workflow error, if err is one.
func AsWorkflowError(err error) (*WorkflowError, bool) {
	we, ok := err.(*WorkflowError)
	return we, ok
}

func newInvalidTransitionError(from, to models.OfferStatus) *WorkflowError {
	return &WorkflowError{
		Code:        CodeInvalidTransition,
		Message:     fmt.Sprintf("cannot transition from %s to %s", from, to),
		AllowedNext: AllowedNext(from),
	}
}

func newAlreadyAcceptedError(offerID string) *WorkflowError {
	return &WorkflowError{
		Code:    CodeAlreadyAccepted,
		Message: fmt.Sprintf("offer %s has already been accepted by another rider", offerID),
	}
}

func newNotAssignedRiderError(actorID string) *WorkflowError {
	return &WorkflowError{
		Code:    CodeNotAssignedRider,
		Message: fmt.Sprintf("actor %s is not the assigned rider", actorID),
	}
}

func newInsufficientPermissionError(actorID string, target models.OfferStatus) *WorkflowError {
	return &WorkflowError{
		Code:    CodeInsufficientPermission,
		Message: fmt.Sprintf("actor %s may not move the offer to %s", actorID, target),
	}
}

func newInvalidInputError(msg string) *WorkflowError {
	return &WorkflowError{
		Code:    CodeInvalidInput,
		Message: msg,
	}
}
