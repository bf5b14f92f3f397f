package offer

import (
	"time"

	"lastmile/models"
)

// transitionTable is the single source of truth for allowed status changes.
// completed and cancelled are terminal: they do not appear as keys.
var transitionTable = map[models.OfferStatus][]models.OfferStatus{
	models.OfferStatusOpen:      {models.OfferStatusAccepted, models.OfferStatusCancelled},
	models.OfferStatusAccepted:  {models.OfferStatusPickedUp, models.OfferStatusCancelled},
	models.OfferStatusPickedUp:  {models.OfferStatusInTransit, models.OfferStatusCancelled},
	models.OfferStatusInTransit: {models.OfferStatusDelivered, models.OfferStatusCancelled},
	models.OfferStatusDelivered: {models.OfferStatusCompleted},
}

// AllowedNext returns the statuses reachable from the given one.
func AllowedNext(from models.OfferStatus) []models.OfferStatus {
	next := transitionTable[from]
	out := make([]models.OfferStatus, len(next))
	copy(out, next)
	return out
}

// TransitionOptions carries optional context recorded with a transition.
type TransitionOptions struct {
	Notes    string
	Location *models.GeoPoint
}

// ValidateTransition checks the transition table and the per-target role
// rules without touching storage, so the workflow is testable in isolation.
func ValidateTransition(o *models.Offer, target models.OfferStatus, actorID string) *WorkflowError {
	allowed := false
	for _, next := range transitionTable[o.Status] {
		if next == target {
			allowed = true
			break
		}
	}
	if !allowed {
		// A rider racing for an offer another rider already claimed gets the
		// same rejection whether they read before or after the claim landed.
		if target == models.OfferStatusAccepted && o.AcceptedBy != "" && o.AcceptedBy != actorID {
			return newAlreadyAcceptedError(o.ID)
		}
		return newInvalidTransitionError(o.Status, target)
	}

	switch target {
	case models.OfferStatusAccepted:
		if actorID == o.BusinessID {
			return newInsufficientPermissionError(actorID, target)
		}
		if o.AcceptedBy != "" && o.AcceptedBy != actorID {
			return newAlreadyAcceptedError(o.ID)
		}
	case models.OfferStatusPickedUp, models.OfferStatusInTransit, models.OfferStatusDelivered:
		if actorID != o.AcceptedBy {
			return newNotAssignedRiderError(actorID)
		}
	case models.OfferStatusCompleted, models.OfferStatusCancelled:
		if actorID != o.BusinessID && (o.AcceptedBy == "" || actorID != o.AcceptedBy) {
			return newInsufficientPermissionError(actorID, target)
		}
	}
	return nil
}

// historyEntry builds the append-only log record for a transition.
func historyEntry(target models.OfferStatus, actorID string, at time.Time, opts TransitionOptions) models.StatusHistoryEntry {
	return models.StatusHistoryEntry{
		Status:    target,
		Timestamp: at,
		Actor:     actorID,
		Notes:     opts.Notes,
		Location:  opts.Location,
	}
}

// milestoneField maps a target status to the offer field stamped on entry.
func milestoneField(target models.OfferStatus) string {
	switch target {
	case models.OfferStatusAccepted:
		return "acceptedAt"
	case models.OfferStatusPickedUp:
		return "pickedUpAt"
	case models.OfferStatusInTransit:
		return "inTransitAt"
	case models.OfferStatusDelivered:
		return "deliveredAt"
	case models.OfferStatusCompleted:
		return "completedAt"
	case models.OfferStatusCancelled:
		return "cancelledAt"
	}
	return ""
}
