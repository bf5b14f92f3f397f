package offer

import (
	"errors"
	"time"

	offerRepo "lastmile/database/repository/offer"
	"lastmile/models"
	"lastmile/services/notification"
	"lastmile/services/payment"
	"lastmile/services/tracking"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// DefaultOfferService implements OfferService.
type DefaultOfferService struct {
	Repo     offerRepo.OfferRepository
	Payments payment.PaymentService
	Tracking tracking.TrackingService
	Notifier notification.NotificationService
	Logger   *zap.Logger
}

// RequestTransition validates and applies a status change. The accept path
// goes through the repository's conditional update so concurrent riders
// cannot both claim an open offer; every other transition is guarded on the
// expected previous status the same way.
func (s *DefaultOfferService) RequestTransition(offerID string, target models.OfferStatus, actorID string, opts TransitionOptions) (*models.TransitionResult, error) {
	o, err := s.Repo.GetByID(offerID)
	if err != nil {
		return nil, err
	}
	if we := ValidateTransition(o, target, actorID); we != nil {
		return nil, we
	}

	now := time.Now()
	entry := historyEntry(target, actorID, now, opts)
	previous := o.Status

	var updated *models.Offer
	if target == models.OfferStatusAccepted {
		updated, err = s.accept(o, actorID, entry)
	} else {
		updated, err = s.apply(o, target, entry, now)
	}
	if err != nil {
		return nil, err
	}

	s.Notifier.NotifyStatusChanged(updated, previous)

	if target == models.OfferStatusCompleted {
		// Completion settles the offer exactly once; payment creation is
		// idempotent so a replayed trigger cannot duplicate it.
		if _, err := s.Payments.CreatePayment(updated); err != nil {
			s.Logger.Error("offer completed but payment creation failed",
				zap.String("offerId", updated.ID), zap.Error(err))
		}
	}

	return &models.TransitionResult{
		OfferID:        updated.ID,
		PreviousStatus: previous,
		NewStatus:      updated.Status,
		Timestamp:      now,
		ActorID:        actorID,
	}, nil
}

// accept claims an open offer atomically for the acting rider.
func (s *DefaultOfferService) accept(o *models.Offer, riderID string, entry models.StatusHistoryEntry) (*models.Offer, error) {
	updated, err := s.Repo.Accept(o.ID, riderID, entry)
	if err != nil {
		if errors.Is(err, offerRepo.ErrNoOpenOffer) {
			return nil, s.loseRace(o.ID, models.OfferStatusAccepted)
		}
		return nil, err
	}

	if _, err := s.Tracking.StartTracking(updated); err != nil {
		s.Logger.Error("failed to start delivery tracking",
			zap.String("offerId", updated.ID), zap.Error(err))
	}
	s.Notifier.NotifyOfferAccepted(updated)
	return updated, nil
}

// apply persists a non-accept transition guarded on the current status.
func (s *DefaultOfferService) apply(o *models.Offer, target models.OfferStatus, entry models.StatusHistoryEntry, now time.Time) (*models.Offer, error) {
	set := bson.M{"status": target}
	if field := milestoneField(target); field != "" {
		set[field] = now
	}
	if target == models.OfferStatusDelivered && o.AcceptedAt != nil {
		set["actualDuration"] = now.Sub(*o.AcceptedAt).Minutes()
	}

	updated, err := s.Repo.ApplyTransition(o.ID, o.Status, bson.M{"$set": set}, entry)
	if err != nil {
		if errors.Is(err, offerRepo.ErrNoOpenOffer) {
			return nil, s.loseRace(o.ID, target)
		}
		return nil, err
	}
	return updated, nil
}

// loseRace re-reads the offer after a guarded update missed, and reports the
// rejection in terms of where the offer actually is now.
func (s *DefaultOfferService) loseRace(offerID string, target models.OfferStatus) error {
	current, err := s.Repo.GetByID(offerID)
	if err != nil {
		return err
	}
	if target == models.OfferStatusAccepted && current.AcceptedBy != "" {
		return newAlreadyAcceptedError(offerID)
	}
	return newInvalidTransitionError(current.Status, target)
}
