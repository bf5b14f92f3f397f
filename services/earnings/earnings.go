package earnings

import (
	"fmt"
	"time"

	accountRepo "lastmile/database/repository/account"
	earningsRepo "lastmile/database/repository/earnings"
	"lastmile/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// DefaultEarningsService implements EarningsService.
type DefaultEarningsService struct {
	Repo   earningsRepo.EarningsRepository
	Riders accountRepo.RiderRepository
	Logger *zap.Logger
}

// CreateFromOffer derives the ledger entry for a completed offer. The unique
// offer index in the repository makes creation idempotent under concurrency;
// the rider counter is incremented only when this call actually inserted.
func (s *DefaultEarningsService) CreateFromOffer(offer *models.Offer, payment *models.Payment) (*models.Earnings, error) {
	if offer.Status != models.OfferStatusCompleted {
		return nil, newLedgerError(CodeOfferNotCompleted, "offer %s is %s, not completed", offer.ID, offer.Status)
	}
	if offer.AcceptedBy == "" {
		return nil, newLedgerError(CodeNoAssignedRider, "offer %s has no assigned rider", offer.ID)
	}
	if payment == nil {
		return nil, newLedgerError(CodePaymentRequired, "offer %s has no payment record", offer.ID)
	}

	distance := offer.ActualDistance
	if distance == 0 {
		distance = offer.EstimatedDistance
	}
	duration := offer.ActualDuration
	if duration == 0 {
		duration = offer.EstimatedDuration
	}

	now := time.Now()
	entry := &models.Earnings{
		ID:              uuid.New().String(),
		RiderID:         offer.AcceptedBy,
		OfferID:         offer.ID,
		PaymentID:       payment.ID,
		GrossAmount:     payment.TotalAmount,
		PlatformFee:     payment.PlatformFee,
		NetAmount:       payment.TotalAmount - payment.PlatformFee,
		DistanceMeters:  distance,
		DurationMinutes: duration,
		PaymentStatus:   payment.Status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	stored, created, err := s.Repo.CreateIfAbsent(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to create earnings for offer %s: %w", offer.ID, err)
	}
	if created {
		if err := s.Riders.IncrementCompletedDeliveries(offer.AcceptedBy); err != nil {
			s.Logger.Error("failed to bump rider delivery counter",
				zap.String("riderId", offer.AcceptedBy), zap.Error(err))
		}
		s.Logger.Info("earnings record created",
			zap.String("earningsId", stored.ID),
			zap.String("offerId", offer.ID),
			zap.Float64("netAmount", stored.NetAmount))
	}
	return stored, nil
}

func (s *DefaultEarningsService) GetByOfferID(offerID string) (*models.Earnings, error) {
	return s.Repo.GetByOfferID(offerID)
}

// AddBonus sets the bonus on an earnings record.
func (s *DefaultEarningsService) AddBonus(earningsID string, amount float64, reason string) (*models.Earnings, error) {
	if amount <= 0 {
		return nil, newLedgerError(CodeInvalidAmount, "bonus amount must be positive, got %.2f", amount)
	}
	update := bson.M{"$set": bson.M{
		"bonusAmount": amount,
		"bonusReason": reason,
		"updatedAt":   time.Now(),
	}}
	if err := s.Repo.UpdateWithDocument(earningsID, update); err != nil {
		return nil, err
	}
	return s.Repo.GetByID(earningsID)
}

// AddAdjustment appends a manual correction to an earnings record.
func (s *DefaultEarningsService) AddAdjustment(earningsID string, adjustment models.Adjustment) (*models.Earnings, error) {
	if adjustment.Reason == "" {
		return nil, newLedgerError(CodeMissingReason, "adjustment reason is mandatory")
	}
	if adjustment.Timestamp.IsZero() {
		adjustment.Timestamp = time.Now()
	}
	update := bson.M{
		"$push": bson.M{"adjustments": adjustment},
		"$set":  bson.M{"updatedAt": adjustment.Timestamp},
	}
	if err := s.Repo.UpdateWithDocument(earningsID, update); err != nil {
		return nil, err
	}
	return s.Repo.GetByID(earningsID)
}

// SyncPaymentStatus mirrors the payment settlement state onto the ledger.
func (s *DefaultEarningsService) SyncPaymentStatus(offerID string, status models.PaymentStatus) error {
	entry, err := s.Repo.GetByOfferID(offerID)
	if err != nil {
		return err
	}
	return s.Repo.UpdateWithDocument(entry.ID, bson.M{"$set": bson.M{
		"paymentStatus": status,
		"updatedAt":     time.Now(),
	}})
}
