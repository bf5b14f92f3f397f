package payment

import (
	"context"
	"fmt"
	"time"

	offerRepo "lastmile/database/repository/offer"
	paymentRepo "lastmile/database/repository/payment"
	"lastmile/models"
	"lastmile/services/earnings"
	"lastmile/services/notification"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// DefaultPaymentService implements PaymentService.
type DefaultPaymentService struct {
	Repo      paymentRepo.PaymentRepository
	OfferRepo offerRepo.OfferRepository
	Earnings  earnings.EarningsService
	Gateway   Gateway
	Fees      FeePolicy
	Cooldown  time.Duration // Minimum wait between retry attempts.
	Notifier  notification.NotificationService
	Logger    *zap.Logger
}

// CreatePayment materializes the payment record for a completed offer. The
// unique offer index makes this idempotent: the record that won the insert is
// returned to every caller.
func (s *DefaultPaymentService) CreatePayment(offer *models.Offer) (*models.Payment, error) {
	if offer.Payment.Amount <= 0 {
		return nil, newPaymentError(CodeInvalidAmount, "offer %s has non-positive amount %.2f", offer.ID, offer.Payment.Amount)
	}
	if offer.AcceptedBy == "" {
		return nil, newPaymentError(CodeNoAssignedRider, "offer %s has no assigned rider", offer.ID)
	}

	now := time.Now()
	p := &models.Payment{
		ID:                    uuid.New().String(),
		OfferID:               offer.ID,
		BusinessID:            offer.BusinessID,
		RiderID:               offer.AcceptedBy,
		Currency:              offer.Payment.Currency,
		Method:                offer.Payment.Method,
		Status:                models.PaymentStatusPending,
		ExternalTransactionID: "txn_" + uuid.New().String(),
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	p.SetAmounts(offer.Payment.Amount, s.Fees.Fee(offer.Payment.Amount))

	stored, created, err := s.Repo.CreateIfAbsent(p)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment for offer %s: %w", offer.ID, err)
	}
	if created {
		s.Logger.Info("payment created",
			zap.String("paymentId", stored.ID),
			zap.String("offerId", offer.ID),
			zap.Float64("platformFee", stored.PlatformFee),
			zap.Float64("riderEarnings", stored.RiderEarnings))
	}
	return stored, nil
}

func (s *DefaultPaymentService) GetByOfferID(offerID string) (*models.Payment, error) {
	return s.Repo.GetByOfferID(offerID)
}

// Process charges a pending or failed payment through the gateway.
func (s *DefaultPaymentService) Process(paymentID string) (*models.Payment, error) {
	p, err := s.Repo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != models.PaymentStatusPending && p.Status != models.PaymentStatusFailed {
		return nil, newPaymentError(CodeInvalidStatus, "payment %s is %s, cannot process", p.ID, p.Status)
	}
	return s.charge(p)
}

func (s *DefaultPaymentService) charge(p *models.Payment) (*models.Payment, error) {
	if err := s.Repo.UpdateWithDocument(p.ID, bson.M{"$set": bson.M{
		"status":    models.PaymentStatusProcessing,
		"updatedAt": time.Now(),
	}}); err != nil {
		return nil, err
	}

	result, err := s.Gateway.Charge(context.Background(), p)
	if err != nil {
		s.Logger.Warn("gateway charge failed",
			zap.String("paymentId", p.ID), zap.Error(err))
		return s.MarkFailed(p.ID, err.Error())
	}
	return s.MarkCompleted(p.ID, result.TransactionID, result.Raw)
}

// MarkCompleted records gateway success and triggers the earnings ledger.
// Only an in-flight payment can settle; a late gateway callback on a payment
// that has already completed, failed terminally, or been refunded is rejected.
func (s *DefaultPaymentService) MarkCompleted(paymentID, externalTransactionID, gatewayResponse string) (*models.Payment, error) {
	current, err := s.Repo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if current.Status != models.PaymentStatusPending && current.Status != models.PaymentStatusProcessing {
		return nil, newPaymentError(CodeInvalidStatus, "payment %s is %s, cannot record settlement", current.ID, current.Status)
	}

	now := time.Now()
	set := bson.M{
		"status":          models.PaymentStatusCompleted,
		"gatewayResponse": gatewayResponse,
		"completedAt":     now,
		"updatedAt":       now,
	}
	if externalTransactionID != "" {
		set["externalTransactionId"] = externalTransactionID
	}
	if err := s.Repo.UpdateWithDocument(paymentID, bson.M{"$set": set}); err != nil {
		return nil, err
	}
	p, err := s.Repo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}

	// Settlement done: materialize the ledger entry for the offer.
	offer, err := s.OfferRepo.GetByID(p.OfferID)
	if err != nil {
		s.Logger.Error("payment settled but offer lookup failed",
			zap.String("paymentId", p.ID), zap.Error(err))
		return p, nil
	}
	if _, err := s.Earnings.CreateFromOffer(offer, p); err != nil {
		s.Logger.Error("payment settled but earnings creation failed",
			zap.String("paymentId", p.ID), zap.Error(err))
		return p, nil
	}
	if err := s.Earnings.SyncPaymentStatus(p.OfferID, p.Status); err != nil {
		s.Logger.Warn("failed to sync payment status onto ledger",
			zap.String("offerId", p.OfferID), zap.Error(err))
	}
	if s.Notifier != nil {
		s.Notifier.NotifyPaymentSettled(p)
	}
	return p, nil
}

// MarkFailed records a failed settlement attempt. The failure time starts the
// retry cooldown clock. Like MarkCompleted it only applies to an in-flight
// payment, so a stray failure callback cannot knock a settled or refunded
// payment back into the retry path.
func (s *DefaultPaymentService) MarkFailed(paymentID, reason string) (*models.Payment, error) {
	current, err := s.Repo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if current.Status != models.PaymentStatusPending && current.Status != models.PaymentStatusProcessing {
		return nil, newPaymentError(CodeInvalidStatus, "payment %s is %s, cannot record failure", current.ID, current.Status)
	}

	now := time.Now()
	update := bson.M{"$set": bson.M{
		"status":        models.PaymentStatusFailed,
		"failureReason": reason,
		"lastRetryAt":   now,
		"updatedAt":     now,
	}}
	if err := s.Repo.UpdateWithDocument(paymentID, update); err != nil {
		return nil, err
	}
	return s.Repo.GetByID(paymentID)
}

// Retry re-attempts a failed payment. Attempts are bounded at
// models.MaxPaymentRetries and spaced by the configured cooldown; a blocked
// sixth attempt leaves the retry count untouched.
func (s *DefaultPaymentService) Retry(paymentID string) (*models.Payment, error) {
	p, err := s.Repo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != models.PaymentStatusFailed {
		return nil, newPaymentError(CodeInvalidStatus, "payment %s is %s, only failed payments can be retried", p.ID, p.Status)
	}
	if p.RetryCount >= models.MaxPaymentRetries {
		return nil, newPaymentError(CodeMaxRetriesExceeded, "payment %s exhausted its %d retries", p.ID, models.MaxPaymentRetries)
	}
	if p.LastRetryAt != nil && time.Since(*p.LastRetryAt) < s.Cooldown {
		return nil, newPaymentError(CodeRetryCooldown, "payment %s must wait %s between retries", p.ID, s.Cooldown)
	}

	if err := s.Repo.UpdateWithDocument(p.ID, bson.M{
		"$inc": bson.M{"retryCount": 1},
		"$set": bson.M{"lastRetryAt": time.Now(), "updatedAt": time.Now()},
	}); err != nil {
		return nil, err
	}
	p, err = s.Repo.GetByID(p.ID)
	if err != nil {
		return nil, err
	}
	return s.charge(p)
}

// Refund reverses a completed payment. Amount zero means a full refund;
// anything above the original total is rejected.
func (s *DefaultPaymentService) Refund(paymentID string, amount float64, reason string) (*models.Payment, error) {
	p, err := s.Repo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != models.PaymentStatusCompleted {
		return nil, newPaymentError(CodeInvalidStatus, "payment %s is %s, only completed payments can be refunded", p.ID, p.Status)
	}
	if amount == 0 {
		amount = p.TotalAmount
	}
	if amount < 0 {
		return nil, newPaymentError(CodeInvalidRefundAmount, "refund amount %.2f must not be negative", amount)
	}
	if amount > p.TotalAmount {
		return nil, newPaymentError(CodeInvalidRefundAmount, "refund of %.2f exceeds original total %.2f", amount, p.TotalAmount)
	}

	if _, err := s.Gateway.Refund(context.Background(), p, amount, reason); err != nil {
		return nil, fmt.Errorf("gateway refund failed for payment %s: %w", p.ID, err)
	}

	now := time.Now()
	if err := s.Repo.UpdateWithDocument(p.ID, bson.M{"$set": bson.M{
		"status":         models.PaymentStatusRefunded,
		"refundedAmount": amount,
		"refundReason":   reason,
		"refundedAt":     now,
		"updatedAt":      now,
	}}); err != nil {
		return nil, err
	}
	if err := s.Earnings.SyncPaymentStatus(p.OfferID, models.PaymentStatusRefunded); err != nil {
		s.Logger.Warn("failed to sync refund onto ledger",
			zap.String("offerId", p.OfferID), zap.Error(err))
	}
	return s.Repo.GetByID(p.ID)
}
