package notification

import (
	"lastmile/models"

	"go.uber.org/zap"
)

// NotificationService is the narrow contract consumed by the engine. The
// actual delivery transport (push, SMS, email) lives outside this codebase.
type NotificationService interface {
	NotifyOfferAccepted(offer *models.Offer)
	NotifyStatusChanged(offer *models.Offer, previous models.OfferStatus)
	NotifyPaymentSettled(payment *models.Payment)
}

// LogNotificationService satisfies the contract by logging the events an
// external transport would deliver.
type LogNotificationService struct {
	Logger *zap.Logger
}

func (s *LogNotificationService) NotifyOfferAccepted(offer *models.Offer) {
	s.Logger.Info("notify: offer accepted",
		zap.String("offerId", offer.ID),
		zap.String("businessId", offer.BusinessID),
		zap.String("riderId", offer.AcceptedBy))
}

func (s *LogNotificationService) NotifyStatusChanged(offer *models.Offer, previous models.OfferStatus) {
	s.Logger.Info("notify: offer status changed",
		zap.String("offerId", offer.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(offer.Status)))
}

func (s *LogNotificationService) NotifyPaymentSettled(payment *models.Payment) {
	s.Logger.Info("notify: payment settled",
		zap.String("paymentId", payment.ID),
		zap.String("riderId", payment.RiderID),
		zap.Float64("riderEarnings", payment.RiderEarnings))
}
