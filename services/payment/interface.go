package payment

import "lastmile/models"

// FeePolicy computes the platform's cut: fee = max(percent * amount, minimum).
type FeePolicy struct {
	Percent float64
	Minimum float64
}

// Fee returns the platform fee for a gross amount.
func (p FeePolicy) Fee(amount float64) float64 {
	fee := p.Percent * amount
	if fee < p.Minimum {
		fee = p.Minimum
	}
	return fee
}

// PaymentService coordinates payment lifecycle for completed offers.
type PaymentService interface {
	// CreatePayment materializes the payment record for a completed offer.
	// Idempotent: an existing record for the offer is returned unchanged.
	CreatePayment(offer *models.Offer) (*models.Payment, error)
	// GetByOfferID returns the payment attached to an offer.
	GetByOfferID(offerID string) (*models.Payment, error)
	// Process charges the payment through the gateway, moving it
	// pending/failed -> processing -> completed/failed.
	Process(paymentID string) (*models.Payment, error)
	// MarkCompleted records a successful settlement reported by the gateway
	// adapter and triggers earnings-ledger creation. Rejected unless the
	// payment is pending or processing.
	MarkCompleted(paymentID, externalTransactionID, gatewayResponse string) (*models.Payment, error)
	// MarkFailed records a failed settlement attempt. Rejected unless the
	// payment is pending or processing.
	MarkFailed(paymentID, reason string) (*models.Payment, error)
	// Retry re-attempts a failed payment, subject to the cooldown and the
	// retry budget.
	Retry(paymentID string) (*models.Payment, error)
	// Refund reverses a completed payment, fully or partially.
	Refund(paymentID string, amount float64, reason string) (*models.Payment, error)
}
