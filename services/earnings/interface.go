package earnings

import (
	"time"

	"lastmile/models"
)

// Dashboard bundles a rider's summary with recent entries for presentation
// layers.
type Dashboard struct {
	Summary *models.EarningsSummary `json:"summary"`
	Recent  []models.Earnings       `json:"recent"`
}

// EarningsService owns the rider earnings ledger.
type EarningsService interface {
	// CreateFromOffer derives the immutable ledger entry for a completed
	// offer and its payment. Idempotent: the existing entry is returned on a
	// repeat call, and the rider's delivery counter is bumped only once.
	CreateFromOffer(offer *models.Offer, payment *models.Payment) (*models.Earnings, error)
	// GetByOfferID returns the ledger entry for an offer.
	GetByOfferID(offerID string) (*models.Earnings, error)
	// AddBonus sets a bonus on an earnings record. Amount must be positive.
	AddBonus(earningsID string, amount float64, reason string) (*models.Earnings, error)
	// AddAdjustment appends a correction; amount may be negative, reason is
	// mandatory.
	AddAdjustment(earningsID string, adjustment models.Adjustment) (*models.Earnings, error)
	// SyncPaymentStatus mirrors the payment's settlement state onto the
	// offer's ledger entry.
	SyncPaymentStatus(offerID string, status models.PaymentStatus) error
	// Summarize aggregates a rider's totals and productivity metrics over a
	// period.
	Summarize(riderID string, from, to time.Time) (*models.EarningsSummary, error)
	// GetDashboard returns the summary plus recent entries.
	GetDashboard(riderID string, from, to time.Time) (*Dashboard, error)
}
