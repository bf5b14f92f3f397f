package models

import "time"

// Adjustment is a manual correction applied to an earnings record.
// Amount may be negative.
type Adjustment struct {
	Amount    float64   `bson:"amount" json:"amount"`
	Reason    string    `bson:"reason" json:"reason"`
	Actor     string    `bson:"actor" json:"actor"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Earnings is the immutable ledger entry derived from a completed offer and
// its payment. Exactly one exists per offer.
type Earnings struct {
	ID        string `bson:"id" json:"id"`
	RiderID   string `bson:"riderId" json:"riderId"`
	OfferID   string `bson:"offerId" json:"offerId"` // Unique: one ledger entry per offer.
	PaymentID string `bson:"paymentId" json:"paymentId"`

	GrossAmount float64 `bson:"grossAmount" json:"grossAmount"`
	PlatformFee float64 `bson:"platformFee" json:"platformFee"`
	NetAmount   float64 `bson:"netAmount" json:"netAmount"` // grossAmount - platformFee, recomputed on save.

	BonusAmount float64      `bson:"bonusAmount,omitempty" json:"bonusAmount,omitempty"`
	BonusReason string       `bson:"bonusReason,omitempty" json:"bonusReason,omitempty"`
	Adjustments []Adjustment `bson:"adjustments,omitempty" json:"adjustments,omitempty"`

	DistanceMeters  float64 `bson:"distanceMeters" json:"distanceMeters"`
	DurationMinutes float64 `bson:"durationMinutes" json:"durationMinutes"`

	PaymentStatus PaymentStatus `bson:"paymentStatus" json:"paymentStatus"` // Mirrors the payment's settlement state.

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// FinalAmount is net plus bonus plus all adjustments, always derived.
func (e *Earnings) FinalAmount() float64 {
	final := e.NetAmount + e.BonusAmount
	for _, adj := range e.Adjustments {
		final += adj.Amount
	}
	return final
}

// EarningsSummary aggregates a rider's earnings over a period.
type EarningsSummary struct {
	RiderID   string    `json:"riderId"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`

	DeliveryCount int     `json:"deliveryCount"`
	GrossTotal    float64 `json:"grossTotal"`
	FeeTotal      float64 `json:"feeTotal"`
	NetTotal      float64 `json:"netTotal"`
	BonusTotal    float64 `json:"bonusTotal"`
	FinalTotal    float64 `json:"finalTotal"`

	PaidTotal    float64 `json:"paidTotal"`    // Entries whose payment settled.
	PendingTotal float64 `json:"pendingTotal"` // Entries still awaiting settlement.

	TotalDistanceMeters  float64 `json:"totalDistanceMeters"`
	TotalDurationMinutes float64 `json:"totalDurationMinutes"`

	// Productivity metrics, derived from the totals above.
	PerDelivery float64 `json:"perDelivery"`
	PerHour     float64 `json:"perHour"`
	PerKm       float64 `json:"perKm"`
}
