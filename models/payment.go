package models

import "time"

// PaymentStatus enumerates the settlement states of a payment.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
	PaymentStatusDisputed   PaymentStatus = "disputed"
)

// MaxPaymentRetries bounds how many times a failed payment may be retried.
const MaxPaymentRetries = 5

// Payment is the settlement record for a single offer, one-to-one with it.
type Payment struct {
	ID         string `bson:"id" json:"id"`
	OfferID    string `bson:"offerId" json:"offerId"` // Unique: one payment per offer.
	BusinessID string `bson:"businessId" json:"businessId"`
	RiderID    string `bson:"riderId" json:"riderId"`

	TotalAmount   float64 `bson:"totalAmount" json:"totalAmount"`
	PlatformFee   float64 `bson:"platformFee" json:"platformFee"`
	RiderEarnings float64 `bson:"riderEarnings" json:"riderEarnings"` // Always totalAmount - platformFee.
	Currency      string  `bson:"currency" json:"currency"`
	Method        string  `bson:"method" json:"method"`

	Status                PaymentStatus `bson:"status" json:"status"`
	ExternalTransactionID string        `bson:"externalTransactionId,omitempty" json:"externalTransactionId,omitempty"`
	GatewayResponse       string        `bson:"gatewayResponse,omitempty" json:"gatewayResponse,omitempty"` // Opaque gateway payload.

	RetryCount    int        `bson:"retryCount" json:"retryCount"`
	LastRetryAt   *time.Time `bson:"lastRetryAt,omitempty" json:"lastRetryAt,omitempty"`
	FailureReason string     `bson:"failureReason,omitempty" json:"failureReason,omitempty"`

	RefundedAmount float64    `bson:"refundedAmount,omitempty" json:"refundedAmount,omitempty"`
	RefundReason   string     `bson:"refundReason,omitempty" json:"refundReason,omitempty"`
	RefundedAt     *time.Time `bson:"refundedAt,omitempty" json:"refundedAt,omitempty"`

	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// SetAmounts keeps the fee identity intact whenever either amount changes.
func (p *Payment) SetAmounts(total, fee float64) {
	p.TotalAmount = total
	p.PlatformFee = fee
	p.RiderEarnings = total - fee
}
