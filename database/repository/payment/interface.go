package paymentRepo

import (
	"time"

	"lastmile/models"

	"go.mongodb.org/mongo-driver/bson"
)

// PaymentRepository defines methods for payment data access.
type PaymentRepository interface {
	// CreateIfAbsent inserts a payment unless one already exists for the
	// offer; the existing record is returned in that case. The boolean is
	// true when a new record was inserted.
	CreateIfAbsent(payment *models.Payment) (*models.Payment, bool, error)
	// GetByID retrieves a payment by its unique ID.
	GetByID(id string) (*models.Payment, error)
	// GetByOfferID retrieves the payment attached to an offer.
	GetByOfferID(offerID string) (*models.Payment, error)
	// GetByRider retrieves payments for a rider.
	GetByRider(riderID string) ([]models.Payment, error)
	// UpdateWithDocument patches a payment document with the specified update document.
	UpdateWithDocument(id string, updateDoc bson.M) error
	// ListRetryEligible returns failed payments whose cooldown expired and
	// whose retry budget is not exhausted.
	ListRetryEligible(cooldown time.Duration, limit int64) ([]models.Payment, error)
}
