package earningsRepo

import (
	"time"

	"lastmile/models"

	"go.mongodb.org/mongo-driver/bson"
)

// SummaryTotals is the raw aggregation output for a rider's period, before
// the service derives productivity metrics from it.
type SummaryTotals struct {
	DeliveryCount        int     `bson:"deliveryCount"`
	GrossTotal           float64 `bson:"grossTotal"`
	FeeTotal             float64 `bson:"feeTotal"`
	NetTotal             float64 `bson:"netTotal"`
	BonusTotal           float64 `bson:"bonusTotal"`
	AdjustmentTotal      float64 `bson:"adjustmentTotal"`
	PaidTotal            float64 `bson:"paidTotal"`
	PendingTotal         float64 `bson:"pendingTotal"`
	TotalDistanceMeters  float64 `bson:"totalDistanceMeters"`
	TotalDurationMinutes float64 `bson:"totalDurationMinutes"`
}

// EarningsRepository defines methods for earnings data access.
type EarningsRepository interface {
	// CreateIfAbsent inserts an earnings record unless one already exists for
	// the offer; the existing record is returned in that case. The boolean is
	// true when a new record was inserted.
	CreateIfAbsent(earnings *models.Earnings) (*models.Earnings, bool, error)
	// GetByID retrieves an earnings record by its unique ID.
	GetByID(id string) (*models.Earnings, error)
	// GetByOfferID retrieves the earnings record attached to an offer.
	GetByOfferID(offerID string) (*models.Earnings, error)
	// GetRecentByRider returns a rider's most recent entries, newest first.
	GetRecentByRider(riderID string, limit int64) ([]models.Earnings, error)
	// UpdateWithDocument patches an earnings document with the specified update document.
	UpdateWithDocument(id string, updateDoc bson.M) error
	// Summarize aggregates a rider's base totals over a period.
	Summarize(riderID string, from, to time.Time) (*SummaryTotals, error)
}
