package offerRepo

import (
	"lastmile/models"

	"go.mongodb.org/mongo-driver/bson"
)

// OfferSearchCriteria defines criteria for a nearby-offer search.
// Capacity limits come from the rider's vehicle class; zero means unbounded.
type OfferSearchCriteria struct {
	Center         models.GeoPoint
	MaxDistance    float64 // metres
	MinPayment     float64
	MaxPayment     float64
	ExcludeFragile bool
	MaxWeightKg    float64
	MaxVolumeM3    float64
	SortBy         string // "distance" (default), "payment", "created"
	Limit          int64
}

// OfferRepository defines methods for offer data access.
type OfferRepository interface {
	// Create inserts a new offer record.
	Create(offer *models.Offer) error
	// GetByID retrieves an offer by its unique ID.
	GetByID(id string) (*models.Offer, error)
	// GetByBusiness retrieves all offers posted by a business.
	GetByBusiness(businessID string) ([]models.Offer, error)
	// GetByRider retrieves offers currently assigned to a rider.
	GetByRider(riderID string) ([]models.Offer, error)
	// UpdateWithDocument patches an offer document with the specified update document.
	UpdateWithDocument(id string, updateDoc bson.M) error
	// Accept atomically assigns an open offer to a rider. Only one concurrent
	// caller can win; losers receive ErrNoOpenOffer.
	Accept(offerID, riderID string, entry models.StatusHistoryEntry) (*models.Offer, error)
	// ApplyTransition persists a status change guarded on the expected
	// previous status, appending the history entry in the same update.
	ApplyTransition(offerID string, from models.OfferStatus, update bson.M, entry models.StatusHistoryEntry) (*models.Offer, error)
	// GeoSearch runs the indexed $geoNear pipeline over open offers.
	GeoSearch(criteria OfferSearchCriteria) ([]models.OfferSummary, error)
	// ListOpen returns open offers without geo ranking, for the indexless
	// fallback path.
	ListOpen(limit int64) ([]models.Offer, error)
}
