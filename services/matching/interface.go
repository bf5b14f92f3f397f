package matching

import "lastmile/models"

// NearbyQuery is the single filter surface for nearby-offer searches, served
// identically by the indexed and the fallback path.
type NearbyQuery struct {
	RiderLocation  models.GeoPoint
	MaxDistance    float64 // metres; 0 means the configured default
	MinPayment     float64
	MaxPayment     float64
	ExcludeFragile bool
	Vehicle        models.VehicleType
	SortBy         string // "distance" (default), "payment", "created"
	Limit          int64
}

// MatchingService surfaces open offers around a rider.
type MatchingService interface {
	// FindNearbyOffers returns open offers ranked for the rider. No matches
	// is a successful empty result, not an error.
	FindNearbyOffers(query NearbyQuery) ([]models.OfferSummary, error)
}
