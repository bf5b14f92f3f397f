package models

import "time"

// OfferStatus enumerates the coarse lifecycle states of a delivery offer.
type OfferStatus string

const (
	OfferStatusOpen      OfferStatus = "open"
	OfferStatusAccepted  OfferStatus = "accepted"
	OfferStatusPickedUp  OfferStatus = "picked_up"
	OfferStatusInTransit OfferStatus = "in_transit"
	OfferStatusDelivered OfferStatus = "delivered"
	OfferStatusCompleted OfferStatus = "completed"
	OfferStatusCancelled OfferStatus = "cancelled"
)

// Terminal reports whether the status has no outgoing transitions.
func (s OfferStatus) Terminal() bool {
	return s == OfferStatusCompleted || s == OfferStatusCancelled
}

// StatusHistoryEntry is one record in an offer's append-only status log.
type StatusHistoryEntry struct {
	Status    OfferStatus `bson:"status" json:"status"`
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`
	Actor     string      `bson:"actor" json:"actor"` // ID of the business/rider who drove the change.
	Notes     string      `bson:"notes,omitempty" json:"notes,omitempty"`
	Location  *GeoPoint   `bson:"location,omitempty" json:"location,omitempty"`
}

// Offer is a posted delivery job. Created by a business in the "open" state
// and mutated only through validated workflow transitions; never deleted.
type Offer struct {
	ID          string      `bson:"id" json:"id"`
	BusinessID  string      `bson:"businessId" json:"businessId"`
	Title       string      `bson:"title" json:"title"`
	Description string      `bson:"description,omitempty" json:"description,omitempty"`
	Package     PackageInfo `bson:"package" json:"package"`

	Pickup   LocationInfo `bson:"pickup" json:"pickup"`
	Delivery LocationInfo `bson:"delivery" json:"delivery"`
	Payment  PaymentInfo  `bson:"payment" json:"payment"`

	Status        OfferStatus          `bson:"status" json:"status"`
	StatusHistory []StatusHistoryEntry `bson:"statusHistory" json:"statusHistory"` // Append-only; last entry mirrors Status.

	AcceptedBy string `bson:"acceptedBy,omitempty" json:"acceptedBy,omitempty"` // Set iff an active rider is assigned.

	// Milestone timestamps, set once when the matching status is entered.
	AcceptedAt  *time.Time `bson:"acceptedAt,omitempty" json:"acceptedAt,omitempty"`
	PickedUpAt  *time.Time `bson:"pickedUpAt,omitempty" json:"pickedUpAt,omitempty"`
	InTransitAt *time.Time `bson:"inTransitAt,omitempty" json:"inTransitAt,omitempty"`
	DeliveredAt *time.Time `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CancelledAt *time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`

	EstimatedDistance float64 `bson:"estimatedDistance,omitempty" json:"estimatedDistance,omitempty"` // metres
	EstimatedDuration float64 `bson:"estimatedDuration,omitempty" json:"estimatedDuration,omitempty"` // minutes
	ActualDistance    float64 `bson:"actualDistance,omitempty" json:"actualDistance,omitempty"`       // metres
	ActualDuration    float64 `bson:"actualDuration,omitempty" json:"actualDuration,omitempty"`       // minutes

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// OfferSummary is the nearby-query projection returned to riders.
type OfferSummary struct {
	ID                string      `bson:"id" json:"id"`
	Title             string      `bson:"title" json:"title"`
	Package           PackageInfo `bson:"package" json:"package"`
	Pickup            LocationInfo `bson:"pickup" json:"pickup"`
	Delivery          LocationInfo `bson:"delivery" json:"delivery"`
	Payment           PaymentInfo `bson:"payment" json:"payment"`
	DistanceFromRider float64     `bson:"distanceFromRider" json:"distanceFromRider"` // metres
	EstimatedDuration float64     `bson:"estimatedDuration,omitempty" json:"estimatedDuration,omitempty"`
	CreatedAt         time.Time   `bson:"createdAt" json:"createdAt"`
}

// TransitionResult is returned by a successful workflow transition.
type TransitionResult struct {
	OfferID        string      `json:"offerId"`
	PreviousStatus OfferStatus `json:"previousStatus"`
	NewStatus      OfferStatus `json:"newStatus"`
	Timestamp      time.Time   `json:"timestamp"`
	ActorID        string      `json:"actorId"`
}
