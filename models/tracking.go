package models

import "time"

// TrackingEventKind is the closed set of fine-grained delivery milestones,
// a superset refinement of the offer's coarse status.
type TrackingEventKind string

const (
	EventHeadingToPickup   TrackingEventKind = "heading_to_pickup"
	EventArrivedAtPickup   TrackingEventKind = "arrived_at_pickup"
	EventPackagePickedUp   TrackingEventKind = "package_picked_up"
	EventHeadingToDelivery TrackingEventKind = "heading_to_delivery"
	EventArrivedAtDelivery TrackingEventKind = "arrived_at_delivery"
	EventPackageDelivered  TrackingEventKind = "package_delivered"
	EventDeliveryFailed    TrackingEventKind = "delivery_failed"
	EventReturningToPickup TrackingEventKind = "returning_to_pickup"
)

// TrackingEvent is one entry in a delivery's append-only event log.
type TrackingEvent struct {
	Kind      TrackingEventKind `bson:"kind" json:"kind"`
	Timestamp time.Time         `bson:"timestamp" json:"timestamp"`
	Actor     string            `bson:"actor" json:"actor"`
	Location  *GeoPoint         `bson:"location,omitempty" json:"location,omitempty"`
	Notes     string            `bson:"notes,omitempty" json:"notes,omitempty"` // Free-form; the only unstructured field.
}

// IssueReport records a problem raised by the rider mid-delivery.
type IssueReport struct {
	ID          string     `bson:"id" json:"id"`
	Kind        string     `bson:"kind" json:"kind"` // e.g. "recipient_unavailable", "damaged_package"
	Description string     `bson:"description" json:"description"`
	ReportedAt  time.Time  `bson:"reportedAt" json:"reportedAt"`
	Location    *GeoPoint  `bson:"location,omitempty" json:"location,omitempty"`
	ResolvedAt  *time.Time `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	Resolution  string     `bson:"resolution,omitempty" json:"resolution,omitempty"`
}

// DeliveryAttempt records one pickup or drop-off attempt.
type DeliveryAttempt struct {
	Stage       string    `bson:"stage" json:"stage"` // "pickup" or "delivery"
	AttemptedAt time.Time `bson:"attemptedAt" json:"attemptedAt"`
	Successful  bool      `bson:"successful" json:"successful"`
	Notes       string    `bson:"notes,omitempty" json:"notes,omitempty"`
}

// DeliveryTracking is the fine-grained event log attached to an accepted
// offer. Events are append-only; CurrentStatus is driven by the last event.
type DeliveryTracking struct {
	ID      string `bson:"id" json:"id"`
	OfferID string `bson:"offerId" json:"offerId"` // Unique: one tracking doc per offer.
	RiderID string `bson:"riderId" json:"riderId"`

	CurrentStatus TrackingEventKind `bson:"currentStatus" json:"currentStatus"`
	Events        []TrackingEvent   `bson:"events" json:"events"`
	Issues        []IssueReport     `bson:"issues,omitempty" json:"issues,omitempty"`
	Attempts      []DeliveryAttempt `bson:"attempts,omitempty" json:"attempts,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
