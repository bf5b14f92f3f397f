package tracking

import "lastmile/models"

// TrackingService owns the fine-grained event log of an accepted offer.
type TrackingService interface {
	// StartTracking opens the event log when an offer is accepted.
	// Idempotent: an existing log for the offer is returned unchanged.
	StartTracking(offer *models.Offer) (*models.DeliveryTracking, error)
	// Get returns the event log for an offer.
	Get(offerID string) (*models.DeliveryTracking, error)
	// AppendEvent appends a milestone event; only the assigned rider may.
	AppendEvent(offerID, actorID string, kind models.TrackingEventKind, location *models.GeoPoint, notes string) (*models.DeliveryTracking, error)
	// ReportIssue records a problem raised mid-delivery.
	ReportIssue(offerID, actorID, kind, description string, location *models.GeoPoint) error
	// RecordAttempt records a pickup or drop-off attempt.
	RecordAttempt(offerID, actorID, stage string, successful bool, notes string) error
}
