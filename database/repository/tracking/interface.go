package trackingRepo

import (
	"lastmile/models"

	"go.mongodb.org/mongo-driver/bson"
)

// TrackingRepository defines methods for delivery-tracking data access.
type TrackingRepository interface {
	// CreateIfAbsent inserts a tracking document unless one already exists
	// for the offer; the existing document is returned in that case.
	CreateIfAbsent(tracking *models.DeliveryTracking) (*models.DeliveryTracking, bool, error)
	// GetByOfferID retrieves the tracking document for an offer.
	GetByOfferID(offerID string) (*models.DeliveryTracking, error)
	// AppendEvent appends an event and advances currentStatus atomically.
	AppendEvent(offerID string, event models.TrackingEvent) (*models.DeliveryTracking, error)
	// AppendIssue appends an issue report.
	AppendIssue(offerID string, issue models.IssueReport) error
	// AppendAttempt appends a pickup/delivery attempt record.
	AppendAttempt(offerID string, attempt models.DeliveryAttempt) error
	// UpdateWithDocument patches a tracking document with the specified update document.
	UpdateWithDocument(offerID string, updateDoc bson.M) error
}
