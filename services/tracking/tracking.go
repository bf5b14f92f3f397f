package tracking

import (
	"fmt"
	"time"

	trackingRepo "lastmile/database/repository/tracking"
	"lastmile/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// validEventKinds is the closed set of accepted milestone kinds.
var validEventKinds = map[models.TrackingEventKind]bool{
	models.EventHeadingToPickup:   true,
	models.EventArrivedAtPickup:   true,
	models.EventPackagePickedUp:   true,
	models.EventHeadingToDelivery: true,
	models.EventArrivedAtDelivery: true,
	models.EventPackageDelivered:  true,
	models.EventDeliveryFailed:    true,
	models.EventReturningToPickup: true,
}

// DefaultTrackingService implements TrackingService.
type DefaultTrackingService struct {
	Repo   trackingRepo.TrackingRepository
	Logger *zap.Logger
}

// StartTracking opens the event log for a freshly accepted offer.
func (s *DefaultTrackingService) StartTracking(offer *models.Offer) (*models.DeliveryTracking, error) {
	if offer.AcceptedBy == "" {
		return nil, newTrackingError(CodeNotAssignedRider, "offer %s has no assigned rider", offer.ID)
	}
	now := time.Now()
	doc := &models.DeliveryTracking{
		ID:            uuid.New().String(),
		OfferID:       offer.ID,
		RiderID:       offer.AcceptedBy,
		CurrentStatus: models.EventHeadingToPickup,
		Events: []models.TrackingEvent{{
			Kind:      models.EventHeadingToPickup,
			Timestamp: now,
			Actor:     offer.AcceptedBy,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	stored, created, err := s.Repo.CreateIfAbsent(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to start tracking for offer %s: %w", offer.ID, err)
	}
	if created {
		s.Logger.Info("delivery tracking started",
			zap.String("offerId", offer.ID), zap.String("riderId", offer.AcceptedBy))
	}
	return stored, nil
}

func (s *DefaultTrackingService) Get(offerID string) (*models.DeliveryTracking, error) {
	return s.Repo.GetByOfferID(offerID)
}

// AppendEvent appends a milestone to the log and advances currentStatus.
func (s *DefaultTrackingService) AppendEvent(offerID, actorID string, kind models.TrackingEventKind, location *models.GeoPoint, notes string) (*models.DeliveryTracking, error) {
	if !validEventKinds[kind] {
		return nil, newTrackingError(CodeInvalidEvent, "unknown tracking event kind %q", kind)
	}
	if err := s.requireRider(offerID, actorID); err != nil {
		return nil, err
	}
	event := models.TrackingEvent{
		Kind:      kind,
		Timestamp: time.Now(),
		Actor:     actorID,
		Location:  location,
		Notes:     notes,
	}
	return s.Repo.AppendEvent(offerID, event)
}

// ReportIssue records a mid-delivery problem.
func (s *DefaultTrackingService) ReportIssue(offerID, actorID, kind, description string, location *models.GeoPoint) error {
	if err := s.requireRider(offerID, actorID); err != nil {
		return err
	}
	issue := models.IssueReport{
		ID:          uuid.New().String(),
		Kind:        kind,
		Description: description,
		ReportedAt:  time.Now(),
		Location:    location,
	}
	return s.Repo.AppendIssue(offerID, issue)
}

// RecordAttempt records a pickup or drop-off attempt.
func (s *DefaultTrackingService) RecordAttempt(offerID, actorID, stage string, successful bool, notes string) error {
	if stage != "pickup" && stage != "delivery" {
		return newTrackingError(CodeInvalidEvent, "attempt stage must be pickup or delivery, got %q", stage)
	}
	if err := s.requireRider(offerID, actorID); err != nil {
		return err
	}
	attempt := models.DeliveryAttempt{
		Stage:       stage,
		AttemptedAt: time.Now(),
		Successful:  successful,
		Notes:       notes,
	}
	return s.Repo.AppendAttempt(offerID, attempt)
}

func (s *DefaultTrackingService) requireRider(offerID, actorID string) error {
	doc, err := s.Repo.GetByOfferID(offerID)
	if err != nil {
		return err
	}
	if doc.RiderID != actorID {
		return newTrackingError(CodeNotAssignedRider, "actor %s is not the assigned rider for offer %s", actorID, offerID)
	}
	return nil
}
