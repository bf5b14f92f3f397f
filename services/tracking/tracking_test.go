package tracking

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"lastmile/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// memTrackingRepo keeps one event log per offer in memory.
type memTrackingRepo struct {
	mu   sync.Mutex
	docs map[string]*models.DeliveryTracking
}

func newMemTrackingRepo() *memTrackingRepo {
	return &memTrackingRepo{docs: make(map[string]*models.DeliveryTracking)}
}

func (r *memTrackingRepo) CreateIfAbsent(doc *models.DeliveryTracking) (*models.DeliveryTracking, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.docs[doc.OfferID]; ok {
		cp := *existing
		return &cp, false, nil
	}
	cp := *doc
	r.docs[doc.OfferID] = &cp
	out := cp
	return &out, true, nil
}

func (r *memTrackingRepo) GetByOfferID(offerID string) (*models.DeliveryTracking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[offerID]
	if !ok {
		return nil, fmt.Errorf("no tracking for offer %s", offerID)
	}
	cp := *doc
	return &cp, nil
}

func (r *memTrackingRepo) AppendEvent(offerID string, event models.TrackingEvent) (*models.DeliveryTracking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[offerID]
	if !ok {
		return nil, fmt.Errorf("no tracking for offer %s", offerID)
	}
	doc.Events = append(doc.Events, event)
	doc.CurrentStatus = event.Kind
	doc.UpdatedAt = event.Timestamp
	cp := *doc
	return &cp, nil
}

func (r *memTrackingRepo) AppendIssue(offerID string, issue models.IssueReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[offerID]
	if !ok {
		return fmt.Errorf("no tracking for offer %s", offerID)
	}
	doc.Issues = append(doc.Issues, issue)
	return nil
}

func (r *memTrackingRepo) AppendAttempt(offerID string, attempt models.DeliveryAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[offerID]
	if !ok {
		return fmt.Errorf("no tracking for offer %s", offerID)
	}
	doc.Attempts = append(doc.Attempts, attempt)
	return nil
}

func (r *memTrackingRepo) UpdateWithDocument(offerID string, updateDoc bson.M) error {
	return nil
}

func newTrackingTestService() (*DefaultTrackingService, *memTrackingRepo) {
	repo := newMemTrackingRepo()
	return &DefaultTrackingService{Repo: repo, Logger: zap.NewNop()}, repo
}

func acceptedOffer() *models.Offer {
	now := time.Now()
	return &models.Offer{
		ID:         "offer-1",
		BusinessID: "biz-1",
		AcceptedBy: "rider-1",
		Status:     models.OfferStatusAccepted,
		AcceptedAt: &now,
	}
}

func TestStartTrackingSeedsFirstEvent(t *testing.T) {
	svc, _ := newTrackingTestService()
	doc, err := svc.StartTracking(acceptedOffer())
	if err != nil {
		t.Fatal(err)
	}
	if doc.CurrentStatus != models.EventHeadingToPickup {
		t.Errorf("current status = %s, want heading_to_pickup", doc.CurrentStatus)
	}
	if len(doc.Events) != 1 || doc.Events[0].Kind != models.EventHeadingToPickup {
		t.Error("log must open with the heading_to_pickup event")
	}
	if doc.RiderID != "rider-1" {
		t.Errorf("rider = %s, want rider-1", doc.RiderID)
	}
}

func TestStartTrackingIdempotent(t *testing.T) {
	svc, _ := newTrackingTestService()
	offer := acceptedOffer()
	first, err := svc.StartTracking(offer)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.StartTracking(offer)
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != second.ID {
		t.Errorf("repeat start produced a new log: %s vs %s", first.ID, second.ID)
	}
}

func TestStartTrackingRequiresRider(t *testing.T) {
	svc, _ := newTrackingTestService()
	offer := acceptedOffer()
	offer.AcceptedBy = ""
	if _, err := svc.StartTracking(offer); err == nil {
		t.Fatal("unassigned offer must be rejected")
	}
}

func TestAppendEventAdvancesStatus(t *testing.T) {
	svc, _ := newTrackingTestService()
	if _, err := svc.StartTracking(acceptedOffer()); err != nil {
		t.Fatal(err)
	}

	loc := models.NewGeoPoint(-73.9857, 40.7484)
	doc, err := svc.AppendEvent("offer-1", "rider-1", models.EventArrivedAtPickup, &loc, "at the counter")
	if err != nil {
		t.Fatal(err)
	}
	if doc.CurrentStatus != models.EventArrivedAtPickup {
		t.Errorf("current status = %s, want arrived_at_pickup", doc.CurrentStatus)
	}
	if len(doc.Events) != 2 {
		t.Errorf("events = %d, want 2", len(doc.Events))
	}
	last := doc.Events[len(doc.Events)-1]
	if last.Actor != "rider-1" || last.Location == nil || last.Notes != "at the counter" {
		t.Error("event context not recorded")
	}
}

func TestAppendEventRejectsUnknownKind(t *testing.T) {
	svc, _ := newTrackingTestService()
	if _, err := svc.StartTracking(acceptedOffer()); err != nil {
		t.Fatal(err)
	}
	_, err := svc.AppendEvent("offer-1", "rider-1", models.TrackingEventKind("teleported"), nil, "")
	if te, ok := AsTrackingError(err); !ok || te.Code != CodeInvalidEvent {
		t.Fatalf("expected %s, got %v", CodeInvalidEvent, err)
	}
}

func TestAppendEventRejectsOtherRiders(t *testing.T) {
	svc, _ := newTrackingTestService()
	if _, err := svc.StartTracking(acceptedOffer()); err != nil {
		t.Fatal(err)
	}
	_, err := svc.AppendEvent("offer-1", "rider-2", models.EventArrivedAtPickup, nil, "")
	if te, ok := AsTrackingError(err); !ok || te.Code != CodeNotAssignedRider {
		t.Fatalf("expected %s, got %v", CodeNotAssignedRider, err)
	}
}

func TestReportIssue(t *testing.T) {
	svc, repo := newTrackingTestService()
	if _, err := svc.StartTracking(acceptedOffer()); err != nil {
		t.Fatal(err)
	}
	if err := svc.ReportIssue("offer-1", "rider-1", "recipient_unavailable", "nobody home", nil); err != nil {
		t.Fatal(err)
	}
	doc, _ := repo.GetByOfferID("offer-1")
	if len(doc.Issues) != 1 || doc.Issues[0].Kind != "recipient_unavailable" {
		t.Errorf("issues = %v", doc.Issues)
	}
}

func TestRecordAttemptValidatesStage(t *testing.T) {
	svc, repo := newTrackingTestService()
	if _, err := svc.StartTracking(acceptedOffer()); err != nil {
		t.Fatal(err)
	}

	if err := svc.RecordAttempt("offer-1", "rider-1", "midway", false, ""); err == nil {
		t.Error("unknown stage must be rejected")
	}
	if err := svc.RecordAttempt("offer-1", "rider-1", "delivery", false, "gate locked"); err != nil {
		t.Fatal(err)
	}
	doc, _ := repo.GetByOfferID("offer-1")
	if len(doc.Attempts) != 1 || doc.Attempts[0].Stage != "delivery" || doc.Attempts[0].Successful {
		t.Errorf("attempts = %v", doc.Attempts)
	}
}
