package offer

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	offerRepo "lastmile/database/repository/offer"
	"lastmile/models"
	"lastmile/services/notification"
	"lastmile/services/tracking"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// memOfferRepo is an in-memory stand-in reproducing the datastore's
// conditional-update semantics, including the accept race.
type memOfferRepo struct {
	mu     sync.Mutex
	offers map[string]*models.Offer
}

func newMemOfferRepo() *memOfferRepo {
	return &memOfferRepo{offers: make(map[string]*models.Offer)}
}

func (r *memOfferRepo) Create(o *models.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[o.ID]; ok {
		return fmt.Errorf("duplicate offer id %s", o.ID)
	}
	cp := *o
	r.offers[o.ID] = &cp
	return nil
}

func (r *memOfferRepo) GetByID(id string) (*models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[id]
	if !ok {
		return nil, fmt.Errorf("offer %s not found", id)
	}
	cp := *o
	return &cp, nil
}

func (r *memOfferRepo) GetByBusiness(businessID string) ([]models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Offer
	for _, o := range r.offers {
		if o.BusinessID == businessID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *memOfferRepo) GetByRider(riderID string) ([]models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Offer
	for _, o := range r.offers {
		if o.AcceptedBy == riderID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *memOfferRepo) UpdateWithDocument(id string, updateDoc bson.M) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[id]
	if !ok {
		return fmt.Errorf("offer %s not found", id)
	}
	applyOfferSet(o, updateDoc)
	return nil
}

func (r *memOfferRepo) Accept(offerID, riderID string, entry models.StatusHistoryEntry) (*models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[offerID]
	if !ok || o.Status != models.OfferStatusOpen {
		return nil, offerRepo.ErrNoOpenOffer
	}
	now := entry.Timestamp
	o.Status = models.OfferStatusAccepted
	o.AcceptedBy = riderID
	o.AcceptedAt = &now
	o.UpdatedAt = now
	o.StatusHistory = append(o.StatusHistory, entry)
	cp := *o
	return &cp, nil
}

func (r *memOfferRepo) ApplyTransition(offerID string, from models.OfferStatus, update bson.M, entry models.StatusHistoryEntry) (*models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[offerID]
	if !ok || o.Status != from {
		return nil, offerRepo.ErrNoOpenOffer
	}
	applyOfferSet(o, update)
	o.StatusHistory = append(o.StatusHistory, entry)
	cp := *o
	return &cp, nil
}

func (r *memOfferRepo) GeoSearch(criteria offerRepo.OfferSearchCriteria) ([]models.OfferSummary, error) {
	return nil, errors.New("not implemented")
}

func (r *memOfferRepo) ListOpen(limit int64) ([]models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Offer
	for _, o := range r.offers {
		if o.Status == models.OfferStatusOpen {
			out = append(out, *o)
		}
	}
	return out, nil
}

func applyOfferSet(o *models.Offer, update bson.M) {
	set, ok := update["$set"].(bson.M)
	if !ok {
		return
	}
	for key, val := range set {
		switch key {
		case "status":
			o.Status = val.(models.OfferStatus)
		case "acceptedAt":
			ts := val.(time.Time)
			o.AcceptedAt = &ts
		case "pickedUpAt":
			ts := val.(time.Time)
			o.PickedUpAt = &ts
		case "inTransitAt":
			ts := val.(time.Time)
			o.InTransitAt = &ts
		case "deliveredAt":
			ts := val.(time.Time)
			o.DeliveredAt = &ts
		case "completedAt":
			ts := val.(time.Time)
			o.CompletedAt = &ts
		case "cancelledAt":
			ts := val.(time.Time)
			o.CancelledAt = &ts
		case "actualDuration":
			o.ActualDuration = val.(float64)
		case "updatedAt":
			o.UpdatedAt = val.(time.Time)
		}
	}
}

// recordingPayments counts settlement-creation triggers.
type recordingPayments struct {
	mu      sync.Mutex
	created []string
}

func (p *recordingPayments) CreatePayment(o *models.Offer) (*models.Payment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, o.ID)
	return &models.Payment{ID: "pay-1", OfferID: o.ID}, nil
}

func (p *recordingPayments) GetByOfferID(string) (*models.Payment, error) {
	return nil, errors.New("not implemented")
}
func (p *recordingPayments) Process(string) (*models.Payment, error) {
	return nil, errors.New("not implemented")
}
func (p *recordingPayments) MarkCompleted(string, string, string) (*models.Payment, error) {
	return nil, errors.New("not implemented")
}
func (p *recordingPayments) MarkFailed(string, string) (*models.Payment, error) {
	return nil, errors.New("not implemented")
}
func (p *recordingPayments) Retry(string) (*models.Payment, error) {
	return nil, errors.New("not implemented")
}
func (p *recordingPayments) Refund(string, float64, string) (*models.Payment, error) {
	return nil, errors.New("not implemented")
}

// recordingTracking counts tracking-log openings.
type recordingTracking struct {
	mu      sync.Mutex
	started []string
}

func (t *recordingTracking) StartTracking(o *models.Offer) (*models.DeliveryTracking, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.started = append(t.started, o.ID)
	return &models.DeliveryTracking{OfferID: o.ID, RiderID: o.AcceptedBy}, nil
}

func (t *recordingTracking) Get(string) (*models.DeliveryTracking, error) {
	return nil, errors.New("not implemented")
}
func (t *recordingTracking) AppendEvent(string, string, models.TrackingEventKind, *models.GeoPoint, string) (*models.DeliveryTracking, error) {
	return nil, errors.New("not implemented")
}
func (t *recordingTracking) ReportIssue(string, string, string, string, *models.GeoPoint) error {
	return errors.New("not implemented")
}
func (t *recordingTracking) RecordAttempt(string, string, string, bool, string) error {
	return errors.New("not implemented")
}

var _ tracking.TrackingService = (*recordingTracking)(nil)

func newTestService(repo *memOfferRepo) (*DefaultOfferService, *recordingPayments, *recordingTracking) {
	payments := &recordingPayments{}
	trk := &recordingTracking{}
	svc := &DefaultOfferService{
		Repo:     repo,
		Payments: payments,
		Tracking: trk,
		Notifier: &notification.LogNotificationService{Logger: zap.NewNop()},
		Logger:   zap.NewNop(),
	}
	return svc, payments, trk
}

func seedOpenOffer(t *testing.T, repo *memOfferRepo) *models.Offer {
	t.Helper()
	now := time.Now()
	o := &models.Offer{
		ID:         "offer-1",
		BusinessID: testBusinessID,
		Title:      "2kg parcel crosstown",
		Package:    models.PackageInfo{WeightKg: 2},
		Pickup: models.LocationInfo{
			Geo:          models.NewGeoPoint(-73.9857, 40.7484),
			ContactName:  "Ana",
			ContactPhone: "+1-555-0100",
		},
		Delivery: models.LocationInfo{
			Geo:          models.NewGeoPoint(-73.9442, 40.6782),
			ContactName:  "Ben",
			ContactPhone: "+1-555-0101",
		},
		Payment: models.PaymentInfo{Amount: 25.50, Currency: "USD", Method: "card"},
		Status:  models.OfferStatusOpen,
		StatusHistory: []models.StatusHistoryEntry{{
			Status:    models.OfferStatusOpen,
			Timestamp: now,
			Actor:     testBusinessID,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(o); err != nil {
		t.Fatalf("seed offer: %v", err)
	}
	return o
}

func TestConcurrentAcceptSingleWinner(t *testing.T) {
	repo := newMemOfferRepo()
	svc, _, trk := newTestService(repo)
	seedOpenOffer(t, repo)

	const riders = 8
	var wg sync.WaitGroup
	results := make([]error, riders)
	for i := 0; i < riders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.RequestTransition("offer-1", models.OfferStatusAccepted,
				fmt.Sprintf("rider-%d", i), TransitionOptions{})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
			continue
		}
		we, ok := AsWorkflowError(err)
		if !ok {
			t.Fatalf("loser got unexpected error type: %v", err)
		}
		if we.Code != CodeAlreadyAccepted {
			t.Errorf("loser got code %s, want %s", we.Code, CodeAlreadyAccepted)
		}
	}
	if winners != 1 {
		t.Fatalf("winners = %d, want exactly 1", winners)
	}

	stored, err := repo.GetByID("offer-1")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.OfferStatusAccepted {
		t.Errorf("status = %s, want accepted", stored.Status)
	}
	if stored.AcceptedBy == "" || stored.AcceptedAt == nil {
		t.Error("winner assignment not recorded")
	}
	if len(trk.started) != 1 {
		t.Errorf("tracking started %d times, want 1", len(trk.started))
	}
}

func TestFullLifecycle(t *testing.T) {
	repo := newMemOfferRepo()
	svc, payments, _ := newTestService(repo)
	seedOpenOffer(t, repo)

	steps := []struct {
		target models.OfferStatus
		actor  string
	}{
		{models.OfferStatusAccepted, testRiderID},
		{models.OfferStatusPickedUp, testRiderID},
		{models.OfferStatusInTransit, testRiderID},
		{models.OfferStatusDelivered, testRiderID},
		{models.OfferStatusCompleted, testBusinessID},
	}
	for _, step := range steps {
		result, err := svc.RequestTransition("offer-1", step.target, step.actor, TransitionOptions{})
		if err != nil {
			t.Fatalf("transition to %s: %v", step.target, err)
		}
		if result.NewStatus != step.target {
			t.Fatalf("result status = %s, want %s", result.NewStatus, step.target)
		}
	}

	o, err := repo.GetByID("offer-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(o.StatusHistory) != 6 {
		t.Errorf("history length = %d, want 6 (creation plus five transitions)", len(o.StatusHistory))
	}
	if o.StatusHistory[len(o.StatusHistory)-1].Status != models.OfferStatusCompleted {
		t.Error("last history entry must mirror the final status")
	}
	for _, ts := range []*time.Time{o.AcceptedAt, o.PickedUpAt, o.InTransitAt, o.DeliveredAt, o.CompletedAt} {
		if ts == nil {
			t.Fatal("milestone timestamp missing")
		}
	}
	if o.ActualDuration < 0 {
		t.Error("actual duration must be non-negative")
	}
	if len(payments.created) != 1 || payments.created[0] != "offer-1" {
		t.Errorf("payment created %v, want exactly once for offer-1", payments.created)
	}
}

func TestTransitionOnTerminalOffer(t *testing.T) {
	repo := newMemOfferRepo()
	svc, _, _ := newTestService(repo)
	seedOpenOffer(t, repo)

	if _, err := svc.RequestTransition("offer-1", models.OfferStatusCancelled, testBusinessID, TransitionOptions{Notes: "out of stock"}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	_, err := svc.RequestTransition("offer-1", models.OfferStatusAccepted, testRiderID, TransitionOptions{})
	we, ok := AsWorkflowError(err)
	if !ok || we.Code != CodeInvalidTransition {
		t.Fatalf("accept after cancel: expected %s, got %v", CodeInvalidTransition, err)
	}
	if len(we.AllowedNext) != 0 {
		t.Errorf("cancelled offer reported successors %v", we.AllowedNext)
	}
}

func TestCreateOfferValidation(t *testing.T) {
	repo := newMemOfferRepo()
	svc, _, _ := newTestService(repo)

	valid := CreateOfferInput{
		BusinessID: testBusinessID,
		Title:      "small parcel",
		Package:    models.PackageInfo{WeightKg: 1},
		Pickup: models.LocationInfo{
			Geo:          models.NewGeoPoint(-73.9857, 40.7484),
			ContactName:  "Ana",
			ContactPhone: "+1-555-0100",
		},
		Delivery: models.LocationInfo{
			Geo:          models.NewGeoPoint(-73.9442, 40.6782),
			ContactName:  "Ben",
			ContactPhone: "+1-555-0101",
		},
		Payment: models.PaymentInfo{Amount: 12, Currency: "USD"},
	}

	created, err := svc.CreateOffer(valid)
	if err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
	if created.Status != models.OfferStatusOpen {
		t.Errorf("status = %s, want open", created.Status)
	}
	if len(created.StatusHistory) != 1 || created.StatusHistory[0].Actor != testBusinessID {
		t.Error("creation history entry missing or wrong actor")
	}
	if created.EstimatedDistance <= 0 || created.EstimatedDuration <= 0 {
		t.Error("leg estimate not populated")
	}

	for name, mutate := range map[string]func(*CreateOfferInput){
		"missing title":     func(in *CreateOfferInput) { in.Title = "" },
		"zero amount":       func(in *CreateOfferInput) { in.Payment.Amount = 0 },
		"negative amount":   func(in *CreateOfferInput) { in.Payment.Amount = -5 },
		"no pickup contact": func(in *CreateOfferInput) { in.Pickup.ContactName = "" },
		"bad longitude":     func(in *CreateOfferInput) { in.Delivery.Geo = models.NewGeoPoint(181, 0) },
	} {
		in := valid
		mutate(&in)
		if _, err := svc.CreateOffer(in); err == nil {
			t.Errorf("%s: expected rejection", name)
		}
	}
}
