package matching

import (
	"errors"
	"testing"
	"time"

	offerRepo "lastmile/database/repository/offer"
	"lastmile/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// stubOfferRepo drives the matcher through both search paths without a
// datastore. When indexed is false, GeoSearch fails the way a collection
// without its geo index does.
type stubOfferRepo struct {
	indexed      bool
	open         []models.Offer
	geoResults   []models.OfferSummary
	lastCriteria offerRepo.OfferSearchCriteria
}

func (r *stubOfferRepo) GeoSearch(criteria offerRepo.OfferSearchCriteria) ([]models.OfferSummary, error) {
	r.lastCriteria = criteria
	if !r.indexed {
		return nil, errors.New("unable to find index for $geoNear query")
	}
	return r.geoResults, nil
}

func (r *stubOfferRepo) ListOpen(limit int64) ([]models.Offer, error) {
	return r.open, nil
}

func (r *stubOfferRepo) Create(*models.Offer) error                  { return errors.New("not implemented") }
func (r *stubOfferRepo) GetByID(string) (*models.Offer, error)       { return nil, errors.New("not implemented") }
func (r *stubOfferRepo) GetByBusiness(string) ([]models.Offer, error) { return nil, nil }
func (r *stubOfferRepo) GetByRider(string) ([]models.Offer, error)   { return nil, nil }
func (r *stubOfferRepo) UpdateWithDocument(string, bson.M) error     { return errors.New("not implemented") }
func (r *stubOfferRepo) Accept(string, string, models.StatusHistoryEntry) (*models.Offer, error) {
	return nil, errors.New("not implemented")
}
func (r *stubOfferRepo) ApplyTransition(string, models.OfferStatus, bson.M, models.StatusHistoryEntry) (*models.Offer, error) {
	return nil, errors.New("not implemented")
}

func newMatcher(repo *stubOfferRepo) *DefaultMatchingService {
	return &DefaultMatchingService{
		OfferRepo: repo,
		Capacity:  DefaultCapacityTable(),
		Radius:    RadiusBounds{Default: 10000, Min: 100, Max: 100000},
		Logger:    zap.NewNop(),
	}
}

func openOffer(id string, geo models.GeoPoint, amount float64, pkg models.PackageInfo, created time.Time) models.Offer {
	return models.Offer{
		ID:        id,
		Title:     "parcel " + id,
		Status:    models.OfferStatusOpen,
		Package:   pkg,
		Pickup:    models.LocationInfo{Geo: geo},
		Payment:   models.PaymentInfo{Amount: amount, Currency: "USD"},
		CreatedAt: created,
	}
}

func TestFindNearbyRejectsInvalidRiderLocation(t *testing.T) {
	svc := newMatcher(&stubOfferRepo{indexed: true})
	_, err := svc.FindNearbyOffers(NearbyQuery{RiderLocation: models.NewGeoPoint(200, 0)})
	if me, ok := AsMatchError(err); !ok || me.Code != CodeInvalidCoordinates {
		t.Fatalf("expected %s, got %v", CodeInvalidCoordinates, err)
	}
}

func TestRadiusClamping(t *testing.T) {
	repo := &stubOfferRepo{indexed: true}
	svc := newMatcher(repo)

	cases := []struct {
		requested float64
		want      float64
	}{
		{0, 10000},      // default
		{50, 100},       // below min
		{500000, 100000}, // above max
		{2500, 2500},    // in range
	}
	for _, tc := range cases {
		if _, err := svc.FindNearbyOffers(NearbyQuery{RiderLocation: midtown, MaxDistance: tc.requested}); err != nil {
			t.Fatal(err)
		}
		if repo.lastCriteria.MaxDistance != tc.want {
			t.Errorf("requested %.0f: search radius = %.0f, want %.0f",
				tc.requested, repo.lastCriteria.MaxDistance, tc.want)
		}
	}
}

func TestVehicleLimitsForwardedToSearch(t *testing.T) {
	repo := &stubOfferRepo{indexed: true}
	svc := newMatcher(repo)

	if _, err := svc.FindNearbyOffers(NearbyQuery{RiderLocation: midtown, Vehicle: models.VehicleBike}); err != nil {
		t.Fatal(err)
	}
	if repo.lastCriteria.MaxWeightKg != 5 || repo.lastCriteria.MaxVolumeM3 != 0.03 {
		t.Errorf("bike limits = (%.1f kg, %.2f m3), want (5, 0.03)",
			repo.lastCriteria.MaxWeightKg, repo.lastCriteria.MaxVolumeM3)
	}

	if _, err := svc.FindNearbyOffers(NearbyQuery{RiderLocation: midtown, Vehicle: models.VehicleType("cargo-drone")}); err != nil {
		t.Fatal(err)
	}
	if repo.lastCriteria.MaxWeightKg != 0 || repo.lastCriteria.MaxVolumeM3 != 0 {
		t.Error("unknown vehicle must search unconstrained")
	}
}

func TestEmptyResultIsNotNil(t *testing.T) {
	svc := newMatcher(&stubOfferRepo{indexed: true})
	got, err := svc.FindNearbyOffers(NearbyQuery{RiderLocation: midtown})
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("no matches must be an empty slice, not nil")
	}
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
}

func TestDurationStampedOnResults(t *testing.T) {
	repo := &stubOfferRepo{
		indexed: true,
		geoResults: []models.OfferSummary{
			{ID: "a", DistanceFromRider: 3000},
		},
	}
	svc := newMatcher(repo)
	got, err := svc.FindNearbyOffers(NearbyQuery{RiderLocation: midtown, Vehicle: models.VehicleBike})
	if err != nil {
		t.Fatal(err)
	}
	want := EstimateDuration(3000, models.VehicleBike)
	if got[0].EstimatedDuration != want {
		t.Errorf("estimated duration = %.2f, want %.2f", got[0].EstimatedDuration, want)
	}
}

func TestFallbackFiltersAndRanks(t *testing.T) {
	now := time.Now()
	near := models.NewGeoPoint(-73.9850, 40.7480)  // ~100 m from midtown
	mid := models.NewGeoPoint(-73.9700, 40.7300)   // ~2.5 km out
	far := models.NewGeoPoint(-73.7781, 40.6413)   // JFK, ~20 km out

	repo := &stubOfferRepo{
		indexed: false,
		open: []models.Offer{
			openOffer("near", near, 12, models.PackageInfo{WeightKg: 2}, now),
			openOffer("mid", mid, 30, models.PackageInfo{WeightKg: 2}, now.Add(-time.Hour)),
			openOffer("far", far, 50, models.PackageInfo{WeightKg: 2}, now),
			openOffer("heavy", near, 40, models.PackageInfo{WeightKg: 8}, now),
			openOffer("fragile", near, 20, models.PackageInfo{WeightKg: 1, Fragile: true}, now),
			openOffer("cheap", near, 3, models.PackageInfo{WeightKg: 1}, now),
		},
	}
	svc := newMatcher(repo)

	got, err := svc.FindNearbyOffers(NearbyQuery{
		RiderLocation:  midtown,
		MaxDistance:    10000,
		MinPayment:     10,
		ExcludeFragile: true,
		Vehicle:        models.VehicleBike,
	})
	if err != nil {
		t.Fatal(err)
	}

	// far is beyond the radius, heavy exceeds bike capacity, fragile and
	// cheap are filtered; distance order puts near first.
	if len(got) != 2 {
		t.Fatalf("got %d offers %v, want 2", len(got), ids(got))
	}
	if got[0].ID != "near" || got[1].ID != "mid" {
		t.Errorf("order = %v, want [near mid]", ids(got))
	}
	if got[0].DistanceFromRider <= 0 || got[0].DistanceFromRider > 200 {
		t.Errorf("near distance = %.0f m, want within 200 m", got[0].DistanceFromRider)
	}
	if got[0].EstimatedDuration <= 0 {
		t.Error("fallback results must carry a duration estimate")
	}
}

func TestFallbackSortModes(t *testing.T) {
	now := time.Now()
	near := models.NewGeoPoint(-73.9850, 40.7480)
	mid := models.NewGeoPoint(-73.9700, 40.7300)

	repo := &stubOfferRepo{
		indexed: false,
		open: []models.Offer{
			openOffer("a", near, 10, models.PackageInfo{WeightKg: 1}, now.Add(-2*time.Hour)),
			openOffer("b", mid, 25, models.PackageInfo{WeightKg: 1}, now.Add(-time.Hour)),
			openOffer("c", near, 25, models.PackageInfo{WeightKg: 1}, now),
		},
	}
	svc := newMatcher(repo)

	byPayment, err := svc.FindNearbyOffers(NearbyQuery{RiderLocation: midtown, SortBy: "payment"})
	if err != nil {
		t.Fatal(err)
	}
	// Equal payments tie-break on id for deterministic paging.
	if want := []string{"b", "c", "a"}; !equalIDs(byPayment, want) {
		t.Errorf("payment order = %v, want %v", ids(byPayment), want)
	}

	byCreated, err := svc.FindNearbyOffers(NearbyQuery{RiderLocation: midtown, SortBy: "created"})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"c", "b", "a"}; !equalIDs(byCreated, want) {
		t.Errorf("created order = %v, want %v", ids(byCreated), want)
	}

	limited, err := svc.FindNearbyOffers(NearbyQuery{RiderLocation: midtown, Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("limit 1 returned %d offers", len(limited))
	}
}

func TestFallbackSkipsMalformedOffers(t *testing.T) {
	repo := &stubOfferRepo{
		indexed: false,
		open: []models.Offer{
			{ID: "bad", Status: models.OfferStatusOpen, Pickup: models.LocationInfo{Geo: models.GeoPoint{Type: "Point", Coordinates: []float64{999}}}},
			openOffer("good", models.NewGeoPoint(-73.9850, 40.7480), 10, models.PackageInfo{WeightKg: 1}, time.Now()),
		},
	}
	svc := newMatcher(repo)
	got, err := svc.FindNearbyOffers(NearbyQuery{RiderLocation: midtown})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "good" {
		t.Errorf("got %v, want only the well-formed offer", ids(got))
	}
}

func ids(summaries []models.OfferSummary) []string {
	out := make([]string, len(summaries))
	for i, s := range summaries {
		out[i] = s.ID
	}
	return out
}

func equalIDs(summaries []models.OfferSummary, want []string) bool {
	if len(summaries) != len(want) {
		return false
	}
	for i, s := range summaries {
		if s.ID != want[i] {
			return false
		}
	}
	return true
}
