package account

import (
	"fmt"
	"sync"
	"testing"

	"lastmile/models"
	"lastmile/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type memRiderRepo struct {
	mu     sync.Mutex
	riders map[string]*models.Rider
}

func (r *memRiderRepo) Create(rider *models.Rider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.riders == nil {
		r.riders = make(map[string]*models.Rider)
	}
	cp := *rider
	r.riders[rider.ID] = &cp
	return nil
}

func (r *memRiderRepo) GetByID(id string) (*models.Rider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rider, ok := r.riders[id]
	if !ok {
		return nil, fmt.Errorf("rider %s not found", id)
	}
	cp := *rider
	return &cp, nil
}

func (r *memRiderRepo) GetByEmail(email string) (*models.Rider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rider := range r.riders {
		if rider.Email == email {
			cp := *rider
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("rider %s not found", email)
}

func (r *memRiderRepo) UpdateWithDocument(id string, updateDoc bson.M) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rider, ok := r.riders[id]
	if !ok {
		return fmt.Errorf("rider %s not found", id)
	}
	if set, ok := updateDoc["$set"].(bson.M); ok {
		if hash, ok := set["security.tokenHash"].(string); ok {
			rider.Security.TokenHash = hash
		}
	}
	return nil
}

func (r *memRiderRepo) IncrementCompletedDeliveries(id string) error { return nil }

type memBusinessRepo struct {
	mu         sync.Mutex
	businesses map[string]*models.Business
}

func (r *memBusinessRepo) Create(b *models.Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.businesses == nil {
		r.businesses = make(map[string]*models.Business)
	}
	cp := *b
	r.businesses[b.ID] = &cp
	return nil
}

func (r *memBusinessRepo) GetByID(id string) (*models.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.businesses[id]
	if !ok {
		return nil, fmt.Errorf("business %s not found", id)
	}
	cp := *b
	return &cp, nil
}

func (r *memBusinessRepo) GetByEmail(email string) (*models.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.businesses {
		if b.Email == email {
			cp := *b
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("business %s not found", email)
}

func (r *memBusinessRepo) UpdateWithDocument(id string, updateDoc bson.M) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.businesses[id]
	if !ok {
		return fmt.Errorf("business %s not found", id)
	}
	if set, ok := updateDoc["$set"].(bson.M); ok {
		if hash, ok := set["security.tokenHash"].(string); ok {
			b.Security.TokenHash = hash
		}
	}
	return nil
}

func newAccountTestService() *DefaultAccountService {
	return &DefaultAccountService{
		Businesses: &memBusinessRepo{},
		Riders:     &memRiderRepo{},
		Logger:     zap.NewNop(),
	}
}

func TestRegisterRiderAndSignIn(t *testing.T) {
	svc := newAccountTestService()

	rider, err := svc.RegisterRider(RiderRegistration{
		Name:        "Sam",
		Email:       "sam@example.com",
		VehicleType: models.VehicleBike,
		Password:    "hunter22",
	})
	if err != nil {
		t.Fatal(err)
	}
	if rider.Security.PasswordHash != "" || rider.Security.Token != "" {
		t.Error("registration response must not leak credentials")
	}

	signed, err := svc.SignInRider("sam@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if signed.Security.Token == "" {
		t.Fatal("sign-in must return a token")
	}

	sub, role, err := utils.ExtractClaimsFromToken(signed.Security.Token)
	if err != nil {
		t.Fatal(err)
	}
	if sub != rider.ID {
		t.Errorf("token subject = %s, want %s", sub, rider.ID)
	}
	if role != string(models.RoleRider) {
		t.Errorf("token role = %s, want rider", role)
	}

	if _, err := svc.SignInRider("sam@example.com", "wrong"); err == nil {
		t.Error("wrong password must be rejected")
	}
	if _, err := svc.SignInRider("nobody@example.com", "hunter22"); err == nil {
		t.Error("unknown email must be rejected")
	}
}

func TestRegisterRiderValidation(t *testing.T) {
	svc := newAccountTestService()

	if _, err := svc.RegisterRider(RiderRegistration{Email: "x@example.com", Password: "p"}); err == nil {
		t.Error("missing name must be rejected")
	}
	_, err := svc.RegisterRider(RiderRegistration{
		Name: "Sam", Email: "x@example.com", Password: "p",
		VehicleType: models.VehicleType("hoverboard"),
	})
	if ae, ok := AsAccountError(err); !ok || ae.Code != CodeInvalidInput {
		t.Errorf("unknown vehicle: expected %s, got %v", CodeInvalidInput, err)
	}
}

func TestRegisterBusinessDuplicateEmail(t *testing.T) {
	svc := newAccountTestService()

	reg := BusinessRegistration{Name: "Acme", Email: "ops@acme.example", Password: "secret"}
	if _, err := svc.RegisterBusiness(reg); err != nil {
		t.Fatal(err)
	}
	_, err := svc.RegisterBusiness(reg)
	if ae, ok := AsAccountError(err); !ok || ae.Code != CodeEmailTaken {
		t.Fatalf("expected %s, got %v", CodeEmailTaken, err)
	}
}

func TestSignInBusinessRole(t *testing.T) {
	svc := newAccountTestService()
	if _, err := svc.RegisterBusiness(BusinessRegistration{Name: "Acme", Email: "ops@acme.example", Password: "secret"}); err != nil {
		t.Fatal(err)
	}

	signed, err := svc.SignInBusiness("ops@acme.example", "secret")
	if err != nil {
		t.Fatal(err)
	}
	_, role, err := utils.ExtractClaimsFromToken(signed.Security.Token)
	if err != nil {
		t.Fatal(err)
	}
	if role != string(models.RoleBusiness) {
		t.Errorf("token role = %s, want business", role)
	}
}

func TestTokenHashTracksLatestSignIn(t *testing.T) {
	svc := newAccountTestService()
	rider, err := svc.RegisterRider(RiderRegistration{
		Name: "Sam", Email: "sam@example.com", VehicleType: models.VehicleBike, Password: "hunter22",
	})
	if err != nil {
		t.Fatal(err)
	}

	signed, err := svc.SignInRider("sam@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}

	stored, err := svc.TokenHash(rider.ID, models.RoleRider)
	if err != nil {
		t.Fatal(err)
	}
	if stored != utils.HashToken(signed.Security.Token) {
		t.Error("stored hash must match the latest sign-in token")
	}
	if stored == "" {
		t.Error("sign-in must persist a token hash")
	}

	if _, err := svc.TokenHash(rider.ID, models.AccountRole("auditor")); err == nil {
		t.Error("unknown role must be rejected")
	}
	if _, err := svc.TokenHash("ghost", models.RoleRider); err == nil {
		t.Error("unknown account must be rejected")
	}
}

func TestGetRiderHidesCredentials(t *testing.T) {
	svc := newAccountTestService()
	rider, err := svc.RegisterRider(RiderRegistration{
		Name: "Sam", Email: "sam@example.com", VehicleType: models.VehicleScooter, Password: "hunter22",
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.GetRider(rider.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Security.PasswordHash != "" || got.Security.TokenHash != "" {
		t.Error("profile reads must not expose stored credentials")
	}
	if got.VehicleType != models.VehicleScooter {
		t.Errorf("vehicle = %s, want scooter", got.VehicleType)
	}
}
