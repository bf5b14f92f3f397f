package account

import "lastmile/models"

// BusinessRegistration is the signup payload for a business account.
type BusinessRegistration struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	Password    string `json:"password"`
}

// RiderRegistration is the signup payload for a rider account.
type RiderRegistration struct {
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	PhoneNumber string             `json:"phoneNumber"`
	VehicleType models.VehicleType `json:"vehicleType"`
	Password    string             `json:"password"`
}

// AccountService handles registration and sign-in for both actor roles.
type AccountService interface {
	RegisterBusiness(reg BusinessRegistration) (*models.Business, error)
	RegisterRider(reg RiderRegistration) (*models.Rider, error)
	// SignInBusiness returns the account with a fresh token in
	// Security.Token.
	SignInBusiness(email, password string) (*models.Business, error)
	// SignInRider returns the account with a fresh token in Security.Token.
	SignInRider(email, password string) (*models.Rider, error)
	GetRider(id string) (*models.Rider, error)
	GetBusiness(id string) (*models.Business, error)
	// TokenHash returns the stored hash of the account's current sign-in
	// token, for revocation checks.
	TokenHash(accountID string, role models.AccountRole) (string, error)
}
