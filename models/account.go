package models

import "time"

// VehicleType enumerates rider vehicle classes used for capacity and speed
// rules in the matcher and estimator.
type VehicleType string

const (
	VehicleBike    VehicleType = "bike"
	VehicleScooter VehicleType = "scooter"
	VehicleCar     VehicleType = "car"
	VehicleVan     VehicleType = "van"
)

// AccountRole distinguishes the two kinds of actors in the marketplace.
type AccountRole string

const (
	RoleBusiness AccountRole = "business"
	RoleRider    AccountRole = "rider"
)

// Security holds credential material. Plaintext fields never persist.
type Security struct {
	Password     string `bson:"-" json:"password,omitempty"`
	PasswordHash string `bson:"passwordHash" json:"-"`
	Token        string `bson:"-" json:"token,omitempty"`
	TokenHash    string `bson:"tokenHash" json:"-"`
}

// Business posts delivery offers.
type Business struct {
	ID          string    `bson:"id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Email       string    `bson:"email" json:"email"`
	PhoneNumber string    `bson:"phoneNumber" json:"phoneNumber,omitempty"`
	Address     string    `bson:"address" json:"address,omitempty"`
	Security    Security  `bson:"security" json:"security,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Rider discovers and fulfils offers.
type Rider struct {
	ID          string      `bson:"id" json:"id"`
	Name        string      `bson:"name" json:"name"`
	Email       string      `bson:"email" json:"email"`
	PhoneNumber string      `bson:"phoneNumber" json:"phoneNumber,omitempty"`
	VehicleType VehicleType `bson:"vehicleType" json:"vehicleType"`
	Security    Security    `bson:"security" json:"security,omitempty"`

	CompletedDeliveries int `bson:"completedDeliveries" json:"completedDeliveries"` // Lifetime counter, bumped once per settled offer.

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
