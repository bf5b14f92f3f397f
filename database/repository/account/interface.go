package accountRepo

import (
	"lastmile/models"

	"go.mongodb.org/mongo-driver/bson"
)

// BusinessRepository defines methods for business-account data access.
type BusinessRepository interface {
	Create(business *models.Business) error
	GetByID(id string) (*models.Business, error)
	GetByEmail(email string) (*models.Business, error)
	UpdateWithDocument(id string, updateDoc bson.M) error
}

// RiderRepository defines methods for rider-account data access.
type RiderRepository interface {
	Create(rider *models.Rider) error
	GetByID(id string) (*models.Rider, error)
	GetByEmail(email string) (*models.Rider, error)
	UpdateWithDocument(id string, updateDoc bson.M) error
	// IncrementCompletedDeliveries bumps the lifetime counter by one.
	IncrementCompletedDeliveries(id string) error
}
