package offer

import (
	"fmt"
	"time"

	"lastmile/models"
	"lastmile/services/matching"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateOffer validates the input and persists a new offer in the open state.
func (s *DefaultOfferService) CreateOffer(input CreateOfferInput) (*models.Offer, error) {
	if input.BusinessID == "" {
		return nil, newInvalidInputError("business id is required")
	}
	if input.Title == "" {
		return nil, newInvalidInputError("title is required")
	}
	if input.Payment.Amount <= 0 {
		return nil, newInvalidInputError("payment amount must be positive")
	}
	if input.Pickup.ContactName == "" || input.Pickup.ContactPhone == "" {
		return nil, newInvalidInputError("pickup contact name and phone are required")
	}
	if input.Delivery.ContactName == "" || input.Delivery.ContactPhone == "" {
		return nil, newInvalidInputError("delivery contact name and phone are required")
	}
	if err := matching.ValidateCoordinates(input.Pickup.Geo); err != nil {
		return nil, err
	}
	if err := matching.ValidateCoordinates(input.Delivery.Geo); err != nil {
		return nil, err
	}

	now := time.Now()
	o := &models.Offer{
		ID:          uuid.New().String(),
		BusinessID:  input.BusinessID,
		Title:       input.Title,
		Description: input.Description,
		Package:     input.Package,
		Pickup:      input.Pickup,
		Delivery:    input.Delivery,
		Payment:     input.Payment,
		Status:      models.OfferStatusOpen,
		StatusHistory: []models.StatusHistoryEntry{{
			Status:    models.OfferStatusOpen,
			Timestamp: now,
			Actor:     input.BusinessID,
			Notes:     "offer created",
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Pre-compute the leg estimate; the car profile is the baseline.
	if dist, err := matching.Distance(input.Pickup.Geo, input.Delivery.Geo); err == nil {
		o.EstimatedDistance = dist
		o.EstimatedDuration = matching.EstimateDuration(dist, models.VehicleCar)
	}

	if err := s.Repo.Create(o); err != nil {
		return nil, fmt.Errorf("failed to persist offer: %w", err)
	}
	s.Logger.Info("offer created",
		zap.String("offerId", o.ID),
		zap.String("businessId", o.BusinessID),
		zap.Float64("amount", o.Payment.Amount))
	return o, nil
}

func (s *DefaultOfferService) GetOffer(id string) (*models.Offer, error) {
	return s.Repo.GetByID(id)
}

func (s *DefaultOfferService) GetBusinessOffers(businessID string) ([]models.Offer, error) {
	return s.Repo.GetByBusiness(businessID)
}

func (s *DefaultOfferService) GetRiderOffers(riderID string) ([]models.Offer, error) {
	return s.Repo.GetByRider(riderID)
}
