package offer

import "lastmile/models"

// CreateOfferInput is the validated payload for posting a delivery offer.
type CreateOfferInput struct {
	BusinessID  string
	Title       string
	Description string
	Package     models.PackageInfo
	Pickup      models.LocationInfo
	Delivery    models.LocationInfo
	Payment     models.PaymentInfo
}

// OfferService owns the offer lifecycle.
type OfferService interface {
	// CreateOffer validates the input and persists a new offer in the open
	// state, history seeded with the creation entry.
	CreateOffer(input CreateOfferInput) (*models.Offer, error)
	// GetOffer retrieves an offer by id.
	GetOffer(id string) (*models.Offer, error)
	// GetBusinessOffers lists a business's posted offers.
	GetBusinessOffers(businessID string) ([]models.Offer, error)
	// GetRiderOffers lists offers assigned to a rider.
	GetRiderOffers(riderID string) ([]models.Offer, error)
	// RequestTransition validates and applies a status change on behalf of
	// an actor. Rejections carry the currently allowed next states.
	RequestTransition(offerID string, target models.OfferStatus, actorID string, opts TransitionOptions) (*models.TransitionResult, error)
}
