package handlers

import (
	"net/http"

	"lastmile/models"
	"lastmile/services/offer"
	"lastmile/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OfferHandler exposes the offer lifecycle over HTTP.
type OfferHandler struct {
	Service offer.OfferService
}

// CreateOfferHandler handles POST /offers. Business accounts only; the
// authenticated account becomes the offer's owner.
func (h *OfferHandler) CreateOfferHandler(c *gin.Context) {
	businessID, ok := actorID(c)
	if !ok {
		return
	}

	var input struct {
		Title       string              `json:"title"`
		Description string              `json:"description"`
		Package     models.PackageInfo  `json:"package"`
		Pickup      models.LocationInfo `json:"pickup"`
		Delivery    models.LocationInfo `json:"delivery"`
		Payment     models.PaymentInfo  `json:"payment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	created, err := h.Service.CreateOffer(offer.CreateOfferInput{
		BusinessID:  businessID,
		Title:       input.Title,
		Description: input.Description,
		Package:     input.Package,
		Pickup:      input.Pickup,
		Delivery:    input.Delivery,
		Payment:     input.Payment,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetOfferHandler handles GET /offers/:id.
func (h *OfferHandler) GetOfferHandler(c *gin.Context) {
	id := c.Param("id")
	off, err := h.Service.GetOffer(id)
	if err != nil {
		utils.GetLogger().Warn("Offer not found", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "offer not found"})
		return
	}
	c.JSON(http.StatusOK, off)
}

// ListBusinessOffersHandler handles GET /business/offers for the
// authenticated business.
func (h *OfferHandler) ListBusinessOffersHandler(c *gin.Context) {
	businessID, ok := actorID(c)
	if !ok {
		return
	}
	offers, err := h.Service.GetBusinessOffers(businessID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": offers})
}

// ListRiderOffersHandler handles GET /rider/offers for the authenticated
// rider's assigned deliveries.
func (h *OfferHandler) ListRiderOffersHandler(c *gin.Context) {
	riderID, ok := actorID(c)
	if !ok {
		return
	}
	offers, err := h.Service.GetRiderOffers(riderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": offers})
}

// TransitionHandler handles POST /offers/:id/transition. The target status
// drives which role checks apply; rejections carry the allowed next states.
func (h *OfferHandler) TransitionHandler(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}

	var input struct {
		Target   models.OfferStatus `json:"target"`
		Notes    string             `json:"notes"`
		Location *models.GeoPoint   `json:"location"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := h.Service.RequestTransition(c.Param("id"), input.Target, actor, offer.TransitionOptions{
		Notes:    input.Notes,
		Location: input.Location,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
