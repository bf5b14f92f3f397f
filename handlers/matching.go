package handlers

import (
	"net/http"
	"strconv"

	"lastmile/models"
	"lastmile/services/account"
	"lastmile/services/matching"
	"lastmile/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MatchingHandler surfaces nearby open offers to riders.
type MatchingHandler struct {
	Service  matching.MatchingService
	Accounts account.AccountService
}

// NearbyOffersHandler handles GET /rider/offers/nearby. The rider's vehicle
// profile is loaded from their account so capacity and speed filters apply
// without the client having to restate them.
func (h *MatchingHandler) NearbyOffersHandler(c *gin.Context) {
	riderID, ok := actorID(c)
	if !ok {
		return
	}

	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	if errLng != nil || errLat != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lng and lat query parameters are required"})
		return
	}

	query := matching.NearbyQuery{
		RiderLocation: models.NewGeoPoint(lng, lat),
		SortBy:        c.Query("sortBy"),
	}
	if raw := c.Query("maxDistance"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			query.MaxDistance = v
		}
	}
	if raw := c.Query("minPayment"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			query.MinPayment = v
		}
	}
	if raw := c.Query("maxPayment"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			query.MaxPayment = v
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			query.Limit = v
		}
	}
	query.ExcludeFragile = c.Query("excludeFragile") == "true"

	if rider, err := h.Accounts.GetRider(riderID); err == nil {
		query.Vehicle = rider.VehicleType
	} else {
		utils.GetLogger().Warn("Rider profile unavailable for matching",
			zap.String("riderId", riderID), zap.Error(err))
	}

	offers, err := h.Service.FindNearbyOffers(query)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"offers": offers, "count": len(offers)})
}
