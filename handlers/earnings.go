package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"lastmile/models"
	"lastmile/services/earnings"
	"lastmile/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// EarningsHandler exposes the rider earnings ledger.
type EarningsHandler struct {
	Service earnings.EarningsService
	Cache   *redis.Client
}

// GetEarningsHandler handles GET /offers/:id/earnings.
func (h *EarningsHandler) GetEarningsHandler(c *gin.Context) {
	e, err := h.Service.GetByOfferID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "earnings record not found"})
		return
	}
	c.JSON(http.StatusOK, e)
}

// DashboardHandler handles GET /rider/earnings/dashboard. Results are cached
// briefly per rider and period; the ledger itself stays authoritative.
func (h *EarningsHandler) DashboardHandler(c *gin.Context) {
	riderID, ok := actorID(c)
	if !ok {
		return
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be RFC3339"})
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be RFC3339"})
			return
		}
		to = parsed
	}

	ctx := context.Background()
	// Key on unix seconds so two sub-day ranges over the same dates never
	// share a cache entry.
	cacheKey := utils.DashboardCachePrefix + riderID + ":" +
		strconv.FormatInt(from.Unix(), 10) + ":" + strconv.FormatInt(to.Unix(), 10)

	if h.Cache != nil {
		if cached, err := h.Cache.Get(ctx, cacheKey).Result(); err == nil {
			var dash earnings.Dashboard
			if json.Unmarshal([]byte(cached), &dash) == nil {
				c.JSON(http.StatusOK, dash)
				return
			}
		}
	}

	dash, err := h.Service.GetDashboard(riderID, from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if h.Cache != nil {
		if data, err := json.Marshal(dash); err == nil {
			if err := h.Cache.Set(ctx, cacheKey, data, utils.DashboardCacheTTL).Err(); err != nil {
				utils.GetLogger().Warn("Failed to cache earnings dashboard",
					zap.String("riderId", riderID), zap.Error(err))
			}
		}
	}

	c.JSON(http.StatusOK, dash)
}

// AddBonusHandler handles POST /earnings/:id/bonus.
func (h *EarningsHandler) AddBonusHandler(c *gin.Context) {
	var input struct {
		Amount float64 `json:"amount"`
		Reason string  `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	e, err := h.Service.AddBonus(c.Param("id"), input.Amount, input.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// AddAdjustmentHandler handles POST /earnings/:id/adjustments. Negative
// amounts are legitimate corrections; the reason is mandatory.
func (h *EarningsHandler) AddAdjustmentHandler(c *gin.Context) {
	var input struct {
		Amount float64 `json:"amount"`
		Reason string  `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	e, err := h.Service.AddAdjustment(c.Param("id"), models.Adjustment{
		Amount:    input.Amount,
		Reason:    input.Reason,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}
