package handlers

import (
	"net/http"

	"lastmile/models"
	"lastmile/services/tracking"

	"github.com/gin-gonic/gin"
)

// TrackingHandler exposes the per-offer delivery event log.
type TrackingHandler struct {
	Service tracking.TrackingService
}

// GetTrackingHandler handles GET /offers/:id/tracking.
func (h *TrackingHandler) GetTrackingHandler(c *gin.Context) {
	doc, err := h.Service.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "tracking record not found"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// AppendEventHandler handles POST /offers/:id/tracking/events. Only the
// assigned rider may append.
func (h *TrackingHandler) AppendEventHandler(c *gin.Context) {
	riderID, ok := actorID(c)
	if !ok {
		return
	}

	var input struct {
		Kind     models.TrackingEventKind `json:"kind"`
		Location *models.GeoPoint         `json:"location"`
		Notes    string                   `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	doc, err := h.Service.AppendEvent(c.Param("id"), riderID, input.Kind, input.Location, input.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// ReportIssueHandler handles POST /offers/:id/tracking/issues.
func (h *TrackingHandler) ReportIssueHandler(c *gin.Context) {
	riderID, ok := actorID(c)
	if !ok {
		return
	}

	var input struct {
		Kind        string           `json:"kind"`
		Description string           `json:"description"`
		Location    *models.GeoPoint `json:"location"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.Service.ReportIssue(c.Param("id"), riderID, input.Kind, input.Description, input.Location); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "issue recorded"})
}

// RecordAttemptHandler handles POST /offers/:id/tracking/attempts.
func (h *TrackingHandler) RecordAttemptHandler(c *gin.Context) {
	riderID, ok := actorID(c)
	if !ok {
		return
	}

	var input struct {
		Stage      string `json:"stage"`
		Successful bool   `json:"successful"`
		Notes      string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.Service.RecordAttempt(c.Param("id"), riderID, input.Stage, input.Successful, input.Notes); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "attempt recorded"})
}
