package handlers

import (
	"net/http"

	"lastmile/services/account"

	"github.com/gin-gonic/gin"
)

// AccountHandler exposes registration and sign-in for both actor roles.
type AccountHandler struct {
	Service account.AccountService
}

// RegisterBusinessHandler handles POST /auth/business/register.
func (h *AccountHandler) RegisterBusinessHandler(c *gin.Context) {
	var reg account.BusinessRegistration
	if err := c.ShouldBindJSON(&reg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	biz, err := h.Service.RegisterBusiness(reg)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, biz)
}

// RegisterRiderHandler handles POST /auth/rider/register.
func (h *AccountHandler) RegisterRiderHandler(c *gin.Context) {
	var reg account.RiderRegistration
	if err := c.ShouldBindJSON(&reg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	rider, err := h.Service.RegisterRider(reg)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rider)
}

// SignInBusinessHandler handles POST /auth/business/signin.
func (h *AccountHandler) SignInBusinessHandler(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	biz, err := h.Service.SignInBusiness(input.Email, input.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, biz)
}

// SignInRiderHandler handles POST /auth/rider/signin.
func (h *AccountHandler) SignInRiderHandler(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	rider, err := h.Service.SignInRider(input.Email, input.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rider)
}

// GetRiderProfileHandler handles GET /rider/profile.
func (h *AccountHandler) GetRiderProfileHandler(c *gin.Context) {
	riderID, ok := actorID(c)
	if !ok {
		return
	}
	rider, err := h.Service.GetRider(riderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "rider not found"})
		return
	}
	c.JSON(http.StatusOK, rider)
}

// GetBusinessProfileHandler handles GET /business/profile.
func (h *AccountHandler) GetBusinessProfileHandler(c *gin.Context) {
	businessID, ok := actorID(c)
	if !ok {
		return
	}
	biz, err := h.Service.GetBusiness(businessID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "business not found"})
		return
	}
	c.JSON(http.StatusOK, biz)
}
