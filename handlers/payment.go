package handlers

import (
	"net/http"

	"lastmile/services/payment"

	"github.com/gin-gonic/gin"
)

// PaymentHandler exposes payment settlement operations.
type PaymentHandler struct {
	Service payment.PaymentService
}

// GetPaymentHandler handles GET /offers/:id/payment.
func (h *PaymentHandler) GetPaymentHandler(c *gin.Context) {
	p, err := h.Service.GetByOfferID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// ProcessPaymentHandler handles POST /payments/:id/process, charging the
// payment through the gateway.
func (h *PaymentHandler) ProcessPaymentHandler(c *gin.Context) {
	p, err := h.Service.Process(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// RetryPaymentHandler handles POST /payments/:id/retry for failed payments.
func (h *PaymentHandler) RetryPaymentHandler(c *gin.Context) {
	p, err := h.Service.Retry(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// RefundPaymentHandler handles POST /payments/:id/refund. A zero or omitted
// amount refunds the full total.
func (h *PaymentHandler) RefundPaymentHandler(c *gin.Context) {
	var input struct {
		Amount float64 `json:"amount"`
		Reason string  `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	p, err := h.Service.Refund(c.Param("id"), input.Amount, input.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GatewayResultHandler handles POST /payments/:id/gateway-result, the
// callback surface for asynchronous gateway outcomes.
func (h *PaymentHandler) GatewayResultHandler(c *gin.Context) {
	var input struct {
		Succeeded       bool   `json:"succeeded"`
		TransactionID   string `json:"transactionId"`
		GatewayResponse string `json:"gatewayResponse"`
		Reason          string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	var (
		p   interface{}
		err error
	)
	if input.Succeeded {
		p, err = h.Service.MarkCompleted(c.Param("id"), input.TransactionID, input.GatewayResponse)
	} else {
		p, err = h.Service.MarkFailed(c.Param("id"), input.Reason)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
