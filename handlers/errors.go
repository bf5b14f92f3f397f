package handlers

import (
	"net/http"

	"lastmile/services/account"
	"lastmile/services/earnings"
	"lastmile/services/matching"
	"lastmile/services/offer"
	"lastmile/services/payment"
	"lastmile/services/tracking"
	"lastmile/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError translates typed service errors into HTTP responses.
// Workflow rejections include the currently allowed next states so clients
// can recover without another round trip.
func respondServiceError(c *gin.Context, err error) {
	if we, ok := offer.AsWorkflowError(err); ok {
		status := http.StatusConflict
		switch we.Code {
		case offer.CodeInvalidInput:
			status = http.StatusBadRequest
		case offer.CodeNotAssignedRider, offer.CodeInsufficientPermission:
			status = http.StatusForbidden
		}
		body := gin.H{"error": we.Message, "code": we.Code}
		if len(we.AllowedNext) > 0 {
			body["allowedNext"] = we.AllowedNext
		}
		c.JSON(status, body)
		return
	}

	if me, ok := matching.AsMatchError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": me.Message, "code": me.Code})
		return
	}

	if pe, ok := payment.AsPaymentError(err); ok {
		status := http.StatusConflict
		switch pe.Code {
		case payment.CodeInvalidAmount, payment.CodeInvalidRefundAmount:
			status = http.StatusBadRequest
		case payment.CodeRetryCooldown:
			status = http.StatusTooManyRequests
		case payment.CodeGatewayTimeout:
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": pe.Message, "code": pe.Code})
		return
	}

	if le, ok := earnings.AsLedgerError(err); ok {
		status := http.StatusConflict
		switch le.Code {
		case earnings.CodeInvalidAmount, earnings.CodeMissingReason:
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": le.Message, "code": le.Code})
		return
	}

	if te, ok := tracking.AsTrackingError(err); ok {
		status := http.StatusBadRequest
		if te.Code == tracking.CodeNotAssignedRider {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": te.Message, "code": te.Code})
		return
	}

	if ae, ok := account.AsAccountError(err); ok {
		status := http.StatusBadRequest
		switch ae.Code {
		case account.CodeEmailTaken:
			status = http.StatusConflict
		case account.CodeInvalidCredentials:
			status = http.StatusUnauthorized
		}
		c.JSON(status, gin.H{"error": ae.Message, "code": ae.Code})
		return
	}

	utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
}

// actorID pulls the authenticated account id set by the auth middleware.
func actorID(c *gin.Context) (string, bool) {
	raw, ok := c.Get("accountID")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authenticated account"})
		return "", false
	}
	id, ok := raw.(string)
	if !ok || id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authenticated account"})
		return "", false
	}
	return id, true
}
