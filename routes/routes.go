package routes

import (
	"net/http"
	"time"

	"lastmile/handlers"
	"lastmile/middleware"
	"lastmile/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers registration and sign-in endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/business/register", hb.Accounts.RegisterBusinessHandler)
		api.POST("/business/signin", hb.Accounts.SignInBusinessHandler)
		api.POST("/rider/register", hb.Accounts.RegisterRiderHandler)
		api.POST("/rider/signin", hb.Accounts.SignInRiderHandler)
	}
}

// RegisterOfferRoutes registers the offer lifecycle endpoints. Creation is
// business-only; transitions accept either role and the workflow enforces
// who may do what.
func RegisterOfferRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/offers")
	{
		api.POST("", middleware.JWTAuthBusinessMiddleware(hb.Accounts.Service), hb.Offers.CreateOfferHandler)

		api.Use(middleware.JWTAuthAnyMiddleware(hb.Accounts.Service))
		api.GET("/:id", hb.Offers.GetOfferHandler)
		api.POST("/:id/transition", hb.Offers.TransitionHandler)
		api.GET("/:id/payment", hb.Payments.GetPaymentHandler)
		api.GET("/:id/earnings", hb.Earnings.GetEarningsHandler)
		api.GET("/:id/tracking", hb.Tracking.GetTrackingHandler)
	}
}

// RegisterBusinessRoutes registers the business-facing dashboard endpoints.
func RegisterBusinessRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/business")
	{
		api.Use(middleware.JWTAuthBusinessMiddleware(hb.Accounts.Service))
		api.GET("/profile", hb.Accounts.GetBusinessProfileHandler)
		api.GET("/offers", hb.Offers.ListBusinessOffersHandler)
		api.POST("/payments/:id/refund", hb.Payments.RefundPaymentHandler)
	}
}

// RegisterRiderRoutes registers the rider-facing endpoints: matching,
// assigned offers, tracking updates, and the earnings dashboard.
func RegisterRiderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/rider")
	{
		api.Use(middleware.JWTAuthRiderMiddleware(hb.Accounts.Service))
		api.GET("/profile", hb.Accounts.GetRiderProfileHandler)
		api.GET("/offers", hb.Offers.ListRiderOffersHandler)
		api.GET("/offers/nearby", hb.Matching.NearbyOffersHandler)
		api.GET("/earnings/dashboard", hb.Earnings.DashboardHandler)

		api.POST("/offers/:id/tracking/events", hb.Tracking.AppendEventHandler)
		api.POST("/offers/:id/tracking/issues", hb.Tracking.ReportIssueHandler)
		api.POST("/offers/:id/tracking/attempts", hb.Tracking.RecordAttemptHandler)
	}
}

// RegisterPaymentRoutes registers settlement endpoints, including the
// gateway callback surface.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payments")
	{
		api.Use(middleware.JWTAuthAnyMiddleware(hb.Accounts.Service))
		api.POST("/:id/process", hb.Payments.ProcessPaymentHandler)
		api.POST("/:id/retry", hb.Payments.RetryPaymentHandler)
		api.POST("/:id/gateway-result", hb.Payments.GatewayResultHandler)
	}
}

// RegisterEarningsRoutes registers ledger correction endpoints.
func RegisterEarningsRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/earnings")
	{
		api.Use(middleware.JWTAuthBusinessMiddleware(hb.Accounts.Service))
		api.POST("/:id/bonus", hb.Earnings.AddBonusHandler)
		api.POST("/:id/adjustments", hb.Earnings.AddAdjustmentHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint backed by the
// periodic dependency monitor.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "dependencies": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterAuthRoutes(r, hb)
	RegisterOfferRoutes(r, hb)
	RegisterBusinessRoutes(r, hb)
	RegisterRiderRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterEarningsRoutes(r, hb)
}
