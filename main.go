package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lastmile/config"
	"lastmile/cron"
	"lastmile/database"
	accountRepo "lastmile/database/repository/account"
	earningsRepo "lastmile/database/repository/earnings"
	offerRepo "lastmile/database/repository/offer"
	paymentRepo "lastmile/database/repository/payment"
	trackingRepo "lastmile/database/repository/tracking"
	"lastmile/handlers"
	"lastmile/routes"
	"lastmile/services/account"
	"lastmile/services/earnings"
	"lastmile/services/matching"
	"lastmile/services/notification"
	"lastmile/services/offer"
	"lastmile/services/payment"
	"lastmile/services/tracking"
	"lastmile/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	offers := offerRepo.NewMongoOfferRepo()
	payments := paymentRepo.NewMongoPaymentRepo()
	ledger := earningsRepo.NewMongoEarningsRepo()
	trackingLogs := trackingRepo.NewMongoTrackingRepo()
	businesses := accountRepo.NewMongoBusinessRepo()
	riders := accountRepo.NewMongoRiderRepo()

	// services.
	notifier := &notification.LogNotificationService{Logger: logger}

	accountService := &account.DefaultAccountService{
		Businesses: businesses,
		Riders:     riders,
		Logger:     logger,
	}

	matchingService := &matching.DefaultMatchingService{
		OfferRepo: offers,
		Capacity:  matching.DefaultCapacityTable(),
		Radius: matching.RadiusBounds{
			Default: config.AppConfig.DefaultSearchRadius,
			Min:     config.AppConfig.MinSearchRadius,
			Max:     config.AppConfig.MaxSearchRadius,
		},
		Logger: logger,
	}

	earningsService := &earnings.DefaultEarningsService{
		Repo:   ledger,
		Riders: riders,
		Logger: logger,
	}

	paymentService := &payment.DefaultPaymentService{
		Repo:      payments,
		OfferRepo: offers,
		Earnings:  earningsService,
		Gateway:   payment.NewStripeGateway(15 * time.Second),
		Fees: payment.FeePolicy{
			Percent: config.AppConfig.PlatformFeePercent,
			Minimum: config.AppConfig.PlatformFeeMinimum,
		},
		Cooldown: time.Duration(config.AppConfig.RetryCooldownMinutes) * time.Minute,
		Notifier: notifier,
		Logger:   logger,
	}

	trackingService := &tracking.DefaultTrackingService{
		Repo:   trackingLogs,
		Logger: logger,
	}

	offerService := &offer.DefaultOfferService{
		Repo:     offers,
		Payments: paymentService,
		Tracking: trackingService,
		Notifier: notifier,
		Logger:   logger,
	}

	// handlers.
	handlerBundle := &handlers.HandlerBundle{
		Offers:   &handlers.OfferHandler{Service: offerService},
		Matching: &handlers.MatchingHandler{Service: matchingService, Accounts: accountService},
		Payments: &handlers.PaymentHandler{Service: paymentService},
		Earnings: &handlers.EarningsHandler{Service: earningsService, Cache: utils.GetCacheClient()},
		Tracking: &handlers.TrackingHandler{Service: trackingService},
		Accounts: &handlers.AccountHandler{Service: accountService},
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Background settlement retries.
	cron.InitRetryWorker(paymentService, payments)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()},
		database.MongoClient,
	)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("Starting server on %s...", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}
