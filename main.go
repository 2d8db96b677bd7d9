// File: glowbook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"glowbook/config"
	"glowbook/cron"
	"glowbook/database"
	bookingRepoPkg "glowbook/database/repository/booking"
	catalogRepoPkg "glowbook/database/repository/catalog"
	reviewRepoPkg "glowbook/database/repository/review"
	"glowbook/handlers"
	"glowbook/middleware"
	"glowbook/routes"
	"glowbook/services/booking"
	"glowbook/services/catalog"
	"glowbook/services/notification"
	"glowbook/services/payment"
	"glowbook/services/review"
	"glowbook/services/tasks"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	catalogRepo := catalogRepoPkg.NewMongoCatalogRepo()
	reviewRepo := reviewRepoPkg.NewMongoReviewRepo()

	if err := bookingRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
	}
	if err := catalogRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure catalog indexes: %v", err)
	}
	if err := reviewRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure review indexes: %v", err)
	}

	// Real-time notification hub.
	hub := notification.NewHub(logger)
	go hub.Run()

	// Reminder scheduling over the shared Redis queue.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer asynqClient.Close()
	reminderScheduler := &tasks.AsynqReminderScheduler{Client: asynqClient}
	reminderWorker := cron.InitReminderWorker(hub, logger)

	// services.
	gateway := payment.NewStripeGateway(config.AppConfig.StripeWebhookSecret, logger)

	lifecycleEngine := &booking.DefaultLifecycleEngine{
		Repo:       bookingRepo,
		Catalog:    catalogRepo,
		Gateway:    gateway,
		Dispatcher: hub,
		Reminders:  reminderScheduler,
		Currency:   config.AppConfig.Currency,
		Logger:     logger,
	}

	catalogService := &catalog.DefaultCatalogService{
		Repo: catalogRepo,
	}

	reviewService := &review.DefaultReviewService{
		Repo:     reviewRepo,
		Bookings: bookingRepo,
		Cache:    utils.GetCacheClient(),
		Logger:   logger,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, routes.Handlers{
		Booking: handlers.NewBookingHandler(lifecycleEngine),
		Catalog: handlers.NewCatalogHandler(catalogService),
		Review:  handlers.NewReviewHandler(reviewService),
		Webhook: handlers.NewWebhookHandler(gateway, lifecycleEngine, logger),
		WS:      handlers.NewWSHandler(hub, logger),
	})

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	reminderWorker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
