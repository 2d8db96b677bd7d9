package routes

import (
	"net/http"

	"glowbook/handlers"
	"glowbook/middleware"
	"glowbook/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Booking *handlers.BookingHandler
	Catalog *handlers.CatalogHandler
	Review  *handlers.ReviewHandler
	Webhook *handlers.WebhookHandler
	WS      *handlers.WSHandler
}

// RegisterRoutes wires all HTTP endpoints onto the router.
func RegisterRoutes(router *gin.Engine, h Handlers) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"},
		AllowCredentials: true,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Webhook stays outside auth; the payload signature is the credential.
	api.POST("/webhooks/payment", h.Webhook.HandlePaymentWebhook)

	bookings := api.Group("/bookings", middleware.AuthMiddleware())
	{
		bookings.POST("", middleware.RequireRole(models.RoleClient), h.Booking.CreateBooking)
		bookings.GET("/mine", h.Booking.GetMyBookings)
		bookings.PUT("/:id/status", middleware.RequireRole(models.RoleProvider), h.Booking.UpdateBookingStatus)
		bookings.PUT("/:id/cancel", h.Booking.CancelBooking)
	}

	services := api.Group("/services")
	{
		services.GET("/provider/:providerId", h.Catalog.ListProviderServices)
		services.POST("", middleware.AuthMiddleware(), middleware.RequireRole(models.RoleProvider), h.Catalog.CreateService)
		services.GET("/mine", middleware.AuthMiddleware(), middleware.RequireRole(models.RoleProvider), h.Catalog.ListMyServices)
		services.PUT("/:id", middleware.AuthMiddleware(), middleware.RequireRole(models.RoleProvider), h.Catalog.UpdateService)
		services.PUT("/:id/active", middleware.AuthMiddleware(), middleware.RequireRole(models.RoleProvider), h.Catalog.SetServiceActive)
	}

	reviews := api.Group("/reviews")
	{
		reviews.GET("/provider/:providerId", h.Review.ListProviderReviews)
		reviews.POST("", middleware.AuthMiddleware(), middleware.RequireRole(models.RoleClient), h.Review.CreateReview)
	}

	api.GET("/ws", middleware.AuthMiddleware(), h.WS.Connect)
}
