package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arborcare/booking-core/internal/config"
	"github.com/arborcare/booking-core/internal/middleware"
	"github.com/arborcare/booking-core/internal/service"
)

// SetupRoutes wires the public and admin surfaces onto the router.
func SetupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	bookings *service.BookingService,
	availability *service.AvailabilityService,
	customers *service.CustomerService,
	finance *service.FinanceService,
	billing *service.BillingService,
	logger *zap.Logger,
) {
	bookingHandler := NewBookingHandler(bookings, availability, logger)
	adminHandler := NewAdminHandler(bookings, availability, customers, finance, billing, logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"success": true,
			"message": "ok",
		})
	})

	api := router.Group("/api")
	{
		// Public surface: the booking form and its calendar.
		api.POST("/bookings", bookingHandler.CreateBooking)
		api.GET("/availability", bookingHandler.GetAvailability)

		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuth(cfg.JWTSecret, cfg.AdminEmails))
		{
			admin.GET("/bookings", adminHandler.ListBookings)
			admin.PATCH("/bookings/:id/status", adminHandler.SetBookingStatus)
			admin.POST("/bookings/:id/confirm", adminHandler.ConfirmBooking)
			admin.POST("/bookings/:id/move", adminHandler.MoveBooking)
			admin.DELETE("/bookings/:id", adminHandler.DeleteBooking)

			admin.POST("/blocked-dates", adminHandler.BlockDate)
			admin.GET("/blocked-dates", adminHandler.ListBlockedDates)
			admin.DELETE("/blocked-dates/:date", adminHandler.UnblockDate)

			admin.PUT("/customers", adminHandler.UpsertCustomer)
			admin.PATCH("/customers/:id", adminHandler.UpdateCustomer)
			admin.DELETE("/customers/:id", adminHandler.DeleteCustomer)
			admin.POST("/customers/:id/recalculate", adminHandler.RecalculateCustomer)
			admin.GET("/customers/:id/billing", adminHandler.CustomerBilling)

			admin.POST("/quotes", adminHandler.CreateQuote)
			admin.PATCH("/quotes/:id/status", adminHandler.SetQuoteStatus)
			admin.POST("/quotes/:id/convert", adminHandler.ConvertQuote)

			admin.POST("/invoices", adminHandler.CreateInvoice)
			admin.PATCH("/invoices/:id/payment-status", adminHandler.SetInvoicePaymentStatus)
		}
	}
}
