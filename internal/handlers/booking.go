package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arborcare/booking-core/internal/domain"
	"github.com/arborcare/booking-core/internal/service"
)

// BookingHandler serves the public booking surface.
type BookingHandler struct {
	bookings     *service.BookingService
	availability *service.AvailabilityService
	logger       *zap.Logger
}

func NewBookingHandler(
	bookings *service.BookingService,
	availability *service.AvailabilityService,
	logger *zap.Logger,
) *BookingHandler {
	return &BookingHandler{
		bookings:     bookings,
		availability: availability,
		logger:       logger,
	}
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req service.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, domain.New(domain.CodeValidation, "request body must be valid JSON"))
		return
	}

	result, err := h.bookings.CreateBooking(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"booking_id":  result.BookingID,
		"customer_id": result.CustomerID,
	})
}

// GetAvailability handles GET /api/availability?start=&end=.
func (h *BookingHandler) GetAvailability(c *gin.Context) {
	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		writeError(c, h.logger, domain.New(domain.CodeValidation, "start and end are required"))
		return
	}

	days, err := h.availability.RangeAvailability(c.Request.Context(), start, end)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"days":    days,
	})
}
