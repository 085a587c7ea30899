package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arborcare/booking-core/internal/domain"
	"github.com/arborcare/booking-core/internal/service"
)

// AdminHandler serves the staff workflow: booking lifecycle, the blocked-
// dates calendar, customer management and financial recomputes.
type AdminHandler struct {
	bookings     *service.BookingService
	availability *service.AvailabilityService
	customers    *service.CustomerService
	finance      *service.FinanceService
	billing      *service.BillingService
	logger       *zap.Logger
}

func NewAdminHandler(
	bookings *service.BookingService,
	availability *service.AvailabilityService,
	customers *service.CustomerService,
	finance *service.FinanceService,
	billing *service.BillingService,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		bookings:     bookings,
		availability: availability,
		customers:    customers,
		finance:      finance,
		billing:      billing,
		logger:       logger,
	}
}

// ListBookings handles GET /api/admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.bookings.List(c.Request.Context(), c.Query("status"), page, pageSize)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"bookings":  result.Items,
		"page":      result.Page,
		"page_size": result.PageSize,
		"total":     result.Total,
		"has_next":  result.HasNext,
		"has_prev":  result.HasPrev,
	})
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetBookingStatus handles PATCH /api/admin/bookings/:id/status.
func (h *AdminHandler) SetBookingStatus(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, domain.New(domain.CodeValidation, "status is required"))
		return
	}

	if err := h.bookings.SetStatus(c.Request.Context(), id, req.Status); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ConfirmBooking handles POST /api/admin/bookings/:id/confirm.
func (h *AdminHandler) ConfirmBooking(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}
	if err := h.bookings.Confirm(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type moveBookingRequest struct {
	NewDate string `json:"new_date" binding:"required"`
}

// MoveBooking handles POST /api/admin/bookings/:id/move.
func (h *AdminHandler) MoveBooking(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	var req moveBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, domain.New(domain.CodeValidation, "new_date is required"))
		return
	}

	if err := h.bookings.Move(c.Request.Context(), id, req.NewDate); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteBooking handles DELETE /api/admin/bookings/:id.
func (h *AdminHandler) DeleteBooking(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}
	if err := h.bookings.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type blockDateRequest struct {
	Date           string `json:"date" binding:"required"`
	Reason         string `json:"reason"`
	UnblockWeekend bool   `json:"unblock_weekend"`
}

// BlockDate handles POST /api/admin/blocked-dates.
func (h *AdminHandler) BlockDate(c *gin.Context) {
	var req blockDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, domain.New(domain.CodeValidation, "date is required"))
		return
	}

	if err := h.availability.BlockDate(c.Request.Context(), req.Date, req.Reason, req.UnblockWeekend); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UnblockDate handles DELETE /api/admin/blocked-dates/:date.
func (h *AdminHandler) UnblockDate(c *gin.Context) {
	if err := h.availability.UnblockDate(c.Request.Context(), c.Param("date")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListBlockedDates handles GET /api/admin/blocked-dates?start=&end=.
func (h *AdminHandler) ListBlockedDates(c *gin.Context) {
	rows, err := h.availability.ListBlocked(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"blocked_dates": rows,
	})
}

type upsertCustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address"`
}

// UpsertCustomer handles PUT /api/admin/customers (create-or-update by phone).
func (h *AdminHandler) UpsertCustomer(c *gin.Context) {
	var req upsertCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, domain.New(domain.CodeValidation, "phone is required and email must be valid"))
		return
	}

	customer, err := h.customers.UpsertByPhone(c.Request.Context(), req.Name, req.Email, req.Phone, req.Address)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"customer": customer,
	})
}

type updateCustomerRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// UpdateCustomer handles PATCH /api/admin/customers/:id.
func (h *AdminHandler) UpdateCustomer(c *gin.Context) {
	id, ok := h.customerID(c)
	if !ok {
		return
	}

	var req updateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, domain.New(domain.CodeValidation, "invalid customer fields"))
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}

	customer, err := h.customers.UpdateByID(c.Request.Context(), id, updates)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"customer": customer,
	})
}

// DeleteCustomer handles DELETE /api/admin/customers/:id?force=.
func (h *AdminHandler) DeleteCustomer(c *gin.Context) {
	id, ok := h.customerID(c)
	if !ok {
		return
	}
	force, _ := strconv.ParseBool(c.DefaultQuery("force", "false"))

	if err := h.customers.Delete(c.Request.Context(), id, force); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RecalculateCustomer handles POST /api/admin/customers/:id/recalculate.
func (h *AdminHandler) RecalculateCustomer(c *gin.Context) {
	id, ok := h.customerID(c)
	if !ok {
		return
	}

	total, err := h.finance.Recalculate(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"total_spent": total,
	})
}

// CreateQuote handles POST /api/admin/quotes.
func (h *AdminHandler) CreateQuote(c *gin.Context) {
	var req service.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, domain.New(domain.CodeValidation, "customer_id and items are required"))
		return
	}

	quote, err := h.billing.CreateQuote(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"quote":   quote,
	})
}

type quoteStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetQuoteStatus handles PATCH /api/admin/quotes/:id/status.
func (h *AdminHandler) SetQuoteStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, h.logger, domain.New(domain.CodeValidation, "quote id must be a UUID"))
		return
	}

	var req quoteStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, domain.New(domain.CodeValidation, "status is required"))
		return
	}

	if err := h.billing.SetQuoteStatus(c.Request.Context(), id, req.Status); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ConvertQuote handles POST /api/admin/quotes/:id/convert.
func (h *AdminHandler) ConvertQuote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, h.logger, domain.New(domain.CodeValidation, "quote id must be a UUID"))
		return
	}

	invoice, err := h.billing.ConvertQuote(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"invoice": invoice,
	})
}

// CreateInvoice handles POST /api/admin/invoices.
func (h *AdminHandler) CreateInvoice(c *gin.Context) {
	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, domain.New(domain.CodeValidation, "customer_id and items are required"))
		return
	}

	invoice, err := h.billing.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"invoice": invoice,
	})
}

// CustomerBilling handles GET /api/admin/customers/:id/billing.
func (h *AdminHandler) CustomerBilling(c *gin.Context) {
	id, ok := h.customerID(c)
	if !ok {
		return
	}

	billing, err := h.billing.CustomerBilling(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"quotes":   billing.Quotes,
		"invoices": billing.Invoices,
	})
}

type invoicePaymentRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// SetInvoicePaymentStatus handles PATCH /api/admin/invoices/:id/payment-status.
func (h *AdminHandler) SetInvoicePaymentStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, h.logger, domain.New(domain.CodeValidation, "invoice id must be a UUID"))
		return
	}

	var req invoicePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, domain.New(domain.CodeValidation, "payment_status is required"))
		return
	}

	if err := h.finance.SetInvoicePaymentStatus(c.Request.Context(), id, req.PaymentStatus); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AdminHandler) bookingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, h.logger, domain.New(domain.CodeValidation, "booking id must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *AdminHandler) customerID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, h.logger, domain.New(domain.CodeValidation, "customer id must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}
