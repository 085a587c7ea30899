package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arborcare/booking-core/internal/domain"
	"github.com/arborcare/booking-core/internal/model"
	"github.com/arborcare/booking-core/internal/repository"
)

// DefaultServiceCost is the fallback unit price for completed bookings that
// were never invoiced.
var DefaultServiceCost = decimal.NewFromFloat(200.00)

// FinanceService recomputes a customer's aggregates from source records.
// Totals are derived, never incrementally maintained, so a recompute after
// any triggering event cannot drift from the underlying rows.
type FinanceService struct {
	customers repository.CustomerRepository
	bookings  repository.BookingRepository
	invoices  repository.InvoiceRepository
	logger    *zap.Logger

	// Fallback unit price; DefaultServiceCost unless overridden in config.
	serviceCost decimal.Decimal
}

func NewFinanceService(
	customers repository.CustomerRepository,
	bookings repository.BookingRepository,
	invoices repository.InvoiceRepository,
	logger *zap.Logger,
	serviceCost decimal.Decimal,
) *FinanceService {
	if serviceCost.IsZero() {
		serviceCost = DefaultServiceCost
	}
	return &FinanceService{
		customers:   customers,
		bookings:    bookings,
		invoices:    invoices,
		logger:      logger,
		serviceCost: serviceCost,
	}
}

// Recalculate rescans the customer's bookings and invoices and persists
// total_bookings and total_spent. The computation is idempotent: with no
// intervening writes, repeated calls yield identical results.
//
// total_spent = sum of all invoice totals (every payment status counts)
// plus serviceCost for each completed booking that has no invoice.
func (s *FinanceService) Recalculate(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, domain.New(domain.CodeNotFound, "customer not found")
		}
		return decimal.Zero, domain.Dependency("customer lookup", err)
	}

	totalBookings, err := s.bookings.CountByCustomer(ctx, customerID)
	if err != nil {
		return decimal.Zero, domain.Dependency("booking count", err)
	}

	invoices, err := s.invoices.ListByCustomer(ctx, customerID)
	if err != nil {
		return decimal.Zero, domain.Dependency("invoice scan", err)
	}
	invoiceTotal := decimal.Zero
	for _, inv := range invoices {
		invoiceTotal = invoiceTotal.Add(inv.TotalAmount)
	}

	uninvoiced, err := s.bookings.ListCompletedWithoutInvoice(ctx, customerID)
	if err != nil {
		return decimal.Zero, domain.Dependency("uninvoiced scan", err)
	}
	estimated := s.serviceCost.Mul(decimal.NewFromInt(int64(len(uninvoiced))))

	totalSpent := invoiceTotal.Add(estimated)

	if err := s.customers.UpdateTotals(ctx, customerID, totalBookings, totalSpent); err != nil {
		return decimal.Zero, domain.Dependency("totals update", err)
	}

	return totalSpent, nil
}

// RecalculateQuietly is the single hook point for recomputes triggered as a
// side effect of status changes. Failures are logged and swallowed; they
// must never fail the triggering request.
func (s *FinanceService) RecalculateQuietly(ctx context.Context, customerID uuid.UUID) {
	if _, err := s.Recalculate(ctx, customerID); err != nil {
		s.logger.Warn("financial recompute failed",
			zap.String("customer_id", customerID.String()),
			zap.Error(err),
		)
	}
}

// SetInvoicePaymentStatus updates an invoice's payment status. A transition
// to paid triggers the owning customer's recompute.
func (s *FinanceService) SetInvoicePaymentStatus(ctx context.Context, invoiceID uuid.UUID, status string) error {
	parsed, ok := model.ParsePaymentStatus(status)
	if !ok {
		return domain.Newf(domain.CodeInvalidStatus, "unknown payment status %q", status)
	}

	inv, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.New(domain.CodeNotFound, "invoice not found")
		}
		return domain.Dependency("invoice lookup", err)
	}

	if err := s.invoices.UpdatePaymentStatus(ctx, invoiceID, parsed); err != nil {
		return domain.Dependency("payment status update", err)
	}

	if parsed == model.PaymentStatusPaid {
		s.RecalculateQuietly(ctx, inv.CustomerID)
	}
	return nil
}
