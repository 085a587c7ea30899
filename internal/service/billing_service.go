package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arborcare/booking-core/internal/domain"
	"github.com/arborcare/booking-core/internal/model"
	"github.com/arborcare/booking-core/internal/repository"
)

// LineItem is one service line on a quote or invoice.
type LineItem struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

// CreateQuoteRequest carries the admin quote form.
type CreateQuoteRequest struct {
	CustomerID uuid.UUID  `json:"customer_id"`
	BookingID  *uuid.UUID `json:"booking_id,omitempty"`
	Items      []LineItem `json:"items"`
}

// CreateInvoiceRequest carries the admin invoice form, for work that was
// never quoted.
type CreateInvoiceRequest struct {
	CustomerID uuid.UUID  `json:"customer_id"`
	BookingID  *uuid.UUID `json:"booking_id,omitempty"`
	Items      []LineItem `json:"items"`
}

// CustomerBilling groups a customer's quotes and invoices for the admin view.
type CustomerBilling struct {
	Quotes   []model.Quote   `json:"quotes"`
	Invoices []model.Invoice `json:"invoices"`
}

// BillingService owns quotes and invoices: issuing them, walking a quote
// through its statuses and converting an accepted quote into an invoice.
type BillingService struct {
	quotes    repository.QuoteRepository
	invoices  repository.InvoiceRepository
	customers repository.CustomerRepository
	bookings  repository.BookingRepository
	finance   *FinanceService
	logger    *zap.Logger
}

func NewBillingService(
	quotes repository.QuoteRepository,
	invoices repository.InvoiceRepository,
	customers repository.CustomerRepository,
	bookings repository.BookingRepository,
	finance *FinanceService,
	logger *zap.Logger,
) *BillingService {
	return &BillingService{
		quotes:    quotes,
		invoices:  invoices,
		customers: customers,
		bookings:  bookings,
		finance:   finance,
		logger:    logger,
	}
}

// CreateQuote issues a draft quote for a customer, optionally tied to a
// booking. The total is the sum of the line amounts.
func (s *BillingService) CreateQuote(ctx context.Context, req CreateQuoteRequest) (*model.Quote, error) {
	if err := s.checkOwners(ctx, req.CustomerID, req.BookingID); err != nil {
		return nil, err
	}
	items, total, err := sumLineItems(req.Items)
	if err != nil {
		return nil, err
	}

	quote := &model.Quote{
		QuoteNumber: documentNumber("QT"),
		CustomerID:  req.CustomerID,
		BookingID:   req.BookingID,
		Items:       items,
		Total:       total,
		Status:      model.QuoteStatusDraft,
	}
	if err := s.quotes.Create(ctx, quote); err != nil {
		return nil, domain.Dependency("quote create", err)
	}

	s.logger.Info("quote issued",
		zap.String("quote_number", quote.QuoteNumber),
		zap.String("customer_id", req.CustomerID.String()),
	)
	return quote, nil
}

// SetQuoteStatus walks a quote between draft, sent, accepted and declined.
// Converted quotes are frozen.
func (s *BillingService) SetQuoteStatus(ctx context.Context, id uuid.UUID, status string) error {
	parsed, ok := model.ParseQuoteStatus(status)
	if !ok {
		return domain.Newf(domain.CodeInvalidStatus, "unknown quote status %q", status)
	}

	quote, err := s.getQuote(ctx, id)
	if err != nil {
		return err
	}
	if quote.Status == model.QuoteStatusConverted {
		return domain.New(domain.CodeInvalidState, "converted quotes cannot change status")
	}

	if err := s.quotes.UpdateStatus(ctx, id, parsed); err != nil {
		return domain.Dependency("quote status update", err)
	}
	return nil
}

// ConvertQuote turns an accepted quote into an unpaid invoice carrying the
// same line items and total, then recomputes the customer's aggregates.
func (s *BillingService) ConvertQuote(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	quote, err := s.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	switch quote.Status {
	case model.QuoteStatusConverted:
		return nil, domain.New(domain.CodeInvalidState, "quote is already converted").
			WithDetail("invoice_id", derefID(quote.ConvertedInvoiceID))
	case model.QuoteStatusAccepted:
	default:
		return nil, domain.Newf(domain.CodeInvalidState, "quote is %s, only accepted quotes convert", quote.Status).
			WithDetail("status", string(quote.Status))
	}

	invoice := &model.Invoice{
		InvoiceNumber: documentNumber("INV"),
		CustomerID:    quote.CustomerID,
		BookingID:     quote.BookingID,
		Items:         quote.Items,
		TotalAmount:   quote.Total,
		PaymentStatus: model.PaymentStatusUnpaid,
	}
	if err := s.invoices.Create(ctx, invoice); err != nil {
		return nil, domain.Dependency("invoice create", err)
	}
	if err := s.quotes.MarkConverted(ctx, quote.ID, invoice.ID); err != nil {
		return nil, domain.Dependency("quote conversion", err)
	}

	s.finance.RecalculateQuietly(ctx, quote.CustomerID)

	s.logger.Info("quote converted",
		zap.String("quote_number", quote.QuoteNumber),
		zap.String("invoice_number", invoice.InvoiceNumber),
	)
	return invoice, nil
}

// CreateInvoice issues a standalone unpaid invoice and recomputes the
// customer's aggregates.
func (s *BillingService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*model.Invoice, error) {
	if err := s.checkOwners(ctx, req.CustomerID, req.BookingID); err != nil {
		return nil, err
	}
	items, total, err := sumLineItems(req.Items)
	if err != nil {
		return nil, err
	}

	invoice := &model.Invoice{
		InvoiceNumber: documentNumber("INV"),
		CustomerID:    req.CustomerID,
		BookingID:     req.BookingID,
		Items:         items,
		TotalAmount:   total,
		PaymentStatus: model.PaymentStatusUnpaid,
	}
	if err := s.invoices.Create(ctx, invoice); err != nil {
		return nil, domain.Dependency("invoice create", err)
	}

	s.finance.RecalculateQuietly(ctx, req.CustomerID)
	return invoice, nil
}

// CustomerBilling returns the customer's quotes and invoices, oldest first.
func (s *BillingService) CustomerBilling(ctx context.Context, customerID uuid.UUID) (*CustomerBilling, error) {
	if err := s.checkOwners(ctx, customerID, nil); err != nil {
		return nil, err
	}

	quotes, err := s.quotes.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, domain.Dependency("quote scan", err)
	}
	invoices, err := s.invoices.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, domain.Dependency("invoice scan", err)
	}
	return &CustomerBilling{Quotes: quotes, Invoices: invoices}, nil
}

func (s *BillingService) getQuote(ctx context.Context, id uuid.UUID) (*model.Quote, error) {
	quote, err := s.quotes.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.New(domain.CodeNotFound, "quote not found")
	}
	if err != nil {
		return nil, domain.Dependency("quote lookup", err)
	}
	return quote, nil
}

func (s *BillingService) checkOwners(ctx context.Context, customerID uuid.UUID, bookingID *uuid.UUID) error {
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.New(domain.CodeNotFound, "customer not found")
		}
		return domain.Dependency("customer lookup", err)
	}
	if bookingID == nil {
		return nil
	}
	booking, err := s.bookings.GetByID(ctx, *bookingID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.New(domain.CodeNotFound, "booking not found")
	}
	if err != nil {
		return domain.Dependency("booking lookup", err)
	}
	if booking.CustomerID != customerID {
		return domain.New(domain.CodeValidation, "booking belongs to a different customer").
			WithDetail("field", "booking_id")
	}
	return nil
}

// sumLineItems validates and totals the lines, returning the JSON snapshot
// stored on the document.
func sumLineItems(items []LineItem) ([]byte, decimal.Decimal, error) {
	if len(items) == 0 {
		return nil, decimal.Zero, domain.New(domain.CodeValidation, "at least one line item is required").
			WithDetail("field", "items")
	}

	total := decimal.Zero
	for i, item := range items {
		if strings.TrimSpace(item.Description) == "" {
			return nil, decimal.Zero, domain.Newf(domain.CodeValidation, "item %d is missing a description", i).
				WithDetail("field", "items")
		}
		amount, err := decimal.NewFromString(item.Amount)
		if err != nil || amount.IsNegative() {
			return nil, decimal.Zero, domain.Newf(domain.CodeValidation, "item %d has an invalid amount", i).
				WithDetail("field", "items")
		}
		total = total.Add(amount)
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return nil, decimal.Zero, domain.New(domain.CodeValidation, "items must be serializable")
	}
	return raw, total, nil
}

// documentNumber builds a unique human-readable number like QT-1A2B3C4D.
func documentNumber(prefix string) string {
	id := uuid.New()
	return fmt.Sprintf("%s-%08X", prefix, id.ID())
}

func derefID(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
