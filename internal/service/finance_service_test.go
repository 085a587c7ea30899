package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arborcare/booking-core/internal/domain"
	"github.com/arborcare/booking-core/internal/model"
	"github.com/arborcare/booking-core/internal/timeslot"
)

func seedCustomer(t *testing.T, env *testEnv, phone string) *model.Customer {
	t.Helper()
	c := &model.Customer{
		Name:  "Pat Oakley",
		Email: "pat@example.com",
		Phone: phone,
	}
	if err := env.customerRepo.Create(context.Background(), c); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return c
}

func seedBooking(t *testing.T, env *testEnv, customerID uuid.UUID, date, slot string, status model.BookingStatus) *model.Booking {
	t.Helper()
	b := &model.Booking{
		CustomerID: customerID,
		Service:    model.ServiceTreeRemoval,
		Date:       date,
		Time:       slot,
		Status:     status,
		Name:       "Pat Oakley",
		Email:      "pat@example.com",
		Phone:      "5550100",
	}
	if err := env.bookingRepo.Create(context.Background(), b); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return b
}

func seedInvoice(t *testing.T, env *testEnv, number string, customerID uuid.UUID, bookingID *uuid.UUID, total string, status model.PaymentStatus) *model.Invoice {
	t.Helper()
	amount, err := decimal.NewFromString(total)
	if err != nil {
		t.Fatalf("parse amount: %v", err)
	}
	inv := &model.Invoice{
		InvoiceNumber: number,
		CustomerID:    customerID,
		BookingID:     bookingID,
		TotalAmount:   amount,
		PaymentStatus: status,
	}
	if err := env.invoiceRepo.Create(context.Background(), inv); err != nil {
		t.Fatalf("seed invoice: %v", err)
	}
	return inv
}

// A completed booking without an invoice is estimated at the default service
// cost; invoiced work counts at its invoice total regardless of payment
// status.
func TestRecalculate_InvoicePlusFallbackEstimate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := seedCustomer(t, env, "555-0100")
	seedBooking(t, env, customer.ID, monday, timeslot.Slot8AM, model.BookingStatusCompleted)
	invoiced := seedBooking(t, env, customer.ID, tuesday, timeslot.Slot1PM, model.BookingStatusCompleted)
	seedInvoice(t, env, "INV-001", customer.ID, &invoiced.ID, "350.00", model.PaymentStatusPaid)

	total, err := env.finance.Recalculate(ctx, customer.ID)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}

	want := decimal.RequireFromString("550.00")
	if !total.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, total)
	}

	stored, err := env.customerRepo.GetByID(ctx, customer.ID)
	if err != nil {
		t.Fatalf("load customer: %v", err)
	}
	if !stored.TotalSpent.Equal(want) {
		t.Fatalf("expected persisted total %s, got %s", want, stored.TotalSpent)
	}
	if stored.TotalBookings != 2 {
		t.Fatalf("expected total_bookings 2, got %d", stored.TotalBookings)
	}
}

func TestRecalculate_AllInvoicesCountRegardlessOfPaymentStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := seedCustomer(t, env, "555-0100")
	b1 := seedBooking(t, env, customer.ID, monday, timeslot.Slot8AM, model.BookingStatusCompleted)
	b2 := seedBooking(t, env, customer.ID, tuesday, timeslot.Slot1PM, model.BookingStatusCompleted)
	seedInvoice(t, env, "INV-001", customer.ID, &b1.ID, "100.00", model.PaymentStatusUnpaid)
	seedInvoice(t, env, "INV-002", customer.ID, &b2.ID, "250.50", model.PaymentStatusPartial)

	total, err := env.finance.Recalculate(ctx, customer.ID)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}

	want := decimal.RequireFromString("350.50")
	if !total.Equal(want) {
		t.Fatalf("expected %s, got %s", want, total)
	}
}

func TestRecalculate_CountsBookingsOfAnyStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := seedCustomer(t, env, "555-0100")
	seedBooking(t, env, customer.ID, monday, timeslot.Slot8AM, model.BookingStatusPending)
	seedBooking(t, env, customer.ID, tuesday, timeslot.Slot1PM, model.BookingStatusCancelled)
	seedBooking(t, env, customer.ID, thursday, timeslot.Slot3PM, model.BookingStatusCompleted)

	if _, err := env.finance.Recalculate(ctx, customer.ID); err != nil {
		t.Fatalf("recalculate: %v", err)
	}

	stored, err := env.customerRepo.GetByID(ctx, customer.ID)
	if err != nil {
		t.Fatalf("load customer: %v", err)
	}
	if stored.TotalBookings != 3 {
		t.Fatalf("expected total_bookings 3 across all statuses, got %d", stored.TotalBookings)
	}
	// Only the completed, uninvoiced booking contributes to spend.
	if !stored.TotalSpent.Equal(DefaultServiceCost) {
		t.Fatalf("expected %s, got %s", DefaultServiceCost, stored.TotalSpent)
	}
}

func TestRecalculate_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := seedCustomer(t, env, "555-0100")
	seedBooking(t, env, customer.ID, monday, timeslot.Slot8AM, model.BookingStatusCompleted)
	seedInvoice(t, env, "INV-001", customer.ID, nil, "75.25", model.PaymentStatusUnpaid)

	first, err := env.finance.Recalculate(ctx, customer.ID)
	if err != nil {
		t.Fatalf("first recalculate: %v", err)
	}
	second, err := env.finance.Recalculate(ctx, customer.ID)
	if err != nil {
		t.Fatalf("second recalculate: %v", err)
	}

	if !first.Equal(second) {
		t.Fatalf("recompute must be idempotent: %s != %s", first, second)
	}
}

func TestRecalculate_UnknownCustomer(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.finance.Recalculate(context.Background(), uuid.New())
	mustDomainErr(t, err, domain.CodeNotFound)
}

func TestSetInvoicePaymentStatus_PaidTriggersRecompute(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := seedCustomer(t, env, "555-0100")
	booking := seedBooking(t, env, customer.ID, monday, timeslot.Slot8AM, model.BookingStatusCompleted)
	inv := seedInvoice(t, env, "INV-001", customer.ID, &booking.ID, "480.00", model.PaymentStatusUnpaid)

	if err := env.finance.SetInvoicePaymentStatus(ctx, inv.ID, "paid"); err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	stored, err := env.customerRepo.GetByID(ctx, customer.ID)
	if err != nil {
		t.Fatalf("load customer: %v", err)
	}
	want := decimal.RequireFromString("480.00")
	if !stored.TotalSpent.Equal(want) {
		t.Fatalf("expected recomputed total %s, got %s", want, stored.TotalSpent)
	}
}

func TestSetInvoicePaymentStatus_UnknownStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := seedCustomer(t, env, "555-0100")
	inv := seedInvoice(t, env, "INV-001", customer.ID, nil, "10.00", model.PaymentStatusUnpaid)

	err := env.finance.SetInvoicePaymentStatus(ctx, inv.ID, "settled")
	mustDomainErr(t, err, domain.CodeInvalidStatus)
}
