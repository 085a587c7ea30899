package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arborcare/booking-core/internal/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := model.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testBooking(customerID uuid.UUID, date, slot string, status model.BookingStatus) *model.Booking {
	return &model.Booking{
		CustomerID: customerID,
		Service:    model.ServiceTreeRemoval,
		Date:       date,
		Time:       slot,
		Status:     status,
		Name:       "Pat Oakley",
		Email:      "pat@example.com",
		Phone:      "5550100",
	}
}

func testCustomer(t *testing.T, db *gorm.DB) *model.Customer {
	t.Helper()
	c := &model.Customer{Name: "Pat Oakley", Phone: "5550100"}
	if err := NewGormCustomerRepository(db).Create(context.Background(), c); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	return c
}

// The partial unique index admits at most one active booking per (date, time)
// slot; the second insert must surface as a duplicated-key error.
func TestCreate_ActiveSlotUniqueIndex(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormBookingRepository(db)
	ctx := context.Background()
	customer := testCustomer(t, db)

	if err := repo.Create(ctx, testBooking(customer.ID, "2030-06-17", "8:00 AM", model.BookingStatusPending)); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	err := repo.Create(ctx, testBooking(customer.ID, "2030-06-17", "8:00 AM", model.BookingStatusConfirmed))
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey for second active insert, got %v", err)
	}

	// A different slot on the same day is fine.
	if err := repo.Create(ctx, testBooking(customer.ID, "2030-06-17", "1:00 PM", model.BookingStatusPending)); err != nil {
		t.Fatalf("different slot: %v", err)
	}
}

func TestCreate_CancelledRowDoesNotOccupySlot(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormBookingRepository(db)
	ctx := context.Background()
	customer := testCustomer(t, db)

	if err := repo.Create(ctx, testBooking(customer.ID, "2030-06-17", "8:00 AM", model.BookingStatusCancelled)); err != nil {
		t.Fatalf("cancelled insert: %v", err)
	}
	if err := repo.Create(ctx, testBooking(customer.ID, "2030-06-17", "8:00 AM", model.BookingStatusPending)); err != nil {
		t.Fatalf("active insert over cancelled row: %v", err)
	}
}

func TestUpdateStatus_FreesTheSlot(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormBookingRepository(db)
	ctx := context.Background()
	customer := testCustomer(t, db)

	first := testBooking(customer.ID, "2030-06-17", "8:00 AM", model.BookingStatusPending)
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.UpdateStatus(ctx, first.ID, model.BookingStatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if err := repo.Create(ctx, testBooking(customer.ID, "2030-06-17", "8:00 AM", model.BookingStatusPending)); err != nil {
		t.Fatalf("slot must be free after cancellation, got %v", err)
	}
}

func TestListActiveByContact_MatchesPhoneOrEmail(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormBookingRepository(db)
	ctx := context.Background()
	customer := testCustomer(t, db)

	byPhone := testBooking(customer.ID, "2030-06-17", "8:00 AM", model.BookingStatusPending)
	byPhone.Email = "other@example.com"
	byEmail := testBooking(customer.ID, "2030-06-18", "1:00 PM", model.BookingStatusConfirmed)
	byEmail.Phone = "5550199"
	neither := testBooking(customer.ID, "2030-06-19", "3:00 PM", model.BookingStatusPending)
	neither.Phone = "5550188"
	neither.Email = "unrelated@example.com"

	for _, b := range []*model.Booking{byPhone, byEmail, neither} {
		if err := repo.Create(ctx, b); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := repo.ListActiveByContact(ctx, "5550100", "pat@example.com")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches (phone OR email), got %d", len(got))
	}
}

func TestListCompletedWithoutInvoice(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormBookingRepository(db)
	invoices := NewGormInvoiceRepository(db)
	ctx := context.Background()
	customer := testCustomer(t, db)

	invoiced := testBooking(customer.ID, "2030-06-17", "8:00 AM", model.BookingStatusCompleted)
	bare := testBooking(customer.ID, "2030-06-18", "1:00 PM", model.BookingStatusCompleted)
	active := testBooking(customer.ID, "2030-06-19", "3:00 PM", model.BookingStatusPending)
	for _, b := range []*model.Booking{invoiced, bare, active} {
		if err := repo.Create(ctx, b); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	err := invoices.Create(ctx, &model.Invoice{
		InvoiceNumber: "INV-001",
		CustomerID:    customer.ID,
		BookingID:     &invoiced.ID,
		PaymentStatus: model.PaymentStatusUnpaid,
	})
	if err != nil {
		t.Fatalf("insert invoice: %v", err)
	}

	got, err := repo.ListCompletedWithoutInvoice(ctx, customer.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != bare.ID {
		t.Fatalf("expected only the uninvoiced completed booking, got %d rows", len(got))
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"(555) 010-0001": "5550100001",
		"555.010.0001":   "5550100001",
		"+1 555 010 00":  "155501000",
		"no digits":      "",
	}
	for in, want := range cases {
		if got := NormalizePhone(in); got != want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", in, got, want)
		}
	}
}
