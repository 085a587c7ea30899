package service

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arborcare/booking-core/internal/model"
	"github.com/arborcare/booking-core/internal/repository"
)

// testToday is the fixed "today" for the past-date check: Monday 2030-06-03.
var testToday = time.Date(2030, 6, 3, 12, 0, 0, 0, time.UTC)

// Dates used across the service tests, all relative to testToday.
const (
	saturday = "2030-06-15"
	monday   = "2030-06-17"
	tuesday  = "2030-06-18"
	thursday = "2030-06-20"
	pastDate = "2030-05-30" // Thursday before testToday
)

type testEnv struct {
	db *gorm.DB

	bookingRepo  repository.BookingRepository
	customerRepo repository.CustomerRepository
	blockedRepo  repository.BlockedDateRepository
	invoiceRepo  repository.InvoiceRepository
	quoteRepo    repository.QuoteRepository

	availability *AvailabilityService
	customers    *CustomerService
	finance      *FinanceService
	bookings     *BookingService
	billing      *BillingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := model.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logger := zap.NewNop()

	env := &testEnv{
		db:           db,
		bookingRepo:  repository.NewGormBookingRepository(db),
		customerRepo: repository.NewGormCustomerRepository(db),
		blockedRepo:  repository.NewGormBlockedDateRepository(db),
		invoiceRepo:  repository.NewGormInvoiceRepository(db),
		quoteRepo:    repository.NewGormQuoteRepository(db),
	}

	env.availability = NewAvailabilityService(env.bookingRepo, env.blockedRepo)
	env.customers = NewCustomerService(env.customerRepo, logger)
	env.finance = NewFinanceService(env.customerRepo, env.bookingRepo, env.invoiceRepo, logger, DefaultServiceCost)
	env.bookings = NewBookingService(env.bookingRepo, env.availability, env.customers, env.finance, NewLogNotifier(logger), logger)
	env.bookings.now = func() time.Time { return testToday }
	env.billing = NewBillingService(env.quoteRepo, env.invoiceRepo, env.customerRepo, env.bookingRepo, env.finance, logger)

	return env
}

// validRequest builds a request that passes every admission check.
func validRequest(date, slot, phone, email string) CreateBookingRequest {
	return CreateBookingRequest{
		Service: string(model.ServiceTreeRemoval),
		Date:    date,
		Time:    slot,
		Name:    "Pat Oakley",
		Email:   email,
		Phone:   phone,
		Address: "12 Elm Street",
	}
}
