package service

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arborcare/booking-core/internal/domain"
	"github.com/arborcare/booking-core/internal/model"
	"github.com/arborcare/booking-core/internal/repository"
	"github.com/arborcare/booking-core/internal/timeslot"
)

// maxActiveBookings is the per-customer cap on simultaneous pending or
// confirmed bookings, matched by phone OR email.
const maxActiveBookings = 3

// CreateBookingRequest carries the public booking form fields.
type CreateBookingRequest struct {
	Service string   `json:"service"`
	Date    string   `json:"date"`
	Time    string   `json:"time"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Address string   `json:"address"`
	Notes   string   `json:"notes"`
	Images  []string `json:"images"`
}

// CreateBookingResult identifies the accepted booking and its customer.
type CreateBookingResult struct {
	BookingID  uuid.UUID `json:"booking_id"`
	CustomerID uuid.UUID `json:"customer_id"`
}

// BookingService is the admission controller: it validates and accepts or
// rejects new booking requests and owns booking lifecycle transitions.
type BookingService struct {
	bookings     repository.BookingRepository
	availability *AvailabilityService
	registry     *CustomerService
	finance      *FinanceService
	notifier     Notifier
	validate     *validator.Validate
	logger       *zap.Logger

	// Overridable clock for the past-date check.
	now func() time.Time
}

func NewBookingService(
	bookings repository.BookingRepository,
	availability *AvailabilityService,
	registry *CustomerService,
	finance *FinanceService,
	notifier Notifier,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:     bookings,
		availability: availability,
		registry:     registry,
		finance:      finance,
		notifier:     notifier,
		validate:     validator.New(),
		logger:       logger,
		now:          time.Now,
	}
}

// CreateBooking runs the admission checks in order (first failing check
// wins), resolves the customer by phone and persists a pending booking.
// The slot pre-check is re-validated by the partial unique index at insert
// time; a late conflict surfaces as the same time_slot_conflict.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResult, error) {
	// 1. Required-field presence.
	for _, f := range []struct{ name, value string }{
		{"service", req.Service},
		{"date", req.Date},
		{"time", req.Time},
		{"name", req.Name},
		{"email", req.Email},
		{"phone", req.Phone},
		{"address", req.Address},
	} {
		if strings.TrimSpace(f.value) == "" {
			return nil, domain.Newf(domain.CodeValidation, "%s is required", f.name).
				WithDetail("field", f.name)
		}
	}

	// 2. Service enum.
	svc, ok := model.ParseServiceType(req.Service)
	if !ok {
		return nil, domain.Newf(domain.CodeValidation, "unknown service %q", req.Service).
			WithDetail("field", "service")
	}

	// 3. Date and time shape.
	if _, err := timeslot.ParseDate(req.Date); err != nil {
		return nil, domain.New(domain.CodeValidation, err.Error()).WithDetail("field", "date")
	}
	if !timeslot.IsBookable(req.Time) {
		return nil, domain.Newf(domain.CodeValidation, "time must be one of %s", strings.Join(timeslot.Slots, ", ")).
			WithDetail("field", "time")
	}

	// 4. Contact shape.
	if err := s.validate.Var(req.Email, "required,email"); err != nil {
		return nil, domain.New(domain.CodeValidation, "email must look like local@domain.tld").
			WithDetail("field", "email")
	}
	if !phoneShapeOK(req.Phone) {
		return nil, domain.New(domain.CodeValidation, "phone must contain at least 10 digit or punctuation characters").
			WithDetail("field", "phone")
	}

	// 5. Slot conflict.
	occupying, err := s.bookings.ListActiveBySlot(ctx, req.Date, req.Time)
	if err != nil {
		return nil, domain.Dependency("slot check", err)
	}
	if len(occupying) > 0 {
		return nil, slotConflict(&occupying[0])
	}

	// 6. Weekend block.
	weekendBlocked, err := s.availability.IsWeekendBlocked(ctx, req.Date)
	if err != nil {
		return nil, err
	}
	if weekendBlocked {
		return nil, domain.New(domain.CodeWeekendBlocked, "weekend dates are not bookable unless explicitly opened").
			WithDetail("date", req.Date)
	}

	// 7. Past date (date-only comparison; YYYY-MM-DD compares lexically).
	today := s.now().Format(timeslot.DateFormat)
	if req.Date < today {
		return nil, domain.New(domain.CodePastDate, "date is in the past").
			WithDetail("date", req.Date).
			WithDetail("today", today)
	}

	// 8. Explicit date block.
	blocked, reason, err := s.availability.IsBlocked(ctx, req.Date)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, domain.New(domain.CodeDateBlocked, "date is blocked").
			WithDetail("date", req.Date).
			WithDetail("reason", reason)
	}

	// 9. Same-customer-same-date, matched by phone OR email.
	sameDay, err := s.bookings.ListActiveByContactOnDate(ctx, repository.NormalizePhone(req.Phone), req.Email, req.Date)
	if err != nil {
		return nil, domain.Dependency("same-date check", err)
	}
	if len(sameDay) > 0 {
		return nil, domain.New(domain.CodeSameDateBooking, "an active booking already exists for this customer on this date").
			WithDetail("existing", bookingRefs(sameDay))
	}

	// 10. Active-booking cap.
	active, err := s.bookings.ListActiveByContact(ctx, repository.NormalizePhone(req.Phone), req.Email)
	if err != nil {
		return nil, domain.Dependency("active-bookings check", err)
	}
	if len(active) >= maxActiveBookings {
		return nil, domain.Newf(domain.CodeMaxActiveBookings, "customer already holds %d active bookings", len(active)).
			WithDetail("existing", bookingRefs(active))
	}

	customer, err := s.registry.ResolveOrCreate(ctx, req.Name, req.Email, req.Phone, req.Address)
	if err != nil {
		return nil, err
	}

	booking := &model.Booking{
		CustomerID: customer.ID,
		Service:    svc,
		Date:       req.Date,
		Time:       req.Time,
		Status:     model.BookingStatusPending,
		Name:       sanitizeText(req.Name),
		Email:      strings.TrimSpace(req.Email),
		Phone:      repository.NormalizePhone(req.Phone),
		Address:    sanitizeText(req.Address),
		Notes:      sanitizeText(req.Notes),
	}
	if len(req.Images) > 0 {
		raw, marshalErr := json.Marshal(req.Images)
		if marshalErr != nil {
			return nil, domain.New(domain.CodeValidation, "images must be a list of references")
		}
		booking.Images = raw
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the insert race; report the winner.
			winners, lookupErr := s.bookings.ListActiveBySlot(ctx, req.Date, req.Time)
			if lookupErr == nil && len(winners) > 0 {
				return nil, slotConflict(&winners[0])
			}
			return nil, domain.New(domain.CodeTimeSlotConflict, "time slot was just taken").
				WithDetail("date", req.Date).
				WithDetail("time", req.Time)
		}
		return nil, domain.Dependency("booking create", err)
	}

	s.notify(ctx, EventBookingRequested, map[string]any{
		"booking_id": booking.ID.String(),
		"service":    string(svc),
		"date":       booking.Date,
		"time":       booking.Time,
		"email":      booking.Email,
	})

	return &CreateBookingResult{BookingID: booking.ID, CustomerID: customer.ID}, nil
}

// SetStatus applies an explicit status change. Transitions into completed
// trigger the owning customer's financial recompute.
func (s *BookingService) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	parsed, ok := model.ParseBookingStatus(status)
	if !ok {
		return domain.Newf(domain.CodeInvalidStatus, "unknown status %q", status)
	}

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if err := s.bookings.UpdateStatus(ctx, id, parsed); err != nil {
		return domain.Dependency("status update", err)
	}

	switch parsed {
	case model.BookingStatusConfirmed:
		s.notify(ctx, EventBookingConfirmed, bookingPayload(booking))
	case model.BookingStatusCancelled:
		s.notify(ctx, EventBookingCancelled, bookingPayload(booking))
	case model.BookingStatusCompleted:
		s.notify(ctx, EventBookingCompleted, bookingPayload(booking))
		s.finance.RecalculateQuietly(ctx, booking.CustomerID)
	}
	return nil
}

// Confirm moves a booking from confirmed to pending-booking (the customer
// accepted the quote and the job is being scheduled for work). Any other
// source state is rejected. The transition triggers a financial recompute.
func (s *BookingService) Confirm(ctx context.Context, id uuid.UUID) error {
	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}
	if booking.Status != model.BookingStatusConfirmed {
		return domain.Newf(domain.CodeInvalidState, "booking is %s, only confirmed bookings can be scheduled", booking.Status).
			WithDetail("status", string(booking.Status))
	}

	if err := s.bookings.UpdateStatus(ctx, id, model.BookingStatusPendingBooking); err != nil {
		return domain.Dependency("status update", err)
	}

	s.notify(ctx, EventBookingScheduled, bookingPayload(booking))
	s.finance.RecalculateQuietly(ctx, booking.CustomerID)
	return nil
}

// Move reschedules a booking to a new date, preserving its time slot and
// every other field. The destination must not be explicitly blocked and must
// hold fewer than the whole-day capacity of active bookings.
func (s *BookingService) Move(ctx context.Context, id uuid.UUID, newDate string) error {
	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}
	if _, err := timeslot.ParseDate(newDate); err != nil {
		return domain.New(domain.CodeValidation, err.Error()).WithDetail("field", "new_date")
	}

	blocked, reason, err := s.availability.IsBlocked(ctx, newDate)
	if err != nil {
		return err
	}
	if blocked {
		return domain.New(domain.CodeDateBlocked, "destination date is blocked").
			WithDetail("date", newDate).
			WithDetail("reason", reason)
	}

	count, err := s.bookings.CountActiveByDate(ctx, newDate)
	if err != nil {
		return domain.Dependency("destination capacity check", err)
	}
	if count >= timeslot.SlotsPerDay {
		return domain.Newf(domain.CodeTimeSlotConflict, "destination date already holds %d active bookings", count).
			WithDetail("date", newDate)
	}

	if err := s.bookings.UpdateDate(ctx, id, newDate); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.New(domain.CodeTimeSlotConflict, "destination slot is already taken").
				WithDetail("date", newDate).
				WithDetail("time", booking.Time)
		}
		return domain.Dependency("booking move", err)
	}

	s.notify(ctx, EventBookingMoved, map[string]any{
		"booking_id": booking.ID.String(),
		"from":       booking.Date,
		"to":         newDate,
		"time":       booking.Time,
	})
	return nil
}

// Delete hard-deletes a booking; its image references live on the row and
// go with it. Explicit admin action only.
func (s *BookingService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.getBooking(ctx, id); err != nil {
		return err
	}
	if err := s.bookings.Delete(ctx, id); err != nil {
		return domain.Dependency("booking delete", err)
	}
	return nil
}

// List returns a page of bookings, newest first, optionally filtered by
// status.
func (s *BookingService) List(ctx context.Context, status string, page, pageSize int) (timeslot.Page[model.Booking], error) {
	var filter model.BookingStatus
	if status != "" {
		parsed, ok := model.ParseBookingStatus(status)
		if !ok {
			return timeslot.Page[model.Booking]{}, domain.Newf(domain.CodeInvalidStatus, "unknown status %q", status)
		}
		filter = parsed
	}

	bookings, err := s.bookings.List(ctx, filter)
	if err != nil {
		return timeslot.Page[model.Booking]{}, domain.Dependency("booking list", err)
	}
	return timeslot.Paginate(bookings, page, pageSize), nil
}

func (s *BookingService) getBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.New(domain.CodeNotFound, "booking not found")
	}
	if err != nil {
		return nil, domain.Dependency("booking lookup", err)
	}
	return booking, nil
}

func (s *BookingService) notify(ctx context.Context, event string, payload map[string]any) {
	if err := s.notifier.Notify(ctx, event, payload); err != nil {
		s.logger.Warn("notification failed", zap.String("event", event), zap.Error(err))
	}
}

func slotConflict(b *model.Booking) *domain.Error {
	return domain.New(domain.CodeTimeSlotConflict, "time slot is already booked").
		WithDetail("date", b.Date).
		WithDetail("time", b.Time).
		WithDetail("status", string(b.Status))
}

func bookingRefs(bookings []model.Booking) []map[string]any {
	refs := make([]map[string]any, 0, len(bookings))
	for _, b := range bookings {
		refs = append(refs, map[string]any{
			"booking_id": b.ID.String(),
			"date":       b.Date,
			"time":       b.Time,
			"status":     string(b.Status),
		})
	}
	return refs
}

func bookingPayload(b *model.Booking) map[string]any {
	return map[string]any{
		"booking_id": b.ID.String(),
		"date":       b.Date,
		"time":       b.Time,
		"email":      b.Email,
	}
}

var scriptTagRe = regexp.MustCompile(`(?is)<\s*script[^>]*>.*?<\s*/\s*script\s*>|<\s*/?\s*script[^>]*>`)

// sanitizeText strips script-tag-like content from free-text fields and
// trims surrounding whitespace.
func sanitizeText(s string) string {
	return strings.TrimSpace(scriptTagRe.ReplaceAllString(s, ""))
}

// phoneShapeOK accepts phones with at least 10 digit or punctuation
// characters; letters and other symbols do not count.
func phoneShapeOK(phone string) bool {
	n := 0
	for _, r := range strings.TrimSpace(phone) {
		switch {
		case r >= '0' && r <= '9':
			n++
		case strings.ContainsRune("()+-. ", r):
			n++
		}
	}
	return n >= 10
}
