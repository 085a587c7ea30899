package service

import (
	"context"

	"github.com/arborcare/booking-core/internal/domain"
	"github.com/arborcare/booking-core/internal/model"
	"github.com/arborcare/booking-core/internal/repository"
	"github.com/arborcare/booking-core/internal/timeslot"
)

// maxRangeDays caps availability queries; the admin calendar never asks for
// more than three months at a time.
const maxRangeDays = 92

// DayAvailability is the per-date entry of an availability map. Slots maps
// normalized time labels to occupied counts. Blocked is only set for real
// blocks; unblocked_weekend rows are informational and never surfaced here.
type DayAvailability struct {
	Blocked bool           `json:"blocked,omitempty"`
	Reason  string         `json:"reason,omitempty"`
	Slots   map[string]int `json:"slots"`
}

// AvailabilityService answers "is slot (date, time) bookable?" and produces
// availability maps for date ranges.
type AvailabilityService struct {
	bookings repository.BookingRepository
	blocked  repository.BlockedDateRepository
}

func NewAvailabilityService(
	bookings repository.BookingRepository,
	blocked repository.BlockedDateRepository,
) *AvailabilityService {
	return &AvailabilityService{
		bookings: bookings,
		blocked:  blocked,
	}
}

// IsBlocked reports whether the date carries an explicit block, returning
// the stored reason. Weekend-unblock rows do not count as blocks.
func (s *AvailabilityService) IsBlocked(ctx context.Context, date string) (bool, string, error) {
	row, err := s.blocked.GetByDate(ctx, date)
	if err != nil {
		return false, "", domain.Dependency("blocked date lookup", err)
	}
	if row == nil || row.IsWeekendUnblock() {
		return false, "", nil
	}
	reason := ""
	if row.Reason != nil {
		reason = *row.Reason
	}
	return true, reason, nil
}

// IsWeekendBlocked reports whether the date falls on a weekend with no
// explicit unblock row.
func (s *AvailabilityService) IsWeekendBlocked(ctx context.Context, date string) (bool, error) {
	d, err := timeslot.ParseDate(date)
	if err != nil {
		return false, domain.New(domain.CodeValidation, err.Error())
	}
	if !timeslot.IsWeekend(d) {
		return false, nil
	}
	row, lookupErr := s.blocked.GetByDate(ctx, date)
	if lookupErr != nil {
		return false, domain.Dependency("blocked date lookup", lookupErr)
	}
	return row == nil || !row.IsWeekendUnblock(), nil
}

// SlotOccupancy counts active bookings holding the exact (date, time) slot.
func (s *AvailabilityService) SlotOccupancy(ctx context.Context, date, label string) (int, error) {
	bookings, err := s.bookings.ListActiveBySlot(ctx, date, label)
	if err != nil {
		return 0, domain.Dependency("slot occupancy", err)
	}
	return len(bookings), nil
}

// RangeAvailability produces the per-date availability map for [start, end].
// Booking times are normalized to canonical labels before counting; the
// stored rows are never mutated.
func (s *AvailabilityService) RangeAvailability(ctx context.Context, start, end string) (map[string]DayAvailability, error) {
	from, err := timeslot.ParseDate(start)
	if err != nil {
		return nil, domain.New(domain.CodeValidation, "start: "+err.Error())
	}
	to, err := timeslot.ParseDate(end)
	if err != nil {
		return nil, domain.New(domain.CodeValidation, "end: "+err.Error())
	}
	if to.Before(from) {
		return nil, domain.New(domain.CodeValidation, "end must not precede start")
	}
	if to.Sub(from).Hours() > 24*maxRangeDays {
		return nil, domain.Newf(domain.CodeValidation, "range must not exceed %d days", maxRangeDays)
	}

	out := make(map[string]DayAvailability)
	for _, date := range timeslot.DatesBetween(from, to) {
		out[date] = DayAvailability{Slots: map[string]int{}}
	}

	bookings, err := s.bookings.ListActiveInRange(ctx, start, end)
	if err != nil {
		return nil, domain.Dependency("availability scan", err)
	}
	for _, b := range bookings {
		day, ok := out[b.Date]
		if !ok {
			continue
		}
		day.Slots[timeslot.Normalize(b.Time)]++
		out[b.Date] = day
	}

	blockedRows, err := s.blocked.ListRange(ctx, start, end)
	if err != nil {
		return nil, domain.Dependency("blocked date scan", err)
	}
	for _, row := range blockedRows {
		if row.IsWeekendUnblock() {
			continue
		}
		day := out[row.Date]
		day.Blocked = true
		if row.Reason != nil {
			day.Reason = *row.Reason
		}
		out[row.Date] = day
	}

	return out, nil
}

// BlockDate marks a date unavailable, or records a weekend unblock when
// unblockWeekend is set.
func (s *AvailabilityService) BlockDate(ctx context.Context, date, reason string, unblockWeekend bool) error {
	d, err := timeslot.ParseDate(date)
	if err != nil {
		return domain.New(domain.CodeValidation, err.Error())
	}

	if unblockWeekend {
		if !timeslot.IsWeekend(d) {
			return domain.New(domain.CodeValidation, "only weekend dates can be unblocked")
		}
		r := model.ReasonUnblockedWeekend
		if err := s.blocked.Upsert(ctx, date, &r); err != nil {
			return domain.Dependency("weekend unblock", err)
		}
		return nil
	}

	var r *string
	if reason != "" && reason != model.ReasonUnblockedWeekend {
		r = &reason
	}
	if err := s.blocked.Upsert(ctx, date, r); err != nil {
		return domain.Dependency("block date", err)
	}
	return nil
}

// UnblockDate removes any row for the date, whether a real block or a
// weekend exemption.
func (s *AvailabilityService) UnblockDate(ctx context.Context, date string) error {
	if _, err := timeslot.ParseDate(date); err != nil {
		return domain.New(domain.CodeValidation, err.Error())
	}
	if err := s.blocked.DeleteByDate(ctx, date); err != nil {
		return domain.Dependency("unblock date", err)
	}
	return nil
}

// ListBlocked returns the blocked-date rows in [start, end] for the admin
// calendar, weekend exemptions included (callers render them differently).
func (s *AvailabilityService) ListBlocked(ctx context.Context, start, end string) ([]model.BlockedDate, error) {
	if _, err := timeslot.ParseDate(start); err != nil {
		return nil, domain.New(domain.CodeValidation, "start: "+err.Error())
	}
	if _, err := timeslot.ParseDate(end); err != nil {
		return nil, domain.New(domain.CodeValidation, "end: "+err.Error())
	}
	rows, err := s.blocked.ListRange(ctx, start, end)
	if err != nil {
		return nil, domain.Dependency("blocked date scan", err)
	}
	return rows, nil
}
