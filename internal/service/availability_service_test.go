package service

import (
	"context"
	"testing"

	"github.com/arborcare/booking-core/internal/domain"
	"github.com/arborcare/booking-core/internal/model"
	"github.com/arborcare/booking-core/internal/timeslot"
)

func TestRangeAvailability_CountsNormalizedSlots(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := seedCustomer(t, env, "555-0100")
	seedBooking(t, env, customer.ID, monday, timeslot.Slot8AM, model.BookingStatusPending)
	// Legacy 24-hour value on an old row; counted under its canonical label.
	seedBooking(t, env, customer.ID, tuesday, "13:00", model.BookingStatusConfirmed)
	// Cancelled rows never occupy slots.
	seedBooking(t, env, customer.ID, monday, timeslot.Slot1PM, model.BookingStatusCancelled)

	days, err := env.availability.RangeAvailability(ctx, monday, tuesday)
	if err != nil {
		t.Fatalf("range availability: %v", err)
	}

	if got := days[monday].Slots[timeslot.Slot8AM]; got != 1 {
		t.Fatalf("expected 1 occupied at %s %s, got %d", monday, timeslot.Slot8AM, got)
	}
	if got := days[monday].Slots[timeslot.Slot1PM]; got != 0 {
		t.Fatalf("cancelled booking must not count, got %d", got)
	}
	if got := days[tuesday].Slots[timeslot.Slot1PM]; got != 1 {
		t.Fatalf("legacy 13:00 must count as %s, got %d", timeslot.Slot1PM, got)
	}

	// Normalization is a read-side concern: the stored row keeps its value.
	legacy, err := env.bookingRepo.ListActiveBySlot(ctx, tuesday, "13:00")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(legacy) != 1 {
		t.Fatalf("stored time must stay 13:00, found %d rows", len(legacy))
	}
}

func TestRangeAvailability_BlockedMarkers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.availability.BlockDate(ctx, monday, "crew holiday", false); err != nil {
		t.Fatalf("block: %v", err)
	}
	// A weekend unblock row is informational, never surfaced as blocked.
	if err := env.availability.BlockDate(ctx, saturday, "", true); err != nil {
		t.Fatalf("unblock weekend: %v", err)
	}

	days, err := env.availability.RangeAvailability(ctx, saturday, tuesday)
	if err != nil {
		t.Fatalf("range availability: %v", err)
	}

	if !days[monday].Blocked {
		t.Fatalf("expected %s blocked", monday)
	}
	if days[monday].Reason != "crew holiday" {
		t.Fatalf("expected reason echoed, got %q", days[monday].Reason)
	}
	if days[saturday].Blocked {
		t.Fatalf("unblocked_weekend must not surface as blocked")
	}
	if days[tuesday].Blocked {
		t.Fatalf("%s must be open", tuesday)
	}
}

func TestRangeAvailability_RejectsBadRanges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.availability.RangeAvailability(ctx, "not-a-date", tuesday); err == nil {
		t.Fatalf("expected error for malformed start")
	}
	_, err := env.availability.RangeAvailability(ctx, tuesday, monday)
	mustDomainErr(t, err, domain.CodeValidation)

	_, err = env.availability.RangeAvailability(ctx, "2030-01-01", "2030-12-31")
	mustDomainErr(t, err, domain.CodeValidation)
}

func TestIsWeekendBlocked(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	blocked, err := env.availability.IsWeekendBlocked(ctx, saturday)
	if err != nil {
		t.Fatalf("weekend check: %v", err)
	}
	if !blocked {
		t.Fatalf("expected %s blocked by default", saturday)
	}

	blocked, err = env.availability.IsWeekendBlocked(ctx, monday)
	if err != nil {
		t.Fatalf("weekday check: %v", err)
	}
	if blocked {
		t.Fatalf("weekday must not be weekend-blocked")
	}

	if err := env.availability.BlockDate(ctx, saturday, "", true); err != nil {
		t.Fatalf("unblock: %v", err)
	}
	blocked, err = env.availability.IsWeekendBlocked(ctx, saturday)
	if err != nil {
		t.Fatalf("weekend check: %v", err)
	}
	if blocked {
		t.Fatalf("explicit unblock must lift the weekend block")
	}
}

func TestBlockDate_RejectsWeekdayUnblock(t *testing.T) {
	env := newTestEnv(t)

	err := env.availability.BlockDate(context.Background(), monday, "", true)
	mustDomainErr(t, err, domain.CodeValidation)
}

func TestUnblockDate_RemovesBothKinds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.availability.BlockDate(ctx, monday, "crew holiday", false); err != nil {
		t.Fatalf("block: %v", err)
	}
	if err := env.availability.UnblockDate(ctx, monday); err != nil {
		t.Fatalf("unblock: %v", err)
	}

	blocked, _, err := env.availability.IsBlocked(ctx, monday)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if blocked {
		t.Fatalf("expected %s open after unblock", monday)
	}
}
