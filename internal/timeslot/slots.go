// Package timeslot holds the pure calendar logic of the booking core: the
// fixed slot enumeration, normalization of legacy time values, and date
// helpers. Nothing here touches storage.
package timeslot

import (
	"errors"
	"time"
)

// DateFormat is the wire format for calendar dates (YYYY-MM-DD).
const DateFormat = "2006-01-02"

// Canonical 12-hour slot labels. Three bookable slots exist per day.
const (
	Slot8AM = "8:00 AM"
	Slot1PM = "1:00 PM"
	Slot3PM = "3:00 PM"

	// Slot10AM is a retired mid-morning label. It still appears in
	// historical rows and availability maps, but is no longer bookable.
	Slot10AM = "10:00 AM"

	// LegacyFullDay predates the three-slot day; old full-day jobs
	// occupied the morning crew.
	LegacyFullDay = "Full Day"
)

// SlotsPerDay is the whole-day capacity used when moving a booking.
const SlotsPerDay = 3

// Slots lists the bookable labels in day order.
var Slots = []string{Slot8AM, Slot1PM, Slot3PM}

var ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

// legacyLabels maps every known historical time representation (24-hour
// strings, bare hours, full-day) to its canonical label. Canonical labels
// map to themselves so Normalize is idempotent.
var legacyLabels = map[string]string{
	Slot8AM:  Slot8AM,
	Slot10AM: Slot10AM,
	Slot1PM:  Slot1PM,
	Slot3PM:  Slot3PM,

	LegacyFullDay: Slot8AM,

	"08:00": Slot8AM,
	"8:00":  Slot8AM,
	"8":     Slot8AM,
	"10:00": Slot10AM,
	"10":    Slot10AM,
	"13:00": Slot1PM,
	"1":     Slot1PM,
	"15:00": Slot3PM,
	"3":     Slot3PM,
}

// Normalize maps a stored time value to its canonical 12-hour label. The
// function is total: unrecognized values pass through unchanged, so display
// and aggregation never fail on dirty historical data. It is purely a read
// side concern and never mutates stored rows.
func Normalize(raw string) string {
	if label, ok := legacyLabels[raw]; ok {
		return label
	}
	return raw
}

// IsBookable reports whether label is one of the fixed slot labels accepted
// on new bookings.
func IsBookable(label string) bool {
	for _, s := range Slots {
		if s == label {
			return true
		}
	}
	return false
}

// ParseDate parses a strict YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, error) {
	if len(s) != len(DateFormat) {
		return time.Time{}, ErrInvalidDate
	}
	d, err := time.ParseInLocation(DateFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DatesBetween returns every date in [start, end] as YYYY-MM-DD strings.
// Returns an empty slice when end precedes start.
func DatesBetween(start, end time.Time) []string {
	var out []string
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		out = append(out, cur.Format(DateFormat))
	}
	return out
}
