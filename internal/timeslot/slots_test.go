package timeslot

import (
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"8:00 AM":  Slot8AM,
		"08:00":    Slot8AM,
		"8:00":     Slot8AM,
		"8":        Slot8AM,
		"Full Day": Slot8AM,
		"13:00":    Slot1PM,
		"1":        Slot1PM,
		"15:00":    Slot3PM,
		"3":        Slot3PM,
		"10:00":    Slot10AM,
		"10":       Slot10AM,
		"10:00 AM": Slot10AM,

		// Unrecognized values pass through untouched.
		"9:30 AM": "9:30 AM",
		"":        "",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
		if got := Normalize(Normalize(in)); got != want {
			t.Errorf("Normalize is not idempotent for %q", in)
		}
	}
}

func TestIsBookable(t *testing.T) {
	for _, s := range Slots {
		if !IsBookable(s) {
			t.Errorf("expected %q bookable", s)
		}
	}
	for _, s := range []string{Slot10AM, LegacyFullDay, "13:00", ""} {
		if IsBookable(s) {
			t.Errorf("expected %q not bookable", s)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2030-06-17")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Weekday() != time.Monday {
		t.Fatalf("2030-06-17 is a Monday, got %s", d.Weekday())
	}

	for _, bad := range []string{"17-06-2030", "2030-6-17", "2030-06-17T00:00:00Z", "2030-13-01", "", "tomorrow"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestIsWeekend(t *testing.T) {
	sat, _ := ParseDate("2030-06-15")
	sun, _ := ParseDate("2030-06-16")
	mon, _ := ParseDate("2030-06-17")

	if !IsWeekend(sat) || !IsWeekend(sun) {
		t.Fatalf("expected Saturday and Sunday to be weekend")
	}
	if IsWeekend(mon) {
		t.Fatalf("Monday is not a weekend")
	}
}

func TestDatesBetween(t *testing.T) {
	start, _ := ParseDate("2030-06-15")
	end, _ := ParseDate("2030-06-18")

	got := DatesBetween(start, end)
	want := []string{"2030-06-15", "2030-06-16", "2030-06-17", "2030-06-18"}
	if len(got) != len(want) {
		t.Fatalf("expected %d dates, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dates[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if got := DatesBetween(end, start); len(got) != 0 {
		t.Fatalf("reversed range must be empty, got %d", len(got))
	}

	single := DatesBetween(start, start)
	if len(single) != 1 || single[0] != "2030-06-15" {
		t.Fatalf("single-day range broken: %v", single)
	}
}
