package towing_test

import (
	"testing"
	"time"

	"github.com/citydot/towstat/towing"
)

// =============================================================================
// DATE
// =============================================================================

func TestDate_ParseRoundTrip(t *testing.T) {
	d, err := towing.ParseDate("2020-03-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Equal(date(2020, time.March, 1)) {
		t.Errorf("parsed %s, want 2020-03-01", d)
	}
	if d.String() != "2020-03-01" {
		t.Errorf("String() = %q", d.String())
	}

	if _, err := towing.ParseDate("03/01/2020"); err == nil {
		t.Error("expected error for non ISO input")
	}
}

func TestDate_IsUnset(t *testing.T) {
	cases := []struct {
		d     towing.Date
		unset bool
	}{
		{towing.Date{}, true},
		{towing.Sentinel(), true},
		{date(1899, time.December, 31), true},
		{date(1900, time.December, 30), true},
		{date(1900, time.December, 31), false},
		{date(2020, time.January, 1), false},
	}
	for _, c := range cases {
		if c.d.IsUnset() != c.unset {
			t.Errorf("%s: IsUnset() = %v, want %v", c.d, c.d.IsUnset(), c.unset)
		}
	}
}

func TestDate_DaysBetween(t *testing.T) {
	a := date(2020, time.January, 1)
	if got := towing.DaysBetween(a, a); got != 0 {
		t.Errorf("same day = %d, want 0", got)
	}
	if got := towing.DaysBetween(a, date(2020, time.January, 5)); got != 4 {
		t.Errorf("Jan 1 to Jan 5 = %d, want 4", got)
	}
	// Across a leap day.
	if got := towing.DaysBetween(date(2020, time.February, 28), date(2020, time.March, 1)); got != 2 {
		t.Errorf("across leap day = %d, want 2", got)
	}
}

func TestDate_AddDays(t *testing.T) {
	d := date(2019, time.December, 30)
	if !d.AddDays(2).Equal(date(2020, time.January, 1)) {
		t.Errorf("AddDays crossed year boundary wrong: %s", d.AddDays(2))
	}
	if !d.AddDays(-1).Equal(date(2019, time.December, 29)) {
		t.Errorf("negative AddDays: %s", d.AddDays(-1))
	}
}

// =============================================================================
// PERIOD
// =============================================================================

func TestPeriod_Days(t *testing.T) {
	p := towing.Period{Start: date(2020, time.January, 1), End: date(2020, time.January, 3)}
	days := p.Days()
	if len(days) != 3 {
		t.Fatalf("got %d days, want 3", len(days))
	}
	if !days[0].Equal(p.Start) || !days[2].Equal(p.End) {
		t.Errorf("days = %v", days)
	}

	single := towing.SingleDay(date(2020, time.January, 1))
	if single.Len() != 1 {
		t.Errorf("single day period length = %d", single.Len())
	}
	if !single.Contains(date(2020, time.January, 1)) {
		t.Error("single day period does not contain its own day")
	}
	if single.Contains(date(2020, time.January, 2)) {
		t.Error("single day period contains a foreign day")
	}
}

// =============================================================================
// DATE SET
// =============================================================================

func TestDateSet(t *testing.T) {
	s := towing.NewDateSet(date(2020, time.January, 1), date(2020, time.January, 3))
	s.Add(date(2020, time.January, 1)) // duplicates collapse

	if s.Len() != 2 {
		t.Errorf("len = %d, want 2", s.Len())
	}
	if !s.Has(date(2020, time.January, 3)) {
		t.Error("missing member")
	}
	if s.Has(date(2020, time.January, 2)) {
		t.Error("phantom member")
	}
}
