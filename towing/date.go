/*
date.go - Calendar-day time abstraction

PURPOSE:
  The entire engine operates at day granularity: a vehicle is on the lot
  for whole days, statistics are keyed by date, and the upstream store
  encodes "no date" as a fixed pre-1900 sentinel. This file provides a
  Date type that makes day arithmetic explicit and safe to use as a map
  key, plus the Period window type used for aggregation runs.

SENTINEL DATES:
  The lot system stores "not set" as 1899-12-31. Any date before the
  1900-12-31 cutoff is treated as unset, never as a real calendar date.
  See Date.IsUnset.

INVARIANT:
  Every Date produced by the constructors in this file is normalized to
  midnight UTC, so Date values compare with == and are valid map keys.

SEE ALSO:
  - expand.go: Expands [receive, release] into per-day contributions
  - plan.go: Set arithmetic over Period.Days()
*/
package towing

import "time"

// =============================================================================
// DATE - A calendar day, normalized to midnight UTC
// =============================================================================

type Date struct {
	t time.Time
}

// NewDate builds a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an arbitrary timestamp to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today returns the current calendar day.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a Y-M-D string (the format used everywhere: CLI flags,
// the API, and the stores).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Sentinel returns the upstream store's "no date" value, 1899-12-31.
func Sentinel() Date {
	return NewDate(1899, time.December, 31)
}

// unsetCutoff: anything before this is a stored null, not a real date.
var unsetCutoff = NewDate(1900, time.December, 31)

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return DateOf(d.t.AddDate(0, 0, n)) }

// Properties
func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }
func (d Date) Time() time.Time   { return d.t }
func (d Date) IsZero() bool      { return d.t.IsZero() }

// IsUnset reports whether the date is the upstream null sentinel (or the
// zero value). Pre-cutoff dates were never real receive/release dates.
func (d Date) IsUnset() bool {
	return d.t.IsZero() || d.Before(unsetCutoff)
}

func (d Date) String() string {
	return d.t.Format("2006-01-02")
}

// DaysBetween returns the whole days from one date to another
// (positive when to is later than from).
func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

// =============================================================================
// PERIOD - An inclusive date window
// =============================================================================

type Period struct {
	Start Date
	End   Date
}

// Contains returns true if the day falls within [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Days returns every day in the window, ascending. An inverted window
// yields nil.
func (p Period) Days() []Date {
	var days []Date
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

// Len returns the number of days in the window (0 for inverted windows).
func (p Period) Len() int {
	if p.End.Before(p.Start) {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// SingleDay returns the one-day window covering d.
func SingleDay(d Date) Period {
	return Period{Start: d, End: d}
}

// =============================================================================
// DATE SET - Used by the sync planner
// =============================================================================

type DateSet map[Date]struct{}

func NewDateSet(days ...Date) DateSet {
	s := make(DateSet, len(days))
	for _, d := range days {
		s.Add(d)
	}
	return s
}

func (s DateSet) Add(d Date)      { s[d] = struct{}{} }
func (s DateSet) Has(d Date) bool { _, ok := s[d]; return ok }
func (s DateSet) Len() int        { return len(s) }
