/*
expand.go - Custody interval -> per-day contributions

PURPOSE:
  The heart of the engine. A vehicle that sat on the lot from receive to
  release contributes one fact per day in that span: its age (1-indexed,
  the receive day is age 1), category, and size class. A mid-stay code
  change splits the stay into two sub-intervals whose ages stay
  continuous: the second sub-interval starts where the first left off,
  never back at 1.

LAZINESS:
  Expand never materializes the day range. An Expansion is a restartable
  description of the sequence; Each recomputes it deterministically on
  every call, so it can be replayed any number of times.

ERROR CLASSES:
  - Expand enforces its calling contract (non-negative offset, ordered
    dates) with ErrContract failures - those are caller bugs.
  - ExpandRecord faces dirty lot-system rows and reports unusable ones
    as BadRecordError so the batch can skip them and continue.
*/
package towing

import "fmt"

// =============================================================================
// EXPANDER
// =============================================================================

// Expander turns custody intervals into per-day contributions.
// AsOf substitutes for an unset release date: a vehicle still on the lot
// is counted through AsOf, but AsOf is never persisted as its release.
type Expander struct {
	classifier *Classifier
	asOf       Date
}

// NewExpander builds an Expander. asOf is normally Today(); tests inject
// a fixed day.
func NewExpander(classifier *Classifier, asOf Date) *Expander {
	return &Expander{classifier: classifier, asOf: asOf}
}

// Expand describes the per-day contributions of one custody interval.
//
// ageOffset is the number of days the vehicle had already been on the lot
// before this interval (non-zero only for the second half of a split
// stay). The first emitted day has age ageOffset+1.
//
// Contract: ageOffset >= 0, and release (after sentinel substitution)
// must not precede receive. Violations return ErrContract.
func (e *Expander) Expand(receive, release Date, code, sizeClass, propertyID string, ageOffset int) (*Expansion, error) {
	if ageOffset < 0 {
		return nil, fmt.Errorf("%w: negative age offset %d for %s", ErrContract, ageOffset, propertyID)
	}
	if release.IsUnset() {
		release = e.asOf
	}
	if release.Before(receive) {
		return nil, fmt.Errorf("%w: release %s precedes receive %s for %s",
			ErrContract, release, receive, propertyID)
	}

	return &Expansion{
		receive:    receive,
		release:    release,
		category:   e.classifier.Classify(code),
		dirtbike:   e.classifier.IsDirtbike(sizeClass),
		propertyID: propertyID,
		ageOffset:  ageOffset,
	}, nil
}

// ExpandRecord applies the split rule to a full custody record and
// returns one expansion for an unchanged stay, or two for a stay whose
// code changed mid-way:
//
//	[receive, change-1] under the original code, offset 0
//	[change, release]   under the current code, offset = days(receive, change)
//
// Unusable rows (sentinel receive date, release before receive, change
// date outside the stay) return a BadRecordError; callers skip the whole
// record and report it.
func (e *Expander) ExpandRecord(rec CustodyRecord) ([]*Expansion, error) {
	if rec.ReceiveDate.IsUnset() {
		return nil, &BadRecordError{PropertyID: rec.PropertyID, Reason: "unset receive date"}
	}

	release := rec.ReleaseDate
	if release.IsUnset() {
		release = e.asOf
	}
	if release.Before(rec.ReceiveDate) {
		return nil, &BadRecordError{
			PropertyID: rec.PropertyID,
			Reason:     fmt.Sprintf("release %s precedes receive %s", release, rec.ReceiveDate),
		}
	}

	if rec.CodeChangeDate.IsUnset() {
		x, err := e.Expand(rec.ReceiveDate, release, rec.CurrentCode, rec.SizeClass, rec.PropertyID, 0)
		if err != nil {
			return nil, err
		}
		return []*Expansion{x}, nil
	}

	change := rec.CodeChangeDate
	if change.Before(rec.ReceiveDate) || change.After(release) {
		return nil, &BadRecordError{
			PropertyID: rec.PropertyID,
			Reason:     fmt.Sprintf("code change date %s outside stay [%s, %s]", change, rec.ReceiveDate, release),
		}
	}

	var expansions []*Expansion

	// A change on the receive day leaves the first sub-interval empty.
	if change.After(rec.ReceiveDate) {
		first, err := e.Expand(rec.ReceiveDate, change.AddDays(-1), rec.OriginalCode, rec.SizeClass, rec.PropertyID, 0)
		if err != nil {
			return nil, err
		}
		expansions = append(expansions, first)
	}

	// Ages continue across the split: day `change` is one day older than
	// day `change-1`.
	offset := DaysBetween(rec.ReceiveDate, change)
	second, err := e.Expand(change, release, rec.CurrentCode, rec.SizeClass, rec.PropertyID, offset)
	if err != nil {
		return nil, err
	}
	return append(expansions, second), nil
}

// =============================================================================
// EXPANSION - A lazy, restartable per-day sequence
// =============================================================================

// Expansion is the deterministic day-by-day sequence for one custody
// interval. It holds no iteration state; Each can be called repeatedly.
type Expansion struct {
	receive    Date
	release    Date
	category   Category
	dirtbike   bool
	propertyID string
	ageOffset  int
}

// Each calls fn for every day in [receive, release], in day order,
// stopping early if fn returns false.
func (x *Expansion) Each(fn func(Contribution) bool) {
	for i := 0; ; i++ {
		day := x.receive.AddDays(i)
		if day.After(x.release) {
			return
		}
		c := Contribution{
			Day:        day,
			Age:        i + x.ageOffset + 1,
			Category:   x.category,
			Dirtbike:   x.dirtbike,
			PropertyID: x.propertyID,
		}
		if !fn(c) {
			return
		}
	}
}

// Contributions materializes the sequence. Mostly for tests.
func (x *Expansion) Contributions() []Contribution {
	out := make([]Contribution, 0, x.Len())
	x.Each(func(c Contribution) bool {
		out = append(out, c)
		return true
	})
	return out
}

// Len returns the number of days the expansion covers.
func (x *Expansion) Len() int {
	return DaysBetween(x.receive, x.release) + 1
}

// Category returns the normalized category the interval was classified
// under.
func (x *Expansion) Category() Category { return x.category }
