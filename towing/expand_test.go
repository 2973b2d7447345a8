package towing_test

import (
	"errors"
	"testing"
	"time"

	"github.com/citydot/towstat/towing"
)

func newExpander(asOf towing.Date) *towing.Expander {
	return towing.NewExpander(defaultClassifier(), asOf)
}

// =============================================================================
// AGE MONOTONICITY
// =============================================================================

func TestExpand_AgesAreOneIndexedAndMonotonic(t *testing.T) {
	// GIVEN: a stay from Jan 1 to Jan 5 (5 days), no offset
	// THEN: exactly 5 contributions with ages 1..5 in day order

	e := newExpander(date(2020, time.June, 1))
	x, err := e.Expand(date(2020, time.January, 1), date(2020, time.January, 5), "111", "VAN", "P1", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	contribs := x.Contributions()
	if len(contribs) != 5 {
		t.Fatalf("expected 5 contributions, got %d", len(contribs))
	}
	for i, c := range contribs {
		if c.Age != i+1 {
			t.Errorf("day %d: age = %d, want %d", i, c.Age, i+1)
		}
		if !c.Day.Equal(date(2020, time.January, 1).AddDays(i)) {
			t.Errorf("day %d out of order: %s", i, c.Day)
		}
		if c.Category != towing.CategoryPoliceAction {
			t.Errorf("day %d: category %q, want police_action", i, c.Category)
		}
		if c.Dirtbike {
			t.Errorf("day %d: VAN flagged as dirtbike", i)
		}
		if c.PropertyID != "P1" {
			t.Errorf("day %d: property id %q", i, c.PropertyID)
		}
	}
}

func TestExpand_SingleDayStay(t *testing.T) {
	e := newExpander(date(2020, time.June, 1))
	x, err := e.Expand(date(2020, time.January, 1), date(2020, time.January, 1), "112", "ATV", "P2", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	contribs := x.Contributions()
	if len(contribs) != 1 {
		t.Fatalf("expected 1 contribution, got %d", len(contribs))
	}
	if contribs[0].Age != 1 || !contribs[0].Dirtbike {
		t.Errorf("got %+v, want age 1 dirtbike", contribs[0])
	}
}

func TestExpand_Restartable(t *testing.T) {
	// An Expansion is a description, not an iterator: replaying it gives
	// identical output every time.
	e := newExpander(date(2020, time.June, 1))
	x, err := e.Expand(date(2020, time.January, 1), date(2020, time.January, 3), "111", "VAN", "P1", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := x.Contributions()
	second := x.Contributions()
	if len(first) != len(second) {
		t.Fatalf("replay changed length: %d then %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("replay diverged at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestExpand_EachStopsEarly(t *testing.T) {
	e := newExpander(date(2020, time.June, 1))
	x, _ := e.Expand(date(2020, time.January, 1), date(2020, time.January, 31), "111", "VAN", "P1", 0)

	seen := 0
	x.Each(func(towing.Contribution) bool {
		seen++
		return seen < 3
	})
	if seen != 3 {
		t.Errorf("expected early stop after 3, saw %d", seen)
	}
}

// =============================================================================
// SENTINEL RELEASE
// =============================================================================

func TestExpand_UnsetReleaseRunsThroughAsOf(t *testing.T) {
	// GIVEN: a vehicle still on the lot (sentinel release)
	// THEN: contributions run through the injected "today"

	asOf := date(2020, time.January, 4)
	e := newExpander(asOf)
	x, err := e.Expand(date(2020, time.January, 1), towing.Sentinel(), "111", "VAN", "P1", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	contribs := x.Contributions()
	if len(contribs) != 4 {
		t.Fatalf("expected 4 contributions through as-of, got %d", len(contribs))
	}
	if !contribs[3].Day.Equal(asOf) {
		t.Errorf("last day = %s, want %s", contribs[3].Day, asOf)
	}
}

// =============================================================================
// CONTRACT VIOLATIONS
// =============================================================================

func TestExpand_NegativeOffsetIsContractViolation(t *testing.T) {
	e := newExpander(date(2020, time.June, 1))
	_, err := e.Expand(date(2020, time.January, 1), date(2020, time.January, 5), "111", "VAN", "P1", -1)
	if !towing.IsContract(err) {
		t.Fatalf("expected contract violation, got %v", err)
	}
	if towing.IsDataQuality(err) {
		t.Fatalf("contract violation must not read as data quality")
	}
}

func TestExpand_ReleaseBeforeReceiveIsContractViolation(t *testing.T) {
	e := newExpander(date(2020, time.June, 1))
	_, err := e.Expand(date(2020, time.January, 5), date(2020, time.January, 1), "111", "VAN", "P1", 0)
	if !towing.IsContract(err) {
		t.Fatalf("expected contract violation, got %v", err)
	}
}

// =============================================================================
// RECORD EXPANSION (split rule)
// =============================================================================

func TestExpandRecord_NoCodeChange(t *testing.T) {
	e := newExpander(date(2020, time.June, 1))
	expansions, err := e.ExpandRecord(towing.CustodyRecord{
		PropertyID:     "P1",
		ReceiveDate:    date(2020, time.January, 1),
		ReleaseDate:    date(2020, time.January, 3),
		CurrentCode:    "111",
		CodeChangeDate: towing.Sentinel(),
		SizeClass:      "VAN",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(expansions) != 1 {
		t.Fatalf("expected 1 expansion, got %d", len(expansions))
	}
	if expansions[0].Len() != 3 {
		t.Errorf("expansion covers %d days, want 3", expansions[0].Len())
	}
}

func TestExpandRecord_SplitContinuity(t *testing.T) {
	// GIVEN: receive Jan 1 as code 200, change to 111 on Jan 3, release Jan 5
	// THEN: Jan 1-2 under stolen_recovered with ages 1,2
	//       Jan 3-5 under police_action with ages 3,4,5 (no reset)

	e := newExpander(date(2020, time.June, 1))
	expansions, err := e.ExpandRecord(towing.CustodyRecord{
		PropertyID:     "P1",
		ReceiveDate:    date(2020, time.January, 1),
		ReleaseDate:    date(2020, time.January, 5),
		CurrentCode:    "111",
		CodeChangeDate: date(2020, time.January, 3),
		OriginalCode:   "200",
		SizeClass:      "VAN",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(expansions) != 2 {
		t.Fatalf("expected 2 expansions, got %d", len(expansions))
	}

	first := expansions[0].Contributions()
	if len(first) != 2 || first[0].Age != 1 || first[1].Age != 2 {
		t.Errorf("first sub-interval ages wrong: %+v", first)
	}
	if first[0].Category != towing.CategoryStolenRecovered {
		t.Errorf("first sub-interval category = %q, want stolen_recovered", first[0].Category)
	}

	second := expansions[1].Contributions()
	if len(second) != 3 {
		t.Fatalf("second sub-interval covers %d days, want 3", len(second))
	}
	if second[0].Age != 3 || second[2].Age != 5 {
		t.Errorf("split reset the age sequence: %+v", second)
	}
	if second[0].Category != towing.CategoryPoliceAction {
		t.Errorf("second sub-interval category = %q, want police_action", second[0].Category)
	}
	if !second[0].Day.Equal(date(2020, time.January, 3)) {
		t.Errorf("second sub-interval starts %s, want change date", second[0].Day)
	}
}

func TestExpandRecord_ChangeOnReceiveDay(t *testing.T) {
	// A code change on the receive day leaves no first sub-interval; the
	// whole stay runs under the current code from age 1.
	e := newExpander(date(2020, time.June, 1))
	expansions, err := e.ExpandRecord(towing.CustodyRecord{
		PropertyID:     "P1",
		ReceiveDate:    date(2020, time.January, 1),
		ReleaseDate:    date(2020, time.January, 3),
		CurrentCode:    "111",
		CodeChangeDate: date(2020, time.January, 1),
		OriginalCode:   "200",
		SizeClass:      "VAN",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(expansions) != 1 {
		t.Fatalf("expected 1 expansion, got %d", len(expansions))
	}
	contribs := expansions[0].Contributions()
	if contribs[0].Age != 1 || contribs[0].Category != towing.CategoryPoliceAction {
		t.Errorf("unexpected first contribution: %+v", contribs[0])
	}
}

func TestExpandRecord_BadRecordsAreDataQuality(t *testing.T) {
	e := newExpander(date(2020, time.June, 1))

	cases := map[string]towing.CustodyRecord{
		"sentinel receive": {
			PropertyID:  "P1",
			ReceiveDate: towing.Sentinel(),
			ReleaseDate: date(2020, time.January, 3),
			CurrentCode: "111",
		},
		"release before receive": {
			PropertyID:  "P2",
			ReceiveDate: date(2020, time.January, 5),
			ReleaseDate: date(2020, time.January, 1),
			CurrentCode: "111",
		},
		"change outside stay": {
			PropertyID:     "P3",
			ReceiveDate:    date(2020, time.January, 1),
			ReleaseDate:    date(2020, time.January, 3),
			CurrentCode:    "111",
			CodeChangeDate: date(2020, time.February, 1),
			OriginalCode:   "200",
		},
	}
	for name, rec := range cases {
		_, err := e.ExpandRecord(rec)
		if !towing.IsDataQuality(err) {
			t.Errorf("%s: expected data-quality error, got %v", name, err)
		}
		var bad *towing.BadRecordError
		if !errors.As(err, &bad) {
			t.Errorf("%s: expected BadRecordError, got %T", name, err)
		} else if bad.PropertyID != rec.PropertyID {
			t.Errorf("%s: error names %q, want %q", name, bad.PropertyID, rec.PropertyID)
		}
	}
}
