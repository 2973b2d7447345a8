package towing_test

import (
	"testing"
	"time"

	"github.com/citydot/towstat/towing"
)

func TestPlan_SkipsDaysAlreadyPresent(t *testing.T) {
	// GIVEN: a five-day window where days 2 and 4 are already stored
	// THEN: the plan covers only the missing days, in order

	window := towing.Period{Start: date(2020, time.January, 1), End: date(2020, time.January, 5)}
	present := towing.NewDateSet(date(2020, time.January, 2), date(2020, time.January, 4))

	plan := towing.Plan(window, present, false)
	want := []towing.Date{
		date(2020, time.January, 1),
		date(2020, time.January, 3),
		date(2020, time.January, 5),
	}
	if len(plan) != len(want) {
		t.Fatalf("plan covers %d days, want %d", len(plan), len(want))
	}
	for i := range want {
		if !plan[i].Equal(want[i]) {
			t.Errorf("plan[%d] = %s, want %s", i, plan[i], want[i])
		}
	}
}

func TestPlan_ForceRecomputesEverything(t *testing.T) {
	window := towing.Period{Start: date(2020, time.January, 1), End: date(2020, time.January, 3)}
	present := towing.NewDateSet(window.Days()...)

	plan := towing.Plan(window, present, true)
	if len(plan) != 3 {
		t.Fatalf("forced plan covers %d days, want the full window", len(plan))
	}
}

func TestPlan_AllPresentYieldsEmptyPlan(t *testing.T) {
	window := towing.Period{Start: date(2020, time.January, 1), End: date(2020, time.January, 3)}
	present := towing.NewDateSet(window.Days()...)

	if plan := towing.Plan(window, present, false); len(plan) != 0 {
		t.Fatalf("expected empty plan, got %v", plan)
	}
}
