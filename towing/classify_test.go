package towing_test

import (
	"testing"
	"time"

	"github.com/citydot/towstat/towing"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(year int, month time.Month, day int) towing.Date {
	return towing.NewDate(year, month, day)
}

func defaultClassifier() *towing.Classifier {
	return towing.NewClassifier(towing.ClassifierTables{})
}

// =============================================================================
// CLASSIFICATION TESTS
// =============================================================================

func TestClassify_KnownPrefixes(t *testing.T) {
	c := defaultClassifier()

	cases := map[string]towing.Category{
		"111":  towing.CategoryPoliceAction,
		"112":  towing.CategoryAccident,
		"113":  towing.CategoryAbandoned,
		"125":  towing.CategoryScofflaw,
		"140":  towing.CategoryImpound,
		"200":  towing.CategoryStolenRecovered,
		"300":  towing.CategoryCommercialRestriction,
		"1000": towing.CategoryNoCode,
	}
	for raw, want := range cases {
		if got := c.Classify(raw); got != want {
			t.Errorf("Classify(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestClassify_SubCodesFoldIntoPrefix(t *testing.T) {
	// GIVEN: codes with trailing sub-code letters
	// THEN: they classify the same as their numeric prefix

	c := defaultClassifier()
	if c.Classify("111A") != c.Classify("111") {
		t.Errorf("expected 111A to fold into the 111 bucket")
	}
	if got := c.Classify("140X"); got != towing.CategoryImpound {
		t.Errorf("Classify(140X) = %q, want impound", got)
	}
}

func TestClassify_HoldAllowListBeatsPrefix(t *testing.T) {
	// GIVEN: codes on the police-hold allow-list
	// THEN: they are police holds even when the prefix says otherwise
	//       ("200P" strips to 200 = stolen_recovered, but it is a hold)

	c := defaultClassifier()
	for _, raw := range []string{"111B", "111M", "111N", "111P", "111S", "200P"} {
		if got := c.Classify(raw); got != towing.CategoryPoliceHold {
			t.Errorf("Classify(%q) = %q, want police_hold", raw, got)
		}
	}
}

func TestClassify_Garbage(t *testing.T) {
	// Empty, letters-only, and unrecognized numeric codes all land in
	// nocode; nothing errors.
	c := defaultClassifier()

	for _, raw := range []string{"", "REL", "999", "7", "abc123xyz999"} {
		if got := c.Classify(raw); got != towing.CategoryNoCode {
			t.Errorf("Classify(%q) = %q, want nocode", raw, got)
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := defaultClassifier()
	for _, raw := range []string{"", "111", "111B", "REL", "200", "200P"} {
		first := c.Classify(raw)
		for i := 0; i < 3; i++ {
			if got := c.Classify(raw); got != first {
				t.Fatalf("Classify(%q) changed between calls: %q then %q", raw, first, got)
			}
		}
	}
}

func TestClassify_CaseSensitiveHoldList(t *testing.T) {
	// The allow-list is exact-match: lowercase "111b" is not a hold, it
	// strips to 111 and classifies as police action.
	c := defaultClassifier()
	if got := c.Classify("111b"); got != towing.CategoryPoliceAction {
		t.Errorf("Classify(111b) = %q, want police_action", got)
	}
}

func TestIsDirtbike(t *testing.T) {
	c := defaultClassifier()

	for _, tag := range []string{"DB", "SCOT", "ATV"} {
		if !c.IsDirtbike(tag) {
			t.Errorf("IsDirtbike(%q) = false, want true", tag)
		}
	}
	for _, tag := range []string{"VAN", "", "db"} {
		if c.IsDirtbike(tag) {
			t.Errorf("IsDirtbike(%q) = true, want false", tag)
		}
	}
}

func TestClassifier_CustomTables(t *testing.T) {
	// GIVEN: config-injected tables replacing the defaults
	c := towing.NewClassifier(towing.ClassifierTables{
		Categories:       map[int]towing.Category{42: towing.CategoryImpound},
		HoldCodes:        []string{"42H"},
		NonStandardTypes: []string{"TRIKE"},
	})

	if got := c.Classify("42"); got != towing.CategoryImpound {
		t.Errorf("Classify(42) = %q, want impound", got)
	}
	// Default table entries are gone when overridden.
	if got := c.Classify("111"); got != towing.CategoryNoCode {
		t.Errorf("Classify(111) = %q, want nocode under custom tables", got)
	}
	if !c.IsDirtbike("TRIKE") || c.IsDirtbike("ATV") {
		t.Errorf("custom size-class table not applied")
	}
}
