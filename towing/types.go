/*
Package towing converts raw impound-lot custody records into per-day
occupancy statistics.

PURPOSE:
  Given custody rows from the lot system (receive date, release date,
  pickup code, mid-stay code changes, vehicle type), compute for every
  calendar day: how many vehicles were on the lot, under which normalized
  category, split by size class, and how old each vehicle was that day.
  The reduced output feeds the reporting store behind the towing dashboard.

KEY CONCEPTS IN THIS FILE (types.go):
  - Category: Normalized classification label derived from a pickup code
  - CustodyRecord: One vehicle stay as reported by the lot system
  - Contribution: "on day D, vehicle P was N days old under category C"
  - SummaryRow / AgeRow: The two persisted output shapes

PIPELINE:
  RecordSource -> Expander -> Accumulator -> Flatten/Summarize -> StatsStore

DESIGN PRINCIPLES:
  1. The core is pure and in-memory; all I/O lives behind the interfaces
     in store.go.
  2. Buckets are keyed by an explicit (day, category, dirtbike) struct,
     never by assembled field names.
  3. Precision: summary averages use decimal.Decimal, not float64.

SEE ALSO:
  - classify.go: Raw code -> Category
  - expand.go: Custody interval -> per-day Contributions
  - accumulate.go: Contributions -> keyed buckets
  - reduce.go: Buckets -> SummaryRow / AgeRow
*/
package towing

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// CATEGORY - Normalized classification (closed enumeration)
// =============================================================================

type Category string

const (
	// CategoryTotal is synthetic: the per-day fold of every other category.
	// It never appears on a Contribution.
	CategoryTotal Category = "total"

	CategoryPoliceAction          Category = "police_action"
	CategoryPoliceHold            Category = "police_hold"
	CategoryAccident              Category = "accident"
	CategoryAbandoned             Category = "abandoned"
	CategoryScofflaw              Category = "scofflaw"
	CategoryImpound               Category = "impound"
	CategoryStolenRecovered       Category = "stolen_recovered"
	CategoryCommercialRestriction Category = "commercial_vehicle_restriction"

	// CategoryNoCode holds vehicles with a missing or unrecognized code.
	CategoryNoCode Category = "nocode"
)

// Categories returns the real (non-total) categories in reporting order.
// Reducers iterate this slice so output ordering never depends on map
// iteration.
func Categories() []Category {
	return []Category{
		CategoryPoliceAction,
		CategoryPoliceHold,
		CategoryAccident,
		CategoryAbandoned,
		CategoryScofflaw,
		CategoryImpound,
		CategoryStolenRecovered,
		CategoryCommercialRestriction,
		CategoryNoCode,
	}
}

// =============================================================================
// CUSTODY RECORD - One vehicle stay (read-only input)
// =============================================================================

// CustodyRecord mirrors the joined receiving/release/identification row
// from the lot system. Dates may be the upstream sentinel; use
// Date.IsUnset, never compare against a literal.
type CustodyRecord struct {
	PropertyID     string
	ReceiveDate    Date
	ReleaseDate    Date   // unset while the vehicle is still on the lot
	CurrentCode    string
	CodeChangeDate Date   // unset if the code never changed
	OriginalCode   string // code in effect before CodeChangeDate
	SizeClass      string // raw property type tag, e.g. "VAN", "DB", "ATV"
}

// =============================================================================
// CONTRIBUTION - One vehicle-day fact
// =============================================================================

// Contribution states that on Day, the vehicle PropertyID had been on the
// lot for Age days (1-indexed: the receive day itself is age 1), under
// Category, with Dirtbike marking non-standard size classes.
type Contribution struct {
	Day        Date
	Age        int
	Category   Category
	Dirtbike   bool
	PropertyID string
}

// =============================================================================
// BUCKETS
// =============================================================================

// BucketKey addresses one accumulation bucket.
type BucketKey struct {
	Day      Date
	Category Category
	Dirtbike bool
}

// AgeEntry is one vehicle's age within a bucket.
type AgeEntry struct {
	Age        int
	PropertyID string
}

// =============================================================================
// OUTPUT ROWS - The two persisted shapes
// =============================================================================

// SummaryRow is one row of the per-day summary table (towstat_bydate):
// vehicle count, mean age and median age for a (date, category, dirtbike)
// key. Average and MedianAge are zero when Quantity is zero.
type SummaryRow struct {
	Date      Date
	Quantity  int
	Average   decimal.Decimal
	MedianAge decimal.Decimal
	Dirtbike  bool
	Category  Category
}

// AgeRow is one row of the per-vehicle-per-day table (towstat_agebydate).
type AgeRow struct {
	Date       Date
	PropertyID string
	VehicleAge int
	Category   Category
	Dirtbike   bool
}
