/*
reduce.go - Buckets -> output rows

PURPOSE:
  Two reductions over an Accumulator and a requested window:

  Flatten:   one AgeRow per (age, property) entry - the towstat_agebydate
             shape. Empty buckets produce no rows.
  Summarize: one SummaryRow per day/category/dirtbike with count, mean
             and median age - the towstat_bydate shape. Empty buckets DO
             produce rows (count 0, mean 0, median 0), and every
             day/dirtbike pair additionally gets a synthetic "total" row
             folding all categories for that flag.

DETERMINISM:
  Both reductions are pure functions of the buckets and the window.
  Output order is explicit: day, then category (reporting order, total
  first), then standard before dirtbike. Re-running over the same input
  yields identical output.

TOTAL POLICY:
  total is computed per size class: the total row for (day, dirtbike=x)
  folds only the categories with that flag. total quantity therefore
  always equals the sum of its parts for the same flag, and its mean and
  median are computed from the union of the underlying ages, never
  re-derived from sub-means.
*/
package towing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Flatten emits one AgeRow per accumulated entry for every day in the
// window, ordered by day, category, then standard before dirtbike.
func Flatten(a *Accumulator, window Period) []AgeRow {
	var rows []AgeRow
	for _, day := range window.Days() {
		for _, cat := range Categories() {
			for _, dirtbike := range []bool{false, true} {
				entries := a.Bucket(BucketKey{Day: day, Category: cat, Dirtbike: dirtbike})
				for _, e := range entries {
					rows = append(rows, AgeRow{
						Date:       day,
						PropertyID: e.PropertyID,
						VehicleAge: e.Age,
						Category:   cat,
						Dirtbike:   dirtbike,
					})
				}
			}
		}
	}
	return rows
}

// Summarize emits count/mean/median rows for every day, category and
// dirtbike flag in the window, plus the synthetic total rows.
func Summarize(a *Accumulator, window Period) []SummaryRow {
	var rows []SummaryRow
	for _, day := range window.Days() {
		for _, dirtbike := range []bool{false, true} {
			// total first, folding every category for this flag.
			var combined []AgeEntry
			for _, cat := range Categories() {
				combined = append(combined, a.Bucket(BucketKey{Day: day, Category: cat, Dirtbike: dirtbike})...)
			}
			rows = append(rows, summarizeBucket(day, CategoryTotal, dirtbike, combined))

			for _, cat := range Categories() {
				entries := a.Bucket(BucketKey{Day: day, Category: cat, Dirtbike: dirtbike})
				rows = append(rows, summarizeBucket(day, cat, dirtbike, entries))
			}
		}
	}

	// The loops above already run in output order except that the flag
	// alternates outside the category loop; sort to the documented
	// day > category > flag order.
	order := categoryOrder()
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		if rows[i].Category != rows[j].Category {
			return order[rows[i].Category] < order[rows[j].Category]
		}
		return !rows[i].Dirtbike && rows[j].Dirtbike
	})
	return rows
}

func categoryOrder() map[Category]int {
	order := map[Category]int{CategoryTotal: 0}
	for i, cat := range Categories() {
		order[cat] = i + 1
	}
	return order
}

// summarizeBucket reduces one bucket to its summary row. Empty buckets
// yield zeros, never NaN or an error.
func summarizeBucket(day Date, cat Category, dirtbike bool, entries []AgeEntry) SummaryRow {
	row := SummaryRow{
		Date:     day,
		Quantity: len(entries),
		Dirtbike: dirtbike,
		Category: cat,
	}
	if len(entries) == 0 {
		return row
	}

	ages := make([]int, len(entries))
	sum := int64(0)
	for i, e := range entries {
		ages[i] = e.Age
		sum += int64(e.Age)
	}
	sort.Ints(ages)

	count := decimal.NewFromInt(int64(len(ages)))
	row.Average = decimal.NewFromInt(sum).Div(count)
	row.MedianAge = median(ages)
	return row
}

// median of a sorted, non-empty age slice. Even lengths average the two
// middle values.
func median(sorted []int) decimal.Decimal {
	n := len(sorted)
	mid := n / 2
	if n%2 == 1 {
		return decimal.NewFromInt(int64(sorted[mid]))
	}
	lo := decimal.NewFromInt(int64(sorted[mid-1]))
	hi := decimal.NewFromInt(int64(sorted[mid]))
	return lo.Add(hi).Div(decimal.NewFromInt(2))
}
