/*
store.go - Boundary interfaces for the record source and stats sink

PURPOSE:
  The core never talks to a database directly. It consumes custody rows
  through RecordSource and writes reduced rows through StatsStore. All
  retry policy, connection handling, and SQL lives behind these
  interfaces.

UPSERT CONTRACT:
  UpsertSummaries keys on (date, category, dirtbike); UpsertAges keys on
  (date, property_id). A repeated upsert for the same key replaces the
  row, so re-running a day is always safe. Each call is atomic: either
  every row in the batch lands or none do.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite store (source and sink)
  - towing/store: in-memory implementation for tests and dev

SEE ALSO:
  - plan.go: Uses ExistingDays via the planner
  - runner: Drives a full run over these interfaces
*/
package towing

import "context"

// RecordSource yields custody records whose stay overlaps the window.
// Either bound may be nil for an open-ended query. Order is unspecified;
// the core does not rely on it.
type RecordSource interface {
	FetchRecords(ctx context.Context, from, to *Date) ([]CustodyRecord, error)
}

// StatsStore is the reporting sink (and its read side, used by the API
// and exporters).
type StatsStore interface {
	// ExistingDays returns the distinct dates already present in the
	// per-vehicle table within [from, to].
	ExistingDays(ctx context.Context, from, to Date) (DateSet, error)

	// UpsertSummaries writes summary rows, keyed (date, category, dirtbike).
	UpsertSummaries(ctx context.Context, rows []SummaryRow) error

	// UpsertAges writes per-vehicle rows, keyed (date, property_id).
	UpsertAges(ctx context.Context, rows []AgeRow) error

	// SummariesBetween reads summary rows for [from, to], ordered by
	// date, category, dirtbike.
	SummariesBetween(ctx context.Context, from, to Date) ([]SummaryRow, error)

	// AgesBetween reads per-vehicle rows for [from, to], ordered by
	// date, property id.
	AgesBetween(ctx context.Context, from, to Date) ([]AgeRow, error)
}
