/*
Package sqlite provides the SQLite-backed record source and stats store.

PURPOSE:
  Implements both towing boundary interfaces (RecordSource, StatsStore)
  against a local SQLite database. Production deployments point the
  source at an extract of the lot system and the sink at the reporting
  database; the SQL here carries over to other engines with only dialect
  changes (the original reporting target used MERGE where this uses
  INSERT .. ON CONFLICT).

KEY TABLES:
  custody_records:    Source side - one row per vehicle stay
  towstat_bydate:     Per-day summary (quantity, average, medianage)
                      keyed (date, category, dirtbike)
  towstat_agebydate:  Per-vehicle-per-day ages keyed (date, property_id)

UPSERT:
  Both sinks are idempotent by key. Each Upsert* call runs in one
  database transaction: every row lands or none do. Re-running a day
  replaces its rows instead of duplicating them.

DATES:
  Stored as Y-M-D text. Unset dates (the upstream 1899-12-31 sentinel)
  are stored as NULL, never as the sentinel itself.

WAL MODE:
  Opened with WAL so the dashboard API can read while a run writes.

USAGE:
  st, err := sqlite.New("./towstat.db")
  if err != nil { ... }
  defer st.Close()

SEE ALSO:
  - towing/store.go: Interface contracts
  - towing/store/memory.go: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/citydot/towstat/towing"
)

// Store implements towing.RecordSource and towing.StatsStore.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at path and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Source side: one row per vehicle stay
	CREATE TABLE IF NOT EXISTS custody_records (
		property_id TEXT PRIMARY KEY,
		receive_date TEXT NOT NULL,
		release_date TEXT,
		pickup_code TEXT NOT NULL DEFAULT '',
		code_change_date TEXT,
		original_code TEXT NOT NULL DEFAULT '',
		property_type TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_custody_receive
		ON custody_records(receive_date);
	CREATE INDEX IF NOT EXISTS idx_custody_release
		ON custody_records(release_date);

	-- Per-day summary, keyed (date, category, dirtbike)
	CREATE TABLE IF NOT EXISTS towstat_bydate (
		date TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		average TEXT NOT NULL,
		medianage TEXT NOT NULL,
		dirtbike INTEGER NOT NULL,
		category TEXT NOT NULL,
		PRIMARY KEY (date, category, dirtbike)
	);

	-- Per-vehicle ages, keyed (date, property_id)
	CREATE TABLE IF NOT EXISTS towstat_agebydate (
		date TEXT NOT NULL,
		property_id TEXT NOT NULL,
		vehicle_age INTEGER NOT NULL,
		category TEXT NOT NULL,
		dirtbike INTEGER NOT NULL,
		PRIMARY KEY (date, property_id)
	);

	CREATE INDEX IF NOT EXISTS idx_agebydate_date
		ON towstat_agebydate(date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RECORD SOURCE
// =============================================================================

// InsertRecords loads custody rows into the source table (replacing rows
// with the same property id). Used by tests and the local ingest path.
func (s *Store) InsertRecords(ctx context.Context, records []towing.CustodyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO custody_records
			(property_id, receive_date, release_date, pickup_code, code_change_date, original_code, property_type)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(property_id) DO UPDATE SET
			receive_date = excluded.receive_date,
			release_date = excluded.release_date,
			pickup_code = excluded.pickup_code,
			code_change_date = excluded.code_change_date,
			original_code = excluded.original_code,
			property_type = excluded.property_type`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			rec.PropertyID,
			rec.ReceiveDate.String(),
			nullableDate(rec.ReleaseDate),
			rec.CurrentCode,
			nullableDate(rec.CodeChangeDate),
			rec.OriginalCode,
			rec.SizeClass,
		)
		if err != nil {
			return fmt.Errorf("failed to insert record %s: %w", rec.PropertyID, err)
		}
	}
	return tx.Commit()
}

// FetchRecords returns custody rows whose stay overlaps [from, to].
// Rows with a NULL release date count as still on the lot. Either bound
// may be nil.
func (s *Store) FetchRecords(ctx context.Context, from, to *towing.Date) ([]towing.CustodyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT property_id, receive_date, release_date, pickup_code, code_change_date, original_code, property_type
		FROM custody_records`
	var conds []string
	var args []any
	if from != nil {
		conds = append(conds, "(release_date IS NULL OR release_date >= ?)")
		args = append(args, from.String())
	}
	if to != nil {
		conds = append(conds, "receive_date <= ?")
		args = append(args, to.String())
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query custody records: %w", err)
	}
	defer rows.Close()

	var records []towing.CustodyRecord
	for rows.Next() {
		var rec towing.CustodyRecord
		var receive string
		var release, change sql.NullString
		if err := rows.Scan(&rec.PropertyID, &receive, &release, &rec.CurrentCode, &change, &rec.OriginalCode, &rec.SizeClass); err != nil {
			return nil, fmt.Errorf("failed to scan custody record: %w", err)
		}
		if rec.ReceiveDate, err = towing.ParseDate(receive); err != nil {
			return nil, fmt.Errorf("bad receive_date for %s: %w", rec.PropertyID, err)
		}
		if rec.ReleaseDate, err = scanDate(release); err != nil {
			return nil, fmt.Errorf("bad release_date for %s: %w", rec.PropertyID, err)
		}
		if rec.CodeChangeDate, err = scanDate(change); err != nil {
			return nil, fmt.Errorf("bad code_change_date for %s: %w", rec.PropertyID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// =============================================================================
// STATS STORE
// =============================================================================

func (s *Store) ExistingDays(ctx context.Context, from, to towing.Date) (towing.DateSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT date FROM towstat_agebydate
		WHERE date >= ? AND date <= ?`,
		from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query existing days: %w", err)
	}
	defer rows.Close()

	days := towing.NewDateSet()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan date: %w", err)
		}
		d, err := towing.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("bad stored date %q: %w", raw, err)
		}
		days.Add(d)
	}
	return days, rows.Err()
}

func (s *Store) UpsertSummaries(ctx context.Context, rows []towing.SummaryRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO towstat_bydate (date, quantity, average, medianage, dirtbike, category)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(date, category, dirtbike) DO UPDATE SET
			quantity = excluded.quantity,
			average = excluded.average,
			medianage = excluded.medianage`)
	if err != nil {
		return fmt.Errorf("failed to prepare summary upsert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err := stmt.ExecContext(ctx,
			row.Date.String(),
			row.Quantity,
			row.Average.String(),
			row.MedianAge.String(),
			boolToInt(row.Dirtbike),
			string(row.Category),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert summary %s/%s: %w", row.Date, row.Category, err)
		}
	}
	return tx.Commit()
}

func (s *Store) UpsertAges(ctx context.Context, rows []towing.AgeRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO towstat_agebydate (date, property_id, vehicle_age, category, dirtbike)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date, property_id) DO UPDATE SET
			vehicle_age = excluded.vehicle_age,
			category = excluded.category,
			dirtbike = excluded.dirtbike`)
	if err != nil {
		return fmt.Errorf("failed to prepare age upsert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err := stmt.ExecContext(ctx,
			row.Date.String(),
			row.PropertyID,
			row.VehicleAge,
			string(row.Category),
			boolToInt(row.Dirtbike),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert age row %s/%s: %w", row.Date, row.PropertyID, err)
		}
	}
	return tx.Commit()
}

func (s *Store) SummariesBetween(ctx context.Context, from, to towing.Date) ([]towing.SummaryRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, quantity, average, medianage, dirtbike, category
		FROM towstat_bydate
		WHERE date >= ? AND date <= ?
		ORDER BY date, category, dirtbike`,
		from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer rows.Close()

	var out []towing.SummaryRow
	for rows.Next() {
		var row towing.SummaryRow
		var date, average, medianage, category string
		var dirtbike int
		if err := rows.Scan(&date, &row.Quantity, &average, &medianage, &dirtbike, &category); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		if row.Date, err = towing.ParseDate(date); err != nil {
			return nil, fmt.Errorf("bad stored date %q: %w", date, err)
		}
		if row.Average, err = decimal.NewFromString(average); err != nil {
			return nil, fmt.Errorf("bad stored average %q: %w", average, err)
		}
		if row.MedianAge, err = decimal.NewFromString(medianage); err != nil {
			return nil, fmt.Errorf("bad stored medianage %q: %w", medianage, err)
		}
		row.Dirtbike = dirtbike != 0
		row.Category = towing.Category(category)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) AgesBetween(ctx context.Context, from, to towing.Date) ([]towing.AgeRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, property_id, vehicle_age, category, dirtbike
		FROM towstat_agebydate
		WHERE date >= ? AND date <= ?
		ORDER BY date, property_id`,
		from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query age rows: %w", err)
	}
	defer rows.Close()

	var out []towing.AgeRow
	for rows.Next() {
		var row towing.AgeRow
		var date, category string
		var dirtbike int
		if err := rows.Scan(&date, &row.PropertyID, &row.VehicleAge, &category, &dirtbike); err != nil {
			return nil, fmt.Errorf("failed to scan age row: %w", err)
		}
		if row.Date, err = towing.ParseDate(date); err != nil {
			return nil, fmt.Errorf("bad stored date %q: %w", date, err)
		}
		row.Category = towing.Category(category)
		row.Dirtbike = dirtbike != 0
		out = append(out, row)
	}
	return out, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func nullableDate(d towing.Date) any {
	if d.IsUnset() {
		return nil
	}
	return d.String()
}

func scanDate(v sql.NullString) (towing.Date, error) {
	if !v.Valid {
		return towing.Sentinel(), nil
	}
	return towing.ParseDate(v.String)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
