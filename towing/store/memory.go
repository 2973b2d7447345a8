// Package store provides in-memory implementations of the towing
// boundary interfaces, used by tests and local development.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/citydot/towstat/towing"
)

// =============================================================================
// MEMORY - In-memory record source + stats store
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	records   []towing.CustodyRecord
	summaries map[towing.BucketKey]towing.SummaryRow
	ages      map[ageKey]towing.AgeRow

	// Optional failure injection for boundary-error tests.
	FetchErr  error
	UpsertErr error
}

type ageKey struct {
	Day        towing.Date
	PropertyID string
}

func NewMemory() *Memory {
	return &Memory{
		summaries: make(map[towing.BucketKey]towing.SummaryRow),
		ages:      make(map[ageKey]towing.AgeRow),
	}
}

// Seed adds custody records to the source side.
func (m *Memory) Seed(records ...towing.CustodyRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, records...)
}

// FetchRecords returns records whose stay overlaps [from, to]. A record
// with an unset release date is treated as still on the lot.
func (m *Memory) FetchRecords(_ context.Context, from, to *towing.Date) ([]towing.CustodyRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FetchErr != nil {
		return nil, m.FetchErr
	}

	var out []towing.CustodyRecord
	for _, rec := range m.records {
		if from != nil && !rec.ReleaseDate.IsUnset() && rec.ReleaseDate.Before(*from) {
			continue
		}
		if to != nil && rec.ReceiveDate.After(*to) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *Memory) ExistingDays(_ context.Context, from, to towing.Date) (towing.DateSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	days := towing.NewDateSet()
	for k := range m.ages {
		if k.Day.AfterOrEqual(from) && k.Day.BeforeOrEqual(to) {
			days.Add(k.Day)
		}
	}
	return days, nil
}

func (m *Memory) UpsertSummaries(_ context.Context, rows []towing.SummaryRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	for _, row := range rows {
		key := towing.BucketKey{Day: row.Date, Category: row.Category, Dirtbike: row.Dirtbike}
		m.summaries[key] = row
	}
	return nil
}

func (m *Memory) UpsertAges(_ context.Context, rows []towing.AgeRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	for _, row := range rows {
		m.ages[ageKey{Day: row.Date, PropertyID: row.PropertyID}] = row
	}
	return nil
}

func (m *Memory) SummariesBetween(_ context.Context, from, to towing.Date) ([]towing.SummaryRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var rows []towing.SummaryRow
	for key, row := range m.summaries {
		if key.Day.AfterOrEqual(from) && key.Day.BeforeOrEqual(to) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		if rows[i].Category != rows[j].Category {
			return rows[i].Category < rows[j].Category
		}
		return !rows[i].Dirtbike && rows[j].Dirtbike
	})
	return rows, nil
}

func (m *Memory) AgesBetween(_ context.Context, from, to towing.Date) ([]towing.AgeRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var rows []towing.AgeRow
	for key, row := range m.ages {
		if key.Day.AfterOrEqual(from) && key.Day.BeforeOrEqual(to) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].PropertyID < rows[j].PropertyID
	})
	return rows, nil
}
