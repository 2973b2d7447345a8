/*
Package runner drives one aggregation run end to end.

PURPOSE:
  Wires the boundary collaborators around the pure core: plan the days
  that need work, pull custody records, expand and accumulate them,
  reduce to rows, and upsert into the stats store. One invocation is one
  complete run; the runner keeps no state between runs.

FLOW (per planned day, mirroring how the nightly job is scheduled):
  ExistingDays -> Plan -> FetchRecords -> ExpandRecord* -> Accumulator
  -> Flatten/Summarize -> Upsert*

ERROR POLICY:
  - Data-quality records are logged at warn level, counted, and skipped;
    the run continues.
  - Sink writes are retried with bounded exponential backoff; retry
    lives here at the boundary, never inside the core.
  - A collaborator failure aborts the run with an error naming the
    collaborator. Days already upserted stay: the keyed upsert makes
    re-running the window safe.

CANCELLATION:
  Coarse-grained. The context is checked between days and between
  records; no mid-interval suspension.
*/
package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/citydot/towstat/logging"
	"github.com/citydot/towstat/towing"
)

// Mode selects which output shape(s) a run writes.
type Mode string

const (
	ModeSummary Mode = "summary"
	ModeAges    Mode = "ages"
	ModeBoth    Mode = "both"
)

// ParseMode validates a mode string from the CLI.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSummary, ModeAges, ModeBoth:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q (want summary, ages, or both)", s)
}

// Options configures one run.
type Options struct {
	Window towing.Period
	Force  bool
	Mode   Mode
	// AsOf substitutes for unset release dates; zero means today.
	AsOf towing.Date
}

// Report summarizes what a run did.
type Report struct {
	RunID         string
	DaysPlanned   int
	DaysProcessed int
	Records       int
	Skipped       int
	SummaryRows   int
	AgeRows       int
}

// Runner holds the collaborators for one or more runs. Collaborators are
// injected; the runner owns nothing it talks to.
type Runner struct {
	source     towing.RecordSource
	store      towing.StatsStore
	classifier *towing.Classifier
	log        *logging.Logger
}

func New(source towing.RecordSource, store towing.StatsStore, classifier *towing.Classifier, log *logging.Logger) *Runner {
	return &Runner{source: source, store: store, classifier: classifier, log: log}
}

// Run executes one aggregation run over the requested window.
func (r *Runner) Run(ctx context.Context, opts Options) (Report, error) {
	report := Report{RunID: uuid.NewString()}
	log := r.log.WithRun(report.RunID)

	mode := opts.Mode
	if mode == "" {
		mode = ModeBoth
	}
	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = towing.Today()
	}

	existing := towing.NewDateSet()
	if !opts.Force {
		var err error
		existing, err = r.store.ExistingDays(ctx, opts.Window.Start, opts.Window.End)
		if err != nil {
			return report, fmt.Errorf("%w: querying existing days: %w", towing.ErrStoreUnavailable, err)
		}
	}

	days := towing.Plan(opts.Window, existing, opts.Force)
	report.DaysPlanned = len(days)
	log.WithField("window", opts.Window.String()).
		WithField("days", len(days)).
		WithField("force", opts.Force).
		Info("run planned")

	expander := towing.NewExpander(r.classifier, asOf)

	for _, day := range days {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := r.processDay(ctx, log, expander, day, mode, &report); err != nil {
			return report, err
		}
		report.DaysProcessed++
	}

	log.WithField("days_processed", report.DaysProcessed).
		WithField("records", report.Records).
		WithField("skipped", report.Skipped).
		WithField("summary_rows", report.SummaryRows).
		WithField("age_rows", report.AgeRows).
		Info("run complete")
	return report, nil
}

func (r *Runner) processDay(ctx context.Context, log *logrus.Entry, expander *towing.Expander, day towing.Date, mode Mode, report *Report) error {
	records, err := r.source.FetchRecords(ctx, &day, &day)
	if err != nil {
		return fmt.Errorf("%w: fetching records for %s: %w", towing.ErrSourceUnavailable, day, err)
	}

	acc := towing.NewAccumulator()
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		expansions, err := expander.ExpandRecord(rec)
		if err != nil {
			if towing.IsDataQuality(err) {
				log.WithError(err).WithField("property_id", rec.PropertyID).Warn("skipping record")
				report.Skipped++
				continue
			}
			// Contract violations are bugs; fail the run loudly.
			return err
		}
		for _, x := range expansions {
			acc.AddExpansion(x)
		}
		report.Records++
	}

	window := towing.SingleDay(day)

	if mode == ModeSummary || mode == ModeBoth {
		rows := towing.Summarize(acc, window)
		if err := r.upsert(ctx, func() error { return r.store.UpsertSummaries(ctx, rows) }); err != nil {
			return fmt.Errorf("%w: upserting summaries for %s: %w", towing.ErrStoreUnavailable, day, err)
		}
		report.SummaryRows += len(rows)
	}
	if mode == ModeAges || mode == ModeBoth {
		rows := towing.Flatten(acc, window)
		if err := r.upsert(ctx, func() error { return r.store.UpsertAges(ctx, rows) }); err != nil {
			return fmt.Errorf("%w: upserting ages for %s: %w", towing.ErrStoreUnavailable, day, err)
		}
		report.AgeRows += len(rows)
	}
	return nil
}

// upsert retries transient sink failures a few times before giving up.
func (r *Runner) upsert(ctx context.Context, op func() error) error {
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	return backoff.Retry(func() error {
		err := op()
		if err != nil && errors.Is(err, context.Canceled) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
}
