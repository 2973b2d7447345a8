/*
errors.go - Centralized error types for the aggregation engine

PURPOSE:
  All error types in one place. The engine distinguishes three failure
  classes and callers are expected to branch on them:

  1. Data-quality issues - dirty rows from the lot system (e.g. a sentinel
     receive date). The offending record is skipped and reported; the run
     continues. Wraps ErrBadRecord.
  2. Contract violations - a caller bug (negative age offset, release
     before receive on real dates). The call fails immediately. Wraps
     ErrContract.
  3. Boundary I/O failures - the record source or stats store failed.
     Surfaced to the caller as a failed run; never retried inside the
     core. Wraps ErrSourceUnavailable / ErrStoreUnavailable.

USAGE:
  if towing.IsDataQuality(err) {
      log.Warn(...)  // skip the record, keep going
  }

SEE ALSO:
  - expand.go: Produces contract and data-quality errors
  - runner: Wraps boundary failures with the collaborator that failed
*/
package towing

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrContract marks a programming error in the caller, never dirty data.
	ErrContract = errors.New("contract violation")

	// ErrBadRecord marks a data-quality problem in an input record.
	ErrBadRecord = errors.New("bad custody record")

	// ErrSourceUnavailable is wrapped by record-source I/O failures.
	ErrSourceUnavailable = errors.New("record source unavailable")

	// ErrStoreUnavailable is wrapped by stats-store I/O failures.
	ErrStoreUnavailable = errors.New("stats store unavailable")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// BadRecordError reports a skippable record with its identity attached.
type BadRecordError struct {
	PropertyID string
	Reason     string
}

func (e *BadRecordError) Error() string {
	return fmt.Sprintf("bad custody record %s: %s", e.PropertyID, e.Reason)
}

func (e *BadRecordError) Unwrap() error { return ErrBadRecord }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsDataQuality returns true if the error means "skip this record and
// keep going".
func IsDataQuality(err error) bool {
	return errors.Is(err, ErrBadRecord)
}

// IsContract returns true if the error indicates a bug in the caller.
func IsContract(err error) bool {
	return errors.Is(err, ErrContract)
}
