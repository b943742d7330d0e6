/*
errors.go - Centralized error types for the ledger container

PURPOSE:
  All structural errors of the ledger in one place. Structural errors
  abort generation: a file violating ordering or uniqueness would be
  rejected by the receiving validator anyway, and partial emission is
  forbidden.

USAGE:
  Callers match with errors.Is:

    if errors.Is(err, sintegra.ErrMissingPrerequisite) { ... }

  and pull detail with errors.As:

    var missing *sintegra.MissingPrerequisiteError
    if errors.As(err, &missing) { ... }

SEE ALSO:
  - ledger.go: Raises these errors
  - generator/errors.go: Data-quality errors of the driver
*/
package sintegra

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDuplicateUniqueRecord is returned when a unique record type is
	// appended a second time.
	ErrDuplicateUniqueRecord = errors.New("unique record already present")

	// ErrMissingPrerequisite is returned when a record is appended before
	// one of its prerequisite record types.
	ErrMissingPrerequisite = errors.New("prerequisite record not present")

	// ErrAlreadyClosed is returned when Close is called twice.
	ErrAlreadyClosed = errors.New("ledger already closed")

	// ErrLedgerClosed is returned when appending after Close.
	ErrLedgerClosed = errors.New("ledger is closed")

	// ErrNotClosed is returned when writing a ledger whose totaliser has
	// not been generated yet.
	ErrNotClosed = errors.New("ledger not closed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DuplicateUniqueRecordError names the duplicated record type.
type DuplicateUniqueRecordError struct {
	Number int
}

func (e *DuplicateUniqueRecordError) Error() string {
	return fmt.Sprintf("record %02d can only be added once", e.Number)
}

func (e *DuplicateUniqueRecordError) Unwrap() error { return ErrDuplicateUniqueRecord }

// MissingPrerequisiteError names the record that was appended too
// early and the prerequisite it lacked.
type MissingPrerequisiteError struct {
	Number  int
	Missing int
}

func (e *MissingPrerequisiteError) Error() string {
	return fmt.Sprintf("record %02d must be added before record %02d", e.Missing, e.Number)
}

func (e *MissingPrerequisiteError) Unwrap() error { return ErrMissingPrerequisite }

// IsStructural reports whether err is one of the ledger's structural
// errors. Structural errors always abort generation.
func IsStructural(err error) bool {
	return errors.Is(err, ErrDuplicateUniqueRecord) ||
		errors.Is(err, ErrMissingPrerequisite) ||
		errors.Is(err, ErrAlreadyClosed) ||
		errors.Is(err, ErrLedgerClosed) ||
		errors.Is(err, ErrNotClosed)
}
