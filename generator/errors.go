/*
errors.go - Data-quality errors raised while walking the domain

PURPOSE:
  The driver aborts on data it cannot represent: a supplier with no
  taxpayer id, a company supplier with no state registration, a
  malformed CFOP. Each error names the offending entity so the filing
  clerk can fix the record and re-run.

PROPAGATION:
  Data-quality errors abort the whole generation, exactly like the
  structural errors of the sintegra package. Nothing partial is ever
  returned.

SEE ALSO:
  - generator.go: Raises these errors
  - sintegra/errors.go: Structural errors of the container
*/
package generator

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidCFOP is returned for an operation code not matching the
	// dotted N.NNN form.
	ErrInvalidCFOP = errors.New("invalid CFOP code")

	// ErrMissingSupplierTaxID is returned when a supplier has neither a
	// company nor an individual taxpayer id on file.
	ErrMissingSupplierTaxID = errors.New("supplier has no taxpayer id")

	// ErrMissingStateRegistration is returned when a company supplier
	// has no state registration on file.
	ErrMissingStateRegistration = errors.New("supplier has no state registration")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidCFOPError names the malformed code and the document carrying
// it.
type InvalidCFOPError struct {
	Code     string
	Supplier string
	Document int64
}

func (e *InvalidCFOPError) Error() string {
	return fmt.Sprintf("invalid CFOP %q on document %d from %s (expected N.NNN)",
		e.Code, e.Document, e.Supplier)
}

func (e *InvalidCFOPError) Unwrap() error { return ErrInvalidCFOP }

// MissingSupplierTaxIDError names the supplier lacking a taxpayer id.
type MissingSupplierTaxIDError struct {
	Supplier string
}

func (e *MissingSupplierTaxIDError) Error() string {
	return fmt.Sprintf("supplier %s has neither a company nor an individual taxpayer id", e.Supplier)
}

func (e *MissingSupplierTaxIDError) Unwrap() error { return ErrMissingSupplierTaxID }

// MissingStateRegistrationError names the company supplier lacking a
// state registration.
type MissingStateRegistrationError struct {
	Supplier string
}

func (e *MissingStateRegistrationError) Error() string {
	return fmt.Sprintf("company supplier %s has no state registration", e.Supplier)
}

func (e *MissingStateRegistrationError) Unwrap() error { return ErrMissingStateRegistration }

// IsDataQuality reports whether err is one of the driver's
// data-quality errors.
func IsDataQuality(err error) bool {
	return errors.Is(err, ErrInvalidCFOP) ||
		errors.Is(err, ErrMissingSupplierTaxID) ||
		errors.Is(err, ErrMissingStateRegistration)
}
