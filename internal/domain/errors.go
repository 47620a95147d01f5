package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCardNotFound is returned when a card id is not in the store
	ErrCardNotFound = errors.New("card not found")

	// ErrStoreConflict is returned when a compare-and-swap loses to a concurrent write
	ErrStoreConflict = errors.New("card was modified concurrently")

	// ErrSpreadsheetIDRequired is returned when neither config nor request name a spreadsheet
	ErrSpreadsheetIDRequired = errors.New("spreadsheet id is required")

	// ErrSpreadsheetNotFound is returned when the spreadsheet lookup fails
	ErrSpreadsheetNotFound = errors.New("spreadsheet not found")

	// ErrSheetsNotConfigured is returned when no spreadsheet credentials are available
	ErrSheetsNotConfigured = errors.New("spreadsheet credentials not configured")

	// ErrSheetsAPIFailure is returned when the spreadsheet service rejects a call
	ErrSheetsAPIFailure = errors.New("spreadsheet API request failed")

	// ErrRowValidation is returned when a built row breaks an export invariant
	ErrRowValidation = errors.New("row validation failed")
)

// ValidationError describes which row invariant was violated before a write
type ValidationError struct {
	Rule   string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrRowValidation, e.Rule, e.Detail)
}

func (e *ValidationError) Unwrap() error {
	return ErrRowValidation
}
