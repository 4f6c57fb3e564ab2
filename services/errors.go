package services

import (
	"errors"
	"fmt"
)

// ValidationError rejects bad input before any write. Routes translate it
// to a 400 so the client can correct the form and retry.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// SkipUnitError marks a unit that cannot be scheduled (absent or
// unparseable move-in date). Bulk generation logs it and moves on; it is
// never a hard failure.
type SkipUnitError struct {
	UnitID uint
	Reason string
}

func (e *SkipUnitError) Error() string {
	return fmt.Sprintf("unit %d skipped: %s", e.UnitID, e.Reason)
}

func IsSkipUnit(err error) bool {
	var se *SkipUnitError
	return errors.As(err, &se)
}
