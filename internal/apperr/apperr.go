// Package apperr holds the error taxonomy shared by the catalog and the
// loan ledger. Every error here is recoverable: validation failures and
// missing records surface as inline messages or silent no-ops, never as
// a crash.
package apperr

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrNotFound marks a mutation that targeted an id absent from the
// collection. Callers treat it as an idempotent no-op.
var ErrNotFound = errors.New("record not found")

// ValidationError reports a single rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidation builds a ValidationError for one field.
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// FromValidator maps the first field error reported by validator/v10 to a
// ValidationError.
func FromValidator(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		reason := "is required"
		switch fe.Tag() {
		case "gte", "min":
			reason = fmt.Sprintf("must be at least %s", fe.Param())
		case "lte", "max":
			reason = fmt.Sprintf("must be at most %s", fe.Param())
		}
		return &ValidationError{Field: fe.Field(), Reason: reason}
	}
	return err
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
