package shared

import (
	"errors"
	"fmt"
)

// Domain error taxonomy shared by repositories, services and handlers.
// Repositories translate storage-level failures (gorm.ErrRecordNotFound,
// unique violations) into these so upper layers never match on driver errors.
var (
	// ErrNotFound: the referenced entity does not exist. Terminal.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict: a uniqueness constraint rejected the write. The caller
	// should retry the lookup, the constraint is the source of truth.
	ErrConflict = errors.New("resource already exists")

	// ErrConcurrency: an atomic conditional write detected a race and did
	// not apply. Recoverable by retrying with fresh state.
	ErrConcurrency = errors.New("concurrent update detected")
)

// ValidationError reports malformed or missing input. Terminal.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
