package content

import (
	"errors"
	"fmt"
)

// ValidationError indicates a draft failed required-field validation.
// It is raised before any adapter call and is fully recoverable by
// correcting the input.
type ValidationError struct {
	Kind  string
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation failed: %s is required", e.Kind, e.Field)
}

// IsValidationError reports whether err is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
