package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
)

// ValidationError is malformed caller input, rejected before any backend call.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func NewValidationError(field, value, msg string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: msg,
	}
}

func NewValidationErrorf(field, value, format string, args ...any) *ValidationError {
	return NewValidationError(field, value, fmt.Sprintf(format, args...))
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusBadRequest, e.Error()).AddMetaValue("field", e.Field).AddMetaValue("value", e.Value)
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return stderrors.As(err, &validationErr)
}

// As is errors.As, re-exported so callers importing this package need not alias the standard one.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Is is errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// ErrNotFound is returned by writes that target a listing that does not exist.
var ErrNotFound = stderrors.New("listing not found")
