// Package serrors provides coded errors shared across modules. Errors carry a
// stable machine-readable code so callers can match on category with
// errors.Is regardless of the human-readable message.
package serrors

import "fmt"

type Base struct {
	Code    string
	Message string
	Details string
}

func NewError(code, message, details string) *Base {
	return &Base{Code: code, Message: message, Details: details}
}

func (e *Base) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches errors by code, so a detailed instance compares equal to the
// sentinel of the same category.
func (e *Base) Is(target error) bool {
	t, ok := target.(*Base)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrUnauthenticated = NewError("UNAUTHENTICATED", "authentication required", "")
	ErrForbidden       = NewError("FORBIDDEN", "access denied", "")
	ErrNotFound        = NewError("NOT_FOUND", "entity not found", "")
	ErrValidation      = NewError("VALIDATION_ERROR", "validation failed", "")
	ErrConflict        = NewError("CONFLICT", "conflicting state", "")
)

func Forbidden(details string) *Base {
	return NewError(ErrForbidden.Code, ErrForbidden.Message, details)
}

func NotFound(details string) *Base {
	return NewError(ErrNotFound.Code, ErrNotFound.Message, details)
}

func Validation(details string) *Base {
	return NewError(ErrValidation.Code, ErrValidation.Message, details)
}

func Conflict(details string) *Base {
	return NewError(ErrConflict.Code, ErrConflict.Message, details)
}
