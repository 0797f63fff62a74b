package usecase

import (
	"errors"
	"fmt"
)

// Error kinds returned by services. Handlers map them to HTTP statuses with
// errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrPriceMismatch     = errors.New("price mismatch")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Error carries a client-safe message alongside its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
