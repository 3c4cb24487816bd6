package domain

import "errors"

// Error kinds. Every error that should reach a client as a 4xx wraps exactly one of these.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// Error carries a client-facing message together with its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NewError builds an *Error of the given kind.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func InvalidInput(message string) error { return NewError(ErrInvalidInput, message) }

func Forbidden(message string) error { return NewError(ErrForbidden, message) }

func NotFound(message string) error { return NewError(ErrNotFound, message) }
