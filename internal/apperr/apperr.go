// Package apperr defines the error taxonomy shared by the catalog, the
// providers and the HTTP layer.
//
// Every error crossing a package boundary should match exactly one of the
// kind sentinels below via errors.Is. The HTTP layer maps kinds to status
// codes; anything that matches no kind is treated as ErrInternal.
package apperr

import (
	"errors"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrInternal            = errors.New("internal error")
)

var kinds = []error{
	ErrInvalidInput,
	ErrNotFound,
	ErrConflict,
	ErrProviderUnavailable,
	ErrInternal,
}

// Error carries a kind, a client-safe message and an optional cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func New(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind error, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func InvalidInput(message string) error { return New(ErrInvalidInput, message) }

func NotFound(resource string) error { return New(ErrNotFound, resource+" not found") }

func Conflict(message string) error { return New(ErrConflict, message) }

// KindOf returns the first kind sentinel err matches, or ErrInternal.
func KindOf(err error) error {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrInternal
}

// Message returns the client-safe message of the outermost *Error in the
// chain, falling back to the kind text. Internal errors never leak causes.
func Message(err error) string {
	kind := KindOf(err)
	if kind == ErrInternal {
		return "internal server error"
	}
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return kind.Error()
}
