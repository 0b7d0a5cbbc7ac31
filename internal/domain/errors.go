package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrWeakPassword      = errors.New("password too weak")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrMalformedDocument = errors.New("malformed document")
)

// DocumentError reports a stored document that does not match the shape the
// application reads and writes. It unwraps to ErrMalformedDocument.
type DocumentError struct {
	Collection string
	ID         string
	Field      string
	Reason     string
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s/%s: field %q: %s", e.Collection, e.ID, e.Field, e.Reason)
}

func (e *DocumentError) Unwrap() error {
	return ErrMalformedDocument
}
