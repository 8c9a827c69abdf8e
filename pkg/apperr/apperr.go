// Package apperr holds the error kinds the HTTP layer knows how to map.
// Packages define their own sentinels wrapping one of these.
package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalid      = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
