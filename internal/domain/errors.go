package domain

import "errors"

var (
	// ErrInvalidInput marks a request the user must correct.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a reference to an item that does not exist.
	ErrNotFound = errors.New("not found")
)
