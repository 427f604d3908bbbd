package models

import "errors"

var (
	// ErrMalformedInput marks requests whose timestamps or coordinates cannot be parsed
	ErrMalformedInput = errors.New("malformed input")

	// ErrNotFound is returned when a stored record does not exist
	ErrNotFound = errors.New("not found")
)
