package errors

import "errors"

var (
	ErrNotFound = errors.New("availability not found")

	ErrInvalidID = errors.New("invalid studio ID format")
)
