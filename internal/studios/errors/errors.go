package errors

import "errors"

var (
	ErrNotFound  = errors.New("studio not found")
	ErrInvalidID = errors.New("invalid studio ID")
)
