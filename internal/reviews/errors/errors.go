package errors

import "errors"

var (
	ErrNotFound  = errors.New("review not found")
	ErrInvalidID = errors.New("invalid review ID")
	ErrDuplicate = errors.New("review already exists")
)
