package device

import "errors"

var (
	ErrNotFound     = errors.New("device not found")
	ErrInvalidAuth  = errors.New("invalid credentials")
	ErrInvalidInput = errors.New("invalid input")
)
