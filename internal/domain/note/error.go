package note

import (
	"errors"
)

var (
	ErrNotFound    = errors.New("note not found")
	ErrInvalidType = errors.New("invalid item type")
)
