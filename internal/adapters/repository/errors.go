package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound      = errors.New("lineup not found")
	ErrInvalidLineup = errors.New("invalid lineup")
	ErrClosed        = errors.New("store closed")
)
