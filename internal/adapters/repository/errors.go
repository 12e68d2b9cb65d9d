package repository

import "errors"

// Sentinel kinds for game store errors.
var (
	ErrNotFound      = errors.New("game not found")
	ErrInvalidImport = errors.New("invalid import payload")
	ErrPersist       = errors.New("persist store failed")
)
