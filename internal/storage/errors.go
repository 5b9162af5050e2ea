package storage

import "errors"

// Errors shared by the trade, run and bucket stores.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when inserting a trade, run or bucket
	// whose key is already recorded. Trade history is never rewritten.
	ErrDuplicateKey = errors.New("duplicate key: recorded trade history is immutable")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
