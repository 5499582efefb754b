package ports

import "errors"

// Repositories return these; ledgers turn them into log lines or false
// results where the caller only needs to know nothing happened.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
