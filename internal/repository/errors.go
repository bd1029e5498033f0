package repository

import "errors"

// Shared repository errors. Infrastructure implementations map their
// driver-specific failures onto these so the service layer can branch with
// errors.Is without knowing the backing store.
var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry means a write violated a unique constraint.
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
)

var (
	ErrBoardNotFound = ErrNotFound
)
