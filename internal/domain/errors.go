package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")
	// ErrStorageUnavailable indicates the persisted key-value store could
	// not be reached. Callers degrade to in-memory state instead of failing.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
