package storage

import "errors"

var (
	// ErrNotFound is returned when no content is stored under a path.
	ErrNotFound = errors.New("storage: not found")

	// ErrDigestMismatch is returned when loaded content does not match its recorded digest.
	ErrDigestMismatch = errors.New("storage: digest mismatch")
)
