package repositories

import "errors"

// Sentinel errors shared by every repository implementation. Services match
// on these instead of driver-specific errors, so the in-memory fakes used in
// tests can return them directly.
var (
	// ErrNotFound is returned when the referenced row or document does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when an insert violates a uniqueness constraint
	// (slug, follow edge, like relation, notification dedup tuple, username).
	ErrDuplicate = errors.New("duplicate record")
)
