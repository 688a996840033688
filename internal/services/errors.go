package services

import (
	"errors"
	"fmt"
)

// Kind categorizes service errors with a stable tag the HTTP boundary maps
// to a status code. Internal details never ride along; the message is the
// caller-visible text.
type Kind string

const (
	// KindUnauthenticated indicates the caller identity could not be resolved.
	KindUnauthenticated Kind = "UNAUTHENTICATED"

	// KindNotFound indicates a referenced account or writeup does not exist.
	KindNotFound Kind = "NOT_FOUND"

	// KindForbidden indicates the caller lacks authorization for the action.
	KindForbidden Kind = "FORBIDDEN"

	// KindInvalidInput indicates a malformed or missing required field.
	KindInvalidInput Kind = "INVALID_INPUT"

	// KindConflict indicates a uniqueness constraint was violated concurrently.
	KindConflict Kind = "CONFLICT"

	// KindStoreUnavailable indicates an underlying datastore failure.
	KindStoreUnavailable Kind = "STORE_UNAVAILABLE"
)

// Error is the structured error every service operation returns on failure.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.cause }

// NewError builds a service error with the given kind and message.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// StoreError wraps a datastore failure. The caller-visible message stays
// generic; the cause is kept for logs only.
func StoreError(cause error) *Error {
	return &Error{Kind: KindStoreUnavailable, Message: "storage failure", cause: cause}
}

// KindOf extracts the kind tag from err, or KindStoreUnavailable when err is
// not a service error (nothing untagged may cross the operation boundary).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStoreUnavailable
}
