package insurance

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error. Repositories return these as values; no
// error in this module crosses a boundary as a panic.
type Kind string

const (
	// KindValidation marks malformed or illegal input.
	KindValidation Kind = "validation"
	// KindNotFound marks a referenced client, policy or user that is absent.
	KindNotFound Kind = "not_found"
	// KindConflict marks an illegal state transition or a blocked mutation.
	KindConflict Kind = "conflict"
	// KindUnauthorized marks an actor operating on a record it does not own.
	KindUnauthorized Kind = "unauthorized"
	// KindInternal marks an infrastructure failure (database, cache backend).
	KindInternal Kind = "internal"
)

// Error is the domain error type shared by the core and its repositories.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.Err }

// Validation builds a KindValidation error.
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NotFound builds a KindNotFound error.
func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Conflict builds a KindConflict error.
func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Unauthorized builds a KindUnauthorized error.
func Unauthorized(msg string) error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// Internal wraps an infrastructure failure. The cause is preserved for the
// failure recorder; callers only see the generic message.
func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf extracts the Kind of err, or KindInternal for foreign errors so that
// unexpected failures are always treated (and recorded) as infrastructure
// problems.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// IsDomain reports whether err is a domain-level outcome (validation, not
// found, conflict, unauthorized) as opposed to an infrastructure failure.
func IsDomain(err error) bool {
	switch KindOf(err) {
	case KindValidation, KindNotFound, KindConflict, KindUnauthorized:
		return true
	}
	return false
}
