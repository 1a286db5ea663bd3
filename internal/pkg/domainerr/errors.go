// Package domainerr defines the tagged-variant error taxonomy shared by every
// layer of the capsule core. No exception type from a dependency (sql driver,
// validation library, broker client) is allowed to cross a service boundary
// as itself; it is always wrapped into one of the Kinds below first.
package domainerr

import (
	"errors"
	"fmt"
)

// Kind is the closed set of error categories the facade and HTTP layer agree on.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindForbidden         Kind = "forbidden"
	KindIllegalTransition Kind = "illegal_transition"
	KindInvalidUnlockTime Kind = "invalid_unlock_time"
	KindInvalidInput      Kind = "invalid_input"
	KindConflict          Kind = "conflict"
	KindRateLimited       Kind = "rate_limited"
	KindInternal          Kind = "internal"
)

// Error is the single error type returned across the capsule core boundary.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Is satisfies errors.Is(err, target) when target is an *Error with the same
// Kind; the Reason and wrapped Err of either side are not compared. For a
// plain Kind check, see KindOf.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

func Wrap(kind Kind, reason string, err error) *Error {
	return &Error{Kind: kind, Reason: reason, Err: err}
}

// KindOf extracts the Kind from err if it is (or wraps) a *Error, defaulting
// to KindInternal for anything unrecognized — the HTTP layer never leaks a
// bare driver/library error type.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func NotFound(reason string) *Error          { return New(KindNotFound, reason) }
func Forbidden(reason string) *Error         { return New(KindForbidden, reason) }
func IllegalTransition(reason string) *Error { return New(KindIllegalTransition, reason) }
func InvalidUnlockTime(reason string) *Error { return New(KindInvalidUnlockTime, reason) }
func InvalidInput(reason string) *Error      { return New(KindInvalidInput, reason) }
func Conflict(reason string) *Error          { return New(KindConflict, reason) }
func RateLimited(reason string) *Error       { return New(KindRateLimited, reason) }
func Internal(reason string, err error) *Error {
	return Wrap(KindInternal, reason, err)
}
