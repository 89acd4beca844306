// Package apperr defines the error taxonomy shared by every layer.
// Handlers map kinds to HTTP statuses; nothing in the codebase matches
// on error strings.
package apperr

import (
	"errors"
	"fmt"
	"time"
)

type Kind int

const (
	// KindInternal is the zero value so that an unclassified error is
	// always treated as an internal one.
	KindInternal Kind = iota
	KindValidation
	KindRateLimited
	KindNotFound
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindRateLimited:
		return "RATE_LIMITED"
	case KindNotFound:
		return "NOT_FOUND"
	case KindTransient:
		return "TRANSIENT"
	default:
		return "INTERNAL"
	}
}

// Error carries a kind, a caller-safe message and an optional wrapped cause.
// RetryAfter is set only on rate-limited errors.
type Error struct {
	Kind       Kind
	Message    string
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// RateLimited builds a KindRateLimited error with a retry hint for the
// Retry-After header.
func RateLimited(message string, retryAfter time.Duration) *Error {
	return &Error{Kind: KindRateLimited, Message: message, RetryAfter: retryAfter}
}

// KindOf extracts the kind from an error chain. Errors that do not carry a
// kind are reported as KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
