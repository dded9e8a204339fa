package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies an ideastore error. The set is closed.
type Kind string

const (
	KindValidation       Kind = "VALIDATION"        // 400
	KindNotFound         Kind = "NOT_FOUND"         // 404
	KindStoreUnavailable Kind = "STORE_UNAVAILABLE" // 500
	KindRemoteBlob       Kind = "REMOTE_BLOB"       // 500
	KindInternal         Kind = "INTERNAL"          // 500

	// Client-side only: the request never produced a usable response.
	KindTransport   Kind = "TRANSPORT"
	KindBadResponse Kind = "BAD_RESPONSE"
)

// Severity tells presentation layers how loudly to surface an error.
type Severity string

const (
	SeverityWarn     Severity = "warn"
	SeverityCritical Severity = "critical"
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindTransport, KindBadResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Severity returns the default severity for the kind.
func (k Kind) Severity() Severity {
	switch k {
	case KindValidation, KindNotFound, KindBadResponse:
		return SeverityWarn
	default:
		return SeverityCritical
	}
}

// Error is the structured error returned by every entry operation.
// Message is safe to show to callers; Err is the underlying cause and is only logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code for the error.
func (e *Error) Status() int { return e.Kind.Status() }

// Severity returns the error severity.
func (e *Error) Severity() Severity { return e.Kind.Severity() }

// NewValidation creates a 400 error for empty or malformed input.
func NewValidation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NewNotFound creates a 404 error.
func NewNotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// NewStoreUnavailable wraps a relational store failure.
func NewStoreUnavailable(msg string, err error) *Error {
	return &Error{Kind: KindStoreUnavailable, Message: msg, Err: err}
}

// NewRemoteBlob wraps a blob store failure other than not-found.
func NewRemoteBlob(msg string, err error) *Error {
	return &Error{Kind: KindRemoteBlob, Message: msg, Err: err}
}

// NewInternal creates a 500 error for unexpected failures.
func NewInternal(msg string, err error) *Error {
	if msg == "" {
		msg = "internal error"
	}
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// New creates an error of an arbitrary kind.
func New(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// Is reports whether err (or anything it wraps) is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// From returns err as an *Error, wrapping foreign errors as INTERNAL.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	return NewInternal("", err)
}
