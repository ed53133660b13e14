// Package apperr defines the closed error taxonomy the core returns and
// the single place that taxonomy is translated into an HTTP response.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a closed set of error categories. Every error the core returns
// to its caller carries one of these; nothing else escapes to the HTTP
// boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindBadInput
	KindNotFound
	KindConflict
	KindUpstreamTimeout
	KindUpstreamError
	KindGenerationError
)

func (k Kind) status() int {
	switch k {
	case KindBadInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUpstreamTimeout:
		return http.StatusGatewayTimeout
	case KindUpstreamError:
		return http.StatusBadGateway
	case KindGenerationError:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Error is the concrete type carried through the core. detail is the
// one-line, safe-to-show message; cause is logged but never serialized.
type Error struct {
	Kind   Kind
	detail string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.detail, e.cause)
	}
	return e.detail
}

func (e *Error) Unwrap() error { return e.cause }

// Status returns the HTTP status code this error maps to.
func (e *Error) Status() int { return e.Kind.status() }

// Detail returns the one-line message safe to return to a client.
func (e *Error) Detail() string { return e.detail }

func new(k Kind, detail string, cause error) *Error {
	return &Error{Kind: k, detail: detail, cause: cause}
}

func BadInput(detail string, cause error) *Error       { return new(KindBadInput, detail, cause) }
func NotFound(detail string, cause error) *Error       { return new(KindNotFound, detail, cause) }
func Conflict(detail string, cause error) *Error       { return new(KindConflict, detail, cause) }
func UpstreamTimeout(detail string, cause error) *Error { return new(KindUpstreamTimeout, detail, cause) }
func UpstreamError(detail string, cause error) *Error  { return new(KindUpstreamError, detail, cause) }
func Generation(detail string, cause error) *Error     { return new(KindGenerationError, detail, cause) }
func Internal(detail string, cause error) *Error       { return new(KindInternal, detail, cause) }

// As extracts an *Error from err, or wraps err as an InternalError if it
// isn't already one of ours.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal("internal error", err)
}
