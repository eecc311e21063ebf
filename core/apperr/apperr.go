package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain error so callers (terminal sync, admin API) can
// decide between retrying, splitting a batch, or surfacing a hard failure.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindPermission
	KindConflict
	KindIdempotency
	KindInsufficientStock
)

// Stable error codes, kept aligned with the terminal sync protocol.
const (
	CodeValidation        = "VALIDATION"
	CodeNotFound          = "NOT_FOUND"
	CodePermissionDenied  = "PERMISSION_DENIED"
	CodeConcurrency       = "CONCURRENCY_CONFLICT"
	CodeIdempotency       = "IDEMPOTENCY_VIOLATION"
	CodeInsufficientStock = "STOCK_INSUFFICIENT"
	CodeInternal          = "INTERNAL"
)

// Error is the single error type crossing core boundaries.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps the error kind to an HTTP status for the API layer.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindPermission:
		return http.StatusForbidden
	case KindConflict, KindIdempotency, KindInsufficientStock:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind Kind, code, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return newError(KindValidation, CodeValidation, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return newError(KindNotFound, CodeNotFound, format, args...)
}

func PermissionDenied(format string, args ...interface{}) *Error {
	return newError(KindPermission, CodePermissionDenied, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newError(KindConflict, CodeConcurrency, format, args...)
}

func Idempotency(format string, args ...interface{}) *Error {
	return newError(KindIdempotency, CodeIdempotency, format, args...)
}

func InsufficientStock(format string, args ...interface{}) *Error {
	return newError(KindInsufficientStock, CodeInsufficientStock, format, args...)
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: "internal error", Err: err}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// From extracts the *Error from err, wrapping unknown errors as internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
