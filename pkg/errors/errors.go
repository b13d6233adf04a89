package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the error type every layer hands to the HTTP response writer.
// Notes:
// 1. Code is the HTTP status the client receives (400, 405, 409, 500 ...)
// 2. Message is safe to show to the client
// 3. Err is the internal cause; it is logged and never serialized
// 4. Details carries field-level validation messages (field → message)
type AppError struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	Err     error             `json:"-"`

	// kind is the sentinel a Newf error still matches with errors.Is.
	kind *AppError
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap supports errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel an error was built from with Newf.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.kind != nil && e.kind == t
}

// WithDetails returns a copy of e carrying the given field messages.
func (e *AppError) WithDetails(details map[string]string) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// IsInternal reports whether the error must be hidden behind a generic message.
func (e *AppError) IsInternal() bool {
	return e.Code >= http.StatusInternalServerError
}

// New creates an AppError.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates an AppError that still matches sentinel via errors.Is.
// Used when a rejection needs a message built from runtime values; the
// sentinel is not part of the error text.
func Newf(sentinel *AppError, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    sentinel.Code,
		Message: fmt.Sprintf(format, args...),
		kind:    sentinel,
	}
}

// Wrap converts a low-level failure (database, network) into an internal error.
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf formats the message of an internal error.
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// Error codes (HTTP status codes)
// =========================================

const (
	ErrCodeBadRequest       = http.StatusBadRequest
	ErrCodeNotFound         = http.StatusNotFound
	ErrCodeMethodNotAllowed = http.StatusMethodNotAllowed
	ErrCodeConflict         = http.StatusConflict
	ErrCodeInternal         = http.StatusInternalServerError
)

// =========================================
// Predefined errors
// =========================================

var (
	ErrInternal = New(ErrCodeInternal, "internal server error")

	ErrInvalidParams    = New(ErrCodeBadRequest, "invalid data")
	ErrBindError        = New(ErrCodeBadRequest, "invalid request body")
	ErrNotFound         = New(ErrCodeNotFound, "resource not found")
	ErrMethodNotAllowed = New(ErrCodeMethodNotAllowed, "method not allowed")
)

// =========================================
// Helpers
// =========================================

// IsAppError reports whether err carries an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts the AppError from err, wrapping anything else as internal.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "internal server error")
}
