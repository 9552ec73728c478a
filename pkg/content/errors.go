package content

import (
	"errors"
	"fmt"
)

// ErrorType classifies repository failures.
type ErrorType string

const (
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeUnauthorized    ErrorType = "unauthorized"
	ErrorTypeInvalidArgument ErrorType = "invalid_argument"
	ErrorTypeInternal        ErrorType = "internal"
)

// Error is the typed error returned by content services and the view layer.
type Error struct {
	Type    ErrorType      `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Cause   error          `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a single detail to the error.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause attaches an underlying error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// NotFound reports a missing object of the given kind, e.g.
// NotFound("ContentType", "article").
func NotFound(kind string, identifier any) *Error {
	return (&Error{
		Type:    ErrorTypeNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("could not find %s with identifier %v", kind, identifier),
	}).WithDetail("kind", kind).WithDetail("identifier", identifier)
}

// Unauthorized reports a missing module/function permission.
func Unauthorized(module, function string) *Error {
	return (&Error{
		Type:    ErrorTypeUnauthorized,
		Code:    "UNAUTHORIZED",
		Message: fmt.Sprintf("user does not have access to %s/%s", module, function),
	}).WithDetail("module", module).WithDetail("function", function)
}

// InvalidArgument reports a malformed argument.
func InvalidArgument(argument, message string) *Error {
	return (&Error{
		Type:    ErrorTypeInvalidArgument,
		Code:    "INVALID_ARGUMENT",
		Message: fmt.Sprintf("argument %q is invalid: %s", argument, message),
	}).WithDetail("argument", argument)
}

// Internal wraps an unexpected storage failure.
func Internal(message string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeInternal,
		Code:    "INTERNAL",
		Message: message,
		Cause:   cause,
	}
}

// IsNotFound reports whether err carries a not_found content error.
func IsNotFound(err error) bool {
	return hasType(err, ErrorTypeNotFound)
}

// IsUnauthorized reports whether err carries an unauthorized content error.
func IsUnauthorized(err error) bool {
	return hasType(err, ErrorTypeUnauthorized)
}

// IsInvalidArgument reports whether err carries an invalid_argument error.
func IsInvalidArgument(err error) bool {
	return hasType(err, ErrorTypeInvalidArgument)
}

func hasType(err error, t ErrorType) bool {
	var target *Error
	if errors.As(err, &target) {
		return target.Type == t
	}
	return false
}
