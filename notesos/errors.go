package notesos

import (
	"errors"
	"fmt"
)

// ErrorCode represents a categorized error type.
type ErrorCode int

const (
	ErrorUnknown ErrorCode = iota

	// Server-side errors surfaced through the API or the channel close.
	ErrorUnauthorized
	ErrorNotFound
	ErrorValidation
	ErrorRateLimited
	ErrorInternalServer

	// Client-side errors.
	ErrorConnection
	ErrorDisconnected
	ErrorTimeout
	ErrorInvalidConfig
	ErrorNotConnected
	ErrorSerialization
	ErrorExhausted
)

// String returns the string representation of an ErrorCode.
func (e ErrorCode) String() string {
	switch e {
	case ErrorUnknown:
		return "unknown"
	case ErrorUnauthorized:
		return "unauthorized"
	case ErrorNotFound:
		return "not_found"
	case ErrorValidation:
		return "validation_error"
	case ErrorRateLimited:
		return "rate_limited"
	case ErrorInternalServer:
		return "internal_error"
	case ErrorConnection:
		return "connection_error"
	case ErrorDisconnected:
		return "disconnected"
	case ErrorTimeout:
		return "timeout"
	case ErrorInvalidConfig:
		return "invalid_config"
	case ErrorNotConnected:
		return "not_connected"
	case ErrorSerialization:
		return "serialization_error"
	case ErrorExhausted:
		return "reconnect_exhausted"
	default:
		return fmt.Sprintf("unknown_code_%d", e)
	}
}

// NotesError is a structured error with code and context.
type NotesError struct {
	Code    ErrorCode
	Message string
	Wrapped error
}

// Error implements the error interface.
func (e *NotesError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s (wrapped: %v)", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Unwrap support.
func (e *NotesError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface for error comparison.
func (e *NotesError) Is(target error) bool {
	t, ok := target.(*NotesError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError creates a new NotesError with the given code and message.
func NewError(code ErrorCode, message string) *NotesError {
	return &NotesError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with a NotesError.
func WrapError(code ErrorCode, message string, err error) *NotesError {
	return &NotesError{
		Code:    code,
		Message: message,
		Wrapped: err,
	}
}

// Sentinel errors for the common lifecycle failures.
var (
	// ErrNoToken is reported when a connect attempt finds no locally stored
	// access token. The client may retry Connect after logging in.
	ErrNoToken = NewError(ErrorUnauthorized, "no access token available")

	// ErrNotConnected is returned by Send while the channel is not open.
	ErrNotConnected = NewError(ErrorNotConnected, "realtime channel is not open")

	// ErrReconnectExhausted signals that the automatic retry ceiling was
	// reached; only a manual Connect re-arms the client.
	ErrReconnectExhausted = NewError(ErrorExhausted, "reconnect attempts exhausted")
)

// IsAuthError checks if an error is an authentication failure.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	var ne *NotesError
	if !errors.As(err, &ne) {
		return false
	}
	return ne.Code == ErrorUnauthorized
}

// IsConnectionError checks if an error is a connection-related error.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var ne *NotesError
	if !errors.As(err, &ne) {
		return false
	}
	return ne.Code == ErrorConnection || ne.Code == ErrorDisconnected || ne.Code == ErrorTimeout
}
