package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType classifies every failure the client can produce
type ErrorType string

const (
	// Local errors
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeStorage    ErrorType = "STORAGE"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeInternal   ErrorType = "INTERNAL"

	// Remote errors
	ErrorTypeTransport ErrorType = "TRANSPORT"
	ErrorTypeAuth      ErrorType = "AUTH"
	ErrorTypeServer    ErrorType = "SERVER"
	ErrorTypeMalformed ErrorType = "MALFORMED"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Code       string    `json:"code,omitempty"`
	ServerText string    `json:"server_text,omitempty"` // verbatim message from the API, if any
	HTTPStatus int       `json:"-"`
	Cause      error     `json:"-"`
	StackTrace string    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// captureStackTrace captures the current stack trace
func captureStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := ""
	for {
		frame, more := frames.Next()
		stack += fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return stack
}

// Constructor functions for common error types

// NewValidationError creates a client-side precondition error.
// Validation failures are raised before any network call is made.
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StackTrace: captureStackTrace(),
	}
}

// NewStorageError creates an on-device persistence error
func NewStorageError(operation string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeStorage,
		Message:    fmt.Sprintf("storage operation '%s' failed", operation),
		Cause:      err,
		StackTrace: captureStackTrace(),
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		StackTrace: captureStackTrace(),
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StackTrace: captureStackTrace(),
	}
}

// NewTransportError creates a network-level error (unreachable, timed out)
func NewTransportError(message string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeTransport,
		Message:    message,
		Cause:      err,
		StackTrace: captureStackTrace(),
	}
}

// NewAuthError creates an authentication failure. serverText carries the
// API's own message when it supplied one.
func NewAuthError(serverText string) *AppError {
	message := serverText
	if message == "" {
		message = "authentication failed"
	}
	return &AppError{
		Type:       ErrorTypeAuth,
		Message:    message,
		ServerText: serverText,
		HTTPStatus: 401,
		StackTrace: captureStackTrace(),
	}
}

// NewServerError creates an error for a non-2xx response with a structured
// payload. serverText is passed through verbatim when present.
func NewServerError(status int, serverText string) *AppError {
	message := serverText
	if message == "" {
		message = fmt.Sprintf("server returned status %d", status)
	}
	return &AppError{
		Type:       ErrorTypeServer,
		Message:    message,
		ServerText: serverText,
		HTTPStatus: status,
		StackTrace: captureStackTrace(),
	}
}

// NewMalformedError creates an error for a response the client could not decode
func NewMalformedError(message string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeMalformed,
		Message:    message,
		Cause:      err,
		StackTrace: captureStackTrace(),
	}
}

// Helper functions

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsStorage checks if an error is a storage error
func IsStorage(err error) bool {
	return IsType(err, ErrorTypeStorage)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsTransport checks if an error is a transport error
func IsTransport(err error) bool {
	return IsType(err, ErrorTypeTransport)
}

// IsAuth checks if an error is an authentication failure
func IsAuth(err error) bool {
	return IsType(err, ErrorTypeAuth)
}

// IsServer checks if an error is a server-reported error
func IsServer(err error) bool {
	return IsType(err, ErrorTypeServer)
}

// IsMalformed checks if an error is a malformed-response error
func IsMalformed(err error) bool {
	return IsType(err, ErrorTypeMalformed)
}

// UserMessage returns the text that should be shown to the user for err:
// the server-supplied message when one exists, otherwise a generic
// fallback appropriate for the error type.
func UserMessage(err error) string {
	appErr := GetAppError(err)
	if appErr == nil {
		return "Something went wrong."
	}
	if appErr.ServerText != "" {
		return appErr.ServerText
	}
	switch appErr.Type {
	case ErrorTypeTransport:
		return "Could not reach the server. Check your connection and try again."
	case ErrorTypeAuth:
		return "Authentication failed."
	case ErrorTypeValidation:
		return appErr.Message
	case ErrorTypeMalformed:
		return "The server sent an unexpected response."
	default:
		return "Something went wrong."
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// If it's already an AppError, add context to message
	if appErr := GetAppError(err); appErr != nil {
		appErr.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return appErr
	}

	// Otherwise create a new internal error
	return NewInternalError(message).WithCause(err)
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
