package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a categorized error code
type ErrorCode string

const (
	// Endpoint registry errors
	CodeEndpointNotConfigured ErrorCode = "ENDPOINT_NOT_CONFIGURED"
	CodeDuplicateEndpoint     ErrorCode = "DUPLICATE_ENDPOINT"
	CodeIndexOutOfRange       ErrorCode = "INDEX_OUT_OF_RANGE"
	CodeNoCurrentEndpoint     ErrorCode = "NO_CURRENT_ENDPOINT"

	// Upstream transport errors
	CodeRemoteCall         ErrorCode = "REMOTE_CALL_FAILED"
	CodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	CodeServiceTimeout     ErrorCode = "SERVICE_TIMEOUT"
	CodeRateLimited        ErrorCode = "RATE_LIMITED"

	// Validation errors
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// Storage errors
	CodeStorage  ErrorCode = "STORAGE_ERROR"
	CodeNotFound ErrorCode = "NOT_FOUND"

	// Config errors
	CodeConfig ErrorCode = "CONFIG_ERROR"

	// Internal errors
	CodeInternal ErrorCode = "INTERNAL_ERROR"
	CodeUnknown  ErrorCode = "UNKNOWN_ERROR"
)

// AppError represents a structured application error
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// EndpointNotConfigured creates an error for calls made with no bound endpoint
func EndpointNotConfigured() *AppError {
	return New(CodeEndpointNotConfigured, "no API endpoint configured")
}

// DuplicateEndpoint creates an error for registering an already-known URL
func DuplicateEndpoint(url string) *AppError {
	return New(CodeDuplicateEndpoint, "endpoint URL already registered").
		WithContext("url", url)
}

// IndexOutOfRange creates an error for an invalid registry index
func IndexOutOfRange(index, length int) *AppError {
	return New(CodeIndexOutOfRange, fmt.Sprintf("index %d out of range [0, %d)", index, length))
}

// NoCurrentEndpoint creates an error for operations that need a current endpoint
func NoCurrentEndpoint() *AppError {
	return New(CodeNoCurrentEndpoint, "no current endpoint selected")
}

// RemoteCallFailed wraps a transport-level failure against the upstream API
func RemoteCallFailed(message string, err error) *AppError {
	return Wrap(err, CodeRemoteCall, message)
}

// ValidationError creates a validation error
func ValidationError(message string) *AppError {
	return New(CodeValidation, message)
}

// StorageError creates a durable-storage error
func StorageError(message string, err error) *AppError {
	return Wrap(err, CodeStorage, message)
}

// ConfigError creates a configuration error
func ConfigError(message string, err error) *AppError {
	if err != nil {
		return Wrap(err, CodeConfig, message)
	}
	return New(CodeConfig, message)
}

// IsRetryable determines if an error is retryable
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case CodeServiceTimeout, CodeServiceUnavailable, CodeRateLimited:
			return true
		}
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// IsCode reports whether err carries the given error code
func IsCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}

// NotFoundError creates a not found error
func NotFoundError(resource, identifier string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found: %s", resource, identifier))
}
