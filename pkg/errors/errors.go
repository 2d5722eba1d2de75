package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrPermission    ErrorCode = "PERMISSION"

	// Module registry errors
	ErrModuleAlreadyLoaded ErrorCode = "MODULE_ALREADY_LOADED"
	ErrModuleOffline       ErrorCode = "MODULE_OFFLINE"
	ErrCommandNotFound     ErrorCode = "COMMAND_NOT_FOUND"
	ErrInstanceLocked      ErrorCode = "INSTANCE_LOCKED"

	// Resource lock errors
	ErrResourceLocked ErrorCode = "RESOURCE_LOCKED"
	ErrResourceFree   ErrorCode = "RESOURCE_FREE"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Persisted state errors
	ErrCorruptState ErrorCode = "STATE_CORRUPT"
	ErrStateWrite   ErrorCode = "STATE_WRITE"

	// FileSystem errors
	ErrFileNotFound   ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess     ErrorCode = "FILE_ACCESS"
	ErrFileNotTracked ErrorCode = "FILE_NOT_TRACKED"
	ErrNotDirectory   ErrorCode = "NOT_A_DIRECTORY"
	ErrSymlinkCreate  ErrorCode = "SYMLINK_CREATE"
	ErrSymlinkExists  ErrorCode = "SYMLINK_EXISTS"
	ErrDirCreate      ErrorCode = "DIR_CREATE"
)

// CartonError represents a structured error with code and details
type CartonError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *CartonError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CartonError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *CartonError) Is(target error) bool {
	var targetErr *CartonError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new CartonError with the given code and message
func New(code ErrorCode, message string) *CartonError {
	return &CartonError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new CartonError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *CartonError {
	return &CartonError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a CartonError
func Wrap(err error, code ErrorCode, message string) *CartonError {
	if err == nil {
		return nil
	}
	return &CartonError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *CartonError {
	if err == nil {
		return nil
	}
	return &CartonError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *CartonError) WithDetail(key string, value interface{}) *CartonError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *CartonError) WithDetails(details map[string]interface{}) *CartonError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var cartonErr *CartonError
	if errors.As(err, &cartonErr) {
		return cartonErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a CartonError
func GetErrorCode(err error) ErrorCode {
	var cartonErr *CartonError
	if errors.As(err, &cartonErr) {
		return cartonErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a CartonError
func GetErrorDetails(err error) map[string]interface{} {
	var cartonErr *CartonError
	if errors.As(err, &cartonErr) {
		return cartonErr.Details
	}
	return nil
}
