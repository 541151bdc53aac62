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
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Launcher discovery errors. Detection failures are always non-fatal:
	// the affected kind is skipped and discovery continues.
	ErrDetection       ErrorCode = "DETECTION"
	ErrUnknownLauncher ErrorCode = "UNKNOWN_LAUNCHER"

	// Manifest errors. Both are fatal for the whole sync: updating against
	// missing or unparseable data risks mismatched game/loader versions.
	ErrManifestFetch ErrorCode = "MANIFEST_FETCH"
	ErrManifestParse ErrorCode = "MANIFEST_PARSE"

	// Execution errors
	ErrHashMismatch   ErrorCode = "HASH_MISMATCH"
	ErrDownloadFailed ErrorCode = "DOWNLOAD_FAILED"
	ErrFileSystem     ErrorCode = "FILE_SYSTEM"

	// Profile store errors, non-fatal by contract: the mod sync has already
	// succeeded independently of the launcher database.
	ErrDatabase ErrorCode = "DATABASE"
)

// SyncError represents a structured error with code and details
type SyncError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *SyncError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SyncError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *SyncError) Is(target error) bool {
	var targetErr *SyncError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new SyncError with the given code and message
func New(code ErrorCode, message string) *SyncError {
	return &SyncError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new SyncError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *SyncError {
	return &SyncError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a SyncError
func Wrap(err error, code ErrorCode, message string) *SyncError {
	if err == nil {
		return nil
	}
	return &SyncError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *SyncError {
	if err == nil {
		return nil
	}
	return &SyncError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *SyncError) WithDetail(key string, value interface{}) *SyncError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return syncErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a SyncError
func GetErrorCode(err error) ErrorCode {
	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return syncErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a SyncError
func GetErrorDetails(err error) map[string]interface{} {
	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return syncErr.Details
	}
	return nil
}
