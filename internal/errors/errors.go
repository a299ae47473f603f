package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeInvalidCredentials indicates a failed credential verification.
	// Deliberately generic: it must not reveal whether the username exists.
	ErrCodeInvalidCredentials ErrorCode = "invalid_credentials"
	// ErrCodeStoreUnavailable indicates the session/cache backing store is unreachable.
	ErrCodeStoreUnavailable ErrorCode = "store_unavailable"
	// ErrCodeSessionExpired indicates a session past its idle or absolute timeout.
	ErrCodeSessionExpired ErrorCode = "session_expired"
	// ErrCodeMalformedRecord indicates a credential record missing required hash parameters.
	ErrCodeMalformedRecord ErrorCode = "malformed_record"
	// ErrCodeSweepFailure indicates a failed session sweep tick.
	ErrCodeSweepFailure ErrorCode = "sweep_failure"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// InvalidCredentials creates the generic login-failure error.
func InvalidCredentials() *AppError {
	return &AppError{
		Code:    ErrCodeInvalidCredentials,
		Message: "Invalid username or password.",
	}
}

// StoreUnavailable wraps a backing-store connectivity error. It is retryable
// by the caller and must never be collapsed into "no session".
func StoreUnavailable(err error) *AppError {
	return &AppError{
		Code:    ErrCodeStoreUnavailable,
		Message: "Session store is unavailable. Please try again.",
		Cause:   err,
	}
}

// SessionExpired creates a SessionExpired error.
func SessionExpired() *AppError {
	return &AppError{
		Code:    ErrCodeSessionExpired,
		Message: "Session has expired.",
	}
}

// MalformedRecord flags a credential record missing required hash parameters.
// Fatal for the single authentication attempt; logged as a data-integrity
// concern and never retried.
func MalformedRecord(field string) *AppError {
	return &AppError{
		Code:    ErrCodeMalformedRecord,
		Message: "Credential record is missing required hash parameters.",
		Field:   field,
	}
}

// SweepFailure wraps an error from one expired-session sweep tick. The sweep
// loop logs it and keeps running.
func SweepFailure(err error) *AppError {
	return &AppError{
		Code:    ErrCodeSweepFailure,
		Message: "Expired-session sweep failed.",
		Cause:   err,
	}
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: message,
	}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// CodeOf returns the error's code, or ErrCodeInternal for unclassified errors.
// Used for tagging metrics and logs.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsInvalidCredentials checks if an error is an InvalidCredentials error.
func IsInvalidCredentials(err error) bool {
	return isCode(err, ErrCodeInvalidCredentials)
}

// IsStoreUnavailable checks if an error is a StoreUnavailable error.
func IsStoreUnavailable(err error) bool {
	return isCode(err, ErrCodeStoreUnavailable)
}

// IsSessionExpired checks if an error is a SessionExpired error.
func IsSessionExpired(err error) bool {
	return isCode(err, ErrCodeSessionExpired)
}

// IsMalformedRecord checks if an error is a MalformedRecord error.
func IsMalformedRecord(err error) bool {
	return isCode(err, ErrCodeMalformedRecord)
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}
