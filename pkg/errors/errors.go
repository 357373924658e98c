// Package errors provides typed errors for the application
package errors

import "errors"

// baseError is the base implementation for all error types
type baseError struct {
	msg string
}

func (e *baseError) Error() string {
	return e.msg
}

// ValidationError represents invalid user input
type ValidationError struct {
	baseError
}

// NewValidationError creates a new ValidationError
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{baseError{msg: msg}}
}

// InternalError represents a failure inside the service
type InternalError struct {
	baseError
}

// NewInternalError creates a new InternalError
func NewInternalError(msg string) *InternalError {
	return &InternalError{baseError{msg: msg}}
}

// UpstreamError represents a failure reported by an external media source
type UpstreamError struct {
	baseError
}

// NewUpstreamError creates a new UpstreamError
func NewUpstreamError(msg string) *UpstreamError {
	return &UpstreamError{baseError{msg: msg}}
}

// IsValidationError checks if error is a ValidationError
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsInternalError checks if error is an InternalError
func IsInternalError(err error) bool {
	var target *InternalError
	return errors.As(err, &target)
}

// IsUpstreamError checks if error is an UpstreamError
func IsUpstreamError(err error) bool {
	var target *UpstreamError
	return errors.As(err, &target)
}
