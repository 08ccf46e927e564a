package errors

import (
	"encoding/json"
	"strings"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	ErrCodeBadRequest       ErrorCode = "bad_request"
	ErrCodeNotFound         ErrorCode = "not_found"
	ErrCodeValidationFailed ErrorCode = "validation_failed"
	ErrCodeUnauthorized     ErrorCode = "unauthorized"
	ErrCodeConflict         ErrorCode = "conflict"
	ErrCodeUnverified       ErrorCode = "unverified"
	ErrCodeTooManyRequests  ErrorCode = "too_many_requests"

	// Server errors (5xx)
	ErrCodeInternalError ErrorCode = "internal_error"
	ErrCodeUnavailable   ErrorCode = "unavailable"
)

// APIError represents a structured API error that carries error code and details
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	jsonErr, _ := json.Marshal(e)
	return string(jsonErr)
}

// NewAPIError creates an error with the given code
func NewAPIError(code ErrorCode, message string, details ...string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewBadRequestError(message string, details ...string) *APIError {
	return NewAPIError(ErrCodeBadRequest, message, details...)
}

func NewNotFoundError(message string, details ...string) *APIError {
	return NewAPIError(ErrCodeNotFound, message, details...)
}

func NewValidationError(details ...string) *APIError {
	return NewAPIError(ErrCodeValidationFailed, "Validation failed", details...)
}

func NewUnauthorizedError(message string, details ...string) *APIError {
	return NewAPIError(ErrCodeUnauthorized, message, details...)
}

func NewTooManyRequestsError(message string, details ...string) *APIError {
	return NewAPIError(ErrCodeTooManyRequests, message, details...)
}

func NewInternalError(message string, details ...string) *APIError {
	return NewAPIError(ErrCodeInternalError, message, details...)
}
