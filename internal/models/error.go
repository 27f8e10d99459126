package models

import "errors"

// Sentinel errors for the state-synchronization services. Read failures
// degrade to local or default data; these surface only where the caller has
// to know.
var (
	// ErrAuthRequired is returned when a mutating order-history operation runs
	// without an active identity.
	ErrAuthRequired = errors.New("authentication required")

	// ErrUnauthorized is returned when an operation targets another
	// identity's data, or when credentials fail verification.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned for missing orders or catalog documents.
	// Ownership violations read as not found too, so existence never leaks.
	ErrNotFound = errors.New("not found")

	// ErrRemoteUnavailable wraps network/store failures from the remote
	// document store.
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// ErrInvalidStatusTransition is returned when an order status update
	// skips ahead or moves backwards in the delivery pipeline.
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

// APIError represents a standardized error response for the API
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error code constants
const (
	ErrBadRequest       = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrForbidden        = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrConflict         = "CONFLICT"
	ErrInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrValidationFailed = "VALIDATION_FAILED"

	// OAuth errors (maintain RFC 6749 compatibility)
	ErrInvalidRequest       = "invalid_request"
	ErrInvalidClient        = "invalid_client"
	ErrInvalidGrant         = "invalid_grant"
	ErrUnsupportedGrantType = "unsupported_grant_type"
)

// NewAPIError creates a new API error with the given code and message
func NewAPIError(code, message string, details ...map[string]interface{}) APIError {
	err := APIError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}
