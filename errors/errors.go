package errors

import (
	"encoding/json"
)

// ErrorCode represents a specific error code.
type ErrorCode string

// DomainError represents a classified error crossing the swap service boundary.
// Details on declared errors may hold a format template; call sites fill it in.
type DomainError struct {
	Code          ErrorCode `json:"code"`
	Details       string    `json:"details,omitempty"`
	UserMessage   string    `json:"userMessage,omitempty"`
	UserRejection bool      `json:"userRejection,omitempty"`
	Retryable     bool      `json:"retryable,omitempty"`
}

// Error implements the error interface for DomainError.
func (e *DomainError) Error() string {
	errorJSON, _ := json.Marshal(e)
	return string(errorJSON)
}

// Is matches by code so errors.Is works against declared values.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetails returns a copy of the declared error carrying concrete details.
func (e *DomainError) WithDetails(details string) *DomainError {
	clone := *e
	clone.Details = details
	return &clone
}

// CreateErrorResponseFromError creates a DomainError from a generic error.
func CreateErrorResponseFromError(err error) error {
	if err == nil {
		return nil
	}
	if errResp, ok := err.(*DomainError); ok {
		return errResp
	}
	return &DomainError{
		Code:    "0",
		Details: err.Error(),
	}
}
