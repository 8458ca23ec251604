package merchant

import (
	"errors"
	"fmt"
)

// Sentinel errors for the merchant package.
var (
	// ErrMissingAPIKey indicates the language service API key was not provided.
	ErrMissingAPIKey = errors.New("merchant: API key is required")

	// ErrEmptyCatalog indicates the assistant was built without items to sell.
	ErrEmptyCatalog = errors.New("merchant: catalog must contain at least one item")

	// ErrEmptyUtterance indicates Process was called with blank input.
	ErrEmptyUtterance = errors.New("merchant: utterance must not be empty")

	// ErrNoPurchaseHandler indicates the assistant has no way to execute trades.
	ErrNoPurchaseHandler = errors.New("merchant: purchase handler is required")
)

// APIError represents an error from the language service API.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is the human-readable error message.
	Message string

	// Retryable indicates if the request can be retried.
	Retryable bool
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("merchant: API error (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("merchant: API error: %s", e.Message)
}

// IsRetryable returns true if the request can be retried.
func (e *APIError) IsRetryable() bool {
	return e.Retryable
}

// NewAPIError creates an APIError, marking 429 and 5xx as retryable.
func NewAPIError(statusCode int, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Message:    message,
		Retryable:  statusCode == 429 || statusCode >= 500,
	}
}
