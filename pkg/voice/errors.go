package voice

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrNoAPIKey is returned when the API key is missing.
	ErrNoAPIKey = errors.New("voice: API key required")

	// ErrNoVoiceID is returned when a provider requires a voice ID and none
	// was configured.
	ErrNoVoiceID = errors.New("voice: voice ID required")

	// ErrNoSource is returned when the recorder has no audio source.
	ErrNoSource = errors.New("voice: audio source required")

	// ErrUnknownSynth is returned for an unrecognized synthesizer kind.
	ErrUnknownSynth = errors.New("voice: unknown synthesizer kind")

	// ErrEmptyText is returned when there is no text to synthesize.
	ErrEmptyText = errors.New("voice: empty text")
)

// RecordingError reports a failure in the capture stage.
type RecordingError struct {
	// Reason is a short description of what went wrong.
	Reason string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *RecordingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("voice: recording failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("voice: recording failed: %s", e.Reason)
}

// Unwrap returns the underlying error.
func (e *RecordingError) Unwrap() error {
	return e.Err
}

// APIError represents an error response from a speech API.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is the error message from the API.
	Message string

	// Provider identifies which provider returned the error.
	Provider string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("voice [%s]: API error %d: %s", e.Provider, e.StatusCode, e.Message)
}

// IsRetryable returns true if the request should be retried.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode == 429 || (e.StatusCode >= 500 && e.StatusCode < 600)
}

// ProviderError wraps an error with provider context.
type ProviderError struct {
	Provider string
	Err      error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("voice [%s]: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with provider context.
func WrapError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, Err: err}
}
