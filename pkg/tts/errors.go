package tts

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrNoAPIKey is returned when the remote backend is used without a key.
	ErrNoAPIKey = errors.New("tts: API key required")

	// ErrEmptyText is returned when there is nothing to synthesize.
	ErrEmptyText = errors.New("tts: empty text")

	// ErrEngineNotFound is returned when the local engine binary is missing.
	ErrEngineNotFound = errors.New("tts: local engine not found")

	// ErrNoBackend is returned when neither backend is usable.
	ErrNoBackend = errors.New("tts: no synthesis backend available")
)

// APIError represents an error response from the remote synthesis API.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is the error message from the API.
	Message string

	// Code is the error code from the API (if provided).
	Code string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tts: API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("tts: API error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the request should be retried.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode == 429 || (e.StatusCode >= 500 && e.StatusCode < 600)
}

// ProviderError wraps an error with backend context.
type ProviderError struct {
	Provider string
	Err      error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("tts [%s]: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with backend context.
func WrapError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, Err: err}
}

// SynthesisError aggregates failures from every backend in a chain. It is
// only produced when no backend could synthesize the text.
type SynthesisError struct {
	Errors []error
}

// Error implements the error interface.
func (e *SynthesisError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "tts: synthesis failed"
	case 1:
		return fmt.Sprintf("tts: synthesis failed: %v", e.Errors[0])
	default:
		return fmt.Sprintf("tts: all %d backends failed, last error: %v", len(e.Errors), e.Errors[len(e.Errors)-1])
	}
}

// Unwrap exposes every collected backend failure to errors.Is/As.
func (e *SynthesisError) Unwrap() []error {
	return e.Errors
}
