package entity

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Document errors
	ErrDocumentNotFound = errors.New("document not found")
	ErrIndexNotFound    = errors.New("index not found")
	ErrEmptyDocument    = errors.New("document contains no text")

	// File errors
	ErrInvalidFile      = errors.New("invalid file")
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidExtension = errors.New("invalid file extension")

	// Chat errors
	ErrSessionNotFound = errors.New("chat session not found")
	ErrEmptyMessages   = errors.New("chat message sequence is empty")
	ErrLastNotUser     = errors.New("last chat message must be from user")

	// Classroom errors
	ErrAssignmentNotFound       = errors.New("assignment not found")
	ErrMalformedGradingResponse = errors.New("malformed grading response")

	// Auth errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ConfigurationError reports a setup problem detected before any network call:
// an unsupported provider or a missing credential.
type ConfigurationError struct {
	Provider string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error for provider %s: %s", e.Provider, e.Reason)
}

// UnsupportedProvider reports whether the error was caused by an unknown provider id.
func (e *ConfigurationError) UnsupportedProvider() bool {
	return e.Reason == ReasonUnsupportedProvider
}

const (
	ReasonUnsupportedProvider = "unsupported provider"
	ReasonMissingCredential   = "missing credential"
)

type ProviderErrorKind string

const (
	ProviderErrorNetwork       ProviderErrorKind = "network"
	ProviderErrorTimeout       ProviderErrorKind = "timeout"
	ProviderErrorRateLimit     ProviderErrorKind = "rate_limit"
	ProviderErrorUpstream      ProviderErrorKind = "upstream"
	ProviderErrorMalformed     ProviderErrorKind = "malformed_response"
	ProviderErrorConfiguration ProviderErrorKind = "configuration"
)

// ProviderError is a failed call to an LLM or embedding provider.
type ProviderError struct {
	Provider string
	Kind     ProviderErrorKind
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s failed (%s): %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// UserMessage is the text safe to show to an end user.
func (e *ProviderError) UserMessage() string {
	if e.Kind == ProviderErrorTimeout {
		return fmt.Sprintf("The %s API did not respond in time. Please try again.", e.Provider)
	}
	return fmt.Sprintf("An error occurred while communicating with the %s API. Please check the backend logs.", e.Provider)
}

// QuotaExceededError is returned when an upload would push a user above the storage ceiling.
// All sizes are in MiB.
type QuotaExceededError struct {
	LimitMB     float64
	UsageMB     float64
	AttemptedMB float64
	RemainingMB float64
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("upload would exceed your storage limit of %.2f MB by %.2f MB (remaining %.2f MB)",
		e.LimitMB, e.ExceedsByMB(), e.RemainingMB)
}

// ExceedsByMB is how far past the limit the upload would go.
func (e *QuotaExceededError) ExceedsByMB() float64 {
	return e.UsageMB + e.AttemptedMB - e.LimitMB
}
