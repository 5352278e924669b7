package core

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies a resolution failure.
type ErrorType string

const (
	// ErrorTypeConfiguration indicates a missing or unusable provider credential.
	ErrorTypeConfiguration ErrorType = "configuration_missing"
	// ErrorTypeTransport indicates a network error, timeout, or non-2xx status.
	ErrorTypeTransport ErrorType = "transport_failure"
	// ErrorTypeEmptyResult indicates the provider was reachable but matched nothing.
	ErrorTypeEmptyResult ErrorType = "empty_result"
	// ErrorTypeMalformed indicates the provider response could not be decoded.
	ErrorTypeMalformed ErrorType = "malformed_result"
)

// ResolveError is the error type crossing the provider-adapter boundary.
// Nothing above the resolver is allowed to observe one; the resolver
// terminates every ResolveError in a fallback result.
type ResolveError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Provider   string    `json:"provider,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
	Err        error     `json:"-"`
}

func (e *ResolveError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Provider, e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode maps the error to a status for the HTTP surface. EmptyResult
// is the one caller-visible condition worth its own code.
func (e *ResolveError) HTTPStatusCode() int {
	if e.StatusCode >= 400 {
		return e.StatusCode
	}
	switch e.Type {
	case ErrorTypeEmptyResult:
		return http.StatusNotFound
	case ErrorTypeConfiguration:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

// NewConfigurationError reports a missing credential for a provider.
func NewConfigurationError(provider string) *ResolveError {
	return &ResolveError{
		Type:     ErrorTypeConfiguration,
		Message:  "no API credential configured",
		Provider: provider,
	}
}

// NewTransportError wraps a network or HTTP-status failure from a provider.
func NewTransportError(provider string, statusCode int, message string, err error) *ResolveError {
	return &ResolveError{
		Type:       ErrorTypeTransport,
		Message:    message,
		Provider:   provider,
		StatusCode: statusCode,
		Err:        err,
	}
}

// NewEmptyResultError reports a reachable provider that matched nothing.
func NewEmptyResultError(provider, query string) *ResolveError {
	return &ResolveError{
		Type:     ErrorTypeEmptyResult,
		Message:  fmt.Sprintf("no models found for %q", query),
		Provider: provider,
	}
}

// NewMalformedError wraps an undecodable provider response.
func NewMalformedError(provider string, err error) *ResolveError {
	return &ResolveError{
		Type:     ErrorTypeMalformed,
		Message:  "failed to decode provider response",
		Provider: provider,
		Err:      err,
	}
}

// IsEmptyResult reports whether err represents a zero-match search, the one
// failure worth a distinct user-facing message.
func IsEmptyResult(err error) bool {
	var re *ResolveError
	return errors.As(err, &re) && re.Type == ErrorTypeEmptyResult
}

// IsConfigurationMissing reports whether err represents degraded no-credential mode.
func IsConfigurationMissing(err error) bool {
	var re *ResolveError
	return errors.As(err, &re) && re.Type == ErrorTypeConfiguration
}
