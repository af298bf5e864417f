// Package errors provides custom error types for the Lumina API client.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for common cases
var (
	ErrAuthFailed      = errors.New("authentication failed")
	ErrNoCredentials   = errors.New("no credentials stored")
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrEmptyMessage    = errors.New("message is empty")
	ErrNoActiveChat    = errors.New("no active chat")
)

// AuthError represents a rejected or missing credential
type AuthError struct {
	Message  string
	Endpoint string
}

func (e *AuthError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "token may have expired"
	}
	if e.Endpoint != "" {
		return fmt.Sprintf("authentication failed at %s: %s", e.Endpoint, msg)
	}
	return fmt.Sprintf("authentication failed: %s", msg)
}

// Is allows comparison with sentinel errors
func (e *AuthError) Is(target error) bool {
	if target == ErrAuthFailed {
		return true
	}
	_, ok := target.(*AuthError)
	return ok
}

// NewAuthError creates a new AuthError
func NewAuthError(message string) *AuthError {
	return &AuthError{Message: message}
}

// NewAuthErrorWithEndpoint creates an AuthError tied to the endpoint that rejected it
func NewAuthErrorWithEndpoint(message, endpoint string) *AuthError {
	return &AuthError{Message: message, Endpoint: endpoint}
}

// APIError represents a non-2xx response from the service
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// Is allows comparison with sentinel errors
func (e *APIError) Is(target error) bool {
	if target == ErrNotFound && e.StatusCode == http.StatusNotFound {
		return true
	}
	_, ok := target.(*APIError)
	return ok
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NewAPIErrorWithBody creates an APIError carrying the raw response body
// for diagnostics
func NewAPIErrorWithBody(statusCode int, endpoint, message, body string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
		Body:       body,
	}
}

// NetworkError represents a transport-level failure: the request never
// produced an HTTP response
type NetworkError struct {
	Endpoint string
	Cause    error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error at %s: %v", e.Endpoint, e.Cause)
	}
	return fmt.Sprintf("network error: %v", e.Cause)
}

// Unwrap exposes the transport cause to errors.Is/As chains
func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(endpoint string, cause error) *NetworkError {
	return &NetworkError{Endpoint: endpoint, Cause: cause}
}

// DecodeError represents a 2xx response whose body did not match the
// documented shape. The zero value of the expected type is never returned
// in its place.
type DecodeError struct {
	Endpoint string
	Message  string
	Cause    error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("decode error at %s: %s: %v", e.Endpoint, e.Message, e.Cause)
	}
	return fmt.Sprintf("decode error at %s: %s", e.Endpoint, e.Message)
}

// Is allows comparison with sentinel errors
func (e *DecodeError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*DecodeError)
	return ok
}

// Unwrap exposes the underlying unmarshal error
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// NewDecodeError creates a new DecodeError
func NewDecodeError(endpoint, message string, cause error) *DecodeError {
	return &DecodeError{Endpoint: endpoint, Message: message, Cause: cause}
}

// ValidationError represents a 422 response: the service rejected the
// request payload field by field
type ValidationError struct {
	Endpoint string
	Fields   map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed at %s (%d field(s))", e.Endpoint, len(e.Fields))
}

// NewValidationError creates a new ValidationError
func NewValidationError(endpoint string, fields map[string]string) *ValidationError {
	return &ValidationError{Endpoint: endpoint, Fields: fields}
}

// FromStatus builds the typed error matching a non-2xx status. detail is
// the service's human-readable explanation, body the raw payload.
func FromStatus(statusCode int, endpoint, detail, body string) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return NewAuthErrorWithEndpoint(detail, endpoint)
	case http.StatusNotFound:
		if detail == "" {
			detail = "not found"
		}
		return NewAPIErrorWithBody(statusCode, endpoint, detail, body)
	default:
		if detail == "" {
			detail = http.StatusText(statusCode)
		}
		return NewAPIErrorWithBody(statusCode, endpoint, detail, body)
	}
}
