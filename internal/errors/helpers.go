package errors

import (
	"context"
	"errors"
	"net"
	"net/http"
)

// IsAuthError reports whether err means the credential was missing or rejected
func IsAuthError(err error) bool {
	if errors.Is(err, ErrAuthFailed) || errors.Is(err, ErrNoCredentials) {
		return true
	}
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsNetworkError reports whether err is a transport-level failure
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// IsTimeoutError reports whether err is a deadline or cancellation
func IsTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsDecodeError reports whether err means the response body was malformed
func IsDecodeError(err error) bool {
	var decErr *DecodeError
	return errors.As(err, &decErr)
}

// IsNotFound reports whether err is a 404 from the service
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsValidationError reports whether err is a field-level rejection
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// GetHTTPStatus extracts the HTTP status from an error, 0 if none applies
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return http.StatusUnauthorized
	}
	return 0
}

// GetEndpoint extracts the endpoint an error occurred at, if recorded
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Endpoint
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	var decErr *DecodeError
	if errors.As(err, &decErr) {
		return decErr.Endpoint
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.Endpoint
	}
	return ""
}

// GetResponseBody extracts the raw response body captured with an error
func GetResponseBody(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}
	return ""
}

// FieldErrors extracts per-field messages from a validation error, nil otherwise
func FieldErrors(err error) map[string]string {
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.Fields
	}
	return nil
}

// UserMessage converts an error into a line suitable for direct display
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoCredentials):
		return "You are not signed in. Run 'lumina login' first."
	case IsAuthError(err):
		return "Your session has expired. Please sign in again."
	case IsTimeoutError(err):
		return "The request timed out. The service may be slow right now."
	case IsNetworkError(err):
		return "Could not reach the Lumina service. Check your connection and base URL."
	case IsDecodeError(err):
		return "The service sent a response this client could not understand."
	case IsValidationError(err):
		return "Some fields were rejected. Fix them and try again."
	default:
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return apiErr.Message
		}
		return err.Error()
	}
}
