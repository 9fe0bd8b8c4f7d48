package storefront

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when the storefront rejects the payload (4xx other than auth)
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnauthorized is returned when the bearer token is missing, expired or rejected
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUpstream is returned for 5xx and otherwise unexpected responses
	ErrUpstream = errors.New("storefront error")

	// ErrNetworkError is returned when the storefront could not be reached
	ErrNetworkError = errors.New("network error")

	// ErrNotFound is returned when a lookup yields no record
	ErrNotFound = errors.New("not found")
)

// APIError carries the storefront's own message for a failed call.
type APIError struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("storefront responded %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("storefront responded %d", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.kind
}
