// Package http provides the shared HTTP client used by the tracker
// backends: retries with backoff, rate limit handling, and a common
// error vocabulary so callers can branch on failures the same way
// regardless of which tracker produced them.
package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Sentinel errors shared by all tracker clients.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("authentication failed")
	ErrForbidden    = errors.New("permission denied")
	ErrRateLimited  = errors.New("rate limit exceeded")
	ErrBadRequest   = errors.New("bad request")
	ErrServerError  = errors.New("server error")
)

// APIError is a non-2xx response from a tracker API.
type APIError struct {
	Service    string // which tracker, e.g. "linear", "github", "gitlab"
	StatusCode int
	Message    string // error body from the API, when parseable
	Endpoint   string
	RequestID  string // server-assigned request ID, when the API sends one
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("%s API error (%d) at %s [%s]: %s",
			e.Service, e.StatusCode, e.Endpoint, e.RequestID, e.Message)
	}
	return fmt.Sprintf("%s API error (%d) at %s: %s",
		e.Service, e.StatusCode, e.Endpoint, e.Message)
}

// Unwrap maps the status code to the matching sentinel so errors.Is
// works across backends.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}
	if e.StatusCode >= 500 {
		return ErrServerError
	}
	return nil
}

// AuthError is an authentication failure with a human-readable reason,
// typically a missing or expired token.
type AuthError struct {
	Service string
	Reason  string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s authentication failed: %s", e.Service, e.Reason)
}

func (e *AuthError) Unwrap() error {
	return ErrUnauthorized
}

// RateLimitError carries the retry hint from a 429 response.
type RateLimitError struct {
	Service    string
	RetryAfter time.Duration // zero when the API gave no hint
	Limit      int
	Remaining  int
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s rate limit exceeded, retry after %s", e.Service, e.RetryAfter)
	}
	return fmt.Sprintf("%s rate limit exceeded", e.Service)
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// IsNotFound reports whether err means the resource does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized reports whether err is an authentication failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsForbidden reports whether err is a permission failure.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsRateLimited reports whether err is a rate limit.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsRetryable reports whether the request may succeed if repeated.
// Rate limits and 5xx responses qualify; auth and client errors never
// do.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrServerError) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 && apiErr.StatusCode < 600
	}

	return false
}
