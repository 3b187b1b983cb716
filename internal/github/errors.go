package github

import (
	"errors"
	"fmt"
	"net/http"
)

// RequestError indicates a request that never produced an HTTP response:
// connection failures, DNS errors, and per-request timeouts.
type RequestError struct {
	// URL is the request URL.
	URL string

	// Err is the underlying transport error.
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// APIError indicates a non-2xx HTTP response from the GitHub API.
type APIError struct {
	// URL is the request URL.
	URL string

	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is the error message extracted from the response body, when
	// the API provided one.
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("github api: %s %s: %s", http.StatusText(e.StatusCode), e.URL, e.Message)
	}
	return fmt.Sprintf("github api: %s %s", http.StatusText(e.StatusCode), e.URL)
}

// ValidationError indicates a response body or cached payload that could not
// be decoded into the expected shape.
type ValidationError struct {
	// Subject names what failed to decode ("repository list", "cached
	// profile", ...).
	Subject string

	// Err is the underlying decode error.
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("malformed %s: %v", e.Subject, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsRateLimited reports whether err is an APIError for an exhausted rate
// limit. The unauthenticated API signals this with 403 or 429.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusForbidden || apiErr.StatusCode == http.StatusTooManyRequests
}
