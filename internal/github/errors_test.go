package github

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestError(t *testing.T) {
	t.Parallel()

	inner := errors.New("connection refused")
	err := &RequestError{URL: "https://api.github.com/users/octocat", Err: inner}

	assert.Contains(t, err.Error(), "https://api.github.com/users/octocat")
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, inner)
}

func TestAPIError(t *testing.T) {
	t.Parallel()

	t.Run("with message", func(t *testing.T) {
		t.Parallel()
		err := &APIError{URL: "https://x", StatusCode: 404, Message: "Not Found"}
		assert.Contains(t, err.Error(), "Not Found")
		assert.Contains(t, err.Error(), "https://x")
	})

	t.Run("without message", func(t *testing.T) {
		t.Parallel()
		err := &APIError{URL: "https://x", StatusCode: 500}
		assert.Contains(t, err.Error(), http.StatusText(500))
	})
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	inner := errors.New("unexpected end of JSON input")
	err := &ValidationError{Subject: "repository list", Err: inner}

	assert.Contains(t, err.Error(), "repository list")
	assert.ErrorIs(t, err, inner)
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "404 api error", err: &APIError{StatusCode: 404}, want: true},
		{name: "wrapped 404", err: fmt.Errorf("outer: %w", &APIError{StatusCode: 404}), want: true},
		{name: "other status", err: &APIError{StatusCode: 500}, want: false},
		{name: "non-api error", err: errors.New("boom"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsNotFound(tt.err))
		})
	}
}

func TestIsRateLimited(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "403", err: &APIError{StatusCode: 403}, want: true},
		{name: "429", err: &APIError{StatusCode: 429}, want: true},
		{name: "404", err: &APIError{StatusCode: 404}, want: false},
		{name: "non-api error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsRateLimited(tt.err))
		})
	}
}
