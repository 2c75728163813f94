package github

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apiError(status int, message string, details ...github.Error) *github.ErrorResponse {
	return &github.ErrorResponse{
		Response: &http.Response{StatusCode: status},
		Message:  message,
		Errors:   details,
	}
}

func TestGitHubError_Error(t *testing.T) {
	err := &GitHubError{Type: ErrorTypeNotFound, Message: "gone", Resource: "pull requests for repository o/r"}
	assert.Equal(t, "not_found error for pull requests for repository o/r: gone", err.Error())

	err = &GitHubError{Type: ErrorTypeUnknown, Message: "odd"}
	assert.Equal(t, "unknown error: odd", err.Error())

	cause := errors.New("underlying")
	assert.ErrorIs(t, &GitHubError{Cause: cause}, cause)
}

func TestWrapGitHubError(t *testing.T) {
	const resource = "pull requests for repository o/r"

	tests := []struct {
		name      string
		err       error
		wantType  ErrorType
		wantMsg   string
		retryable bool
	}{
		{
			name:     "bad credentials",
			err:      apiError(http.StatusUnauthorized, "Bad credentials"),
			wantType: ErrorTypeAuth,
			wantMsg:  "GITHUB_TOKEN",
		},
		{
			name:     "missing scope",
			err:      apiError(http.StatusForbidden, "Resource not accessible by integration"),
			wantType: ErrorTypePermission,
			wantMsg:  "pull_requests",
		},
		{
			name:      "rate limit reported as 403",
			err:       apiError(http.StatusForbidden, "API rate limit exceeded for user"),
			wantType:  ErrorTypeRateLimit,
			retryable: true,
		},
		{
			name:     "repository not found",
			err:      apiError(http.StatusNotFound, "Not Found"),
			wantType: ErrorTypeNotFound,
			wantMsg:  "not visible to the token",
		},
		{
			name: "no commits between branches",
			err: apiError(http.StatusUnprocessableEntity, "Validation Failed",
				github.Error{Resource: "PullRequest", Code: "custom", Message: "No commits between main and gitoperator"}),
			wantType: ErrorTypeValidation,
			wantMsg:  "validation failed: No commits between main and gitoperator",
		},
		{
			name: "field error without message",
			err: apiError(http.StatusUnprocessableEntity, "Validation Failed",
				github.Error{Resource: "PullRequest", Field: "base", Code: "invalid"}),
			wantType: ErrorTypeValidation,
			wantMsg:  "base: invalid",
		},
		{
			name: "pull request already open",
			err: apiError(http.StatusUnprocessableEntity, "Validation Failed",
				github.Error{Resource: "PullRequest", Code: "custom", Message: "A pull request already exists for o:gitoperator."}),
			wantType: ErrorTypeConflict,
			wantMsg:  "already exists",
		},
		{
			name:      "bad gateway",
			err:       apiError(http.StatusBadGateway, "Bad Gateway"),
			wantType:  ErrorTypeNetwork,
			wantMsg:   "502",
			retryable: true,
		},
		{
			name:     "unexpected status",
			err:      apiError(http.StatusTeapot, "short and stout"),
			wantType: ErrorTypeUnknown,
			wantMsg:  "short and stout",
		},
		{
			name: "primary rate limit",
			err: &github.RateLimitError{
				Rate:     github.Rate{Reset: github.Timestamp{Time: time.Now().Add(time.Minute)}},
				Response: &http.Response{StatusCode: http.StatusForbidden},
			},
			wantType:  ErrorTypeRateLimit,
			wantMsg:   "resets at",
			retryable: true,
		},
		{
			name:      "secondary rate limit",
			err:       &github.AbuseRateLimitError{Response: &http.Response{StatusCode: http.StatusForbidden}},
			wantType:  ErrorTypeRateLimit,
			retryable: true,
		},
		{
			name:      "dial failure",
			err:       &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
			wantType:  ErrorTypeNetwork,
			retryable: true,
		},
		{
			name:      "wrapped reset",
			err:       fmt.Errorf("do request: %w", errors.New("read: connection reset by peer")),
			wantType:  ErrorTypeNetwork,
			retryable: true,
		},
		{
			name:     "anything else",
			err:      errors.New("something odd"),
			wantType: ErrorTypeUnknown,
			wantMsg:  "something odd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapGitHubError(tt.err, resource)

			require.NotNil(t, got)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Contains(t, got.Message, tt.wantMsg)
			assert.Equal(t, tt.retryable, got.Retryable)
			assert.Equal(t, resource, got.Resource)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestWrapGitHubError_PassThrough(t *testing.T) {
	assert.Nil(t, WrapGitHubError(nil, "x"))

	existing := &GitHubError{Type: ErrorTypeAuth, Message: "auth"}
	got := WrapGitHubError(fmt.Errorf("list: %w", existing), "pull requests")
	assert.Same(t, existing, got)
	assert.Equal(t, "pull requests", got.Resource)

	existing.Resource = "kept"
	assert.Equal(t, "kept", WrapGitHubError(existing, "other").Resource)
}

func TestIsConflict(t *testing.T) {
	assert.True(t, IsConflict(fmt.Errorf("create: %w", &GitHubError{Type: ErrorTypeConflict})))
	assert.False(t, IsConflict(&GitHubError{Type: ErrorTypeValidation}))
	assert.False(t, IsConflict(errors.New("conflict")))
	assert.False(t, IsConflict(nil))
}

func TestWithRetry(t *testing.T) {
	networkErr := &GitHubError{Type: ErrorTypeNetwork, Retryable: true}

	tests := []struct {
		name      string
		failures  int
		err       error
		config    func() *RetryConfig
		wantCalls int
		wantErr   string
	}{
		{
			name:      "succeeds first time",
			wantCalls: 1,
		},
		{
			name:      "recovers from transient failures",
			failures:  2,
			err:       networkErr,
			wantCalls: 3,
		},
		{
			name:      "gives up after max retries",
			failures:  10,
			err:       networkErr,
			wantCalls: 4,
			wantErr:   "operation failed after 3 retries",
		},
		{
			name:      "does not retry validation errors",
			failures:  10,
			err:       &GitHubError{Type: ErrorTypeValidation},
			wantCalls: 1,
			wantErr:   "validation error",
		},
		{
			name:      "does not retry plain errors",
			failures:  10,
			err:       errors.New("boom"),
			wantCalls: 1,
			wantErr:   "boom",
		},
		{
			name:     "honours the retryable type list",
			failures: 10,
			err:      networkErr,
			config: func() *RetryConfig {
				c := fastRetryConfig()
				c.RetryableErrors = []ErrorType{ErrorTypeRateLimit}
				return c
			},
			wantCalls: 1,
			wantErr:   "network error",
		},
		{
			name:     "empty type list retries anything retryable",
			failures: 1,
			err:      networkErr,
			config: func() *RetryConfig {
				c := fastRetryConfig()
				c.RetryableErrors = nil
				return c
			},
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := fastRetryConfig()
			if tt.config != nil {
				config = tt.config()
			}

			calls := 0
			err := WithRetry(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			}, config)

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWithRetry_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	config := fastRetryConfig()
	config.InitialDelay = time.Hour

	calls := 0
	err := WithRetry(ctx, func() error {
		calls++
		cancel()
		return &GitHubError{Type: ErrorTypeNetwork, Retryable: true}
	}, config)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_WaitsForRateLimitReset(t *testing.T) {
	reset := time.Now().Add(50 * time.Millisecond)

	calls := 0
	start := time.Now()
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls == 1 {
			return WrapGitHubError(&github.RateLimitError{
				Rate:     github.Rate{Reset: github.Timestamp{Time: reset}},
				Response: &http.Response{StatusCode: http.StatusForbidden},
			}, "pull requests")
		}
		return nil
	}, fastRetryConfig())

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	assert.Equal(t, 3, config.MaxRetries)
	assert.Equal(t, time.Second, config.InitialDelay)
	assert.ElementsMatch(t, []ErrorType{ErrorTypeRateLimit, ErrorTypeNetwork}, config.RetryableErrors)
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.False(t, errs.HasErrors())
	assert.Equal(t, "validation failed", errs.Error())

	errs.Add("owner", "", "owner is required")
	assert.True(t, errs.HasErrors())
	assert.Equal(t, "owner: owner is required", errs.Error())

	errs.Add("files[0].path", "../x", "path must stay inside the repository")
	assert.Equal(t,
		`2 validation errors: owner: owner is required; files[0].path "../x": path must stay inside the repository`,
		errs.Error())
}

func fastRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:    3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
		RetryableErrors: []ErrorType{
			ErrorTypeRateLimit,
			ErrorTypeNetwork,
		},
	}
}
