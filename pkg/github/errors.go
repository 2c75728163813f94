package github

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
)

// ErrorType represents different categories of GitHub API errors
type ErrorType string

const (
	ErrorTypeAuth       ErrorType = "authentication"
	ErrorTypePermission ErrorType = "permission"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeRateLimit  ErrorType = "rate_limit"
	ErrorTypeNetwork    ErrorType = "network"
	// ErrorTypeConflict is a pull request for the same head and base that is
	// already open
	ErrorTypeConflict ErrorType = "conflict"
	ErrorTypeUnknown  ErrorType = "unknown"
)

// GitHubError represents a structured error from GitHub operations
type GitHubError struct {
	Type      ErrorType `json:"type"`
	Message   string    `json:"message"`
	Cause     error     `json:"-"`
	Resource  string    `json:"resource,omitempty"`
	Retryable bool      `json:"retryable"`
}

// Error implements the error interface
func (e *GitHubError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s error for %s: %s", e.Type, e.Resource, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *GitHubError) Unwrap() error {
	return e.Cause
}

// IsConflict reports whether err is a GitHubError of type ErrorTypeConflict
func IsConflict(err error) bool {
	var ghErr *GitHubError
	return errors.As(err, &ghErr) && ghErr.Type == ErrorTypeConflict
}

// WrapGitHubError classifies an error returned by go-github. resource names
// what was being accessed, e.g. "pull requests for repository o/r".
func WrapGitHubError(err error, resource string) *GitHubError {
	if err == nil {
		return nil
	}

	var existing *GitHubError
	if errors.As(err, &existing) {
		if existing.Resource == "" {
			existing.Resource = resource
		}
		return existing
	}

	wrapped := &GitHubError{Cause: err, Resource: resource}

	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	var apiErr *github.ErrorResponse

	switch {
	case errors.As(err, &rateErr):
		wrapped.Type = ErrorTypeRateLimit
		wrapped.Message = fmt.Sprintf("rate limit exceeded, resets at %v", rateErr.Rate.Reset.Time)
		wrapped.Retryable = true
	case errors.As(err, &abuseErr):
		wrapped.Type = ErrorTypeRateLimit
		wrapped.Message = "secondary rate limit exceeded"
		wrapped.Retryable = true
	case errors.As(err, &apiErr) && apiErr.Response != nil:
		classifyResponse(wrapped, apiErr)
	case isNetworkError(err):
		wrapped.Type = ErrorTypeNetwork
		wrapped.Message = "network error talking to the GitHub API"
		wrapped.Retryable = true
	default:
		wrapped.Type = ErrorTypeUnknown
		wrapped.Message = err.Error()
	}

	return wrapped
}

func classifyResponse(e *GitHubError, resp *github.ErrorResponse) {
	switch status := resp.Response.StatusCode; {
	case status == http.StatusUnauthorized:
		e.Type = ErrorTypeAuth
		e.Message = "bad credentials, check GITHUB_TOKEN"

	case status == http.StatusForbidden && strings.Contains(strings.ToLower(resp.Message), "rate limit"):
		e.Type = ErrorTypeRateLimit
		e.Message = "rate limit exceeded"
		e.Retryable = true

	case status == http.StatusForbidden:
		e.Type = ErrorTypePermission
		e.Message = "token is not allowed to read or open pull requests (needs the repo or pull_requests scope)"

	case status == http.StatusNotFound:
		e.Type = ErrorTypeNotFound
		e.Message = "repository not found or not visible to the token"

	case status == http.StatusUnprocessableEntity:
		details := errorDetails(resp)
		e.Type = ErrorTypeValidation
		e.Message = "validation failed"
		if len(details) > 0 {
			e.Message += ": " + strings.Join(details, "; ")
		}
		for _, d := range details {
			if strings.Contains(d, "pull request already exists") {
				e.Type = ErrorTypeConflict
			}
		}

	case status >= http.StatusInternalServerError:
		e.Type = ErrorTypeNetwork
		e.Message = fmt.Sprintf("GitHub API unavailable (%d)", status)
		e.Retryable = true

	default:
		e.Type = ErrorTypeUnknown
		e.Message = resp.Message
	}
}

func errorDetails(resp *github.ErrorResponse) []string {
	details := make([]string, 0, len(resp.Errors))
	for _, err := range resp.Errors {
		switch {
		case err.Message != "" && err.Field != "":
			details = append(details, err.Field+": "+err.Message)
		case err.Message != "":
			details = append(details, err.Message)
		case err.Field != "":
			details = append(details, err.Field+": "+err.Code)
		}
	}
	return details
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, keyword := range []string{"connection refused", "connection reset", "no such host", "i/o timeout"} {
		if strings.Contains(msg, keyword) {
			return true
		}
	}
	return false
}

// RetryConfig defines configuration for retry logic
type RetryConfig struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	// RetryableErrors limits retries to these types; empty retries every
	// retryable GitHubError
	RetryableErrors []ErrorType
}

// DefaultRetryConfig returns a default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:    3,
		InitialDelay:  time.Second,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2.0,
		RetryableErrors: []ErrorType{
			ErrorTypeRateLimit,
			ErrorTypeNetwork,
		},
	}
}

// RetryableOperation represents an operation that can be retried
type RetryableOperation func() error

// WithRetry executes an operation with retry logic. Waiting between attempts
// stops as soon as ctx is done.
func WithRetry(ctx context.Context, operation RetryableOperation, config *RetryConfig) error {
	if config == nil {
		config = DefaultRetryConfig()
	}

	var lastErr error
	delay := config.InitialDelay

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, delay); err != nil {
				return fmt.Errorf("retry aborted: %w (last error: %v)", err, lastErr)
			}

			delay = time.Duration(float64(delay) * config.BackoffFactor)
			if delay > config.MaxDelay {
				delay = config.MaxDelay
			}
		}

		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		var ghErr *GitHubError
		if !errors.As(err, &ghErr) || !ghErr.Retryable || !config.retries(ghErr.Type) {
			return err
		}

		// a primary rate limit tells us when it resets
		var rateLimitErr *github.RateLimitError
		if errors.As(ghErr.Cause, &rateLimitErr) {
			wait := time.Until(rateLimitErr.Rate.Reset.Time)
			if wait > 0 && wait < 5*time.Minute {
				if err := sleep(ctx, wait); err != nil {
					return fmt.Errorf("retry aborted: %w (last error: %v)", err, lastErr)
				}
			}
		}
	}

	return fmt.Errorf("operation failed after %d retries: %w", config.MaxRetries, lastErr)
}

func (c *RetryConfig) retries(errorType ErrorType) bool {
	if len(c.RetryableErrors) == 0 {
		return true
	}
	for _, t := range c.RetryableErrors {
		if t == errorType {
			return true
		}
	}
	return false
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ValidationError is a rejected field of a GitContent or repository reference
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every rejected field
type ValidationErrors []ValidationError

// Error implements the error interface
func (e ValidationErrors) Error() string {
	switch len(e) {
	case 0:
		return "validation failed"
	case 1:
		return e[0].Error()
	}

	messages := make([]string, 0, len(e))
	for i := range e {
		messages = append(messages, e[i].Error())
	}
	return fmt.Sprintf("%d validation errors: %s", len(e), strings.Join(messages, "; "))
}

// Add adds a validation error to the collection
func (e *ValidationErrors) Add(field, value, message string) {
	*e = append(*e, ValidationError{Field: field, Value: value, Message: message})
}

// HasErrors returns true if there are validation errors
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}
