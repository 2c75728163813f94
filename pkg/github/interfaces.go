package github

import "context"

// APIClient defines the interface for GitHub API operations
type APIClient interface {
	// Pull request operations
	ListPullRequests(ctx context.Context, owner, name, state string) ([]PullRequest, error)
	CreatePullRequest(ctx context.Context, owner, name string, pr NewPullRequest) (*PullRequest, error)
}

// PullRequestStateOpen lists only open pull requests
const PullRequestStateOpen = "open"
