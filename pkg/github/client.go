package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

// Client implements the APIClient interface using the GitHub REST API
type Client struct {
	client *github.Client
	retry  *RetryConfig
}

// NewClient creates a new GitHub API client with the provided token
func NewClient(token string) *Client {
	return &Client{
		client: github.NewClient(newHTTPClient(token)),
		retry:  DefaultRetryConfig(),
	}
}

// NewEnterpriseClient creates a client for a GitHub Enterprise API endpoint
func NewEnterpriseClient(token, apiURL string) (*Client, error) {
	client, err := github.NewClient(newHTTPClient(token)).WithEnterpriseURLs(apiURL, apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL %q: %w", apiURL, err)
	}

	return &Client{
		client: client,
		retry:  DefaultRetryConfig(),
	}, nil
}

// SetRetryConfig overrides the retry policy for API calls
func (c *Client) SetRetryConfig(config *RetryConfig) {
	c.retry = config
}

func newHTTPClient(token string) *http.Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	return oauth2.NewClient(context.Background(), ts)
}

// ListPullRequests lists all pull requests of a repository in the given state
func (c *Client) ListPullRequests(ctx context.Context, owner, name, state string) ([]PullRequest, error) {
	opts := &github.PullRequestListOptions{
		State:       state,
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var allPullRequests []PullRequest

	err := WithRetry(ctx, func() error {
		allPullRequests = nil // Reset on retry
		opts.Page = 0         // Reset pagination on retry

		for {
			prs, resp, err := c.client.PullRequests.List(ctx, owner, name, opts)
			if err != nil {
				return WrapGitHubError(err, fmt.Sprintf("pull requests for repository %s/%s", owner, name))
			}

			for _, pr := range prs {
				allPullRequests = append(allPullRequests, convertGitHubPullRequest(pr))
			}

			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
		return nil
	}, c.retry)

	return allPullRequests, err
}

// CreatePullRequest opens a new pull request
func (c *Client) CreatePullRequest(ctx context.Context, owner, name string, pr NewPullRequest) (*PullRequest, error) {
	req := &github.NewPullRequest{
		Title: github.String(pr.Title),
		Head:  github.String(pr.Head),
		Base:  github.String(pr.Base),
		Body:  github.String(pr.Body),
	}

	var created *github.PullRequest

	err := WithRetry(ctx, func() error {
		var err error
		created, _, err = c.client.PullRequests.Create(ctx, owner, name, req)
		if err != nil {
			return WrapGitHubError(err, fmt.Sprintf("pull request %s for repository %s/%s", pr.Head, owner, name))
		}
		return nil
	}, c.retry)

	if err != nil {
		return nil, err
	}

	result := convertGitHubPullRequest(created)
	return &result, nil
}

// convertGitHubPullRequest converts a GitHub API pull request to our internal type
func convertGitHubPullRequest(pr *github.PullRequest) PullRequest {
	return PullRequest{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		State:     pr.GetState(),
		HeadRef:   pr.GetHead().GetRef(),
		BaseRef:   pr.GetBase().GetRef(),
		URL:       pr.GetHTMLURL(),
		CreatedAt: pr.GetCreatedAt().Time,
	}
}
