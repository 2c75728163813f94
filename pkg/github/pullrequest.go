package github

import (
	"context"
	"fmt"
)

// DefaultPullRequestBody is the description of pull requests opened by the operator
const DefaultPullRequestBody = "This pull request was opened automatically to keep files managed by a GitContent resource in sync.\n\n" +
	"Changes pushed to the integration branch update this pull request; merging it applies them to the default branch."

// PullRequestOptions configures a PullRequestManager
type PullRequestOptions struct {
	// Branch is the integration branch used as the pull request head
	Branch string
	Body   string
}

// PullRequestManager finds and idempotently opens the integration pull request
type PullRequestManager struct {
	client APIClient
	branch string
	body   string
}

// NewPullRequestManager creates a manager for pull requests headed at opts.Branch
func NewPullRequestManager(client APIClient, opts PullRequestOptions) *PullRequestManager {
	if opts.Body == "" {
		opts.Body = DefaultPullRequestBody
	}

	return &PullRequestManager{
		client: client,
		branch: opts.Branch,
		body:   opts.Body,
	}
}

// Find returns the open pull request whose head is the integration branch, or nil
func (m *PullRequestManager) Find(ctx context.Context, owner, name string) (*PullRequest, error) {
	prs, err := m.client.ListPullRequests(ctx, owner, name, PullRequestStateOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests: %w", err)
	}

	for i := range prs {
		if prs[i].HeadRef == m.branch {
			return &prs[i], nil
		}
	}
	return nil, nil
}

// Exists reports whether an open pull request from the integration branch exists
func (m *PullRequestManager) Exists(ctx context.Context, owner, name string) (bool, error) {
	pr, err := m.Find(ctx, owner, name)
	if err != nil {
		return false, err
	}
	return pr != nil, nil
}

// Ensure opens a pull request from the integration branch into base unless one
// is already open. It reports whether a pull request was created. Title and body
// of an existing pull request are left untouched.
func (m *PullRequestManager) Ensure(ctx context.Context, owner, name, base string) (bool, error) {
	exists, err := m.Exists(ctx, owner, name)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	_, err = m.client.CreatePullRequest(ctx, owner, name, NewPullRequest{
		Title: fmt.Sprintf("Update %s", name),
		Head:  m.branch,
		Base:  base,
		Body:  m.body,
	})
	if IsConflict(err) {
		// opened by a concurrent run between the lookup and the create
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create pull request: %w", err)
	}

	return true, nil
}
