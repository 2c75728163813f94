// Package github provides the GitHub side of GitContent reconciliation.
// It wraps the GitHub REST API for pull requests and implements the idempotent
// pull request manager that proposes integration branch changes to the default branch.
//
// The package includes:
// - APIClient interface for GitHub API operations
// - PullRequestManager for querying and creating the integration pull request
// - Structured GitHub errors with retry support for transient failures
// - Repository owner and name validation
package github
