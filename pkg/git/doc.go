// Package git manages the private working copies used by a reconciliation run.
//
// A run clones the target repository into a fresh temporary directory, converges
// the integration branch with the default branch, and, when files changed, commits
// under the bot identity and force-pushes the integration branch back to origin.
// All operations shell out to the git binary through a shell.Runner. The access
// token is handed to git through the environment and an inline credential helper,
// so it never appears on a command line.
package git
