package git

import (
	"context"

	"gitoperator/pkg/shell"
)

// CommitOptions describes the commit pushed to the integration branch
type CommitOptions struct {
	Branch  string
	Message string
}

// CommitAndPush stages every change in the working copy, commits it under the
// client identity and force-pushes the branch to origin with upstream tracking.
// The engine is the only writer of the branch, so its local state always wins.
//
// It reports whether anything was pushed. When staging leaves the index equal
// to HEAD (files rewritten with their committed content, or ignored by the
// repository) no commit is made and nothing is pushed.
func (w *WorkingCopy) CommitAndPush(ctx context.Context, opts CommitOptions) (bool, error) {
	if _, err := w.git(ctx, "add", "."); err != nil {
		return false, wrapError("add", err)
	}

	staged, err := w.hasStagedChanges(ctx)
	if err != nil {
		return false, err
	}
	if !staged {
		return false, nil
	}

	if _, err := w.git(ctx, "commit", "--quiet", "-m", opts.Message); err != nil {
		return false, wrapError("commit", err)
	}

	if _, err := w.git(ctx, "push", "--quiet", "--force", "--set-upstream", "origin", opts.Branch); err != nil {
		return false, wrapError("push", err)
	}

	return true, nil
}

// hasStagedChanges uses the exit code of diff --quiet: 1 means the index
// differs from HEAD.
func (w *WorkingCopy) hasStagedChanges(ctx context.Context) (bool, error) {
	_, err := w.git(ctx, "diff", "--cached", "--quiet")
	if err == nil {
		return false, nil
	}
	if shell.ExitCode(err) == 1 {
		return true, nil
	}
	return false, wrapError("diff", err)
}
