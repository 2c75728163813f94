package git

import (
	"context"
	"fmt"
	"strings"

	"gitoperator/pkg/shell"
)

// BranchState reports whether a branch exists on origin
type BranchState int

const (
	BranchMissing BranchState = iota
	BranchExists
)

// String makes BranchState satisfy the fmt.Stringer interface
func (s BranchState) String() string {
	switch s {
	case BranchExists:
		return "exists"
	case BranchMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// DefaultBranch returns the branch origin/HEAD points at
func (w *WorkingCopy) DefaultBranch(ctx context.Context) (string, error) {
	out, err := w.git(ctx, "symbolic-ref", "--short", "refs/remotes/origin/HEAD")
	if err != nil {
		return "", wrapError("symbolic-ref", err)
	}

	branch := strings.TrimPrefix(strings.TrimSpace(out), "origin/")
	if branch == "" {
		return "", fmt.Errorf("origin has no default branch")
	}
	return branch, nil
}

// BranchState queries the remote-tracking refs of the fresh clone. Only a clean
// "ref not found" is reported as BranchMissing; any other failure is an error.
func (w *WorkingCopy) BranchState(ctx context.Context, branch string) (BranchState, error) {
	_, err := w.git(ctx, "show-ref", "--verify", "--quiet", "refs/remotes/origin/"+branch)
	if err == nil {
		return BranchExists, nil
	}

	if shell.ExitCode(err) == 1 {
		return BranchMissing, nil
	}
	return BranchMissing, wrapError("show-ref", err)
}

// EnsureBranch checks out branch, creating it from base when origin does not
// have it yet, or merging base into it when it does. A conflicting merge is
// aborted and reported as ErrMergeConflict.
func (w *WorkingCopy) EnsureBranch(ctx context.Context, branch, base, mergeMessage string) (BranchState, error) {
	state, err := w.BranchState(ctx, branch)
	if err != nil {
		return state, err
	}

	if state == BranchMissing {
		if _, err := w.git(ctx, "checkout", "--quiet", "-b", branch, base); err != nil {
			return state, wrapError("checkout", err)
		}
		return state, nil
	}

	if _, err := w.git(ctx, "checkout", "--quiet", branch); err != nil {
		return state, wrapError("checkout", err)
	}

	if _, err := w.git(ctx, "merge", "--no-edit", "-m", mergeMessage, base); err != nil {
		conflicted, confErr := w.hasConflicts(ctx)
		if confErr == nil && conflicted {
			_, _ = w.git(ctx, "merge", "--abort")
			return state, fmt.Errorf("%w: merging %s into %s", ErrMergeConflict, base, branch)
		}
		return state, wrapError("merge", err)
	}

	return state, nil
}

func (w *WorkingCopy) hasConflicts(ctx context.Context) (bool, error) {
	out, err := w.git(ctx, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return false, wrapError("diff", err)
	}
	return strings.TrimSpace(out) != "", nil
}
