package gitcontent

import (
	"context"
	"fmt"

	"gitoperator/pkg/git"
	"gitoperator/pkg/kube"
	"gitoperator/pkg/logging"
)

const subsystem = "Reconciler"

// Status messages written to the Ready condition
const (
	MessageInProgress = "In progress"
	MessageSynced     = "Synced"
)

// PullRequests finds and opens the integration pull request
type PullRequests interface {
	Exists(ctx context.Context, owner, name string) (bool, error)
	Ensure(ctx context.Context, owner, name, base string) (bool, error)
}

// StatusReporter records the Ready condition of a resource. Implementations
// must not fail the reconciliation.
type StatusReporter interface {
	Report(ctx context.Context, ref kube.ObjectRef, ready bool, message string)
}

// Options configures a Reconciler
type Options struct {
	// BaseURL of the git host repositories are cloned from
	BaseURL string
	Token   string
	// Branch is the integration branch the operator manages
	Branch        string
	CommitMessage string
	// DryRun plans file changes on a fresh checkout and stops before
	// anything is written or pushed.
	DryRun bool
}

// Outcome describes what a reconciliation did
type Outcome struct {
	Changed   bool         `json:"changed"`
	PRExists  bool         `json:"prExists"`
	PRCreated bool         `json:"prCreated"`
	Files     []FileResult `json:"files"`
	// Base is the default branch of the repository
	Base string `json:"base"`
}

// Reconciler brings a repository in line with a GitContent resource
type Reconciler struct {
	git     *git.Client
	prs     PullRequests
	status  StatusReporter
	options Options
}

// NewReconciler creates a new reconciler. status may be nil, in which case no
// status is reported.
func NewReconciler(gitClient *git.Client, prs PullRequests, status StatusReporter, opts Options) *Reconciler {
	if opts.Branch == "" {
		opts.Branch = "gitoperator"
	}
	if opts.CommitMessage == "" {
		opts.CommitMessage = "update"
	}

	return &Reconciler{
		git:     gitClient,
		prs:     prs,
		status:  status,
		options: opts,
	}
}

// Reconcile runs one reconciliation of obj.
func (r *Reconciler) Reconcile(ctx context.Context, obj *GitContent) (*Outcome, error) {
	spec := obj.Spec
	if err := Validate(spec); err != nil {
		return nil, fmt.Errorf("invalid %s %s: %w", Kind, obj.Metadata.Name, err)
	}

	logging.Info(subsystem, "reconciling %s/%s for %s", spec.Owner, spec.Name, obj.Metadata.Name)

	wc, err := r.git.Clone(ctx, git.CloneOptions{
		BaseURL: r.options.BaseURL,
		Owner:   spec.Owner,
		Name:    spec.Name,
		Token:   r.options.Token,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to clone %s/%s: %w", spec.Owner, spec.Name, err)
	}
	defer func() {
		if err := wc.Close(); err != nil {
			logging.Warn(subsystem, "failed to remove working copy %s: %v", wc.Path(), err)
		}
	}()

	base, err := wc.DefaultBranch(ctx)
	if err != nil {
		return nil, err
	}

	branch := r.options.Branch
	state, err := wc.EnsureBranch(ctx, branch, base, fmt.Sprintf("Merge %s into %s", base, branch))
	if err != nil {
		return nil, fmt.Errorf("failed to prepare branch %s: %w", branch, err)
	}
	logging.Debug(subsystem, "branch %s was %s, now based on %s", branch, state, base)

	outcome := &Outcome{Base: base}

	if r.options.DryRun {
		outcome.Files, err = PlanFiles(wc.Path(), spec.Files)
		if err != nil {
			return nil, err
		}
		outcome.Changed = Changed(outcome.Files)
		return outcome, nil
	}

	outcome.Files, err = ApplyFiles(wc.Path(), spec.Files)
	if err != nil {
		return nil, err
	}
	outcome.Changed = Changed(outcome.Files)

	for _, f := range outcome.Files {
		logging.Debug(subsystem, "%s: %s", f.Path, f.Action)
	}

	if outcome.Changed {
		pushed, err := wc.CommitAndPush(ctx, git.CommitOptions{Branch: branch, Message: r.options.CommitMessage})
		if err != nil {
			return nil, err
		}
		if !pushed {
			logging.Debug(subsystem, "writes to %s/%s left nothing to commit", spec.Owner, spec.Name)
			outcome.Changed = false
		}
	}

	if outcome.Changed {
		logging.Info(subsystem, "pushed %s to %s/%s", branch, spec.Owner, spec.Name)

		created, err := r.prs.Ensure(ctx, spec.Owner, spec.Name, base)
		if err != nil {
			return nil, err
		}
		outcome.PRExists = true
		outcome.PRCreated = created
		if created {
			logging.Info(subsystem, "opened pull request %s -> %s in %s/%s", branch, base, spec.Owner, spec.Name)
		}

		r.report(ctx, obj, true, MessageInProgress)
		return outcome, nil
	}

	outcome.PRExists, err = r.prs.Exists(ctx, spec.Owner, spec.Name)
	if err != nil {
		return nil, err
	}
	if !outcome.PRExists {
		r.report(ctx, obj, false, MessageSynced)
	}

	logging.Info(subsystem, "%s/%s is up to date (pull request open: %t)", spec.Owner, spec.Name, outcome.PRExists)
	return outcome, nil
}

func (r *Reconciler) report(ctx context.Context, obj *GitContent, ready bool, message string) {
	if r.status == nil {
		return
	}
	r.status.Report(ctx, obj.Ref(), ready, message)
}
