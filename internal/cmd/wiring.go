package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"

	"gitoperator/pkg/config"
	"gitoperator/pkg/git"
	"gitoperator/pkg/gitcontent"
	"gitoperator/pkg/github"
	"gitoperator/pkg/kube"
	"gitoperator/pkg/logging"
	"gitoperator/pkg/shell"
)

// loadConfig loads the configuration, applies the logging flags, initialises
// logging and validates the result for mode.
func loadConfig(cmd *cobra.Command, mode config.Mode) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	logging.Init(level, format, cmd.ErrOrStderr())

	if err := cfg.Validate(mode); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

type reconcilerOptions struct {
	dryRun       bool
	reportStatus bool
}

func newReconciler(cfg *config.Config, opts reconcilerOptions) (*gitcontent.Reconciler, error) {
	runner := shell.NewExecRunner()

	gitClient := git.NewClient(runner, git.Options{
		Binary: cfg.Git.Binary,
		Identity: git.Identity{
			Name:  cfg.Git.AuthorName,
			Email: cfg.Git.AuthorEmail,
		},
	})

	api, err := newGitHubClient(cfg)
	if err != nil {
		return nil, err
	}
	prs := github.NewPullRequestManager(api, github.PullRequestOptions{
		Branch: cfg.Git.Branch,
		Body:   cfg.PullRequest.Body,
	})

	var status gitcontent.StatusReporter
	if opts.reportStatus {
		patcher, err := newStatusPatcher(cfg, runner)
		if err != nil {
			return nil, err
		}
		status = kube.NewStatusReporter(patcher, cfg.Kubernetes.DefaultNamespace)
	}

	return gitcontent.NewReconciler(gitClient, prs, status, gitcontent.Options{
		BaseURL:       cfg.GitHub.GitURL,
		Token:         cfg.GitHub.Token,
		Branch:        cfg.Git.Branch,
		CommitMessage: cfg.Git.CommitMessage,
		DryRun:        opts.dryRun,
	}), nil
}

func newGitHubClient(cfg *config.Config) (*github.Client, error) {
	if cfg.GitHub.APIURL == "" {
		return github.NewClient(cfg.GitHub.Token), nil
	}
	return github.NewEnterpriseClient(cfg.GitHub.Token, cfg.GitHub.APIURL)
}

func newStatusPatcher(cfg *config.Config, runner shell.Runner) (kube.Patcher, error) {
	switch cfg.Kubernetes.StatusBackend {
	case config.StatusBackendAPI:
		restConfig, err := ctrl.GetConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to get Kubernetes config: %w", err)
		}
		return kube.NewAPIPatcherForConfig(restConfig)
	default:
		return kube.NewKubectlPatcher(runner, cfg.Kubernetes.Kubectl), nil
	}
}
