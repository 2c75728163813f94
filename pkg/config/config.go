package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"gitoperator/pkg/logging"
)

// Config represents the gitoperator configuration
type Config struct {
	GitHub      GitHubConfig      `yaml:"github"`
	Git         GitConfig         `yaml:"git"`
	PullRequest PullRequestConfig `yaml:"pull_request"`
	Kubernetes  KubernetesConfig  `yaml:"kubernetes"`
	Hook        HookConfig        `yaml:"hook"`
	Slack       SlackConfig       `yaml:"slack"`
	OpenAI      OpenAIConfig      `yaml:"openai"`
	Log         LogConfig         `yaml:"log"`
}

// GitHubConfig represents GitHub access configuration
type GitHubConfig struct {
	Token string `yaml:"token"`
	// APIURL selects a GitHub Enterprise API endpoint. Empty means github.com.
	APIURL string `yaml:"api_url"`
	// GitURL is the base URL repositories are cloned from.
	GitURL string `yaml:"git_url"`
}

// GitConfig controls how the integration branch is written
type GitConfig struct {
	Branch        string `yaml:"branch"`
	CommitMessage string `yaml:"commit_message"`
	AuthorName    string `yaml:"author_name"`
	AuthorEmail   string `yaml:"author_email"`
	Binary        string `yaml:"binary"`
}

// PullRequestConfig controls the integration pull request
type PullRequestConfig struct {
	Body string `yaml:"body"`
}

// KubernetesConfig controls status reporting back to the cluster
type KubernetesConfig struct {
	DefaultNamespace string `yaml:"default_namespace"`
	// StatusBackend is either "kubectl" or "api".
	StatusBackend string `yaml:"status_backend"`
	Kubectl       string `yaml:"kubectl"`
}

// HookConfig holds hook runtime settings
type HookConfig struct {
	BindingContextPath string `yaml:"binding_context_path"`
}

// SlackConfig is reserved for notifications; only presence is checked.
type SlackConfig struct {
	Channel string `yaml:"channel"`
}

// OpenAIConfig is reserved for generated content; only presence is checked.
type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Status backends
const (
	StatusBackendKubectl = "kubectl"
	StatusBackendAPI     = "api"
)

// Mode selects which settings Validate requires
type Mode int

const (
	// ModeHook is a binding-context run under the shell-operator
	ModeHook Mode = iota
	// ModeReconcile is a one-off reconcile of a local manifest
	ModeReconcile
)

// Environment variables read by ApplyEnv
const (
	EnvConfigPath         = "GITOPERATOR_CONFIG"
	EnvGitHubToken        = "GITHUB_TOKEN"
	EnvGitHubAPIURL       = "GITHUB_API_URL"
	EnvSlackChannel       = "SLACK_CHANNEL"
	EnvOpenAIAPIKey       = "OPENAI_API_KEY"
	EnvBindingContextPath = "BINDING_CONTEXT_PATH"
	EnvBranch             = "GITOPERATOR_BRANCH"
	EnvStatusBackend      = "GITOPERATOR_STATUS_BACKEND"
	EnvDefaultNamespace   = "GITOPERATOR_DEFAULT_NAMESPACE"
	EnvLogLevel           = "GITOPERATOR_LOG_LEVEL"
	EnvLogFormat          = "GITOPERATOR_LOG_FORMAT"
)

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		GitHub: GitHubConfig{
			GitURL: "https://github.com",
		},
		Git: GitConfig{
			Branch:        "gitoperator",
			CommitMessage: "update",
			AuthorName:    "Wing Cloud Bot",
			AuthorEmail:   "bot@wing.cloud",
			Binary:        "git",
		},
		Kubernetes: KubernetesConfig{
			DefaultNamespace: "default",
			StatusBackend:    StatusBackendKubectl,
			Kubectl:          "kubectl",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (or the default location when path is empty), then a .env file in the
// working directory, then the process environment.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = GetConfigPath()
		if err != nil {
			return nil, err
		}
	}

	config, err := LoadConfigFromPath(path)
	if err != nil {
		return nil, err
	}

	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	config.ApplyEnv(os.LookupEnv)
	return config, nil
}

// LoadConfigFromPath loads configuration from a specific path on top of the
// defaults. A missing file yields the defaults.
func LoadConfigFromPath(path string) (*Config, error) {
	config := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings from environment variables looked up with lookup.
// Empty values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	overrides := []struct {
		key    string
		target *string
	}{
		{EnvGitHubToken, &c.GitHub.Token},
		{EnvGitHubAPIURL, &c.GitHub.APIURL},
		{EnvSlackChannel, &c.Slack.Channel},
		{EnvOpenAIAPIKey, &c.OpenAI.APIKey},
		{EnvBindingContextPath, &c.Hook.BindingContextPath},
		{EnvBranch, &c.Git.Branch},
		{EnvStatusBackend, &c.Kubernetes.StatusBackend},
		{EnvDefaultNamespace, &c.Kubernetes.DefaultNamespace},
		{EnvLogLevel, &c.Log.Level},
		{EnvLogFormat, &c.Log.Format},
	}

	for _, o := range overrides {
		if v, ok := lookup(o.key); ok && v != "" {
			*o.target = v
		}
	}
}

// GetConfigPath returns the configuration file path, honouring $GITOPERATOR_CONFIG
func GetConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".gitoperator", "config.yaml"), nil
}

// Validate validates the configuration for the given mode. All problems are
// reported together.
func (c *Config) Validate(mode Mode) error {
	var errs []error

	if c.Git.Branch == "" {
		errs = append(errs, fmt.Errorf("git branch is required"))
	}
	if c.Kubernetes.DefaultNamespace == "" {
		errs = append(errs, fmt.Errorf("kubernetes default namespace is required"))
	}
	switch c.Kubernetes.StatusBackend {
	case StatusBackendKubectl, StatusBackendAPI:
	default:
		errs = append(errs, fmt.Errorf("unknown status backend %q (expected %s or %s)",
			c.Kubernetes.StatusBackend, StatusBackendKubectl, StatusBackendAPI))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		errs = append(errs, err)
	}

	if c.GitHub.Token == "" {
		errs = append(errs, fmt.Errorf("GitHub token is required (set %s)", EnvGitHubToken))
	}

	if mode == ModeHook {
		if c.Slack.Channel == "" {
			errs = append(errs, fmt.Errorf("slack channel is required (set %s)", EnvSlackChannel))
		}
		if c.OpenAI.APIKey == "" {
			errs = append(errs, fmt.Errorf("OpenAI API key is required (set %s)", EnvOpenAIAPIKey))
		}
		if c.Hook.BindingContextPath == "" {
			errs = append(errs, fmt.Errorf("binding context path is required (set %s)", EnvBindingContextPath))
		}
	}

	return errors.Join(errs...)
}
