package git

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gitoperator/pkg/shell"
)

const (
	// DefaultBaseURL is the git host used when none is configured
	DefaultBaseURL = "https://github.com"

	// tokenUsername is the fixed basic-auth user paired with the token
	tokenUsername = "oauth2"

	// tokenEnvVar carries the token from the engine to the credential helper
	tokenEnvVar = "GITOPERATOR_GIT_TOKEN"

	defaultBinary = "git"
)

// Identity is the author and committer used for bot commits
type Identity struct {
	Name  string
	Email string
}

// DefaultIdentity is the bot identity used when none is configured
var DefaultIdentity = Identity{Name: "Wing Cloud Bot", Email: "bot@wing.cloud"}

// Options configures a Client
type Options struct {
	Binary   string
	Identity Identity
}

// Client creates working copies
type Client struct {
	runner   shell.Runner
	binary   string
	identity Identity
}

// NewClient creates a git client that runs commands through runner
func NewClient(runner shell.Runner, opts Options) *Client {
	if opts.Binary == "" {
		opts.Binary = defaultBinary
	}
	if opts.Identity == (Identity{}) {
		opts.Identity = DefaultIdentity
	}

	return &Client{
		runner:   runner,
		binary:   opts.Binary,
		identity: opts.Identity,
	}
}

// CloneOptions identifies the repository to check out
type CloneOptions struct {
	BaseURL string
	Owner   string
	Name    string
	Token   string
	// TempDir is the parent for the working copy; empty means os.TempDir()
	TempDir string
}

// WorkingCopy is a private clone owned by a single reconciliation run
type WorkingCopy struct {
	client *Client
	root   string
	dir    string
	creds  credentials
}

// RemoteURL builds the clone URL for owner/name under baseURL. HTTP(S) remotes
// carry the fixed token username; the password is supplied by the credential helper.
func RemoteURL(baseURL, owner, name string) string {
	base := strings.TrimSuffix(baseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}

	u, err := url.Parse(base)
	if err == nil && (u.Scheme == "https" || u.Scheme == "http") {
		u.User = url.User(tokenUsername)
		u.Path = path.Join("/", u.Path, owner, name+".git")
		return u.String()
	}

	return fmt.Sprintf("%s/%s/%s.git", base, owner, name)
}

// Clone checks out the repository into a uniquely named temporary directory.
// Nothing is left on disk when cloning fails.
func (c *Client) Clone(ctx context.Context, opts CloneOptions) (*WorkingCopy, error) {
	root, err := os.MkdirTemp(opts.TempDir, fmt.Sprintf("git-%s-%s-", opts.Owner, opts.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to create working directory: %w", err)
	}

	wc := &WorkingCopy{
		client: c,
		root:   root,
		dir:    filepath.Join(root, opts.Name),
		creds:  credentials{token: opts.Token},
	}

	remote := RemoteURL(opts.BaseURL, opts.Owner, opts.Name)
	if _, err := c.run(ctx, root, wc.creds, "clone", "--quiet", remote, opts.Name); err != nil {
		_ = os.RemoveAll(root)
		return nil, wrapError("clone", err)
	}

	for _, kv := range [][2]string{{"user.name", c.identity.Name}, {"user.email", c.identity.Email}} {
		if _, err := wc.git(ctx, "config", kv[0], kv[1]); err != nil {
			_ = os.RemoveAll(root)
			return nil, wrapError("config", err)
		}
	}

	return wc, nil
}

// Path returns the root of the checked out tree
func (w *WorkingCopy) Path() string {
	return w.dir
}

// Close removes the working copy from disk
func (w *WorkingCopy) Close() error {
	return os.RemoveAll(w.root)
}

func (w *WorkingCopy) git(ctx context.Context, args ...string) (string, error) {
	return w.client.run(ctx, w.dir, w.creds, args...)
}

func (c *Client) run(ctx context.Context, dir string, creds credentials, args ...string) (string, error) {
	return c.runner.Run(ctx, shell.Command{
		Name: c.binary,
		Args: append(creds.args(), args...),
		Dir:  dir,
		Env:  creds.env(),
	})
}

// credentials feeds the token to git without putting it on the command line
type credentials struct {
	token string
}

func (c credentials) args() []string {
	if c.token == "" {
		return nil
	}
	helper := fmt.Sprintf(`!f() { echo "username=%s"; echo "password=$%s"; }; f`, tokenUsername, tokenEnvVar)
	// the empty helper resets any helpers inherited from system or global config
	return []string{"-c", "credential.helper=", "-c", "credential.helper=" + helper}
}

func (c credentials) env() []string {
	env := []string{"GIT_TERMINAL_PROMPT=0"}
	if c.token != "" {
		env = append(env, tokenEnvVar+"="+c.token)
	}
	return env
}
