// Package gittest provides local git remotes for tests. Repositories are bare
// repositories laid out as {base}/{owner}/{name}.git so they can be cloned with
// the same URL scheme the engine uses against a real git host.
package gittest

import (
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Remote is a directory of bare repositories
type Remote struct {
	t       testing.TB
	BaseURL string
}

// NewRemote creates an empty remote rooted in a test temp directory
func NewRemote(t testing.TB) *Remote {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	return &Remote{t: t, BaseURL: t.TempDir()}
}

// RepoPath returns the bare repository path for owner/name
func (r *Remote) RepoPath(owner, name string) string {
	return filepath.Join(r.BaseURL, owner, name+".git")
}

// CreateRepo initialises owner/name with one commit on defaultBranch
func (r *Remote) CreateRepo(owner, name, defaultBranch string, files map[string]string) {
	r.t.Helper()
	bare := r.RepoPath(owner, name)
	if err := os.MkdirAll(filepath.Dir(bare), 0755); err != nil {
		r.t.Fatal(err)
	}
	Run(r.t, "", "git", "init", "--quiet", "--bare", bare)
	Run(r.t, bare, "git", "symbolic-ref", "HEAD", "refs/heads/"+defaultBranch)
	r.Commit(owner, name, defaultBranch, files, "Initial commit")
}

// Commit pushes a commit writing files onto branch, creating the branch from
// the current default branch when it does not exist yet
func (r *Remote) Commit(owner, name, branch string, files map[string]string, message string) {
	r.t.Helper()
	work := r.seed(owner, name, branch)

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		full := filepath.Join(work, p)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			r.t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(files[p]), 0644); err != nil {
			r.t.Fatal(err)
		}
	}

	r.push(work, branch, message)
}

// CommitSymlink pushes a commit adding a symbolic link at link pointing to target
func (r *Remote) CommitSymlink(owner, name, branch, link, target string) {
	r.t.Helper()
	work := r.seed(owner, name, branch)

	full := filepath.Join(work, link)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		r.t.Fatal(err)
	}
	if err := os.Symlink(target, full); err != nil {
		r.t.Fatal(err)
	}

	r.push(work, branch, "add "+link)
}

// seed clones owner/name and checks out branch in a scratch directory
func (r *Remote) seed(owner, name, branch string) string {
	r.t.Helper()
	work := filepath.Join(r.t.TempDir(), "seed")
	Run(r.t, "", "git", "clone", "--quiet", r.RepoPath(owner, name), work)

	if r.HasBranch(owner, name, branch) {
		Run(r.t, work, "git", "checkout", "--quiet", branch)
	} else if strings.TrimSpace(Run(r.t, work, "git", "branch", "--list")) == "" {
		Run(r.t, work, "git", "symbolic-ref", "HEAD", "refs/heads/"+branch)
	} else {
		Run(r.t, work, "git", "checkout", "--quiet", "-b", branch)
	}
	return work
}

func (r *Remote) push(work, branch, message string) {
	r.t.Helper()
	Run(r.t, work, "git", "add", ".")
	Run(r.t, work, "git", "-c", "user.name=Test", "-c", "user.email=test@test.com",
		"commit", "--quiet", "--allow-empty", "-m", message)
	Run(r.t, work, "git", "push", "--quiet", "origin", branch)
}

// HasBranch reports whether branch exists in owner/name
func (r *Remote) HasBranch(owner, name, branch string) bool {
	r.t.Helper()
	cmd := exec.Command("git", "--git-dir", r.RepoPath(owner, name), "show-ref", "--verify", "--quiet", "refs/heads/"+branch)
	return cmd.Run() == nil
}

// ReadFile returns the content of path at ref, and false when it is absent
func (r *Remote) ReadFile(owner, name, ref, path string) (string, bool) {
	r.t.Helper()
	out, err := exec.Command("git", "--git-dir", r.RepoPath(owner, name), "show", ref+":"+path).Output()
	if err != nil {
		return "", false
	}
	return string(out), true
}

// Tree lists the files tracked at ref
func (r *Remote) Tree(owner, name, ref string) []string {
	r.t.Helper()
	out := Run(r.t, "", "git", "--git-dir", r.RepoPath(owner, name), "ls-tree", "-r", "--name-only", ref)
	return strings.Fields(out)
}

// CommitCount returns the number of commits reachable from ref
func (r *Remote) CommitCount(owner, name, ref string) int {
	r.t.Helper()
	out := Run(r.t, "", "git", "--git-dir", r.RepoPath(owner, name), "rev-list", ref)
	return len(strings.Fields(out))
}

// Run executes a command in dir and fails the test on error
func Run(t testing.TB, dir string, name string, args ...string) string {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("%s %s: %v: %s", name, strings.Join(args, " "), err, out)
	}
	return string(out)
}
