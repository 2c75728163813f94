package gitcontent

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrSymlink is returned for a declared path that reaches a symbolic link in
// the working copy. Links committed to the repository could otherwise point
// reads and writes outside of it.
var ErrSymlink = errors.New("path traverses a symbolic link")

// Action is what reconciling a file does to the working copy.
type Action string

const (
	ActionCreate        Action = "create"
	ActionOverwrite     Action = "overwrite"
	ActionSkipUserOwned Action = "skip-user-owned"
	ActionSkipUnchanged Action = "skip-unchanged"
)

// Writes reports whether the action modifies the working copy.
func (a Action) Writes() bool {
	return a == ActionCreate || a == ActionOverwrite
}

// FileResult is the action taken for one declared file.
type FileResult struct {
	Path   string `json:"path"`
	Action Action `json:"action"`
}

// Changed reports whether any result wrote a file.
func Changed(results []FileResult) bool {
	for _, r := range results {
		if r.Action.Writes() {
			return true
		}
	}
	return false
}

// decide applies the merge policy to a file's current state.
func decide(file FileSpec, exists bool, current string) Action {
	switch {
	case !exists:
		return ActionCreate
	case !file.ReadOnly:
		return ActionSkipUserOwned
	case current == file.Content:
		return ActionSkipUnchanged
	default:
		return ActionOverwrite
	}
}

// readFile returns the content of path and whether it exists.
func readFile(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

// resolve joins rel onto dir, checking every existing component with Lstat.
// The first missing component ends the walk since nothing below it exists.
func resolve(dir, rel string) (string, error) {
	full := dir
	for _, part := range strings.Split(filepath.Clean(filepath.FromSlash(rel)), string(filepath.Separator)) {
		full = filepath.Join(full, part)

		info, err := os.Lstat(full)
		if errors.Is(err, fs.ErrNotExist) {
			return filepath.Join(dir, rel), nil
		}
		if err != nil {
			return "", err
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			return "", fmt.Errorf("%w: %s", ErrSymlink, strings.TrimPrefix(full, dir+string(filepath.Separator)))
		}
	}
	return full, nil
}

// PlanFiles computes the action for each file without touching dir. Files are
// planned in order, each seeing the writes planned before it.
func PlanFiles(dir string, files []FileSpec) ([]FileResult, error) {
	type state struct {
		exists  bool
		content string
	}
	planned := make(map[string]state)

	results := make([]FileResult, 0, len(files))
	for _, f := range files {
		full, err := resolve(dir, f.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", f.Path, err)
		}

		st, ok := planned[full]
		if !ok {
			content, exists, err := readFile(full)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", f.Path, err)
			}
			st = state{exists: exists, content: content}
		}

		action := decide(f, st.exists, st.content)
		if action.Writes() {
			planned[full] = state{exists: true, content: f.Content}
		}
		results = append(results, FileResult{Path: f.Path, Action: action})
	}

	return results, nil
}

// ApplyFiles reconciles each file in dir in declaration order, creating
// parent directories as needed.
func ApplyFiles(dir string, files []FileSpec) ([]FileResult, error) {
	results := make([]FileResult, 0, len(files))
	for _, f := range files {
		full, err := resolve(dir, f.Path)
		if err != nil {
			return results, fmt.Errorf("failed to resolve %s: %w", f.Path, err)
		}

		current, exists, err := readFile(full)
		if err != nil {
			return results, fmt.Errorf("failed to read %s: %w", f.Path, err)
		}

		action := decide(f, exists, current)
		if action.Writes() {
			if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
				return results, fmt.Errorf("failed to create directory for %s: %w", f.Path, err)
			}
			if err := os.WriteFile(full, []byte(f.Content), 0644); err != nil {
				return results, fmt.Errorf("failed to write %s: %w", f.Path, err)
			}
		}

		results = append(results, FileResult{Path: f.Path, Action: action})
	}

	return results, nil
}
