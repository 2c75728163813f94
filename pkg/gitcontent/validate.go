package gitcontent

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"gitoperator/pkg/github"
)

// Validate checks the repository coordinates and file paths of spec.
func Validate(spec Spec) error {
	var errs github.ValidationErrors

	if err := github.ValidateOwner(spec.Owner); err != nil {
		errs.Add("owner", spec.Owner, err.Message)
	}
	if err := github.ValidateRepositoryName(spec.Name); err != nil {
		errs.Add("name", spec.Name, err.Message)
	}

	for i, f := range spec.Files {
		field := fmt.Sprintf("files[%d].path", i)
		if msg := checkPath(f.Path); msg != "" {
			errs.Add(field, f.Path, msg)
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func checkPath(p string) string {
	if strings.TrimSpace(p) == "" {
		return "path is required"
	}
	if filepath.IsAbs(p) || path.IsAbs(p) {
		return "path must be relative to the repository root"
	}

	clean := path.Clean(filepath.ToSlash(p))
	if clean == "." {
		return "path must name a file"
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "path must stay inside the repository"
	}
	if clean == ".git" || strings.HasPrefix(clean, ".git/") {
		return "path must not point into the .git directory"
	}
	return ""
}
