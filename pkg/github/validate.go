package github

import (
	"regexp"
	"strings"
)

var (
	validRepositoryName = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	// underscores appear in Enterprise Managed User logins (name_shortcode)
	validOwnerName = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9_-]*[a-zA-Z0-9])?$`)
)

// maxOwnerLength leaves room for the managed user shortcode suffix on top of
// the 39 characters GitHub allows for regular logins.
const maxOwnerLength = 100

// ValidateRepositoryName validates repository name according to GitHub rules
func ValidateRepositoryName(name string) *ValidationError {
	if name == "" {
		return &ValidationError{
			Field:   "name",
			Value:   name,
			Message: "repository name is required",
		}
	}

	if len(name) > 100 {
		return &ValidationError{
			Field:   "name",
			Value:   name,
			Message: "repository name must be 100 characters or less",
		}
	}

	if !validRepositoryName.MatchString(name) {
		return &ValidationError{
			Field:   "name",
			Value:   name,
			Message: "repository name can only contain alphanumeric characters, periods, hyphens, and underscores",
		}
	}

	// Cannot start or end with period
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return &ValidationError{
			Field:   "name",
			Value:   name,
			Message: "repository name cannot start or end with a period",
		}
	}

	return nil
}

// ValidateOwner validates a user or organization login
func ValidateOwner(owner string) *ValidationError {
	if owner == "" {
		return &ValidationError{
			Field:   "owner",
			Value:   owner,
			Message: "repository owner is required",
		}
	}

	if len(owner) > maxOwnerLength {
		return &ValidationError{
			Field:   "owner",
			Value:   owner,
			Message: "owner must be 100 characters or less",
		}
	}

	if !validOwnerName.MatchString(owner) {
		return &ValidationError{
			Field:   "owner",
			Value:   owner,
			Message: "owner can only contain alphanumeric characters, hyphens and underscores, and must start and end with an alphanumeric character",
		}
	}

	return nil
}
