package github

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRepositoryName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "simple", input: "repo"},
		{name: "dots dashes underscores", input: "my-repo_v1.2"},
		{name: "empty", input: "", wantErr: "repository name is required"},
		{name: "too long", input: strings.Repeat("a", 101), wantErr: "100 characters or less"},
		{name: "invalid characters", input: "my repo", wantErr: "can only contain"},
		{name: "leading period", input: ".repo", wantErr: "cannot start or end with a period"},
		{name: "trailing period", input: "repo.", wantErr: "cannot start or end with a period"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRepositoryName(tt.input)
			if tt.wantErr == "" {
				assert.Nil(t, err)
				return
			}
			if assert.NotNil(t, err) {
				assert.Equal(t, "name", err.Field)
				assert.Contains(t, err.Message, tt.wantErr)
			}
		})
	}
}

func TestValidateOwner(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "user", input: "octocat"},
		{name: "org with hyphen", input: "wing-cloud"},
		{name: "managed user", input: "mona_octocorp"},
		{name: "managed user with long login", input: strings.Repeat("a", 39) + "_shortcode"},
		{name: "empty", input: "", wantErr: true},
		{name: "leading hyphen", input: "-octo", wantErr: true},
		{name: "trailing hyphen", input: "octo-", wantErr: true},
		{name: "slash", input: "octo/cat", wantErr: true},
		{name: "leading underscore", input: "_octo", wantErr: true},
		{name: "dot", input: "octo.cat", wantErr: true},
		{name: "too long", input: strings.Repeat("a", 101), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOwner(tt.input)
			if tt.wantErr {
				if assert.NotNil(t, err) {
					assert.Equal(t, "owner", err.Field)
				}
				return
			}
			assert.Nil(t, err)
		})
	}
}
