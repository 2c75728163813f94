package gitcontent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitoperator/pkg/github"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		spec       Spec
		wantFields []string
	}{
		{
			name: "valid",
			spec: Spec{Owner: "o", Name: "r", Files: []FileSpec{
				{Path: "README.md"},
				{Path: "docs/guide/intro.md"},
				{Path: "./nested/../file.txt"},
			}},
		},
		{
			name: "managed user owner",
			spec: Spec{Owner: "mona_octocorp", Name: "r"},
		},
		{
			name:       "missing owner and name",
			spec:       Spec{},
			wantFields: []string{"owner", "name"},
		},
		{
			name:       "owner with slash",
			spec:       Spec{Owner: "o/x", Name: "r"},
			wantFields: []string{"owner"},
		},
		{
			name: "bad paths",
			spec: Spec{Owner: "o", Name: "r", Files: []FileSpec{
				{Path: ""},
				{Path: "/etc/passwd"},
				{Path: "../outside"},
				{Path: "a/../../outside"},
				{Path: ".git/config"},
				{Path: "."},
			}},
			wantFields: []string{
				"files[0].path",
				"files[1].path",
				"files[2].path",
				"files[3].path",
				"files[4].path",
				"files[5].path",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.spec)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var verrs github.ValidationErrors
			require.ErrorAs(t, err, &verrs)

			var fields []string
			for _, e := range verrs {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}
