package gitcontent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitoperator/pkg/kube"
)

func TestDecode_Spec(t *testing.T) {
	obj, err := Decode([]byte(`{
		"apiVersion": "wingcloud.com/v1",
		"kind": "GitContent",
		"metadata": {"name": "readme", "namespace": "tools", "uid": "u-1"},
		"spec": {
			"owner": "o",
			"name": "r",
			"files": [
				{"path": "README.md", "content": "hi"},
				{"path": ".github/CODEOWNERS", "content": "* @o", "readOnly": true}
			]
		}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "readme", obj.Metadata.Name)
	assert.Equal(t, "o", obj.Spec.Owner)
	assert.Equal(t, "r", obj.Spec.Name)
	assert.Equal(t, []FileSpec{
		{Path: "README.md", Content: "hi"},
		{Path: ".github/CODEOWNERS", Content: "* @o", ReadOnly: true},
	}, obj.Spec.Files)

	assert.Equal(t, kube.ObjectRef{
		APIVersion: "wingcloud.com/v1",
		Kind:       "GitContent",
		Namespace:  "tools",
		Name:       "readme",
	}, obj.Ref())
}

func TestDecode_TopLevelFields(t *testing.T) {
	obj, err := Decode([]byte(`{
		"apiVersion": "wingcloud.com/v1",
		"kind": "GitContent",
		"metadata": {"name": "flat"},
		"owner": "o",
		"name": "r",
		"files": [{"path": "a.txt", "content": "a"}]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "flat", obj.Metadata.Name)
	assert.Equal(t, "o", obj.Spec.Owner)
	assert.Equal(t, "r", obj.Spec.Name)
	require.Len(t, obj.Spec.Files, 1)
	assert.Equal(t, "a.txt", obj.Spec.Files[0].Path)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte(`{"spec": "nope"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode GitContent")
}

func TestIsGitContent(t *testing.T) {
	assert.True(t, IsGitContent("wingcloud.com/v1", "GitContent"))
	assert.False(t, IsGitContent("wingcloud.com/v2", "GitContent"))
	assert.False(t, IsGitContent("wingcloud.com/v1", "ConfigMap"))
}
