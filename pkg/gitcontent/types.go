package gitcontent

import (
	"encoding/json"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"gitoperator/pkg/kube"
)

const (
	// APIVersion of GitContent resources
	APIVersion = "wingcloud.com/v1"
	// Kind of GitContent resources
	Kind = "GitContent"
)

// GitContent is a GitContent custom resource.
type GitContent struct {
	APIVersion string            `json:"apiVersion"`
	Kind       string            `json:"kind"`
	Metadata   metav1.ObjectMeta `json:"metadata"`
	Spec       Spec              `json:"spec"`
}

// Spec declares the files a repository must contain.
type Spec struct {
	Owner string     `json:"owner"`
	Name  string     `json:"name"`
	Files []FileSpec `json:"files"`
}

// FileSpec declares one file.
type FileSpec struct {
	// Path relative to the repository root.
	Path    string `json:"path"`
	Content string `json:"content"`
	// ReadOnly set means the operator owns the file and rewrites it whenever
	// its content differs. Unset means the file is only created when missing
	// and is left to the user afterwards.
	ReadOnly bool `json:"readOnly,omitempty"`
}

// UnmarshalJSON decodes a GitContent object. Objects without a spec carry the
// owner, name and files at the top level.
func (g *GitContent) UnmarshalJSON(data []byte) error {
	var raw struct {
		APIVersion string            `json:"apiVersion"`
		Kind       string            `json:"kind"`
		Metadata   metav1.ObjectMeta `json:"metadata"`
		Spec       *Spec             `json:"spec"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	g.APIVersion = raw.APIVersion
	g.Kind = raw.Kind
	g.Metadata = raw.Metadata

	if raw.Spec != nil {
		g.Spec = *raw.Spec
		return nil
	}

	var spec Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return err
	}
	g.Spec = spec
	return nil
}

// Decode parses a JSON encoded GitContent object.
func Decode(data []byte) (*GitContent, error) {
	var obj GitContent
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", Kind, err)
	}
	return &obj, nil
}

// IsGitContent reports whether apiVersion and kind identify a GitContent.
func IsGitContent(apiVersion, kind string) bool {
	return apiVersion == APIVersion && kind == Kind
}

// Ref returns the reference used to report status on the object.
func (g *GitContent) Ref() kube.ObjectRef {
	return kube.ObjectRef{
		APIVersion: g.APIVersion,
		Kind:       g.Kind,
		Namespace:  g.Metadata.Namespace,
		Name:       g.Metadata.Name,
	}
}
