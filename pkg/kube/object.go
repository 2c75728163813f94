// Package kube reports reconciliation status back onto custom resources.
package kube

import (
	"strings"

	"k8s.io/apimachinery/pkg/runtime/schema"
)

// DefaultNamespace is used when an object carries no namespace.
const DefaultNamespace = "default"

// ObjectRef identifies a namespaced custom resource.
type ObjectRef struct {
	APIVersion string
	Kind       string
	Namespace  string
	Name       string
}

// GroupVersionKind parses the reference's apiVersion and kind.
func (r ObjectRef) GroupVersionKind() schema.GroupVersionKind {
	return schema.FromAPIVersionAndKind(r.APIVersion, r.Kind)
}

// ResourceType returns the kubectl resource type, "{kind-lowercased}.{group}".
// Core group kinds return the lowercased kind alone.
func (r ObjectRef) ResourceType() string {
	kind := strings.ToLower(r.Kind)
	group := r.GroupVersionKind().Group
	if group == "" {
		return kind
	}
	return kind + "." + group
}

// WithDefaultNamespace returns a copy of r whose namespace is ns when r has none.
func (r ObjectRef) WithDefaultNamespace(ns string) ObjectRef {
	if r.Namespace == "" {
		if ns == "" {
			ns = DefaultNamespace
		}
		r.Namespace = ns
	}
	return r
}

func (r ObjectRef) String() string {
	return r.ResourceType() + " " + r.Namespace + "/" + r.Name
}
