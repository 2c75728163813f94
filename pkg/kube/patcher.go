package kube

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/rest"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"gitoperator/pkg/shell"
)

// Patcher applies a JSON merge patch to the status sub-resource of an object.
type Patcher interface {
	PatchStatus(ctx context.Context, ref ObjectRef, patch []byte) error
}

// KubectlPatcher patches status by running kubectl.
type KubectlPatcher struct {
	runner shell.Runner
	binary string
}

// NewKubectlPatcher creates a patcher running binary (default "kubectl").
func NewKubectlPatcher(runner shell.Runner, binary string) *KubectlPatcher {
	if binary == "" {
		binary = "kubectl"
	}
	return &KubectlPatcher{runner: runner, binary: binary}
}

// PatchStatus runs kubectl patch against the status sub-resource.
func (p *KubectlPatcher) PatchStatus(ctx context.Context, ref ObjectRef, patch []byte) error {
	_, err := p.runner.Run(ctx, shell.Command{
		Name: p.binary,
		Args: []string{
			"patch", ref.ResourceType(), ref.Name,
			"-n", ref.Namespace,
			"--subresource=status",
			"--type=merge",
			"-p", string(patch),
		},
	})
	if err != nil {
		return fmt.Errorf("kubectl patch %s failed: %w", ref, err)
	}
	return nil
}

// APIPatcher patches status through the Kubernetes API.
type APIPatcher struct {
	client client.Client
}

// NewAPIPatcher wraps an existing controller-runtime client.
func NewAPIPatcher(c client.Client) *APIPatcher {
	return &APIPatcher{client: c}
}

// NewAPIPatcherForConfig creates a client for cfg. Resource mappings are
// discovered lazily from the API server.
func NewAPIPatcherForConfig(cfg *rest.Config) (*APIPatcher, error) {
	c, err := client.New(cfg, client.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Kubernetes client: %w", err)
	}
	return NewAPIPatcher(c), nil
}

// PatchStatus sends a merge patch to the status sub-resource.
func (p *APIPatcher) PatchStatus(ctx context.Context, ref ObjectRef, patch []byte) error {
	obj := &unstructured.Unstructured{}
	obj.SetGroupVersionKind(ref.GroupVersionKind())
	obj.SetNamespace(ref.Namespace)
	obj.SetName(ref.Name)

	if err := p.client.Status().Patch(ctx, obj, client.RawPatch(types.MergePatchType, patch)); err != nil {
		return fmt.Errorf("failed to patch status of %s: %w", ref, err)
	}
	return nil
}
