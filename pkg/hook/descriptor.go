package hook

import (
	"encoding/json"
	"io"
)

// Descriptor is the hook configuration printed for --config.
type Descriptor struct {
	ConfigVersion string              `json:"configVersion"`
	Kubernetes    []KubernetesBinding `json:"kubernetes"`
}

// KubernetesBinding subscribes the hook to events of one kind.
type KubernetesBinding struct {
	APIVersion         string   `json:"apiVersion"`
	Kind               string   `json:"kind"`
	ExecuteHookOnEvent []string `json:"executeHookOnEvent"`
}

// NewDescriptor subscribes to added, modified and deleted events of the given kind.
func NewDescriptor(apiVersion, kind string) Descriptor {
	return Descriptor{
		ConfigVersion: "v1",
		Kubernetes: []KubernetesBinding{
			{
				APIVersion:         apiVersion,
				Kind:               kind,
				ExecuteHookOnEvent: []string{WatchEventAdded, WatchEventModified, WatchEventDeleted},
			},
		},
	}
}

// Write prints the descriptor as indented JSON.
func (d Descriptor) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
