package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gitoperator/pkg/logging"
)

// Watch event names
const (
	WatchEventAdded    = "Added"
	WatchEventModified = "Modified"
	WatchEventDeleted  = "Deleted"
)

// Metadata holds the object metadata the hook cares about.
type Metadata struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace,omitempty"`
	UID       string `json:"uid,omitempty"`
}

// Object is a Kubernetes object from a binding context. Raw keeps the full
// JSON document for handlers that decode their own types.
type Object struct {
	APIVersion string          `json:"apiVersion"`
	Kind       string          `json:"kind"`
	Metadata   Metadata        `json:"metadata"`
	Raw        json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the object header and keeps the raw document.
func (o *Object) UnmarshalJSON(data []byte) error {
	type header Object
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return err
	}
	*o = Object(h)
	o.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// Event is a single watch event.
type Event struct {
	WatchEvent string `json:"watchEvent"`
	Type       string `json:"type,omitempty"`
	Object     Object `json:"object"`
}

type bindingContext struct {
	WatchEvent string             `json:"watchEvent"`
	Type       string             `json:"type"`
	Object     *Object            `json:"object"`
	Objects    *[]json.RawMessage `json:"objects"`
}

// Parse reads a binding context document: a JSON array whose elements carry
// either one object or a list of objects. Lists are flattened into one event
// per object, each inheriting the watch event and type of its element.
// Elements with neither are skipped.
func Parse(r io.Reader) ([]Event, error) {
	var contexts []bindingContext
	if err := json.NewDecoder(r).Decode(&contexts); err != nil {
		return nil, fmt.Errorf("failed to parse binding context: %w", err)
	}

	var events []Event
	for i, ctx := range contexts {
		switch {
		case ctx.Objects != nil:
			for j, raw := range *ctx.Objects {
				var nested bindingContext
				if err := json.Unmarshal(raw, &nested); err != nil {
					return nil, fmt.Errorf("failed to parse binding context %d object %d: %w", i, j, err)
				}
				if nested.Object == nil {
					logging.Debug("Hook", "binding context %d object %d has no object, skipping", i, j)
					continue
				}
				events = append(events, Event{
					WatchEvent: ctx.WatchEvent,
					Type:       ctx.Type,
					Object:     *nested.Object,
				})
			}
		case ctx.Object != nil:
			events = append(events, Event{
				WatchEvent: ctx.WatchEvent,
				Type:       ctx.Type,
				Object:     *ctx.Object,
			})
		default:
			logging.Debug("Hook", "binding context %d (type %q) carries no objects, skipping", i, ctx.Type)
		}
	}

	return events, nil
}

// LoadFile parses the binding context file at path.
func LoadFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open binding context: %w", err)
	}
	defer f.Close()

	return Parse(f)
}
