package hook

import (
	"context"
	"fmt"

	"gitoperator/pkg/logging"
)

const subsystem = "Hook"

// Handler processes events for one kind of object.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

type route struct {
	apiVersion string
	kind       string
}

// Dispatcher routes events to handlers by apiVersion and kind.
type Dispatcher struct {
	handlers map[route]Handler
}

// NewDispatcher creates a dispatcher with no routes.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[route]Handler)}
}

// Register routes events for apiVersion/kind to h.
func (d *Dispatcher) Register(apiVersion, kind string, h Handler) {
	d.handlers[route{apiVersion: apiVersion, kind: kind}] = h
}

// Dispatch handles events in order. Events without a handler are ignored. The
// first handler error stops the batch.
func (d *Dispatcher) Dispatch(ctx context.Context, events []Event) error {
	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return err
		}

		logging.Info(subsystem, "%s", Summary(ev))

		h, ok := d.handlers[route{apiVersion: ev.Object.APIVersion, kind: ev.Object.Kind}]
		if !ok {
			logging.Debug(subsystem, "no handler for %s/%s", ev.Object.APIVersion, ev.Object.Kind)
			continue
		}

		if err := h.Handle(ctx, ev); err != nil {
			return fmt.Errorf("%s %s/%s: %w", ev.WatchEvent, ev.Object.Kind, ev.Object.Metadata.Name, err)
		}
	}
	return nil
}

// Summary renders a one-line description of ev.
func Summary(ev Event) string {
	ns := ev.Object.Metadata.Namespace
	if ns == "" {
		ns = "Default"
	}

	return fmt.Sprintf("%s %s: *%s/%s* %s/%s (uid=%s)",
		emoji(ev.WatchEvent), ev.WatchEvent,
		ev.Object.APIVersion, ev.Object.Kind,
		ns, ev.Object.Metadata.Name,
		ev.Object.Metadata.UID)
}

func emoji(watchEvent string) string {
	switch watchEvent {
	case WatchEventAdded:
		return "🌟"
	case WatchEventDeleted:
		return "🗑️"
	case WatchEventModified:
		return "✏️"
	default:
		return "•"
	}
}
