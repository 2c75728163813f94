package gitcontent

import (
	"context"

	"gitoperator/pkg/hook"
)

// Handler reconciles GitContent objects delivered as hook events. Deleted
// events are reconciled like any other: the repository keeps its files and
// the status update on the vanished object is dropped by the reporter.
type Handler struct {
	reconciler *Reconciler
}

// NewHandler creates a hook handler backed by r.
func NewHandler(r *Reconciler) *Handler {
	return &Handler{reconciler: r}
}

// Handle decodes the event object and reconciles it.
func (h *Handler) Handle(ctx context.Context, event hook.Event) error {
	obj, err := Decode(event.Object.Raw)
	if err != nil {
		return err
	}

	_, err = h.reconciler.Reconcile(ctx, obj)
	return err
}

// Register routes GitContent events of d to h.
func (h *Handler) Register(d *hook.Dispatcher) {
	d.Register(APIVersion, Kind, h)
}
