package kube

import (
	"context"
	"time"

	"gitoperator/pkg/logging"
)

const subsystem = "Status"

// StatusReporter writes the Ready condition of a resource. Reporting is best
// effort: failures are logged at debug level and never returned.
type StatusReporter struct {
	patcher          Patcher
	defaultNamespace string
	now              func() time.Time
}

// NewStatusReporter creates a reporter. Objects without a namespace are
// patched in defaultNamespace.
func NewStatusReporter(patcher Patcher, defaultNamespace string) *StatusReporter {
	if defaultNamespace == "" {
		defaultNamespace = DefaultNamespace
	}
	return &StatusReporter{
		patcher:          patcher,
		defaultNamespace: defaultNamespace,
		now:              time.Now,
	}
}

// Report replaces status.conditions of ref with a single Ready condition.
func (r *StatusReporter) Report(ctx context.Context, ref ObjectRef, ready bool, message string) {
	ref = ref.WithDefaultNamespace(r.defaultNamespace)

	patch, err := StatusPatch(ReadyCondition(ready, message, r.now()))
	if err != nil {
		logging.Debug(subsystem, "ignoring status error for %s: %v", ref, err)
		return
	}

	if err := r.patcher.PatchStatus(ctx, ref, patch); err != nil {
		logging.Debug(subsystem, "ignoring status error for %s: %v", ref, err)
		return
	}

	logging.Debug(subsystem, "set %s Ready=%t %q", ref, ready, message)
}
