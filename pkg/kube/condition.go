package kube

import (
	"encoding/json"
	"fmt"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ConditionReady is the only condition type the operator reports.
const ConditionReady = "Ready"

// Condition mirrors an entry of status.conditions on a GitContent resource.
type Condition struct {
	Type               string                 `json:"type"`
	Status             metav1.ConditionStatus `json:"status"`
	LastTransitionTime metav1.Time            `json:"lastTransitionTime"`
	LastProbeTime      metav1.Time            `json:"lastProbeTime"`
	Message            string                 `json:"message,omitempty"`
}

// ReadyCondition builds a Ready condition observed at now.
func ReadyCondition(ready bool, message string, now time.Time) Condition {
	status := metav1.ConditionFalse
	if ready {
		status = metav1.ConditionTrue
	}

	ts := metav1.NewTime(now.UTC().Truncate(time.Second))
	return Condition{
		Type:               ConditionReady,
		Status:             status,
		LastTransitionTime: ts,
		LastProbeTime:      ts,
		Message:            message,
	}
}

// StatusPatch renders a JSON merge patch replacing status.conditions.
func StatusPatch(conditions ...Condition) ([]byte, error) {
	if conditions == nil {
		conditions = []Condition{}
	}

	patch := map[string]interface{}{
		"status": map[string]interface{}{
			"conditions": conditions,
		},
	}

	data, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to encode status patch: %w", err)
	}
	return data, nil
}
