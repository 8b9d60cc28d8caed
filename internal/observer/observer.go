// Package observer implements the Observer pattern for execution
// monitoring, adapted from pkg/observer/observer.go: the same
// Event/Observer/Logger shapes, generalized from this runtime's node kinds
// and trigger/scheduler lifecycle instead of a visual-programming node catalog.
package observer

import (
	"context"
	"time"

	"github.com/fuschiarun/fuschia/internal/types"
)

// EventType discriminates workflow- and node-level lifecycle events.
type EventType string

const (
	EventWorkflowStart EventType = "workflow_start"
	EventWorkflowEnd   EventType = "workflow_end"
	EventNodeStart     EventType = "node_start"
	EventNodeSuccess   EventType = "node_success"
	EventNodeFailure   EventType = "node_failure"
)

// Status is the outcome of a node or workflow execution.
type Status string

const (
	StatusStarted Status = "started"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Event carries execution metadata for one lifecycle point.
type Event struct {
	Type      EventType
	Status    Status
	Timestamp time.Time

	ExecutionID string
	WorkflowID  string

	NodeID   string
	NodeKind types.NodeKind

	ElapsedTime time.Duration
	Result      any
	Err         error
}

// Observer receives execution lifecycle notifications.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// Logger is the minimal logging interface a ConsoleObserver depends on,
// decoupling observer from a concrete logging implementation.
type Logger interface {
	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}
