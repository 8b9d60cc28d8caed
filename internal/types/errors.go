package types

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned when a cooperative cancellation signal was
// observed before or during an invocation.
var ErrCancelled = errors.New("execution cancelled")

// InvalidGraphError reports a structural problem with a workflow: an
// orphan node, the wrong trigger count, a dangling edge endpoint, or a
// loop/trigger node reached by the scheduler's ready-set logic.
type InvalidGraphError struct {
	Message string
}

func (e *InvalidGraphError) Error() string { return "invalid graph: " + e.Message }

// InputResolutionError reports a template-render, schema-coercion, or
// serialization failure while building a node's input.
type InputResolutionError struct {
	NodeID  string
	Message string
}

func (e *InputResolutionError) Error() string {
	return fmt.Sprintf("input resolution failed for node %q: %s", e.NodeID, e.Message)
}

// ComponentLoadError reports an on-disk read or compile failure in the
// component cache.
type ComponentLoadError struct {
	NodeID  string
	Message string
}

func (e *ComponentLoadError) Error() string {
	return fmt.Sprintf("failed to load component for node %q: %s", e.NodeID, e.Message)
}

// ComponentExecutionError reports a sandbox trap, a guest `err` return, or
// an output-parse failure.
type ComponentExecutionError struct {
	NodeID string
	Err    error
}

func (e *ComponentExecutionError) Error() string {
	return fmt.Sprintf("component execution failed for node %q: %s", e.NodeID, e.Err)
}

func (e *ComponentExecutionError) Unwrap() error { return e.Err }

// TimeoutError reports an embedder-side deadline interrupt, when the
// embedder is able to distinguish it from a generic trap.
type TimeoutError struct {
	NodeID string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("node %q timed out", e.NodeID)
}
