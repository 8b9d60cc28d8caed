package graph

import (
	"fmt"

	"github.com/fuschiarun/fuschia/internal/types"
)

// Validate enforces the structural invariants of a workflow:
//
//   - every edge endpoint refers to a node that exists
//   - exactly one node has kind Trigger
//   - every entry point (no incoming edges) is the trigger node
//
// Edge-set acyclicity is not re-derived here since the scheduler's
// ready-set loop simply stops on a cycle rather than looping forever,
// because every node in a cycle waits on a predecessor that never
// completes; the cycle's nodes and everything downstream of them are then
// absent from the final node-result set.
func Validate(w *types.Workflow) error {
	for _, e := range w.Edges {
		if _, ok := w.Nodes[e.From]; !ok {
			return &types.InvalidGraphError{Message: fmt.Sprintf("edge references unknown node %q", e.From)}
		}
		if _, ok := w.Nodes[e.To]; !ok {
			return &types.InvalidGraphError{Message: fmt.Sprintf("edge references unknown node %q", e.To)}
		}
	}

	var triggers []string
	for id, n := range w.Nodes {
		if n.Kind == types.NodeKindTrigger {
			triggers = append(triggers, id)
		}
	}
	if len(triggers) != 1 {
		return &types.InvalidGraphError{
			Message: fmt.Sprintf("workflow must have exactly one trigger, found %d", len(triggers)),
		}
	}

	g := New(w.Nodes, w.Edges)
	for _, id := range g.EntryPoints() {
		n := w.Nodes[id]
		if n.Kind != types.NodeKindTrigger {
			return &types.InvalidGraphError{
				Message: fmt.Sprintf("node %q has no incoming edges but is not a trigger (orphan node)", id),
			}
		}
	}

	return nil
}

// TriggerID returns the id of the workflow's unique trigger node. Callers
// should only invoke this after Validate has succeeded.
func TriggerID(w *types.Workflow) (string, error) {
	for id, n := range w.Nodes {
		if n.Kind == types.NodeKindTrigger {
			return id, nil
		}
	}
	return "", &types.InvalidGraphError{Message: "workflow has no trigger node"}
}
