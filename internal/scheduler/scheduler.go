// Package scheduler implements the ready-set execution loop: repeatedly
// finds nodes whose upstream is fully completed, runs one batch of them
// concurrently, and merges their results into the completed set until no
// more nodes are ready.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fuschiarun/fuschia/internal/graph"
	"github.com/fuschiarun/fuschia/internal/logging"
	"github.com/fuschiarun/fuschia/internal/observer"
	"github.com/fuschiarun/fuschia/internal/task"
	"github.com/fuschiarun/fuschia/internal/telemetry"
	"github.com/fuschiarun/fuschia/internal/types"
)

// TaskRunner executes one Component node. Matches task.Runner's signature so
// the scheduler depends only on this narrow interface, not the concrete
// package (keeps the scheduler testable without a real sandbox).
type TaskRunner interface {
	Run(ctx context.Context, executionID string, node types.Node, upstream map[string]any, isJoin bool) (types.NodeResult, error)
}

var _ TaskRunner = (*task.Runner)(nil)

// Scheduler drives a workflow's nodes to completion via the ready-set loop.
type Scheduler struct {
	g        *graph.Graph
	workflow *types.Workflow
	runner   TaskRunner

	observers *observer.Manager
	logger    *logging.Logger
	telemetry *telemetry.Provider
}

// New creates a Scheduler for workflow over g, dispatching Component nodes
// to runner and reporting per-node lifecycle events to observers, logger,
// and telemetry.
func New(g *graph.Graph, workflow *types.Workflow, runner TaskRunner, observers *observer.Manager, logger *logging.Logger, tp *telemetry.Provider) *Scheduler {
	return &Scheduler{g: g, workflow: workflow, runner: runner, observers: observers, logger: logger, telemetry: tp}
}

// Run executes the ready-set loop to completion, starting from seed (the
// trigger node's already-computed result). Returns the full ExecutionResult
// or the first error encountered in a batch; on context cancellation
// returns types.ErrCancelled.
func (s *Scheduler) Run(ctx context.Context, executionID string, seed types.NodeResult) (*types.ExecutionResult, error) {
	completed := map[string]types.NodeResult{seed.NodeID: seed}

	for {
		select {
		case <-ctx.Done():
			return nil, types.ErrCancelled
		default:
		}

		ready := s.findReady(completed)
		if len(ready) == 0 {
			break
		}

		batch, err := s.runBatch(ctx, executionID, ready, completed)
		if err != nil {
			return nil, err
		}
		for id, result := range batch {
			completed[id] = result
		}
	}

	return &types.ExecutionResult{
		ExecutionID: executionID,
		WorkflowID:  s.workflow.ID,
		NodeResults: completed,
	}, nil
}

// findReady returns every node not yet completed whose upstream is a subset
// of the completed set.
func (s *Scheduler) findReady(completed map[string]types.NodeResult) []string {
	var ready []string
	for _, id := range s.g.NodeIDs() {
		if _, done := completed[id]; done {
			continue
		}
		if upstreamSatisfied(s.g.Upstream(id), completed) {
			ready = append(ready, id)
		}
	}
	return ready
}

func upstreamSatisfied(upstream []string, completed map[string]types.NodeResult) bool {
	for _, u := range upstream {
		if _, ok := completed[u]; !ok {
			return false
		}
	}
	return true
}

type batchResult struct {
	id     string
	result types.NodeResult
	err    error
}

// runBatch spawns one goroutine per ready node, collects every result, and
// races the collection against ctx cancellation.
func (s *Scheduler) runBatch(ctx context.Context, executionID string, ready []string, completed map[string]types.NodeResult) (map[string]types.NodeResult, error) {
	out := make(chan batchResult, len(ready))
	var wg sync.WaitGroup

	for _, id := range ready {
		node, _ := s.workflow.GetNode(id)
		upstream := s.buildUpstream(node, completed)
		isJoin := s.g.IsJoinPoint(id)

		wg.Add(1)
		go func(node types.Node, upstream map[string]any, isJoin bool) {
			defer wg.Done()
			result, err := s.dispatchNode(ctx, executionID, node, upstream, isJoin)
			out <- batchResult{id: node.ID, result: result, err: err}
		}(node, upstream, isJoin)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	results := make(map[string]types.NodeResult, len(ready))
	for {
		select {
		case <-ctx.Done():
			return nil, types.ErrCancelled
		case br, ok := <-out:
			if !ok {
				return results, nil
			}
			if br.err != nil {
				return nil, br.err
			}
			results[br.id] = br.result
		}
	}
}

// buildUpstream assembles U, the upstream output map, for a node.
func (s *Scheduler) buildUpstream(node types.Node, completed map[string]types.NodeResult) map[string]any {
	upstreamIDs := s.g.Upstream(node.ID)
	u := make(map[string]any, len(upstreamIDs))
	for _, id := range upstreamIDs {
		u[id] = completed[id].Output
	}
	return u
}

// dispatchNode wraps runNode with start/success/failure observer
// notifications, logging, and telemetry recording for one node.
func (s *Scheduler) dispatchNode(ctx context.Context, executionID string, node types.Node, upstream map[string]any, isJoin bool) (types.NodeResult, error) {
	log := s.logger.WithExecutionID(executionID).WithNodeID(node.ID).WithNodeKind(node.Kind)

	s.observers.Notify(ctx, observer.Event{
		Type:        observer.EventNodeStart,
		Status:      observer.StatusStarted,
		Timestamp:   time.Now(),
		ExecutionID: executionID,
		WorkflowID:  s.workflow.ID,
		NodeID:      node.ID,
		NodeKind:    node.Kind,
	})
	log.Info("node execution starting")

	start := time.Now()
	result, err := s.runNode(ctx, executionID, node, upstream, isJoin)
	elapsed := time.Since(start)

	s.telemetry.RecordNodeExecution(ctx, node.ID, node.Kind, elapsed, err == nil)

	if err != nil {
		s.observers.Notify(ctx, observer.Event{
			Type:        observer.EventNodeFailure,
			Status:      observer.StatusFailure,
			Timestamp:   time.Now(),
			ExecutionID: executionID,
			WorkflowID:  s.workflow.ID,
			NodeID:      node.ID,
			NodeKind:    node.Kind,
			ElapsedTime: elapsed,
			Err:         err,
		})
		log.WithError(err).Error("node execution failed")
		return result, err
	}

	s.observers.Notify(ctx, observer.Event{
		Type:        observer.EventNodeSuccess,
		Status:      observer.StatusSuccess,
		Timestamp:   time.Now(),
		ExecutionID: executionID,
		WorkflowID:  s.workflow.ID,
		NodeID:      node.ID,
		NodeKind:    node.Kind,
		ElapsedTime: elapsed,
		Result:      result,
	})
	log.Info("node execution succeeded")

	return result, nil
}

// runNode dispatches a single node per its kind.
func (s *Scheduler) runNode(ctx context.Context, executionID string, node types.Node, upstream map[string]any, isJoin bool) (types.NodeResult, error) {
	switch node.Kind {
	case types.NodeKindComponent:
		return s.runner.Run(ctx, executionID, node, upstream, isJoin)

	case types.NodeKindJoin:
		merged := make(map[string]any, len(upstream))
		for id, v := range upstream {
			merged[id] = v
		}
		return types.NodeResult{
			TaskID:        uuid.NewString(),
			NodeID:        node.ID,
			Input:         upstream,
			ResolvedInput: merged,
			Output:        merged,
		}, nil

	case types.NodeKindTrigger:
		return types.NodeResult{}, &types.InvalidGraphError{Message: "trigger node " + node.ID + " encountered in ready set"}

	case types.NodeKindLoop:
		return types.NodeResult{}, &types.InvalidGraphError{Message: "loop node " + node.ID + " not yet implemented"}

	default:
		return types.NodeResult{}, &types.InvalidGraphError{Message: "unknown node kind for " + node.ID}
	}
}
