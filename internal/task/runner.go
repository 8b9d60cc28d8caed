// Package task implements the task runner: the pipeline that executes one
// Component node by rendering its inputs, coercing them to the component's
// declared schema, fetching the compiled module, and invoking its execute
// export.
package task

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/fuschiarun/fuschia/internal/componentcache"
	"github.com/fuschiarun/fuschia/internal/render"
	"github.com/fuschiarun/fuschia/internal/sandbox"
	"github.com/fuschiarun/fuschia/internal/schema"
	"github.com/fuschiarun/fuschia/internal/types"
)

// deadlineTick is the duration represented by one epoch tick, derived from
// the fixed rule deadline_ticks = timeout_ms / 10.
const deadlineTick = 10 * time.Millisecond

// Runner executes Component nodes against a compiled component cache and
// sandbox embedder. Config is the static configuration map the runtime
// exposes to every invocation's config.get host import.
type Runner struct {
	resolver *render.Resolver
	cache    *componentcache.Cache
	config   map[string]string
}

// New creates a task Runner sharing the given resolver and component cache.
func New(resolver *render.Resolver, cache *componentcache.Cache, config map[string]string) *Runner {
	return &Runner{resolver: resolver, cache: cache, config: config}
}

// Run executes a single Component node, given its node, the upstream output
// map, and whether it is a join point. The returned NodeResult carries a
// fresh task id, the raw upstream input, the resolved-and-coerced input,
// and the component's output.
func (r *Runner) Run(ctx context.Context, executionID string, node types.Node, upstream map[string]any, isJoin bool) (types.NodeResult, error) {
	taskID := uuid.NewString()

	if node.Component == nil {
		return types.NodeResult{}, &types.InvalidGraphError{Message: "node " + node.ID + " is not a component node"}
	}
	locked := node.Component.Locked

	rendered, err := r.resolver.Resolve(node.ID, node.Inputs, upstream, isJoin)
	if err != nil {
		return types.NodeResult{}, err
	}

	schemaTypes := schema.ExtractTypes(locked.InputSchema)
	typed, err := schema.CoerceInputs(node.ID, rendered, schemaTypes)
	if err != nil {
		return types.NodeResult{}, err
	}

	dataBytes, err := json.Marshal(typed)
	if err != nil {
		return types.NodeResult{}, &types.InputResolutionError{NodeID: node.ID, Message: "failed to serialize coerced input: " + err.Error()}
	}

	key := componentcache.Key{Name: locked.Name, Version: locked.Version}
	module, err := r.cache.GetOrCompile(node.ID, key)
	if err != nil {
		return types.NodeResult{}, err
	}

	invokeCtx, cancel := withDeadline(ctx, node.TimeoutMS)
	defer cancel()

	state := sandbox.NewHostState(executionID, node.ID, r.config)
	instance, err := module.Instantiate(invokeCtx, state)
	if err != nil {
		return types.NodeResult{}, &types.ComponentExecutionError{NodeID: node.ID, Err: err}
	}

	taskCtx := sandbox.TaskContext{ExecutionID: executionID, NodeID: node.ID, TaskID: taskID}
	output, err := instance.InvokeTask(invokeCtx, taskCtx, string(dataBytes))
	if err != nil {
		return types.NodeResult{}, &types.ComponentExecutionError{NodeID: node.ID, Err: err}
	}

	var parsed any
	if err := json.Unmarshal([]byte(output), &parsed); err != nil {
		return types.NodeResult{}, &types.ComponentExecutionError{NodeID: node.ID, Err: err}
	}

	return types.NodeResult{
		TaskID:        taskID,
		NodeID:        node.ID,
		Input:         upstream,
		ResolvedInput: typed,
		Output:        parsed,
	}, nil
}

// withDeadline derives an epoch deadline from a node's optional timeout, per
// the fixed rule deadline_ticks = timeout_ms / 10. No timeout (nil or <= 0)
// yields an effectively unbounded deadline.
func withDeadline(ctx context.Context, timeoutMS *int64) (context.Context, context.CancelFunc) {
	if timeoutMS == nil || *timeoutMS <= 0 {
		return context.WithCancel(ctx)
	}
	ticks := *timeoutMS / 10
	return context.WithTimeout(ctx, time.Duration(ticks)*deadlineTick)
}
