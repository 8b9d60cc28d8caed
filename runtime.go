// Package fuschia is the runtime's public entry point: it composes the
// graph, template resolver, schema coercer, component cache, sandbox
// embedder, task/trigger runners, scheduler, and bounded-queue runner
// (internal/*) into a single Runtime.
package fuschia

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fuschiarun/fuschia/internal/componentcache"
	"github.com/fuschiarun/fuschia/internal/engineconfig"
	"github.com/fuschiarun/fuschia/internal/graph"
	"github.com/fuschiarun/fuschia/internal/logging"
	"github.com/fuschiarun/fuschia/internal/observer"
	"github.com/fuschiarun/fuschia/internal/render"
	"github.com/fuschiarun/fuschia/internal/runner"
	"github.com/fuschiarun/fuschia/internal/sandbox"
	"github.com/fuschiarun/fuschia/internal/sandbox/native"
	"github.com/fuschiarun/fuschia/internal/scheduler"
	"github.com/fuschiarun/fuschia/internal/task"
	"github.com/fuschiarun/fuschia/internal/telemetry"
	"github.com/fuschiarun/fuschia/internal/trigger"
	"github.com/fuschiarun/fuschia/internal/types"
)

// Runtime executes one workflow definition repeatedly, each call to Invoke
// producing an independent execution with a fresh execution id.
type Runtime struct {
	workflow *types.Workflow
	g        *graph.Graph

	embedder      sandbox.Embedder
	cache         *componentcache.Cache
	taskRunner    *task.Runner
	triggerRunner *trigger.Runner
	scheduler     *scheduler.Scheduler

	observers *observer.Manager
	logger    *logging.Logger
	telemetry *telemetry.Provider
}

// options collects the optional collaborators New accepts, defaulted where
// the caller supplies none.
type options struct {
	config       *engineconfig.Config
	embedder     sandbox.Embedder
	observers    []observer.Observer
	logger       *logging.Logger
	telemetryCfg *telemetry.Config
}

// Option configures a Runtime at construction time.
type Option func(*options)

// WithConfig overrides the default engineconfig.Config.
func WithConfig(cfg *engineconfig.Config) Option {
	return func(o *options) { o.config = cfg }
}

// WithEmbedder supplies the sandbox embedder components compile against.
// Without one, New registers internal/sandbox/native's empty reference
// Registry, which resolves nothing until components are registered on it
// directly (see RegisterNativeTask/RegisterNativeTrigger).
func WithEmbedder(e sandbox.Embedder) Option {
	return func(o *options) { o.embedder = e }
}

// WithObserver registers an additional lifecycle observer.
func WithObserver(obs observer.Observer) Option {
	return func(o *options) { o.observers = append(o.observers, obs) }
}

// WithLogger overrides the default JSON logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTelemetry overrides the default telemetry.Config.
func WithTelemetry(cfg telemetry.Config) Option {
	return func(o *options) { o.telemetryCfg = &cfg }
}

// New validates workflow and wires every runtime collaborator around it.
func New(ctx context.Context, workflow *types.Workflow, opts ...Option) (*Runtime, error) {
	if err := graph.Validate(workflow); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.config == nil {
		o.config = engineconfig.Default()
	}
	if err := o.config.Validate(); err != nil {
		return nil, err
	}
	if o.embedder == nil {
		o.embedder = native.NewRegistry()
	}
	if o.logger == nil {
		o.logger = logging.New(logging.DefaultConfig())
	}
	if o.telemetryCfg == nil {
		cfg := telemetry.DefaultConfig()
		o.telemetryCfg = &cfg
	}

	provider, err := telemetry.NewProvider(ctx, *o.telemetryCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	observers := observer.NewManager()
	for _, obs := range o.observers {
		observers.Register(obs)
	}

	g := graph.New(workflow.Nodes, workflow.Edges)
	cache := componentcache.New(o.config.ComponentBasePath, o.embedder)
	resolver := render.New()
	taskRunner := task.New(resolver, cache, o.config.StaticConfig)
	triggerRunner := trigger.New(cache)
	sched := scheduler.New(g, workflow, taskRunner, observers, o.logger, provider)

	return &Runtime{
		workflow:      workflow,
		g:             g,
		embedder:      o.embedder,
		cache:         cache,
		taskRunner:    taskRunner,
		triggerRunner: triggerRunner,
		scheduler:     sched,
		observers:     observers,
		logger:        o.logger,
		telemetry:     provider,
	}, nil
}

// Invoke runs the workflow once to completion: it re-validates the graph,
// runs the trigger node, then the scheduler's ready-set loop over every
// remaining node. It satisfies
// internal/runner.Invoker so a Runtime can back a NewRunner queue.
func (rt *Runtime) Invoke(ctx context.Context, payload any) (*types.ExecutionResult, error) {
	start := time.Now()
	executionID := uuid.NewString()
	log := rt.logger.WithWorkflowID(rt.workflow.ID).WithExecutionID(executionID)

	if err := graph.Validate(rt.workflow); err != nil {
		return nil, err
	}

	triggerID, err := graph.TriggerID(rt.workflow)
	if err != nil {
		return nil, err
	}
	triggerNode, _ := rt.workflow.GetNode(triggerID)

	rt.observers.Notify(ctx, observer.Event{
		Type:        observer.EventWorkflowStart,
		Status:      observer.StatusStarted,
		ExecutionID: executionID,
		WorkflowID:  rt.workflow.ID,
	})
	log.Info("workflow execution starting")

	seed, outcome, err := rt.triggerRunner.Run(ctx, executionID, triggerNode, payload)
	if err != nil {
		rt.finishFailure(ctx, executionID, time.Since(start), err)
		return nil, err
	}
	seed.NodeID = triggerID

	if outcome == trigger.OutcomeShortCircuit {
		result := &types.ExecutionResult{
			ExecutionID: executionID,
			WorkflowID:  rt.workflow.ID,
			NodeResults: map[string]types.NodeResult{triggerID: seed},
		}
		rt.finishSuccess(ctx, executionID, time.Since(start), result)
		return result, nil
	}

	result, err := rt.scheduler.Run(ctx, executionID, seed)
	if err != nil {
		rt.finishFailure(ctx, executionID, time.Since(start), err)
		return nil, err
	}

	rt.finishSuccess(ctx, executionID, time.Since(start), result)
	return result, nil
}

func (rt *Runtime) finishSuccess(ctx context.Context, executionID string, duration time.Duration, result *types.ExecutionResult) {
	rt.observers.Notify(ctx, observer.Event{
		Type:        observer.EventWorkflowEnd,
		Status:      observer.StatusSuccess,
		ExecutionID: executionID,
		WorkflowID:  rt.workflow.ID,
		ElapsedTime: duration,
		Result:      result,
	})
	rt.telemetry.RecordWorkflowExecution(ctx, rt.workflow.ID, duration, true, len(result.NodeResults))
}

func (rt *Runtime) finishFailure(ctx context.Context, executionID string, duration time.Duration, err error) {
	rt.observers.Notify(ctx, observer.Event{
		Type:        observer.EventWorkflowEnd,
		Status:      observer.StatusFailure,
		ExecutionID: executionID,
		WorkflowID:  rt.workflow.ID,
		ElapsedTime: duration,
		Err:         err,
	})
	rt.telemetry.RecordWorkflowExecution(ctx, rt.workflow.ID, duration, false, 0)
}

// InvokeNode runs a single node in isolation given an already-resolved
// upstream map, bypassing the scheduler's ready-set loop entirely. This is
// a debugging entry point intended for a future "run node" CLI subcommand,
// even though the CLI itself is out of scope here.
func (rt *Runtime) InvokeNode(ctx context.Context, nodeID string, upstream map[string]any) (*types.NodeResult, error) {
	node, ok := rt.workflow.GetNode(nodeID)
	if !ok {
		return nil, &types.InvalidGraphError{Message: fmt.Sprintf("unknown node %q", nodeID)}
	}

	executionID := uuid.NewString()
	isJoin := rt.g.IsJoinPoint(nodeID)

	switch node.Kind {
	case types.NodeKindComponent:
		result, err := rt.taskRunner.Run(ctx, executionID, node, upstream, isJoin)
		if err != nil {
			return nil, err
		}
		return &result, nil

	case types.NodeKindJoin:
		merged := make(map[string]any, len(upstream))
		for id, v := range upstream {
			merged[id] = v
		}
		return &types.NodeResult{
			TaskID:        uuid.NewString(),
			NodeID:        nodeID,
			Input:         upstream,
			ResolvedInput: merged,
			Output:        merged,
		}, nil

	case types.NodeKindTrigger:
		var payload any
		if len(upstream) == 1 {
			for _, v := range upstream {
				payload = v
			}
		}
		result, _, err := rt.triggerRunner.Run(ctx, executionID, node, payload)
		if err != nil {
			return nil, err
		}
		return &result, nil

	default:
		return nil, &types.InvalidGraphError{Message: fmt.Sprintf("node %q kind %q is not individually invocable", nodeID, node.Kind)}
	}
}

// NewRunner wraps rt in a bounded-queue front-end (internal/runner, C9),
// letting callers submit payloads from multiple goroutines while the
// runtime processes one execution at a time.
func (rt *Runtime) NewRunner(capacity int) *runner.Runner {
	return runner.New(rt, capacity)
}

// RegisterNativeTask exposes the default native.Registry embedder's task
// registration, for callers that did not supply their own embedder via
// WithEmbedder. It panics if the runtime was built with a non-native
// embedder, following the fail-fast assumption of
// incompatible configuration combinations.
func (rt *Runtime) RegisterNativeTask(dirName string, fn native.TaskFunc) {
	reg, ok := rt.embedder.(*native.Registry)
	if !ok {
		panic("fuschia: RegisterNativeTask requires the runtime's embedder to be *native.Registry")
	}
	reg.RegisterTask(dirName, fn)
}

// RegisterNativeTrigger mirrors RegisterNativeTask for trigger components.
func (rt *Runtime) RegisterNativeTrigger(dirName string, fn native.TriggerFunc) {
	reg, ok := rt.embedder.(*native.Registry)
	if !ok {
		panic("fuschia: RegisterNativeTrigger requires the runtime's embedder to be *native.Registry")
	}
	reg.RegisterTrigger(dirName, fn)
}

// Shutdown releases telemetry resources. Callers should invoke it once,
// typically via defer, after the Runtime is no longer in use.
func (rt *Runtime) Shutdown(ctx context.Context) error {
	return rt.telemetry.Shutdown(ctx)
}
