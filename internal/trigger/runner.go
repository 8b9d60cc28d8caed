// Package trigger implements the trigger runner: the single,
// once-per-execution step that produces the unique trigger node's output
// before the scheduler's main loop starts.
package trigger

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/fuschiarun/fuschia/internal/componentcache"
	"github.com/fuschiarun/fuschia/internal/sandbox"
	"github.com/fuschiarun/fuschia/internal/types"
)

// Outcome discriminates whether the overall execution should proceed to
// the scheduler loop or return immediately.
type Outcome string

const (
	OutcomeContinue     Outcome = "continue"
	OutcomeShortCircuit Outcome = "short_circuit"
)

const deadlineTick = 10 * time.Millisecond

// Runner executes the unique trigger node once per workflow invocation.
type Runner struct {
	cache *componentcache.Cache
}

// New creates a trigger Runner sharing the given component cache.
func New(cache *componentcache.Cache) *Runner {
	return &Runner{cache: cache}
}

// Run executes the trigger node given the external payload, returning its
// NodeResult and whether the overall execution should continue or
// short-circuit.
func (r *Runner) Run(ctx context.Context, executionID string, node types.Node, payload any) (types.NodeResult, Outcome, error) {
	taskID := uuid.NewString()
	trig := node.Trigger

	if trig == nil || trig.Component == nil {
		return types.NodeResult{
			TaskID: taskID,
			NodeID: node.ID,
			Input:  payload,
			Output: payload,
		}, OutcomeContinue, nil
	}

	locked := trig.Component
	event := buildEvent(trig, payload)

	key := componentcache.Key{Name: locked.Name, Version: locked.Version}
	module, err := r.cache.GetOrCompile(node.ID, key)
	if err != nil {
		return types.NodeResult{}, "", err
	}

	invokeCtx, cancel := withDeadline(ctx, node.TimeoutMS)
	defer cancel()

	state := sandbox.NewHostState(executionID, node.ID, nil)
	instance, err := module.Instantiate(invokeCtx, state)
	if err != nil {
		return types.NodeResult{}, "", &types.ComponentExecutionError{NodeID: node.ID, Err: err}
	}

	status, err := instance.InvokeTrigger(invokeCtx, event)
	if err != nil {
		return types.NodeResult{}, "", &types.ComponentExecutionError{NodeID: node.ID, Err: err}
	}

	if status.Kind == sandbox.TriggerPending {
		return types.NodeResult{
			TaskID: taskID,
			NodeID: node.ID,
			Input:  payload,
			Output: nil,
		}, OutcomeShortCircuit, nil
	}

	var output any
	if err := json.Unmarshal([]byte(status.Payload), &output); err != nil {
		output = status.Payload
	}

	return types.NodeResult{
		TaskID: taskID,
		NodeID: node.ID,
		Input:  payload,
		Output: output,
	}, OutcomeContinue, nil
}

// buildEvent maps the workflow-level trigger discriminator to the sandbox
// event object.
func buildEvent(trig *types.TriggerNode, payload any) sandbox.TriggerEvent {
	switch trig.Discriminator {
	case types.TriggerPoll:
		return sandbox.TriggerEvent{Kind: sandbox.TriggerEventPoll}
	case types.TriggerWebhook:
		return sandbox.TriggerEvent{
			Kind:   sandbox.TriggerEventWebhook,
			Method: trig.WebhookMethod,
			Body:   serialize(payload),
		}
	default: // Manual: delivered through the webhook channel.
		return sandbox.TriggerEvent{
			Kind:   sandbox.TriggerEventWebhook,
			Method: "POST",
			Body:   serialize(payload),
		}
	}
}

func serialize(payload any) string {
	b, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(b)
}

func withDeadline(ctx context.Context, timeoutMS *int64) (context.Context, context.CancelFunc) {
	if timeoutMS == nil || *timeoutMS <= 0 {
		return context.WithCancel(ctx)
	}
	ticks := *timeoutMS / 10
	return context.WithTimeout(ctx, time.Duration(ticks)*deadlineTick)
}
