// Package sandbox defines the contract between the runtime and the
// sandboxed component host. The sandbox/embedder is treated as an
// external collaborator at the ABI boundary: this package only defines
// the interfaces a concrete embedder must satisfy, plus
// internal/sandbox/native, a reference implementation that resolves
// component name/version to a registered Go closure instead of compiling
// real WebAssembly.
package sandbox

import (
	"context"
	"sync"
)

// HostState is the per-invocation state exposed to guest host imports:
// a private kv scratchpad, a static config map, and a logging identity.
// Each invocation gets a fresh HostState.
type HostState struct {
	ExecutionID string
	NodeID      string

	Config map[string]string

	mu sync.RWMutex
	kv map[string]string
}

// NewHostState creates a fresh per-invocation host state.
func NewHostState(executionID, nodeID string, config map[string]string) *HostState {
	return &HostState{
		ExecutionID: executionID,
		NodeID:      nodeID,
		Config:      config,
		kv:          make(map[string]string),
	}
}

// KVGet implements the kv.get(key) -> string? host import.
func (h *HostState) KVGet(key string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	v, ok := h.kv[key]
	return v, ok
}

// KVSet implements the kv.set(key, value) host import.
func (h *HostState) KVSet(key, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.kv[key] = value
}

// KVDelete implements the kv.delete(key) host import.
func (h *HostState) KVDelete(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.kv, key)
}

// ConfigGet implements the config.get(key) -> string? host import.
func (h *HostState) ConfigGet(key string) (string, bool) {
	v, ok := h.Config[key]
	return v, ok
}

// TaskContext carries the identifiers a guest task export receives.
type TaskContext struct {
	ExecutionID string
	NodeID      string
	TaskID      string
}

// TriggerEventKind discriminates the two trigger export event shapes.
type TriggerEventKind string

const (
	TriggerEventPoll    TriggerEventKind = "poll"
	TriggerEventWebhook TriggerEventKind = "webhook"
)

// TriggerEvent is the event object passed to a trigger component's handle
// export.
type TriggerEvent struct {
	Kind    TriggerEventKind
	Method  string
	Path    string
	Headers map[string]string
	Body    string
}

// TriggerStatusKind discriminates the handle() export's return shape.
type TriggerStatusKind string

const (
	TriggerPending   TriggerStatusKind = "pending"
	TriggerCompleted TriggerStatusKind = "completed"
)

// TriggerStatus is the result of a trigger component's handle export.
type TriggerStatus struct {
	Kind    TriggerStatusKind
	Payload string // set only when Kind == TriggerCompleted
}

// Embedder compiles a component from its on-disk directory into a Module.
// Implementations are expected to cache nothing themselves; caching is
// componentcache's job.
type Embedder interface {
	Compile(path string) (Module, error)
}

// Module is a compiled, reusable component. Instantiate is called once per
// invocation to produce an isolated Instance bound to fresh HostState.
type Module interface {
	Instantiate(ctx context.Context, state *HostState) (Instance, error)
}

// Instance is a single, isolated invocation of a component. The runtime
// calls exactly one of InvokeTask or InvokeTrigger per instance and then
// discards it: the instance and its host state are dropped on any exit
// path, success or failure.
type Instance interface {
	InvokeTask(ctx context.Context, taskCtx TaskContext, data string) (string, error)
	InvokeTrigger(ctx context.Context, event TriggerEvent) (TriggerStatus, error)
}
