// Package native is the reference sandbox.Embedder used when no real
// WebAssembly runtime is wired in. It resolves a component's on-disk
// directory to a registered Go closure rather than compiling and running
// actual wasm, the same way pkg/executor/registry.go
// resolves a node type to a registered executor rather than dispatching
// through reflection or a plugin loader.
//
// A "component" here is registered ahead of time by the directory name
// its component.wasm would have lived under ({sanitized_name}--{version}),
// so the componentcache's on-disk path convention still round-trips
// through Compile even though no bytes are actually read.
package native

import (
	"context"
	"fmt"
	"sync"

	"github.com/fuschiarun/fuschia/internal/sandbox"
)

// TaskFunc implements a task component's execute export.
type TaskFunc func(ctx context.Context, taskCtx sandbox.TaskContext, state *sandbox.HostState, data string) (string, error)

// TriggerFunc implements a trigger component's handle export.
type TriggerFunc func(ctx context.Context, state *sandbox.HostState, event sandbox.TriggerEvent) (sandbox.TriggerStatus, error)

// Registry is a reference Embedder: components are registered by the path
// segment their component.wasm directory would use, and Compile resolves
// that path back to the registered closure.
type Registry struct {
	mu       sync.RWMutex
	tasks    map[string]TaskFunc
	triggers map[string]TriggerFunc
}

// NewRegistry creates an empty component registry.
func NewRegistry() *Registry {
	return &Registry{
		tasks:    make(map[string]TaskFunc),
		triggers: make(map[string]TriggerFunc),
	}
}

// RegisterTask registers a task component under the directory segment
// "{sanitized_name}--{version}".
func (r *Registry) RegisterTask(dirName string, fn TaskFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[dirName] = fn
}

// RegisterTrigger registers a trigger component under the directory segment
// "{sanitized_name}--{version}".
func (r *Registry) RegisterTrigger(dirName string, fn TriggerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.triggers[dirName] = fn
}

// Compile implements sandbox.Embedder. path is "{base}/{dirName}"; only the
// last path segment is used to resolve the registered closure.
func (r *Registry) Compile(path string) (sandbox.Module, error) {
	dirName := lastSegment(path)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if fn, ok := r.tasks[dirName]; ok {
		return &taskModule{fn: fn}, nil
	}
	if fn, ok := r.triggers[dirName]; ok {
		return &triggerModule{fn: fn}, nil
	}
	return nil, fmt.Errorf("no component registered for %q", dirName)
}

func lastSegment(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

type taskModule struct{ fn TaskFunc }

func (m *taskModule) Instantiate(ctx context.Context, state *sandbox.HostState) (sandbox.Instance, error) {
	return &taskInstance{fn: m.fn, state: state}, nil
}

type taskInstance struct {
	fn    TaskFunc
	state *sandbox.HostState
}

func (i *taskInstance) InvokeTask(ctx context.Context, taskCtx sandbox.TaskContext, data string) (string, error) {
	select {
	case <-ctx.Done():
		return "", sandbox.NewWasmtimeError("epoch deadline exceeded")
	default:
	}
	out, err := i.fn(ctx, taskCtx, i.state, data)
	if err != nil {
		return "", sandbox.NewComponentError(err.Error())
	}
	return out, nil
}

func (i *taskInstance) InvokeTrigger(ctx context.Context, event sandbox.TriggerEvent) (sandbox.TriggerStatus, error) {
	return sandbox.TriggerStatus{}, sandbox.NewInstantiationError("task component does not export handle")
}

type triggerModule struct{ fn TriggerFunc }

func (m *triggerModule) Instantiate(ctx context.Context, state *sandbox.HostState) (sandbox.Instance, error) {
	return &triggerInstance{fn: m.fn, state: state}, nil
}

type triggerInstance struct {
	fn    TriggerFunc
	state *sandbox.HostState
}

func (i *triggerInstance) InvokeTask(ctx context.Context, taskCtx sandbox.TaskContext, data string) (string, error) {
	return "", sandbox.NewInstantiationError("trigger component does not export execute")
}

func (i *triggerInstance) InvokeTrigger(ctx context.Context, event sandbox.TriggerEvent) (sandbox.TriggerStatus, error) {
	select {
	case <-ctx.Done():
		return sandbox.TriggerStatus{}, sandbox.NewWasmtimeError("epoch deadline exceeded")
	default:
	}
	status, err := i.fn(ctx, i.state, event)
	if err != nil {
		return sandbox.TriggerStatus{}, sandbox.NewComponentError(err.Error())
	}
	return status, nil
}
