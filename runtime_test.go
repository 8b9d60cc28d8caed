package fuschia

import (
	"context"
	"testing"

	"github.com/fuschiarun/fuschia/internal/sandbox"
	"github.com/fuschiarun/fuschia/internal/sandbox/native"
	"github.com/fuschiarun/fuschia/internal/types"
)

func uppercaseWorkflow() *types.Workflow {
	return &types.Workflow{
		ID:   "wf-1",
		Name: "uppercase-demo",
		Nodes: map[string]types.Node{
			"trigger": {
				ID:   "trigger",
				Kind: types.NodeKindTrigger,
				Trigger: &types.TriggerNode{
					Discriminator: types.TriggerManual,
				},
			},
			"shout": {
				ID:   "shout",
				Kind: types.NodeKindComponent,
				Component: &types.ComponentNode{
					Locked: types.LockedComponent{
						Name:        "demo/uppercase",
						Version:     "1.0.0",
						ExportName:  "execute",
						InputSchema: map[string]any{"properties": map[string]any{"message": map[string]any{"type": "string"}}},
					},
				},
				Inputs: map[string]string{"message": "{{ message }}"},
			},
		},
		Edges: []types.Edge{{From: "trigger", To: "shout"}},
	}
}

func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	registry := native.NewRegistry()
	registry.Uppercase("demo--uppercase--1.0.0")

	rt, err := New(context.Background(), uppercaseWorkflow(), WithEmbedder(registry))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { rt.Shutdown(context.Background()) })
	return rt
}

func TestInvoke_EndToEnd(t *testing.T) {
	rt := newTestRuntime(t)

	result, err := rt.Invoke(context.Background(), map[string]any{"message": "hello"})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}

	shout, ok := result.NodeResults["shout"]
	if !ok {
		t.Fatal("expected a result for node \"shout\"")
	}
	out, ok := shout.Output.(map[string]any)
	if !ok {
		t.Fatalf("expected map output, got %T", shout.Output)
	}
	if out["message"] != "HELLO" {
		t.Fatalf("expected HELLO, got %v", out["message"])
	}
}

func TestInvoke_InvalidGraphRejected(t *testing.T) {
	wf := uppercaseWorkflow()
	wf.Nodes["orphan"] = types.Node{ID: "orphan", Kind: types.NodeKindComponent}

	_, err := New(context.Background(), wf)
	if err == nil {
		t.Fatal("expected New() to reject an orphan node")
	}
}

func TestInvokeNode_ComponentDirectly(t *testing.T) {
	rt := newTestRuntime(t)

	result, err := rt.InvokeNode(context.Background(), "shout", map[string]any{"trigger": map[string]any{"message": "hi"}})
	if err != nil {
		t.Fatalf("InvokeNode() error = %v", err)
	}
	out, ok := result.Output.(map[string]any)
	if !ok {
		t.Fatalf("expected map output, got %T", result.Output)
	}
	if out["message"] != "HI" {
		t.Fatalf("expected HI, got %v", out["message"])
	}
}

func TestInvokeNode_UnknownNodeErrors(t *testing.T) {
	rt := newTestRuntime(t)
	if _, err := rt.InvokeNode(context.Background(), "does-not-exist", nil); err == nil {
		t.Fatal("expected error for unknown node id")
	}
}

func TestNewRunner_QueuesInvocations(t *testing.T) {
	rt := newTestRuntime(t)
	r := rt.NewRunner(4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Start(ctx)

	result, err := r.Run(context.Background(), map[string]any{"message": "queued"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	out := result.NodeResults["shout"].Output.(map[string]any)
	if out["message"] != "QUEUED" {
		t.Fatalf("expected QUEUED, got %v", out["message"])
	}
}

func TestRegisterNativeTask_PanicsOnForeignEmbedder(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when registering against a non-native embedder")
		}
	}()

	rt, err := New(context.Background(), uppercaseWorkflow(), WithEmbedder(fakeEmbedder{}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	rt.RegisterNativeTask("demo--uppercase--1.0.0", nil)
}

type fakeEmbedder struct{}

func (fakeEmbedder) Compile(path string) (sandbox.Module, error) { return nil, nil }
