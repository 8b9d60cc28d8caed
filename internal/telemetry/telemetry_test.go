package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/fuschiarun/fuschia/internal/types"
)

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		config Config
	}{
		{name: "default config", config: DefaultConfig()},
		{
			name: "metrics only",
			config: Config{
				ServiceVersion: "1.0.0",
				Environment:    "test",
				EnableTracing:  false,
				EnableMetrics:  true,
			},
		},
		{
			name: "tracing only",
			config: Config{
				ServiceVersion: "1.0.0",
				Environment:    "test",
				EnableTracing:  true,
				EnableMetrics:  false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(ctx, tt.config)
			if err != nil {
				t.Fatalf("NewProvider() error = %v", err)
			}
			if provider == nil {
				t.Fatal("NewProvider() returned nil provider")
			}

			if tt.config.EnableTracing && provider.Tracer() == nil {
				t.Error("Tracer() returned nil when tracing is enabled")
			}
			if tt.config.EnableMetrics && provider.Meter() == nil {
				t.Error("Meter() returned nil when metrics are enabled")
			}

			if err := provider.Shutdown(ctx); err != nil {
				t.Errorf("Shutdown() error = %v", err)
			}
		})
	}
}

func TestRecordWorkflowExecution(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer provider.Shutdown(ctx)

	tests := []struct {
		name          string
		workflowID    string
		duration      time.Duration
		success       bool
		nodesExecuted int
	}{
		{name: "successful workflow", workflowID: "wf-123", duration: 100 * time.Millisecond, success: true, nodesExecuted: 5},
		{name: "failed workflow", workflowID: "wf-456", duration: 50 * time.Millisecond, success: false, nodesExecuted: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider.RecordWorkflowExecution(ctx, tt.workflowID, tt.duration, tt.success, tt.nodesExecuted)
		})
	}
}

func TestRecordNodeExecution(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer provider.Shutdown(ctx)

	tests := []struct {
		name     string
		nodeID   string
		nodeKind types.NodeKind
		duration time.Duration
		success  bool
	}{
		{name: "component success", nodeID: "node-1", nodeKind: types.NodeKindComponent, duration: 20 * time.Millisecond, success: true},
		{name: "join failure", nodeID: "node-2", nodeKind: types.NodeKindJoin, duration: 5 * time.Millisecond, success: false},
		{name: "trigger success", nodeID: "node-3", nodeKind: types.NodeKindTrigger, duration: 1 * time.Millisecond, success: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider.RecordNodeExecution(ctx, tt.nodeID, tt.nodeKind, tt.duration, tt.success)
		})
	}
}

func TestRecordNodeExecution_NoopWhenMetricsDisabled(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, Config{EnableTracing: false, EnableMetrics: false})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer provider.Shutdown(ctx)

	provider.RecordNodeExecution(ctx, "node-1", types.NodeKindComponent, time.Millisecond, true)
	provider.RecordWorkflowExecution(ctx, "wf-1", time.Millisecond, true, 1)
}

func TestShutdown_WithoutMetrics(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, Config{EnableTracing: true, EnableMetrics: false})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if err := provider.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}
