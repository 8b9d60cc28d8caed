// Package telemetry wires OpenTelemetry metrics (Prometheus exporter) and
// tracing for the runtime, adapted from
// pkg/telemetry/telemetry.go: same Provider/Config/instrument shape,
// trimmed to workflow- and node-execution metrics (this runtime has no
// HTTP-node concept to instrument) and generalized from NodeType to
// NodeKind.
package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/fuschiarun/fuschia/internal/types"
)

const (
	serviceName = "fuschia-workflow-runtime"

	metricWorkflowExecutions = "workflow.executions.total"
	metricWorkflowDuration   = "workflow.execution.duration"
	metricWorkflowSuccess    = "workflow.executions.success.total"
	metricWorkflowFailure    = "workflow.executions.failure.total"
	metricNodeExecutions     = "node.executions.total"
	metricNodeDuration       = "node.execution.duration"
	metricNodeSuccess        = "node.executions.success.total"
	metricNodeFailure        = "node.executions.failure.total"
)

// Provider manages OpenTelemetry metrics and tracing for the runtime.
type Provider struct {
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider trace.TracerProvider
	meter          metric.Meter
	tracer         trace.Tracer

	workflowExecutions metric.Int64Counter
	workflowDuration    metric.Float64Histogram
	workflowSuccess     metric.Int64Counter
	workflowFailure     metric.Int64Counter
	nodeExecutions      metric.Int64Counter
	nodeDuration        metric.Float64Histogram
	nodeSuccess         metric.Int64Counter
	nodeFailure         metric.Int64Counter

	mu sync.RWMutex
}

// Config holds telemetry configuration.
type Config struct {
	ServiceVersion string
	Environment    string
	EnableTracing  bool
	EnableMetrics  bool
}

// DefaultConfig returns default telemetry configuration.
func DefaultConfig() Config {
	return Config{
		ServiceVersion: "0.1.0",
		Environment:    "development",
		EnableTracing:  true,
		EnableMetrics:  true,
	}
}

// NewProvider creates a telemetry Provider with a Prometheus metrics
// exporter, per cfg.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	provider := &Provider{}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			attribute.String("environment", cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if cfg.EnableMetrics {
		if err := provider.initMetrics(res); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	if cfg.EnableTracing {
		provider.initTracing()
	}

	return provider, nil
}

func (p *Provider) initMetrics(res *resource.Resource) error {
	exporter, err := prometheus.New()
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(p.meterProvider)
	p.meter = p.meterProvider.Meter(serviceName)

	return p.createMetricInstruments()
}

func (p *Provider) initTracing() {
	p.tracerProvider = otel.GetTracerProvider()
	p.tracer = p.tracerProvider.Tracer(serviceName)
}

func (p *Provider) createMetricInstruments() error {
	var err error

	if p.workflowExecutions, err = p.meter.Int64Counter(metricWorkflowExecutions,
		metric.WithDescription("Total number of workflow executions")); err != nil {
		return err
	}
	if p.workflowDuration, err = p.meter.Float64Histogram(metricWorkflowDuration,
		metric.WithDescription("Workflow execution duration in milliseconds"), metric.WithUnit("ms")); err != nil {
		return err
	}
	if p.workflowSuccess, err = p.meter.Int64Counter(metricWorkflowSuccess,
		metric.WithDescription("Total number of successful workflow executions")); err != nil {
		return err
	}
	if p.workflowFailure, err = p.meter.Int64Counter(metricWorkflowFailure,
		metric.WithDescription("Total number of failed workflow executions")); err != nil {
		return err
	}
	if p.nodeExecutions, err = p.meter.Int64Counter(metricNodeExecutions,
		metric.WithDescription("Total number of node executions")); err != nil {
		return err
	}
	if p.nodeDuration, err = p.meter.Float64Histogram(metricNodeDuration,
		metric.WithDescription("Node execution duration in milliseconds"), metric.WithUnit("ms")); err != nil {
		return err
	}
	if p.nodeSuccess, err = p.meter.Int64Counter(metricNodeSuccess,
		metric.WithDescription("Total number of successful node executions")); err != nil {
		return err
	}
	if p.nodeFailure, err = p.meter.Int64Counter(metricNodeFailure,
		metric.WithDescription("Total number of failed node executions")); err != nil {
		return err
	}

	return nil
}

// Tracer returns the tracer for creating spans.
func (p *Provider) Tracer() trace.Tracer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tracer
}

// Meter returns the meter for recording metrics.
func (p *Provider) Meter() metric.Meter {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.meter
}

// RecordWorkflowExecution records a completed workflow invocation.
func (p *Provider) RecordWorkflowExecution(ctx context.Context, workflowID string, duration time.Duration, success bool, nodesExecuted int) {
	if p.meter == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("workflow.id", workflowID),
		attribute.Int("nodes.executed", nodesExecuted),
	}
	p.workflowExecutions.Add(ctx, 1, metric.WithAttributes(attrs...))
	p.workflowDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if success {
		p.workflowSuccess.Add(ctx, 1, metric.WithAttributes(attrs...))
	} else {
		p.workflowFailure.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordNodeExecution records a completed per-node invocation.
func (p *Provider) RecordNodeExecution(ctx context.Context, nodeID string, kind types.NodeKind, duration time.Duration, success bool) {
	if p.meter == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("node.id", nodeID),
		attribute.String("node.kind", string(kind)),
	}
	p.nodeExecutions.Add(ctx, 1, metric.WithAttributes(attrs...))
	p.nodeDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if success {
		p.nodeSuccess.Add(ctx, 1, metric.WithAttributes(attrs...))
	} else {
		p.nodeFailure.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// Shutdown gracefully shuts down the telemetry provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown meter provider: %w", err)
		}
	}
	return nil
}
