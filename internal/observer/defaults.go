package observer

import (
	"context"
	"fmt"
	"log"
	"os"
)

// NoOpObserver ignores all events; the default when nothing is configured.
type NoOpObserver struct{}

func (o *NoOpObserver) OnEvent(ctx context.Context, event Event) {}

// ConsoleObserver prints events via a Logger, for development and debugging.
type ConsoleObserver struct {
	logger Logger
}

// NewConsoleObserver creates a ConsoleObserver with the default stdlib-backed
// logger.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{logger: NewDefaultLogger()}
}

// NewConsoleObserverWithLogger creates a ConsoleObserver with a custom logger.
func NewConsoleObserverWithLogger(logger Logger) *ConsoleObserver {
	return &ConsoleObserver{logger: logger}
}

func (o *ConsoleObserver) OnEvent(ctx context.Context, event Event) {
	fields := map[string]any{
		"type":         event.Type,
		"status":       event.Status,
		"execution_id": event.ExecutionID,
	}
	if event.WorkflowID != "" {
		fields["workflow_id"] = event.WorkflowID
	}
	if event.NodeID != "" {
		fields["node_id"] = event.NodeID
		fields["node_kind"] = event.NodeKind
	}
	if event.ElapsedTime > 0 {
		fields["elapsed_time"] = event.ElapsedTime.String()
	}

	msg := fmt.Sprintf("[%s] %s", event.Type, event.Status)

	switch event.Type {
	case EventWorkflowStart:
		o.logger.Info(msg, fields)
	case EventWorkflowEnd:
		if event.Err != nil {
			fields["error"] = event.Err.Error()
			o.logger.Error(msg, fields)
		} else {
			o.logger.Info(msg, fields)
		}
	case EventNodeStart:
		o.logger.Debug(msg, fields)
	case EventNodeSuccess:
		o.logger.Debug(msg, fields)
	case EventNodeFailure:
		if event.Err != nil {
			fields["error"] = event.Err.Error()
		}
		o.logger.Warn(msg, fields)
	default:
		o.logger.Info(msg, fields)
	}
}

// DefaultLogger writes to stdout/stderr via the standard log package.
type DefaultLogger struct {
	infoLogger  *log.Logger
	errorLogger *log.Logger
}

// NewDefaultLogger creates a DefaultLogger.
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{
		infoLogger:  log.New(os.Stdout, "[INFO] ", log.LstdFlags),
		errorLogger: log.New(os.Stderr, "[ERROR] ", log.LstdFlags),
	}
}

func (l *DefaultLogger) Debug(msg string, fields map[string]any) {
	l.infoLogger.Printf("[DEBUG] %s %v", msg, fields)
}

func (l *DefaultLogger) Info(msg string, fields map[string]any) {
	l.infoLogger.Printf("%s %v", msg, fields)
}

func (l *DefaultLogger) Warn(msg string, fields map[string]any) {
	l.infoLogger.Printf("[WARN] %s %v", msg, fields)
}

func (l *DefaultLogger) Error(msg string, fields map[string]any) {
	l.errorLogger.Printf("%s %v", msg, fields)
}

// Manager fans out events to every registered observer concurrently,
// recovering from any observer panic so one bad observer cannot affect
// others or the execution it's observing.
type Manager struct {
	observers []Observer
}

// NewManager creates an empty observer Manager.
func NewManager() *Manager {
	return &Manager{}
}

// Register adds an observer.
func (m *Manager) Register(o Observer) {
	if o != nil {
		m.observers = append(m.observers, o)
	}
}

// Notify sends event to every registered observer in its own goroutine.
func (m *Manager) Notify(ctx context.Context, event Event) {
	for _, o := range m.observers {
		obs := o
		go func() {
			defer func() { recover() }()
			obs.OnEvent(ctx, event)
		}()
	}
}

// HasObservers reports whether any observer is registered.
func (m *Manager) HasObservers() bool { return len(m.observers) > 0 }
