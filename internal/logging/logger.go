// Package logging provides structured logging with context propagation for
// the workflow runtime, built on log/slog. Adapted from
// pkg/logging/logger.go: same Config/New/With*/context-propagation shape,
// generalized from node-type-specific fields to this runtime's execution
// identifiers (execution id, node id, node kind).
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fuschiarun/fuschia/internal/types"
)

type contextKey string

const contextKeyLogger contextKey = "logger"

// Logger wraps slog.Logger with runtime-specific context fields.
type Logger struct {
	logger *slog.Logger
}

// Config holds logging configuration.
type Config struct {
	Level         string
	Output        io.Writer
	Pretty        bool
	IncludeCaller bool
}

// DefaultConfig returns default logging configuration: info level, JSON to
// stdout, no caller info.
func DefaultConfig() Config {
	return Config{Level: "info", Output: os.Stdout}
}

// New creates a Logger from cfg.
func New(cfg Config) *Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level), AddSource: cfg.IncludeCaller}

	var handler slog.Handler
	if cfg.Pretty {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}

	return &Logger{logger: slog.New(handler)}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithContext attaches the logger to ctx.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKeyLogger, l)
}

// FromContext retrieves the logger from ctx, or a default logger if absent.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(contextKeyLogger).(*Logger); ok {
		return logger
	}
	return New(DefaultConfig())
}

// WithWorkflowID adds workflow_id.
func (l *Logger) WithWorkflowID(workflowID string) *Logger {
	return &Logger{logger: l.logger.With(slog.String("workflow_id", workflowID))}
}

// WithExecutionID adds execution_id.
func (l *Logger) WithExecutionID(executionID string) *Logger {
	return &Logger{logger: l.logger.With(slog.String("execution_id", executionID))}
}

// WithNodeID adds node_id.
func (l *Logger) WithNodeID(nodeID string) *Logger {
	return &Logger{logger: l.logger.With(slog.String("node_id", nodeID))}
}

// WithNodeKind adds node_kind.
func (l *Logger) WithNodeKind(kind types.NodeKind) *Logger {
	return &Logger{logger: l.logger.With(slog.String("node_kind", string(kind)))}
}

// WithField adds a single custom field.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{logger: l.logger.With(slog.Any(key, value))}
}

// WithError adds the error field.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{logger: l.logger.With(slog.Any("error", err))}
}

func (l *Logger) Debug(msg string) { l.logger.Debug(msg) }
func (l *Logger) Info(msg string)  { l.logger.Info(msg) }
func (l *Logger) Warn(msg string)  { l.logger.Warn(msg) }
func (l *Logger) Error(msg string) { l.logger.Error(msg) }

func (l *Logger) Infof(format string, args ...any)  { l.logger.Info(fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...any)  { l.logger.Warn(fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...any) { l.logger.Error(fmt.Sprintf(format, args...)) }

// Slog returns the underlying slog.Logger for advanced use.
func (l *Logger) Slog() *slog.Logger { return l.logger }
