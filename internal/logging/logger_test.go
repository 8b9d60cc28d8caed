package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fuschiarun/fuschia/internal/types"
)

func TestNew_DefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Output: &buf})
	l.Info("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "hello" {
		t.Fatalf("got %+v", entry)
	}
}

func TestNew_Pretty(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Output: &buf, Pretty: true})
	l.Info("hello")

	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("got %q", buf.String())
	}
}

func TestLogger_DebugSuppressedAtInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Output: &buf})
	l.Debug("should not appear")

	if buf.Len() != 0 {
		t.Fatalf("expected nothing logged, got %q", buf.String())
	}
}

func TestLogger_WithFieldsChaining(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Output: &buf})
	l.WithExecutionID("exec-1").WithNodeID("node-1").WithNodeKind(types.NodeKindComponent).Info("running")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry["execution_id"] != "exec-1" || entry["node_id"] != "node-1" || entry["node_kind"] != "component" {
		t.Fatalf("got %+v", entry)
	}
}

func TestLogger_WithErrorField(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Output: &buf})
	l.WithError(errTest).Error("failed")

	if !strings.Contains(buf.String(), "boom") {
		t.Fatalf("got %q", buf.String())
	}
}

var errTest = testError("boom")

type testError string

func (e testError) Error() string { return string(e) }

func TestLogger_ContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Output: &buf}).WithWorkflowID("wf-1")
	ctx := l.WithContext(context.Background())

	got := FromContext(ctx)
	got.Info("in context")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry["workflow_id"] != "wf-1" {
		t.Fatalf("got %+v", entry)
	}
}

func TestFromContext_DefaultWhenAbsent(t *testing.T) {
	l := FromContext(context.Background())
	if l == nil {
		t.Fatal("expected non-nil default logger")
	}
}

func TestLogger_Infof(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Output: &buf})
	l.Infof("count=%d", 3)

	if !strings.Contains(buf.String(), "count=3") {
		t.Fatalf("got %q", buf.String())
	}
}
