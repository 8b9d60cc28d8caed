package runner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fuschiarun/fuschia/internal/types"
)

type fakeInvoker struct {
	calls int32
	fn    func(payload any) (*types.ExecutionResult, error)
}

func (f *fakeInvoker) Invoke(ctx context.Context, payload any) (*types.ExecutionResult, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.fn != nil {
		return f.fn(payload)
	}
	return &types.ExecutionResult{ExecutionID: "exec-1"}, nil
}

func TestRun_ReturnsInvocationResult(t *testing.T) {
	invoker := &fakeInvoker{}
	r := New(invoker, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Start(ctx)

	res, err := r.Run(context.Background(), map[string]any{"x": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExecutionID != "exec-1" {
		t.Fatalf("got %+v", res)
	}
}

func TestRun_PropagatesInvokerError(t *testing.T) {
	wantErr := errors.New("boom")
	invoker := &fakeInvoker{fn: func(payload any) (*types.ExecutionResult, error) {
		return nil, wantErr
	}}
	r := New(invoker, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Start(ctx)

	_, err := r.Run(context.Background(), nil)
	if !errors.Is(err, wantErr) {
		t.Fatalf("got %v", err)
	}
}

func TestSender_EnqueueDoesNotBlockOnResult(t *testing.T) {
	invoker := &fakeInvoker{}
	r := New(invoker, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Start(ctx)

	sender := r.Sender()
	sender.Enqueue(map[string]any{})

	deadline := time.After(time.Second)
	for atomic.LoadInt32(&invoker.calls) == 0 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for enqueued job to run")
		default:
		}
	}
}

func TestStart_StopsOnOuterCancel(t *testing.T) {
	invoker := &fakeInvoker{}
	r := New(invoker, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancellation")
	}
}

func TestDefaultCapacity(t *testing.T) {
	invoker := &fakeInvoker{}
	r := New(invoker, 0)
	if cap(r.queue) != DefaultCapacity {
		t.Fatalf("got %d", cap(r.queue))
	}
}
