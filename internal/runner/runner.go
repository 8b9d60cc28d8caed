// Package runner implements the long-lived front-end: a bounded FIFO
// queue of payloads, a clone-friendly sender handle, and a start loop
// that drives one Invoker call per dequeued item under a child
// cancellation token.
package runner

import (
	"context"

	"github.com/fuschiarun/fuschia/internal/types"
)

// DefaultCapacity is the runner's default bounded queue size.
const DefaultCapacity = 100

// Invoker runs one workflow execution to completion. fuschia.Runtime (the
// module's root package) implements this; it is accepted as an interface here so the runner
// package has no dependency on the facade package.
type Invoker interface {
	Invoke(ctx context.Context, payload any) (*types.ExecutionResult, error)
}

// job pairs a payload with the channel its result is delivered on.
type job struct {
	payload any
	result  chan jobResult
}

type jobResult struct {
	res *types.ExecutionResult
	err error
}

// Runner owns a bounded queue of payloads and drives invoker once per
// dequeued item.
type Runner struct {
	invoker Invoker
	queue   chan job
}

// New creates a Runner with the given bounded queue capacity. A capacity of
// 0 uses DefaultCapacity.
func New(invoker Invoker, capacity int) *Runner {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Runner{invoker: invoker, queue: make(chan job, capacity)}
}

// Sender is a clone-friendly handle that can enqueue payloads without
// observing their results; cloning a Runner pointer itself is fine since
// the only mutable state is the queue channel, which is already safe for
// concurrent senders.
type Sender struct {
	queue chan job
}

// Sender returns a Sender handle for this Runner's queue.
func (r *Runner) Sender() Sender { return Sender{queue: r.queue} }

// Enqueue submits payload without waiting for its result. Blocks if the
// queue is full, providing backpressure to the caller.
func (s Sender) Enqueue(payload any) {
	s.queue <- job{payload: payload}
}

// Run is the run(payload) convenience: it enqueues payload and blocks until
// its execution completes, returning the result.
func (r *Runner) Run(ctx context.Context, payload any) (*types.ExecutionResult, error) {
	j := job{payload: payload, result: make(chan jobResult, 1)}
	select {
	case r.queue <- j:
	case <-ctx.Done():
		return nil, types.ErrCancelled
	}

	select {
	case jr := <-j.result:
		return jr.res, jr.err
	case <-ctx.Done():
		return nil, types.ErrCancelled
	}
}

// Start loops over select(dequeue, cancel) until the outer cancel fires or
// the queue is closed, executing each accepted payload under a child
// cancellation token so the whole runner can be stopped while letting the
// in-flight execution finish or be interrupted independently.
func (r *Runner) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-r.queue:
			if !ok {
				return
			}
			r.execute(ctx, j)
		}
	}
}

func (r *Runner) execute(ctx context.Context, j job) {
	childCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	res, err := r.invoker.Invoke(childCtx, j.payload)
	if j.result != nil {
		j.result <- jobResult{res: res, err: err}
	}
}

// Close closes the queue; Start will drain any buffered jobs (running them)
// and then return once the channel is empty. Panics if called more than
// once or concurrently with an Enqueue/Run racing the close — callers own
// the shutdown sequencing.
func (r *Runner) Close() {
	close(r.queue)
}
