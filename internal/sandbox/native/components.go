package native

import (
	"context"
	"encoding/json"

	"github.com/fuschiarun/fuschia/internal/sandbox"
)

// Echo registers a task component that returns its input data unchanged,
// used as the reference component for tests and examples.
func (r *Registry) Echo(dirName string) {
	r.RegisterTask(dirName, func(_ context.Context, _ sandbox.TaskContext, _ *sandbox.HostState, data string) (string, error) {
		return data, nil
	})
}

// Uppercase registers a task component that expects {"message": string}
// input and returns {"message": upper(message)}.
func (r *Registry) Uppercase(dirName string) {
	r.RegisterTask(dirName, func(_ context.Context, _ sandbox.TaskContext, _ *sandbox.HostState, data string) (string, error) {
		var in struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal([]byte(data), &in); err != nil {
			return "", err
		}
		out, err := json.Marshal(map[string]string{"message": toUpper(in.Message)})
		if err != nil {
			return "", err
		}
		return string(out), nil
	})
}

func toUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

// Passthrough registers a trigger component that always completes
// immediately with its webhook body (or an empty object for a poll event)
// as the output payload.
func (r *Registry) Passthrough(dirName string) {
	r.RegisterTrigger(dirName, func(_ context.Context, _ *sandbox.HostState, event sandbox.TriggerEvent) (sandbox.TriggerStatus, error) {
		payload := event.Body
		if payload == "" {
			payload = "{}"
		}
		return sandbox.TriggerStatus{Kind: sandbox.TriggerCompleted, Payload: payload}, nil
	})
}

// PendingOnce registers a trigger component that declines its first call
// (whatever the event kind) and completes every call after, useful for exercising the scheduler's
// ShortCircuit outcome in tests.
func (r *Registry) PendingOnce(dirName string) {
	done := false
	r.RegisterTrigger(dirName, func(_ context.Context, _ *sandbox.HostState, event sandbox.TriggerEvent) (sandbox.TriggerStatus, error) {
		if !done {
			done = true
			return sandbox.TriggerStatus{Kind: sandbox.TriggerPending}, nil
		}
		payload := event.Body
		if payload == "" {
			payload = "{}"
		}
		return sandbox.TriggerStatus{Kind: sandbox.TriggerCompleted, Payload: payload}, nil
	})
}
