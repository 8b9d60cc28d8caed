// Package types defines the workflow data model shared across the runtime.
// All core structures live here to avoid import cycles between the
// scheduler, graph, render, schema, and sandbox packages.
package types

// NodeKind discriminates the four node variants a workflow graph can contain.
type NodeKind string

const (
	NodeKindTrigger   NodeKind = "trigger"
	NodeKindComponent NodeKind = "component"
	NodeKindJoin      NodeKind = "join"
	NodeKindLoop      NodeKind = "loop"
)

// TriggerKind discriminates how a trigger node is invoked externally.
type TriggerKind string

const (
	TriggerManual  TriggerKind = "manual"
	TriggerPoll    TriggerKind = "poll"
	TriggerWebhook TriggerKind = "webhook"
)

// JoinStrategy discriminates a join node's declared (but, per spec, not yet
// differentiated at runtime) merge strategy.
type JoinStrategy string

const (
	JoinAll JoinStrategy = "all"
	JoinAny JoinStrategy = "any"
)

// LockedComponent is an immutable reference to a compiled sandboxed task
// component: name, version, content digest, task export name, and the
// input schema the runtime uses to coerce rendered template strings.
type LockedComponent struct {
	Name       string
	Version    string
	Digest     string
	ExportName string
	InputSchema map[string]any
}

// LockedTriggerComponent mirrors LockedComponent for the trigger export.
type LockedTriggerComponent struct {
	Name        string
	Version     string
	Digest      string
	ExportName  string
	InputSchema map[string]any
}

// TriggerNode is the payload carried by the workflow's unique Trigger node.
type TriggerNode struct {
	Discriminator  TriggerKind
	PollIntervalMS int64
	WebhookMethod  string
	Component      *LockedTriggerComponent // nil => passthrough trigger
}

// ComponentNode is the payload carried by a Component (task) node.
type ComponentNode struct {
	Locked LockedComponent
}

// JoinNode is the payload carried by a Join node.
type JoinNode struct {
	Strategy JoinStrategy
}

// LoopNode is reserved; the runtime does not execute loop nodes (spec §9).
type LoopNode struct {
	Nested any
}

// Node is a single vertex in a workflow graph. Exactly one of the kind
// payloads is populated, matching Kind.
type Node struct {
	ID   string
	Kind NodeKind

	Trigger   *TriggerNode
	Component *ComponentNode
	Join      *JoinNode
	Loop      *LoopNode

	// Inputs maps an input name to its (unresolved) template string.
	Inputs map[string]string

	TimeoutMS        *int64
	MaxRetryAttempts *int
	FailWorkflow     bool
}

// Edge is a directed connection between two node ids.
type Edge struct {
	From string
	To   string
}

// Workflow is an immutable named DAG. Building its graph view (graph.New)
// is total; call graph.Validate before execution to enforce its structural
// invariants.
type Workflow struct {
	ID               string
	Name             string
	Nodes            map[string]Node
	Edges            []Edge
	TimeoutMS        *int64
	MaxRetryAttempts *int
}

// GetNode looks up a node by id.
func (w *Workflow) GetNode(id string) (Node, bool) {
	n, ok := w.Nodes[id]
	return n, ok
}

// NodeResult is the per-node outcome of one invocation.
type NodeResult struct {
	TaskID        string
	NodeID        string
	Input         any
	ResolvedInput any
	Output        any
}

// ExecutionResult is the per-workflow outcome of one invocation.
type ExecutionResult struct {
	ExecutionID string
	WorkflowID  string
	NodeResults map[string]NodeResult
}
