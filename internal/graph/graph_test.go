package graph

import (
	"sort"
	"testing"

	"github.com/fuschiarun/fuschia/internal/types"
)

func nodeSet(kinds map[string]types.NodeKind) map[string]types.Node {
	nodes := make(map[string]types.Node, len(kinds))
	for id, k := range kinds {
		nodes[id] = types.Node{ID: id, Kind: k}
	}
	return nodes
}

func TestGraph_UpstreamDownstream(t *testing.T) {
	nodes := nodeSet(map[string]types.NodeKind{
		"trigger": types.NodeKindTrigger,
		"a":       types.NodeKindComponent,
		"b":       types.NodeKindComponent,
		"join":    types.NodeKindJoin,
	})
	edges := []types.Edge{
		{From: "trigger", To: "a"},
		{From: "trigger", To: "b"},
		{From: "a", To: "join"},
		{From: "b", To: "join"},
	}

	g := New(nodes, edges)

	up := append([]string{}, g.Upstream("join")...)
	sort.Strings(up)
	if len(up) != 2 || up[0] != "a" || up[1] != "b" {
		t.Fatalf("unexpected upstream for join: %v", up)
	}

	down := append([]string{}, g.Downstream("trigger")...)
	sort.Strings(down)
	if len(down) != 2 || down[0] != "a" || down[1] != "b" {
		t.Fatalf("unexpected downstream for trigger: %v", down)
	}

	entries := g.EntryPoints()
	if len(entries) != 1 || entries[0] != "trigger" {
		t.Fatalf("expected exactly trigger as entry point, got %v", entries)
	}

	if !g.IsJoinPoint("join") {
		t.Fatal("expected join to be a join point")
	}
	if g.IsJoinPoint("a") {
		t.Fatal("did not expect a to be a join point")
	}
}

func TestGraph_EmptyIsTotal(t *testing.T) {
	g := New(map[string]types.Node{}, nil)
	if len(g.EntryPoints()) != 0 {
		t.Fatalf("expected no entry points for empty graph")
	}
}

func TestValidate_OrphanRejected(t *testing.T) {
	w := &types.Workflow{
		Nodes: nodeSet(map[string]types.NodeKind{
			"trigger": types.NodeKindTrigger,
			"orphan":  types.NodeKindComponent,
		}),
		Edges: nil,
	}

	err := Validate(w)
	if err == nil {
		t.Fatal("expected orphan rejection")
	}
	if got := err.Error(); !contains(got, "orphan") {
		t.Fatalf("expected orphan message, got %q", got)
	}
}

func TestValidate_MultipleTriggersRejected(t *testing.T) {
	w := &types.Workflow{
		Nodes: nodeSet(map[string]types.NodeKind{
			"t1": types.NodeKindTrigger,
			"t2": types.NodeKindTrigger,
		}),
	}

	err := Validate(w)
	if err == nil {
		t.Fatal("expected multi-trigger rejection")
	}
	if got := err.Error(); !contains(got, "exactly one trigger") {
		t.Fatalf("expected 'exactly one trigger' message, got %q", got)
	}
}

func TestValidate_DanglingEdgeRejected(t *testing.T) {
	w := &types.Workflow{
		Nodes: nodeSet(map[string]types.NodeKind{
			"trigger": types.NodeKindTrigger,
		}),
		Edges: []types.Edge{{From: "trigger", To: "missing"}},
	}

	if err := Validate(w); err == nil {
		t.Fatal("expected dangling edge rejection")
	}
}

func TestValidate_Accepts(t *testing.T) {
	w := &types.Workflow{
		Nodes: nodeSet(map[string]types.NodeKind{
			"trigger": types.NodeKindTrigger,
			"process": types.NodeKindComponent,
		}),
		Edges: []types.Edge{{From: "trigger", To: "process"}},
	}

	if err := Validate(w); err != nil {
		t.Fatalf("expected valid workflow to pass, got %v", err)
	}

	id, err := TriggerID(w)
	if err != nil || id != "trigger" {
		t.Fatalf("expected trigger id 'trigger', got %q err=%v", id, err)
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (func() bool {
		for i := 0; i+len(substr) <= len(s); i++ {
			if s[i:i+len(substr)] == substr {
				return true
			}
		}
		return false
	})()
}
