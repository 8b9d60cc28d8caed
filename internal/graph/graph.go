// Package graph provides adjacency/reverse-adjacency views and structural
// validation over a workflow's node and edge sets.
//
// Construction is total: it does not check trigger count, orphan nodes or
// dangling edges — that is Validate's job, invoked once per workflow
// invocation rather than once per construction, so that repeated graph
// queries stay cheap. Neither New nor Validate checks acyclicity.
package graph

import (
	"github.com/fuschiarun/fuschia/internal/types"
)

// Graph is a read-only adjacency view over a workflow's nodes and edges.
type Graph struct {
	nodeIDs     []string
	downstream  map[string][]string
	upstream    map[string][]string
	entryPoints []string
	joinPoints  map[string]bool
}

// New builds a Graph from a node map and edge list. It never fails.
func New(nodes map[string]types.Node, edges []types.Edge) *Graph {
	g := &Graph{
		downstream: make(map[string][]string, len(nodes)),
		upstream:   make(map[string][]string, len(nodes)),
		joinPoints: make(map[string]bool),
	}

	g.nodeIDs = make([]string, 0, len(nodes))
	for id := range nodes {
		g.nodeIDs = append(g.nodeIDs, id)
		g.downstream[id] = nil
		g.upstream[id] = nil
	}

	for _, e := range edges {
		g.downstream[e.From] = append(g.downstream[e.From], e.To)
		g.upstream[e.To] = append(g.upstream[e.To], e.From)
	}

	for id := range nodes {
		if len(g.upstream[id]) == 0 {
			g.entryPoints = append(g.entryPoints, id)
		}
		if len(g.upstream[id]) > 1 {
			g.joinPoints[id] = true
		}
	}

	return g
}

// Upstream returns the ids with an edge into n.
func (g *Graph) Upstream(n string) []string { return g.upstream[n] }

// Downstream returns the ids with an edge out of n.
func (g *Graph) Downstream(n string) []string { return g.downstream[n] }

// EntryPoints returns the ids with no incoming edges.
func (g *Graph) EntryPoints() []string { return g.entryPoints }

// IsJoinPoint reports whether n has more than one upstream predecessor.
func (g *Graph) IsJoinPoint(n string) bool { return g.joinPoints[n] }

// NodeIDs returns every node id known to the graph, in no particular order.
func (g *Graph) NodeIDs() []string { return g.nodeIDs }
