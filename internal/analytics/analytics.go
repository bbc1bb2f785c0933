package analytics

import (
	"sort"

	"cloudgraphx/internal/graph"
)

// DefaultHubThreshold is the connection count a node must exceed to be
// classified as a hub.
const DefaultHubThreshold = 5

// ComputeLevels assigns each node its BFS distance from rootID. Nodes never
// reached keep their initial level of 0, the same value as the root; the
// model does not distinguish "root" from "unreached".
func ComputeLevels(g *graph.Graph, rootID string) {
	if !g.HasNode(rootID) {
		return
	}
	computeLevels(g, []string{rootID})
}

// ComputeLevelsFromRoots assigns levels for graphs without a designated
// root, seeding the BFS with every zero-in-degree node at level 0.
func ComputeLevelsFromRoots(g *graph.Graph) {
	computeLevels(g, FindRootNodes(g))
}

func computeLevels(g *graph.Graph, seeds []string) {
	adj := g.Adjacency()
	visited := make(map[string]bool, len(g.Nodes))
	queue := make([]string, 0, len(seeds))

	for _, id := range seeds {
		g.Nodes[id].Level = 0
		visited[id] = true
		queue = append(queue, id)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if visited[next] || !g.HasNode(next) {
				continue
			}
			visited[next] = true
			g.Nodes[next].Level = g.Nodes[cur].Level + 1
			queue = append(queue, next)
		}
	}
}

// ConnectionCount returns the number of edges touching the node as either
// source or target.
func ConnectionCount(g *graph.Graph, id string) int {
	count := 0
	for _, e := range g.Edges {
		if e.Source == id || e.Target == id {
			count++
		}
	}
	return count
}

// ConnectionCounts returns the connection count of every node in one pass
// over the edge list. A self-referencing edge counts once.
func ConnectionCounts(g *graph.Graph) map[string]int {
	counts := make(map[string]int, len(g.Nodes))
	for _, e := range g.Edges {
		counts[e.Source]++
		if e.Target != e.Source {
			counts[e.Target]++
		}
	}
	return counts
}

// ComputeHubFlags marks every node whose connection count exceeds the
// threshold as a hub.
func ComputeHubFlags(g *graph.Graph, threshold int) {
	counts := ConnectionCounts(g)
	for id, n := range g.Nodes {
		n.IsHub = counts[id] > threshold
	}
}

// FindRootNodes returns the ids of nodes with no incoming edges, in lexical
// order. These are the level-computation seeds for whole-scope graphs.
func FindRootNodes(g *graph.Graph) []string {
	incoming := make(map[string]bool, len(g.Nodes))
	for _, e := range g.Edges {
		incoming[e.Target] = true
	}

	var roots []string
	for id := range g.Nodes {
		if !incoming[id] {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)
	return roots
}

// OutDegree returns per-node outgoing edge counts.
func OutDegree(g *graph.Graph) map[string]int {
	out := make(map[string]int, len(g.Nodes))
	for _, e := range g.Edges {
		out[e.Source]++
	}
	return out
}
