package cycles

import (
	"fmt"

	"cloudgraphx/internal/graph"
)

// SeverityWarning is the severity assigned to every detected cycle.
const SeverityWarning = "warning"

// CircularDependency describes one closed dependency loop. The id sequence
// starts and ends with the same resource.
type CircularDependency struct {
	Cycle         []string `json:"cycle"`
	Severity      string   `json:"severity"`
	Description   string   `json:"description"`
	ResourceNames []string `json:"resourceNames"`
}

type color int

const (
	white color = iota
	gray
	black
)

// Find detects circular dependency chains with a three-color depth-first
// search over the graph's adjacency list.
//
// Every back edge yields one report, so a single true cycle reached through
// several back edges is reported once per back edge. Consumers rely on a
// report per back edge; do not deduplicate. Self-referencing edges are
// skipped: a chain involves at least two distinct resources, so the reported
// id sequence always has length three or more.
func Find(g *graph.Graph) []CircularDependency {
	adj := g.Adjacency()
	colors := make(map[string]color, len(g.Nodes))
	parent := make(map[string]string, len(g.Nodes))

	var found []CircularDependency

	var visit func(id string)
	visit = func(id string) {
		colors[id] = gray
		for _, next := range adj[id] {
			if next == id || !g.HasNode(next) {
				continue
			}
			switch colors[next] {
			case white:
				parent[next] = id
				visit(next)
			case gray:
				found = append(found, extract(g, parent, id, next))
			case black:
				// Fully explored; no new cycle through this path.
			}
		}
		colors[id] = black
	}

	for _, id := range g.SortedIDs() {
		if colors[id] == white {
			visit(id)
		}
	}
	return found
}

// extract walks the parent chain from the node holding the back edge up to
// the gray ancestor, closing the loop by repeating the ancestor's id at both
// ends.
func extract(g *graph.Graph, parent map[string]string, from, to string) CircularDependency {
	var chain []string
	for cur := from; cur != to; cur = parent[cur] {
		chain = append(chain, cur)
	}

	cycle := make([]string, 0, len(chain)+2)
	cycle = append(cycle, to)
	for i := len(chain) - 1; i >= 0; i-- {
		cycle = append(cycle, chain[i])
	}
	cycle = append(cycle, to)

	names := make([]string, len(cycle))
	for i, id := range cycle {
		names[i] = g.NodeName(id)
	}

	return CircularDependency{
		Cycle:         cycle,
		Severity:      SeverityWarning,
		Description:   fmt.Sprintf("Circular dependency involving %d resources", len(cycle)-1),
		ResourceNames: names,
	}
}
