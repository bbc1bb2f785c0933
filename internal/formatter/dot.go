package formatter

import (
	"fmt"
	"strconv"

	"github.com/awalterschulze/gographviz"

	"cloudgraphx/internal/graph"
)

const dotGraphName = "dependencies"

// ToDOT renders the graph in Graphviz DOT format. Hub nodes are drawn with a
// doubled outline so they stand out in large graphs.
func ToDOT(g *graph.Graph) (string, error) {
	dot := gographviz.NewGraph()
	if err := dot.SetName(dotGraphName); err != nil {
		return "", fmt.Errorf("failed to initialize DOT graph: %w", err)
	}
	if err := dot.SetDir(true); err != nil {
		return "", fmt.Errorf("failed to mark DOT graph directed: %w", err)
	}

	for _, id := range g.SortedIDs() {
		n := g.Nodes[id]
		attrs := map[string]string{
			"label": strconv.Quote(fmt.Sprintf("%s\\n%s", n.Name, n.Type)),
			"shape": "box",
		}
		if n.IsHub {
			attrs["peripheries"] = "2"
		}
		if err := dot.AddNode(dotGraphName, strconv.Quote(id), attrs); err != nil {
			return "", fmt.Errorf("failed to add DOT node %s: %w", id, err)
		}
	}

	for _, e := range g.Edges {
		attrs := map[string]string{
			"label": strconv.Quote(string(e.Type)),
		}
		if e.Strength == graph.StrengthWeak {
			attrs["style"] = "dashed"
		}
		if e.Bidirectional {
			attrs["dir"] = "both"
		}
		if err := dot.AddEdge(strconv.Quote(e.Source), strconv.Quote(e.Target), true, attrs); err != nil {
			return "", fmt.Errorf("failed to add DOT edge %s -> %s: %w", e.Source, e.Target, err)
		}
	}

	return dot.String(), nil
}
