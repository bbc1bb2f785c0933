package cycles

import (
	"testing"

	"cloudgraphx/internal/graph"
)

func buildGraph(ids []string, edges [][2]string) *graph.Graph {
	g := graph.New()
	for _, id := range ids {
		g.AddNode(&graph.Node{ID: id, Name: "name-" + id})
	}
	for _, e := range edges {
		g.AddEdge(graph.Edge{Source: e[0], Target: e[1], Type: graph.EdgeDependsOn, Strength: graph.StrengthStrong})
	}
	return g
}

func TestFind_NoCycle(t *testing.T) {
	g := buildGraph([]string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})

	if found := Find(g); len(found) != 0 {
		t.Errorf("Expected no cycles, got %d", len(found))
	}
}

func TestFind_SimpleCycle(t *testing.T) {
	g := buildGraph([]string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}})

	found := Find(g)
	if len(found) != 1 {
		t.Fatalf("Expected 1 cycle, got %d", len(found))
	}

	c := found[0]
	if len(c.Cycle) != 4 {
		t.Fatalf("Expected cycle of length 4, got %v", c.Cycle)
	}
	if c.Cycle[0] != c.Cycle[len(c.Cycle)-1] {
		t.Errorf("Cycle is not closed: %v", c.Cycle)
	}
	if c.Severity != SeverityWarning {
		t.Errorf("Expected severity %q, got %q", SeverityWarning, c.Severity)
	}
	if c.Description != "Circular dependency involving 3 resources" {
		t.Errorf("Unexpected description: %q", c.Description)
	}

	members := map[string]bool{}
	for _, id := range c.Cycle {
		members[id] = true
	}
	for _, id := range []string{"a", "b", "c"} {
		if !members[id] {
			t.Errorf("Expected %q in cycle %v", id, c.Cycle)
		}
	}
}

func TestFind_ClosureProperty(t *testing.T) {
	g := buildGraph(
		[]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"b", "a"}, {"c", "d"}, {"d", "c"}},
	)

	found := Find(g)
	if len(found) != 2 {
		t.Fatalf("Expected 2 cycles, got %d", len(found))
	}
	for _, c := range found {
		if len(c.Cycle) < 3 {
			t.Errorf("Cycle too short: %v", c.Cycle)
		}
		if c.Cycle[0] != c.Cycle[len(c.Cycle)-1] {
			t.Errorf("Cycle is not closed: %v", c.Cycle)
		}
	}
}

func TestFind_MultipleBackEdgesYieldMultipleReports(t *testing.T) {
	// b closes two back edges into a: via c and directly.
	g := buildGraph(
		[]string{"a", "b", "c"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}, {"b", "a"}},
	)

	found := Find(g)
	if len(found) != 2 {
		t.Fatalf("Expected one report per back edge, got %d", len(found))
	}
}

func TestFind_IgnoresSelfLoops(t *testing.T) {
	g := buildGraph(
		[]string{"a", "b"},
		[][2]string{{"a", "a"}, {"a", "b"}, {"b", "a"}},
	)

	found := Find(g)
	if len(found) != 1 {
		t.Fatalf("Expected only the two-node cycle, got %d reports", len(found))
	}
	if len(found[0].Cycle) != 3 {
		t.Errorf("Expected cycle [a b a], got %v", found[0].Cycle)
	}
	if found[0].Description != "Circular dependency involving 2 resources" {
		t.Errorf("Unexpected description: %q", found[0].Description)
	}
}

func TestFind_SelfLoopOnly(t *testing.T) {
	g := buildGraph([]string{"a"}, [][2]string{{"a", "a"}})

	if found := Find(g); len(found) != 0 {
		t.Errorf("Expected no reports for a self-referencing edge, got %v", found)
	}
}

func TestFind_ResourceNameFallback(t *testing.T) {
	g := graph.New()
	g.AddNode(&graph.Node{ID: "a", Name: "alpha"})
	g.AddNode(&graph.Node{ID: "b"}) // no display name
	g.AddEdge(graph.Edge{Source: "a", Target: "b", Type: graph.EdgeDependsOn})
	g.AddEdge(graph.Edge{Source: "b", Target: "a", Type: graph.EdgeDependsOn})

	found := Find(g)
	if len(found) != 1 {
		t.Fatalf("Expected 1 cycle, got %d", len(found))
	}

	names := map[string]bool{}
	for _, n := range found[0].ResourceNames {
		names[n] = true
	}
	if !names["alpha"] {
		t.Errorf("Expected resolved name 'alpha' in %v", found[0].ResourceNames)
	}
	if !names["b"] {
		t.Errorf("Expected raw id fallback 'b' in %v", found[0].ResourceNames)
	}
}

func TestFind_IgnoresEdgesToUnknownNodes(t *testing.T) {
	g := graph.New()
	g.AddNode(&graph.Node{ID: "a", Name: "alpha"})
	g.AddEdge(graph.Edge{Source: "a", Target: "ghost", Type: graph.EdgeDependsOn})
	g.AddEdge(graph.Edge{Source: "ghost", Target: "a", Type: graph.EdgeDependsOn})

	if found := Find(g); len(found) != 0 {
		t.Errorf("Expected no cycles through unknown nodes, got %d", len(found))
	}
}
