package formatter

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"cloudgraphx/internal/graph"
)

// ToCypherTransaction converts a graph to a parameterized Cypher query.
// This is the recommended approach for Neo4j driver execution as it:
// - Prevents Cypher injection
// - Improves performance through query plan caching
// - Handles special characters automatically
//
// Every node is stamped with the scope it was synced from, so later updates
// can diff and prune one scope without touching resources from another.
// Relationship types cannot be parameterized in Cypher, so edges are grouped
// by type and each group gets its own UNWIND block.
func ToCypherTransaction(g *graph.Graph, scope string) (string, map[string]interface{}) {
	var query bytes.Buffer
	params := make(map[string]interface{})
	params["scope"] = scope

	nodesData := make([]map[string]interface{}, 0, len(g.Nodes))
	for _, id := range g.SortedIDs() {
		n := g.Nodes[id]
		nodesData = append(nodesData, map[string]interface{}{
			"id":     n.ID,
			"name":   n.Name,
			"type":   n.Type,
			"status": n.Status,
			"cost":   n.Cost,
			"level":  n.Level,
			"is_hub": n.IsHub,
		})
	}
	params["nodes"] = nodesData

	query.WriteString("UNWIND $nodes AS node_data\n")
	query.WriteString("MERGE (n:Resource {id: node_data.id})\n")
	query.WriteString("SET n.name = node_data.name, n.type = node_data.type, n.status = node_data.status, " +
		"n.cost = node_data.cost, n.level = node_data.level, n.is_hub = node_data.is_hub, n.scope = $scope\n")

	for _, et := range edgeTypes(g) {
		key := "edges_" + string(et)
		var edgesData []map[string]interface{}
		for _, e := range g.Edges {
			if e.Type != et {
				continue
			}
			edgesData = append(edgesData, map[string]interface{}{
				"from":          e.Source,
				"to":            e.Target,
				"strength":      string(e.Strength),
				"bidirectional": e.Bidirectional,
			})
		}
		params[key] = edgesData

		query.WriteString("WITH *\n")
		query.WriteString(fmt.Sprintf("UNWIND $%s AS edge_data\n", key))
		query.WriteString("MATCH (from:Resource {id: edge_data.from})\n")
		query.WriteString("MATCH (to:Resource {id: edge_data.to})\n")
		query.WriteString(fmt.Sprintf("MERGE (from)-[r:%s]->(to)\n", relationshipType(et)))
		query.WriteString("SET r.strength = edge_data.strength, r.bidirectional = edge_data.bidirectional\n")
	}

	return query.String(), params
}

// edgeTypes returns the distinct edge types present in the graph, sorted for
// stable query text.
func edgeTypes(g *graph.Graph) []graph.EdgeType {
	seen := make(map[graph.EdgeType]bool)
	var types []graph.EdgeType
	for _, e := range g.Edges {
		if !seen[e.Type] {
			seen[e.Type] = true
			types = append(types, e.Type)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func relationshipType(et graph.EdgeType) string {
	return strings.ToUpper(string(et))
}
