package graph

import (
	"sort"
	"time"
)

// EdgeType categorizes the relationship an edge represents.
type EdgeType string

const (
	EdgeDependsOn EdgeType = "depends_on"
	EdgeNetwork   EdgeType = "network"
	EdgeStorage   EdgeType = "storage"
	EdgeCompute   EdgeType = "compute"
	EdgeSecurity  EdgeType = "security"
)

// Strength expresses how tightly coupled two resources are.
type Strength string

const (
	StrengthWeak   Strength = "weak"
	StrengthStrong Strength = "strong"
)

// Node represents one cloud resource in a dependency graph.
type Node struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	Status   string            `json:"status,omitempty"`
	Cost     float64           `json:"cost"`
	Level    int               `json:"level"`
	IsHub    bool              `json:"isHub"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Edge represents a directed relationship between two resources.
type Edge struct {
	Source        string            `json:"source"`
	Target        string            `json:"target"`
	Type          EdgeType          `json:"type"`
	Bidirectional bool              `json:"bidirectional"`
	Strength      Strength          `json:"strength"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Metadata carries summary information recorded when a graph is built.
type Metadata struct {
	TotalNodes              int       `json:"totalNodes"`
	TotalEdges              int       `json:"totalEdges"`
	MaxDepth                int       `json:"maxDepth"`
	HasCircularDependencies bool      `json:"hasCircularDependencies"`
	ComputedAt              time.Time `json:"computedAt"`
}

// Graph is an in-memory dependency graph. A graph is built fresh per
// analysis call and is never shared across requests.
type Graph struct {
	Nodes    map[string]*Node `json:"nodes"`
	Edges    []Edge           `json:"edges"`
	Metadata Metadata         `json:"metadata"`
}

// New returns an empty graph ready for construction.
func New() *Graph {
	return &Graph{
		Nodes: make(map[string]*Node),
		Edges: make([]Edge, 0),
	}
}

// AddNode inserts a node, replacing any node with the same id.
func (g *Graph) AddNode(n *Node) {
	g.Nodes[n.ID] = n
}

// HasNode reports whether a node with the given id exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.Nodes[id]
	return ok
}

// AddEdge appends an edge. Edges may reference targets that are not (yet)
// present as nodes; such edges are retained and only traversed once a node
// for the target id exists.
func (g *Graph) AddEdge(e Edge) {
	g.Edges = append(g.Edges, e)
}

// NodeName resolves a node id to its display name, falling back to the raw
// id when the node is unknown.
func (g *Graph) NodeName(id string) string {
	if n, ok := g.Nodes[id]; ok && n.Name != "" {
		return n.Name
	}
	return id
}

// SortedIDs returns all node ids in lexical order. Used wherever iteration
// order must be deterministic.
func (g *Graph) SortedIDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Adjacency builds a source -> targets list from the edge list as stored.
// Bidirectional edges are kept as a single directed entry; the flag is
// informational and does not double the adjacency.
func (g *Graph) Adjacency() map[string][]string {
	adj := make(map[string][]string, len(g.Nodes))
	for _, e := range g.Edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
	}
	return adj
}
