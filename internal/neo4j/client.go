package neo4j

import (
	"context"
	"fmt"
	"sort"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"cloudgraphx/internal/formatter"
	"cloudgraphx/internal/graph"
)

const (
	// fetchScopeResourcesQuery lists the resources previously synced for one
	// scope. Resources from other scopes are never considered for pruning.
	fetchScopeResourcesQuery = "MATCH (n:Resource {scope: $scope}) RETURN n.id as id"

	// deleteObsoleteQuery removes resources by id, again restricted to the
	// scope being updated.
	deleteObsoleteQuery = "UNWIND $obsoleteIds AS obsoleteId MATCH (n:Resource {id: obsoleteId, scope: $scope}) DETACH DELETE n"
)

// Client handles the connection and communication with a Neo4j database.
type Client struct {
	Driver neo4j.DriverWithContext
}

// NewClient creates a new Neo4j client and establishes a connection.
func NewClient(uri, user, pass string) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, pass, ""))
	if err != nil {
		return nil, fmt.Errorf("could not create neo4j driver: %w", err)
	}

	return &Client{Driver: driver}, nil
}

// Close gracefully shuts down the driver.
func (c *Client) Close(ctx context.Context) error {
	return c.Driver.Close(ctx)
}

// VerifyConnectivity checks if a connection can be established with the database.
func (c *Client) VerifyConnectivity(ctx context.Context) error {
	return c.Driver.VerifyConnectivity(ctx)
}

// UpdateGraph synchronizes one scope's portion of the Neo4j database with the
// given dependency graph. With pruneObsolete set, resources of that scope
// that disappeared from the graph are removed first; partial pushes (a
// depth-bounded rooted subgraph) must pass false so the rest of the scope
// survives. Nodes and relationships are then upserted with the scope stamped
// on every node.
func (c *Client) UpdateGraph(ctx context.Context, scope string, g *graph.Graph, pruneObsolete bool) error {
	session := c.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		if pruneObsolete {
			existingIDs, err := c.fetchScopeResourceIDs(ctx, tx, scope)
			if err != nil {
				return nil, err
			}

			if err := c.deleteObsoleteResources(ctx, tx, scope, existingIDs, g); err != nil {
				return nil, err
			}
		}

		return c.upsertGraph(ctx, tx, scope, g)
	})

	if err != nil {
		return fmt.Errorf("failed to update graph: %w", err)
	}

	return nil
}

// fetchScopeResourceIDs retrieves the ids of all resources currently stored
// in Neo4j for the given scope.
func (c *Client) fetchScopeResourceIDs(ctx context.Context, tx neo4j.ManagedTransaction, scope string) (map[string]bool, error) {
	result, err := tx.Run(ctx, fetchScopeResourcesQuery, map[string]interface{}{"scope": scope})
	if err != nil {
		return nil, fmt.Errorf("failed to query existing resources: %w", err)
	}

	existingIDs := make(map[string]bool)
	for result.Next(ctx) {
		record := result.Record()
		if id, ok := record.Get("id"); ok {
			if idStr, ok := id.(string); ok {
				existingIDs[idStr] = true
			}
		}
	}

	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate existing resources: %w", err)
	}

	return existingIDs, nil
}

// deleteObsoleteResources removes resources that exist in Neo4j for this
// scope but not in the new graph.
func (c *Client) deleteObsoleteResources(ctx context.Context, tx neo4j.ManagedTransaction, scope string, existingIDs map[string]bool, g *graph.Graph) error {
	idsToDelete := obsoleteResourceIDs(existingIDs, g)
	if len(idsToDelete) == 0 {
		return nil
	}

	params := map[string]interface{}{
		"obsoleteIds": idsToDelete,
		"scope":       scope,
	}
	if _, err := tx.Run(ctx, deleteObsoleteQuery, params); err != nil {
		return fmt.Errorf("failed to delete obsolete resources: %w", err)
	}

	return nil
}

// obsoleteResourceIDs returns the ids present in the database listing but
// absent from the graph, in lexical order.
func obsoleteResourceIDs(existingIDs map[string]bool, g *graph.Graph) []string {
	var ids []string
	for existingID := range existingIDs {
		if !g.HasNode(existingID) {
			ids = append(ids, existingID)
		}
	}
	sort.Strings(ids)
	return ids
}

// upsertGraph inserts or updates the current graph state in Neo4j.
func (c *Client) upsertGraph(ctx context.Context, tx neo4j.ManagedTransaction, scope string, g *graph.Graph) (interface{}, error) {
	query, params := formatter.ToCypherTransaction(g, scope)
	result, err := tx.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert graph: %w", err)
	}
	return result.Consume(ctx)
}
