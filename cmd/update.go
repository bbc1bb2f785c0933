package cmd

import (
	"cloudgraphx/internal/builder"
	"cloudgraphx/internal/config"
	"cloudgraphx/internal/runner"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update [resource_id]",
	Short: "Update a Neo4j database with the cloud dependency graph",
	Long: `cloudgraphx update builds the dependency graph of a scope (or of a
single resource) and pushes it to a Neo4j database.

The graph is stored as nodes (resources) and relationships (dependencies) in
Neo4j, allowing you to query and visualize your infrastructure dependencies.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadAndMerge(cmd)
	if err != nil {
		return err
	}
	cfg.Update = true

	rootID := ""
	if len(args) > 0 {
		rootID = args[0]
	}
	maxDepth, _ := cmd.Flags().GetInt("max-depth")

	return runner.Graph(cmd.Context(), cfg, rootID, maxDepth)
}

func init() {
	rootCmd.AddCommand(updateCmd)
	registerScopeFlags(updateCmd)

	updateCmd.Flags().Int("max-depth", builder.DefaultMaxDepth, "Traversal depth for rooted graphs (1-3)")
	updateCmd.Flags().String("neo4j-uri", "bolt://localhost:7687", "URI for the Neo4j database")
	updateCmd.Flags().String("neo4j-user", "neo4j", "Username for the Neo4j database")
	updateCmd.Flags().String("neo4j-pass", "", "Password for the Neo4j database")
}
