package cmd

import (
	"cloudgraphx/internal/builder"
	"cloudgraphx/internal/config"
	"cloudgraphx/internal/runner"

	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph [resource_id]",
	Short: "Build a dependency graph of cloud resources",
	Long: `cloudgraphx graph builds the dependency graph of a scope. Without
arguments every resource in the scope becomes a node and the relation
enrichers (network peering, load balancer backends, disk attachments, NSG
associations, private endpoints) contribute the edges. With a resource id the
graph is built by following explicit depends_on declarations from that
resource, bounded by --max-depth.

Examples:
  # Whole-scope graph as JSON
  cloudgraphx graph --snapshot=inventory.json > graph.json

  # Graph rooted at one resource, two levels deep, as DOT
  cloudgraphx graph vm-web-01 --max-depth=2 --format=dot`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGraph,
}

func runGraph(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadAndMerge(cmd)
	if err != nil {
		return err
	}

	rootID := ""
	if len(args) > 0 {
		rootID = args[0]
	}
	maxDepth, _ := cmd.Flags().GetInt("max-depth")

	return runner.Graph(cmd.Context(), cfg, rootID, maxDepth)
}

func init() {
	rootCmd.AddCommand(graphCmd)
	registerScopeFlags(graphCmd)
	graphCmd.Flags().String("format", "json", "Output format for the graph (json, cypher, dot)")
	graphCmd.Flags().Int("max-depth", builder.DefaultMaxDepth, "Traversal depth for rooted graphs (1-3)")
}
