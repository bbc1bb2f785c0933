package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cloudgraphx [command]",
	Short: "Analyze dependency graphs of cloud resources",
	Long: `cloudgraphx builds dependency graphs of your cloud resources from an
inventory snapshot, detects circular dependencies, computes blast-radius
impact for changes, and derives dependency metrics. Graphs can be exported
as JSON, Cypher, or DOT, or pushed to a Neo4j database.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerScopeFlags adds the flags shared by every analysis command.
func registerScopeFlags(cmd *cobra.Command) {
	cmd.Flags().String("scope", "", "Account or subscription scope to analyze")
	cmd.Flags().String("snapshot", "", "Path to an inventory snapshot file")
}
