package cmd

import (
	"cloudgraphx/internal/config"
	"cloudgraphx/internal/runner"

	"github.com/spf13/cobra"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Aggregate dependency metrics and anti-patterns for a scope",
	Long: `cloudgraphx metrics builds the whole-scope dependency graph and derives
aggregate statistics: dependency counts, hub and leaf resources, circular
dependency counts, anti-pattern findings and an edge breakdown by type and
strength.

Example:
  cloudgraphx metrics --snapshot=inventory.json`,
	RunE: runMetrics,
}

func runMetrics(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadAndMerge(cmd)
	if err != nil {
		return err
	}
	return runner.Metrics(cmd.Context(), cfg)
}

func init() {
	rootCmd.AddCommand(metricsCmd)
	registerScopeFlags(metricsCmd)
}
