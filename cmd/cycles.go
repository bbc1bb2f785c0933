package cmd

import (
	"cloudgraphx/internal/config"
	"cloudgraphx/internal/runner"

	"github.com/spf13/cobra"
)

var cyclesCmd = &cobra.Command{
	Use:   "cycles",
	Short: "Detect circular dependencies in a scope",
	Long: `cloudgraphx cycles builds the whole-scope dependency graph and scans it
for circular dependency chains. Each back edge found during the scan is
reported as its own chain, so overlapping reports over one underlying cycle
are expected.

Example:
  cloudgraphx cycles --snapshot=inventory.json`,
	RunE: runCycles,
}

func runCycles(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadAndMerge(cmd)
	if err != nil {
		return err
	}
	return runner.Cycles(cmd.Context(), cfg)
}

func init() {
	rootCmd.AddCommand(cyclesCmd)
	registerScopeFlags(cyclesCmd)
}
