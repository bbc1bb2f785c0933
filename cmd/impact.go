package cmd

import (
	"fmt"

	"cloudgraphx/internal/config"
	"cloudgraphx/internal/impact"
	"cloudgraphx/internal/runner"

	"github.com/spf13/cobra"
)

var impactCmd = &cobra.Command{
	Use:   "impact <resource_id>",
	Short: "Compute the blast radius of changing or deleting a resource",
	Long: `cloudgraphx impact reports which resources are directly and indirectly
affected when the given resource is modified or deleted, grades the risk of
the change, and derives remediation recommendations.

Examples:
  cloudgraphx impact db-orders-01 --action=delete
  cloudgraphx impact vm-web-01 --action=modify --snapshot=inventory.json`,
	Args: cobra.ExactArgs(1),
	RunE: runImpact,
}

func runImpact(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadAndMerge(cmd)
	if err != nil {
		return err
	}

	actionFlag, _ := cmd.Flags().GetString("action")
	var action impact.Action
	switch actionFlag {
	case "delete":
		action = impact.ActionDelete
	case "modify":
		action = impact.ActionModify
	default:
		return fmt.Errorf("unknown action %q (expected delete or modify)", actionFlag)
	}

	return runner.Impact(cmd.Context(), cfg, args[0], action)
}

func init() {
	rootCmd.AddCommand(impactCmd)
	registerScopeFlags(impactCmd)
	impactCmd.Flags().String("action", "modify", "Change being evaluated (delete, modify)")
}
