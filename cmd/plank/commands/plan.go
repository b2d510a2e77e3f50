package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/plank/internal/app"
)

func (c *CLI) newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [targets...]",
		Short: "Compute overlay plans for the given workspace targets",
		Long: `Compute the deterministic module-tree overlay plan for each target.

Targets name workspace members by declared package name or member path;
"." names the project root. Without targets, the configured target list
applies, then every declared workspace, then the root for projects
without workspaces.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dev, _ := cmd.Flags().GetBool("dev")
			outDir, _ := cmd.Flags().GetString("out")
			return c.app.Plan(cmd.Context(), args, app.PlanOptions{
				IncludeDev: dev,
				OutDir:     outDir,
			})
		},
	}
	cmd.Flags().BoolP("dev", "d", false, "Include dev-only lockfile entries")
	cmd.Flags().StringP("out", "o", "", "Directory to write plan documents to (overrides config)")
	return cmd
}
