package cli

import (
	"github.com/jpegd/jdeploy/internal/cli/render"
	"github.com/jpegd/jdeploy/internal/usecase"
	"github.com/spf13/cobra"
)

// NewComposeCmd creates the compose command
func NewComposeCmd() *cobra.Command {
	var params usecase.ComposeParams

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Deploy every plan step in dependency order",
		Long: `Run every step of deploy/steps.yaml in dependency order, stopping at the
first failure. Steps completed by an earlier run resume from the journal, so
re-running compose after a failure continues where it stopped.`,
		Example: `  # Show the execution order and what would resume
  jdeploy compose --network sepolia --dry-run

  # Deploy everything without prompts
  jdeploy compose --network mainnet --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			renderer := render.NewComposeRenderer(cmd.OutOrStdout())
			result, err := app.ComposePlan.Run(cmd.Context(), params)
			if result == nil {
				return err
			}

			if params.DryRun {
				renderer.RenderPlan(result)
				return nil
			}
			if renderErr := renderer.RenderComposeResult(result); renderErr != nil {
				return renderErr
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&params.DryRun, "dry-run", false, "Only print the execution plan")
	cmd.Flags().BoolVar(&params.SkipVerify, "skip-verify", false, "Do not submit source verification")
	cmd.Flags().BoolVarP(&params.Yes, "yes", "y", false, "Do not ask before transferring ownership")

	return cmd
}
