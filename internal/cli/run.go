package cli

import (
	"github.com/jpegd/jdeploy/internal/cli/render"
	"github.com/jpegd/jdeploy/internal/usecase"
	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	var (
		force      bool
		skipVerify bool
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "run [step]",
		Short: "Deploy a single plan step",
		Long: `Deploy one step of deploy/steps.yaml on the selected network.

The step is deployed, its address written to deployments/<network>.json,
ownership is handed to the DAO when the step asks for it, and the source is
verified when verification is enabled. A step that was already deployed resumes
after its last completed phase.

Without a step argument an interactive picker lists the plan.`,
		Example: `  # Deploy the JPEG token on sepolia
  jdeploy run jpeg --network sepolia

  # Redeploy even though the journal has the step
  jdeploy run jpeg --network sepolia --force

  # Skip the ownership prompt and verification
  jdeploy run tokenSale -n mainnet --yes --skip-verify`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var step string
			if len(args) == 1 {
				step = args[0]
			} else {
				steps, err := app.RunStep.Steps(ctx)
				if err != nil {
					return err
				}
				step, err = app.Selector.SelectStep(ctx, steps, "Select step to deploy")
				if err != nil {
					return err
				}
			}

			result, err := app.RunStep.Run(ctx, usecase.RunStepParams{
				Step:       step,
				Force:      force,
				SkipVerify: skipVerify,
				Yes:        yes,
			})
			if err != nil {
				return err
			}

			return render.NewRunRenderer(cmd.OutOrStdout()).RenderStepResult(result)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Deploy again even if the journal shows the step deployed")
	cmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "Do not submit source verification")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask before transferring ownership")

	return cmd
}
