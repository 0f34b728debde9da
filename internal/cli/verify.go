package cli

import (
	"fmt"

	"github.com/jpegd/jdeploy/internal/cli/render"
	"github.com/jpegd/jdeploy/internal/usecase"
	"github.com/spf13/cobra"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	var (
		allFlag   bool
		forceFlag bool
	)

	cmd := &cobra.Command{
		Use:   "verify [step]",
		Short: "Verify deployed steps on block explorers",
		Long: `Submit source verification (Etherscan, then Sourcify) for steps recorded in
the journal, using the constructor arguments recorded at deployment. Proxy and
upgrade steps are verified at their implementation.

Examples:
  jdeploy verify jpeg --network sepolia     # Verify one step
  jdeploy verify --all --network sepolia    # Verify every unverified step
  jdeploy verify jpeg --force               # Re-verify even if already verified`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			options := usecase.VerifyOptions{Force: forceFlag}
			renderer := render.NewVerifyRenderer(cmd.OutOrStdout())
			ctx := cmd.Context()

			if allFlag {
				result, err := app.VerifyDeployment.VerifyAll(ctx, options)
				if err != nil {
					return fmt.Errorf("failed to verify contracts: %w", err)
				}
				return renderer.RenderVerifyAllResult(result, options)
			}

			if len(args) == 0 {
				return fmt.Errorf("please provide a step name or use --all flag")
			}

			result, err := app.VerifyDeployment.VerifySpecific(ctx, args[0], options)
			if result != nil {
				if renderErr := renderer.RenderVerifyResult(result); renderErr != nil {
					return renderErr
				}
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&allFlag, "all", false, "Verify every deployed step that is not verified")
	cmd.Flags().BoolVar(&forceFlag, "force", false, "Re-verify even if already verified")

	return cmd
}
