package cli

import (
	"github.com/jpegd/jdeploy/internal/cli/render"
	"github.com/jpegd/jdeploy/internal/usecase"
	"github.com/spf13/cobra"
)

// NewGuardCmd creates the guard command
func NewGuardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guard",
		Short: "Inspect the NO_CONTRACTS caller guard",
	}

	check := &cobra.Command{
		Use:   "check <guard> <caller>",
		Short: "Show whether a caller may call a guarded contract",
		Long: `Read the caller's code and whitelist status from chain and apply the guard
rule: externally owned accounts pass, contracts revert with NO_CONTRACTS unless
whitelisted. Exits non-zero when the call would revert.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.CheckGuard.Run(cmd.Context(), usecase.CheckGuardParams{
				Guard:  args[0],
				Caller: args[1],
			})
			if err != nil {
				return err
			}

			render.NewTaskRenderer(cmd.OutOrStdout()).RenderGuardCheck(result)
			return result.Err()
		},
	}

	cmd.AddCommand(check)
	return cmd
}
