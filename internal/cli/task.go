package cli

import (
	"github.com/jpegd/jdeploy/internal/cli/render"
	"github.com/jpegd/jdeploy/internal/usecase"
	"github.com/spf13/cobra"
)

// NewTaskCmd groups the post-deployment configuration tasks
func NewTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Configuration tasks on deployed contracts",
		Long: `Configuration tasks act on contracts named in config/<network>.json or the
address registry. They send a single transaction and keep no state of their own.`,
	}

	cmd.AddCommand(newTransferOwnershipCmd())
	cmd.AddCommand(newWhitelistCmd())
	return cmd
}

func newTransferOwnershipCmd() *cobra.Command {
	var params usecase.TransferOwnershipParams

	cmd := &cobra.Command{
		Use:   "transfer-ownership <contract>",
		Short: "Transfer ownership of a contract to the DAO",
		Long: `Call transferOwnership on <contract>, a network config role, registry key or
address. The new owner is the dao role unless --to names another.

There is no owner pre-check: re-running submits the call again and the
contract decides.`,
		Example: `  jdeploy task transfer-ownership punksHelper --network mainnet
  jdeploy task transfer-ownership vault --to multisig --network sepolia`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params.Contract = args[0]
			result, err := app.TransferOwnership.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			render.NewTaskRenderer(cmd.OutOrStdout()).RenderTransfer(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&params.To, "to", "", "New owner role, registry key or address (default dao)")
	cmd.Flags().BoolVarP(&params.Yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func newWhitelistCmd() *cobra.Command {
	var params usecase.WhitelistParams

	cmd := &cobra.Command{
		Use:   "whitelist <guard> <contract>",
		Short: "Let a contract call a NO_CONTRACTS guarded contract",
		Long: `Call setContractWhitelisted on <guard> for <contract>. Only addresses with
deployed code can be whitelisted; --remove revokes access.`,
		Example: `  jdeploy task whitelist lpFarming helper --network mainnet
  jdeploy task whitelist lpFarming 0x1234... --remove`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params.Guard = args[0]
			params.Account = args[1]
			result, err := app.WhitelistContract.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			render.NewTaskRenderer(cmd.OutOrStdout()).RenderWhitelist(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&params.Remove, "remove", false, "Remove the contract from the whitelist")
	cmd.Flags().BoolVarP(&params.Yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}
