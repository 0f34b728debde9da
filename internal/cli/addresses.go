package cli

import (
	"github.com/jpegd/jdeploy/internal/cli/render"
	"github.com/jpegd/jdeploy/internal/usecase"
	"github.com/spf13/cobra"
)

// NewAddressesCmd creates the addresses command
func NewAddressesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "addresses [key]",
		Aliases: []string{"ls"},
		Short:   "List the address registry of a network",
		Long: `Show deployments/<network>.json with the plan step and journal phase that
produced each address. Keys edited by hand show no step.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ListRegistryParams{}
			if len(args) == 1 {
				params.Key = args[0]
			}
			result, err := app.ListRegistry.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewRegistryRenderer(cmd.OutOrStdout()).RenderRegistry(result)
		},
	}

	return cmd
}
