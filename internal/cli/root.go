package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jpegd/jdeploy/internal/adapters/progress"
	"github.com/jpegd/jdeploy/internal/app"
	"github.com/jpegd/jdeploy/internal/config"
	"github.com/jpegd/jdeploy/internal/usecase"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// commands that run without a project
var projectless = map[string]bool{
	"version":    true,
	"help":       true,
	"completion": true,
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "jdeploy",
		Short: "Deployment runner for the JPEG'd protocol contracts",
		Long: `jdeploy deploys the protocol contracts step by step, records their addresses
in a per-network registry, hands ownership to the DAO and verifies sources.

Every step is journaled: an interrupted run resumes after the last completed
phase instead of deploying twice.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if projectless[cmd.Name()] {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			sink, stopProgress := newProgressSink(cmd, v)

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cancel := context.CancelFunc(func() {})
			if appInstance.Config.Timeout > 0 {
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
			}
			cmd.SetContext(ctx)

			// Finalizers also run when the command fails
			cobra.OnFinalize(stopProgress, cancel)

			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts and spinners")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (e.g., mainnet, sepolia)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Abort the command after this long (default 30m)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "deployment",
		Title: "Deployment Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, cmd := range []*cobra.Command{NewRunCmd(), NewComposeCmd(), NewVerifyCmd(), NewTaskCmd()} {
		cmd.GroupID = "deployment"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{NewAddressesCmd(), NewNetworksCmd(), NewGuardCmd()} {
		cmd.GroupID = "management"
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// newProgressSink picks the spinner for terminals and a silent sink otherwise
func newProgressSink(cmd *cobra.Command, v *viper.Viper) (usecase.ProgressSink, func()) {
	if v.GetBool("non-interactive") || isNonInteractive() {
		return progress.NewNopSink(), func() {}
	}
	reporter := progress.NewSpinnerProgressReporter(cmd.ErrOrStderr(), true)
	return reporter, reporter.Stop
}

// isNonInteractive checks if the environment is non-interactive
func isNonInteractive() bool {
	return os.Getenv("JDEPLOY_NON_INTERACTIVE") == "true" ||
		os.Getenv("CI") == "true" ||
		os.Getenv("NO_COLOR") != ""
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
