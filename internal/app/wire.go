//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/jpegd/jdeploy/internal/adapters"
	"github.com/jpegd/jdeploy/internal/config"
	"github.com/jpegd/jdeploy/internal/logging"
	"github.com/jpegd/jdeploy/internal/usecase"
	"github.com/spf13/viper"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewRunStep,
		usecase.NewComposePlan,
		usecase.NewTransferOwnership,
		usecase.NewWhitelistContract,
		usecase.NewCheckGuard,
		usecase.NewVerifyDeployment,
		usecase.NewListRegistry,
		usecase.NewListNetworks,

		// App
		NewApp,
	)
	return nil, nil
}
