package app

import (
	"log/slog"

	"github.com/jpegd/jdeploy/internal/domain/config"
	"github.com/jpegd/jdeploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Selector usecase.StepSelector

	// Use cases
	RunStep           *usecase.RunStep
	ComposePlan       *usecase.ComposePlan
	TransferOwnership *usecase.TransferOwnership
	WhitelistContract *usecase.WhitelistContract
	CheckGuard        *usecase.CheckGuard
	VerifyDeployment  *usecase.VerifyDeployment
	ListRegistry      *usecase.ListRegistry
	ListNetworks      *usecase.ListNetworks
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	selector usecase.StepSelector,
	runStep *usecase.RunStep,
	composePlan *usecase.ComposePlan,
	transferOwnership *usecase.TransferOwnership,
	whitelistContract *usecase.WhitelistContract,
	checkGuard *usecase.CheckGuard,
	verifyDeployment *usecase.VerifyDeployment,
	listRegistry *usecase.ListRegistry,
	listNetworks *usecase.ListNetworks,
) (*App, error) {
	return &App{
		Config:            cfg,
		Log:               log,
		Selector:          selector,
		RunStep:           runStep,
		ComposePlan:       composePlan,
		TransferOwnership: transferOwnership,
		WhitelistContract: whitelistContract,
		CheckGuard:        checkGuard,
		VerifyDeployment:  verifyDeployment,
		ListRegistry:      listRegistry,
		ListNetworks:      listNetworks,
	}, nil
}
