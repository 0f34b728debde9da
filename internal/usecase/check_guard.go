package usecase

import (
	"context"
	"fmt"

	"github.com/jpegd/jdeploy/internal/domain"
	"github.com/jpegd/jdeploy/internal/domain/config"
)

// CheckGuard evaluates the NO_CONTRACTS guard for a caller against chain state
type CheckGuard struct {
	cfg       *config.RuntimeConfig
	netConfig NetworkConfigStore
	registry  RegistryStore
	guard     GuardClient
}

// NewCheckGuard creates a new CheckGuard use case
func NewCheckGuard(cfg *config.RuntimeConfig, netConfig NetworkConfigStore, registry RegistryStore, guard GuardClient) *CheckGuard {
	return &CheckGuard{cfg: cfg, netConfig: netConfig, registry: registry, guard: guard}
}

// CheckGuardParams contains parameters for a guard check
type CheckGuardParams struct {
	Guard  string
	Caller string
}

// Run reads the caller's code and whitelist status and applies the guard rule
func (uc *CheckGuard) Run(ctx context.Context, params CheckGuardParams) (*domain.GuardResult, error) {
	network := uc.cfg.Network
	if network == nil {
		return nil, domain.ErrNoNetwork
	}

	netConfig, err := loadNetworkConfig(ctx, uc.netConfig, network.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load network config: %w", err)
	}
	registry, err := uc.registry.Load(ctx, network.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load address registry: %w", err)
	}

	guard, err := resolveAddress(params.Guard, netConfig, registry)
	if err != nil {
		return nil, err
	}
	caller, err := resolveAddress(params.Caller, netConfig, registry)
	if err != nil {
		return nil, err
	}
	if err := requireCode(ctx, uc.guard, params.Guard, guard); err != nil {
		return nil, err
	}

	isContract, err := uc.guard.HasCode(ctx, caller)
	if err != nil {
		return nil, err
	}
	whitelisted := false
	if isContract {
		whitelisted, err = uc.guard.IsWhitelisted(ctx, guard, caller)
		if err != nil {
			return nil, err
		}
	}

	return domain.EvaluateGuard(guard, caller, isContract, whitelisted), nil
}
