package usecase

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jpegd/jdeploy/internal/domain"
	"github.com/jpegd/jdeploy/internal/domain/config"
	"github.com/jpegd/jdeploy/internal/domain/models"
)

// WhitelistContract lets a contract through the NO_CONTRACTS guard, or revokes it
type WhitelistContract struct {
	cfg       *config.RuntimeConfig
	netConfig NetworkConfigStore
	registry  RegistryStore
	signers   SignerResolver
	guard     GuardClient
	confirmer Confirmer
}

// NewWhitelistContract creates a new WhitelistContract use case
func NewWhitelistContract(
	cfg *config.RuntimeConfig,
	netConfig NetworkConfigStore,
	registry RegistryStore,
	signers SignerResolver,
	guard GuardClient,
	confirmer Confirmer,
) *WhitelistContract {
	return &WhitelistContract{
		cfg:       cfg,
		netConfig: netConfig,
		registry:  registry,
		signers:   signers,
		guard:     guard,
		confirmer: confirmer,
	}
}

// WhitelistParams contains parameters for the whitelist task
type WhitelistParams struct {
	// Guard is the guarded contract: network config role, registry key or address
	Guard string
	// Account is the contract to allow
	Account string
	Remove  bool
	Yes     bool
}

// WhitelistResult contains the submitted change
type WhitelistResult struct {
	Guard   common.Address
	Account common.Address
	Allowed bool
	Tx      *models.TxResult
}

// Run executes the task
func (uc *WhitelistContract) Run(ctx context.Context, params WhitelistParams) (*WhitelistResult, error) {
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
	account, err := resolveAddress(params.Account, netConfig, registry)
	if err != nil {
		return nil, err
	}

	if err := requireCode(ctx, uc.guard, params.Guard, guard); err != nil {
		return nil, err
	}
	// Only contracts are subject to the guard; revoking is always allowed
	if !params.Remove {
		if err := requireCode(ctx, uc.guard, params.Account, account); err != nil {
			return nil, err
		}
	}

	signer, err := uc.signers.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	action := "Whitelist"
	if params.Remove {
		action = "Remove from whitelist"
	}
	prompt := fmt.Sprintf("%s %s on %s (%s)", action, account.Hex(), params.Guard, guard.Hex())
	if err := confirm(ctx, uc.confirmer, params.Yes || uc.cfg.NonInteractive, prompt); err != nil {
		return nil, err
	}

	tx, err := uc.guard.SetWhitelisted(ctx, signer, guard, account, !params.Remove)
	if err != nil {
		return nil, err
	}
	return &WhitelistResult{Guard: guard, Account: account, Allowed: !params.Remove, Tx: tx}, nil
}

func requireCode(ctx context.Context, guard GuardClient, name string, addr common.Address) error {
	hasCode, err := guard.HasCode(ctx, addr)
	if err != nil {
		return err
	}
	if !hasCode {
		return fmt.Errorf("%s (%s): %w", name, addr.Hex(), domain.ErrNotAContract)
	}
	return nil
}
