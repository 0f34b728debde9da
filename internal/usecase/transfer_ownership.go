package usecase

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jpegd/jdeploy/internal/domain"
	"github.com/jpegd/jdeploy/internal/domain/config"
	"github.com/jpegd/jdeploy/internal/domain/models"
)

// TransferOwnership hands a configured contract over to the DAO. It keeps no
// state of its own: re-running submits the call again and the contract decides.
type TransferOwnership struct {
	cfg       *config.RuntimeConfig
	netConfig NetworkConfigStore
	registry  RegistryStore
	signers   SignerResolver
	ownership OwnershipManager
	confirmer Confirmer
}

// NewTransferOwnership creates a new TransferOwnership use case
func NewTransferOwnership(
	cfg *config.RuntimeConfig,
	netConfig NetworkConfigStore,
	registry RegistryStore,
	signers SignerResolver,
	ownership OwnershipManager,
	confirmer Confirmer,
) *TransferOwnership {
	return &TransferOwnership{
		cfg:       cfg,
		netConfig: netConfig,
		registry:  registry,
		signers:   signers,
		ownership: ownership,
		confirmer: confirmer,
	}
}

// TransferOwnershipParams contains parameters for the ownership task
type TransferOwnershipParams struct {
	// Contract is a network config role, registry key or address
	Contract string
	// To defaults to the dao role
	To  string
	Yes bool
}

// TransferOwnershipResult contains the submitted transfer
type TransferOwnershipResult struct {
	Contract common.Address
	NewOwner common.Address
	Tx       *models.TxResult
}

// Run executes the task
func (uc *TransferOwnership) Run(ctx context.Context, params TransferOwnershipParams) (*TransferOwnershipResult, error) {
	network := uc.cfg.Network
	if network == nil {
		return nil, domain.ErrNoNetwork
	}

	netConfig, err := uc.netConfig.Load(ctx, network.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load network config: %w", err)
	}
	registry, err := uc.registry.Load(ctx, network.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load address registry: %w", err)
	}

	contract, err := resolveAddress(params.Contract, netConfig, registry)
	if err != nil {
		return nil, err
	}
	to := params.To
	if to == "" {
		to = domain.DAOKey
	}
	newOwner, err := resolveAddress(to, netConfig, registry)
	if err != nil {
		return nil, err
	}

	signer, err := uc.signers.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("Transfer ownership of %s (%s) to %s", params.Contract, contract.Hex(), newOwner.Hex())
	if err := confirm(ctx, uc.confirmer, params.Yes || uc.cfg.NonInteractive, prompt); err != nil {
		return nil, err
	}

	tx, err := uc.ownership.TransferOwnership(ctx, signer, contract, newOwner)
	if err != nil {
		return nil, err
	}
	return &TransferOwnershipResult{Contract: contract, NewOwner: newOwner, Tx: tx}, nil
}
