package blockchain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jpegd/jdeploy/internal/domain"
	"github.com/jpegd/jdeploy/internal/domain/models"
	"github.com/jpegd/jdeploy/internal/usecase"
)

// Deploy creates a contract from its artifact and waits for the creation to be mined
func (c *Client) Deploy(ctx context.Context, signer *models.Signer, artifact *models.Artifact, args ...any) (*models.DeployedContract, error) {
	backend, err := c.Backend(ctx)
	if err != nil {
		return nil, err
	}

	packed, err := artifact.ABI.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor arguments for %s: %w", artifact.Name, err)
	}

	c.log.Info("deploying contract", "contract", artifact.Name, "from", signer.Address.Hex())
	addr, tx, _, err := bind.DeployContract(transactOpts(ctx, signer), artifact.ABI, artifact.Bytecode, backend, args...)
	if err != nil {
		initCode := append(append([]byte{}, artifact.Bytecode...), packed...)
		return nil, c.explain(ctx, signer.Address, nil, initCode, fmt.Errorf("failed to deploy %s: %w", artifact.Name, err))
	}

	if _, err := c.waitMined(ctx, signer.Address, tx); err != nil {
		return nil, fmt.Errorf("deployment of %s: %w", artifact.Name, err)
	}

	hasCode, err := c.HasCode(ctx, addr)
	if err != nil {
		return nil, err
	}
	if !hasCode {
		return nil, fmt.Errorf("deployment of %s at %s: %w", artifact.Name, addr.Hex(), domain.ErrNotAContract)
	}

	c.log.Info("contract deployed", "contract", artifact.Name, "address", addr.Hex(), "tx", tx.Hash().Hex())
	return &models.DeployedContract{
		Address:         addr,
		TxHash:          tx.Hash(),
		ConstructorArgs: packed,
	}, nil
}

// DeployProxy deploys the implementation, a proxy admin unless one is given,
// and a transparent proxy whose constructor runs the initializer call.
func (c *Client) DeployProxy(ctx context.Context, signer *models.Signer, req usecase.ProxyRequest) (*models.ProxyDeployment, error) {
	if len(req.Proxy.ABI.Constructor.Inputs) != 3 {
		return nil, fmt.Errorf("proxy artifact %s must take (logic, admin, data) constructor arguments", req.Proxy.Name)
	}

	impl, err := c.Deploy(ctx, signer, req.Implementation, req.ImplementationArgs...)
	if err != nil {
		return nil, err
	}

	result := &models.ProxyDeployment{Implementation: *impl, AdminAddress: req.ExistingAdmin}
	if req.ExistingAdmin == (common.Address{}) {
		admin, err := c.Deploy(ctx, signer, req.Admin, adminConstructorArgs(req.Admin.ABI, signer.Address)...)
		if err != nil {
			return nil, err
		}
		result.Admin = admin
		result.AdminAddress = admin.Address
	}

	initData := req.InitData
	if initData == nil {
		initData = []byte{}
	}
	proxy, err := c.Deploy(ctx, signer, req.Proxy, impl.Address, result.AdminAddress, initData)
	if err != nil {
		return nil, err
	}
	result.Proxy = *proxy
	return result, nil
}

// Upgrade deploys a new implementation and points the proxy at it through the admin
func (c *Client) Upgrade(ctx context.Context, signer *models.Signer, req usecase.UpgradeRequest) (*models.ProxyDeployment, error) {
	impl, err := c.Deploy(ctx, signer, req.Implementation, req.ImplementationArgs...)
	if err != nil {
		return nil, err
	}

	var tx *models.TxResult
	if len(req.CallData) == 0 && req.Admin.HasMethod("upgrade") {
		tx, err = c.transact(ctx, signer, req.AdminAddress, req.Admin.ABI, "upgrade", req.Proxy, impl.Address)
	} else {
		callData := req.CallData
		if callData == nil {
			callData = []byte{}
		}
		tx, err = c.transact(ctx, signer, req.AdminAddress, req.Admin.ABI, "upgradeAndCall", req.Proxy, impl.Address, callData)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to upgrade proxy %s: %w", req.Proxy.Hex(), err)
	}

	return &models.ProxyDeployment{
		Proxy:          models.DeployedContract{Address: req.Proxy, TxHash: tx.TxHash},
		Implementation: *impl,
		AdminAddress:   req.AdminAddress,
	}, nil
}

// adminConstructorArgs supports admins that take their initial owner as the only argument
func adminConstructorArgs(parsed abi.ABI, owner common.Address) []any {
	inputs := parsed.Constructor.Inputs
	if len(inputs) == 1 && inputs[0].Type.T == abi.AddressTy {
		return []any{owner}
	}
	return nil
}

// Ensure the client implements the interface
var _ usecase.ContractDeployer = (*Client)(nil)
