package blockchain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jpegd/jdeploy/internal/domain/models"
	"github.com/jpegd/jdeploy/internal/usecase"
)

const guardABIJSON = `[
  {"type":"function","name":"whitelistedContracts","inputs":[{"name":"","type":"address"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"view"},
  {"type":"function","name":"setContractWhitelisted","inputs":[{"name":"_contract","type":"address"},{"name":"_isWhitelisted","type":"bool"}],"outputs":[],"stateMutability":"nonpayable"}
]`

var guardABI = mustParseABI(guardABIJSON)

// IsWhitelisted reads whitelistedContracts(account) from a guarded contract
func (c *Client) IsWhitelisted(ctx context.Context, guard, account common.Address) (bool, error) {
	out, err := c.call(ctx, guard, guardABI, "whitelistedContracts", account)
	if err != nil {
		return false, err
	}
	allowed, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected whitelistedContracts() result %T", out[0])
	}
	return allowed, nil
}

// SetWhitelisted calls setContractWhitelisted(account, allowed) on the guarded contract
func (c *Client) SetWhitelisted(ctx context.Context, signer *models.Signer, guard, account common.Address, allowed bool) (*models.TxResult, error) {
	c.log.Info("updating contract whitelist", "guard", guard.Hex(), "account", account.Hex(), "allowed", allowed)
	return c.transact(ctx, signer, guard, guardABI, "setContractWhitelisted", account, allowed)
}

// Ensure the client implements the interface
var _ usecase.GuardClient = (*Client)(nil)
