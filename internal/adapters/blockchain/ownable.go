package blockchain

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jpegd/jdeploy/internal/domain/models"
	"github.com/jpegd/jdeploy/internal/usecase"
)

const ownableABIJSON = `[
  {"type":"function","name":"owner","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
  {"type":"function","name":"transferOwnership","inputs":[{"name":"newOwner","type":"address"}],"outputs":[],"stateMutability":"nonpayable"}
]`

var ownableABI = mustParseABI(ownableABIJSON)

// Owner reads owner() from an Ownable contract
func (c *Client) Owner(ctx context.Context, contract common.Address) (common.Address, error) {
	out, err := c.call(ctx, contract, ownableABI, "owner")
	if err != nil {
		return common.Address{}, err
	}
	owner, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("unexpected owner() result %T", out[0])
	}
	return owner, nil
}

// TransferOwnership calls transferOwnership(newOwner) and waits for it to be mined
func (c *Client) TransferOwnership(ctx context.Context, signer *models.Signer, contract, newOwner common.Address) (*models.TxResult, error) {
	c.log.Info("transferring ownership", "contract", contract.Hex(), "newOwner", newOwner.Hex())
	return c.transact(ctx, signer, contract, ownableABI, "transferOwnership", newOwner)
}

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return parsed
}

// Ensure the client implements the interface
var _ usecase.OwnershipManager = (*Client)(nil)
