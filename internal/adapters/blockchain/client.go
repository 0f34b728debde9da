package blockchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/jpegd/jdeploy/internal/domain"
	"github.com/jpegd/jdeploy/internal/domain/config"
	"github.com/jpegd/jdeploy/internal/domain/models"
)

// Backend is the subset of an Ethereum client needed to deploy and call contracts.
// Both *ethclient.Client and the simulated backend client satisfy it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// Client connects lazily to the active network's RPC endpoint
type Client struct {
	network *config.Network
	log     *slog.Logger

	mu      sync.Mutex
	backend Backend
}

// NewClient creates a client for the network selected in the runtime config
func NewClient(cfg *config.RuntimeConfig, log *slog.Logger) *Client {
	return &Client{
		network: cfg.Network,
		log:     log.With("component", "blockchain"),
	}
}

// NewClientWithBackend creates a client over an already connected backend
func NewClientWithBackend(backend Backend, log *slog.Logger) *Client {
	return &Client{
		backend: backend,
		log:     log.With("component", "blockchain"),
	}
}

// Backend returns the connected backend, dialing the RPC on first use.
// The chain reported by the node must match the configured chain ID.
func (c *Client) Backend(ctx context.Context) (Backend, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.backend != nil {
		return c.backend, nil
	}
	if c.network == nil {
		return nil, domain.ErrNoNetwork
	}

	client, err := ethclient.DialContext(ctx, c.network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	networkChainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if c.network.ChainID != 0 && networkChainID.Uint64() != c.network.ChainID {
		client.Close()
		return nil, fmt.Errorf("%w: %s expects chain ID %d, RPC reports %d",
			domain.ErrNetworkMismatch, c.network.Name, c.network.ChainID, networkChainID.Uint64())
	}

	c.log.Debug("connected", "network", c.network.Name, "chainId", networkChainID)
	c.backend = client
	return c.backend, nil
}

// HasCode reports whether an address holds contract code
func (c *Client) HasCode(ctx context.Context, addr common.Address) (bool, error) {
	backend, err := c.Backend(ctx)
	if err != nil {
		return false, err
	}
	code, err := backend.CodeAt(ctx, addr, nil)
	if err != nil {
		return false, fmt.Errorf("failed to check code at %s: %w", addr.Hex(), err)
	}
	return len(code) > 0, nil
}

// call executes a read-only call and unpacks the single return value
func (c *Client) call(ctx context.Context, contract common.Address, parsed abi.ABI, method string, args ...any) ([]any, error) {
	input, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", method, err)
	}
	out, err := c.callRaw(ctx, common.Address{}, contract, input)
	if err != nil {
		return nil, fmt.Errorf("%s on %s: %w", method, contract.Hex(), err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s on %s returned no data: %w", method, contract.Hex(), domain.ErrNotAContract)
	}
	return parsed.Unpack(method, out)
}

// callRaw performs eth_call and turns revert errors into domain.RevertError
func (c *Client) callRaw(ctx context.Context, from, to common.Address, data []byte) ([]byte, error) {
	backend, err := c.Backend(ctx)
	if err != nil {
		return nil, err
	}
	out, err := backend.CallContract(ctx, ethereum.CallMsg{From: from, To: &to, Data: data}, nil)
	if err != nil {
		if reason, ok := revertReason(err); ok {
			return nil, &domain.RevertError{Reason: reason}
		}
		return nil, err
	}
	return out, nil
}

// transact sends a state-changing call and waits until it is mined
func (c *Client) transact(ctx context.Context, signer *models.Signer, contract common.Address, parsed abi.ABI, method string, args ...any) (*models.TxResult, error) {
	backend, err := c.Backend(ctx)
	if err != nil {
		return nil, err
	}

	bound := bind.NewBoundContract(contract, parsed, backend, backend, backend)
	tx, err := bound.Transact(transactOpts(ctx, signer), method, args...)
	if err != nil {
		input, _ := parsed.Pack(method, args...)
		return nil, c.explain(ctx, signer.Address, &contract, input, fmt.Errorf("failed to send %s: %w", method, err))
	}
	c.log.Debug("transaction sent", "method", method, "to", contract.Hex(), "tx", tx.Hash().Hex())

	receipt, err := c.waitMined(ctx, signer.Address, tx)
	if err != nil {
		return nil, err
	}
	return &models.TxResult{TxHash: tx.Hash(), BlockNumber: receipt.BlockNumber.Uint64()}, nil
}

// waitMined blocks until tx is mined. A failed receipt is replayed to recover the revert reason.
func (c *Client) waitMined(ctx context.Context, from common.Address, tx *types.Transaction) (*types.Receipt, error) {
	backend, err := c.Backend(ctx)
	if err != nil {
		return nil, err
	}

	receipt, err := bind.WaitMined(ctx, backend, tx)
	if err != nil {
		return nil, fmt.Errorf("tx %s failed to confirm: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status == types.ReceiptStatusSuccessful {
		c.log.Debug("transaction mined", "tx", tx.Hash().Hex(), "block", receipt.BlockNumber)
		return receipt, nil
	}

	revert := &domain.RevertError{TxHash: tx.Hash().Hex()}
	msg := ethereum.CallMsg{From: from, To: tx.To(), Gas: tx.Gas(), Value: tx.Value(), Data: tx.Data()}
	var block *big.Int
	if receipt.BlockNumber != nil && receipt.BlockNumber.Sign() > 0 {
		block = new(big.Int).Sub(receipt.BlockNumber, big.NewInt(1))
	}
	if _, callErr := backend.CallContract(ctx, msg, block); callErr != nil {
		if reason, ok := revertReason(callErr); ok {
			revert.Reason = reason
		}
	}
	return nil, revert
}

// explain replays a call that failed before it was sent. Reverts are
// reported as domain.RevertError, anything else keeps the original error.
func (c *Client) explain(ctx context.Context, from common.Address, to *common.Address, data []byte, sendErr error) error {
	backend, err := c.Backend(ctx)
	if err != nil {
		return sendErr
	}
	_, callErr := backend.CallContract(ctx, ethereum.CallMsg{From: from, To: to, Data: data}, nil)
	if callErr == nil {
		return sendErr
	}
	if reason, ok := revertReason(callErr); ok {
		return &domain.RevertError{Reason: reason}
	}
	return sendErr
}

// revertReason extracts the reason of an execution revert from an RPC error.
// Error(string) payloads are decoded; custom errors are reported by selector.
func revertReason(err error) (string, bool) {
	var dataErr rpc.DataError
	if !errors.As(err, &dataErr) {
		return "", false
	}
	if !strings.Contains(err.Error(), "revert") {
		return "", false
	}

	var data []byte
	switch v := dataErr.ErrorData().(type) {
	case string:
		data, _ = hexutil.Decode(v)
	case []byte:
		data = v
	}
	if len(data) == 0 {
		return "", true
	}
	if reason, err := abi.UnpackRevert(data); err == nil {
		return reason, true
	}
	if len(data) >= 4 {
		return "custom error " + hexutil.Encode(data[:4]), true
	}
	return "", true
}

func transactOpts(ctx context.Context, signer *models.Signer) *bind.TransactOpts {
	opts := *signer.Transactor
	opts.Context = ctx
	return &opts
}
