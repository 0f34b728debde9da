package signer

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/jpegd/jdeploy/internal/domain"
	"github.com/jpegd/jdeploy/internal/domain/config"
	"github.com/jpegd/jdeploy/internal/domain/models"
	"github.com/jpegd/jdeploy/internal/usecase"
	"github.com/spf13/afero"
)

// Resolver builds the signer for the active network from the [senders] table
type Resolver struct {
	fs  afero.Fs
	cfg *config.RuntimeConfig
}

// NewResolver creates a new signer resolver
func NewResolver(fsys afero.Fs, cfg *config.RuntimeConfig) *Resolver {
	return &Resolver{fs: fsys, cfg: cfg}
}

// Resolve loads the key of the sender configured for the active network
func (r *Resolver) Resolve(ctx context.Context) (*models.Signer, error) {
	if r.cfg.Network == nil {
		return nil, domain.ErrNoNetwork
	}

	name := r.cfg.Network.Sender
	if name == "" {
		name = config.DefaultSender
	}

	var senders map[string]config.SenderConfig
	if r.cfg.Project != nil {
		senders = r.cfg.Project.Senders
	}
	sender, ok := senders[name]
	if !ok {
		return nil, fmt.Errorf("%w: sender '%s' for network %s", domain.ErrNoSignerConfigured, name, r.cfg.Network.Name)
	}

	key, err := r.loadKey(name, sender)
	if err != nil {
		return nil, err
	}

	address := crypto.PubkeyToAddress(key.PublicKey)
	if sender.Address != "" && !strings.EqualFold(common.HexToAddress(sender.Address).Hex(), address.Hex()) {
		return nil, fmt.Errorf("sender '%s' key belongs to %s, configured address is %s", name, address.Hex(), sender.Address)
	}

	chainID := new(big.Int).SetUint64(r.cfg.Network.ChainID)
	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor for sender '%s': %w", name, err)
	}

	return &models.Signer{
		Name:       name,
		Address:    address,
		Transactor: opts,
	}, nil
}

func (r *Resolver) loadKey(name string, sender config.SenderConfig) (*ecdsa.PrivateKey, error) {
	switch sender.Type {
	case config.SenderTypePrivateKey:
		if sender.PrivateKey == "" {
			return nil, &domain.MissingKeyError{Source: fmt.Sprintf("sender '%s'", name), Key: "private_key"}
		}
		key, err := crypto.HexToECDSA(strings.TrimPrefix(sender.PrivateKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid private key for sender '%s': %w", name, err)
		}
		return key, nil

	case config.SenderTypeKeystore:
		if sender.Keystore == "" {
			return nil, &domain.MissingKeyError{Source: fmt.Sprintf("sender '%s'", name), Key: "keystore"}
		}
		path := sender.Keystore
		if !filepath.IsAbs(path) {
			path = filepath.Join(r.cfg.ProjectRoot, path)
		}
		data, err := afero.ReadFile(r.fs, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read keystore for sender '%s': %w", name, err)
		}
		key, err := keystore.DecryptKey(data, sender.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt keystore for sender '%s': %w", name, err)
		}
		return key.PrivateKey, nil

	default:
		return nil, fmt.Errorf("unsupported sender type '%s' for sender '%s'", sender.Type, name)
	}
}

var _ usecase.SignerResolver = (*Resolver)(nil)
