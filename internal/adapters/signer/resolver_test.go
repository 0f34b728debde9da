package signer

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/jpegd/jdeploy/internal/domain"
	"github.com/jpegd/jdeploy/internal/domain/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// anvil account #0
const (
	testPrivateKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func runtimeConfig(senders map[string]config.SenderConfig, sender string) *config.RuntimeConfig {
	project := &config.ProjectConfig{Senders: senders}
	project.Defaults()
	return &config.RuntimeConfig{
		ProjectRoot: "/project",
		Network:     &config.Network{Name: "sepolia", ChainID: 11155111, Sender: sender},
		Project:     project,
	}
}

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		senders  map[string]config.SenderConfig
		sender   string
		wantName string
		wantErr  error
		errMsg   string
	}{
		{
			name: "default sender with private key",
			senders: map[string]config.SenderConfig{
				"deployer": {Type: config.SenderTypePrivateKey, PrivateKey: testPrivateKey},
			},
			wantName: "deployer",
		},
		{
			name: "named sender without 0x prefix",
			senders: map[string]config.SenderConfig{
				"ops": {Type: config.SenderTypePrivateKey, PrivateKey: testPrivateKey[2:], Address: testAddress},
			},
			sender:   "ops",
			wantName: "ops",
		},
		{
			name:    "unknown sender",
			senders: map[string]config.SenderConfig{},
			wantErr: domain.ErrNoSignerConfigured,
		},
		{
			name: "empty private key",
			senders: map[string]config.SenderConfig{
				"deployer": {Type: config.SenderTypePrivateKey},
			},
			errMsg: `missing required key "private_key" in sender 'deployer'`,
		},
		{
			name: "address mismatch",
			senders: map[string]config.SenderConfig{
				"deployer": {Type: config.SenderTypePrivateKey, PrivateKey: testPrivateKey, Address: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"},
			},
			errMsg: "configured address is",
		},
		{
			name: "unsupported type",
			senders: map[string]config.SenderConfig{
				"deployer": {Type: "ledger"},
			},
			errMsg: "unsupported sender type 'ledger'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(afero.NewMemMapFs(), runtimeConfig(tt.senders, tt.sender))
			signer, err := r.Resolve(context.Background())

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantName, signer.Name)
				assert.Equal(t, testAddress, signer.Address.Hex())
				assert.Equal(t, signer.Address, signer.Transactor.From)
			}
		})
	}
}

func TestResolver_NoNetwork(t *testing.T) {
	r := NewResolver(afero.NewMemMapFs(), &config.RuntimeConfig{})
	_, err := r.Resolve(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoNetwork)
}

func TestResolver_Keystore(t *testing.T) {
	raw, err := hex.DecodeString(testPrivateKey[2:])
	require.NoError(t, err)
	priv, err := crypto.ToECDSA(raw)
	require.NoError(t, err)

	encrypted, err := keystore.EncryptKey(&keystore.Key{
		Id:         uuid.New(),
		Address:    crypto.PubkeyToAddress(priv.PublicKey),
		PrivateKey: priv,
	}, "hunter2", keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/project/keys/deployer.json", encrypted, 0o600))

	t.Run("decrypts with password", func(t *testing.T) {
		r := NewResolver(fsys, runtimeConfig(map[string]config.SenderConfig{
			"deployer": {Type: config.SenderTypeKeystore, Keystore: "keys/deployer.json", Password: "hunter2"},
		}, ""))
		signer, err := r.Resolve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, testAddress, signer.Address.Hex())
	})

	t.Run("wrong password", func(t *testing.T) {
		r := NewResolver(fsys, runtimeConfig(map[string]config.SenderConfig{
			"deployer": {Type: config.SenderTypeKeystore, Keystore: "keys/deployer.json", Password: "wrong"},
		}, ""))
		_, err := r.Resolve(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decrypt keystore")
	})

	t.Run("missing file", func(t *testing.T) {
		r := NewResolver(fsys, runtimeConfig(map[string]config.SenderConfig{
			"deployer": {Type: config.SenderTypeKeystore, Keystore: "keys/missing.json"},
		}, ""))
		_, err := r.Resolve(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read keystore")
	})
}
