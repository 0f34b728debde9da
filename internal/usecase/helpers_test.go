package usecase

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jpegd/jdeploy/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest(t *testing.T) {
	steps := []string{"jpeg", "jpegStaking", "nftVault", "punkVault", "tokenSale", "vaultUpgrade"}

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"case insensitive prefix", "TOKEN", []string{"tokenSale"}},
		{"typo", "nftvalt", []string{"nftVault"}},
		{"no match", "xyz", []string{}},
		{"capped at three", "v", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := suggest(tt.in, steps)
			if tt.want == nil {
				assert.LessOrEqual(t, len(got), 3)
				return
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestResolveAddress(t *testing.T) {
	cfg := domain.NewNetworkConfig("config/mainnet.json", map[string]any{
		"dao":      daoAddr.Hex(),
		"jpeg":     "0x00000000000000000000000000000000000000aa",
		"broken":   "not-an-address",
		"isLocked": true,
	})
	registry := domain.AddressRegistry{
		"jpeg":     "0x00000000000000000000000000000000000000bb",
		"nftVault": "0x00000000000000000000000000000000000000cc",
	}

	tests := []struct {
		name    string
		ref     string
		want    common.Address
		wantErr error
	}{
		{"literal", usdcAddr.Hex(), usdcAddr, nil},
		{"config role", "dao", daoAddr, nil},
		{"config wins over registry", "jpeg", common.HexToAddress("0xaa"), nil},
		{"registry key", "nftVault", common.HexToAddress("0xcc"), nil},
		{"malformed config value", "broken", common.Address{}, domain.ErrInvalidAddress},
		{"non-address config value", "isLocked", common.Address{}, domain.ErrInvalidAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveAddress(tt.ref, cfg, registry)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := resolveAddress("lpFarming", cfg, registry)
	var missing *domain.MissingKeyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, &domain.MissingKeyError{Source: "config/mainnet.json", Key: "lpFarming"}, missing)
}

func TestLoadNetworkConfig_MissingFileIsEmpty(t *testing.T) {
	store := &fakeNetConfig{configs: map[string]*domain.NetworkConfig{}}

	cfg, err := loadNetworkConfig(context.Background(), store, "goerli")
	require.NoError(t, err)
	assert.Equal(t, "config/goerli.json", cfg.Source)
	assert.Empty(t, cfg.Keys())
}

func TestConfirm(t *testing.T) {
	c := &fakeConfirmer{answer: true}
	require.NoError(t, confirm(context.Background(), c, false, "go?"))
	assert.Equal(t, []string{"go?"}, c.prompts)

	c = &fakeConfirmer{answer: false}
	assert.ErrorIs(t, confirm(context.Background(), c, false, "go?"), ErrCancelled)

	c = &fakeConfirmer{answer: false}
	require.NoError(t, confirm(context.Background(), c, true, "go?"))
	assert.Empty(t, c.prompts)
}
