package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkConfig_Accessors(t *testing.T) {
	cfg := NewNetworkConfig("config/mainnet.json", map[string]any{
		"dao":          "0x51Ad7d2a6D6D30Fa1F9eA1d9A2FaE7A0fE0e2B4A",
		"punksHelper":  "0xE7f1725E7734CE288F8367e1Bb143E90bb3F0512",
		"paused":       true,
		"vestingDays":  float64(365),
		"saleCap":      json.Number("123456789012345678901"),
		"badAddress":   "0x1234",
		"nftVault-eth": "0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0",
	})

	tests := []struct {
		name    string
		key     string
		want    common.Address
		wantErr error
	}{
		{name: "dao", key: "dao", want: common.HexToAddress("0x51Ad7d2a6D6D30Fa1F9eA1d9A2FaE7A0fE0e2B4A")},
		{name: "suffixed role", key: "nftVault-eth", want: common.HexToAddress("0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0")},
		{name: "malformed", key: "badAddress", wantErr: ErrInvalidAddress},
		{name: "not a string", key: "paused", wantErr: ErrInvalidAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cfg.Address(tt.key)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("missing key is structured", func(t *testing.T) {
		_, err := cfg.Address("nftVault-punks")
		var missing *MissingKeyError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, "config/mainnet.json", missing.Source)
		assert.Equal(t, "nftVault-punks", missing.Key)
		assert.Equal(t, `missing required key "nftVault-punks" in config/mainnet.json`, err.Error())
	})

	t.Run("bool", func(t *testing.T) {
		v, err := cfg.Bool("paused")
		require.NoError(t, err)
		assert.True(t, v)

		_, err = cfg.Bool("dao")
		assert.Error(t, err)
	})

	t.Run("string formats numbers", func(t *testing.T) {
		v, err := cfg.String("vestingDays")
		require.NoError(t, err)
		assert.Equal(t, "365", v)

		v, err = cfg.String("saleCap")
		require.NoError(t, err)
		assert.Equal(t, "123456789012345678901", v)
	})

	t.Run("keys sorted", func(t *testing.T) {
		assert.Equal(t, "badAddress", cfg.Keys()[0])
	})
}
