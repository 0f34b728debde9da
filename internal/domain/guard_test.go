package domain

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateGuard(t *testing.T) {
	guard := common.HexToAddress("0x01")
	caller := common.HexToAddress("0x02")

	t.Run("eoa passes", func(t *testing.T) {
		res := EvaluateGuard(guard, caller, false, false)
		assert.True(t, res.Allowed)
		assert.NoError(t, res.Err())
	})

	t.Run("contract rejected", func(t *testing.T) {
		res := EvaluateGuard(guard, caller, true, false)
		assert.False(t, res.Allowed)

		var revert *RevertError
		require.True(t, errors.As(res.Err(), &revert))
		assert.Equal(t, "NO_CONTRACTS", revert.Reason)
		assert.ErrorIs(t, res.Err(), ErrTransactionReverted)
	})

	t.Run("whitelisted contract passes", func(t *testing.T) {
		res := EvaluateGuard(guard, caller, true, true)
		assert.True(t, res.Allowed)
		assert.Empty(t, res.Reason)
	})
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, `execution reverted: NO_CONTRACTS (tx 0xabc)`, (&RevertError{TxHash: "0xabc", Reason: "NO_CONTRACTS"}).Error())
	assert.Equal(t, `execution reverted`, (&RevertError{}).Error())
	assert.Equal(t, `missing required key "dao"`, (&MissingKeyError{Key: "dao"}).Error())

	err := &UnknownStepError{Name: "salee", Suggestions: []string{"sale"}}
	assert.Equal(t, `unknown step "salee", did you mean: sale?`, err.Error())
	assert.ErrorIs(t, err, ErrNotFound)
}
