package usecase

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jpegd/jdeploy/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) whitelist() *WhitelistContract {
	return NewWhitelistContract(e.cfg, e.netConfig, e.registry, e.signers, e.chain, e.confirmer)
}

func (e *testEnv) checkGuard() *CheckGuard {
	return NewCheckGuard(e.cfg, e.netConfig, e.registry, e.chain)
}

func TestWhitelistContract_AddAndRemove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	farm := env.deployOwned("lpFarming")
	helper := env.deployOwned("helper")

	result, err := env.whitelist().Run(ctx, WhitelistParams{Guard: "lpFarming", Account: "helper"})
	require.NoError(t, err)
	assert.Equal(t, farm, result.Guard)
	assert.Equal(t, helper, result.Account)
	assert.True(t, result.Allowed)
	assert.True(t, env.chain.whitelisted[farm][helper])

	result, err = env.whitelist().Run(ctx, WhitelistParams{Guard: "lpFarming", Account: "helper", Remove: true})
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.False(t, env.chain.whitelisted[farm][helper])
}

func TestWhitelistContract_RejectsEOA(t *testing.T) {
	env := newTestEnv(t)
	env.deployOwned("lpFarming")
	eoa := common.HexToAddress("0x00000000000000000000000000000000000000ee")

	_, err := env.whitelist().Run(context.Background(), WhitelistParams{Guard: "lpFarming", Account: eoa.Hex()})
	require.ErrorIs(t, err, domain.ErrNotAContract)
	assert.Equal(t, 0, env.chain.setCalls)

	// revoking an address that is no longer a contract is allowed
	_, err = env.whitelist().Run(context.Background(), WhitelistParams{Guard: "lpFarming", Account: eoa.Hex(), Remove: true})
	require.NoError(t, err)
	assert.Equal(t, 1, env.chain.setCalls)
}

func TestWhitelistContract_GuardWithoutCode(t *testing.T) {
	env := newTestEnv(t)
	helper := env.deployOwned("helper")

	_, err := env.whitelist().Run(context.Background(), WhitelistParams{Guard: "punksHelper", Account: helper.Hex()})
	require.ErrorIs(t, err, domain.ErrNotAContract)
	assert.Contains(t, err.Error(), "punksHelper")
}

func TestWhitelistContract_Declined(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.NonInteractive = false
	env.confirmer.answer = false
	env.deployOwned("lpFarming")
	env.deployOwned("helper")

	_, err := env.whitelist().Run(context.Background(), WhitelistParams{Guard: "lpFarming", Account: "helper"})
	require.ErrorIs(t, err, ErrCancelled)
	require.Len(t, env.confirmer.prompts, 1)
	assert.Contains(t, env.confirmer.prompts[0], "Whitelist")
	assert.Equal(t, 0, env.chain.setCalls)
}

func TestWhitelistContract_NotGuardOwner(t *testing.T) {
	env := newTestEnv(t)
	farm := env.deployOwned("lpFarming")
	env.deployOwned("helper")
	env.chain.owners[farm] = daoAddr

	_, err := env.whitelist().Run(context.Background(), WhitelistParams{Guard: "lpFarming", Account: "helper"})
	assert.ErrorIs(t, err, domain.ErrTransactionReverted)
}

func TestCheckGuard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	farm := env.deployOwned("lpFarming")
	helper := env.deployOwned("helper")
	eoa := common.HexToAddress("0x00000000000000000000000000000000000000ee")

	t.Run("eoa passes", func(t *testing.T) {
		result, err := env.checkGuard().Run(ctx, CheckGuardParams{Guard: "lpFarming", Caller: eoa.Hex()})
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.False(t, result.IsContract)
		assert.NoError(t, result.Err())
	})

	t.Run("contract is rejected", func(t *testing.T) {
		result, err := env.checkGuard().Run(ctx, CheckGuardParams{Guard: "lpFarming", Caller: "helper"})
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.True(t, result.IsContract)
		assert.Equal(t, domain.NoContractsReason, result.Reason)

		var revert *domain.RevertError
		require.ErrorAs(t, result.Err(), &revert)
		assert.Equal(t, "NO_CONTRACTS", revert.Reason)
	})

	t.Run("whitelisted contract passes", func(t *testing.T) {
		env.chain.whitelisted[farm] = map[common.Address]bool{helper: true}
		result, err := env.checkGuard().Run(ctx, CheckGuardParams{Guard: "lpFarming", Caller: "helper"})
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.True(t, result.Whitelisted)
	})

	t.Run("guard must be a contract", func(t *testing.T) {
		_, err := env.checkGuard().Run(ctx, CheckGuardParams{Guard: eoa.Hex(), Caller: "helper"})
		assert.ErrorIs(t, err, domain.ErrNotAContract)
	})

	t.Run("unknown caller", func(t *testing.T) {
		_, err := env.checkGuard().Run(ctx, CheckGuardParams{Guard: "lpFarming", Caller: "nobody"})
		var missing *domain.MissingKeyError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "nobody", missing.Key)
	})
}
