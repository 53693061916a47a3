package keeper

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GPTx-global/guru-aggregator/x/aggregator/types"
)

func TestRequiredReserve(t *testing.T) {
	k, ctx, _ := setupFeed(t, 1000)
	assert.Equal(t, "60", k.RequiredReserve(ctx, math.NewInt(10)).String())
	assert.Equal(t, "0", k.RequiredReserve(ctx, math.ZeroInt()).String())
}

func TestDepositFunds(t *testing.T) {
	k, ctx, bank := setupFeed(t, 1000)
	depositor := testAddr("depositor")
	bank.set(depositor, testDenom, 100)

	require.NoError(t, k.DepositFunds(ctx, depositor, math.NewInt(40)))
	assert.Equal(t, "1040", k.AvailableFunds(ctx).String())
	assert.Equal(t, "60", bank.GetBalance(ctx, depositor, testDenom).Amount.String())

	err := k.DepositFunds(ctx, depositor, math.NewInt(61))
	require.Error(t, err)
	assert.Equal(t, "1040", k.AvailableFunds(ctx).String())
}

func TestUpdateAvailableFundsTracksBalance(t *testing.T) {
	k, ctx, bank := setupFeed(t, 1000)
	submit(t, k, ctx, oracleA, 1, 100)

	// funds sent to the module account outside of DepositFunds
	bank.set(k.ModuleAddress(), testDenom, 1500)
	k.UpdateAvailableFunds(ctx)
	assert.Equal(t, "1490", k.AvailableFunds(ctx).String())
	assert.Equal(t, "10", k.AllocatedFunds(ctx).String())

	events := ctx.EventManager().Events()
	assert.Equal(t, types.EventTypeAvailableFundsUpdated, events[len(events)-1].Type)

	// unchanged balance emits nothing
	before := len(ctx.EventManager().Events())
	k.UpdateAvailableFunds(ctx)
	assert.Len(t, ctx.EventManager().Events(), before)
}

func TestWithdrawOwnerFunds(t *testing.T) {
	recipient := testAddr("recipient")

	testCases := []struct {
		name   string
		caller sdk.AccAddress
		amount int64
		expErr error
	}{
		{"all but the reserve", owner, 940, nil},
		{"into the reserve", owner, 941, types.ErrInsufficientReserveFunds},
		{"not owner", stranger, 1, types.ErrNotOwner},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			k, ctx, bank := setupFeed(t, 1000)
			err := k.WithdrawOwnerFunds(ctx, tc.caller, recipient, math.NewInt(tc.amount))
			if tc.expErr != nil {
				require.ErrorIs(t, err, tc.expErr)
				assert.Equal(t, "1000", k.AvailableFunds(ctx).String())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "60", k.AvailableFunds(ctx).String())
			assert.Equal(t, "940", bank.GetBalance(ctx, recipient, testDenom).Amount.String())
		})
	}
}

func TestWithdrawOraclePayment(t *testing.T) {
	k, ctx, bank := setupFeed(t, 1000)
	recipient := testAddr("recipient")
	submit(t, k, ctx, oracleA, 1, 100)

	require.ErrorIs(t, k.WithdrawOraclePayment(ctx, stranger, oracleA, recipient, math.NewInt(1)), types.ErrNotAdmin)
	require.ErrorIs(t, k.WithdrawOraclePayment(ctx, adminA, oracleA, recipient, math.NewInt(11)), types.ErrInsufficientWithdrawable)
	require.ErrorIs(t, k.WithdrawOraclePayment(ctx, adminA, stranger, recipient, math.NewInt(1)), types.ErrOracleNotFound)

	require.NoError(t, k.WithdrawOraclePayment(ctx, adminA, oracleA, recipient, math.NewInt(4)))
	status, _ := k.GetOracleStatus(ctx, oracleA)
	assert.Equal(t, "6", status.Withdrawable.String())
	assert.Equal(t, "6", k.AllocatedFunds(ctx).String())
	assert.Equal(t, "990", k.AvailableFunds(ctx).String())
	assert.Equal(t, "4", bank.GetBalance(ctx, recipient, testDenom).Amount.String())
	assert.Equal(t, "996", bank.GetBalance(ctx, k.ModuleAddress(), testDenom).Amount.String())
}

func TestPaymentExhaustsAvailableFunds(t *testing.T) {
	k, ctx, _ := setupFeed(t, 60)

	submit(t, k, ctx, oracleA, 1, 100)
	submit(t, k, ctx, oracleB, 1, 100)
	submit(t, k, ctx, oracleC, 1, 100)
	submit(t, k, ctx, oracleB, 2, 100)
	submit(t, k, ctx, oracleC, 2, 100)
	submit(t, k, ctx, oracleA, 2, 100)
	require.True(t, k.AvailableFunds(ctx).IsZero())
	require.Equal(t, "60", k.AllocatedFunds(ctx).String())

	cacheCtx, _ := ctx.CacheContext()
	err := trySubmit(k, cacheCtx, oracleC, 3, 100)
	require.ErrorIs(t, err, types.ErrInsufficientAvailable)
	assert.Equal(t, uint64(2), k.GetReportingRoundID(ctx))
}

func TestSetFutureRoundsSnapshot(t *testing.T) {
	k, ctx, _ := setupFeed(t, 1000)
	submit(t, k, ctx, oracleA, 1, 100)

	params := k.GetParams(ctx)
	params.PaymentAmount = math.NewInt(20)
	require.NoError(t, k.SetFutureRounds(ctx, owner, params))

	// round 1 keeps paying the amount snapshotted when it opened
	submit(t, k, ctx, oracleB, 1, 100)
	status, _ := k.GetOracleStatus(ctx, oracleB)
	assert.Equal(t, "10", status.Withdrawable.String())

	submit(t, k, ctx, oracleB, 2, 100)
	status, _ = k.GetOracleStatus(ctx, oracleB)
	assert.Equal(t, "30", status.Withdrawable.String())
}

func TestSetFutureRoundsReserveGuard(t *testing.T) {
	k, ctx, _ := setupFeed(t, 1000)

	// three oracles, two reserve rounds: 167 * 6 = 1002 > 1000
	params := k.GetParams(ctx)
	params.PaymentAmount = math.NewInt(167)
	cacheCtx, _ := ctx.CacheContext()
	err := k.SetFutureRounds(cacheCtx, owner, params)
	require.ErrorIs(t, err, types.ErrInsufficientFundsForPayment)
	assert.Equal(t, "10", k.GetParams(ctx).PaymentAmount.String())

	params.PaymentAmount = math.NewInt(166)
	require.NoError(t, k.SetFutureRounds(ctx, owner, params))
	assert.Equal(t, "166", k.GetParams(ctx).PaymentAmount.String())
}
