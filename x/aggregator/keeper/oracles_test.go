package keeper

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GPTx-global/guru-aggregator/x/aggregator/types"
)

func addrs(a ...sdk.AccAddress) []sdk.AccAddress { return a }

func TestUpdateOracles(t *testing.T) {
	oracleD, adminD := testAddr("oracle-d"), testAddr("admin-d")

	testCases := []struct {
		name     string
		caller   sdk.AccAddress
		removed  []sdk.AccAddress
		added    []sdk.AccAddress
		admins   []sdk.AccAddress
		min, max uint32
		delay    uint32
		expErr   error
		expCount uint64
	}{
		{"add one", owner, nil, addrs(oracleD), addrs(adminD), 2, 3, 1, nil, 4},
		{"remove one", owner, addrs(oracleC), nil, nil, 1, 2, 1, nil, 2},
		{"not owner", stranger, nil, addrs(oracleD), addrs(adminD), 2, 3, 1, types.ErrNotOwner, 3},
		{"admin count mismatch", owner, nil, addrs(oracleD), nil, 2, 3, 1, types.ErrAdminsLengthMismatch, 3},
		{"already enabled", owner, nil, addrs(oracleA), addrs(adminA), 2, 3, 1, types.ErrOracleAlreadyEnabled, 3},
		{"remove unknown", owner, addrs(stranger), nil, nil, 2, 3, 1, types.ErrNotEnabledOracle, 3},
		{"max above count", owner, nil, nil, nil, 2, 4, 1, types.ErrMaxExceedsTotal, 3},
		{"min above max", owner, nil, nil, nil, 3, 2, 1, types.ErrMinExceedsMax, 3},
		{"delay not below count", owner, nil, nil, nil, 2, 3, 3, types.ErrDelayExceedsTotal, 3},
		{"min zero", owner, nil, nil, nil, 0, 3, 1, types.ErrMinSubmissionsZero, 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			k, ctx, _ := setupFeed(t, 1000)
			err := k.UpdateOracles(ctx, tc.caller, tc.removed, tc.added, tc.admins, tc.min, tc.max, tc.delay)
			if tc.expErr != nil {
				require.ErrorIs(t, err, tc.expErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expCount, k.OracleCount(ctx))

			params := k.GetParams(ctx)
			assert.Equal(t, tc.min, params.MinSubmissionCount)
			assert.Equal(t, tc.max, params.MaxSubmissionCount)
		})
	}
}

func TestUpdateOraclesReserve(t *testing.T) {
	k, ctx, _ := setupFeed(t, 60)

	err := k.UpdateOracles(ctx, owner, nil, addrs(testAddr("oracle-d")), addrs(testAddr("admin-d")), 2, 3, 1)
	require.ErrorIs(t, err, types.ErrInsufficientFundsForPayment)
}

func TestUpdateOraclesLimit(t *testing.T) {
	k, ctx, _ := setupFeed(t, 1_000_000)

	var added, admins []sdk.AccAddress
	for i := 0; i < types.MaxOracleCount-2; i++ {
		added = append(added, testAddr("extra-"+string(rune('a'+i%26))+string(rune('a'+i/26))))
		admins = append(admins, adminA)
	}
	err := k.UpdateOracles(ctx, owner, nil, added, admins, 2, 3, 1)
	require.ErrorIs(t, err, types.ErrTooManyOracles)

	err = k.UpdateOracles(ctx, owner, nil, added[1:], admins[1:], 2, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(types.MaxOracleCount), k.OracleCount(ctx))
}

func TestRemovedOracle(t *testing.T) {
	k, ctx, _ := setupFeed(t, 1000)

	submit(t, k, ctx, oracleC, 1, 100)
	require.NoError(t, k.UpdateOracles(ctx, owner, addrs(oracleC), nil, nil, 1, 2, 1))

	status, found := k.GetOracleStatus(ctx, oracleC)
	require.True(t, found, "removed oracles keep their record")
	assert.Equal(t, uint64(1), status.EndingRound)
	assert.Equal(t, "10", status.Withdrawable.String())
	assert.False(t, k.IsEnabled(ctx, oracleC))

	// round 2 is past the ending round of C
	submit(t, k, ctx, oracleA, 1, 200)
	require.ErrorIs(t, trySubmit(k, ctx, oracleC, 2, 1), types.ErrNoLongerAllowedOracle)

	// re-adding with a different admin is refused
	err := k.UpdateOracles(ctx, owner, nil, addrs(oracleC), addrs(adminA), 1, 2, 1)
	require.ErrorIs(t, err, types.ErrOwnerCannotOverwriteAdmin)

	// re-adding within the same round keeps the starting round at the ending round
	require.NoError(t, k.UpdateOracles(ctx, owner, nil, addrs(oracleC), addrs(adminC), 1, 2, 1))
	status, _ = k.GetOracleStatus(ctx, oracleC)
	assert.Equal(t, uint64(1), status.StartingRound)
	assert.Equal(t, types.RoundMax, status.EndingRound)
	assert.Equal(t, "10", status.Withdrawable.String())
}

func TestAdminTransfer(t *testing.T) {
	k, ctx, _ := setupFeed(t, 1000)
	newAdmin := testAddr("new-admin")

	require.ErrorIs(t, k.ProposeAdmin(ctx, stranger, oracleA, newAdmin), types.ErrNotAdmin)
	require.ErrorIs(t, k.ProposeAdmin(ctx, adminA, stranger, newAdmin), types.ErrOracleNotFound)
	require.NoError(t, k.ProposeAdmin(ctx, adminA, oracleA, newAdmin))

	status, _ := k.GetOracleStatus(ctx, oracleA)
	assert.True(t, status.Admin.Pending())
	assert.Equal(t, adminA, status.Admin.Admin)

	require.ErrorIs(t, k.ClaimAdmin(ctx, stranger, oracleA), types.ErrNotPendingAdmin)
	require.NoError(t, k.ClaimAdmin(ctx, newAdmin, oracleA))

	status, _ = k.GetOracleStatus(ctx, oracleA)
	assert.False(t, status.Admin.Pending())
	assert.Equal(t, newAdmin, status.Admin.Admin)

	require.ErrorIs(t, k.ClaimAdmin(ctx, newAdmin, oracleA), types.ErrNotPendingAdmin)
}

func TestTransferOwnership(t *testing.T) {
	k, ctx, _ := setupFeed(t, 1000)
	newOwner := testAddr("new-owner")

	require.ErrorIs(t, k.TransferOwnership(ctx, stranger, newOwner), types.ErrNotOwner)
	require.NoError(t, k.TransferOwnership(ctx, owner, newOwner))
	assert.Equal(t, newOwner, k.GetOwner(ctx))

	require.ErrorIs(t, k.SetFutureRounds(ctx, owner, k.GetParams(ctx)), types.ErrNotOwner)
	require.NoError(t, k.SetFutureRounds(ctx, newOwner, k.GetParams(ctx)))
}
