package keeper

import (
	stdmath "math"
	"testing"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GPTx-global/guru-aggregator/x/aggregator/types"
)

func TestBootstrapCreatesRoundZero(t *testing.T) {
	k, ctx, _ := setupFeed(t, 1000)

	round, found := k.GetRound(ctx, 0)
	require.True(t, found)
	assert.Equal(t, uint64(genesisTime.Unix())-60, round.UpdatedAt)
	assert.Nil(t, round.Answer)
	assert.True(t, k.supersedable(ctx, 0))
	assert.Equal(t, uint64(3), k.OracleCount(ctx))
	assert.Equal(t, "1000", k.AvailableFunds(ctx).String())
}

func TestSubmitHappyPath(t *testing.T) {
	k, ctx, _ := setupFeed(t, 1000)

	submit(t, k, ctx, oracleA, 1, 100)
	round, _ := k.GetRound(ctx, 1)
	assert.False(t, round.Answered())
	assert.Equal(t, uint64(genesisTime.Unix()), round.StartedAt)
	assert.Equal(t, uint64(1), k.GetReportingRoundID(ctx))
	assert.Equal(t, uint64(0), k.GetLatestRoundID(ctx))

	submit(t, k, ctx, oracleB, 1, 200)
	assert.Equal(t, []string{"150"}, answerOf(t, k, ctx, 1))
	assert.Equal(t, uint64(1), k.GetLatestRoundID(ctx))

	submit(t, k, ctx, oracleC, 1, 300)
	assert.Equal(t, []string{"200"}, answerOf(t, k, ctx, 1))

	_, found := k.GetDetails(ctx, 1)
	assert.False(t, found, "details of a full round are purged")

	assert.Equal(t, "970", k.AvailableFunds(ctx).String())
	assert.Equal(t, "30", k.AllocatedFunds(ctx).String())
	for _, o := range [][]byte{oracleA, oracleB, oracleC} {
		status, _ := k.GetOracleStatus(ctx, o)
		assert.Equal(t, "10", status.Withdrawable.String())
		assert.Equal(t, uint64(1), status.LastReportedRound)
	}

	latest, err := k.LatestRoundData(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), latest.RoundID)
	assert.Equal(t, uint64(1), latest.AnsweredInRound)
	assert.Equal(t, types.DefaultFeedConfig().Description, latest.Description)
}

func TestSubmitMultiValue(t *testing.T) {
	k, ctx, _ := setupFeed(t, 1000)

	submit(t, k, ctx, oracleA, 1, 100, 5000, 6000)
	submit(t, k, ctx, oracleB, 1, 110, 5010, 6010)
	assert.Equal(t, []string{"105", "5005", "6005"}, answerOf(t, k, ctx, 1))

	err := trySubmit(k, ctx, oracleC, 1, 1, 2)
	require.ErrorIs(t, err, types.ErrSubmissionLength)
}

func TestSubmitValidation(t *testing.T) {
	k, ctx, _ := setupFeed(t, 1000)
	submit(t, k, ctx, oracleA, 1, 100)

	testCases := []struct {
		name    string
		oracle  []byte
		roundID uint64
		value   int64
		expErr  error
	}{
		{"unknown oracle", stranger, 1, 1, types.ErrNotEnabledOracle},
		{"reported twice", oracleA, 1, 1, types.ErrReportedPreviousRound},
		{"round too far ahead", oracleB, 3, 1, types.ErrInvalidRound},
		{"previous round still open", oracleB, 2, 1, types.ErrPrevRoundNotSupersedable},
		{"join open round", oracleB, 1, 0, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cacheCtx, _ := ctx.CacheContext()
			err := trySubmit(k, cacheCtx, tc.oracle, tc.roundID, tc.value)
			if tc.expErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.expErr)
		})
	}
}

func TestSubmitValueBounds(t *testing.T) {
	k, ctx, bank := setupKeeper(t)
	bank.set(k.ModuleAddress(), testDenom, 1000)
	gs := testGenesis()
	gs.FeedConfig.MinSubmissionValue = math.NewInt(1)
	gs.FeedConfig.MaxSubmissionValue = math.NewInt(1000)
	require.NoError(t, k.Bootstrap(ctx, gs))

	require.ErrorIs(t, trySubmit(k, ctx, oracleA, 1, 0), types.ErrValueBelowMin)
	require.ErrorIs(t, trySubmit(k, ctx, oracleA, 1, 1001), types.ErrValueAboveMax)
	require.ErrorIs(t, trySubmit(k, ctx, oracleA, 1, 5, 1001), types.ErrValueAboveMax)
	submit(t, k, ctx, oracleA, 1, 1000)
}

func TestRestartDelay(t *testing.T) {
	k, ctx, _ := setupFeed(t, 1000)

	submit(t, k, ctx, oracleA, 1, 100)
	submit(t, k, ctx, oracleB, 1, 200)

	// A opened round 1 and must wait one round before opening another.
	err := trySubmit(k, ctx, oracleA, 2, 100)
	require.ErrorIs(t, err, types.ErrRoundNotAccepting)
	assert.Equal(t, uint64(1), k.GetReportingRoundID(ctx))

	submit(t, k, ctx, oracleB, 2, 300)
	assert.Equal(t, uint64(2), k.GetReportingRoundID(ctx))
	status, _ := k.GetOracleStatus(ctx, oracleB)
	assert.Equal(t, uint64(2), status.LastStartedRound)

	// A can still join round 2.
	submit(t, k, ctx, oracleA, 2, 100)
	assert.Equal(t, []string{"200"}, answerOf(t, k, ctx, 2))
}

func TestNewRoundCarriesPreviousAnswer(t *testing.T) {
	k, ctx, _ := setupFeed(t, 1000)

	submit(t, k, ctx, oracleA, 1, 100)
	submit(t, k, ctx, oracleB, 1, 200)
	submit(t, k, ctx, oracleC, 2, 500)

	round, _ := k.GetRound(ctx, 2)
	assert.Equal(t, []string{"150"}, answerOf(t, k, ctx, 2))
	assert.Equal(t, uint64(1), round.AnsweredInRound)
	assert.Equal(t, uint64(0), round.UpdatedAt)
	assert.False(t, round.Answered())
}

func TestTimedOutRoundIsClosedOut(t *testing.T) {
	k, ctx, _ := setupFeed(t, 1000)

	submit(t, k, ctx, oracleA, 1, 100)
	submit(t, k, ctx, oracleB, 1, 200)
	submit(t, k, ctx, oracleC, 2, 500)

	// round 2 is stuck with one submission
	require.ErrorIs(t, trySubmit(k, ctx, oracleA, 3, 1), types.ErrPrevRoundNotSupersedable)

	ctx = advance(ctx, 61*time.Second)
	assert.True(t, k.timedOut(ctx, 2))
	submit(t, k, ctx, oracleA, 3, 700)

	round2, _ := k.GetRound(ctx, 2)
	assert.True(t, round2.Answered())
	assert.Equal(t, uint64(1), round2.AnsweredInRound)
	assert.Equal(t, []string{"150"}, answerOf(t, k, ctx, 2))
	_, found := k.GetDetails(ctx, 2)
	assert.False(t, found, "timed out details are purged")

	round3, _ := k.GetRound(ctx, 3)
	assert.Equal(t, uint64(1), round3.AnsweredInRound)
	assert.Equal(t, uint64(3), k.GetReportingRoundID(ctx))
	assert.Equal(t, uint64(1), k.GetLatestRoundID(ctx))

	// C reported on round 2 but may report on round 3 as well
	submit(t, k, ctx, oracleC, 3, 900)
	assert.Equal(t, []string{"800"}, answerOf(t, k, ctx, 3))
	assert.Equal(t, uint64(3), k.GetLatestRoundID(ctx))
}

func TestTimedOutRoundWithoutTimeout(t *testing.T) {
	k, ctx, bank := setupKeeper(t)
	bank.set(k.ModuleAddress(), testDenom, 1000)
	gs := testGenesis()
	gs.Params.Timeout = 0
	require.NoError(t, k.Bootstrap(ctx, gs))

	submit(t, k, ctx, oracleA, 1, 100)
	ctx = advance(ctx, 24*time.Hour)
	assert.False(t, k.timedOut(ctx, 1))
	assert.False(t, k.supersedable(ctx, 1))
}

func TestLateSubmissionToPreviousRound(t *testing.T) {
	k, ctx, _ := setupFeed(t, 1000)
	oracleD, adminD := testAddr("oracle-d"), testAddr("admin-d")
	require.NoError(t, k.UpdateOracles(ctx, owner, nil, []sdk.AccAddress{oracleD}, []sdk.AccAddress{adminD}, 2, 3, 1))

	submit(t, k, ctx, oracleA, 1, 100)
	submit(t, k, ctx, oracleB, 1, 200)
	submit(t, k, ctx, oracleC, 2, 500)
	require.Equal(t, uint64(1), k.GetLatestRoundID(ctx))

	// round 2 is unanswered, so D may still report on round 1
	submit(t, k, ctx, oracleD, 1, 600)
	assert.Equal(t, []string{"200"}, answerOf(t, k, ctx, 1))
	assert.Equal(t, uint64(1), k.GetLatestRoundID(ctx))
	assert.Equal(t, uint64(2), k.GetReportingRoundID(ctx))
	assert.Equal(t, []string{"150"}, answerOf(t, k, ctx, 2))

	_, found := k.GetDetails(ctx, 1)
	assert.False(t, found)
}

func TestGetRoundDataNotFound(t *testing.T) {
	k, ctx, _ := setupFeed(t, 1000)
	_, err := k.GetRoundData(ctx, 42)
	require.ErrorIs(t, err, types.ErrRoundNotFound)
}

func TestOracleRoundState(t *testing.T) {
	k, ctx, _ := setupFeed(t, 1000)

	state, err := k.OracleRoundState(ctx, oracleA, 0)
	require.NoError(t, err)
	assert.True(t, state.EligibleToSubmit)
	assert.Equal(t, uint64(1), state.RoundID)
	assert.Equal(t, "10", state.PaymentAmount.String())
	assert.Equal(t, uint64(3), state.OracleCount)

	submit(t, k, ctx, oracleA, 1, 100)

	state, err = k.OracleRoundState(ctx, oracleA, 0)
	require.NoError(t, err)
	assert.False(t, state.EligibleToSubmit)
	assert.Equal(t, uint64(1), state.RoundID)
	assert.Equal(t, uint64(60), state.Timeout)
	require.NotNil(t, state.LatestSubmission)
	assert.Equal(t, "100", state.LatestSubmission.Values[0].String())

	state, err = k.OracleRoundState(ctx, oracleB, 0)
	require.NoError(t, err)
	assert.True(t, state.EligibleToSubmit)
	assert.Equal(t, uint64(1), state.RoundID)
	assert.Equal(t, uint64(genesisTime.Unix()), state.StartedAt)

	state, err = k.OracleRoundState(ctx, oracleB, 2)
	require.NoError(t, err)
	assert.False(t, state.EligibleToSubmit)

	_, err = k.OracleRoundState(ctx, stranger, 0)
	require.ErrorIs(t, err, types.ErrOracleNotFound)
}

func TestMaxTimeoutNeverExpires(t *testing.T) {
	k, ctx, bank := setupKeeper(t)
	bank.set(k.ModuleAddress(), testDenom, 1000)
	gs := testGenesis()
	gs.Params.Timeout = stdmath.MaxUint64
	require.NoError(t, k.Bootstrap(ctx, gs))

	round, _ := k.GetRound(ctx, 0)
	assert.Equal(t, uint64(1), round.UpdatedAt)

	submit(t, k, ctx, oracleA, 1, 100)
	ctx = advance(ctx, time.Second)
	assert.False(t, k.timedOut(ctx, 1))
	assert.False(t, k.supersedable(ctx, 1))

	err := trySubmit(k, ctx, oracleB, 2, 100)
	require.ErrorIs(t, err, types.ErrPrevRoundNotSupersedable)
	assert.Equal(t, uint64(1), k.GetReportingRoundID(ctx))
}

func TestDelayedNearMaxRound(t *testing.T) {
	k, ctx, _ := setupFeed(t, 1000)

	status, _ := k.GetOracleStatus(ctx, oracleA)
	status.LastStartedRound = stdmath.MaxUint64
	k.SetOracleStatus(ctx, oracleA, status)
	assert.False(t, k.delayed(ctx, oracleA, 5))

	status.LastStartedRound = 3
	k.SetOracleStatus(ctx, oracleA, status)
	assert.False(t, k.delayed(ctx, oracleA, 4))
	assert.True(t, k.delayed(ctx, oracleA, 5))
}
