package keeper

import (
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/GPTx-global/guru-aggregator/x/priceaggregator/types"
)

func (suite *KeeperTestSuite) TestSubmitGates() {
	testCases := []struct {
		name     string
		malleate func()
		oracle   sdk.AccAddress
		offset   int64
		expErr   error
	}{
		{
			"paused",
			func() {
				suite.Require().NoError(suite.keeper.SetPaused(suite.ctx, owner, true))
			},
			oracleA,
			0,
			types.ErrPaused,
		},
		{
			"not an oracle",
			func() {},
			stranger,
			0,
			types.ErrNotOracle,
		},
		{
			"timestamp from the future",
			func() {},
			oracleA,
			1,
			types.ErrFutureTimestamp,
		},
		{
			"first submission too old",
			func() {},
			oracleA,
			-31,
			types.ErrFirstSubmissionTooOld,
		},
		{
			"first submission at the age limit",
			func() {},
			oracleA,
			-30,
			nil,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest()
			tc.malleate()

			ts := uint64(int64(suite.now()) + tc.offset)
			res, err := suite.submit(tc.oracle, "EGLD", "USD", ts, 100)
			if tc.expErr != nil {
				suite.Require().ErrorIs(err, tc.expErr)
				return
			}
			suite.Require().NoError(err)
			suite.Require().True(res.Accepted)
		})
	}
}

func (suite *KeeperTestSuite) TestUnpauseOpensSubmissions() {
	k, ctx := setupKeeper(suite.T())
	gs := testGenesis()
	gs.Params.Paused = true
	k.InitState(ctx, gs)

	submission := types.PriceSubmission{From: "EGLD", To: "USD", Timestamp: uint64(genesisTime.Unix()), Price: math.NewInt(1)}
	_, err := k.Submit(ctx, oracleA, submission)
	suite.Require().ErrorIs(err, types.ErrPaused)

	suite.Require().ErrorIs(k.SetPaused(ctx, stranger, false), types.ErrNotOwner)
	suite.Require().NoError(k.SetPaused(ctx, owner, false))

	res, err := k.Submit(ctx, oracleA, submission)
	suite.Require().NoError(err)
	suite.Require().True(res.Accepted)
}

func (suite *KeeperTestSuite) TestRoundCompletes() {
	opened := suite.now()
	res := suite.mustSubmit(oracleA, "EGLD", "USD", opened, 100)
	suite.Require().Equal(SubmitResult{Accepted: true}, res)

	window, open := suite.keeper.GetWindow(suite.ctx, types.NewTokenPair("EGLD", "USD"))
	suite.Require().True(open)
	suite.Require().Equal(opened, window.FirstSubmissionTimestamp)

	suite.advance(5 * time.Second)
	res = suite.mustSubmit(oracleB, "EGLD", "USD", suite.now(), 110)
	suite.Require().Equal(SubmitResult{Accepted: true, RoundID: 1}, res)

	feed, err := suite.keeper.LatestPriceFeed(suite.ctx, types.NewTokenPair("EGLD", "USD"))
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(1), feed.RoundID)
	suite.Require().Equal("105", feed.Price.String())
	suite.Require().Equal(opened+5, feed.Timestamp)
	suite.Require().Equal(uint32(8), feed.Decimals)

	_, open = suite.keeper.GetWindow(suite.ctx, types.NewTokenPair("EGLD", "USD"))
	suite.Require().False(open)
	suite.Require().Empty(suite.keeper.GetPendingSubmissions(suite.ctx, types.NewTokenPair("EGLD", "USD")))

	// the next window starts a second round
	suite.advance(time.Minute)
	suite.mustSubmit(oracleC, "EGLD", "USD", suite.now(), 90)
	res = suite.mustSubmit(oracleA, "EGLD", "USD", suite.now(), 95)
	suite.Require().Equal(uint64(2), res.RoundID)

	feed, err = suite.keeper.LatestPriceFeed(suite.ctx, types.NewTokenPair("EGLD", "USD"))
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(2), feed.RoundID)
	suite.Require().Equal("92", feed.Price.String())
}

func (suite *KeeperTestSuite) TestMedianOfThree() {
	suite.Require().NoError(suite.keeper.UpdateSubmissionCount(suite.ctx, owner, 3))

	suite.mustSubmit(oracleA, "EGLD", "USD", suite.now(), 5)
	suite.mustSubmit(oracleB, "EGLD", "USD", suite.now(), 1)
	res := suite.mustSubmit(oracleC, "EGLD", "USD", suite.now(), 3)
	suite.Require().Equal(uint64(1), res.RoundID)

	round, found := suite.keeper.GetRound(suite.ctx, types.NewTokenPair("EGLD", "USD"), 1)
	suite.Require().True(found)
	suite.Require().Equal("3", round.Price.String())
}

func (suite *KeeperTestSuite) TestDuplicateSubmissionIsCounted() {
	suite.mustSubmit(oracleA, "EGLD", "USD", suite.now(), 100)
	res := suite.mustSubmit(oracleA, "EGLD", "USD", suite.now(), 120)
	suite.Require().False(res.Accepted)

	pending := suite.keeper.GetPendingSubmissions(suite.ctx, types.NewTokenPair("EGLD", "USD"))
	suite.Require().Len(pending, 1)
	suite.Require().Equal("100", pending[0].Price.String())

	status, found := suite.keeper.GetOracleStatus(suite.ctx, oracleA)
	suite.Require().True(found)
	suite.Require().Equal(types.OracleStatus{TotalSubmissions: 2, AcceptedSubmissions: 1}, status)

	var discarded bool
	for _, ev := range suite.ctx.EventManager().Events() {
		if ev.Type == types.EventTypeDiscardSubmission {
			discarded = true
		}
	}
	suite.Require().True(discarded)
}

func (suite *KeeperTestSuite) TestSubmissionBeforeWindowIsDiscarded() {
	opened := suite.now()
	suite.mustSubmit(oracleA, "EGLD", "USD", opened, 100)

	suite.advance(10 * time.Second)
	res := suite.mustSubmit(oracleB, "EGLD", "USD", opened-1, 100)
	suite.Require().False(res.Accepted)

	status, _ := suite.keeper.GetOracleStatus(suite.ctx, oracleB)
	suite.Require().Equal(types.OracleStatus{TotalSubmissions: 1}, status)

	res = suite.mustSubmit(oracleB, "EGLD", "USD", opened, 100)
	suite.Require().True(res.Accepted)
	suite.Require().Equal(uint64(1), res.RoundID)
}

func (suite *KeeperTestSuite) TestStaleWindowIsDiscarded() {
	pair := types.NewTokenPair("EGLD", "USD")
	suite.mustSubmit(oracleA, "EGLD", "USD", suite.now(), 100)

	suite.advance(time.Duration(types.MaxRoundDuration+1) * time.Second)
	// the window is open, so an old timestamp is not refused outright
	res := suite.mustSubmit(oracleB, "EGLD", "USD", suite.now()-100, 200)
	suite.Require().Equal(SubmitResult{Accepted: true}, res)

	pending := suite.keeper.GetPendingSubmissions(suite.ctx, pair)
	suite.Require().Len(pending, 1)
	suite.Require().Equal(oracleB.String(), pending[0].Oracle)

	window, open := suite.keeper.GetWindow(suite.ctx, pair)
	suite.Require().True(open)
	suite.Require().Equal(suite.now(), window.FirstSubmissionTimestamp)
	suite.Require().Equal(uint64(0), suite.keeper.GetRoundCount(suite.ctx, pair))
}

func (suite *KeeperTestSuite) TestWindowOpenUntilMaxDuration() {
	opened := suite.now()
	suite.mustSubmit(oracleA, "EGLD", "USD", opened, 100)

	suite.advance(time.Duration(types.MaxRoundDuration) * time.Second)
	res := suite.mustSubmit(oracleB, "EGLD", "USD", suite.now(), 200)
	suite.Require().Equal(SubmitResult{Accepted: true, RoundID: 1}, res)

	feed, err := suite.keeper.LatestPriceFeed(suite.ctx, types.NewTokenPair("EGLD", "USD"))
	suite.Require().NoError(err)
	suite.Require().Equal("150", feed.Price.String())
}

func (suite *KeeperTestSuite) TestPairsAreIndependent() {
	suite.mustSubmit(oracleA, "EGLD", "USD", suite.now(), 100)
	res := suite.mustSubmit(oracleA, "BTC", "USD", suite.now(), 30000)
	suite.Require().True(res.Accepted)

	suite.Require().Len(suite.keeper.GetPendingSubmissions(suite.ctx, types.NewTokenPair("EGLD", "USD")), 1)
	suite.Require().Len(suite.keeper.GetPendingSubmissions(suite.ctx, types.NewTokenPair("BTC", "USD")), 1)
}

func (suite *KeeperTestSuite) TestSubmitBatch() {
	batch := func(egld, btc int64) []types.PriceSubmission {
		return []types.PriceSubmission{
			{From: "EGLD", To: "USD", Timestamp: suite.now(), Price: math.NewInt(egld)},
			{From: "BTC", To: "USD", Timestamp: suite.now(), Price: math.NewInt(btc)},
		}
	}

	results, err := suite.keeper.SubmitBatch(suite.ctx, oracleA, batch(100, 30000))
	suite.Require().NoError(err)
	suite.Require().Equal([]SubmitResult{{Accepted: true}, {Accepted: true}}, results)

	results, err = suite.keeper.SubmitBatch(suite.ctx, oracleB, batch(102, 30010))
	suite.Require().NoError(err)
	suite.Require().Equal([]SubmitResult{{Accepted: true, RoundID: 1}, {Accepted: true, RoundID: 1}}, results)

	feeds, err := suite.keeper.LatestRoundData(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(feeds, 2)
	prices := map[string]string{}
	for _, f := range feeds {
		prices[f.From+"/"+f.To] = f.Price.String()
	}
	suite.Require().Equal(map[string]string{"EGLD/USD": "101", "BTC/USD": "30005"}, prices)

	_, err = suite.keeper.SubmitBatch(suite.ctx, stranger, batch(1, 1))
	suite.Require().ErrorIs(err, types.ErrNotOracle)

	bad := batch(1, 1)
	bad[1].Timestamp = suite.now() + 60
	_, err = suite.keeper.SubmitBatch(suite.ctx, oracleC, bad)
	suite.Require().ErrorIs(err, types.ErrFutureTimestamp)
}

func (suite *KeeperTestSuite) TestLatestPriceFeedNotFound() {
	_, err := suite.keeper.LatestPriceFeed(suite.ctx, types.NewTokenPair("EGLD", "USD"))
	suite.Require().ErrorIs(err, types.ErrTokenPairNotFound)

	_, err = suite.keeper.LatestRoundData(suite.ctx)
	suite.Require().ErrorIs(err, types.ErrNoCompletedRounds)
}

func (suite *KeeperTestSuite) TestSubmissionValidation() {
	_, err := suite.keeper.Submit(suite.ctx, oracleA, types.PriceSubmission{From: "EGLD", To: "EGLD", Timestamp: suite.now(), Price: math.NewInt(1)})
	suite.Require().ErrorIs(err, types.ErrInvalidTokenPair)

	_, err = suite.keeper.Submit(suite.ctx, oracleA, types.PriceSubmission{From: "EGLD", To: "USD", Timestamp: suite.now(), Price: math.ZeroInt()})
	suite.Require().ErrorIs(err, types.ErrInvalidPrice)
}
