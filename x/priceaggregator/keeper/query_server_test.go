package keeper

import (
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/GPTx-global/guru-aggregator/x/priceaggregator/types"
)

func (suite *KeeperTestSuite) TestQuerier() {
	q := NewQuerier(suite.keeper)
	c := sdk.WrapSDKContext(suite.ctx)

	_, err := q.LatestRoundData(c, &types.QueryLatestRoundDataRequest{})
	suite.Require().ErrorIs(err, types.ErrNoCompletedRounds)

	optional, err := q.LatestPriceFeedOptional(c, &types.QueryPriceFeedRequest{From: "EGLD", To: "USD"})
	suite.Require().NoError(err)
	suite.Require().Nil(optional.Feed)

	suite.mustSubmit(oracleA, "EGLD", "USD", suite.now(), 100)
	pending, err := q.PendingSubmissions(c, &types.QueryPendingSubmissionsRequest{From: "EGLD", To: "USD"})
	suite.Require().NoError(err)
	suite.Require().Len(pending.Submissions, 1)
	suite.Require().Equal(oracleA.String(), pending.Submissions[0].Oracle)
	suite.Require().Equal(suite.now(), pending.Window.FirstSubmissionTimestamp)

	suite.advance(time.Second)
	suite.mustSubmit(oracleB, "EGLD", "USD", suite.now(), 300)
	c = sdk.WrapSDKContext(suite.ctx)

	feed, err := q.LatestPriceFeed(c, &types.QueryPriceFeedRequest{From: "EGLD", To: "USD"})
	suite.Require().NoError(err)
	suite.Require().Equal("200", feed.Feed.Price.String())

	optional, err = q.LatestPriceFeedOptional(c, &types.QueryPriceFeedRequest{From: "EGLD", To: "USD"})
	suite.Require().NoError(err)
	suite.Require().Equal(feed.Feed, *optional.Feed)

	all, err := q.LatestRoundData(c, &types.QueryLatestRoundDataRequest{})
	suite.Require().NoError(err)
	suite.Require().Equal([]types.PriceFeed{feed.Feed}, all.Feeds)

	oracles, err := q.Oracles(c, &types.QueryOraclesRequest{})
	suite.Require().NoError(err)
	suite.Require().ElementsMatch([]string{oracleA.String(), oracleB.String(), oracleC.String()}, oracles.Oracles)

	status, err := q.OracleStatus(c, &types.QueryOracleStatusRequest{Oracle: oracleB.String()})
	suite.Require().NoError(err)
	suite.Require().Equal(types.OracleStatus{TotalSubmissions: 1, AcceptedSubmissions: 1}, status.Status)

	_, err = q.OracleStatus(c, &types.QueryOracleStatusRequest{Oracle: stranger.String()})
	suite.Require().ErrorIs(err, types.ErrOracleNotFound)

	params, err := q.Params(c, &types.QueryParamsRequest{})
	suite.Require().NoError(err)
	suite.Require().Equal(uint32(2), params.Params.SubmissionCount)

	ownerRes, err := q.Owner(c, &types.QueryOwnerRequest{})
	suite.Require().NoError(err)
	suite.Require().Equal(owner.String(), ownerRes.Owner)
}

func (suite *KeeperTestSuite) TestExportState() {
	suite.mustSubmit(oracleA, "EGLD", "USD", suite.now(), 100)
	suite.mustSubmit(oracleB, "EGLD", "USD", suite.now(), 120)
	suite.advance(time.Minute)
	suite.mustSubmit(oracleC, "EGLD", "USD", suite.now(), 130)
	suite.mustSubmit(oracleC, "BTC", "USD", suite.now(), 30000)

	exported := suite.keeper.ExportState(suite.ctx)
	suite.Require().NoError(exported.Validate())
	suite.Require().Len(exported.Oracles, 3)
	suite.Require().Len(exported.Pairs, 2)

	k, ctx := setupKeeper(suite.T())
	ctx = ctx.WithBlockTime(suite.ctx.BlockTime())
	k.InitState(ctx, exported)
	suite.Require().Equal(exported, k.ExportState(ctx))

	// the restored window completes like the original would
	submission := types.PriceSubmission{From: "EGLD", To: "USD", Timestamp: uint64(ctx.BlockTime().Unix()), Price: suite.keeper.GetPendingSubmissions(suite.ctx, types.NewTokenPair("EGLD", "USD"))[0].Price}
	res, err := k.Submit(ctx, oracleA, submission)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(2), res.RoundID)
}
