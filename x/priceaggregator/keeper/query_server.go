package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/GPTx-global/guru-aggregator/x/priceaggregator/types"
)

// Querier serves the read API on top of the keeper.
type Querier struct {
	Keeper
}

var _ types.QueryServer = Querier{}

func NewQuerier(k Keeper) Querier {
	return Querier{Keeper: k}
}

// LatestRoundData returns the latest round of every pair
func (q Querier) LatestRoundData(c context.Context, _ *types.QueryLatestRoundDataRequest) (*types.QueryLatestRoundDataResponse, error) {
	feeds, err := q.Keeper.LatestRoundData(sdk.UnwrapSDKContext(c))
	if err != nil {
		return nil, err
	}
	return &types.QueryLatestRoundDataResponse{Feeds: feeds}, nil
}

// LatestPriceFeed returns the latest round of one pair
func (q Querier) LatestPriceFeed(c context.Context, req *types.QueryPriceFeedRequest) (*types.QueryPriceFeedResponse, error) {
	feed, err := q.Keeper.LatestPriceFeed(sdk.UnwrapSDKContext(c), types.NewTokenPair(req.From, req.To))
	if err != nil {
		return nil, err
	}
	return &types.QueryPriceFeedResponse{Feed: feed}, nil
}

// LatestPriceFeedOptional is LatestPriceFeed with an empty answer for
// unknown pairs.
func (q Querier) LatestPriceFeedOptional(c context.Context, req *types.QueryPriceFeedRequest) (*types.QueryPriceFeedOptionalResponse, error) {
	feed, err := q.Keeper.LatestPriceFeed(sdk.UnwrapSDKContext(c), types.NewTokenPair(req.From, req.To))
	if err != nil {
		return &types.QueryPriceFeedOptionalResponse{}, nil
	}
	return &types.QueryPriceFeedOptionalResponse{Feed: &feed}, nil
}

func (q Querier) Oracles(c context.Context, _ *types.QueryOraclesRequest) (*types.QueryOraclesResponse, error) {
	oracles := q.GetOracles(sdk.UnwrapSDKContext(c))
	res := &types.QueryOraclesResponse{Oracles: make([]string, len(oracles))}
	for i, o := range oracles {
		res.Oracles[i] = o.String()
	}
	return res, nil
}

func (q Querier) OracleStatus(c context.Context, req *types.QueryOracleStatusRequest) (*types.QueryOracleStatusResponse, error) {
	oracle, err := parseAddress("oracle", req.Oracle)
	if err != nil {
		return nil, err
	}
	status, found := q.GetOracleStatus(sdk.UnwrapSDKContext(c), oracle)
	if !found {
		return nil, errorsmod.Wrapf(types.ErrOracleNotFound, "%s", req.Oracle)
	}
	return &types.QueryOracleStatusResponse{Status: status}, nil
}

func (q Querier) PendingSubmissions(c context.Context, req *types.QueryPendingSubmissionsRequest) (*types.QueryPendingSubmissionsResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)
	pair := types.NewTokenPair(req.From, req.To)
	window, _ := q.GetWindow(ctx, pair)
	return &types.QueryPendingSubmissionsResponse{
		Window:      window,
		Submissions: q.GetPendingSubmissions(ctx, pair),
	}, nil
}

func (q Querier) Params(c context.Context, _ *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	return &types.QueryParamsResponse{Params: q.GetParams(sdk.UnwrapSDKContext(c))}, nil
}

func (q Querier) Owner(c context.Context, _ *types.QueryOwnerRequest) (*types.QueryOwnerResponse, error) {
	return &types.QueryOwnerResponse{Owner: q.GetOwner(sdk.UnwrapSDKContext(c)).String()}, nil
}
