package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/GPTx-global/guru-aggregator/x/aggregator/types"
)

// Querier serves the read API. Keeper read methods share names with the
// query methods, so they are wrapped rather than implemented on Keeper.
type Querier struct {
	Keeper
}

var _ types.QueryServer = Querier{}

func NewQuerier(k Keeper) Querier {
	return Querier{Keeper: k}
}

// RoundData returns a round by id
func (q Querier) RoundData(c context.Context, req *types.QueryRoundDataRequest) (*types.QueryRoundDataResponse, error) {
	round, err := q.GetRoundData(sdk.UnwrapSDKContext(c), req.RoundID)
	if err != nil {
		return nil, err
	}
	return &types.QueryRoundDataResponse{Round: round}, nil
}

// LatestRoundData returns the latest answered round
func (q Querier) LatestRoundData(c context.Context, _ *types.QueryLatestRoundDataRequest) (*types.QueryRoundDataResponse, error) {
	round, err := q.Keeper.LatestRoundData(sdk.UnwrapSDKContext(c))
	if err != nil {
		return nil, err
	}
	return &types.QueryRoundDataResponse{Round: round}, nil
}

func (q Querier) OracleRoundState(c context.Context, req *types.QueryOracleRoundStateRequest) (*types.QueryOracleRoundStateResponse, error) {
	oracle, err := parseAddress("oracle", req.Oracle)
	if err != nil {
		return nil, err
	}
	res, err := q.Keeper.OracleRoundState(sdk.UnwrapSDKContext(c), oracle, req.RoundID)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (q Querier) AllocatedFunds(c context.Context, _ *types.QueryAllocatedFundsRequest) (*types.QueryAmountResponse, error) {
	return &types.QueryAmountResponse{Amount: q.Keeper.AllocatedFunds(sdk.UnwrapSDKContext(c))}, nil
}

func (q Querier) AvailableFunds(c context.Context, _ *types.QueryAvailableFundsRequest) (*types.QueryAmountResponse, error) {
	return &types.QueryAmountResponse{Amount: q.Keeper.AvailableFunds(sdk.UnwrapSDKContext(c))}, nil
}

func (q Querier) OracleCount(c context.Context, _ *types.QueryOracleCountRequest) (*types.QueryOracleCountResponse, error) {
	return &types.QueryOracleCountResponse{Count: q.Keeper.OracleCount(sdk.UnwrapSDKContext(c))}, nil
}

// RequiredReserve returns the reserve for the given payment, or for the
// current payment amount when none is given
func (q Querier) RequiredReserve(c context.Context, req *types.QueryRequiredReserveRequest) (*types.QueryAmountResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)
	payment := req.PaymentAmount
	if payment.IsNil() {
		payment = q.GetParams(ctx).PaymentAmount
	}
	return &types.QueryAmountResponse{Amount: q.Keeper.RequiredReserve(ctx, payment)}, nil
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
	status, err := q.oracleStatus(sdk.UnwrapSDKContext(c), req.Oracle)
	if err != nil {
		return nil, err
	}
	return &types.QueryOracleStatusResponse{Status: status}, nil
}

// WithdrawablePayment returns the rewards an oracle can withdraw, zero for
// unknown oracles
func (q Querier) WithdrawablePayment(c context.Context, req *types.QueryOracleStatusRequest) (*types.QueryAmountResponse, error) {
	oracle, err := parseAddress("oracle", req.Oracle)
	if err != nil {
		return nil, err
	}
	status, found := q.GetOracleStatus(sdk.UnwrapSDKContext(c), oracle)
	if !found {
		return &types.QueryAmountResponse{Amount: math.ZeroInt()}, nil
	}
	return &types.QueryAmountResponse{Amount: paymentOrZero(status.Withdrawable)}, nil
}

func (q Querier) Admin(c context.Context, req *types.QueryOracleStatusRequest) (*types.QueryAdminResponse, error) {
	status, err := q.oracleStatus(sdk.UnwrapSDKContext(c), req.Oracle)
	if err != nil {
		return nil, err
	}
	res := &types.QueryAdminResponse{Admin: status.Admin.Admin.String()}
	if status.Admin.Pending() {
		res.PendingAdmin = status.Admin.Candidate.String()
	}
	return res, nil
}

func (q Querier) Requester(c context.Context, req *types.QueryRequesterRequest) (*types.QueryRequesterResponse, error) {
	addr, err := parseAddress("requester", req.Requester)
	if err != nil {
		return nil, err
	}
	r, found := q.GetRequester(sdk.UnwrapSDKContext(c), addr)
	if !found {
		return nil, types.ErrRequesterNotFound.Wrap(req.Requester)
	}
	return &types.QueryRequesterResponse{Requester: r}, nil
}

// Params returns the owner, the round params and the feed config
func (q Querier) Params(c context.Context, _ *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)
	return &types.QueryParamsResponse{
		Owner:      q.GetOwner(ctx).String(),
		Params:     q.GetParams(ctx),
		FeedConfig: q.GetFeedConfig(ctx),
	}, nil
}

func (q Querier) FeedConfig(c context.Context, _ *types.QueryFeedConfigRequest) (*types.QueryFeedConfigResponse, error) {
	return &types.QueryFeedConfigResponse{FeedConfig: q.GetFeedConfig(sdk.UnwrapSDKContext(c))}, nil
}

func (q Querier) Owner(c context.Context, _ *types.QueryOwnerRequest) (*types.QueryOwnerResponse, error) {
	return &types.QueryOwnerResponse{Owner: q.GetOwner(sdk.UnwrapSDKContext(c)).String()}, nil
}

func (q Querier) oracleStatus(ctx sdk.Context, addr string) (types.OracleStatus, error) {
	oracle, err := parseAddress("oracle", addr)
	if err != nil {
		return types.OracleStatus{}, err
	}
	status, found := q.GetOracleStatus(ctx, oracle)
	if !found {
		return types.OracleStatus{}, types.ErrOracleNotFound.Wrap(addr)
	}
	return status, nil
}
