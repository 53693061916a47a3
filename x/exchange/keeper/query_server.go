package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/GPTx-global/guru-aggregator/x/exchange/types"
)

// Querier serves the exchange read API.
type Querier struct {
	Keeper
}

var _ types.QueryServer = Querier{}

func NewQuerier(k Keeper) Querier {
	return Querier{Keeper: k}
}

func (q Querier) Reserve(c context.Context, req *types.QueryReserveRequest) (*types.QueryReserveResponse, error) {
	reserve, found := q.GetReserve(sdk.UnwrapSDKContext(c), req.Denom)
	if !found {
		return nil, errorsmod.Wrap(types.ErrUnsupportedDenom, req.Denom)
	}
	return &types.QueryReserveResponse{Amount: reserve}, nil
}

func (q Querier) Reserves(c context.Context, _ *types.QueryReservesRequest) (*types.QueryReservesResponse, error) {
	return &types.QueryReservesResponse{Reserves: q.GetReserves(sdk.UnwrapSDKContext(c))}, nil
}

func (q Querier) Pending(c context.Context, req *types.QueryPendingRequest) (*types.QueryPendingResponse, error) {
	pending, found := q.GetPendingRequest(sdk.UnwrapSDKContext(c), req.ID)
	if !found {
		return nil, errorsmod.Wrapf(types.ErrRequestNotFound, "request %d", req.ID)
	}
	return &types.QueryPendingResponse{Request: pending}, nil
}

func (q Querier) PendingRequests(c context.Context, _ *types.QueryPendingRequestsRequest) (*types.QueryPendingRequestsResponse, error) {
	return &types.QueryPendingRequestsResponse{Requests: q.GetPendingRequests(sdk.UnwrapSDKContext(c))}, nil
}

// PendingTotal returns the payments of denom waiting for an answer
func (q Querier) PendingTotal(c context.Context, req *types.QueryReserveRequest) (*types.QueryReserveResponse, error) {
	return &types.QueryReserveResponse{Amount: q.Keeper.PendingTotal(sdk.UnwrapSDKContext(c), req.Denom)}, nil
}

func (q Querier) Owner(c context.Context, _ *types.QueryOwnerRequest) (*types.QueryOwnerResponse, error) {
	return &types.QueryOwnerResponse{Owner: q.GetOwner(sdk.UnwrapSDKContext(c)).String()}, nil
}
