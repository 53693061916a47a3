package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// QueryServer is the exchange read API
type QueryServer interface {
	Reserve(context.Context, *QueryReserveRequest) (*QueryReserveResponse, error)
	Reserves(context.Context, *QueryReservesRequest) (*QueryReservesResponse, error)
	Pending(context.Context, *QueryPendingRequest) (*QueryPendingResponse, error)
	PendingRequests(context.Context, *QueryPendingRequestsRequest) (*QueryPendingRequestsResponse, error)
	PendingTotal(context.Context, *QueryReserveRequest) (*QueryReserveResponse, error)
	Owner(context.Context, *QueryOwnerRequest) (*QueryOwnerResponse, error)
}

type QueryReserveRequest struct {
	Denom string `json:"denom"`
}

type QueryReserveResponse struct {
	Amount sdk.Coin `json:"amount"`
}

type QueryReservesRequest struct{}

type QueryReservesResponse struct {
	Reserves sdk.Coins `json:"reserves"`
}

type QueryPendingRequest struct {
	ID uint64 `json:"id"`
}

type QueryPendingResponse struct {
	Request PendingRequest `json:"request"`
}

type QueryPendingRequestsRequest struct{}

type QueryPendingRequestsResponse struct {
	Requests []PendingRequest `json:"requests"`
}

type QueryOwnerRequest struct{}

type QueryOwnerResponse struct {
	Owner string `json:"owner"`
}
