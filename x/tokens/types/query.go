package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// QueryServer is the tokens read API
type QueryServer interface {
	Balance(context.Context, *QueryBalanceRequest) (*QueryBalanceResponse, error)
	AllBalances(context.Context, *QueryAllBalancesRequest) (*QueryAllBalancesResponse, error)
	Supply(context.Context, *QuerySupplyRequest) (*QueryBalanceResponse, error)
}

type QueryBalanceRequest struct {
	Address string `json:"address"`
	Denom   string `json:"denom"`
}

type QueryBalanceResponse struct {
	Balance sdk.Coin `json:"balance"`
}

type QueryAllBalancesRequest struct {
	Address string `json:"address"`
}

type QueryAllBalancesResponse struct {
	Balances sdk.Coins `json:"balances"`
}

type QuerySupplyRequest struct {
	Denom string `json:"denom"`
}
