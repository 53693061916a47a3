package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/GPTx-global/guru-aggregator/x/tokens/types"
)

// QueryServer implementation
var _ types.QueryServer = Keeper{}

func (k Keeper) Balance(c context.Context, req *types.QueryBalanceRequest) (*types.QueryBalanceResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)
	addr, err := sdk.AccAddressFromBech32(req.Address)
	if err != nil {
		return nil, errorsmod.Wrap(sdkerrors.ErrInvalidAddress, err.Error())
	}
	if err := sdk.ValidateDenom(req.Denom); err != nil {
		return nil, errorsmod.Wrap(sdkerrors.ErrInvalidCoins, err.Error())
	}
	return &types.QueryBalanceResponse{Balance: k.GetBalance(ctx, addr, req.Denom)}, nil
}

func (k Keeper) AllBalances(c context.Context, req *types.QueryAllBalancesRequest) (*types.QueryAllBalancesResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)
	addr, err := sdk.AccAddressFromBech32(req.Address)
	if err != nil {
		return nil, errorsmod.Wrap(sdkerrors.ErrInvalidAddress, err.Error())
	}
	return &types.QueryAllBalancesResponse{Balances: k.GetAllBalances(ctx, addr)}, nil
}

func (k Keeper) Supply(c context.Context, req *types.QuerySupplyRequest) (*types.QueryBalanceResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)
	if err := sdk.ValidateDenom(req.Denom); err != nil {
		return nil, errorsmod.Wrap(sdkerrors.ErrInvalidCoins, err.Error())
	}
	return &types.QueryBalanceResponse{Balance: k.GetSupply(ctx, req.Denom)}, nil
}
