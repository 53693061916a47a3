package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/GPTx-global/guru-aggregator/x/exchange/types"
)

// MsgServer implementation
var _ types.MsgServer = &Keeper{}

func parseAddress(field, addr string) (sdk.AccAddress, error) {
	acc, err := sdk.AccAddressFromBech32(addr)
	if err != nil {
		return nil, errorsmod.Wrapf(sdkerrors.ErrInvalidAddress, " %s address, %s", field, err)
	}
	return acc, nil
}

// Deposit defines a method for the owner to top up a reserve
func (k Keeper) Deposit(goCtx context.Context, msg *types.MsgDeposit) (*types.MsgDepositResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	owner, err := parseAddress("owner", msg.Owner)
	if err != nil {
		return nil, err
	}
	if err := k.DepositReserve(ctx, owner, msg.Amount); err != nil {
		return nil, err
	}
	return &types.MsgDepositResponse{}, nil
}

// Exchange defines a method for queueing an exchange request
func (k Keeper) Exchange(goCtx context.Context, msg *types.MsgExchange) (*types.MsgExchangeResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	sender, err := parseAddress("sender", msg.Sender)
	if err != nil {
		return nil, err
	}
	id, err := k.RequestExchange(ctx, sender, msg.Amount, msg.TargetDenom)
	if err != nil {
		return nil, err
	}
	return &types.MsgExchangeResponse{RequestID: id}, nil
}
