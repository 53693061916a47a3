package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/GPTx-global/guru-aggregator/x/priceaggregator/types"
)

var _ types.MsgServer = &Keeper{}

func parseAddress(field, addr string) (sdk.AccAddress, error) {
	acc, err := sdk.AccAddressFromBech32(addr)
	if err != nil {
		return nil, errorsmod.Wrapf(sdkerrors.ErrInvalidAddress, " %s address, %s", field, err)
	}
	return acc, nil
}

func parseAddresses(field string, addrs []string) ([]sdk.AccAddress, error) {
	out := make([]sdk.AccAddress, len(addrs))
	for i, addr := range addrs {
		acc, err := parseAddress(field, addr)
		if err != nil {
			return nil, err
		}
		out[i] = acc
	}
	return out, nil
}

func (k Keeper) SubmitPrice(c context.Context, msg *types.MsgSubmitPrice) (*types.MsgSubmitPriceResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)
	oracle, err := parseAddress("oracle", msg.Oracle)
	if err != nil {
		return nil, err
	}

	res, err := k.Submit(ctx, oracle, msg.Submission)
	if err != nil {
		return nil, err
	}
	return &types.MsgSubmitPriceResponse{Accepted: res.Accepted, RoundID: res.RoundID}, nil
}

func (k Keeper) SubmitPriceBatch(c context.Context, msg *types.MsgSubmitPriceBatch) (*types.MsgSubmitPriceBatchResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)
	oracle, err := parseAddress("oracle", msg.Oracle)
	if err != nil {
		return nil, err
	}

	results, err := k.SubmitBatch(ctx, oracle, msg.Submissions)
	if err != nil {
		return nil, err
	}
	res := &types.MsgSubmitPriceBatchResponse{Results: make([]types.MsgSubmitPriceResponse, len(results))}
	for i, r := range results {
		res.Results[i] = types.MsgSubmitPriceResponse{Accepted: r.Accepted, RoundID: r.RoundID}
	}
	return res, nil
}

func (k Keeper) AddOracles(c context.Context, msg *types.MsgAddOracles) (*types.MsgAddOraclesResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)
	owner, err := parseAddress("owner", msg.Owner)
	if err != nil {
		return nil, err
	}
	oracles, err := parseAddresses("oracle", msg.Oracles)
	if err != nil {
		return nil, err
	}

	if err := k.AllowOracles(ctx, owner, oracles); err != nil {
		return nil, err
	}
	return &types.MsgAddOraclesResponse{}, nil
}

func (k Keeper) RemoveOracles(c context.Context, msg *types.MsgRemoveOracles) (*types.MsgRemoveOraclesResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)
	owner, err := parseAddress("owner", msg.Owner)
	if err != nil {
		return nil, err
	}
	oracles, err := parseAddresses("oracle", msg.Oracles)
	if err != nil {
		return nil, err
	}

	if err := k.DisallowOracles(ctx, owner, msg.SubmissionCount, oracles); err != nil {
		return nil, err
	}
	return &types.MsgRemoveOraclesResponse{}, nil
}

func (k Keeper) SetSubmissionCount(c context.Context, msg *types.MsgSetSubmissionCount) (*types.MsgSetSubmissionCountResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)
	owner, err := parseAddress("owner", msg.Owner)
	if err != nil {
		return nil, err
	}

	if err := k.UpdateSubmissionCount(ctx, owner, msg.SubmissionCount); err != nil {
		return nil, err
	}
	return &types.MsgSetSubmissionCountResponse{}, nil
}

func (k Keeper) Pause(c context.Context, msg *types.MsgPause) (*types.MsgPauseResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)
	owner, err := parseAddress("owner", msg.Owner)
	if err != nil {
		return nil, err
	}

	if err := k.SetPaused(ctx, owner, true); err != nil {
		return nil, err
	}
	return &types.MsgPauseResponse{}, nil
}

func (k Keeper) Unpause(c context.Context, msg *types.MsgUnpause) (*types.MsgUnpauseResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)
	owner, err := parseAddress("owner", msg.Owner)
	if err != nil {
		return nil, err
	}

	if err := k.SetPaused(ctx, owner, false); err != nil {
		return nil, err
	}
	return &types.MsgUnpauseResponse{}, nil
}

func (k Keeper) ChangeOwner(c context.Context, msg *types.MsgChangeOwner) (*types.MsgChangeOwnerResponse, error) {
	ctx := sdk.UnwrapSDKContext(c)
	owner, err := parseAddress("owner", msg.Owner)
	if err != nil {
		return nil, err
	}
	newOwner, err := parseAddress("new owner", msg.NewOwner)
	if err != nil {
		return nil, err
	}

	if err := k.TransferOwnership(ctx, owner, newOwner); err != nil {
		return nil, err
	}
	return &types.MsgChangeOwnerResponse{}, nil
}
