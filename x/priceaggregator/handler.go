package priceaggregator

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	gurutypes "github.com/GPTx-global/guru-aggregator/types"
	"github.com/GPTx-global/guru-aggregator/x/priceaggregator/types"
)

// NewHandler creates a new handler for price aggregator messages.
func NewHandler(msgServer types.MsgServer) gurutypes.Handler {
	return gurutypes.Atomic(func(ctx sdk.Context, msg gurutypes.Msg) (*sdk.Result, error) {
		c := sdk.WrapSDKContext(ctx)

		switch msg := msg.(type) {
		case *types.MsgSubmitPrice:
			res, err := msgServer.SubmitPrice(c, msg)
			return gurutypes.WrapServiceResult(ctx, res, err)

		case *types.MsgSubmitPriceBatch:
			res, err := msgServer.SubmitPriceBatch(c, msg)
			return gurutypes.WrapServiceResult(ctx, res, err)

		case *types.MsgAddOracles:
			res, err := msgServer.AddOracles(c, msg)
			return gurutypes.WrapServiceResult(ctx, res, err)

		case *types.MsgRemoveOracles:
			res, err := msgServer.RemoveOracles(c, msg)
			return gurutypes.WrapServiceResult(ctx, res, err)

		case *types.MsgSetSubmissionCount:
			res, err := msgServer.SetSubmissionCount(c, msg)
			return gurutypes.WrapServiceResult(ctx, res, err)

		case *types.MsgPause:
			res, err := msgServer.Pause(c, msg)
			return gurutypes.WrapServiceResult(ctx, res, err)

		case *types.MsgUnpause:
			res, err := msgServer.Unpause(c, msg)
			return gurutypes.WrapServiceResult(ctx, res, err)

		case *types.MsgChangeOwner:
			res, err := msgServer.ChangeOwner(c, msg)
			return gurutypes.WrapServiceResult(ctx, res, err)

		default:
			err := errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "unrecognized %s message type: %T", types.ModuleName, msg)
			return nil, err
		}
	})
}
