package tokens

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	gurutypes "github.com/GPTx-global/guru-aggregator/types"
	"github.com/GPTx-global/guru-aggregator/x/tokens/keeper"
	"github.com/GPTx-global/guru-aggregator/x/tokens/types"
)

// NewHandler creates a new handler for tokens messages
func NewHandler(k keeper.Keeper) gurutypes.Handler {
	return gurutypes.Atomic(func(ctx sdk.Context, msg gurutypes.Msg) (*sdk.Result, error) {
		switch msg := msg.(type) {
		case *types.MsgSend:
			res, err := k.Send(sdk.WrapSDKContext(ctx), msg)
			return gurutypes.WrapServiceResult(ctx, res, err)

		default:
			err := errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "unrecognized %s message type: %T", types.ModuleName, msg)
			return nil, err
		}
	})
}
