package exchange

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	gurutypes "github.com/GPTx-global/guru-aggregator/types"
	"github.com/GPTx-global/guru-aggregator/x/exchange/types"
)

// NewHandler returns a handler for exchange messages.
func NewHandler(server types.MsgServer) gurutypes.Handler {
	return gurutypes.Atomic(func(ctx sdk.Context, msg gurutypes.Msg) (*sdk.Result, error) {
		c := sdk.WrapSDKContext(ctx)

		switch msg := msg.(type) {
		case *types.MsgDeposit:
			res, err := server.Deposit(c, msg)
			return gurutypes.WrapServiceResult(ctx, res, err)
		case *types.MsgExchange:
			res, err := server.Exchange(c, msg)
			return gurutypes.WrapServiceResult(ctx, res, err)
		default:
			err := errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "unrecognized %s message type: %T", types.ModuleName, msg)
			return nil, err
		}
	})
}
