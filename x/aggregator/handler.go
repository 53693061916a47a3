package aggregator

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	gurutypes "github.com/GPTx-global/guru-aggregator/types"
	"github.com/GPTx-global/guru-aggregator/x/aggregator/types"
)

// NewHandler creates a new handler for aggregator messages. Every message
// runs on a cached store and leaves no trace when it fails.
func NewHandler(msgServer types.MsgServer) gurutypes.Handler {
	return gurutypes.Atomic(func(ctx sdk.Context, msg gurutypes.Msg) (*sdk.Result, error) {
		c := sdk.WrapSDKContext(ctx)

		switch msg := msg.(type) {
		case *types.MsgSubmit:
			res, err := msgServer.Submit(c, msg)
			return gurutypes.WrapServiceResult(ctx, res, err)

		case *types.MsgChangeOracles:
			res, err := msgServer.ChangeOracles(c, msg)
			return gurutypes.WrapServiceResult(ctx, res, err)

		case *types.MsgUpdateFutureRounds:
			res, err := msgServer.UpdateFutureRounds(c, msg)
			return gurutypes.WrapServiceResult(ctx, res, err)

		case *types.MsgRequestNewRound:
			res, err := msgServer.RequestNewRound(c, msg)
			return gurutypes.WrapServiceResult(ctx, res, err)

		case *types.MsgSetRequesterPermissions:
			res, err := msgServer.SetRequesterPermissions(c, msg)
			return gurutypes.WrapServiceResult(ctx, res, err)

		case *types.MsgTransferAdmin:
			res, err := msgServer.TransferAdmin(c, msg)
			return gurutypes.WrapServiceResult(ctx, res, err)

		case *types.MsgAcceptAdmin:
			res, err := msgServer.AcceptAdmin(c, msg)
			return gurutypes.WrapServiceResult(ctx, res, err)

		case *types.MsgWithdrawPayment:
			res, err := msgServer.WithdrawPayment(c, msg)
			return gurutypes.WrapServiceResult(ctx, res, err)

		case *types.MsgWithdrawFunds:
			res, err := msgServer.WithdrawFunds(c, msg)
			return gurutypes.WrapServiceResult(ctx, res, err)

		case *types.MsgDeposit:
			res, err := msgServer.Deposit(c, msg)
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
