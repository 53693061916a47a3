package keeper

import (
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	"github.com/armon/go-metrics"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"

	aggtypes "github.com/GPTx-global/guru-aggregator/x/aggregator/types"
	"github.com/GPTx-global/guru-aggregator/x/exchange/types"
)

// DepositReserve moves coin from the owner into the exchange and adds it to
// the reserve. A first deposit of a denom makes it exchangeable.
func (k Keeper) DepositReserve(ctx sdk.Context, caller sdk.AccAddress, coin sdk.Coin) error {
	if !caller.Equals(k.GetOwner(ctx)) {
		return errorsmod.Wrapf(types.ErrNotOwner, "%s", caller)
	}
	if !coin.IsPositive() {
		return errorsmod.Wrapf(types.ErrInvalidAmount, "%s", coin)
	}

	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, caller, types.ModuleName, sdk.NewCoins(coin)); err != nil {
		return err
	}
	reserve, _ := k.GetReserve(ctx, coin.Denom)
	k.SetReserve(ctx, reserve.Add(coin))

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDeposit,
			sdk.NewAttribute(types.AttributeKeyAddress, caller.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, coin.String()),
		),
	)
	return nil
}

// RequestExchange takes payment from sender and queues a request that is
// settled against the next feed answer. The payment is counted in the source
// reserve until then.
func (k Keeper) RequestExchange(ctx sdk.Context, sender sdk.AccAddress, payment sdk.Coin, targetDenom string) (uint64, error) {
	if !payment.IsPositive() {
		return 0, errorsmod.Wrapf(types.ErrInvalidAmount, "%s", payment)
	}
	source, found := k.GetReserve(ctx, payment.Denom)
	if !found {
		return 0, errorsmod.Wrap(types.ErrUnsupportedDenom, payment.Denom)
	}
	if _, found := k.GetReserve(ctx, targetDenom); !found {
		return 0, errorsmod.Wrap(types.ErrUnsupportedDenom, targetDenom)
	}
	if payment.Denom == targetDenom {
		return 0, errorsmod.Wrapf(types.ErrUnsupportedPair, "%s to %s", payment.Denom, targetDenom)
	}

	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, sender, types.ModuleName, sdk.NewCoins(payment)); err != nil {
		return 0, err
	}
	k.SetReserve(ctx, source.Add(payment))

	id := k.GetNextRequestID(ctx)
	k.setNextRequestID(ctx, id+1)
	k.setPendingRequest(ctx, types.PendingRequest{
		ID:          id,
		Sender:      sender.String(),
		Payment:     payment,
		TargetDenom: targetDenom,
	})

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeExchangeRequested,
			sdk.NewAttribute(types.AttributeKeyRequestID, strconv.FormatUint(id, 10)),
			sdk.NewAttribute(types.AttributeKeyAddress, sender.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, payment.String()),
			sdk.NewAttribute(types.AttributeKeyTarget, targetDenom),
		),
	)
	return id, nil
}

// FinalizeExchange settles request id with the feed answer. fetchErr is the
// error returned when the answer was read. Any settlement failure refunds the
// payment; the returned error is reserved for refunds that cannot be paid,
// in which case the caller must discard the writes.
func (k Keeper) FinalizeExchange(ctx sdk.Context, id uint64, round aggtypes.Round, fetchErr error) error {
	req, found := k.GetPendingRequest(ctx, id)
	if !found {
		return errorsmod.Wrapf(types.ErrRequestNotFound, "request %d", id)
	}
	sender, err := sdk.AccAddressFromBech32(req.Sender)
	if err != nil {
		return err
	}

	if fetchErr != nil {
		fetchErr = errorsmod.Wrap(types.ErrPriceFeed, fetchErr.Error())
		return k.refund(ctx, req, sender, fetchErr)
	}

	converted, err := k.settle(ctx, req, round)
	if err != nil {
		return k.refund(ctx, req, sender, err)
	}
	if converted.IsPositive() {
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, sender, sdk.NewCoins(converted)); err != nil {
			return err
		}
	}
	k.deletePendingRequest(ctx, id)

	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "completed"},
		1,
		[]metrics.Label{telemetry.NewLabel("source", req.Payment.Denom), telemetry.NewLabel("target", req.TargetDenom)},
	)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeExchangeCompleted,
			sdk.NewAttribute(types.AttributeKeyRequestID, strconv.FormatUint(id, 10)),
			sdk.NewAttribute(types.AttributeKeyAddress, req.Sender),
			sdk.NewAttribute(types.AttributeKeyAmount, req.Payment.String()),
			sdk.NewAttribute(types.AttributeKeyConverted, converted.String()),
			sdk.NewAttribute(types.AttributeKeyRoundID, strconv.FormatUint(round.RoundID, 10)),
		),
	)
	return nil
}

// settle converts the payment and debits the target reserve.
func (k Keeper) settle(ctx sdk.Context, req types.PendingRequest, round aggtypes.Round) (sdk.Coin, error) {
	if round.Answer == nil {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrNoRoundData, "round %d", round.RoundID)
	}
	if len(round.Answer.Values) == 0 {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrInvalidAnswerFormat, "round %d has no values", round.RoundID)
	}

	inverse, err := types.Direction(round.Description, req.Payment.Denom, req.TargetDenom)
	if err != nil {
		return sdk.Coin{}, err
	}
	amount, err := types.Convert(req.Payment.Amount, round.Answer.Values[0], round.Decimals, inverse)
	if err != nil {
		return sdk.Coin{}, err
	}

	target, found := k.GetReserve(ctx, req.TargetDenom)
	if !found {
		return sdk.Coin{}, errorsmod.Wrap(types.ErrUnsupportedDenom, req.TargetDenom)
	}
	if target.Amount.LT(amount) {
		return sdk.Coin{}, errorsmod.Wrapf(types.ErrInsufficientReserve, "reserve %s, needed %s", target, amount)
	}
	k.SetReserve(ctx, sdk.NewCoin(req.TargetDenom, target.Amount.Sub(amount)))
	return sdk.NewCoin(req.TargetDenom, amount), nil
}

// refund reverts the provisional source reserve and returns the payment.
func (k Keeper) refund(ctx sdk.Context, req types.PendingRequest, sender sdk.AccAddress, reason error) error {
	source, _ := k.GetReserve(ctx, req.Payment.Denom)
	remaining := source.Amount.Sub(req.Payment.Amount)
	if remaining.IsNegative() {
		remaining = math.ZeroInt()
	}
	k.SetReserve(ctx, sdk.NewCoin(req.Payment.Denom, remaining))

	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, sender, sdk.NewCoins(req.Payment)); err != nil {
		return err
	}
	k.deletePendingRequest(ctx, req.ID)

	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "refunded"},
		1,
		[]metrics.Label{telemetry.NewLabel("source", req.Payment.Denom), telemetry.NewLabel("target", req.TargetDenom)},
	)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeExchangeRefunded,
			sdk.NewAttribute(types.AttributeKeyRequestID, strconv.FormatUint(req.ID, 10)),
			sdk.NewAttribute(types.AttributeKeyAddress, req.Sender),
			sdk.NewAttribute(types.AttributeKeyAmount, req.Payment.String()),
			sdk.NewAttribute(types.AttributeKeyReason, reason.Error()),
		),
	)
	return nil
}
