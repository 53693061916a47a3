package keeper

import (
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/GPTx-global/guru-aggregator/x/aggregator/types"
)

// RequiredReserve is the available balance needed to pay every enabled oracle
// for types.ReserveRounds rounds at payment.
func (k Keeper) RequiredReserve(ctx sdk.Context, payment math.Int) math.Int {
	return types.RequiredReserve(payment, k.OracleCount(ctx))
}

// SetFutureRounds sets the params of future rounds on behalf of the owner.
func (k Keeper) SetFutureRounds(ctx sdk.Context, caller sdk.AccAddress, params types.Params) error {
	if err := k.checkOwner(ctx, caller); err != nil {
		return err
	}
	return k.updateFutureRounds(ctx, params)
}

// updateFutureRounds validates params against the registry and the ledger.
// Genesis is the only caller that skips the owner check.
func (k Keeper) updateFutureRounds(ctx sdk.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}

	count := k.OracleCount(ctx)
	if count < uint64(params.MaxSubmissionCount) {
		return errorsmod.Wrapf(types.ErrMaxExceedsTotal, "max %d, oracles %d", params.MaxSubmissionCount, count)
	}
	if count != 0 && count <= uint64(params.RestartDelay) {
		return errorsmod.Wrapf(types.ErrDelayExceedsTotal, "delay %d, oracles %d", params.RestartDelay, count)
	}
	reserve := types.RequiredReserve(params.PaymentAmount, count)
	if available := k.AvailableFunds(ctx); available.LT(reserve) {
		return errorsmod.Wrapf(types.ErrInsufficientFundsForPayment, "available %s, required %s", available, reserve)
	}
	if count > 0 && params.MinSubmissionCount == 0 {
		return types.ErrMinSubmissionsZero
	}

	k.SetParams(ctx, params)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRoundDetailsUpdated,
			sdk.NewAttribute(types.AttributeKeyPaymentAmount, params.PaymentAmount.String()),
			sdk.NewAttribute(types.AttributeKeyMinSubmissions, strconv.FormatUint(uint64(params.MinSubmissionCount), 10)),
			sdk.NewAttribute(types.AttributeKeyMaxSubmissions, strconv.FormatUint(uint64(params.MaxSubmissionCount), 10)),
			sdk.NewAttribute(types.AttributeKeyRestartDelay, strconv.FormatUint(uint64(params.RestartDelay), 10)),
			sdk.NewAttribute(types.AttributeKeyTimeout, strconv.FormatUint(params.Timeout, 10)),
		),
	)
	return nil
}

// payOracle moves the round's payment from available to allocated and
// credits it to the oracle.
func (k Keeper) payOracle(ctx sdk.Context, roundID uint64, oracle sdk.AccAddress) error {
	details, found := k.GetDetails(ctx, roundID)
	if !found {
		return errorsmod.Wrapf(types.ErrDetailsNotFound, "round %d", roundID)
	}
	payment := paymentOrZero(details.PaymentAmount)

	funds := k.GetFunds(ctx)
	if funds.Available.LT(payment) {
		return errorsmod.Wrapf(types.ErrInsufficientAvailable, "available %s, payment %s", funds.Available, payment)
	}
	funds.Available = funds.Available.Sub(payment)
	funds.Allocated = funds.Allocated.Add(payment)
	k.SetFunds(ctx, funds)

	status, _ := k.GetOracleStatus(ctx, oracle)
	status.Withdrawable = paymentOrZero(status.Withdrawable).Add(payment)
	k.SetOracleStatus(ctx, oracle, status)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAvailableFundsUpdated,
			sdk.NewAttribute(types.AttributeKeyAmount, funds.Available.String()),
		),
	)
	return nil
}

// UpdateAvailableFunds recomputes available from the module balance.
func (k Keeper) UpdateAvailableFunds(ctx sdk.Context) {
	funds := k.GetFunds(ctx)
	balance := k.bankKeeper.GetBalance(ctx, k.moduleAddr, k.GetFeedConfig(ctx).Denom).Amount

	available := balance.Sub(funds.Allocated)
	if available.IsNegative() {
		k.Logger(ctx).Error("module balance below allocated funds", "balance", balance.String(), "allocated", funds.Allocated.String())
		available = math.ZeroInt()
	}
	if available.Equal(funds.Available) {
		return
	}

	funds.Available = available
	k.SetFunds(ctx, funds)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAvailableFundsUpdated,
			sdk.NewAttribute(types.AttributeKeyAmount, available.String()),
		),
	)
}

// DepositFunds funds oracle payments from depositor.
func (k Keeper) DepositFunds(ctx sdk.Context, depositor sdk.AccAddress, amount math.Int) error {
	coins := sdk.NewCoins(sdk.NewCoin(k.GetFeedConfig(ctx).Denom, amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, depositor, types.ModuleName, coins); err != nil {
		return err
	}
	k.UpdateAvailableFunds(ctx)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFundsDeposited,
			sdk.NewAttribute(types.AttributeKeySender, depositor.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, coins.String()),
		),
	)
	return nil
}

// WithdrawOwnerFunds sends unreserved funds to recipient on behalf of the owner.
func (k Keeper) WithdrawOwnerFunds(ctx sdk.Context, caller, recipient sdk.AccAddress, amount math.Int) error {
	if err := k.checkOwner(ctx, caller); err != nil {
		return err
	}

	available := k.AvailableFunds(ctx)
	reserve := k.RequiredReserve(ctx, k.GetParams(ctx).PaymentAmount)
	if available.Sub(reserve).LT(amount) {
		return errorsmod.Wrapf(types.ErrInsufficientReserveFunds, "available %s, reserve %s, requested %s", available, reserve, amount)
	}

	coins := sdk.NewCoins(sdk.NewCoin(k.GetFeedConfig(ctx).Denom, amount))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, recipient, coins); err != nil {
		return err
	}
	k.UpdateAvailableFunds(ctx)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFundsWithdrawn,
			sdk.NewAttribute(types.AttributeKeyRecipient, recipient.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, coins.String()),
		),
	)
	return nil
}

// WithdrawOraclePayment sends rewards accrued by oracle to recipient. Only the
// oracle's admin may call it.
func (k Keeper) WithdrawOraclePayment(ctx sdk.Context, caller, oracle, recipient sdk.AccAddress, amount math.Int) error {
	status, found := k.GetOracleStatus(ctx, oracle)
	if !found {
		return errorsmod.Wrap(types.ErrOracleNotFound, oracle.String())
	}
	if !status.Admin.Admin.Equals(caller) {
		return errorsmod.Wrapf(types.ErrNotAdmin, ", expected: %s, got: %s", status.Admin.Admin, caller)
	}
	if status.Withdrawable.LT(amount) {
		return errorsmod.Wrapf(types.ErrInsufficientWithdrawable, "withdrawable %s, requested %s", status.Withdrawable, amount)
	}

	status.Withdrawable = status.Withdrawable.Sub(amount)
	k.SetOracleStatus(ctx, oracle, status)

	funds := k.GetFunds(ctx)
	funds.Allocated = funds.Allocated.Sub(amount)
	k.SetFunds(ctx, funds)

	coins := sdk.NewCoins(sdk.NewCoin(k.GetFeedConfig(ctx).Denom, amount))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, recipient, coins); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePaymentWithdrawn,
			sdk.NewAttribute(types.AttributeKeyOracle, oracle.String()),
			sdk.NewAttribute(types.AttributeKeyRecipient, recipient.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, coins.String()),
		),
	)
	return nil
}
