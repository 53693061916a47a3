package keeper

import (
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/GPTx-global/guru-aggregator/x/aggregator/types"
)

// SetRequesterAccess authorizes requester with delay, or removes it.
func (k Keeper) SetRequesterAccess(ctx sdk.Context, caller, requester sdk.AccAddress, authorized bool, delay uint64) error {
	if err := k.checkOwner(ctx, caller); err != nil {
		return err
	}

	existing, found := k.GetRequester(ctx, requester)
	if authorized {
		if found && existing.Authorized && existing.Delay == delay {
			return nil
		}
		existing.Authorized = true
		existing.Delay = delay
		k.SetRequester(ctx, requester, existing)
	} else {
		if !found {
			return nil
		}
		k.DeleteRequester(ctx, requester)
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRequesterPermissionsSet,
			sdk.NewAttribute(types.AttributeKeyRequester, requester.String()),
			sdk.NewAttribute(types.AttributeKeyAuthorized, strconv.FormatBool(authorized)),
			sdk.NewAttribute(types.AttributeKeyDelay, strconv.FormatUint(delay, 10)),
		),
	)
	return nil
}

// RequestRound opens the next round for an authorized requester and
// returns its id.
func (k Keeper) RequestRound(ctx sdk.Context, requester sdk.AccAddress) (uint64, error) {
	r, found := k.GetRequester(ctx, requester)
	if !found || !r.Authorized {
		return 0, errorsmod.Wrap(types.ErrNotAuthorizedRequester, requester.String())
	}

	current := k.GetReportingRoundID(ctx)
	if !k.supersedable(ctx, current) {
		return 0, errorsmod.Wrapf(types.ErrPrevRoundNotSupersedable, "round %d", current)
	}

	roundID := current + 1
	if err := k.requesterInitializeNewRound(ctx, requester, roundID); err != nil {
		return 0, err
	}
	return roundID, nil
}

func (k Keeper) requesterInitializeNewRound(ctx sdk.Context, requester sdk.AccAddress, roundID uint64) error {
	if !k.newRoundGuard(ctx, roundID) {
		return nil
	}

	r, _ := k.GetRequester(ctx, requester)
	if r.LastStartedRound != 0 && (roundID <= r.LastStartedRound || roundID-r.LastStartedRound <= r.Delay) {
		return errorsmod.Wrapf(types.ErrMustDelayRequests, "last started %d, delay %d", r.LastStartedRound, r.Delay)
	}

	k.initializeNewRound(ctx, roundID, requester)

	r.LastStartedRound = roundID
	k.SetRequester(ctx, requester, r)
	return nil
}
