package keeper

import (
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/GPTx-global/guru-aggregator/x/priceaggregator/types"
)

func (k Keeper) requireOwner(ctx sdk.Context, caller sdk.AccAddress) error {
	if owner := k.GetOwner(ctx); !owner.Equals(caller) {
		return errorsmod.Wrapf(types.ErrNotOwner, "expected: %s, got: %s", owner, caller)
	}
	return nil
}

func addressList(addrs []sdk.AccAddress) string {
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = a.String()
	}
	return strings.Join(out, ",")
}

// AllowOracles adds oracles. Known oracles keep their counters.
func (k Keeper) AllowOracles(ctx sdk.Context, caller sdk.AccAddress, oracles []sdk.AccAddress) error {
	if err := k.requireOwner(ctx, caller); err != nil {
		return err
	}

	var added []sdk.AccAddress
	for _, oracle := range oracles {
		if k.IsOracle(ctx, oracle) {
			continue
		}
		k.setOracleStatus(ctx, oracle, types.OracleStatus{})
		added = append(added, oracle)
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOraclesAdded,
			sdk.NewAttribute(types.AttributeKeyOracle, addressList(added)),
		),
	)
	return nil
}

// DisallowOracles removes oracles and sets a submission count the remaining
// oracles can reach.
func (k Keeper) DisallowOracles(ctx sdk.Context, caller sdk.AccAddress, submissionCount uint32, oracles []sdk.AccAddress) error {
	if err := k.requireOwner(ctx, caller); err != nil {
		return err
	}

	for _, oracle := range oracles {
		if !k.IsOracle(ctx, oracle) {
			return errorsmod.Wrapf(types.ErrOracleNotFound, "%s", oracle)
		}
		k.deleteOracle(ctx, oracle)
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOraclesRemoved,
			sdk.NewAttribute(types.AttributeKeyOracle, addressList(oracles)),
		),
	)
	return k.setSubmissionCount(ctx, submissionCount)
}

// UpdateSubmissionCount sets how many submissions complete a round.
func (k Keeper) UpdateSubmissionCount(ctx sdk.Context, caller sdk.AccAddress, submissionCount uint32) error {
	if err := k.requireOwner(ctx, caller); err != nil {
		return err
	}
	return k.setSubmissionCount(ctx, submissionCount)
}

func (k Keeper) setSubmissionCount(ctx sdk.Context, submissionCount uint32) error {
	count := k.OracleCount(ctx)
	if submissionCount == 0 || submissionCount > count || submissionCount > types.SubmissionListMaxLen {
		return errorsmod.Wrapf(types.ErrInvalidSubmissionCount, "%d with %d oracles", submissionCount, count)
	}

	params := k.GetParams(ctx)
	params.SubmissionCount = submissionCount
	k.SetParams(ctx, params)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeParamsUpdated,
			sdk.NewAttribute(types.AttributeKeySubmissionCount, strconv.FormatUint(uint64(submissionCount), 10)),
		),
	)
	return nil
}

// SetPaused pauses or resumes submissions.
func (k Keeper) SetPaused(ctx sdk.Context, caller sdk.AccAddress, paused bool) error {
	if err := k.requireOwner(ctx, caller); err != nil {
		return err
	}

	params := k.GetParams(ctx)
	params.Paused = paused
	k.SetParams(ctx, params)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeParamsUpdated,
			sdk.NewAttribute(types.AttributeKeyPaused, strconv.FormatBool(paused)),
		),
	)
	return nil
}

// TransferOwnership hands the module to newOwner.
func (k Keeper) TransferOwnership(ctx sdk.Context, caller, newOwner sdk.AccAddress) error {
	if err := k.requireOwner(ctx, caller); err != nil {
		return err
	}
	k.SetOwner(ctx, newOwner)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOwnerChanged,
			sdk.NewAttribute(types.AttributeKeyOwner, newOwner.String()),
		),
	)
	return nil
}
