package keeper

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/GPTx-global/guru-aggregator/x/aggregator/types"
)

func (k Keeper) checkOwner(ctx sdk.Context, caller sdk.AccAddress) error {
	owner := k.GetOwner(ctx)
	if !owner.Equals(caller) {
		return errorsmod.Wrapf(types.ErrNotOwner, ", expected: %s, got: %s", owner, caller)
	}
	return nil
}

// TransferOwnership hands the feed to newOwner.
func (k Keeper) TransferOwnership(ctx sdk.Context, caller, newOwner sdk.AccAddress) error {
	if err := k.checkOwner(ctx, caller); err != nil {
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

// UpdateOracles removes and adds oracles and then reapplies the round params
// against the new registry, so the reserve check covers the added oracles.
func (k Keeper) UpdateOracles(
	ctx sdk.Context,
	caller sdk.AccAddress,
	removed, added, addedAdmins []sdk.AccAddress,
	minSubmissions, maxSubmissions, restartDelay uint32,
) error {
	if err := k.checkOwner(ctx, caller); err != nil {
		return err
	}

	for _, oracle := range removed {
		if err := k.removeOracle(ctx, oracle); err != nil {
			return err
		}
	}

	if len(added) != len(addedAdmins) {
		return errorsmod.Wrapf(types.ErrAdminsLengthMismatch, "oracles: %d, admins: %d", len(added), len(addedAdmins))
	}
	if count := k.OracleCount(ctx) + uint64(len(added)); count > types.MaxOracleCount {
		return errorsmod.Wrapf(types.ErrTooManyOracles, "%d > %d", count, types.MaxOracleCount)
	}
	for i, oracle := range added {
		if err := k.addOracle(ctx, oracle, addedAdmins[i]); err != nil {
			return err
		}
	}

	params := k.GetParams(ctx)
	params.MinSubmissionCount = minSubmissions
	params.MaxSubmissionCount = maxSubmissions
	params.RestartDelay = restartDelay
	return k.updateFutureRounds(ctx, params)
}

func (k Keeper) addOracle(ctx sdk.Context, oracle, admin sdk.AccAddress) error {
	status, found := k.GetOracleStatus(ctx, oracle)
	if found && status.Enabled() {
		return errorsmod.Wrap(types.ErrOracleAlreadyEnabled, oracle.String())
	}
	if admin.Empty() {
		return errorsmod.Wrap(types.ErrNotAdmin, "admin cannot be empty")
	}
	if found && !status.Admin.Admin.Empty() && !status.Admin.Admin.Equals(admin) {
		return errorsmod.Wrapf(types.ErrOwnerCannotOverwriteAdmin, "oracle %s has admin %s", oracle, status.Admin.Admin)
	}
	if !found {
		status.Withdrawable = math.ZeroInt()
	}

	status.StartingRound = k.getStartingRound(ctx, status)
	status.EndingRound = types.RoundMax
	status.Admin.Admin = admin
	k.SetOracleStatus(ctx, oracle, status)

	ctx.EventManager().EmitEvents(sdk.Events{
		sdk.NewEvent(
			types.EventTypeOraclePermissionsUpdated,
			sdk.NewAttribute(types.AttributeKeyOracle, oracle.String()),
			sdk.NewAttribute(types.AttributeKeyWhitelisted, "true"),
		),
		sdk.NewEvent(
			types.EventTypeOracleAdminUpdated,
			sdk.NewAttribute(types.AttributeKeyOracle, oracle.String()),
			sdk.NewAttribute(types.AttributeKeyNewAdmin, admin.String()),
		),
	})
	return nil
}

// removeOracle disables oracle after the current round. The status record
// stays so its admin can still withdraw accrued payments.
func (k Keeper) removeOracle(ctx sdk.Context, oracle sdk.AccAddress) error {
	status, found := k.GetOracleStatus(ctx, oracle)
	if !found || !status.Enabled() {
		return errorsmod.Wrap(types.ErrNotEnabledOracle, oracle.String())
	}

	status.EndingRound = k.GetReportingRoundID(ctx)
	k.SetOracleStatus(ctx, oracle, status)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOraclePermissionsUpdated,
			sdk.NewAttribute(types.AttributeKeyOracle, oracle.String()),
			sdk.NewAttribute(types.AttributeKeyWhitelisted, "false"),
		),
	)
	return nil
}

// getStartingRound lets an oracle removed and re-added within the same round
// keep reporting on it.
func (k Keeper) getStartingRound(ctx sdk.Context, status types.OracleStatus) uint64 {
	current := k.GetReportingRoundID(ctx)
	if current != 0 && current == status.EndingRound {
		return current
	}
	return current + 1
}

// IsEnabled reports whether oracle is in the active set.
func (k Keeper) IsEnabled(ctx sdk.Context, oracle sdk.AccAddress) bool {
	status, found := k.GetOracleStatus(ctx, oracle)
	return found && status.Enabled()
}

// ProposeAdmin proposes newAdmin as admin of oracle.
func (k Keeper) ProposeAdmin(ctx sdk.Context, caller, oracle, newAdmin sdk.AccAddress) error {
	status, found := k.GetOracleStatus(ctx, oracle)
	if !found {
		return errorsmod.Wrap(types.ErrOracleNotFound, oracle.String())
	}

	admin, err := status.Admin.Propose(caller, newAdmin)
	if err != nil {
		return err
	}
	status.Admin = admin
	k.SetOracleStatus(ctx, oracle, status)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOracleAdminUpdateRequested,
			sdk.NewAttribute(types.AttributeKeyOracle, oracle.String()),
			sdk.NewAttribute(types.AttributeKeyAdmin, caller.String()),
			sdk.NewAttribute(types.AttributeKeyNewAdmin, newAdmin.String()),
		),
	)
	return nil
}

// ClaimAdmin completes a pending admin transfer of oracle.
func (k Keeper) ClaimAdmin(ctx sdk.Context, caller, oracle sdk.AccAddress) error {
	status, found := k.GetOracleStatus(ctx, oracle)
	if !found {
		return errorsmod.Wrap(types.ErrOracleNotFound, oracle.String())
	}

	admin, err := status.Admin.Accept(caller)
	if err != nil {
		return err
	}
	status.Admin = admin
	k.SetOracleStatus(ctx, oracle, status)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOracleAdminUpdated,
			sdk.NewAttribute(types.AttributeKeyOracle, oracle.String()),
			sdk.NewAttribute(types.AttributeKeyNewAdmin, caller.String()),
		),
	)
	return nil
}
