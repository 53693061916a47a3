package keeper

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/GPTx-global/guru-aggregator/x/aggregator/types"
)

// Bootstrap creates a new feed: config, round 0, the initial oracles and
// requesters, then the first round params. The owner check is skipped
// because the owner is being installed.
func (k Keeper) Bootstrap(ctx sdk.Context, gs types.GenesisState) error {
	owner, err := sdk.AccAddressFromBech32(gs.Owner)
	if err != nil {
		return errorsmod.Wrapf(types.ErrInvalidGenesis, "owner: %s", err)
	}
	k.SetOwner(ctx, owner)
	k.SetFeedConfig(ctx, gs.FeedConfig)
	k.SetParams(ctx, types.DefaultParams())
	k.SetFunds(ctx, types.ZeroFunds())

	updatedAt := uint64(1)
	if t := now(ctx); t > gs.Params.Timeout && t-gs.Params.Timeout > 1 {
		updatedAt = t - gs.Params.Timeout
	}
	k.SetRound(ctx, types.Round{
		RoundID:     0,
		UpdatedAt:   updatedAt,
		Decimals:    gs.FeedConfig.Decimals,
		Description: gs.FeedConfig.Description,
	})
	k.setReportingRoundID(ctx, 0)
	k.setLatestRoundID(ctx, 0)

	for _, o := range gs.Oracles {
		oracle, err := sdk.AccAddressFromBech32(o.Address)
		if err != nil {
			return errorsmod.Wrapf(types.ErrInvalidGenesis, "oracle %q: %s", o.Address, err)
		}
		admin, err := sdk.AccAddressFromBech32(o.Admin)
		if err != nil {
			return errorsmod.Wrapf(types.ErrInvalidGenesis, "admin of %s: %s", o.Address, err)
		}
		if err := k.addOracle(ctx, oracle, admin); err != nil {
			return err
		}
	}

	for _, r := range gs.Requesters {
		addr, err := sdk.AccAddressFromBech32(r.Address)
		if err != nil {
			return errorsmod.Wrapf(types.ErrInvalidGenesis, "requester %q: %s", r.Address, err)
		}
		k.SetRequester(ctx, addr, types.Requester{Authorized: true, Delay: r.Delay})
	}

	k.UpdateAvailableFunds(ctx)
	return k.updateFutureRounds(ctx, gs.Params)
}

// Restore writes an exported state back verbatim.
func (k Keeper) Restore(ctx sdk.Context, gs types.GenesisState) error {
	owner, err := sdk.AccAddressFromBech32(gs.Owner)
	if err != nil {
		return errorsmod.Wrapf(types.ErrInvalidGenesis, "owner: %s", err)
	}
	state := gs.State

	k.SetOwner(ctx, owner)
	k.SetFeedConfig(ctx, gs.FeedConfig)
	k.SetParams(ctx, gs.Params)
	k.SetFunds(ctx, state.Funds)
	k.setReportingRoundID(ctx, state.ReportingRoundID)
	k.setLatestRoundID(ctx, state.LatestRoundID)

	for _, round := range state.Rounds {
		k.SetRound(ctx, round)
	}
	for _, d := range state.Details {
		k.SetDetails(ctx, d.RoundID, d.Details)
	}
	for _, o := range state.Oracles {
		oracle, err := sdk.AccAddressFromBech32(o.Address)
		if err != nil {
			return errorsmod.Wrapf(types.ErrInvalidGenesis, "oracle %q: %s", o.Address, err)
		}
		k.SetOracleStatus(ctx, oracle, o.Status)
	}
	for _, r := range state.Requesters {
		addr, err := sdk.AccAddressFromBech32(r.Address)
		if err != nil {
			return errorsmod.Wrapf(types.ErrInvalidGenesis, "requester %q: %s", r.Address, err)
		}
		k.SetRequester(ctx, addr, r.Requester)
	}
	return nil
}

// Export dumps the full feed state.
func (k Keeper) Export(ctx sdk.Context) types.GenesisState {
	state := &types.ExportedState{
		ReportingRoundID: k.GetReportingRoundID(ctx),
		LatestRoundID:    k.GetLatestRoundID(ctx),
		Funds:            k.GetFunds(ctx),
	}

	k.IterateRounds(ctx, func(round types.Round) bool {
		state.Rounds = append(state.Rounds, round)
		return false
	})
	k.IterateDetails(ctx, func(roundID uint64, details types.RoundDetails) bool {
		state.Details = append(state.Details, types.ExportedDetails{RoundID: roundID, Details: details})
		return false
	})
	k.IterateOracles(ctx, func(oracle sdk.AccAddress, status types.OracleStatus) bool {
		state.Oracles = append(state.Oracles, types.ExportedOracle{Address: oracle.String(), Status: status})
		return false
	})
	k.IterateRequesters(ctx, func(addr sdk.AccAddress, r types.Requester) bool {
		state.Requesters = append(state.Requesters, types.ExportedRequester{Address: addr.String(), Requester: r})
		return false
	})

	gs := types.NewGenesisState(k.GetOwner(ctx).String(), k.GetFeedConfig(ctx), k.GetParams(ctx), nil)
	gs.State = state
	return gs
}
