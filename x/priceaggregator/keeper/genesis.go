package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/GPTx-global/guru-aggregator/x/priceaggregator/types"
)

// InitState writes a validated genesis state.
func (k Keeper) InitState(ctx sdk.Context, gs types.GenesisState) {
	k.SetOwner(ctx, sdk.MustAccAddressFromBech32(gs.Owner))
	k.SetParams(ctx, gs.Params)

	for _, o := range gs.Oracles {
		k.setOracleStatus(ctx, sdk.MustAccAddressFromBech32(o.Address), o.Status)
	}

	for _, p := range gs.Pairs {
		pair := types.NewTokenPair(p.From, p.To)
		for _, round := range p.Rounds {
			k.appendRound(ctx, pair, round)
		}
		if len(p.Submissions) == 0 {
			continue
		}
		for _, s := range p.Submissions {
			k.setSubmission(ctx, pair, sdk.MustAccAddressFromBech32(s.Oracle), s.Price)
		}
		k.setWindow(ctx, pair, p.Window)
	}
}

// ExportState dumps the full module state.
func (k Keeper) ExportState(ctx sdk.Context) types.GenesisState {
	gs := types.GenesisState{
		Owner:  k.GetOwner(ctx).String(),
		Params: k.GetParams(ctx),
	}

	k.IterateOracles(ctx, func(oracle sdk.AccAddress, status types.OracleStatus) bool {
		gs.Oracles = append(gs.Oracles, types.GenesisOracle{Address: oracle.String(), Status: status})
		return false
	})

	pairs := make(map[types.TokenPair]int)
	entry := func(pair types.TokenPair) *types.GenesisPair {
		i, ok := pairs[pair]
		if !ok {
			i = len(gs.Pairs)
			pairs[pair] = i
			gs.Pairs = append(gs.Pairs, types.GenesisPair{From: pair.From, To: pair.To})
		}
		return &gs.Pairs[i]
	}

	k.IteratePairs(ctx, func(pair types.TokenPair, _ uint64) bool {
		p := entry(pair)
		k.IterateRounds(ctx, pair, func(_ uint64, price types.TimestampedPrice) bool {
			p.Rounds = append(p.Rounds, price)
			return false
		})
		return false
	})
	k.IterateWindows(ctx, func(pair types.TokenPair, window types.Window) bool {
		p := entry(pair)
		p.Window = window
		p.Submissions = k.GetPendingSubmissions(ctx, pair)
		return false
	})
	return gs
}
