package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/GPTx-global/guru-aggregator/x/exchange/types"
)

// InitState writes a validated genesis into the store.
func (k Keeper) InitState(ctx sdk.Context, gs types.GenesisState) {
	k.SetOwner(ctx, sdk.MustAccAddressFromBech32(gs.Owner))
	for _, reserve := range gs.Reserves {
		k.SetReserve(ctx, reserve)
	}
	for _, req := range gs.Pending {
		k.setPendingRequest(ctx, req)
	}
	k.setNextRequestID(ctx, gs.NextRequestID)
}

func (k Keeper) ExportState(ctx sdk.Context) types.GenesisState {
	return types.GenesisState{
		Owner:         k.GetOwner(ctx).String(),
		Reserves:      k.GetReserves(ctx),
		Pending:       k.GetPendingRequests(ctx),
		NextRequestID: k.GetNextRequestID(ctx),
	}
}
