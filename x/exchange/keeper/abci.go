package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/GPTx-global/guru-aggregator/x/exchange/types"
)

// MaxRelaysPerBlock bounds the requests answered in one EndBlocker.
const MaxRelaysPerBlock = 50

// EndBlocker answers pending exchange requests with the latest feed round.
// Each request is settled on its own cached store; a request whose
// settlement fails stays pending.
func (k Keeper) EndBlocker(ctx sdk.Context) {
	var ids []uint64
	k.IteratePendingRequests(ctx, func(req types.PendingRequest) bool {
		ids = append(ids, req.ID)
		return len(ids) >= MaxRelaysPerBlock
	})
	if len(ids) == 0 {
		return
	}

	round, fetchErr := k.aggregatorKeeper.LatestRoundData(ctx)
	for _, id := range ids {
		cacheCtx, write := ctx.CacheContext()
		cacheCtx = cacheCtx.WithEventManager(sdk.NewEventManager())
		if err := k.FinalizeExchange(cacheCtx, id, round, fetchErr); err != nil {
			k.Logger(ctx).Error("exchange request not settled", "id", id, "error", err)
			continue
		}
		write()
		ctx.EventManager().EmitEvents(cacheCtx.EventManager().Events())
	}
}
