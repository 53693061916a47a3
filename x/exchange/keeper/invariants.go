package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/GPTx-global/guru-aggregator/x/exchange/types"
)

// RegisterInvariants registers the exchange module invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "reserves-backed", ReservesBackedInvariant(k))
}

// ReservesBackedInvariant checks that the module holds every tracked reserve
// and that pending payments are part of their source reserve.
func ReservesBackedInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var issues []string

		k.IterateReserves(ctx, func(reserve sdk.Coin) bool {
			balance := k.bankKeeper.GetBalance(ctx, k.moduleAddr, reserve.Denom)
			if balance.IsLT(reserve) {
				issues = append(issues, fmt.Sprintf("module balance %s below reserve %s", balance, reserve))
			}
			if pending := k.PendingTotal(ctx, reserve.Denom); reserve.IsLT(pending) {
				issues = append(issues, fmt.Sprintf("reserve %s below pending payments %s", reserve, pending))
			}
			return false
		})

		next := k.GetNextRequestID(ctx)
		k.IteratePendingRequests(ctx, func(req types.PendingRequest) bool {
			if req.ID >= next {
				issues = append(issues, fmt.Sprintf("pending request %d not below next id %d", req.ID, next))
			}
			return false
		})

		var msg string
		if len(issues) > 0 {
			msg = fmt.Sprintf("%d issues:\n", len(issues))
			for _, issue := range issues {
				msg += fmt.Sprintf("  - %s\n", issue)
			}
		}
		return sdk.FormatInvariant(types.ModuleName, "reserves-backed", msg), len(issues) > 0
	}
}
