package keeper

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/GPTx-global/guru-aggregator/x/aggregator/types"
)

// RegisterInvariants registers all aggregator module invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "funds-conservation", FundsConservationInvariant(k))
	ir.RegisterRoute(types.ModuleName, "round-pointers", RoundPointersInvariant(k))
	ir.RegisterRoute(types.ModuleName, "details-bound", DetailsBoundInvariant(k))
	ir.RegisterRoute(types.ModuleName, "oracle-registry", OracleRegistryInvariant(k))
}

// AllInvariants runs all invariants of the aggregator module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		for _, inv := range []sdk.Invariant{
			FundsConservationInvariant(k),
			RoundPointersInvariant(k),
			DetailsBoundInvariant(k),
			OracleRegistryInvariant(k),
		} {
			if res, stop := inv(ctx); stop {
				return res, stop
			}
		}
		return "", false
	}
}

func formatIssues(route string, issues []string) (string, bool) {
	var msg string
	if len(issues) > 0 {
		msg = fmt.Sprintf("%d issues:\n", len(issues))
		for _, issue := range issues {
			msg += fmt.Sprintf("  - %s\n", issue)
		}
	}
	return sdk.FormatInvariant(types.ModuleName, route, msg), len(issues) > 0
}

// FundsConservationInvariant checks that allocated funds equal the sum owed to
// oracles and that the module balance covers the recorded funds.
func FundsConservationInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var issues []string
		funds := k.GetFunds(ctx)

		owed := math.ZeroInt()
		k.IterateOracles(ctx, func(_ sdk.AccAddress, status types.OracleStatus) bool {
			owed = owed.Add(paymentOrZero(status.Withdrawable))
			return false
		})
		if !owed.Equal(funds.Allocated) {
			issues = append(issues, fmt.Sprintf("allocated %s, owed to oracles %s", funds.Allocated, owed))
		}
		if funds.Available.IsNegative() || funds.Allocated.IsNegative() {
			issues = append(issues, fmt.Sprintf("negative funds: available %s, allocated %s", funds.Available, funds.Allocated))
		}

		balance := k.bankKeeper.GetBalance(ctx, k.moduleAddr, k.GetFeedConfig(ctx).Denom).Amount
		if balance.LT(funds.Total()) {
			issues = append(issues, fmt.Sprintf("module balance %s below recorded funds %s", balance, funds.Total()))
		}

		return formatIssues("funds-conservation", issues)
	}
}

// RoundPointersInvariant checks latest_round_id <= reporting_round_id and
// that both rounds exist.
func RoundPointersInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var issues []string
		reporting := k.GetReportingRoundID(ctx)
		latest := k.GetLatestRoundID(ctx)

		if latest > reporting {
			issues = append(issues, fmt.Sprintf("latest round %d after reporting round %d", latest, reporting))
		}
		if _, found := k.GetRound(ctx, reporting); !found {
			issues = append(issues, fmt.Sprintf("reporting round %d missing", reporting))
		}
		if latest > 0 {
			if round, found := k.GetRound(ctx, latest); !found || !round.Answered() {
				issues = append(issues, fmt.Sprintf("latest round %d not answered", latest))
			}
		}

		return formatIssues("round-pointers", issues)
	}
}

// DetailsBoundInvariant checks that no round holds more submissions than its
// max and that details only exist for opened rounds.
func DetailsBoundInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var issues []string
		reporting := k.GetReportingRoundID(ctx)

		k.IterateDetails(ctx, func(roundID uint64, details types.RoundDetails) bool {
			if uint32(len(details.Submissions)) > details.MaxSubmissions {
				issues = append(issues, fmt.Sprintf("round %d holds %d submissions, max %d", roundID, len(details.Submissions), details.MaxSubmissions))
			}
			if roundID > reporting {
				issues = append(issues, fmt.Sprintf("details for unopened round %d", roundID))
			}
			return false
		})

		return formatIssues("details-bound", issues)
	}
}

// OracleRegistryInvariant checks the enabled oracle count limit.
func OracleRegistryInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var issues []string

		enabled := 0
		k.IterateOracles(ctx, func(oracle sdk.AccAddress, status types.OracleStatus) bool {
			if status.Enabled() {
				enabled++
			}
			if status.Admin.Admin.Empty() {
				issues = append(issues, fmt.Sprintf("oracle %s has no admin", oracle))
			}
			return false
		})
		if uint64(enabled) != k.OracleCount(ctx) {
			issues = append(issues, fmt.Sprintf("enabled index holds %d oracles, registry %d", k.OracleCount(ctx), enabled))
		}
		if enabled > types.MaxOracleCount {
			issues = append(issues, fmt.Sprintf("%d oracles enabled, max %d", enabled, types.MaxOracleCount))
		}

		return formatIssues("oracle-registry", issues)
	}
}
