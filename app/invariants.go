package app

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

type invariantRoute struct {
	module string
	route  string
	inv    sdk.Invariant
}

// invariantRegistry collects module invariants.
type invariantRegistry struct {
	routes []invariantRoute
}

var _ sdk.InvariantRegistry = &invariantRegistry{}

func (r *invariantRegistry) RegisterRoute(moduleName, route string, invar sdk.Invariant) {
	r.routes = append(r.routes, invariantRoute{module: moduleName, route: route, inv: invar})
}

// CheckInvariants runs every registered invariant on the last committed state
// and returns the messages of the broken ones.
func (app *App) CheckInvariants() []string {
	var broken []string
	_ = app.Query(func(c context.Context) error {
		broken = app.brokenInvariants(sdk.UnwrapSDKContext(c))
		return nil
	})
	return broken
}

func (app *App) brokenInvariants(ctx sdk.Context) []string {
	var broken []string
	for _, r := range app.invariants.routes {
		if msg, stop := r.inv(ctx); stop {
			broken = append(broken, msg)
		}
	}
	return broken
}

// assertInvariants halts the node when state is inconsistent.
func (app *App) assertInvariants(ctx sdk.Context) {
	broken := app.brokenInvariants(ctx)
	if len(broken) == 0 {
		return
	}
	for _, msg := range broken {
		app.logger.Error("invariant broken", "height", ctx.BlockHeight(), "invariant", msg)
	}
	panic(fmt.Errorf("%d invariants broken at height %d", len(broken), ctx.BlockHeight()))
}
