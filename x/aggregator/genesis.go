package aggregator

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/GPTx-global/guru-aggregator/x/aggregator/keeper"
	"github.com/GPTx-global/guru-aggregator/x/aggregator/types"
)

// InitGenesis creates the feed, or restores it when the genesis carries an
// exported state.
func InitGenesis(ctx sdk.Context, k keeper.Keeper, data types.GenesisState) {
	if err := data.Validate(); err != nil {
		panic(errorsmod.Wrapf(err, "error validating %s genesis", types.ModuleName))
	}

	var err error
	if data.State != nil {
		err = k.Restore(ctx, data)
	} else {
		err = k.Bootstrap(ctx, data)
	}
	if err != nil {
		panic(errorsmod.Wrapf(err, "error initializing %s genesis", types.ModuleName))
	}
}

// ExportGenesis returns a GenesisState for a given context and keeper.
func ExportGenesis(ctx sdk.Context, k keeper.Keeper) types.GenesisState {
	return k.Export(ctx)
}
