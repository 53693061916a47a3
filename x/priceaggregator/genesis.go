package priceaggregator

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/GPTx-global/guru-aggregator/x/priceaggregator/keeper"
	"github.com/GPTx-global/guru-aggregator/x/priceaggregator/types"
)

// InitGenesis initializes the price aggregator state from a genesis state.
func InitGenesis(ctx sdk.Context, k keeper.Keeper, data types.GenesisState) {
	if err := data.Validate(); err != nil {
		panic(errorsmod.Wrapf(err, "error validating %s genesis", types.ModuleName))
	}
	k.InitState(ctx, data)
}

// ExportGenesis returns a GenesisState for a given context and keeper.
func ExportGenesis(ctx sdk.Context, k keeper.Keeper) types.GenesisState {
	return k.ExportState(ctx)
}
