package tokens

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/GPTx-global/guru-aggregator/x/tokens/keeper"
	"github.com/GPTx-global/guru-aggregator/x/tokens/types"
)

// InitGenesis credits the genesis balances and tracks them in the supply
func InitGenesis(ctx sdk.Context, k keeper.Keeper, data types.GenesisState) {
	if err := data.Validate(); err != nil {
		panic(errorsmod.Wrapf(err, "error validating %s genesis", types.ModuleName))
	}

	for _, b := range data.Balances {
		addr := sdk.MustAccAddressFromBech32(b.Address)
		if err := k.Mint(ctx, addr, b.Coins); err != nil {
			panic(errorsmod.Wrapf(err, "error setting balance of %s", b.Address))
		}
	}
	for _, m := range data.ModuleBalances {
		if err := k.MintCoins(ctx, m.Module, m.Coins); err != nil {
			panic(errorsmod.Wrapf(err, "error funding module %s", m.Module))
		}
	}
}

// ExportGenesis returns a GenesisState for a given context and keeper. Balances
// of one account are contiguous and sorted by denom in the store.
func ExportGenesis(ctx sdk.Context, k keeper.Keeper) types.GenesisState {
	byAddr := make(map[string]int)
	var gs types.GenesisState
	k.IterateAllBalances(ctx, func(addr sdk.AccAddress, coin sdk.Coin) bool {
		i, ok := byAddr[addr.String()]
		if !ok {
			i = len(gs.Balances)
			byAddr[addr.String()] = i
			gs.Balances = append(gs.Balances, types.Balance{Address: addr.String()})
		}
		gs.Balances[i].Coins = append(gs.Balances[i].Coins, coin)
		return false
	})
	return gs
}
