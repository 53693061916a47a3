package keeper

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/store/prefix"
	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/GPTx-global/guru-aggregator/x/tokens/types"
)

// Keeper is a single ledger of coin balances. Module accounts are plain
// addresses derived from the module name.
type Keeper struct {
	storeKey storetypes.StoreKey
}

func NewKeeper(storeKey storetypes.StoreKey) Keeper {
	return Keeper{storeKey: storeKey}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// GetModuleAddress returns the account address of a module.
func (k Keeper) GetModuleAddress(moduleName string) sdk.AccAddress {
	return authtypes.NewModuleAddress(moduleName)
}

func (k Keeper) GetBalance(ctx sdk.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	store := ctx.KVStore(k.storeKey)
	return sdk.NewCoin(denom, unmarshalAmount(store.Get(types.GetBalanceKey(addr, denom))))
}

// GetAllBalances returns every non-zero balance of addr sorted by denom.
func (k Keeper) GetAllBalances(ctx sdk.Context, addr sdk.AccAddress) sdk.Coins {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.GetAccountBalancesKey(addr))
	iter := store.Iterator(nil, nil)
	defer iter.Close()

	var coins sdk.Coins
	for ; iter.Valid(); iter.Next() {
		coins = append(coins, sdk.NewCoin(string(iter.Key()), unmarshalAmount(iter.Value())))
	}
	return coins.Sort()
}

// IterateAllBalances walks every balance until cb returns true.
func (k Keeper) IterateAllBalances(ctx sdk.Context, cb func(addr sdk.AccAddress, coin sdk.Coin) (stop bool)) {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.KeyPrefixBalances)
	iter := store.Iterator(nil, nil)
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		addr, denom := types.AddressAndDenomFromBalanceKey(iter.Key())
		if cb(addr, sdk.NewCoin(denom, unmarshalAmount(iter.Value()))) {
			return
		}
	}
}

func (k Keeper) GetSupply(ctx sdk.Context, denom string) sdk.Coin {
	store := ctx.KVStore(k.storeKey)
	return sdk.NewCoin(denom, unmarshalAmount(store.Get(types.GetSupplyKey(denom))))
}

func (k Keeper) setBalance(ctx sdk.Context, addr sdk.AccAddress, coin sdk.Coin) {
	store := ctx.KVStore(k.storeKey)
	key := types.GetBalanceKey(addr, coin.Denom)
	if coin.Amount.IsZero() {
		store.Delete(key)
		return
	}
	store.Set(key, marshalAmount(coin.Amount))
}

func (k Keeper) setSupply(ctx sdk.Context, coin sdk.Coin) {
	store := ctx.KVStore(k.storeKey)
	store.Set(types.GetSupplyKey(coin.Denom), marshalAmount(coin.Amount))
}

func (k Keeper) subBalance(ctx sdk.Context, addr sdk.AccAddress, amt sdk.Coins) error {
	for _, coin := range amt {
		balance := k.GetBalance(ctx, addr, coin.Denom)
		if balance.Amount.LT(coin.Amount) {
			return errorsmod.Wrapf(sdkerrors.ErrInsufficientFunds, "%s is smaller than %s", balance, coin)
		}
		k.setBalance(ctx, addr, sdk.NewCoin(coin.Denom, balance.Amount.Sub(coin.Amount)))
	}
	return nil
}

func (k Keeper) addBalance(ctx sdk.Context, addr sdk.AccAddress, amt sdk.Coins) {
	for _, coin := range amt {
		balance := k.GetBalance(ctx, addr, coin.Denom)
		k.setBalance(ctx, addr, sdk.NewCoin(coin.Denom, balance.Amount.Add(coin.Amount)))
	}
}

// SendCoins moves amt from one account to another.
func (k Keeper) SendCoins(ctx sdk.Context, from, to sdk.AccAddress, amt sdk.Coins) error {
	if !amt.IsValid() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidCoins, amt.String())
	}
	if err := k.subBalance(ctx, from, amt); err != nil {
		return err
	}
	k.addBalance(ctx, to, amt)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeTransfer,
			sdk.NewAttribute(types.AttributeKeySender, from.String()),
			sdk.NewAttribute(types.AttributeKeyRecipient, to.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amt.String()),
		),
	)
	return nil
}

func (k Keeper) SendCoinsFromAccountToModule(ctx sdk.Context, sender sdk.AccAddress, module string, amt sdk.Coins) error {
	return k.SendCoins(ctx, sender, k.GetModuleAddress(module), amt)
}

func (k Keeper) SendCoinsFromModuleToAccount(ctx sdk.Context, module string, recipient sdk.AccAddress, amt sdk.Coins) error {
	return k.SendCoins(ctx, k.GetModuleAddress(module), recipient, amt)
}

// MintCoins creates amt in the account of module.
func (k Keeper) MintCoins(ctx sdk.Context, module string, amt sdk.Coins) error {
	return k.Mint(ctx, k.GetModuleAddress(module), amt)
}

// Mint creates amt in the account addr and raises the supply.
func (k Keeper) Mint(ctx sdk.Context, addr sdk.AccAddress, amt sdk.Coins) error {
	if !amt.IsValid() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidCoins, amt.String())
	}
	k.addBalance(ctx, addr, amt)
	for _, coin := range amt {
		supply := k.GetSupply(ctx, coin.Denom)
		k.setSupply(ctx, supply.Add(coin))
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeMint,
			sdk.NewAttribute(types.AttributeKeyRecipient, addr.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amt.String()),
		),
	)
	return nil
}

func marshalAmount(amount math.Int) []byte {
	bz, err := amount.Marshal()
	if err != nil {
		panic(err)
	}
	return bz
}

func unmarshalAmount(bz []byte) math.Int {
	if bz == nil {
		return math.ZeroInt()
	}
	var amount math.Int
	if err := amount.Unmarshal(bz); err != nil {
		panic(fmt.Errorf("corrupted %s store: %w", types.ModuleName, err))
	}
	return amount
}
