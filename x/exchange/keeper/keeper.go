package keeper

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/store/prefix"
	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/GPTx-global/guru-aggregator/x/exchange/types"
)

// Keeper of the exchange store
type Keeper struct {
	storeKey storetypes.StoreKey

	bankKeeper       types.BankKeeper
	aggregatorKeeper types.AggregatorKeeper
	moduleAddr       sdk.AccAddress
}

func NewKeeper(
	storeKey storetypes.StoreKey,
	ak types.AccountKeeper,
	bk types.BankKeeper,
	aggregator types.AggregatorKeeper,
) Keeper {
	// ensure exchange module account is set
	addr := ak.GetModuleAddress(types.ModuleName)
	if addr == nil {
		panic("the exchange module account has not been set")
	}

	return Keeper{
		storeKey:         storeKey,
		bankKeeper:       bk,
		aggregatorKeeper: aggregator,
		moduleAddr:       addr,
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", "x/"+types.ModuleName)
}

// GetOwner returns the exchange owner.
func (k Keeper) GetOwner(ctx sdk.Context) sdk.AccAddress {
	store := ctx.KVStore(k.storeKey)
	return store.Get(types.KeyOwner)
}

// SetOwner sets the exchange owner.
func (k Keeper) SetOwner(ctx sdk.Context, owner sdk.AccAddress) {
	store := ctx.KVStore(k.storeKey)
	store.Set(types.KeyOwner, owner)
}

// GetReserve returns the tracked reserve of denom. found is false for denoms
// the exchange does not support.
func (k Keeper) GetReserve(ctx sdk.Context, denom string) (reserve sdk.Coin, found bool) {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.GetReserveKey(denom))
	if bz == nil {
		return sdk.NewCoin(denom, math.ZeroInt()), false
	}
	var amount math.Int
	if err := amount.Unmarshal(bz); err != nil {
		panic(fmt.Errorf("unable to unmarshal %s reserve: %w", denom, err))
	}
	return sdk.NewCoin(denom, amount), true
}

func (k Keeper) SetReserve(ctx sdk.Context, reserve sdk.Coin) {
	store := ctx.KVStore(k.storeKey)
	bz, err := reserve.Amount.Marshal()
	if err != nil {
		panic(fmt.Errorf("unable to marshal %s reserve: %w", reserve.Denom, err))
	}
	store.Set(types.GetReserveKey(reserve.Denom), bz)
}

// IterateReserves walks the supported denoms in lexical order.
func (k Keeper) IterateReserves(ctx sdk.Context, cb func(reserve sdk.Coin) (stop bool)) {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.KeyReserves)
	iter := store.Iterator(nil, nil)
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		var amount math.Int
		if err := amount.Unmarshal(iter.Value()); err != nil {
			panic(fmt.Errorf("unable to unmarshal %s reserve: %w", iter.Key(), err))
		}
		if cb(sdk.NewCoin(string(iter.Key()), amount)) {
			return
		}
	}
}

func (k Keeper) GetReserves(ctx sdk.Context) sdk.Coins {
	var reserves sdk.Coins
	k.IterateReserves(ctx, func(reserve sdk.Coin) bool {
		reserves = append(reserves, reserve)
		return false
	})
	return reserves
}

func (k Keeper) GetPendingRequest(ctx sdk.Context, id uint64) (types.PendingRequest, bool) {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.GetPendingRequestKey(id))
	if bz == nil {
		return types.PendingRequest{}, false
	}
	var req types.PendingRequest
	if err := req.Unmarshal(bz); err != nil {
		panic(fmt.Errorf("corrupted %s store: %w", types.ModuleName, err))
	}
	return req, true
}

func (k Keeper) setPendingRequest(ctx sdk.Context, req types.PendingRequest) {
	store := ctx.KVStore(k.storeKey)
	store.Set(types.GetPendingRequestKey(req.ID), req.Marshal())
}

func (k Keeper) deletePendingRequest(ctx sdk.Context, id uint64) {
	store := ctx.KVStore(k.storeKey)
	store.Delete(types.GetPendingRequestKey(id))
}

// IteratePendingRequests walks pending requests oldest first.
func (k Keeper) IteratePendingRequests(ctx sdk.Context, cb func(req types.PendingRequest) (stop bool)) {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.KeyPendingRequests)
	iter := store.Iterator(nil, nil)
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		var req types.PendingRequest
		if err := req.Unmarshal(iter.Value()); err != nil {
			panic(fmt.Errorf("corrupted %s store: %w", types.ModuleName, err))
		}
		if cb(req) {
			return
		}
	}
}

func (k Keeper) GetPendingRequests(ctx sdk.Context) []types.PendingRequest {
	var requests []types.PendingRequest
	k.IteratePendingRequests(ctx, func(req types.PendingRequest) bool {
		requests = append(requests, req)
		return false
	})
	return requests
}

// PendingTotal is the part of the denom reserve held for unanswered requests.
func (k Keeper) PendingTotal(ctx sdk.Context, denom string) sdk.Coin {
	total := sdk.NewCoin(denom, math.ZeroInt())
	k.IteratePendingRequests(ctx, func(req types.PendingRequest) bool {
		if req.Payment.Denom == denom {
			total = total.Add(req.Payment)
		}
		return false
	})
	return total
}

// GetNextRequestID returns the id the next exchange request will get.
func (k Keeper) GetNextRequestID(ctx sdk.Context) uint64 {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.KeyNextRequestID)
	if bz == nil {
		return 1
	}
	return types.BytesToID(bz)
}

func (k Keeper) setNextRequestID(ctx sdk.Context, id uint64) {
	store := ctx.KVStore(k.storeKey)
	store.Set(types.KeyNextRequestID, types.IDToBytes(id))
}
