package keeper

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/store/prefix"
	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/GPTx-global/guru-aggregator/x/priceaggregator/types"
)

// Keeper owns the price aggregator store.
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

type unmarshaler interface {
	Unmarshal([]byte) error
}

func mustUnmarshal(bz []byte, v unmarshaler) {
	if err := v.Unmarshal(bz); err != nil {
		panic(fmt.Errorf("corrupted %s store: %w", types.ModuleName, err))
	}
}

func now(ctx sdk.Context) uint64 {
	t := ctx.BlockTime().Unix()
	if t < 0 {
		return 0
	}
	return uint64(t)
}

func (k Keeper) GetOwner(ctx sdk.Context) sdk.AccAddress {
	store := ctx.KVStore(k.storeKey)
	return store.Get(types.KeyOwner)
}

func (k Keeper) SetOwner(ctx sdk.Context, owner sdk.AccAddress) {
	store := ctx.KVStore(k.storeKey)
	store.Set(types.KeyOwner, owner)
}

func (k Keeper) GetParams(ctx sdk.Context) types.Params {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.KeyParams)
	if bz == nil {
		return types.DefaultParams()
	}
	var params types.Params
	mustUnmarshal(bz, &params)
	return params
}

func (k Keeper) SetParams(ctx sdk.Context, params types.Params) {
	store := ctx.KVStore(k.storeKey)
	store.Set(types.KeyParams, params.Marshal())
}

// GetOracleStatus returns the counters of an oracle. found is false for
// addresses that are not oracles.
func (k Keeper) GetOracleStatus(ctx sdk.Context, oracle sdk.AccAddress) (types.OracleStatus, bool) {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.GetOracleKey(oracle))
	if bz == nil {
		return types.OracleStatus{}, false
	}
	var status types.OracleStatus
	mustUnmarshal(bz, &status)
	return status, true
}

func (k Keeper) IsOracle(ctx sdk.Context, addr sdk.AccAddress) bool {
	store := ctx.KVStore(k.storeKey)
	return store.Has(types.GetOracleKey(addr))
}

func (k Keeper) setOracleStatus(ctx sdk.Context, oracle sdk.AccAddress, status types.OracleStatus) {
	store := ctx.KVStore(k.storeKey)
	store.Set(types.GetOracleKey(oracle), status.Marshal())
}

func (k Keeper) deleteOracle(ctx sdk.Context, oracle sdk.AccAddress) {
	store := ctx.KVStore(k.storeKey)
	store.Delete(types.GetOracleKey(oracle))
}

// IterateOracles visits oracles in address order until cb returns true.
func (k Keeper) IterateOracles(ctx sdk.Context, cb func(oracle sdk.AccAddress, status types.OracleStatus) (stop bool)) {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.KeyOracles)
	iterator := store.Iterator(nil, nil)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var status types.OracleStatus
		mustUnmarshal(iterator.Value(), &status)
		if cb(types.AddressFromKey(iterator.Key()), status) {
			break
		}
	}
}

func (k Keeper) GetOracles(ctx sdk.Context) []sdk.AccAddress {
	var oracles []sdk.AccAddress
	k.IterateOracles(ctx, func(oracle sdk.AccAddress, _ types.OracleStatus) bool {
		oracles = append(oracles, oracle)
		return false
	})
	return oracles
}

func (k Keeper) OracleCount(ctx sdk.Context) uint32 {
	var count uint32
	k.IterateOracles(ctx, func(sdk.AccAddress, types.OracleStatus) bool {
		count++
		return false
	})
	return count
}

// GetWindow returns the open submission window of a pair.
func (k Keeper) GetWindow(ctx sdk.Context, pair types.TokenPair) (types.Window, bool) {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.GetWindowKey(pair))
	if bz == nil {
		return types.Window{}, false
	}
	var window types.Window
	mustUnmarshal(bz, &window)
	return window, true
}

func (k Keeper) setWindow(ctx sdk.Context, pair types.TokenPair, window types.Window) {
	store := ctx.KVStore(k.storeKey)
	store.Set(types.GetWindowKey(pair), window.Marshal())
}

func (k Keeper) deleteWindow(ctx sdk.Context, pair types.TokenPair) {
	store := ctx.KVStore(k.storeKey)
	store.Delete(types.GetWindowKey(pair))
}

func (k Keeper) hasSubmitted(ctx sdk.Context, pair types.TokenPair, oracle sdk.AccAddress) bool {
	store := ctx.KVStore(k.storeKey)
	return store.Has(types.GetSubmissionKey(pair, oracle))
}

func (k Keeper) setSubmission(ctx sdk.Context, pair types.TokenPair, oracle sdk.AccAddress, price math.Int) {
	store := ctx.KVStore(k.storeKey)
	store.Set(types.GetSubmissionKey(pair, oracle), types.MarshalPrice(price))
}

// GetPendingSubmissions returns the submissions of the open window of a pair
// in oracle address order.
func (k Keeper) GetPendingSubmissions(ctx sdk.Context, pair types.TokenPair) []types.PendingSubmission {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.GetSubmissionsPrefix(pair))
	iterator := store.Iterator(nil, nil)
	defer iterator.Close()

	var submissions []types.PendingSubmission
	for ; iterator.Valid(); iterator.Next() {
		price, err := types.UnmarshalPrice(iterator.Value())
		if err != nil {
			panic(fmt.Errorf("corrupted %s store: %w", types.ModuleName, err))
		}
		submissions = append(submissions, types.PendingSubmission{
			Oracle: types.AddressFromKey(iterator.Key()).String(),
			Price:  price,
		})
	}
	return submissions
}

func (k Keeper) clearSubmissions(ctx sdk.Context, pair types.TokenPair) {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.GetSubmissionsPrefix(pair))
	iterator := store.Iterator(nil, nil)

	var keys [][]byte
	for ; iterator.Valid(); iterator.Next() {
		keys = append(keys, iterator.Key())
	}
	iterator.Close()

	for _, key := range keys {
		store.Delete(key)
	}
}

// GetRoundCount returns the number of completed rounds of a pair, which is
// also the id of its latest round.
func (k Keeper) GetRoundCount(ctx sdk.Context, pair types.TokenPair) uint64 {
	store := ctx.KVStore(k.storeKey)
	return types.BytesToID(store.Get(types.GetRoundCountKey(pair)))
}

func (k Keeper) setRoundCount(ctx sdk.Context, pair types.TokenPair, count uint64) {
	store := ctx.KVStore(k.storeKey)
	store.Set(types.GetRoundCountKey(pair), types.IDToBytes(count))
}

// GetRound returns a completed round of a pair. Round ids start at 1.
func (k Keeper) GetRound(ctx sdk.Context, pair types.TokenPair, roundID uint64) (types.TimestampedPrice, bool) {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.GetRoundKey(pair, roundID))
	if bz == nil {
		return types.TimestampedPrice{}, false
	}
	var price types.TimestampedPrice
	mustUnmarshal(bz, &price)
	return price, true
}

// appendRound stores price as the next round of pair and returns its id.
func (k Keeper) appendRound(ctx sdk.Context, pair types.TokenPair, price types.TimestampedPrice) uint64 {
	roundID := k.GetRoundCount(ctx, pair) + 1
	store := ctx.KVStore(k.storeKey)
	store.Set(types.GetRoundKey(pair, roundID), price.Marshal())
	k.setRoundCount(ctx, pair, roundID)
	return roundID
}

// IterateRounds visits the completed rounds of a pair in id order.
func (k Keeper) IterateRounds(ctx sdk.Context, pair types.TokenPair, cb func(roundID uint64, price types.TimestampedPrice) (stop bool)) {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.GetRoundsPrefix(pair))
	iterator := store.Iterator(nil, nil)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var price types.TimestampedPrice
		mustUnmarshal(iterator.Value(), &price)
		if cb(types.BytesToID(iterator.Key()), price) {
			break
		}
	}
}

// IteratePairs visits every pair with at least one completed round.
func (k Keeper) IteratePairs(ctx sdk.Context, cb func(pair types.TokenPair, rounds uint64) (stop bool)) {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.KeyRoundCount)
	iterator := store.Iterator(nil, nil)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		pair, _, err := types.TokenPairFromKey(iterator.Key())
		if err != nil {
			panic(fmt.Errorf("corrupted %s store: %w", types.ModuleName, err))
		}
		if cb(pair, types.BytesToID(iterator.Value())) {
			break
		}
	}
}

// IterateWindows visits every pair with an open submission window.
func (k Keeper) IterateWindows(ctx sdk.Context, cb func(pair types.TokenPair, window types.Window) (stop bool)) {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.KeyWindows)
	iterator := store.Iterator(nil, nil)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		pair, _, err := types.TokenPairFromKey(iterator.Key())
		if err != nil {
			panic(fmt.Errorf("corrupted %s store: %w", types.ModuleName, err))
		}
		var window types.Window
		mustUnmarshal(iterator.Value(), &window)
		if cb(pair, window) {
			break
		}
	}
}
