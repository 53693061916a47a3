package keeper

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/store/prefix"
	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/GPTx-global/guru-aggregator/x/aggregator/types"
)

// Keeper owns the aggregator store. All round, registry and ledger state is
// written through its methods only.
type Keeper struct {
	storeKey storetypes.StoreKey

	bankKeeper types.BankKeeper
	moduleAddr sdk.AccAddress
}

func NewKeeper(
	storeKey storetypes.StoreKey,
	ak types.AccountKeeper,
	bk types.BankKeeper,
) Keeper {
	// ensure aggregator module account is set
	addr := ak.GetModuleAddress(types.ModuleName)
	if addr == nil {
		panic("the aggregator module account has not been set")
	}

	return Keeper{
		storeKey:   storeKey,
		bankKeeper: bk,
		moduleAddr: addr,
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// ModuleAddress is the account holding the feed's funds.
func (k Keeper) ModuleAddress() sdk.AccAddress {
	return k.moduleAddr
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

// GetOwner returns the feed owner.
func (k Keeper) GetOwner(ctx sdk.Context) sdk.AccAddress {
	store := ctx.KVStore(k.storeKey)
	return store.Get(types.KeyOwner)
}

// SetOwner sets the feed owner.
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

func (k Keeper) GetFeedConfig(ctx sdk.Context) types.FeedConfig {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.KeyFeedConfig)
	if bz == nil {
		return types.DefaultFeedConfig()
	}
	var config types.FeedConfig
	mustUnmarshal(bz, &config)
	return config
}

func (k Keeper) SetFeedConfig(ctx sdk.Context, config types.FeedConfig) {
	store := ctx.KVStore(k.storeKey)
	store.Set(types.KeyFeedConfig, config.Marshal())
}

func (k Keeper) GetRound(ctx sdk.Context, roundID uint64) (types.Round, bool) {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.GetRoundKey(roundID))
	if bz == nil {
		return types.Round{}, false
	}
	var round types.Round
	mustUnmarshal(bz, &round)
	return round, true
}

func (k Keeper) SetRound(ctx sdk.Context, round types.Round) {
	store := ctx.KVStore(k.storeKey)
	store.Set(types.GetRoundKey(round.RoundID), round.Marshal())
}

// IterateRounds walks rounds in ascending id order until cb returns true.
func (k Keeper) IterateRounds(ctx sdk.Context, cb func(round types.Round) (stop bool)) {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.KeyRounds)
	iter := store.Iterator(nil, nil)
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		var round types.Round
		mustUnmarshal(iter.Value(), &round)
		if cb(round) {
			return
		}
	}
}

func (k Keeper) GetDetails(ctx sdk.Context, roundID uint64) (types.RoundDetails, bool) {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.GetDetailsKey(roundID))
	if bz == nil {
		return types.RoundDetails{}, false
	}
	var details types.RoundDetails
	mustUnmarshal(bz, &details)
	return details, true
}

func (k Keeper) SetDetails(ctx sdk.Context, roundID uint64, details types.RoundDetails) {
	store := ctx.KVStore(k.storeKey)
	store.Set(types.GetDetailsKey(roundID), details.Marshal())
}

func (k Keeper) DeleteDetails(ctx sdk.Context, roundID uint64) {
	store := ctx.KVStore(k.storeKey)
	store.Delete(types.GetDetailsKey(roundID))
}

// IterateDetails walks the details of rounds that still hold submissions.
func (k Keeper) IterateDetails(ctx sdk.Context, cb func(roundID uint64, details types.RoundDetails) (stop bool)) {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.KeyDetails)
	iter := store.Iterator(nil, nil)
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		var details types.RoundDetails
		mustUnmarshal(iter.Value(), &details)
		if cb(types.BytesToID(iter.Key()), details) {
			return
		}
	}
}

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

// SetOracleStatus writes the status and keeps the enabled index in sync.
func (k Keeper) SetOracleStatus(ctx sdk.Context, oracle sdk.AccAddress, status types.OracleStatus) {
	store := ctx.KVStore(k.storeKey)
	store.Set(types.GetOracleKey(oracle), status.Marshal())
	if status.Enabled() {
		store.Set(types.GetEnabledOracleKey(oracle), []byte{1})
	} else {
		store.Delete(types.GetEnabledOracleKey(oracle))
	}
}

// IterateOracles walks every oracle ever added, enabled or not.
func (k Keeper) IterateOracles(ctx sdk.Context, cb func(oracle sdk.AccAddress, status types.OracleStatus) (stop bool)) {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.KeyOracles)
	iter := store.Iterator(nil, nil)
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		var status types.OracleStatus
		mustUnmarshal(iter.Value(), &status)
		if cb(types.AddressFromKey(iter.Key()), status) {
			return
		}
	}
}

// GetOracles returns the enabled oracles.
func (k Keeper) GetOracles(ctx sdk.Context) []sdk.AccAddress {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.KeyEnabledOracles)
	iter := store.Iterator(nil, nil)
	defer iter.Close()

	var oracles []sdk.AccAddress
	for ; iter.Valid(); iter.Next() {
		oracles = append(oracles, types.AddressFromKey(iter.Key()))
	}
	return oracles
}

// OracleCount is the number of enabled oracles.
func (k Keeper) OracleCount(ctx sdk.Context) uint64 {
	return uint64(len(k.GetOracles(ctx)))
}

func (k Keeper) GetRequester(ctx sdk.Context, requester sdk.AccAddress) (types.Requester, bool) {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.GetRequesterKey(requester))
	if bz == nil {
		return types.Requester{}, false
	}
	var r types.Requester
	mustUnmarshal(bz, &r)
	return r, true
}

func (k Keeper) SetRequester(ctx sdk.Context, addr sdk.AccAddress, requester types.Requester) {
	store := ctx.KVStore(k.storeKey)
	store.Set(types.GetRequesterKey(addr), requester.Marshal())
}

func (k Keeper) DeleteRequester(ctx sdk.Context, addr sdk.AccAddress) {
	store := ctx.KVStore(k.storeKey)
	store.Delete(types.GetRequesterKey(addr))
}

func (k Keeper) IterateRequesters(ctx sdk.Context, cb func(addr sdk.AccAddress, requester types.Requester) (stop bool)) {
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.KeyRequesters)
	iter := store.Iterator(nil, nil)
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		var r types.Requester
		mustUnmarshal(iter.Value(), &r)
		if cb(types.AddressFromKey(iter.Key()), r) {
			return
		}
	}
}

func (k Keeper) GetFunds(ctx sdk.Context) types.Funds {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.KeyRecordedFunds)
	if bz == nil {
		return types.ZeroFunds()
	}
	var funds types.Funds
	mustUnmarshal(bz, &funds)
	return funds
}

func (k Keeper) SetFunds(ctx sdk.Context, funds types.Funds) {
	store := ctx.KVStore(k.storeKey)
	store.Set(types.KeyRecordedFunds, funds.Marshal())
}

// AvailableFunds is the balance not owed to oracles.
func (k Keeper) AvailableFunds(ctx sdk.Context) math.Int {
	return k.GetFunds(ctx).Available
}

// AllocatedFunds is the balance owed to oracles and not yet withdrawn.
func (k Keeper) AllocatedFunds(ctx sdk.Context) math.Int {
	return k.GetFunds(ctx).Allocated
}

func (k Keeper) GetReportingRoundID(ctx sdk.Context) uint64 {
	store := ctx.KVStore(k.storeKey)
	return types.BytesToID(store.Get(types.KeyReportingRoundID))
}

func (k Keeper) setReportingRoundID(ctx sdk.Context, roundID uint64) {
	store := ctx.KVStore(k.storeKey)
	store.Set(types.KeyReportingRoundID, types.IDToBytes(roundID))
}

func (k Keeper) GetLatestRoundID(ctx sdk.Context) uint64 {
	store := ctx.KVStore(k.storeKey)
	return types.BytesToID(store.Get(types.KeyLatestRoundID))
}

func (k Keeper) setLatestRoundID(ctx sdk.Context, roundID uint64) {
	store := ctx.KVStore(k.storeKey)
	store.Set(types.KeyLatestRoundID, types.IDToBytes(roundID))
}
