// Package app hosts the aggregator modules in a single process node. Every
// transaction is executed in its own block; empty blocks are produced by
// Tick so that end of block work keeps running without traffic.
package app

import (
	"sync"
	"time"

	"github.com/cosmos/cosmos-sdk/store"
	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/log"
	tmdb "github.com/tendermint/tm-db"

	pruningtypes "github.com/cosmos/cosmos-sdk/pruning/types"

	gurutypes "github.com/GPTx-global/guru-aggregator/types"
	"github.com/GPTx-global/guru-aggregator/x/aggregator"
	aggkeeper "github.com/GPTx-global/guru-aggregator/x/aggregator/keeper"
	aggtypes "github.com/GPTx-global/guru-aggregator/x/aggregator/types"
	"github.com/GPTx-global/guru-aggregator/x/exchange"
	exchangekeeper "github.com/GPTx-global/guru-aggregator/x/exchange/keeper"
	exchangetypes "github.com/GPTx-global/guru-aggregator/x/exchange/types"
	"github.com/GPTx-global/guru-aggregator/x/priceaggregator"
	pricekeeper "github.com/GPTx-global/guru-aggregator/x/priceaggregator/keeper"
	pricetypes "github.com/GPTx-global/guru-aggregator/x/priceaggregator/types"
	"github.com/GPTx-global/guru-aggregator/x/tokens"
	tokenskeeper "github.com/GPTx-global/guru-aggregator/x/tokens/keeper"
	tokenstypes "github.com/GPTx-global/guru-aggregator/x/tokens/types"
)

const (
	// Name is the application name
	Name = "aggregatord"

	// StoreKey holds the app level records: signer sequences and the last block header.
	StoreKey = "app"
)

// App is the aggregator node.
type App struct {
	logger  log.Logger
	cms     storetypes.CommitMultiStore
	keys    map[string]*storetypes.KVStoreKey
	chainID string
	clock   func() time.Time

	invCheckPeriod int64
	invariants     invariantRegistry

	TokensKeeper     tokenskeeper.Keeper
	AggregatorKeeper aggkeeper.Keeper
	PriceKeeper      pricekeeper.Keeper
	ExchangeKeeper   exchangekeeper.Keeper

	router map[string]gurutypes.Handler
	msgs   map[string]gurutypes.MsgFactory

	// mtx serializes block execution against queries
	mtx         sync.RWMutex
	lastHeader  header
	subscribers subscribers
}

// Option configures an App.
type Option func(*App) error

// WithChainID sets the chain id expected in transactions.
func WithChainID(chainID string) Option {
	return func(app *App) error {
		app.chainID = chainID
		return nil
	}
}

// WithClock replaces the wall clock used for block times.
func WithClock(clock func() time.Time) Option {
	return func(app *App) error {
		app.clock = clock
		return nil
	}
}

// WithInvariantCheckPeriod asserts all invariants every period blocks. Zero
// disables the checks.
func WithInvariantCheckPeriod(period int64) Option {
	return func(app *App) error {
		app.invCheckPeriod = period
		return nil
	}
}

// WithPruning sets the store pruning strategy (default, nothing, everything).
func WithPruning(strategy string) Option {
	return func(app *App) error {
		opts := pruningtypes.NewPruningOptionsFromString(strategy)
		if err := opts.Validate(); err != nil {
			return errors.Wrapf(err, "pruning %q", strategy)
		}
		app.cms.SetPruning(opts)
		return nil
	}
}

// New mounts the module stores on db and loads the latest committed version.
func New(logger log.Logger, db tmdb.DB, opts ...Option) (*App, error) {
	app := &App{
		logger:  logger,
		cms:     store.NewCommitMultiStore(db),
		keys:    make(map[string]*storetypes.KVStoreKey),
		chainID: Name,
		clock:   time.Now,
		router:  make(map[string]gurutypes.Handler),
		msgs:    make(map[string]gurutypes.MsgFactory),
	}

	for _, name := range []string{StoreKey, tokenstypes.StoreKey, aggtypes.StoreKey, pricetypes.StoreKey, exchangetypes.StoreKey} {
		key := sdk.NewKVStoreKey(name)
		app.keys[name] = key
		app.cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	app.TokensKeeper = tokenskeeper.NewKeeper(app.keys[tokenstypes.StoreKey])
	app.AggregatorKeeper = aggkeeper.NewKeeper(app.keys[aggtypes.StoreKey], app.TokensKeeper, app.TokensKeeper)
	app.PriceKeeper = pricekeeper.NewKeeper(app.keys[pricetypes.StoreKey])
	app.ExchangeKeeper = exchangekeeper.NewKeeper(
		app.keys[exchangetypes.StoreKey],
		app.TokensKeeper,
		app.TokensKeeper,
		app.AggregatorKeeper,
	)

	app.router[tokenstypes.RouterKey] = tokens.NewHandler(app.TokensKeeper)
	app.router[aggtypes.RouterKey] = aggregator.NewHandler(app.AggregatorKeeper)
	app.router[pricetypes.RouterKey] = priceaggregator.NewHandler(app.PriceKeeper)
	app.router[exchangetypes.RouterKey] = exchange.NewHandler(app.ExchangeKeeper)
	app.registerMsgs()

	aggkeeper.RegisterInvariants(&app.invariants, app.AggregatorKeeper)
	exchangekeeper.RegisterInvariants(&app.invariants, app.ExchangeKeeper)

	if err := app.cms.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "failed to load latest version")
	}
	if app.LastBlockHeight() > 0 {
		app.lastHeader = app.loadHeader()
	}
	return app, nil
}

// ChainID returns the chain id transactions are signed for.
func (app *App) ChainID() string {
	return app.chainID
}

// Logger returns the app logger.
func (app *App) Logger() log.Logger {
	return app.logger
}

// LastBlockHeight returns the height of the last committed block.
func (app *App) LastBlockHeight() int64 {
	return app.cms.LastCommitID().Version
}

// LastBlockTime returns the time of the last committed block.
func (app *App) LastBlockTime() time.Time {
	app.mtx.RLock()
	defer app.mtx.RUnlock()
	return app.lastHeader.Time
}

// Close releases the subscriptions of the app.
func (app *App) Close() {
	app.subscribers.closeAll()
}
