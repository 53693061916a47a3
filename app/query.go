package app

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	tmproto "github.com/tendermint/tendermint/proto/tendermint/types"

	aggkeeper "github.com/GPTx-global/guru-aggregator/x/aggregator/keeper"
	aggtypes "github.com/GPTx-global/guru-aggregator/x/aggregator/types"
	exchangekeeper "github.com/GPTx-global/guru-aggregator/x/exchange/keeper"
	exchangetypes "github.com/GPTx-global/guru-aggregator/x/exchange/types"
	pricekeeper "github.com/GPTx-global/guru-aggregator/x/priceaggregator/keeper"
	pricetypes "github.com/GPTx-global/guru-aggregator/x/priceaggregator/types"
	tokenstypes "github.com/GPTx-global/guru-aggregator/x/tokens/types"
)

// Queriers groups the read services of the modules.
type Queriers struct {
	Tokens     tokenstypes.QueryServer
	Aggregator aggtypes.QueryServer
	Price      pricetypes.QueryServer
	Exchange   exchangetypes.QueryServer
}

// Queriers returns the module query services.
func (app *App) Queriers() Queriers {
	return Queriers{
		Tokens:     app.TokensKeeper,
		Aggregator: aggkeeper.NewQuerier(app.AggregatorKeeper),
		Price:      pricekeeper.NewQuerier(app.PriceKeeper),
		Exchange:   exchangekeeper.NewQuerier(app.ExchangeKeeper),
	}
}

// Query runs fn against a branch of the last committed state. Writes made by
// fn are discarded.
func (app *App) Query(fn func(c context.Context) error) error {
	app.mtx.RLock()
	defer app.mtx.RUnlock()

	h := app.lastHeader
	ctx := sdk.NewContext(app.cms.CacheMultiStore(), tmproto.Header{
		ChainID: app.chainID,
		Height:  h.Height,
		Time:    h.Time,
	}, true, app.logger)
	return fn(sdk.WrapSDKContext(ctx))
}

// Sequence returns the sequence the next transaction of addr must carry.
func (app *App) Sequence(addr sdk.AccAddress) uint64 {
	var seq uint64
	_ = app.Query(func(c context.Context) error {
		seq = app.getSequence(sdk.UnwrapSDKContext(c), addr)
		return nil
	})
	return seq
}
