package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
	tmproto "github.com/tendermint/tendermint/proto/tendermint/types"

	"github.com/GPTx-global/guru-aggregator/x/aggregator"
	aggtypes "github.com/GPTx-global/guru-aggregator/x/aggregator/types"
	"github.com/GPTx-global/guru-aggregator/x/exchange"
	exchangetypes "github.com/GPTx-global/guru-aggregator/x/exchange/types"
	"github.com/GPTx-global/guru-aggregator/x/priceaggregator"
	pricetypes "github.com/GPTx-global/guru-aggregator/x/priceaggregator/types"
	"github.com/GPTx-global/guru-aggregator/x/tokens"
	tokenstypes "github.com/GPTx-global/guru-aggregator/x/tokens/types"
)

// GenesisState maps module names to their JSON genesis.
type GenesisState map[string]json.RawMessage

// GenesisDoc is the content of genesis.json.
type GenesisDoc struct {
	ChainID     string       `json:"chain_id"`
	GenesisTime time.Time    `json:"genesis_time"`
	AppState    GenesisState `json:"app_state"`
}

// NewDefaultGenesisState returns the module defaults owned by owner.
func NewDefaultGenesisState(owner sdk.AccAddress) GenesisState {
	agg := aggtypes.DefaultGenesisState()
	agg.Owner = owner.String()
	price := pricetypes.DefaultGenesisState()
	price.Owner = owner.String()
	ex := exchangetypes.DefaultGenesisState()
	ex.Owner = owner.String()

	return GenesisState{
		tokenstypes.ModuleName:   mustMarshal(tokenstypes.DefaultGenesisState()),
		aggtypes.ModuleName:      mustMarshal(agg),
		pricetypes.ModuleName:    mustMarshal(price),
		exchangetypes.ModuleName: mustMarshal(ex),
	}
}

func mustMarshal(v interface{}) json.RawMessage {
	bz, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return bz
}

// ReadGenesisDoc loads a genesis file.
func ReadGenesisDoc(path string) (GenesisDoc, error) {
	var doc GenesisDoc
	bz, err := os.ReadFile(path)
	if err != nil {
		return doc, errors.Wrap(err, "failed to read genesis")
	}
	if err := json.Unmarshal(bz, &doc); err != nil {
		return doc, errors.Wrapf(err, "failed to decode genesis %s", path)
	}
	return doc, nil
}

// WriteGenesisDoc saves doc as indented JSON.
func WriteGenesisDoc(path string, doc GenesisDoc) error {
	bz, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode genesis")
	}
	return errors.Wrap(os.WriteFile(path, bz, 0o600), "failed to write genesis")
}

func decodeModule(state GenesisState, module string, v interface{}) error {
	bz, ok := state[module]
	if !ok {
		return nil
	}
	return errors.Wrapf(json.Unmarshal(bz, v), "failed to decode %s genesis", module)
}

// InitChain initializes the modules from doc and commits the genesis block
// at height 1.
func (app *App) InitChain(doc GenesisDoc) (err error) {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	if app.LastBlockHeight() > 0 {
		return errors.Errorf("chain already initialized at height %d", app.LastBlockHeight())
	}
	if doc.ChainID != app.chainID {
		return errors.Errorf("genesis chain id %s, node chain id %s", doc.ChainID, app.chainID)
	}

	var (
		tokensGenesis   = tokenstypes.DefaultGenesisState()
		aggGenesis      = aggtypes.DefaultGenesisState()
		priceGenesis    = pricetypes.DefaultGenesisState()
		exchangeGenesis = exchangetypes.DefaultGenesisState()
	)
	for module, v := range map[string]interface{}{
		tokenstypes.ModuleName:   tokensGenesis,
		aggtypes.ModuleName:      aggGenesis,
		pricetypes.ModuleName:    priceGenesis,
		exchangetypes.ModuleName: exchangeGenesis,
	} {
		if err := decodeModule(doc.AppState, module, v); err != nil {
			return err
		}
	}

	ms := app.cms.CacheMultiStore()
	ctx := sdk.NewContext(ms, tmproto.Header{ChainID: app.chainID, Height: 1, Time: doc.GenesisTime.UTC()}, false, app.logger)

	// module genesis panics on invalid state
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("invalid genesis: %v", r)
		}
	}()

	tokens.InitGenesis(ctx, app.TokensKeeper, *tokensGenesis)
	aggregator.InitGenesis(ctx, app.AggregatorKeeper, *aggGenesis)
	priceaggregator.InitGenesis(ctx, app.PriceKeeper, *priceGenesis)
	exchange.InitGenesis(ctx, app.ExchangeKeeper, *exchangeGenesis)

	if broken := app.brokenInvariants(ctx); len(broken) > 0 {
		return errors.Errorf("genesis breaks invariants: %v", broken)
	}

	app.commit(ctx, ms, nil, nil)
	app.logger.Info("initialized chain", "chain_id", app.chainID, "time", doc.GenesisTime)
	return nil
}

// ExportGenesis dumps the last committed state as a genesis document.
func (app *App) ExportGenesis() (GenesisDoc, error) {
	doc := GenesisDoc{ChainID: app.chainID, AppState: make(GenesisState)}
	err := app.Query(func(c context.Context) error {
		ctx := sdk.UnwrapSDKContext(c)
		doc.GenesisTime = ctx.BlockTime()
		doc.AppState[tokenstypes.ModuleName] = mustMarshal(tokens.ExportGenesis(ctx, app.TokensKeeper))
		doc.AppState[aggtypes.ModuleName] = mustMarshal(aggregator.ExportGenesis(ctx, app.AggregatorKeeper))
		doc.AppState[pricetypes.ModuleName] = mustMarshal(priceaggregator.ExportGenesis(ctx, app.PriceKeeper))
		doc.AppState[exchangetypes.ModuleName] = mustMarshal(exchange.ExportGenesis(ctx, app.ExchangeKeeper))
		return nil
	})
	if err != nil {
		return doc, fmt.Errorf("export at height %d: %w", app.LastBlockHeight(), err)
	}
	return doc, nil
}
