package app

import (
	"encoding/json"
	"fmt"
	"time"

	errorsmod "cosmossdk.io/errors"
	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	tmproto "github.com/tendermint/tendermint/proto/tendermint/types"
)

var keyLastHeader = []byte("last_header")

type header struct {
	Height int64     `json:"height"`
	Time   time.Time `json:"time"`
}

// TxResult is the outcome of a transaction included in a block. A non-zero
// Code means the message failed and left no state behind.
type TxResult struct {
	Height    int64           `json:"height"`
	Code      uint32          `json:"code"`
	Codespace string          `json:"codespace,omitempty"`
	Log       string          `json:"log,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Events    []abci.Event    `json:"events,omitempty"`
}

// Block is published to subscribers after every commit.
type Block struct {
	Height         int64        `json:"height"`
	Time           time.Time    `json:"time"`
	Txs            []TxResult   `json:"txs,omitempty"`
	EndBlockEvents []abci.Event `json:"end_block_events,omitempty"`
}

func (app *App) loadHeader() header {
	var h header
	bz := app.cms.GetKVStore(app.keys[StoreKey]).Get(keyLastHeader)
	if bz == nil {
		return h
	}
	if err := json.Unmarshal(bz, &h); err != nil {
		panic(fmt.Errorf("corrupted %s store: %w", StoreKey, err))
	}
	return h
}

// nextHeader returns the header of the next block. Block times never go
// backwards.
func (app *App) nextHeader() tmproto.Header {
	t := app.clock().UTC()
	if t.Before(app.lastHeader.Time) {
		t = app.lastHeader.Time
	}
	return tmproto.Header{
		ChainID: app.chainID,
		Height:  app.lastHeader.Height + 1,
		Time:    t,
	}
}

// beginBlock branches the committed state for a new block.
func (app *App) beginBlock() (sdk.Context, storetypes.CacheMultiStore) {
	ms := app.cms.CacheMultiStore()
	ctx := sdk.NewContext(ms, app.nextHeader(), false, app.logger)
	return ctx, ms
}

// endBlock relays exchange requests and asserts the invariants when due.
func (app *App) endBlock(ctx sdk.Context) []abci.Event {
	ctx = ctx.WithEventManager(sdk.NewEventManager())
	app.ExchangeKeeper.EndBlocker(ctx)

	if app.invCheckPeriod > 0 && ctx.BlockHeight()%app.invCheckPeriod == 0 {
		app.assertInvariants(ctx)
	}
	return ctx.EventManager().ABCIEvents()
}

// commit persists the block and notifies subscribers.
func (app *App) commit(ctx sdk.Context, ms storetypes.CacheMultiStore, txs []TxResult, endEvents []abci.Event) Block {
	h := header{Height: ctx.BlockHeight(), Time: ctx.BlockTime()}
	bz, err := json.Marshal(h)
	if err != nil {
		panic(err)
	}
	ctx.KVStore(app.keys[StoreKey]).Set(keyLastHeader, bz)

	ms.Write()
	commitID := app.cms.Commit()
	if commitID.Version != h.Height {
		panic(fmt.Errorf("committed version %d at height %d", commitID.Version, h.Height))
	}
	app.lastHeader = h

	block := Block{Height: h.Height, Time: h.Time, Txs: txs, EndBlockEvents: endEvents}
	app.subscribers.publish(block)
	app.logger.Debug("committed block", "height", h.Height, "txs", len(txs), "hash", fmt.Sprintf("%X", commitID.Hash))
	return block
}

// DeliverTx verifies tx and executes it in a new block. An error means the
// transaction was rejected before inclusion; message failures are reported
// in the result code instead.
func (app *App) DeliverTx(tx Tx) (TxResult, error) {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	msg, err := app.DecodeMsg(tx.Type, tx.Msg)
	if err != nil {
		return TxResult{}, err
	}
	if err := msg.ValidateBasic(); err != nil {
		return TxResult{}, err
	}

	ctx, ms := app.beginBlock()
	if err := app.verifyTx(ctx, tx, msg); err != nil {
		return TxResult{}, err
	}

	handler, ok := app.router[msg.Route()]
	if !ok {
		return TxResult{}, errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "unrecognized message route: %s", msg.Route())
	}

	result := TxResult{Height: ctx.BlockHeight()}
	res, err := handler(ctx, msg)
	if err != nil {
		result.Codespace, result.Code, result.Log = errorsmod.ABCIInfo(err, false)
		app.logger.Info("message failed", "type", msg.Type(), "height", result.Height, "error", err)
	} else {
		result.Data = res.Data
		result.Events = res.Events
	}

	app.commit(ctx, ms, []TxResult{result}, app.endBlock(ctx))
	return result, nil
}

// Tick produces an empty block.
func (app *App) Tick() Block {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	ctx, ms := app.beginBlock()
	return app.commit(ctx, ms, nil, app.endBlock(ctx))
}
