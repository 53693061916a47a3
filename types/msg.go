package types

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// Msg is a state transition request routed to a module handler.
type Msg interface {
	Route() string
	Type() string
	ValidateBasic() error
	GetSigners() []sdk.AccAddress
}

// Handler executes a Msg against the module state.
type Handler func(ctx sdk.Context, msg Msg) (*sdk.Result, error)

// MsgFactory returns an empty message for decoding.
type MsgFactory func() Msg

// WrapServiceResult wraps a message response and the events of ctx into an
// sdk.Result. The response is JSON encoded into the result data.
func WrapServiceResult(ctx sdk.Context, res interface{}, err error) (*sdk.Result, error) {
	if err != nil {
		return nil, err
	}

	var data []byte
	if res != nil {
		data, err = json.Marshal(res)
		if err != nil {
			return nil, errorsmod.Wrap(sdkerrors.ErrJSONMarshal, err.Error())
		}
	}

	return &sdk.Result{
		Data:   data,
		Events: ctx.EventManager().ABCIEvents(),
	}, nil
}

// Atomic runs handler on a cached branch of ctx and commits the branch only
// when the handler succeeds.
func Atomic(handler Handler) Handler {
	return func(ctx sdk.Context, msg Msg) (*sdk.Result, error) {
		if err := msg.ValidateBasic(); err != nil {
			return nil, err
		}

		cacheCtx, write := ctx.CacheContext()
		res, err := handler(cacheCtx.WithEventManager(sdk.NewEventManager()), msg)
		if err != nil {
			return nil, err
		}
		write()
		return res, nil
	}
}
