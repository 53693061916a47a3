package app

import (
	"encoding/json"
	"sort"

	errorsmod "cosmossdk.io/errors"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	gurutypes "github.com/GPTx-global/guru-aggregator/types"
	aggtypes "github.com/GPTx-global/guru-aggregator/x/aggregator/types"
	exchangetypes "github.com/GPTx-global/guru-aggregator/x/exchange/types"
	pricetypes "github.com/GPTx-global/guru-aggregator/x/priceaggregator/types"
	tokenstypes "github.com/GPTx-global/guru-aggregator/x/tokens/types"
)

func (app *App) registerMsgs() {
	for _, factory := range []gurutypes.MsgFactory{
		func() gurutypes.Msg { return &tokenstypes.MsgSend{} },

		func() gurutypes.Msg { return &aggtypes.MsgSubmit{} },
		func() gurutypes.Msg { return &aggtypes.MsgChangeOracles{} },
		func() gurutypes.Msg { return &aggtypes.MsgUpdateFutureRounds{} },
		func() gurutypes.Msg { return &aggtypes.MsgRequestNewRound{} },
		func() gurutypes.Msg { return &aggtypes.MsgSetRequesterPermissions{} },
		func() gurutypes.Msg { return &aggtypes.MsgTransferAdmin{} },
		func() gurutypes.Msg { return &aggtypes.MsgAcceptAdmin{} },
		func() gurutypes.Msg { return &aggtypes.MsgWithdrawPayment{} },
		func() gurutypes.Msg { return &aggtypes.MsgWithdrawFunds{} },
		func() gurutypes.Msg { return &aggtypes.MsgDeposit{} },
		func() gurutypes.Msg { return &aggtypes.MsgChangeOwner{} },

		func() gurutypes.Msg { return &pricetypes.MsgSubmitPrice{} },
		func() gurutypes.Msg { return &pricetypes.MsgSubmitPriceBatch{} },
		func() gurutypes.Msg { return &pricetypes.MsgAddOracles{} },
		func() gurutypes.Msg { return &pricetypes.MsgRemoveOracles{} },
		func() gurutypes.Msg { return &pricetypes.MsgSetSubmissionCount{} },
		func() gurutypes.Msg { return &pricetypes.MsgPause{} },
		func() gurutypes.Msg { return &pricetypes.MsgUnpause{} },
		func() gurutypes.Msg { return &pricetypes.MsgChangeOwner{} },

		func() gurutypes.Msg { return &exchangetypes.MsgDeposit{} },
		func() gurutypes.Msg { return &exchangetypes.MsgExchange{} },
	} {
		msg := factory()
		if _, dup := app.msgs[msg.Type()]; dup {
			panic("duplicate message type " + msg.Type())
		}
		app.msgs[msg.Type()] = factory
	}
}

// MsgTypes lists the message types the node accepts.
func (app *App) MsgTypes() []string {
	types := make([]string, 0, len(app.msgs))
	for t := range app.msgs {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// DecodeMsg decodes the JSON body of a message of type msgType.
func (app *App) DecodeMsg(msgType string, bz json.RawMessage) (gurutypes.Msg, error) {
	factory, ok := app.msgs[msgType]
	if !ok {
		return nil, errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "unrecognized message type: %s", msgType)
	}
	msg := factory()
	if err := json.Unmarshal(bz, msg); err != nil {
		return nil, errorsmod.Wrapf(sdkerrors.ErrJSONUnmarshal, "%s: %s", msgType, err)
	}
	return msg, nil
}
