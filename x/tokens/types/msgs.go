package types

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	gurutypes "github.com/GPTx-global/guru-aggregator/types"
)

const TypeMsgSend = ModuleName + "_send"

var _ gurutypes.Msg = &MsgSend{}

// MsgSend moves coins between two accounts.
type MsgSend struct {
	FromAddress string    `json:"from_address"`
	ToAddress   string    `json:"to_address"`
	Amount      sdk.Coins `json:"amount"`
}

type MsgSendResponse struct{}

func NewMsgSend(from, to sdk.AccAddress, amount sdk.Coins) *MsgSend {
	return &MsgSend{FromAddress: from.String(), ToAddress: to.String(), Amount: amount}
}

func (msg MsgSend) Route() string { return RouterKey }
func (msg MsgSend) Type() string  { return TypeMsgSend }

func (msg MsgSend) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.FromAddress); err != nil {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidAddress, "invalid from address: %s", err)
	}
	if _, err := sdk.AccAddressFromBech32(msg.ToAddress); err != nil {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidAddress, "invalid to address: %s", err)
	}
	if !msg.Amount.IsValid() || msg.Amount.IsZero() {
		return errorsmod.Wrap(sdkerrors.ErrInvalidCoins, msg.Amount.String())
	}
	return nil
}

func (msg MsgSend) GetSigners() []sdk.AccAddress {
	from, _ := sdk.AccAddressFromBech32(msg.FromAddress)
	return []sdk.AccAddress{from}
}
