package types

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	gurutypes "github.com/GPTx-global/guru-aggregator/types"
)

// exchange message types
const (
	TypeMsgDeposit  = ModuleName + "_deposit"
	TypeMsgExchange = ModuleName + "_exchange"
)

// MsgServer is the exchange message service
type MsgServer interface {
	Deposit(context.Context, *MsgDeposit) (*MsgDepositResponse, error)
	Exchange(context.Context, *MsgExchange) (*MsgExchangeResponse, error)
}

var (
	_ gurutypes.Msg = &MsgDeposit{}
	_ gurutypes.Msg = &MsgExchange{}
)

func validateAddress(field, addr string) error {
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidAddress, " %s address, %s", field, err)
	}
	return nil
}

func validateCoin(coin sdk.Coin) error {
	if !coin.IsValid() {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidCoins, "%s", coin)
	}
	if !coin.IsPositive() {
		return errorsmod.Wrapf(ErrInvalidAmount, "%s", coin)
	}
	return nil
}

func signer(addr string) []sdk.AccAddress {
	acc, _ := sdk.AccAddressFromBech32(addr)
	return []sdk.AccAddress{acc}
}

// MsgDeposit tops up the reserve of a denom.
type MsgDeposit struct {
	Owner  string   `json:"owner"`
	Amount sdk.Coin `json:"amount"`
}

type MsgDepositResponse struct{}

func (msg MsgDeposit) Route() string { return RouterKey }
func (msg MsgDeposit) Type() string  { return TypeMsgDeposit }

func (msg MsgDeposit) ValidateBasic() error {
	if err := validateAddress("owner", msg.Owner); err != nil {
		return err
	}
	return validateCoin(msg.Amount)
}

func (msg MsgDeposit) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// MsgExchange pays Amount to receive TargetDenom at the next feed answer.
type MsgExchange struct {
	Sender      string   `json:"sender"`
	Amount      sdk.Coin `json:"amount"`
	TargetDenom string   `json:"target_denom"`
}

type MsgExchangeResponse struct {
	RequestID uint64 `json:"request_id"`
}

func NewMsgExchange(sender sdk.AccAddress, amount sdk.Coin, target string) *MsgExchange {
	return &MsgExchange{Sender: sender.String(), Amount: amount, TargetDenom: target}
}

func (msg MsgExchange) Route() string { return RouterKey }
func (msg MsgExchange) Type() string  { return TypeMsgExchange }

func (msg MsgExchange) ValidateBasic() error {
	if err := validateAddress("sender", msg.Sender); err != nil {
		return err
	}
	if err := validateCoin(msg.Amount); err != nil {
		return err
	}
	if err := sdk.ValidateDenom(msg.TargetDenom); err != nil {
		return errorsmod.Wrapf(ErrUnsupportedDenom, "%s", err)
	}
	return nil
}

func (msg MsgExchange) GetSigners() []sdk.AccAddress { return signer(msg.Sender) }
