package types

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	gurutypes "github.com/GPTx-global/guru-aggregator/types"
)

// aggregator message types
const (
	TypeMsgSubmit                  = ModuleName + "_submit"
	TypeMsgChangeOracles           = ModuleName + "_change_oracles"
	TypeMsgUpdateFutureRounds      = ModuleName + "_update_future_rounds"
	TypeMsgRequestNewRound         = ModuleName + "_request_new_round"
	TypeMsgSetRequesterPermissions = ModuleName + "_set_requester_permissions"
	TypeMsgTransferAdmin           = ModuleName + "_transfer_admin"
	TypeMsgAcceptAdmin             = ModuleName + "_accept_admin"
	TypeMsgWithdrawPayment         = ModuleName + "_withdraw_payment"
	TypeMsgWithdrawFunds           = ModuleName + "_withdraw_funds"
	TypeMsgDeposit                 = ModuleName + "_deposit"
	TypeMsgChangeOwner             = ModuleName + "_change_owner"
)

// MsgServer is the aggregator message service
type MsgServer interface {
	Submit(context.Context, *MsgSubmit) (*MsgSubmitResponse, error)
	ChangeOracles(context.Context, *MsgChangeOracles) (*MsgChangeOraclesResponse, error)
	UpdateFutureRounds(context.Context, *MsgUpdateFutureRounds) (*MsgUpdateFutureRoundsResponse, error)
	RequestNewRound(context.Context, *MsgRequestNewRound) (*MsgRequestNewRoundResponse, error)
	SetRequesterPermissions(context.Context, *MsgSetRequesterPermissions) (*MsgSetRequesterPermissionsResponse, error)
	TransferAdmin(context.Context, *MsgTransferAdmin) (*MsgTransferAdminResponse, error)
	AcceptAdmin(context.Context, *MsgAcceptAdmin) (*MsgAcceptAdminResponse, error)
	WithdrawPayment(context.Context, *MsgWithdrawPayment) (*MsgWithdrawPaymentResponse, error)
	WithdrawFunds(context.Context, *MsgWithdrawFunds) (*MsgWithdrawFundsResponse, error)
	Deposit(context.Context, *MsgDeposit) (*MsgDepositResponse, error)
	ChangeOwner(context.Context, *MsgChangeOwner) (*MsgChangeOwnerResponse, error)
}

func validateAddress(field, addr string) error {
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidAddress, " %s address, %s", field, err)
	}
	return nil
}

func validateAmount(amount math.Int) error {
	if amount.IsNil() || !amount.IsPositive() {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidCoins, " %s is not positive", amount)
	}
	return nil
}

func signer(addr string) []sdk.AccAddress {
	acc, _ := sdk.AccAddressFromBech32(addr)
	return []sdk.AccAddress{acc}
}

var (
	_ gurutypes.Msg = &MsgSubmit{}
	_ gurutypes.Msg = &MsgChangeOracles{}
	_ gurutypes.Msg = &MsgUpdateFutureRounds{}
	_ gurutypes.Msg = &MsgRequestNewRound{}
	_ gurutypes.Msg = &MsgSetRequesterPermissions{}
	_ gurutypes.Msg = &MsgTransferAdmin{}
	_ gurutypes.Msg = &MsgAcceptAdmin{}
	_ gurutypes.Msg = &MsgWithdrawPayment{}
	_ gurutypes.Msg = &MsgWithdrawFunds{}
	_ gurutypes.Msg = &MsgDeposit{}
	_ gurutypes.Msg = &MsgChangeOwner{}
)

// MsgSubmit reports values for a round.
type MsgSubmit struct {
	Oracle  string     `json:"oracle"`
	RoundID uint64     `json:"round_id"`
	Values  []math.Int `json:"values"`
}

type MsgSubmitResponse struct{}

func NewMsgSubmit(oracle sdk.AccAddress, roundID uint64, values ...math.Int) *MsgSubmit {
	return &MsgSubmit{Oracle: oracle.String(), RoundID: roundID, Values: values}
}

func (msg MsgSubmit) Route() string { return RouterKey }
func (msg MsgSubmit) Type() string  { return TypeMsgSubmit }

func (msg MsgSubmit) ValidateBasic() error {
	if err := validateAddress("oracle", msg.Oracle); err != nil {
		return err
	}
	if msg.RoundID == 0 {
		return errorsmod.Wrap(ErrInvalidRound, "round 0 cannot be reported")
	}
	if len(msg.Values) == 0 {
		return errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "submission has no values")
	}
	for _, v := range msg.Values {
		if v.IsNil() || v.IsNegative() {
			return errorsmod.Wrapf(sdkerrors.ErrInvalidRequest, "invalid value %s", v)
		}
	}
	return nil
}

func (msg MsgSubmit) GetSigners() []sdk.AccAddress { return signer(msg.Oracle) }

// MsgChangeOracles removes and adds oracles, then reapplies round params.
type MsgChangeOracles struct {
	Owner          string   `json:"owner"`
	Removed        []string `json:"removed"`
	Added          []string `json:"added"`
	AddedAdmins    []string `json:"added_admins"`
	MinSubmissions uint32   `json:"min_submissions"`
	MaxSubmissions uint32   `json:"max_submissions"`
	RestartDelay   uint32   `json:"restart_delay"`
}

type MsgChangeOraclesResponse struct{}

func (msg MsgChangeOracles) Route() string { return RouterKey }
func (msg MsgChangeOracles) Type() string  { return TypeMsgChangeOracles }

func (msg MsgChangeOracles) ValidateBasic() error {
	if err := validateAddress("owner", msg.Owner); err != nil {
		return err
	}
	if len(msg.Added) != len(msg.AddedAdmins) {
		return errorsmod.Wrapf(ErrAdminsLengthMismatch, "oracles: %d, admins: %d", len(msg.Added), len(msg.AddedAdmins))
	}
	for _, addr := range msg.Removed {
		if err := validateAddress("removed oracle", addr); err != nil {
			return err
		}
	}
	for i := range msg.Added {
		if err := validateAddress("added oracle", msg.Added[i]); err != nil {
			return err
		}
		if err := validateAddress("added admin", msg.AddedAdmins[i]); err != nil {
			return err
		}
	}
	if msg.MaxSubmissions < msg.MinSubmissions {
		return errorsmod.Wrapf(ErrMinExceedsMax, "min: %d, max: %d", msg.MinSubmissions, msg.MaxSubmissions)
	}
	return nil
}

func (msg MsgChangeOracles) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// MsgUpdateFutureRounds sets the params of rounds opened from now on.
type MsgUpdateFutureRounds struct {
	Owner          string   `json:"owner"`
	PaymentAmount  math.Int `json:"payment_amount"`
	MinSubmissions uint32   `json:"min_submissions"`
	MaxSubmissions uint32   `json:"max_submissions"`
	RestartDelay   uint32   `json:"restart_delay"`
	Timeout        uint64   `json:"timeout"`
}

type MsgUpdateFutureRoundsResponse struct{}

func (msg MsgUpdateFutureRounds) Route() string { return RouterKey }
func (msg MsgUpdateFutureRounds) Type() string  { return TypeMsgUpdateFutureRounds }

func (msg MsgUpdateFutureRounds) ValidateBasic() error {
	if err := validateAddress("owner", msg.Owner); err != nil {
		return err
	}
	return msg.Params().Validate()
}

func (msg MsgUpdateFutureRounds) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

func (msg MsgUpdateFutureRounds) Params() Params {
	return Params{
		PaymentAmount:      msg.PaymentAmount,
		MinSubmissionCount: msg.MinSubmissions,
		MaxSubmissionCount: msg.MaxSubmissions,
		RestartDelay:       msg.RestartDelay,
		Timeout:            msg.Timeout,
	}
}

// MsgRequestNewRound opens the next round on behalf of a requester.
type MsgRequestNewRound struct {
	Requester string `json:"requester"`
}

type MsgRequestNewRoundResponse struct {
	RoundID uint64 `json:"round_id"`
}

func (msg MsgRequestNewRound) Route() string { return RouterKey }
func (msg MsgRequestNewRound) Type() string  { return TypeMsgRequestNewRound }

func (msg MsgRequestNewRound) ValidateBasic() error {
	return validateAddress("requester", msg.Requester)
}

func (msg MsgRequestNewRound) GetSigners() []sdk.AccAddress { return signer(msg.Requester) }

// MsgSetRequesterPermissions authorizes or removes a requester.
type MsgSetRequesterPermissions struct {
	Owner      string `json:"owner"`
	Requester  string `json:"requester"`
	Authorized bool   `json:"authorized"`
	Delay      uint64 `json:"delay"`
}

type MsgSetRequesterPermissionsResponse struct{}

func (msg MsgSetRequesterPermissions) Route() string { return RouterKey }
func (msg MsgSetRequesterPermissions) Type() string  { return TypeMsgSetRequesterPermissions }

func (msg MsgSetRequesterPermissions) ValidateBasic() error {
	if err := validateAddress("owner", msg.Owner); err != nil {
		return err
	}
	return validateAddress("requester", msg.Requester)
}

func (msg MsgSetRequesterPermissions) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// MsgTransferAdmin proposes a new admin for an oracle.
type MsgTransferAdmin struct {
	Admin    string `json:"admin"`
	Oracle   string `json:"oracle"`
	NewAdmin string `json:"new_admin"`
}

type MsgTransferAdminResponse struct{}

func (msg MsgTransferAdmin) Route() string { return RouterKey }
func (msg MsgTransferAdmin) Type() string  { return TypeMsgTransferAdmin }

func (msg MsgTransferAdmin) ValidateBasic() error {
	if err := validateAddress("admin", msg.Admin); err != nil {
		return err
	}
	if err := validateAddress("oracle", msg.Oracle); err != nil {
		return err
	}
	return validateAddress("new admin", msg.NewAdmin)
}

func (msg MsgTransferAdmin) GetSigners() []sdk.AccAddress { return signer(msg.Admin) }

// MsgAcceptAdmin completes an admin transfer.
type MsgAcceptAdmin struct {
	NewAdmin string `json:"new_admin"`
	Oracle   string `json:"oracle"`
}

type MsgAcceptAdminResponse struct{}

func (msg MsgAcceptAdmin) Route() string { return RouterKey }
func (msg MsgAcceptAdmin) Type() string  { return TypeMsgAcceptAdmin }

func (msg MsgAcceptAdmin) ValidateBasic() error {
	if err := validateAddress("new admin", msg.NewAdmin); err != nil {
		return err
	}
	return validateAddress("oracle", msg.Oracle)
}

func (msg MsgAcceptAdmin) GetSigners() []sdk.AccAddress { return signer(msg.NewAdmin) }

// MsgWithdrawPayment pays out rewards accrued by an oracle.
type MsgWithdrawPayment struct {
	Admin     string   `json:"admin"`
	Oracle    string   `json:"oracle"`
	Recipient string   `json:"recipient"`
	Amount    math.Int `json:"amount"`
}

type MsgWithdrawPaymentResponse struct{}

func (msg MsgWithdrawPayment) Route() string { return RouterKey }
func (msg MsgWithdrawPayment) Type() string  { return TypeMsgWithdrawPayment }

func (msg MsgWithdrawPayment) ValidateBasic() error {
	if err := validateAddress("admin", msg.Admin); err != nil {
		return err
	}
	if err := validateAddress("oracle", msg.Oracle); err != nil {
		return err
	}
	if err := validateAddress("recipient", msg.Recipient); err != nil {
		return err
	}
	return validateAmount(msg.Amount)
}

func (msg MsgWithdrawPayment) GetSigners() []sdk.AccAddress { return signer(msg.Admin) }

// MsgWithdrawFunds moves unreserved funds out of the feed.
type MsgWithdrawFunds struct {
	Owner     string   `json:"owner"`
	Recipient string   `json:"recipient"`
	Amount    math.Int `json:"amount"`
}

type MsgWithdrawFundsResponse struct{}

func (msg MsgWithdrawFunds) Route() string { return RouterKey }
func (msg MsgWithdrawFunds) Type() string  { return TypeMsgWithdrawFunds }

func (msg MsgWithdrawFunds) ValidateBasic() error {
	if err := validateAddress("owner", msg.Owner); err != nil {
		return err
	}
	if err := validateAddress("recipient", msg.Recipient); err != nil {
		return err
	}
	return validateAmount(msg.Amount)
}

func (msg MsgWithdrawFunds) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// MsgDeposit funds oracle payments.
type MsgDeposit struct {
	Depositor string   `json:"depositor"`
	Amount    math.Int `json:"amount"`
}

type MsgDepositResponse struct{}

func (msg MsgDeposit) Route() string { return RouterKey }
func (msg MsgDeposit) Type() string  { return TypeMsgDeposit }

func (msg MsgDeposit) ValidateBasic() error {
	if err := validateAddress("depositor", msg.Depositor); err != nil {
		return err
	}
	return validateAmount(msg.Amount)
}

func (msg MsgDeposit) GetSigners() []sdk.AccAddress { return signer(msg.Depositor) }

// MsgChangeOwner hands the feed over to a new owner.
type MsgChangeOwner struct {
	Owner    string `json:"owner"`
	NewOwner string `json:"new_owner"`
}

type MsgChangeOwnerResponse struct{}

func (msg MsgChangeOwner) Route() string { return RouterKey }
func (msg MsgChangeOwner) Type() string  { return TypeMsgChangeOwner }

func (msg MsgChangeOwner) ValidateBasic() error {
	if err := validateAddress("owner", msg.Owner); err != nil {
		return err
	}
	return validateAddress("new owner", msg.NewOwner)
}

func (msg MsgChangeOwner) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }
