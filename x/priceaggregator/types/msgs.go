package types

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	gurutypes "github.com/GPTx-global/guru-aggregator/types"
)

// priceaggregator message types
const (
	TypeMsgSubmitPrice        = ModuleName + "_submit_price"
	TypeMsgSubmitPriceBatch   = ModuleName + "_submit_price_batch"
	TypeMsgAddOracles         = ModuleName + "_add_oracles"
	TypeMsgRemoveOracles      = ModuleName + "_remove_oracles"
	TypeMsgSetSubmissionCount = ModuleName + "_set_submission_count"
	TypeMsgPause              = ModuleName + "_pause"
	TypeMsgUnpause            = ModuleName + "_unpause"
	TypeMsgChangeOwner        = ModuleName + "_change_owner"
)

// MsgServer is the priceaggregator message service
type MsgServer interface {
	SubmitPrice(context.Context, *MsgSubmitPrice) (*MsgSubmitPriceResponse, error)
	SubmitPriceBatch(context.Context, *MsgSubmitPriceBatch) (*MsgSubmitPriceBatchResponse, error)
	AddOracles(context.Context, *MsgAddOracles) (*MsgAddOraclesResponse, error)
	RemoveOracles(context.Context, *MsgRemoveOracles) (*MsgRemoveOraclesResponse, error)
	SetSubmissionCount(context.Context, *MsgSetSubmissionCount) (*MsgSetSubmissionCountResponse, error)
	Pause(context.Context, *MsgPause) (*MsgPauseResponse, error)
	Unpause(context.Context, *MsgUnpause) (*MsgUnpauseResponse, error)
	ChangeOwner(context.Context, *MsgChangeOwner) (*MsgChangeOwnerResponse, error)
}

var (
	_ gurutypes.Msg = &MsgSubmitPrice{}
	_ gurutypes.Msg = &MsgSubmitPriceBatch{}
	_ gurutypes.Msg = &MsgAddOracles{}
	_ gurutypes.Msg = &MsgRemoveOracles{}
	_ gurutypes.Msg = &MsgSetSubmissionCount{}
	_ gurutypes.Msg = &MsgPause{}
	_ gurutypes.Msg = &MsgUnpause{}
	_ gurutypes.Msg = &MsgChangeOwner{}
)

func validateAddress(field, addr string) error {
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidAddress, " %s address, %s", field, err)
	}
	return nil
}

func signer(addr string) []sdk.AccAddress {
	acc, _ := sdk.AccAddressFromBech32(addr)
	return []sdk.AccAddress{acc}
}

// PriceSubmission is a price observed for a pair at Timestamp.
type PriceSubmission struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	Timestamp uint64   `json:"timestamp"`
	Price     math.Int `json:"price"`
}

func (s PriceSubmission) Pair() TokenPair {
	return NewTokenPair(s.From, s.To)
}

func (s PriceSubmission) Validate() error {
	if err := s.Pair().Validate(); err != nil {
		return err
	}
	if s.Price.IsNil() || !s.Price.IsPositive() {
		return errorsmod.Wrapf(ErrInvalidPrice, "%s is not positive", s.Price)
	}
	return nil
}

// MsgSubmitPrice reports one price.
type MsgSubmitPrice struct {
	Oracle     string          `json:"oracle"`
	Submission PriceSubmission `json:"submission"`
}

// MsgSubmitPriceResponse reports whether the price was kept and the round it
// completed, if any.
type MsgSubmitPriceResponse struct {
	Accepted bool   `json:"accepted"`
	RoundID  uint64 `json:"round_id,omitempty"`
}

func NewMsgSubmitPrice(oracle sdk.AccAddress, from, to string, timestamp uint64, price math.Int) *MsgSubmitPrice {
	return &MsgSubmitPrice{
		Oracle:     oracle.String(),
		Submission: PriceSubmission{From: from, To: to, Timestamp: timestamp, Price: price},
	}
}

func (msg MsgSubmitPrice) Route() string { return RouterKey }
func (msg MsgSubmitPrice) Type() string  { return TypeMsgSubmitPrice }

func (msg MsgSubmitPrice) ValidateBasic() error {
	if err := validateAddress("oracle", msg.Oracle); err != nil {
		return err
	}
	return msg.Submission.Validate()
}

func (msg MsgSubmitPrice) GetSigners() []sdk.AccAddress { return signer(msg.Oracle) }

// MsgSubmitPriceBatch reports several prices in one call.
type MsgSubmitPriceBatch struct {
	Oracle      string            `json:"oracle"`
	Submissions []PriceSubmission `json:"submissions"`
}

type MsgSubmitPriceBatchResponse struct {
	Results []MsgSubmitPriceResponse `json:"results"`
}

func (msg MsgSubmitPriceBatch) Route() string { return RouterKey }
func (msg MsgSubmitPriceBatch) Type() string  { return TypeMsgSubmitPriceBatch }

func (msg MsgSubmitPriceBatch) ValidateBasic() error {
	if err := validateAddress("oracle", msg.Oracle); err != nil {
		return err
	}
	if len(msg.Submissions) == 0 {
		return ErrEmptyBatch
	}
	for i, s := range msg.Submissions {
		if err := s.Validate(); err != nil {
			return errorsmod.Wrapf(err, "submission %d", i)
		}
	}
	return nil
}

func (msg MsgSubmitPriceBatch) GetSigners() []sdk.AccAddress { return signer(msg.Oracle) }

// MsgAddOracles allows new oracles to submit.
type MsgAddOracles struct {
	Owner   string   `json:"owner"`
	Oracles []string `json:"oracles"`
}

type MsgAddOraclesResponse struct{}

func (msg MsgAddOracles) Route() string { return RouterKey }
func (msg MsgAddOracles) Type() string  { return TypeMsgAddOracles }

func (msg MsgAddOracles) ValidateBasic() error {
	if err := validateAddress("owner", msg.Owner); err != nil {
		return err
	}
	if len(msg.Oracles) == 0 {
		return errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "no oracles given")
	}
	for _, o := range msg.Oracles {
		if err := validateAddress("oracle", o); err != nil {
			return err
		}
	}
	return nil
}

func (msg MsgAddOracles) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// MsgRemoveOracles removes oracles and sets the submission count the
// remaining set can satisfy.
type MsgRemoveOracles struct {
	Owner           string   `json:"owner"`
	SubmissionCount uint32   `json:"submission_count"`
	Oracles         []string `json:"oracles"`
}

type MsgRemoveOraclesResponse struct{}

func (msg MsgRemoveOracles) Route() string { return RouterKey }
func (msg MsgRemoveOracles) Type() string  { return TypeMsgRemoveOracles }

func (msg MsgRemoveOracles) ValidateBasic() error {
	if err := validateAddress("owner", msg.Owner); err != nil {
		return err
	}
	if msg.SubmissionCount == 0 {
		return errorsmod.Wrap(ErrInvalidSubmissionCount, "must be positive")
	}
	for _, o := range msg.Oracles {
		if err := validateAddress("oracle", o); err != nil {
			return err
		}
	}
	return nil
}

func (msg MsgRemoveOracles) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// MsgSetSubmissionCount sets how many submissions complete a round.
type MsgSetSubmissionCount struct {
	Owner           string `json:"owner"`
	SubmissionCount uint32 `json:"submission_count"`
}

type MsgSetSubmissionCountResponse struct{}

func (msg MsgSetSubmissionCount) Route() string { return RouterKey }
func (msg MsgSetSubmissionCount) Type() string  { return TypeMsgSetSubmissionCount }

func (msg MsgSetSubmissionCount) ValidateBasic() error {
	if err := validateAddress("owner", msg.Owner); err != nil {
		return err
	}
	if msg.SubmissionCount == 0 {
		return errorsmod.Wrap(ErrInvalidSubmissionCount, "must be positive")
	}
	return nil
}

func (msg MsgSetSubmissionCount) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// MsgPause stops accepting submissions.
type MsgPause struct {
	Owner string `json:"owner"`
}

type MsgPauseResponse struct{}

func (msg MsgPause) Route() string { return RouterKey }
func (msg MsgPause) Type() string  { return TypeMsgPause }

func (msg MsgPause) ValidateBasic() error {
	return validateAddress("owner", msg.Owner)
}

func (msg MsgPause) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// MsgUnpause resumes accepting submissions.
type MsgUnpause struct {
	Owner string `json:"owner"`
}

type MsgUnpauseResponse struct{}

func (msg MsgUnpause) Route() string { return RouterKey }
func (msg MsgUnpause) Type() string  { return TypeMsgUnpause }

func (msg MsgUnpause) ValidateBasic() error {
	return validateAddress("owner", msg.Owner)
}

func (msg MsgUnpause) GetSigners() []sdk.AccAddress { return signer(msg.Owner) }

// MsgChangeOwner hands the price aggregator to a new owner.
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
