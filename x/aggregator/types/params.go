package types

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	gurutypes "github.com/GPTx-global/guru-aggregator/types"
)

const MaxDescriptionLength = 256

// Params are applied to every round opened after they are set.
type Params struct {
	PaymentAmount      math.Int `json:"payment_amount"`
	MinSubmissionCount uint32   `json:"min_submission_count"`
	MaxSubmissionCount uint32   `json:"max_submission_count"`
	RestartDelay       uint32   `json:"restart_delay"`
	Timeout            uint64   `json:"timeout"`
}

func DefaultParams() Params {
	return Params{
		PaymentAmount: math.ZeroInt(),
	}
}

// Validate checks the parts of Params that do not depend on the registry.
func (p Params) Validate() error {
	if p.PaymentAmount.IsNil() || p.PaymentAmount.IsNegative() {
		return errorsmod.Wrapf(ErrInvalidParams, "payment amount must be non-negative: %s", p.PaymentAmount)
	}
	if p.MaxSubmissionCount < p.MinSubmissionCount {
		return errorsmod.Wrapf(ErrMinExceedsMax, "min: %d, max: %d", p.MinSubmissionCount, p.MaxSubmissionCount)
	}
	return nil
}

func (p Params) Marshal() []byte {
	return MustMarshalValue(p)
}

func (p *Params) Unmarshal(bz []byte) error {
	return UnmarshalValue(bz, p)
}

// FeedConfig is fixed when the feed is created.
type FeedConfig struct {
	Denom              string   `json:"denom"`
	MinSubmissionValue math.Int `json:"min_submission_value"`
	MaxSubmissionValue math.Int `json:"max_submission_value"`
	Decimals           uint32   `json:"decimals"`
	Description        string   `json:"description"`
}

func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		Denom:              gurutypes.AttoGuru,
		MinSubmissionValue: math.ZeroInt(),
		MaxSubmissionValue: math.NewIntWithDecimal(1, 36),
		Decimals:           gurutypes.PriceDecimals,
		Description:        "GURU/USD",
	}
}

func (c FeedConfig) Validate() error {
	if err := sdk.ValidateDenom(c.Denom); err != nil {
		return errorsmod.Wrap(ErrInvalidParams, err.Error())
	}
	if c.MinSubmissionValue.IsNil() || c.MaxSubmissionValue.IsNil() {
		return errorsmod.Wrap(ErrInvalidParams, "submission bounds must be set")
	}
	if c.MinSubmissionValue.IsNegative() {
		return errorsmod.Wrapf(ErrInvalidParams, "min submission value must be non-negative: %s", c.MinSubmissionValue)
	}
	if c.MaxSubmissionValue.LT(c.MinSubmissionValue) {
		return errorsmod.Wrapf(ErrInvalidParams, "max submission value %s below min %s", c.MaxSubmissionValue, c.MinSubmissionValue)
	}
	if len(c.Description) > MaxDescriptionLength {
		return errorsmod.Wrap(ErrInvalidParams, fmt.Sprintf("description longer than %d", MaxDescriptionLength))
	}
	return nil
}

// CheckValue enforces the configured submission bounds.
func (c FeedConfig) CheckValue(v math.Int) error {
	if v.LT(c.MinSubmissionValue) {
		return errorsmod.Wrapf(ErrValueBelowMin, "%s < %s", v, c.MinSubmissionValue)
	}
	if v.GT(c.MaxSubmissionValue) {
		return errorsmod.Wrapf(ErrValueAboveMax, "%s > %s", v, c.MaxSubmissionValue)
	}
	return nil
}

func (c FeedConfig) Marshal() []byte {
	return MustMarshalValue(c)
}

func (c *FeedConfig) Unmarshal(bz []byte) error {
	return UnmarshalValue(bz, c)
}
