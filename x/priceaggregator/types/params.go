package types

import (
	errorsmod "cosmossdk.io/errors"

	aggtypes "github.com/GPTx-global/guru-aggregator/x/aggregator/types"
)

// MaxDecimals bounds the precision of reported prices.
const MaxDecimals = 36

// Params of the price aggregator.
type Params struct {
	SubmissionCount uint32 `json:"submission_count"`
	Decimals        uint32 `json:"decimals"`
	Paused          bool   `json:"paused"`
}

// DefaultParams starts paused, submissions are refused until the owner
// unpauses.
func DefaultParams() Params {
	return Params{
		SubmissionCount: 1,
		Decimals:        18,
		Paused:          true,
	}
}

func (p Params) Validate() error {
	if p.SubmissionCount == 0 || p.SubmissionCount > SubmissionListMaxLen {
		return errorsmod.Wrapf(ErrInvalidSubmissionCount, "%d not in [1, %d]", p.SubmissionCount, SubmissionListMaxLen)
	}
	if p.Decimals > MaxDecimals {
		return errorsmod.Wrapf(ErrInvalidGenesis, "decimals %d above %d", p.Decimals, MaxDecimals)
	}
	return nil
}

func (p Params) Marshal() []byte {
	return aggtypes.MustMarshalValue(p)
}

func (p *Params) Unmarshal(bz []byte) error {
	return aggtypes.UnmarshalValue(bz, p)
}
