package types

import (
	"strings"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	aggtypes "github.com/GPTx-global/guru-aggregator/x/aggregator/types"
)

// PendingRequest is an exchange waiting for the aggregator answer. Payment
// is already held by the module and counted in the source reserve.
type PendingRequest struct {
	ID          uint64   `json:"id"`
	Sender      string   `json:"sender"`
	Payment     sdk.Coin `json:"payment"`
	TargetDenom string   `json:"target_denom"`
}

func (r PendingRequest) Validate() error {
	if _, err := sdk.AccAddressFromBech32(r.Sender); err != nil {
		return errorsmod.Wrapf(ErrInvalidGenesis, "request %d sender: %s", r.ID, err)
	}
	if !r.Payment.IsValid() || !r.Payment.IsPositive() {
		return errorsmod.Wrapf(ErrInvalidAmount, "request %d: %s", r.ID, r.Payment)
	}
	if err := sdk.ValidateDenom(r.TargetDenom); err != nil {
		return errorsmod.Wrapf(ErrUnsupportedDenom, "request %d: %s", r.ID, err)
	}
	return nil
}

func (r PendingRequest) Marshal() []byte {
	return aggtypes.MustMarshalValue(r)
}

func (r *PendingRequest) Unmarshal(bz []byte) error {
	return aggtypes.UnmarshalValue(bz, r)
}

// Direction resolves a feed description "A/B" against an exchange from
// source to target. inverse is true when the feed quotes target in source.
func Direction(description, source, target string) (inverse bool, err error) {
	first, second, ok := strings.Cut(description, "/")
	if !ok || first == "" || second == "" {
		return false, errorsmod.Wrapf(ErrInvalidDescription, "%q", description)
	}
	switch {
	case first == source && second == target:
		return false, nil
	case first == target && second == source:
		return true, nil
	default:
		return false, errorsmod.Wrapf(ErrUnsupportedPair, "%s to %s with feed %s", source, target, description)
	}
}

// math.Int holds at most 256 bits.
const maxProductBits = 255

// Convert applies a feed answer with the given decimals to amount. A feed
// "A/B" with rate r converts A to B as amount*r/10^decimals and B to A as
// amount*10^decimals/r.
func Convert(amount, rate math.Int, decimals uint32, inverse bool) (math.Int, error) {
	precision := math.NewIntWithDecimal(1, int(decimals))
	multiplier, divisor := rate, precision
	if inverse {
		multiplier, divisor = precision, rate
	}
	if divisor.IsZero() {
		return math.Int{}, ErrDivisionByZero
	}
	if amount.BigInt().BitLen()+multiplier.BigInt().BitLen() > maxProductBits {
		return math.Int{}, errorsmod.Wrapf(ErrInvalidAmount, "%s overflows the conversion", amount)
	}
	return amount.Mul(multiplier).Quo(divisor), nil
}
