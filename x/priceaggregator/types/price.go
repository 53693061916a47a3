package types

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	aggtypes "github.com/GPTx-global/guru-aggregator/x/aggregator/types"
)

const (
	// MaxRoundDuration is how long a window stays open, in seconds, before its
	// submissions are discarded.
	MaxRoundDuration uint64 = 1800

	// FirstSubmissionMaxAge bounds how old the timestamp of the submission
	// opening a window may be, in seconds.
	FirstSubmissionMaxAge uint64 = 30

	// SubmissionListMaxLen bounds the submissions combined into one round.
	SubmissionListMaxLen = 50
)

// TokenPair identifies a price feed.
type TokenPair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func NewTokenPair(from, to string) TokenPair {
	return TokenPair{From: from, To: to}
}

func (p TokenPair) String() string {
	return fmt.Sprintf("%s/%s", p.From, p.To)
}

func (p TokenPair) Validate() error {
	if err := sdk.ValidateDenom(p.From); err != nil {
		return errorsmod.Wrapf(ErrInvalidTokenPair, "from: %s", err)
	}
	if err := sdk.ValidateDenom(p.To); err != nil {
		return errorsmod.Wrapf(ErrInvalidTokenPair, "to: %s", err)
	}
	if p.From == p.To {
		return errorsmod.Wrapf(ErrInvalidTokenPair, "%s quoted in itself", p.From)
	}
	return nil
}

// Key is the store encoding of the pair, each side length prefixed.
func (p TokenPair) Key() []byte {
	bz := make([]byte, 0, len(p.From)+len(p.To)+2)
	bz = append(bz, byte(len(p.From)))
	bz = append(bz, p.From...)
	bz = append(bz, byte(len(p.To)))
	bz = append(bz, p.To...)
	return bz
}

// TokenPairFromKey decodes a pair written by Key and returns the remaining
// bytes.
func TokenPairFromKey(key []byte) (TokenPair, []byte, error) {
	from, rest, err := splitLengthPrefixed(key)
	if err != nil {
		return TokenPair{}, nil, err
	}
	to, rest, err := splitLengthPrefixed(rest)
	if err != nil {
		return TokenPair{}, nil, err
	}
	return TokenPair{From: string(from), To: string(to)}, rest, nil
}

func splitLengthPrefixed(bz []byte) ([]byte, []byte, error) {
	if len(bz) == 0 || len(bz) < 1+int(bz[0]) {
		return nil, nil, errorsmod.Wrap(ErrInvalidTokenPair, "malformed pair key")
	}
	n := int(bz[0])
	return bz[1 : 1+n], bz[1+n:], nil
}

// TimestampedPrice is a completed round of a pair.
type TimestampedPrice struct {
	Price     math.Int `json:"price"`
	Timestamp uint64   `json:"timestamp"`
}

func (p TimestampedPrice) Marshal() []byte {
	return aggtypes.MustMarshalValue(p)
}

func (p *TimestampedPrice) Unmarshal(bz []byte) error {
	return aggtypes.UnmarshalValue(bz, p)
}

// PriceFeed is the latest round of a pair as served to consumers.
type PriceFeed struct {
	RoundID   uint64   `json:"round_id"`
	From      string   `json:"from"`
	To        string   `json:"to"`
	Timestamp uint64   `json:"timestamp"`
	Price     math.Int `json:"price"`
	Decimals  uint32   `json:"decimals"`
}

// Window tracks the open submission window of a pair.
type Window struct {
	FirstSubmissionTimestamp uint64 `json:"first_submission_timestamp"`
	LastSubmissionTimestamp  uint64 `json:"last_submission_timestamp"`
}

func (w Window) Marshal() []byte {
	return aggtypes.MustMarshalValue(w)
}

func (w *Window) Unmarshal(bz []byte) error {
	return aggtypes.UnmarshalValue(bz, w)
}

// PendingSubmission is a price waiting for the window to fill.
type PendingSubmission struct {
	Oracle string   `json:"oracle"`
	Price  math.Int `json:"price"`
}

// OracleStatus counts the submissions of an oracle.
type OracleStatus struct {
	TotalSubmissions    uint64 `json:"total_submissions"`
	AcceptedSubmissions uint64 `json:"accepted_submissions"`
}

func (s OracleStatus) Marshal() []byte {
	return aggtypes.MustMarshalValue(s)
}

func (s *OracleStatus) Unmarshal(bz []byte) error {
	return aggtypes.UnmarshalValue(bz, s)
}

type storedPrice struct {
	Price math.Int `json:"price"`
}

// MarshalPrice encodes a pending submission value.
func MarshalPrice(price math.Int) []byte {
	return aggtypes.MustMarshalValue(storedPrice{Price: price})
}

func UnmarshalPrice(bz []byte) (math.Int, error) {
	var stored storedPrice
	if err := aggtypes.UnmarshalValue(bz, &stored); err != nil {
		return math.Int{}, err
	}
	return stored.Price, nil
}
