package types

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GenesisPair is the exported state of one token pair.
type GenesisPair struct {
	From        string              `json:"from"`
	To          string              `json:"to"`
	Rounds      []TimestampedPrice  `json:"rounds"`
	Window      Window              `json:"window"`
	Submissions []PendingSubmission `json:"submissions,omitempty"`
}

// GenesisOracle is an oracle with its submission counters.
type GenesisOracle struct {
	Address string       `json:"address"`
	Status  OracleStatus `json:"status"`
}

type GenesisState struct {
	Owner   string          `json:"owner"`
	Params  Params          `json:"params"`
	Oracles []GenesisOracle `json:"oracles"`
	Pairs   []GenesisPair   `json:"pairs,omitempty"`
}

func NewGenesisState(owner string, params Params, oracles ...string) GenesisState {
	gs := GenesisState{Owner: owner, Params: params}
	for _, o := range oracles {
		gs.Oracles = append(gs.Oracles, GenesisOracle{Address: o})
	}
	return gs
}

// DefaultGenesisState has no owner and must be completed before use.
func DefaultGenesisState() *GenesisState {
	return &GenesisState{Params: DefaultParams()}
}

func (gs GenesisState) Validate() error {
	if _, err := sdk.AccAddressFromBech32(gs.Owner); err != nil {
		return errorsmod.Wrapf(ErrInvalidGenesis, "owner: %s", err)
	}
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	oracles := make(map[string]bool, len(gs.Oracles))
	for _, o := range gs.Oracles {
		if _, err := sdk.AccAddressFromBech32(o.Address); err != nil {
			return errorsmod.Wrapf(ErrInvalidGenesis, "oracle %q: %s", o.Address, err)
		}
		if oracles[o.Address] {
			return errorsmod.Wrapf(ErrInvalidGenesis, "duplicate oracle %s", o.Address)
		}
		if o.Status.AcceptedSubmissions > o.Status.TotalSubmissions {
			return errorsmod.Wrapf(ErrInvalidGenesis, "oracle %s accepted more than submitted", o.Address)
		}
		oracles[o.Address] = true
	}
	if len(gs.Oracles) > 0 && int(gs.Params.SubmissionCount) > len(gs.Oracles) {
		return errorsmod.Wrapf(ErrInvalidSubmissionCount, "%d above oracle count %d", gs.Params.SubmissionCount, len(gs.Oracles))
	}

	pairs := make(map[TokenPair]bool, len(gs.Pairs))
	for _, p := range gs.Pairs {
		pair := NewTokenPair(p.From, p.To)
		if err := pair.Validate(); err != nil {
			return err
		}
		if pairs[pair] {
			return errorsmod.Wrapf(ErrInvalidGenesis, "duplicate pair %s", pair)
		}
		pairs[pair] = true
		if len(p.Submissions) > SubmissionListMaxLen {
			return errorsmod.Wrapf(ErrSubmissionListCapacity, "pair %s", pair)
		}
		for _, s := range p.Submissions {
			if _, err := sdk.AccAddressFromBech32(s.Oracle); err != nil {
				return errorsmod.Wrapf(ErrInvalidGenesis, "pair %s: submission from %q: %s", pair, s.Oracle, err)
			}
			if s.Price.IsNil() || !s.Price.IsPositive() {
				return errorsmod.Wrapf(ErrInvalidPrice, "pair %s: %s", pair, s.Price)
			}
		}
		for i, r := range p.Rounds {
			if r.Price.IsNil() || !r.Price.IsPositive() {
				return errorsmod.Wrapf(ErrInvalidPrice, "pair %s round %d: %s", pair, i+1, r.Price)
			}
		}
	}
	return nil
}
