package types

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GenesisOracle is an oracle added when the feed is created.
type GenesisOracle struct {
	Address string `json:"address"`
	Admin   string `json:"admin"`
}

// GenesisRequester is a requester authorized when the feed is created.
type GenesisRequester struct {
	Address string `json:"address"`
	Delay   uint64 `json:"delay"`
}

// GenesisState configures a new feed, or restores an exported one when
// State is set.
type GenesisState struct {
	Owner      string             `json:"owner"`
	FeedConfig FeedConfig         `json:"feed_config"`
	Params     Params             `json:"params"`
	Oracles    []GenesisOracle    `json:"oracles"`
	Requesters []GenesisRequester `json:"requesters"`
	State      *ExportedState     `json:"state,omitempty"`
}

// ExportedState is a full dump of a running feed.
type ExportedState struct {
	ReportingRoundID uint64              `json:"reporting_round_id"`
	LatestRoundID    uint64              `json:"latest_round_id"`
	Funds            Funds               `json:"recorded_funds"`
	Rounds           []Round             `json:"rounds"`
	Details          []ExportedDetails   `json:"details"`
	Oracles          []ExportedOracle    `json:"oracles"`
	Requesters       []ExportedRequester `json:"requesters"`
}

type ExportedDetails struct {
	RoundID uint64       `json:"round_id"`
	Details RoundDetails `json:"details"`
}

type ExportedOracle struct {
	Address string       `json:"address"`
	Status  OracleStatus `json:"status"`
}

type ExportedRequester struct {
	Address   string    `json:"address"`
	Requester Requester `json:"requester"`
}

func NewGenesisState(owner string, config FeedConfig, params Params, oracles []GenesisOracle) GenesisState {
	return GenesisState{
		Owner:      owner,
		FeedConfig: config,
		Params:     params,
		Oracles:    oracles,
	}
}

// DefaultGenesisState has no owner and must be completed before use.
func DefaultGenesisState() *GenesisState {
	return &GenesisState{
		FeedConfig: DefaultFeedConfig(),
		Params:     DefaultParams(),
	}
}

func (gs GenesisState) Validate() error {
	if _, err := sdk.AccAddressFromBech32(gs.Owner); err != nil {
		return errorsmod.Wrapf(ErrInvalidGenesis, "owner: %s", err)
	}
	if err := gs.FeedConfig.Validate(); err != nil {
		return err
	}
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	if len(gs.Oracles) > MaxOracleCount {
		return errorsmod.Wrapf(ErrTooManyOracles, "%d > %d", len(gs.Oracles), MaxOracleCount)
	}
	seen := make(map[string]bool, len(gs.Oracles))
	for _, o := range gs.Oracles {
		if _, err := sdk.AccAddressFromBech32(o.Address); err != nil {
			return errorsmod.Wrapf(ErrInvalidGenesis, "oracle %q: %s", o.Address, err)
		}
		if _, err := sdk.AccAddressFromBech32(o.Admin); err != nil {
			return errorsmod.Wrapf(ErrInvalidGenesis, "admin of %s: %s", o.Address, err)
		}
		if seen[o.Address] {
			return errorsmod.Wrapf(ErrInvalidGenesis, "duplicate oracle %s", o.Address)
		}
		seen[o.Address] = true
	}
	for _, r := range gs.Requesters {
		if _, err := sdk.AccAddressFromBech32(r.Address); err != nil {
			return errorsmod.Wrapf(ErrInvalidGenesis, "requester %q: %s", r.Address, err)
		}
	}

	if gs.State != nil {
		return gs.State.Validate()
	}
	return nil
}

func (s ExportedState) Validate() error {
	if s.LatestRoundID > s.ReportingRoundID {
		return errorsmod.Wrapf(ErrInvalidGenesis, "latest round %d after reporting round %d", s.LatestRoundID, s.ReportingRoundID)
	}
	if s.Funds.Available.IsNil() || s.Funds.Allocated.IsNil() || s.Funds.Available.IsNegative() || s.Funds.Allocated.IsNegative() {
		return errorsmod.Wrap(ErrInvalidGenesis, "recorded funds must be non-negative")
	}
	found := false
	for _, r := range s.Rounds {
		if r.RoundID == s.ReportingRoundID {
			found = true
		}
	}
	if !found {
		return errorsmod.Wrapf(ErrInvalidGenesis, "reporting round %d missing", s.ReportingRoundID)
	}
	for _, d := range s.Details {
		if uint32(len(d.Details.Submissions)) > d.Details.MaxSubmissions {
			return errorsmod.Wrapf(ErrInvalidGenesis, "round %d holds more than %d submissions", d.RoundID, d.Details.MaxSubmissions)
		}
	}
	for _, o := range s.Oracles {
		if _, err := sdk.AccAddressFromBech32(o.Address); err != nil {
			return errorsmod.Wrapf(ErrInvalidGenesis, "oracle %q: %s", o.Address, err)
		}
	}
	return nil
}
