package types

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

type GenesisState struct {
	Owner         string           `json:"owner"`
	Reserves      []sdk.Coin       `json:"reserves"`
	Pending       []PendingRequest `json:"pending,omitempty"`
	NextRequestID uint64           `json:"next_request_id"`
}

func NewGenesisState(owner string, reserves ...sdk.Coin) GenesisState {
	return GenesisState{Owner: owner, Reserves: reserves, NextRequestID: 1}
}

// DefaultGenesisState has no owner and must be completed before use.
func DefaultGenesisState() *GenesisState {
	return &GenesisState{NextRequestID: 1}
}

func (gs GenesisState) Validate() error {
	if _, err := sdk.AccAddressFromBech32(gs.Owner); err != nil {
		return errorsmod.Wrapf(ErrInvalidGenesis, "owner: %s", err)
	}
	if gs.NextRequestID == 0 {
		return errorsmod.Wrap(ErrInvalidGenesis, "request ids start at 1")
	}

	denoms := make(map[string]bool, len(gs.Reserves))
	for _, c := range gs.Reserves {
		if err := c.Validate(); err != nil {
			return errorsmod.Wrapf(ErrInvalidGenesis, "reserve: %s", err)
		}
		if denoms[c.Denom] {
			return errorsmod.Wrapf(ErrInvalidGenesis, "duplicate reserve %s", c.Denom)
		}
		denoms[c.Denom] = true
	}

	ids := make(map[uint64]bool, len(gs.Pending))
	for _, r := range gs.Pending {
		if err := r.Validate(); err != nil {
			return err
		}
		if r.ID == 0 || r.ID >= gs.NextRequestID || ids[r.ID] {
			return errorsmod.Wrapf(ErrInvalidGenesis, "request id %d", r.ID)
		}
		ids[r.ID] = true
		if !denoms[r.Payment.Denom] || !denoms[r.TargetDenom] {
			return errorsmod.Wrapf(ErrUnsupportedDenom, "request %d: %s to %s", r.ID, r.Payment.Denom, r.TargetDenom)
		}
	}
	return nil
}
