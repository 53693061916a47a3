package types

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Balance is the holdings of one account.
type Balance struct {
	Address string    `json:"address"`
	Coins   sdk.Coins `json:"coins"`
}

// GenesisState lists the initial balances. Module accounts are funded by
// naming them in ModuleBalances.
type GenesisState struct {
	Balances       []Balance       `json:"balances"`
	ModuleBalances []ModuleBalance `json:"module_balances"`
}

type ModuleBalance struct {
	Module string    `json:"module"`
	Coins  sdk.Coins `json:"coins"`
}

func DefaultGenesisState() *GenesisState {
	return &GenesisState{}
}

func (gs GenesisState) Validate() error {
	seen := make(map[string]bool, len(gs.Balances))
	for _, b := range gs.Balances {
		if _, err := sdk.AccAddressFromBech32(b.Address); err != nil {
			return errorsmod.Wrapf(ErrInvalidBalance, "address %q: %s", b.Address, err)
		}
		if seen[b.Address] {
			return errorsmod.Wrapf(ErrInvalidBalance, "duplicate balance for %s", b.Address)
		}
		seen[b.Address] = true
		if err := b.Coins.Validate(); err != nil {
			return errorsmod.Wrapf(ErrInvalidBalance, "%s: %s", b.Address, err)
		}
	}
	for _, m := range gs.ModuleBalances {
		if m.Module == "" {
			return errorsmod.Wrap(ErrInvalidBalance, "module name cannot be empty")
		}
		if err := m.Coins.Validate(); err != nil {
			return errorsmod.Wrapf(ErrInvalidBalance, "%s: %s", m.Module, err)
		}
	}
	return nil
}
