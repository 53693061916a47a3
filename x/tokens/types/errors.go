package types

import (
	errorsmod "cosmossdk.io/errors"
)

// errors
var (
	ErrNoAccountBalances = errorsmod.Register(ModuleName, 2, "account has no balances")
	ErrInvalidBalance    = errorsmod.Register(ModuleName, 3, "invalid balance")
	ErrSendDisabled      = errorsmod.Register(ModuleName, 4, "send to module account is not allowed")
)
