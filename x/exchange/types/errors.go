package types

import (
	errorsmod "cosmossdk.io/errors"
)

// errors
var (
	ErrNotOwner            = errorsmod.Register(ModuleName, 2, "only the owner can deposit tokens")
	ErrUnsupportedDenom    = errorsmod.Register(ModuleName, 3, "denom not supported by the exchange")
	ErrInvalidAmount       = errorsmod.Register(ModuleName, 4, "payment must be more than 0")
	ErrRequestNotFound     = errorsmod.Register(ModuleName, 5, "exchange request not found")
	ErrInvalidDescription  = errorsmod.Register(ModuleName, 6, "invalid aggregator description format (expected 2 tokens)")
	ErrUnsupportedPair     = errorsmod.Register(ModuleName, 7, "exchange between chosen token types not supported")
	ErrNoRoundData         = errorsmod.Register(ModuleName, 8, "no aggregator data")
	ErrInvalidAnswerFormat = errorsmod.Register(ModuleName, 9, "invalid aggregator data format")
	ErrDivisionByZero      = errorsmod.Register(ModuleName, 10, "convert - dividing by 0")
	ErrInsufficientReserve = errorsmod.Register(ModuleName, 11, "insufficient reserve")
	ErrInvalidGenesis      = errorsmod.Register(ModuleName, 12, "invalid genesis state")
	ErrPriceFeed           = errorsmod.Register(ModuleName, 13, "error when getting the price feed from the aggregator")
)
