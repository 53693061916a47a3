package types

import (
	errorsmod "cosmossdk.io/errors"
)

// x/priceaggregator module sentinel errors
var (
	ErrNotOwner               = errorsmod.Register(ModuleName, 2, "only callable by owner")
	ErrNotOracle              = errorsmod.Register(ModuleName, 3, "only oracles allowed")
	ErrPaused                 = errorsmod.Register(ModuleName, 4, "contract paused")
	ErrFutureTimestamp        = errorsmod.Register(ModuleName, 5, "timestamp is from the future")
	ErrFirstSubmissionTooOld  = errorsmod.Register(ModuleName, 6, "first submission too old")
	ErrSubmissionListCapacity = errorsmod.Register(ModuleName, 7, "submission list capacity exceeded")
	ErrInvalidSubmissionCount = errorsmod.Register(ModuleName, 8, "invalid submission count")
	ErrInvalidTokenPair       = errorsmod.Register(ModuleName, 9, "invalid token pair")
	ErrTokenPairNotFound      = errorsmod.Register(ModuleName, 10, "token pair not found")
	ErrNoCompletedRounds      = errorsmod.Register(ModuleName, 11, "no completed rounds")
	ErrOracleNotFound         = errorsmod.Register(ModuleName, 12, "oracle not found")
	ErrInvalidPrice           = errorsmod.Register(ModuleName, 13, "invalid price")
	ErrInvalidGenesis         = errorsmod.Register(ModuleName, 14, "invalid genesis state")
	ErrEmptyBatch             = errorsmod.Register(ModuleName, 15, "empty submission batch")
)
