package types

import (
	errorsmod "cosmossdk.io/errors"
)

// authorization errors
var (
	ErrNotOwner               = errorsmod.Register(ModuleName, 2, "only callable by owner")
	ErrNotAdmin               = errorsmod.Register(ModuleName, 3, "only callable by admin")
	ErrNotPendingAdmin        = errorsmod.Register(ModuleName, 4, "only callable by pending admin")
	ErrNotAuthorizedRequester = errorsmod.Register(ModuleName, 5, "not authorized requester")
	ErrNotEnabledOracle       = errorsmod.Register(ModuleName, 6, "not enabled oracle")
	ErrNotYetEnabledOracle    = errorsmod.Register(ModuleName, 7, "not yet enabled oracle")
	ErrNoLongerAllowedOracle  = errorsmod.Register(ModuleName, 8, "no longer allowed oracle")
)

// sequencing errors
var (
	ErrReportedPreviousRound    = errorsmod.Register(ModuleName, 10, "cannot report on previous rounds")
	ErrInvalidRound             = errorsmod.Register(ModuleName, 11, "invalid round to report")
	ErrPrevRoundNotSupersedable = errorsmod.Register(ModuleName, 12, "previous round not supersedable")
	ErrRoundNotAccepting        = errorsmod.Register(ModuleName, 13, "round not accepting submissions")
	ErrMustDelayRequests        = errorsmod.Register(ModuleName, 14, "must delay requests")
	ErrOracleAlreadyEnabled     = errorsmod.Register(ModuleName, 15, "oracle already enabled")
)

// range errors
var (
	ErrValueBelowMin             = errorsmod.Register(ModuleName, 20, "value below min submission value")
	ErrValueAboveMax             = errorsmod.Register(ModuleName, 21, "value above max submission value")
	ErrMinExceedsMax             = errorsmod.Register(ModuleName, 22, "max must equal/exceed min")
	ErrMaxExceedsTotal           = errorsmod.Register(ModuleName, 23, "max cannot exceed total")
	ErrDelayExceedsTotal         = errorsmod.Register(ModuleName, 24, "delay cannot exceed total")
	ErrMinSubmissionsZero        = errorsmod.Register(ModuleName, 25, "min must be greater than 0")
	ErrTooManyOracles            = errorsmod.Register(ModuleName, 26, "max oracles allowed")
	ErrAdminsLengthMismatch      = errorsmod.Register(ModuleName, 27, "need same oracle and admin count")
	ErrSubmissionLength          = errorsmod.Register(ModuleName, 28, "submission length differs from round")
	ErrOwnerCannotOverwriteAdmin = errorsmod.Register(ModuleName, 29, "owner cannot overwrite admin")
)

// resource errors
var (
	ErrInsufficientFundsForPayment = errorsmod.Register(ModuleName, 30, "insufficient funds for payment")
	ErrInsufficientReserveFunds    = errorsmod.Register(ModuleName, 31, "insufficient reserve funds")
	ErrInsufficientWithdrawable    = errorsmod.Register(ModuleName, 32, "insufficient withdrawable funds")
	ErrInsufficientAvailable       = errorsmod.Register(ModuleName, 33, "insufficient available funds")
)

// not-found errors
var (
	ErrRoundNotFound     = errorsmod.Register(ModuleName, 40, "round not found")
	ErrDetailsNotFound   = errorsmod.Register(ModuleName, 41, "round details not found")
	ErrOracleNotFound    = errorsmod.Register(ModuleName, 42, "oracle not found")
	ErrRequesterNotFound = errorsmod.Register(ModuleName, 43, "requester not found")
)

var (
	ErrInvalidGenesis  = errorsmod.Register(ModuleName, 50, "invalid genesis state")
	ErrInvalidParams   = errorsmod.Register(ModuleName, 51, "invalid params")
	ErrInvalidEncoding = errorsmod.Register(ModuleName, 52, "invalid store encoding")
	ErrNoData          = errorsmod.Register(ModuleName, 53, "no data present")
)
