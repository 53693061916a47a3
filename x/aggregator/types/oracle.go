package types

import (
	"math"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// RoundMax marks an oracle that has not been removed.
	RoundMax uint64 = math.MaxUint64

	// MaxOracleCount caps the registry size.
	MaxOracleCount = 77
)

// AdminState is the admin of an oracle, either stable or in the middle of a
// two step transfer to Candidate.
type AdminState struct {
	Admin     sdk.AccAddress `json:"admin"`
	Candidate sdk.AccAddress `json:"pending_admin,omitempty"`
}

func StableAdmin(admin sdk.AccAddress) AdminState {
	return AdminState{Admin: admin}
}

// Pending reports whether a transfer is waiting for acceptance.
func (a AdminState) Pending() bool {
	return len(a.Candidate) != 0
}

// Propose starts a transfer. Only the current admin may call it.
func (a AdminState) Propose(caller, candidate sdk.AccAddress) (AdminState, error) {
	if !a.Admin.Equals(caller) {
		return a, errorsmod.Wrapf(ErrNotAdmin, "expected: %s, got: %s", a.Admin, caller)
	}
	return AdminState{Admin: a.Admin, Candidate: candidate}, nil
}

// Accept completes a transfer. Only the candidate may call it.
func (a AdminState) Accept(caller sdk.AccAddress) (AdminState, error) {
	if !a.Pending() || !a.Candidate.Equals(caller) {
		return a, errorsmod.Wrapf(ErrNotPendingAdmin, "got: %s", caller)
	}
	return StableAdmin(caller), nil
}

// OracleStatus is the registry entry of one reporter.
type OracleStatus struct {
	Withdrawable      sdkmath.Int `json:"withdrawable"`
	StartingRound     uint64      `json:"starting_round"`
	EndingRound       uint64      `json:"ending_round"`
	LastReportedRound uint64      `json:"last_reported_round"`
	LastStartedRound  uint64      `json:"last_started_round"`
	LatestSubmission  *Submission `json:"latest_submission,omitempty"`
	Admin             AdminState  `json:"admin"`
}

// Enabled reports whether the oracle is part of the active set.
func (o OracleStatus) Enabled() bool {
	return o.EndingRound == RoundMax
}

func (o OracleStatus) Marshal() []byte {
	return MustMarshalValue(o)
}

func (o *OracleStatus) Unmarshal(bz []byte) error {
	return UnmarshalValue(bz, o)
}
