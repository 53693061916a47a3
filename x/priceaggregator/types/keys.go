package types

import (
	"encoding/binary"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "priceaggregator"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName
)

// KV Store key prefix bytes
const (
	prefixParams = iota + 1
	prefixOwner
	prefixOracles
	prefixSubmissions
	prefixWindows
	prefixRounds
	prefixRoundCount
)

// KV Store key prefixes
var (
	KeyParams      = []byte{prefixParams}
	KeyOwner       = []byte{prefixOwner}
	KeyOracles     = []byte{prefixOracles}
	KeySubmissions = []byte{prefixSubmissions}
	KeyWindows     = []byte{prefixWindows}
	KeyRounds      = []byte{prefixRounds}
	KeyRoundCount  = []byte{prefixRoundCount}
)

// GetOracleKey returns the key of an oracle status
func GetOracleKey(oracle sdk.AccAddress) []byte {
	return append(KeyOracles, address.MustLengthPrefix(oracle)...)
}

// GetSubmissionsPrefix returns the prefix of the pending submissions of a pair
func GetSubmissionsPrefix(pair TokenPair) []byte {
	return append(KeySubmissions, pair.Key()...)
}

// GetSubmissionKey returns the key of the pending submission of an oracle
func GetSubmissionKey(pair TokenPair, oracle sdk.AccAddress) []byte {
	return append(GetSubmissionsPrefix(pair), address.MustLengthPrefix(oracle)...)
}

// GetWindowKey returns the key of the submission window of a pair
func GetWindowKey(pair TokenPair) []byte {
	return append(KeyWindows, pair.Key()...)
}

// GetRoundsPrefix returns the prefix of the completed rounds of a pair
func GetRoundsPrefix(pair TokenPair) []byte {
	return append(KeyRounds, pair.Key()...)
}

// GetRoundKey returns the key of a completed round
func GetRoundKey(pair TokenPair, roundID uint64) []byte {
	return append(GetRoundsPrefix(pair), IDToBytes(roundID)...)
}

// GetRoundCountKey returns the key of the number of rounds of a pair
func GetRoundCountKey(pair TokenPair) []byte {
	return append(KeyRoundCount, pair.Key()...)
}

// AddressFromKey strips the length prefix written by address.MustLengthPrefix.
func AddressFromKey(key []byte) sdk.AccAddress {
	if len(key) == 0 {
		return nil
	}
	return sdk.AccAddress(key[1:])
}

func IDToBytes(id uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, id)
	return bz
}

func BytesToID(bz []byte) uint64 {
	if len(bz) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}
