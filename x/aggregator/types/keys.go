package types

import (
	"encoding/binary"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "aggregator"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName
)

// KV Store key prefix bytes
const (
	prefixParams = iota + 1
	prefixFeedConfig
	prefixOwner
	prefixRounds
	prefixDetails
	prefixOracles
	prefixEnabledOracles
	prefixRequesters
	prefixRecordedFunds
	prefixReportingRoundID
	prefixLatestRoundID
)

// KV Store key prefixes
var (
	KeyParams           = []byte{prefixParams}
	KeyFeedConfig       = []byte{prefixFeedConfig}
	KeyOwner            = []byte{prefixOwner}
	KeyRounds           = []byte{prefixRounds}
	KeyDetails          = []byte{prefixDetails}
	KeyOracles          = []byte{prefixOracles}
	KeyEnabledOracles   = []byte{prefixEnabledOracles}
	KeyRequesters       = []byte{prefixRequesters}
	KeyRecordedFunds    = []byte{prefixRecordedFunds}
	KeyReportingRoundID = []byte{prefixReportingRoundID}
	KeyLatestRoundID    = []byte{prefixLatestRoundID}
)

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

// GetRoundKey returns the key of a round record
func GetRoundKey(roundID uint64) []byte {
	return append(KeyRounds, IDToBytes(roundID)...)
}

// GetDetailsKey returns the key of the ephemeral details of a round
func GetDetailsKey(roundID uint64) []byte {
	return append(KeyDetails, IDToBytes(roundID)...)
}

// GetOracleKey returns the key of an oracle status
func GetOracleKey(oracle sdk.AccAddress) []byte {
	return append(KeyOracles, address.MustLengthPrefix(oracle)...)
}

// GetEnabledOracleKey returns the key marking an oracle as enabled
func GetEnabledOracleKey(oracle sdk.AccAddress) []byte {
	return append(KeyEnabledOracles, address.MustLengthPrefix(oracle)...)
}

// GetRequesterKey returns the key of a requester record
func GetRequesterKey(requester sdk.AccAddress) []byte {
	return append(KeyRequesters, address.MustLengthPrefix(requester)...)
}

// AddressFromKey strips the length prefix written by address.MustLengthPrefix.
func AddressFromKey(key []byte) sdk.AccAddress {
	if len(key) == 0 {
		return nil
	}
	return sdk.AccAddress(key[1:])
}
