package types

import (
	"encoding/binary"
)

const (
	// module name
	ModuleName = "exchange"

	// StoreKey is the default store key for the module
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName
)

// KV Store key prefix bytes
const (
	prefixOwner = iota + 1
	prefixReserves
	prefixPendingRequests
	prefixNextRequestID
)

// KV Store key prefixes
var (
	KeyOwner           = []byte{prefixOwner}
	KeyReserves        = []byte{prefixReserves}
	KeyPendingRequests = []byte{prefixPendingRequests}
	KeyNextRequestID   = []byte{prefixNextRequestID}
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

// GetReserveKey returns the key of the tracked reserve of a denom
func GetReserveKey(denom string) []byte {
	return append(KeyReserves, []byte(denom)...)
}

// GetPendingRequestKey returns the key of a pending exchange request
func GetPendingRequestKey(id uint64) []byte {
	return append(KeyPendingRequests, IDToBytes(id)...)
}
