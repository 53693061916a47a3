package types

import (
	"github.com/cosmos/cosmos-sdk/types/address"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "tokens"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName
)

// prefix bytes for the tokens persistent store
const (
	prefixBalances = iota + 1
	prefixSupply
)

var (
	KeyPrefixBalances = []byte{prefixBalances}
	KeyPrefixSupply   = []byte{prefixSupply}
)

// GetAccountBalancesKey returns the prefix of every balance held by addr
func GetAccountBalancesKey(addr sdk.AccAddress) []byte {
	return append(append([]byte{}, KeyPrefixBalances...), address.MustLengthPrefix(addr)...)
}

// GetBalanceKey returns the key of the balance of addr in denom
func GetBalanceKey(addr sdk.AccAddress, denom string) []byte {
	return append(GetAccountBalancesKey(addr), []byte(denom)...)
}

// GetSupplyKey returns the key of the total supply of denom
func GetSupplyKey(denom string) []byte {
	return append(append([]byte{}, KeyPrefixSupply...), []byte(denom)...)
}

// AddressAndDenomFromBalanceKey splits a balances key stripped of its prefix
func AddressAndDenomFromBalanceKey(key []byte) (sdk.AccAddress, string) {
	n := int(key[0])
	return sdk.AccAddress(key[1 : 1+n]), string(key[1+n:])
}
