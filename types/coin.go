package types

import (
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// AttoGuru is the denomination funding oracle payments by default.
	AttoGuru string = "aguru"

	// BaseDenomUnit defines the base denomination unit.
	// 1 guru = 1x10^{BaseDenomUnit} aguru
	BaseDenomUnit = 18

	// PriceDecimals is the default number of decimals of a reported price.
	PriceDecimals = 8
)

// NewGuruCoin returns an "aguru" coin with the given amount.
// The function will panic if the provided amount is negative.
func NewGuruCoin(amount sdkmath.Int) sdk.Coin {
	return sdk.NewCoin(AttoGuru, amount)
}

// NewGuruCoinInt64 returns an "aguru" coin with the given int64 amount.
func NewGuruCoinInt64(amount int64) sdk.Coin {
	return sdk.NewInt64Coin(AttoGuru, amount)
}

// PowerOfTen returns 10^decimals as an integer.
func PowerOfTen(decimals uint32) sdkmath.Int {
	return sdkmath.NewIntWithDecimal(1, int(decimals))
}
