package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	aggtypes "github.com/GPTx-global/guru-aggregator/x/aggregator/types"
)

// AccountKeeper defines the contract required for account APIs.
type AccountKeeper interface {
	GetModuleAddress(name string) sdk.AccAddress
}

// BankKeeper defines the contract needed to move payments in and out of the
// exchange.
type BankKeeper interface {
	GetBalance(ctx sdk.Context, addr sdk.AccAddress, denom string) sdk.Coin
	SendCoinsFromModuleToAccount(ctx sdk.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	SendCoinsFromAccountToModule(ctx sdk.Context, senderAddress sdk.AccAddress, recipientModule string, amt sdk.Coins) error
}

// AggregatorKeeper answers the price feed requests of the exchange.
type AggregatorKeeper interface {
	LatestRoundData(ctx sdk.Context) (aggtypes.Round, error)
}
