package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankKeeper moves the funded denom in and out of the module account
type BankKeeper interface {
	GetBalance(ctx sdk.Context, addr sdk.AccAddress, denom string) sdk.Coin
	SendCoinsFromAccountToModule(ctx sdk.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx sdk.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
}

// AccountKeeper resolves module account addresses
type AccountKeeper interface {
	GetModuleAddress(moduleName string) sdk.AccAddress
}
