package types

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/cosmos-sdk/codec"
)

// StoreVersion is the leading byte of every value written by this module.
const StoreVersion byte = 1

// ModuleCdc encodes the store values of the aggregator, price aggregator and
// exchange modules.
var ModuleCdc = codec.NewLegacyAmino()

// MustMarshalValue returns StoreVersion followed by the length prefixed
// amino encoding of v.
func MustMarshalValue(v interface{}) []byte {
	return append([]byte{StoreVersion}, ModuleCdc.MustMarshalLengthPrefixed(v)...)
}

// UnmarshalValue decodes a value written by MustMarshalValue into ptr.
func UnmarshalValue(bz []byte, ptr interface{}) error {
	switch {
	case len(bz) == 0:
		return errorsmod.Wrap(ErrInvalidEncoding, "empty value")
	case bz[0] != StoreVersion:
		return errorsmod.Wrapf(ErrInvalidEncoding, "unknown version %d", bz[0])
	}
	if err := ModuleCdc.UnmarshalLengthPrefixed(bz[1:], ptr); err != nil {
		return errorsmod.Wrap(ErrInvalidEncoding, err.Error())
	}
	return nil
}
