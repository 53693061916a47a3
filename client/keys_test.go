package client

import (
	"testing"

	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	"github.com/stretchr/testify/require"
)

func TestMnemonicAccount(t *testing.T) {
	kr := keyring.NewInMemory(Codec())

	addr, mnemonic, err := NewMnemonicAccount(kr, "oracle")
	require.NoError(t, err)
	require.NotEmpty(t, mnemonic)

	got, err := KeyAddress(kr, "oracle")
	require.NoError(t, err)
	require.Equal(t, addr, got)

	_, err = KeyAddress(kr, "missing")
	require.Error(t, err)
}

func TestKeyringFromDir(t *testing.T) {
	dir := t.TempDir()
	kr, err := NewKeyring(keyring.BackendTest, dir, nil)
	require.NoError(t, err)
	addr, _, err := NewMnemonicAccount(kr, "feeder")
	require.NoError(t, err)

	reopened, err := NewKeyring(keyring.BackendTest, dir, nil)
	require.NoError(t, err)
	got, err := KeyAddress(reopened, "feeder")
	require.NoError(t, err)
	require.Equal(t, addr, got)
}

func TestClientContextKeyringOptions(t *testing.T) {
	ctx := NewClientContext(t.TempDir())
	require.Len(t, ctx.KeyringOptions, 1)

	var options keyring.Options
	for _, opt := range ctx.KeyringOptions {
		opt(&options)
	}
	require.Equal(t, keyring.SigningAlgoList{hd.Secp256k1}, options.SupportedAlgos)

	kr, err := NewKeyring(keyring.BackendTest, t.TempDir(), nil)
	require.NoError(t, err)
	algos, _ := kr.SupportedAlgorithms()
	require.Equal(t, keyring.SigningAlgoList{hd.Secp256k1}, algos)
}
