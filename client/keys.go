package client

import (
	"io"
	"os"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/keys"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	cryptocodec "github.com/cosmos/cosmos-sdk/crypto/codec"
	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/cli"

	"github.com/GPTx-global/guru-aggregator/app"
)

// Codec is the codec of keyring records.
func Codec() codec.Codec {
	registry := codectypes.NewInterfaceRegistry()
	cryptocodec.RegisterInterfaces(registry)
	return codec.NewProtoCodec(registry)
}

// Secp256k1Option restricts a keyring to secp256k1 keys.
func Secp256k1Option() keyring.Option {
	return func(options *keyring.Options) {
		options.SupportedAlgos = keyring.SigningAlgoList{hd.Secp256k1}
		options.SupportedAlgosLedger = keyring.SigningAlgoList{hd.Secp256k1}
	}
}

// NewKeyring opens the keyring stored in dir.
func NewKeyring(backend, dir string, input io.Reader) (keyring.Keyring, error) {
	return keyring.New(app.Name, backend, dir, input, Codec(), Secp256k1Option())
}

// NewClientContext returns the context read by the keys commands.
func NewClientContext(home string) client.Context {
	return client.Context{}.
		WithCodec(Codec()).
		WithInput(os.Stdin).
		WithHomeDir(home).
		WithKeyringOptions(Secp256k1Option())
}

// NewMnemonicAccount creates a secp256k1 key under uid and returns its
// address and mnemonic.
func NewMnemonicAccount(kr keyring.Keyring, uid string) (sdk.AccAddress, string, error) {
	record, mnemonic, err := kr.NewMnemonic(uid, keyring.English, sdk.FullFundraiserPath, keyring.DefaultBIP39Passphrase, hd.Secp256k1)
	if err != nil {
		return nil, "", err
	}
	addr, err := record.GetAddress()
	if err != nil {
		return nil, "", err
	}
	return addr, mnemonic, nil
}

// KeyAddress resolves the address of uid.
func KeyAddress(kr keyring.Keyring, uid string) (sdk.AccAddress, error) {
	record, err := kr.Key(uid)
	if err != nil {
		return nil, err
	}
	return record.GetAddress()
}

// KeyCommands registers a sub-tree of commands to interact with
// local private key storage.
func KeyCommands(defaultNodeHome string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage the keys of owners, oracles and the feeder",
		Long: `Keyring management commands. Transactions sent with "aggregatord tx" and the
reports of the feeder are signed with secp256k1 keys held in this keyring.

The keyring supports the following backends:

    os          Uses the operating system's default credentials store.
    file        Uses encrypted file-based keystore within the app's configuration directory.
    test        Stores keys insecurely to disk. It does not prompt for a password to be unlocked
                and it should be use only for testing purposes.
`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			home, err := cmd.Flags().GetString(flags.FlagHome)
			if err != nil {
				return err
			}
			return client.SetCmdClientContextHandler(NewClientContext(home), cmd)
		},
	}

	cmd.AddCommand(
		keys.MnemonicKeyCommand(),
		keys.AddKeyCommand(),
		keys.ExportKeyCommand(),
		keys.ImportKeyCommand(),
		keys.ListKeysCmd(),
		keys.ShowKeysCmd(),
		keys.DeleteKeyCommand(),
		keys.RenameKeyCommand(),
	)

	cmd.PersistentFlags().String(flags.FlagHome, defaultNodeHome, "The application home directory")
	cmd.PersistentFlags().String(flags.FlagKeyringDir, "", "The client Keyring directory; if omitted, the default 'home' directory will be used")
	cmd.PersistentFlags().String(flags.FlagKeyringBackend, keyring.BackendOS, "Select keyring's backend (os|file|test)")
	cmd.PersistentFlags().String(cli.OutputFlag, "text", "Output format (text|json)")
	return cmd
}
