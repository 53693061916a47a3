package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/GPTx-global/guru-aggregator/app"
	"github.com/GPTx-global/guru-aggregator/client"
	"github.com/GPTx-global/guru-aggregator/config"
)

const (
	FlagOwner     = "owner"
	FlagOverwrite = "overwrite"
)

type initOutput struct {
	ChainID string `json:"chain_id"`
	Home    string `json:"home"`
	Owner   string `json:"owner"`
}

// NewInitCmd writes the config file and a default genesis owned by --owner.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the config and genesis files of a node",
		Long: `Write <home>/config/config.toml and <home>/config/genesis.json. Every module of the
genesis is owned by --owner, given as a bech32 address or the name of a key of the keyring.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			home, _ := cmd.Flags().GetString(flags.FlagHome)
			chainID, _ := cmd.Flags().GetString(flags.FlagChainID)
			overwrite, _ := cmd.Flags().GetBool(FlagOverwrite)

			genesisPath := config.GenesisPath(home)
			if _, err := os.Stat(genesisPath); err == nil && !overwrite {
				return fmt.Errorf("genesis file already exists: %s", genesisPath)
			}

			owner, err := resolveOwner(cmd, home)
			if err != nil {
				return err
			}

			cfg := config.DefaultConfig()
			cfg.Node.ChainID = chainID
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.WriteConfig(home, cfg); err != nil {
				return err
			}

			doc := app.GenesisDoc{
				ChainID:     chainID,
				GenesisTime: time.Now().UTC(),
				AppState:    app.NewDefaultGenesisState(owner),
			}
			if err := app.WriteGenesisDoc(genesisPath, doc); err != nil {
				return err
			}
			return client.PrintObject(cmd, initOutput{ChainID: chainID, Home: home, Owner: owner.String()})
		},
	}

	cmd.Flags().String(flags.FlagChainID, config.DefaultChainID, "Genesis file chain-id")
	cmd.Flags().String(FlagOwner, "", "Owner of the modules: bech32 address or key name")
	cmd.Flags().Bool(FlagOverwrite, false, "Overwrite an existing genesis file")
	cmd.Flags().String(flags.FlagKeyringBackend, keyring.BackendOS, "Select keyring's backend (os|file|test)")
	_ = cmd.MarkFlagRequired(FlagOwner)
	return cmd
}

func resolveOwner(cmd *cobra.Command, home string) (sdk.AccAddress, error) {
	owner, _ := cmd.Flags().GetString(FlagOwner)
	if addr, err := sdk.AccAddressFromBech32(owner); err == nil {
		return addr, nil
	}

	backend, _ := cmd.Flags().GetString(flags.FlagKeyringBackend)
	kr, err := client.NewKeyring(backend, home, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	addr, err := client.KeyAddress(kr, owner)
	if err != nil {
		return nil, fmt.Errorf("owner %q is neither an address nor a key: %w", owner, err)
	}
	return addr, nil
}
