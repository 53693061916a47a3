package cmd

import (
	"context"
	"time"

	"github.com/cosmos/cosmos-sdk/client/flags"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
	"golang.org/x/sync/errgroup"

	"github.com/GPTx-global/guru-aggregator/app"
	"github.com/GPTx-global/guru-aggregator/client"
	"github.com/GPTx-global/guru-aggregator/config"
	kmskeyring "github.com/GPTx-global/guru-aggregator/crypto/keyring"
	"github.com/GPTx-global/guru-aggregator/feeder"
	"github.com/GPTx-global/guru-aggregator/server/rest"
)

// NewStartCmd runs the node: the block producer, the REST server and, when
// enabled, the feeder.
func NewStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Run the node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			home, _ := cmd.Flags().GetString(flags.FlagHome)
			cfg, err := config.Load(home)
			if err != nil {
				return err
			}
			logger, err := cfg.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return startNode(cmd, home, cfg, logger)
		},
	}
}

func startNode(cmd *cobra.Command, home string, cfg config.Config, logger log.Logger) error {
	interval, err := cfg.BlockInterval()
	if err != nil {
		return err
	}

	db, err := cfg.OpenDB(home)
	if err != nil {
		return err
	}
	defer db.Close()

	node, err := app.New(logger, db,
		app.WithChainID(cfg.Node.ChainID),
		app.WithInvariantCheckPeriod(cfg.Node.InvCheckPeriod),
		app.WithPruning(cfg.Node.Pruning),
	)
	if err != nil {
		return err
	}
	defer node.Close()

	if node.LastBlockHeight() == 0 {
		doc, err := app.ReadGenesisDoc(config.GenesisPath(home))
		if err != nil {
			return err
		}
		if doc.ChainID != cfg.Node.ChainID {
			return errors.Errorf("genesis chain id %s does not match node.chain_id %s", doc.ChainID, cfg.Node.ChainID)
		}
		if err := node.InitChain(doc); err != nil {
			return err
		}
	}
	logger.Info("node started", "chain_id", node.ChainID(), "height", node.LastBlockHeight())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	g, ctx := errgroup.WithContext(ctx)
	if cfg.REST.Enable {
		srv := rest.NewServer(node, cfg.REST, logger)
		g.Go(func() error { return srv.Start(ctx) })
	}
	if interval > 0 {
		g.Go(func() error {
			produceBlocks(ctx, node, interval, logger)
			return nil
		})
	}
	if cfg.Feeder.Enabled {
		f, err := newFeeder(cmd, home, cfg, logger)
		if err != nil {
			return err
		}
		g.Go(func() error { return f.Start(ctx) })
	}

	err = g.Wait()
	logger.Info("node stopped", "height", node.LastBlockHeight())
	return err
}

// produceBlocks commits an empty block every interval.
func produceBlocks(ctx context.Context, node *app.App, interval time.Duration, logger log.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			block := node.Tick()
			logger.Debug("committed block", "height", block.Height)
		case <-ctx.Done():
			return
		}
	}
}

func newFeeder(cmd *cobra.Command, home string, cfg config.Config, logger log.Logger) (*feeder.Feeder, error) {
	signer, addr, err := feederSigner(cmd, cfg.Feeder, cfg.KeyringDir(home))
	if err != nil {
		return nil, err
	}
	return feeder.New(cfg.Feeder, client.NewNode(cfg.Feeder.Endpoint), signer, addr, logger)
}

// feederSigner returns the signer of the feeder key: a KMS key id for the
// kms-aws backend, a keyring entry otherwise.
func feederSigner(cmd *cobra.Command, cfg config.FeederConfig, keyringDir string) (app.Signer, sdk.AccAddress, error) {
	if kmskeyring.IsKMSBackend(cfg.KeyringBackend) {
		kmsClient, err := kmskeyring.NewKMSClient(cfg.KMSRegion)
		if err != nil {
			return nil, nil, err
		}
		signer, err := kmskeyring.NewKMSSigner(kmsClient, cfg.KeyName)
		if err != nil {
			return nil, nil, err
		}
		return signer, signer.Address(), nil
	}

	kr, err := client.NewKeyring(cfg.KeyringBackend, keyringDir, cmd.InOrStdin())
	if err != nil {
		return nil, nil, err
	}
	addr, err := client.KeyAddress(kr, cfg.KeyName)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "feeder key %s", cfg.KeyName)
	}
	return app.KeyringSigner{Keyring: kr, UID: cfg.KeyName}, addr, nil
}
