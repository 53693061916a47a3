package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/cli"

	"github.com/GPTx-global/guru-aggregator/app"
	"github.com/GPTx-global/guru-aggregator/client"
	"github.com/GPTx-global/guru-aggregator/config"
	aggcli "github.com/GPTx-global/guru-aggregator/x/aggregator/client/cli"
	exchangecli "github.com/GPTx-global/guru-aggregator/x/exchange/client/cli"
	pricecli "github.com/GPTx-global/guru-aggregator/x/priceaggregator/client/cli"
	tokenscli "github.com/GPTx-global/guru-aggregator/x/tokens/client/cli"
)

// NewRootCmd creates a new root command for aggregatord.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           app.Name,
		Short:         "Aggregator node: oracle rounds, price feeds and the exchange built on them",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(flags.FlagHome, config.DefaultHome(), "The application home directory")
	rootCmd.PersistentFlags().String(client.FlagNode, client.DefaultNode, "REST endpoint of the node")
	rootCmd.PersistentFlags().String(cli.OutputFlag, "text", "Output format (text|json)")

	rootCmd.AddCommand(
		NewInitCmd(),
		NewStartCmd(),
		client.KeyCommands(config.DefaultHome()),
		txCommand(),
		queryCommand(),
		NewVersionCmd(),
	)
	return rootCmd
}

// Execute runs rootCmd until it returns or the process is interrupted.
func Execute(rootCmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func txCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Transactions subcommands",
	}

	cmd.AddCommand(
		aggcli.GetTxCmd(),
		pricecli.GetTxCmd(),
		exchangecli.GetTxCmd(),
		tokenscli.GetTxCmd(),
	)
	return cmd
}

func queryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "query",
		Aliases: []string{"q"},
		Short:   "Querying subcommands",
	}

	cmd.AddCommand(
		aggcli.GetQueryCmd(),
		pricecli.GetQueryCmd(),
		exchangecli.GetQueryCmd(),
		tokenscli.GetQueryCmd(),
		newStatusCmd(),
	)
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Query the chain id and the last block of the node",
		Args:  cobra.NoArgs,
		RunE: client.QueryCmd(func([]string) (string, error) {
			return "/status", nil
		}),
	}
}
