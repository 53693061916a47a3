package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/GPTx-global/guru-aggregator/client"
	"github.com/GPTx-global/guru-aggregator/x/aggregator/types"
)

// GetQueryCmd returns the cli query commands for this module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      fmt.Sprintf("Querying commands for the %s module", types.ModuleName),
		SuggestionsMinimumDistance: 2,
	}

	cmd.AddCommand(
		newQueryCmd("latest-round", "Query the latest round", cobra.NoArgs, staticPath("/rounds/latest")),
		newQueryCmd("round [round-id]", "Query a round", cobra.ExactArgs(1), func(args []string) (string, error) {
			if _, err := client.ParseUint("round id", args[0]); err != nil {
				return "", err
			}
			return "/rounds/" + args[0], nil
		}),
		newQueryCmd("oracles", "Query the active oracles", cobra.NoArgs, staticPath("/oracles")),
		newQueryCmd("oracle-count", "Query the number of active oracles", cobra.NoArgs, staticPath("/oracles/count")),
		newQueryCmd("oracle [oracle]", "Query the status of an oracle", cobra.ExactArgs(1), oraclePath("")),
		NewOracleRoundStateCmd(),
		newQueryCmd("withdrawable [oracle]", "Query the payment an oracle can withdraw", cobra.ExactArgs(1), oraclePath("/withdrawable")),
		newQueryCmd("admin [oracle]", "Query the admin of an oracle", cobra.ExactArgs(1), oraclePath("/admin")),
		newQueryCmd("requester [address]", "Query the permissions of a requester", cobra.ExactArgs(1), func(args []string) (string, error) {
			return "/requesters/" + url.PathEscape(args[0]), nil
		}),
		newQueryCmd("funds", "Query the allocated and available funds", cobra.NoArgs, staticPath("/funds")),
		newQueryCmd("required-reserve [payment]", "Query the reserve needed for a payment amount", cobra.ExactArgs(1), func(args []string) (string, error) {
			if _, err := client.ParseInt("payment", args[0]); err != nil {
				return "", err
			}
			return "/required_reserve?payment=" + url.QueryEscape(args[0]), nil
		}),
		newQueryCmd("params", "Query the round parameters", cobra.NoArgs, staticPath("/params")),
		newQueryCmd("feed-config", "Query the feed description", cobra.NoArgs, staticPath("/feed_config")),
		newQueryCmd("owner", "Query the owner", cobra.NoArgs, staticPath("/owner")),
	)
	return cmd
}

func NewOracleRoundStateCmd() *cobra.Command {
	cmd := newQueryCmd("round-state [oracle]", "Query the round an oracle should report on", cobra.ExactArgs(1), nil)
	cmd.Flags().Uint64("round-id", 0, "Round to inspect; 0 suggests the next round")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		roundID, _ := cmd.Flags().GetUint64("round-id")
		return client.QueryCmd(func(args []string) (string, error) {
			return fmt.Sprintf("/%s/oracles/%s/round_state?round_id=%d", types.ModuleName, url.PathEscape(args[0]), roundID), nil
		})(cmd, args)
	}
	return cmd
}

func newQueryCmd(use, short string, args cobra.PositionalArgs, path func([]string) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: client.QueryCmd(func(args []string) (string, error) {
			p, err := path(args)
			if err != nil {
				return "", err
			}
			return "/" + types.ModuleName + p, nil
		}),
	}
}

func staticPath(p string) func([]string) (string, error) {
	return func([]string) (string, error) { return p, nil }
}

func oraclePath(suffix string) func([]string) (string, error) {
	return func(args []string) (string, error) {
		return "/oracles/" + url.PathEscape(args[0]) + suffix, nil
	}
}
