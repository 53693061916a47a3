package cli

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/GPTx-global/guru-aggregator/client"
	"github.com/GPTx-global/guru-aggregator/x/priceaggregator/types"
)

const FlagOptional = "optional"

// GetQueryCmd returns the cli query commands for this module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        CommandName,
		Aliases:                    []string{types.ModuleName},
		Short:                      "Querying commands for the price aggregator",
		SuggestionsMinimumDistance: 2,
	}

	cmd.AddCommand(
		newQueryCmd("feeds", "Query the latest price of every pair", cobra.NoArgs, func([]string) string { return "/feeds" }),
		NewFeedCmd(),
		newQueryCmd("pending [from] [to]", "Query the open submission window of a pair", cobra.ExactArgs(2), func(args []string) string {
			return "/pending/" + pairPath(args)
		}),
		newQueryCmd("oracles", "Query the oracles", cobra.NoArgs, func([]string) string { return "/oracles" }),
		newQueryCmd("oracle [oracle]", "Query whether an address is an oracle", cobra.ExactArgs(1), func(args []string) string {
			return "/oracles/" + url.PathEscape(args[0])
		}),
		newQueryCmd("params", "Query the parameters", cobra.NoArgs, func([]string) string { return "/params" }),
		newQueryCmd("owner", "Query the owner", cobra.NoArgs, func([]string) string { return "/owner" }),
	)
	return cmd
}

func NewFeedCmd() *cobra.Command {
	cmd := newQueryCmd("feed [from] [to]", "Query the latest price of a pair", cobra.ExactArgs(2), nil)
	cmd.Flags().Bool(FlagOptional, false, "Return an empty answer instead of failing when the pair has no price")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		optional, _ := cmd.Flags().GetBool(FlagOptional)
		return client.QueryCmd(func(args []string) (string, error) {
			p := "/price/feeds/" + pairPath(args)
			if optional {
				p += "?optional=true"
			}
			return p, nil
		})(cmd, args)
	}
	return cmd
}

func newQueryCmd(use, short string, args cobra.PositionalArgs, path func([]string) string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: client.QueryCmd(func(args []string) (string, error) {
			return "/price" + path(args), nil
		}),
	}
}

func pairPath(args []string) string {
	return url.PathEscape(args[0]) + "/" + url.PathEscape(args[1])
}
