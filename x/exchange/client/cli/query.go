package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/GPTx-global/guru-aggregator/client"
	"github.com/GPTx-global/guru-aggregator/x/exchange/types"
)

// GetQueryCmd returns the cli query commands for this module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      fmt.Sprintf("Querying commands for the %s module", types.ModuleName),
		SuggestionsMinimumDistance: 2,
	}

	cmd.AddCommand(
		newQueryCmd("reserves", "Query every reserve", cobra.NoArgs, func([]string) (string, error) {
			return "/reserves", nil
		}),
		newQueryCmd("reserve [denom]", "Query the reserve of a denom", cobra.ExactArgs(1), func(args []string) (string, error) {
			return "/reserves/" + url.PathEscape(args[0]), nil
		}),
		newQueryCmd("pending [denom]", "Query the amount of a denom promised to pending requests", cobra.ExactArgs(1), func(args []string) (string, error) {
			return "/reserves/" + url.PathEscape(args[0]) + "/pending", nil
		}),
		newQueryCmd("requests", "Query the pending exchange requests", cobra.NoArgs, func([]string) (string, error) {
			return "/requests", nil
		}),
		newQueryCmd("request [id]", "Query an exchange request", cobra.ExactArgs(1), func(args []string) (string, error) {
			if _, err := client.ParseUint("request id", args[0]); err != nil {
				return "", err
			}
			return "/requests/" + args[0], nil
		}),
		newQueryCmd("owner", "Query the owner", cobra.NoArgs, func([]string) (string, error) {
			return "/owner", nil
		}),
	)
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
