package cli

import (
	"fmt"
	"net/url"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/GPTx-global/guru-aggregator/client"
	gurutypes "github.com/GPTx-global/guru-aggregator/types"
	"github.com/GPTx-global/guru-aggregator/x/tokens/types"
)

// GetTxCmd returns the transaction commands for this module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      fmt.Sprintf("%s transactions subcommands", types.ModuleName),
		SuggestionsMinimumDistance: 2,
	}

	send := &cobra.Command{
		Use:   "send [to] [amount]",
		Short: "Send coins, e.g. 100aguru,5GURU",
		Args:  cobra.ExactArgs(2),
		RunE: client.NewTxCmd(func(from sdk.AccAddress, args []string) (gurutypes.Msg, error) {
			to, err := client.ParseAddress("recipient", args[0])
			if err != nil {
				return nil, err
			}
			coins, err := sdk.ParseCoinsNormalized(args[1])
			if err != nil {
				return nil, err
			}
			return types.NewMsgSend(from, to, coins), nil
		}),
	}
	client.AddTxFlagsToCmd(send)
	cmd.AddCommand(send)
	return cmd
}

// GetQueryCmd returns the cli query commands for this module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      fmt.Sprintf("Querying commands for the %s module", types.ModuleName),
		SuggestionsMinimumDistance: 2,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "balances [address] [denom]",
			Short: "Query the balances of an address, or of one denom",
			Args:  cobra.RangeArgs(1, 2),
			RunE: client.QueryCmd(func(args []string) (string, error) {
				p := "/tokens/balances/" + url.PathEscape(args[0])
				if len(args) == 2 {
					p += "/" + url.PathEscape(args[1])
				}
				return p, nil
			}),
		},
		&cobra.Command{
			Use:   "supply [denom]",
			Short: "Query the total supply of a denom",
			Args:  cobra.ExactArgs(1),
			RunE: client.QueryCmd(func(args []string) (string, error) {
				return "/tokens/supply/" + url.PathEscape(args[0]), nil
			}),
		},
	)
	return cmd
}
