package cli

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/GPTx-global/guru-aggregator/client"
	gurutypes "github.com/GPTx-global/guru-aggregator/types"
	"github.com/GPTx-global/guru-aggregator/x/exchange/types"
)

// GetTxCmd returns the transaction commands for this module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      fmt.Sprintf("%s transactions subcommands", types.ModuleName),
		SuggestionsMinimumDistance: 2,
	}

	cmd.AddCommand(
		NewDepositCmd(),
		NewExchangeCmd(),
	)
	return cmd
}

// NewDepositCmd adds liquidity to the reserve of a denom.
func NewDepositCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit [amount]",
		Short: "Deposit coins into the exchange reserve, e.g. 1000GURU",
		Args:  cobra.ExactArgs(1),
		RunE: client.NewTxCmd(func(from sdk.AccAddress, args []string) (gurutypes.Msg, error) {
			coin, err := sdk.ParseCoinNormalized(args[0])
			if err != nil {
				return nil, err
			}
			return &types.MsgDeposit{Owner: from.String(), Amount: coin}, nil
		}),
	}
	client.AddTxFlagsToCmd(cmd)
	return cmd
}

// NewExchangeCmd requests the conversion of coins at the next oracle rate.
func NewExchangeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exchange [amount] [target-denom]",
		Short: "Convert coins to another denom at the rate reported by the oracles",
		Args:  cobra.ExactArgs(2),
		RunE: client.NewTxCmd(func(from sdk.AccAddress, args []string) (gurutypes.Msg, error) {
			coin, err := sdk.ParseCoinNormalized(args[0])
			if err != nil {
				return nil, err
			}
			return types.NewMsgExchange(from, coin, args[1]), nil
		}),
	}
	client.AddTxFlagsToCmd(cmd)
	return cmd
}
