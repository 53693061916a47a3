package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/GPTx-global/guru-aggregator/client"
	gurutypes "github.com/GPTx-global/guru-aggregator/types"
	"github.com/GPTx-global/guru-aggregator/x/priceaggregator/types"
)

// CommandName is the name of the price commands.
const CommandName = "price"

// GetTxCmd returns the transaction commands for this module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        CommandName,
		Aliases:                    []string{types.ModuleName},
		Short:                      "Price aggregator transactions subcommands",
		SuggestionsMinimumDistance: 2,
	}

	cmd.AddCommand(
		NewSubmitPriceCmd(),
		NewSubmitPriceBatchCmd(),
		NewAddOraclesCmd(),
		NewRemoveOraclesCmd(),
		NewSetSubmissionCountCmd(),
		newTxCmd("pause", "Stop accepting prices", cobra.NoArgs, func(from sdk.AccAddress, _ []string) (gurutypes.Msg, error) {
			return &types.MsgPause{Owner: from.String()}, nil
		}),
		newTxCmd("unpause", "Accept prices again", cobra.NoArgs, func(from sdk.AccAddress, _ []string) (gurutypes.Msg, error) {
			return &types.MsgUnpause{Owner: from.String()}, nil
		}),
		newTxCmd("change-owner [new-owner]", "Hand the price aggregator to a new owner", cobra.ExactArgs(1), func(from sdk.AccAddress, args []string) (gurutypes.Msg, error) {
			return &types.MsgChangeOwner{Owner: from.String(), NewOwner: args[0]}, nil
		}),
	)
	return cmd
}

func newTxCmd(use, short string, args cobra.PositionalArgs, build func(sdk.AccAddress, []string) (gurutypes.Msg, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE:  client.NewTxCmd(build),
	}
	client.AddTxFlagsToCmd(cmd)
	return cmd
}

func NewSubmitPriceCmd() *cobra.Command {
	return newTxCmd("submit [from] [to] [timestamp] [price]", "Submit the price of a token pair observed at a unix timestamp", cobra.ExactArgs(4),
		func(from sdk.AccAddress, args []string) (gurutypes.Msg, error) {
			ts, err := client.ParseUint("timestamp", args[2])
			if err != nil {
				return nil, err
			}
			price, err := client.ParseInt("price", args[3])
			if err != nil {
				return nil, err
			}
			return types.NewMsgSubmitPrice(from, args[0], args[1], ts, price), nil
		})
}

// NewSubmitPriceBatchCmd submits the prices listed in a JSON file, e.g.
// [{"from":"BTC","to":"USD","timestamp":1700000000,"price":"3500000000000"}]
func NewSubmitPriceBatchCmd() *cobra.Command {
	return newTxCmd("submit-batch [path/to/prices.json]", "Submit several prices in one transaction", cobra.ExactArgs(1),
		func(from sdk.AccAddress, args []string) (gurutypes.Msg, error) {
			bz, err := os.ReadFile(args[0])
			if err != nil {
				return nil, err
			}
			var submissions []types.PriceSubmission
			if err := json.Unmarshal(bz, &submissions); err != nil {
				return nil, fmt.Errorf("failed to parse prices: %w", err)
			}
			return &types.MsgSubmitPriceBatch{Oracle: from.String(), Submissions: submissions}, nil
		})
}

func NewAddOraclesCmd() *cobra.Command {
	return newTxCmd("add-oracles [oracle]...", "Allow addresses to submit prices", cobra.MinimumNArgs(1),
		func(from sdk.AccAddress, args []string) (gurutypes.Msg, error) {
			return &types.MsgAddOracles{Owner: from.String(), Oracles: args}, nil
		})
}

func NewRemoveOraclesCmd() *cobra.Command {
	return newTxCmd("remove-oracles [submission-count] [oracle]...", "Remove oracles and set the submissions needed per round", cobra.MinimumNArgs(2),
		func(from sdk.AccAddress, args []string) (gurutypes.Msg, error) {
			count, err := parseCount(args[0])
			if err != nil {
				return nil, err
			}
			return &types.MsgRemoveOracles{Owner: from.String(), SubmissionCount: count, Oracles: args[1:]}, nil
		})
}

func NewSetSubmissionCountCmd() *cobra.Command {
	return newTxCmd("set-submission-count [count]", "Set the submissions needed to complete a round", cobra.ExactArgs(1),
		func(from sdk.AccAddress, args []string) (gurutypes.Msg, error) {
			count, err := parseCount(args[0])
			if err != nil {
				return nil, err
			}
			return &types.MsgSetSubmissionCount{Owner: from.String(), SubmissionCount: count}, nil
		})
}

func parseCount(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid submission count %q", s)
	}
	return uint32(v), nil
}
