package cli

import (
	"fmt"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/GPTx-global/guru-aggregator/client"
	gurutypes "github.com/GPTx-global/guru-aggregator/types"
	"github.com/GPTx-global/guru-aggregator/x/aggregator/types"
)

const (
	FlagAdded        = "added"
	FlagAdmins       = "admins"
	FlagRemoved      = "removed"
	FlagMin          = "min"
	FlagMax          = "max"
	FlagRestartDelay = "restart-delay"
)

// GetTxCmd returns the transaction commands for this module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      fmt.Sprintf("%s transactions subcommands", types.ModuleName),
		SuggestionsMinimumDistance: 2,
	}

	cmd.AddCommand(
		NewSubmitCmd(),
		NewChangeOraclesCmd(),
		NewUpdateFutureRoundsCmd(),
		NewRequestNewRoundCmd(),
		NewSetRequesterPermissionsCmd(),
		NewTransferAdminCmd(),
		NewAcceptAdminCmd(),
		NewWithdrawPaymentCmd(),
		NewWithdrawFundsCmd(),
		NewDepositCmd(),
		NewChangeOwnerCmd(),
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

func NewSubmitCmd() *cobra.Command {
	return newTxCmd("submit [round-id] [value]...", "Report values for a round as an oracle", cobra.MinimumNArgs(2),
		func(from sdk.AccAddress, args []string) (gurutypes.Msg, error) {
			roundID, err := client.ParseUint("round id", args[0])
			if err != nil {
				return nil, err
			}
			values := make([]math.Int, 0, len(args)-1)
			for _, arg := range args[1:] {
				v, err := client.ParseInt("value", arg)
				if err != nil {
					return nil, err
				}
				values = append(values, v)
			}
			return types.NewMsgSubmit(from, roundID, values...), nil
		})
}

func NewChangeOraclesCmd() *cobra.Command {
	cmd := newTxCmd("change-oracles", "Remove and add oracles and set the round submission bounds", cobra.NoArgs, nil)
	cmd.Flags().StringSlice(FlagRemoved, nil, "Oracles to remove")
	cmd.Flags().StringSlice(FlagAdded, nil, "Oracles to add")
	cmd.Flags().StringSlice(FlagAdmins, nil, "Admins of the added oracles, in the same order")
	cmd.Flags().Uint32(FlagMin, 0, "Minimum submissions per round")
	cmd.Flags().Uint32(FlagMax, 0, "Maximum submissions per round")
	cmd.Flags().Uint32(FlagRestartDelay, 0, "Rounds an oracle waits before starting another round")
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		txCtx, err := client.GetTxContext(cmd)
		if err != nil {
			return err
		}
		removed, _ := cmd.Flags().GetStringSlice(FlagRemoved)
		added, _ := cmd.Flags().GetStringSlice(FlagAdded)
		admins, _ := cmd.Flags().GetStringSlice(FlagAdmins)
		minSubmissions, _ := cmd.Flags().GetUint32(FlagMin)
		maxSubmissions, _ := cmd.Flags().GetUint32(FlagMax)
		restartDelay, _ := cmd.Flags().GetUint32(FlagRestartDelay)

		return client.BroadcastTx(cmd, txCtx, &types.MsgChangeOracles{
			Owner:          txCtx.Address.String(),
			Removed:        removed,
			Added:          added,
			AddedAdmins:    admins,
			MinSubmissions: minSubmissions,
			MaxSubmissions: maxSubmissions,
			RestartDelay:   restartDelay,
		})
	}
	return cmd
}

func NewUpdateFutureRoundsCmd() *cobra.Command {
	return newTxCmd("update-future-rounds [payment] [min] [max] [restart-delay] [timeout]",
		"Update the payment and submission bounds of the rounds to come", cobra.ExactArgs(5),
		func(from sdk.AccAddress, args []string) (gurutypes.Msg, error) {
			payment, err := client.ParseInt("payment", args[0])
			if err != nil {
				return nil, err
			}
			var bounds [3]uint32
			for i, name := range []string{"min", "max", "restart delay"} {
				v, err := strconv.ParseUint(args[i+1], 10, 32)
				if err != nil {
					return nil, fmt.Errorf("invalid %s %q", name, args[i+1])
				}
				bounds[i] = uint32(v)
			}
			timeout, err := client.ParseUint("timeout", args[4])
			if err != nil {
				return nil, err
			}
			return &types.MsgUpdateFutureRounds{
				Owner:          from.String(),
				PaymentAmount:  payment,
				MinSubmissions: bounds[0],
				MaxSubmissions: bounds[1],
				RestartDelay:   bounds[2],
				Timeout:        timeout,
			}, nil
		})
}

func NewRequestNewRoundCmd() *cobra.Command {
	return newTxCmd("request-new-round", "Start a new round as an authorized requester", cobra.NoArgs,
		func(from sdk.AccAddress, _ []string) (gurutypes.Msg, error) {
			return &types.MsgRequestNewRound{Requester: from.String()}, nil
		})
}

func NewSetRequesterPermissionsCmd() *cobra.Command {
	return newTxCmd("set-requester-permissions [requester] [authorized] [delay]",
		"Allow or revoke an address to request new rounds", cobra.ExactArgs(3),
		func(from sdk.AccAddress, args []string) (gurutypes.Msg, error) {
			authorized, err := strconv.ParseBool(args[1])
			if err != nil {
				return nil, fmt.Errorf("invalid authorized %q", args[1])
			}
			delay, err := client.ParseUint("delay", args[2])
			if err != nil {
				return nil, err
			}
			return &types.MsgSetRequesterPermissions{
				Owner:      from.String(),
				Requester:  args[0],
				Authorized: authorized,
				Delay:      delay,
			}, nil
		})
}

func NewTransferAdminCmd() *cobra.Command {
	return newTxCmd("transfer-admin [oracle] [new-admin]", "Propose a new admin for an oracle", cobra.ExactArgs(2),
		func(from sdk.AccAddress, args []string) (gurutypes.Msg, error) {
			return &types.MsgTransferAdmin{Admin: from.String(), Oracle: args[0], NewAdmin: args[1]}, nil
		})
}

func NewAcceptAdminCmd() *cobra.Command {
	return newTxCmd("accept-admin [oracle]", "Accept a pending admin transfer", cobra.ExactArgs(1),
		func(from sdk.AccAddress, args []string) (gurutypes.Msg, error) {
			return &types.MsgAcceptAdmin{NewAdmin: from.String(), Oracle: args[0]}, nil
		})
}

func NewWithdrawPaymentCmd() *cobra.Command {
	return newTxCmd("withdraw-payment [oracle] [recipient] [amount]", "Withdraw the payments earned by an oracle", cobra.ExactArgs(3),
		func(from sdk.AccAddress, args []string) (gurutypes.Msg, error) {
			amount, err := client.ParseInt("amount", args[2])
			if err != nil {
				return nil, err
			}
			return &types.MsgWithdrawPayment{Admin: from.String(), Oracle: args[0], Recipient: args[1], Amount: amount}, nil
		})
}

func NewWithdrawFundsCmd() *cobra.Command {
	return newTxCmd("withdraw-funds [recipient] [amount]", "Withdraw funds not reserved for oracle payments", cobra.ExactArgs(2),
		func(from sdk.AccAddress, args []string) (gurutypes.Msg, error) {
			amount, err := client.ParseInt("amount", args[1])
			if err != nil {
				return nil, err
			}
			return &types.MsgWithdrawFunds{Owner: from.String(), Recipient: args[0], Amount: amount}, nil
		})
}

func NewDepositCmd() *cobra.Command {
	return newTxCmd("deposit [amount]", "Fund the oracle payments of the aggregator", cobra.ExactArgs(1),
		func(from sdk.AccAddress, args []string) (gurutypes.Msg, error) {
			amount, err := client.ParseInt("amount", args[0])
			if err != nil {
				return nil, err
			}
			return &types.MsgDeposit{Depositor: from.String(), Amount: amount}, nil
		})
}

func NewChangeOwnerCmd() *cobra.Command {
	return newTxCmd("change-owner [new-owner]", "Hand the aggregator to a new owner", cobra.ExactArgs(1),
		func(from sdk.AccAddress, args []string) (gurutypes.Msg, error) {
			return &types.MsgChangeOwner{Owner: from.String(), NewOwner: args[0]}, nil
		})
}
