package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/cli"
	"sigs.k8s.io/yaml"

	"github.com/GPTx-global/guru-aggregator/app"
	gurutypes "github.com/GPTx-global/guru-aggregator/types"
)

const (
	FlagNode = "node"

	DefaultNode = "http://127.0.0.1:1317"
)

// AddTxFlagsToCmd adds the flags that select the signing key.
func AddTxFlagsToCmd(cmd *cobra.Command) {
	cmd.Flags().String(flags.FlagFrom, "", "Name of the key that signs the transaction")
	cmd.Flags().String(flags.FlagKeyringBackend, keyring.BackendOS, "Select keyring's backend (os|file|test)")
	cmd.Flags().String(flags.FlagKeyringDir, "", "The client Keyring directory; if omitted, the default 'home' directory will be used")
	_ = cmd.MarkFlagRequired(flags.FlagFrom)
}

// NodeFromCmd returns a client for the --node endpoint.
func NodeFromCmd(cmd *cobra.Command) (*Node, error) {
	endpoint, err := cmd.Flags().GetString(FlagNode)
	if err != nil {
		return nil, err
	}
	return NewNode(endpoint), nil
}

// PrintOutput writes the JSON document bz as indented JSON or, for the text
// output, as YAML.
func PrintOutput(cmd *cobra.Command, bz []byte) error {
	output, _ := cmd.Flags().GetString(cli.OutputFlag)

	var out []byte
	switch output {
	case "json":
		var v interface{}
		if err := json.Unmarshal(bz, &v); err != nil {
			return err
		}
		indented, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		out = indented
	default:
		converted, err := yaml.JSONToYAML(bz)
		if err != nil {
			return err
		}
		out = converted
	}

	w := cmd.OutOrStdout()
	if _, err := w.Write(out); err != nil {
		return err
	}
	if len(out) > 0 && out[len(out)-1] != '\n' {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}

// PrintObject prints v the way PrintOutput does.
func PrintObject(cmd *cobra.Command, v interface{}) error {
	bz, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return PrintOutput(cmd, bz)
}

// QueryCmd returns a RunE that prints the reply of the node for the path
// built from the arguments.
func QueryCmd(path func(args []string) (string, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		p, err := path(args)
		if err != nil {
			return err
		}
		node, err := NodeFromCmd(cmd)
		if err != nil {
			return err
		}
		raw, err := node.GetRaw(commandContext(cmd), p)
		if err != nil {
			return err
		}
		return PrintOutput(cmd, raw)
	}
}

// TxContext signs and broadcasts the messages of a tx command.
type TxContext struct {
	Node    *Node
	Keyring keyring.Keyring
	From    string
	Address sdk.AccAddress
}

// GetTxContext opens the keyring and resolves the --from key.
func GetTxContext(cmd *cobra.Command) (TxContext, error) {
	node, err := NodeFromCmd(cmd)
	if err != nil {
		return TxContext{}, err
	}
	from, _ := cmd.Flags().GetString(flags.FlagFrom)
	backend, _ := cmd.Flags().GetString(flags.FlagKeyringBackend)
	dir, _ := cmd.Flags().GetString(flags.FlagKeyringDir)
	if dir == "" {
		dir, _ = cmd.Flags().GetString(flags.FlagHome)
	}

	kr, err := NewKeyring(backend, dir, cmd.InOrStdin())
	if err != nil {
		return TxContext{}, err
	}
	addr, err := KeyAddress(kr, from)
	if err != nil {
		return TxContext{}, errors.Wrapf(err, "key %s", from)
	}
	return TxContext{Node: node, Keyring: kr, From: from, Address: addr}, nil
}

// BroadcastTx signs msg with the --from key and sends it to the node.
func BroadcastTx(cmd *cobra.Command, txCtx TxContext, msg gurutypes.Msg) error {
	if err := msg.ValidateBasic(); err != nil {
		return err
	}

	ctx := commandContext(cmd)
	status, err := txCtx.Node.Status(ctx)
	if err != nil {
		return err
	}
	seq, err := txCtx.Node.Sequence(ctx, txCtx.Address)
	if err != nil {
		return err
	}
	tx, err := app.NewTx(status.ChainID, seq, msg)
	if err != nil {
		return err
	}
	if err := tx.Sign(app.KeyringSigner{Keyring: txCtx.Keyring, UID: txCtx.From}); err != nil {
		return err
	}

	res, err := txCtx.Node.Broadcast(ctx, tx)
	if err != nil {
		return err
	}
	if err := PrintObject(cmd, res); err != nil {
		return err
	}
	if res.Code != 0 {
		return fmt.Errorf("transaction failed with code %d: %s", res.Code, res.Log)
	}
	return nil
}

// NewTxCmd wraps a message builder into a command RunE.
func NewTxCmd(build func(from sdk.AccAddress, args []string) (gurutypes.Msg, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		txCtx, err := GetTxContext(cmd)
		if err != nil {
			return err
		}
		msg, err := build(txCtx.Address, args)
		if err != nil {
			return err
		}
		return BroadcastTx(cmd, txCtx, msg)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// ParseUint parses a decimal argument.
func ParseUint(name, s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s %q", name, s)
	}
	return v, nil
}

// ParseInt parses a non-negative integer amount.
func ParseInt(name, s string) (math.Int, error) {
	if s == "" || strings.Trim(s, "0123456789") != "" {
		return math.Int{}, errors.Errorf("invalid %s %q", name, s)
	}
	digits := strings.TrimLeft(s, "0")
	if digits == "" {
		return math.ZeroInt(), nil
	}
	v, ok := math.NewIntFromString(digits)
	if !ok {
		return math.Int{}, errors.Errorf("invalid %s %q", name, s)
	}
	return v, nil
}

// ParseAddress parses a bech32 account address.
func ParseAddress(name, s string) (sdk.AccAddress, error) {
	addr, err := sdk.AccAddressFromBech32(s)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s", name)
	}
	return addr, nil
}
