package cmd_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
	tmdb "github.com/tendermint/tm-db"

	"github.com/GPTx-global/guru-aggregator/app"
	"github.com/GPTx-global/guru-aggregator/client"
	"github.com/GPTx-global/guru-aggregator/cmd/aggregatord/cmd"
	"github.com/GPTx-global/guru-aggregator/config"
	"github.com/GPTx-global/guru-aggregator/server/rest"
	aggtypes "github.com/GPTx-global/guru-aggregator/x/aggregator/types"
)

func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	rootCmd := cmd.NewRootCmd()
	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	return out.String(), err
}

func newAddress() sdk.AccAddress {
	return sdk.AccAddress(secp256k1.GenPrivKey().PubKey().Address())
}

func TestInitCmd(t *testing.T) {
	home := t.TempDir()
	owner := newAddress()

	out, err := execute(t, context.Background(), "init", "--home", home, "--owner", owner.String(), "--chain-id", "test-1", "--output", "json")
	require.NoError(t, err)

	var res struct {
		ChainID string `json:"chain_id"`
		Owner   string `json:"owner"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Equal(t, "test-1", res.ChainID)
	require.Equal(t, owner.String(), res.Owner)

	doc, err := app.ReadGenesisDoc(config.GenesisPath(home))
	require.NoError(t, err)
	require.Equal(t, "test-1", doc.ChainID)
	require.Contains(t, doc.AppState, aggtypes.ModuleName)

	cfg, err := config.Load(home)
	require.NoError(t, err)
	require.Equal(t, "test-1", cfg.Node.ChainID)

	_, err = execute(t, context.Background(), "init", "--home", home, "--owner", owner.String())
	require.Error(t, err)

	_, err = execute(t, context.Background(), "init", "--home", home, "--owner", owner.String(), "--overwrite")
	require.NoError(t, err)
}

func TestInitCmdOwnerKey(t *testing.T) {
	home := t.TempDir()
	kr, err := client.NewKeyring("test", home, nil)
	require.NoError(t, err)
	addr, _, err := client.NewMnemonicAccount(kr, "owner")
	require.NoError(t, err)

	out, err := execute(t, context.Background(), "init", "--home", home, "--owner", "owner", "--keyring-backend", "test", "--output", "json")
	require.NoError(t, err)
	require.Contains(t, out, addr.String())

	_, err = execute(t, context.Background(), "init", "--home", t.TempDir(), "--owner", "missing", "--keyring-backend", "test")
	require.Error(t, err)
}

func TestTxAndQueryCmds(t *testing.T) {
	home := t.TempDir()
	kr, err := client.NewKeyring("test", home, nil)
	require.NoError(t, err)
	oracle, _, err := client.NewMnemonicAccount(kr, "oracle")
	require.NoError(t, err)
	owner := newAddress()

	node, err := app.New(log.NewNopLogger(), tmdb.NewMemDB(), app.WithChainID("cli-test-1"))
	require.NoError(t, err)
	defer node.Close()

	state := app.NewDefaultGenesisState(owner)
	aggGenesis, err := json.Marshal(aggtypes.NewGenesisState(
		owner.String(),
		aggtypes.DefaultFeedConfig(),
		aggtypes.Params{PaymentAmount: math.ZeroInt(), MinSubmissionCount: 1, MaxSubmissionCount: 1, Timeout: 30},
		[]aggtypes.GenesisOracle{{Address: oracle.String(), Admin: oracle.String()}},
	))
	require.NoError(t, err)
	state[aggtypes.ModuleName] = aggGenesis
	require.NoError(t, node.InitChain(app.GenesisDoc{ChainID: "cli-test-1", GenesisTime: time.Now().UTC(), AppState: state}))

	server := httptest.NewServer(rest.NewServer(node, config.RESTConfig{}, log.NewNopLogger()).Handler())
	defer server.Close()

	_, err = execute(t, context.Background(), "tx", "aggregator", "submit", "1", "42",
		"--from", "oracle", "--keyring-backend", "test", "--home", home, "--node", server.URL)
	require.NoError(t, err)
	require.Equal(t, uint64(1), node.Sequence(oracle))

	out, err := execute(t, context.Background(), "query", "aggregator", "latest-round", "--node", server.URL, "--output", "json")
	require.NoError(t, err)
	var latest aggtypes.QueryRoundDataResponse
	require.NoError(t, json.Unmarshal([]byte(out), &latest))
	require.Equal(t, uint64(1), latest.Round.RoundID)
	require.Equal(t, "42", latest.Round.Answer.Values[0].String())

	out, err = execute(t, context.Background(), "q", "aggregator", "oracles", "--node", server.URL)
	require.NoError(t, err)
	require.Contains(t, out, oracle.String())

	// round 1 is answered, the oracle cannot report on it again
	_, err = execute(t, context.Background(), "tx", "aggregator", "submit", "1", "43",
		"--from", "oracle", "--keyring-backend", "test", "--home", home, "--node", server.URL)
	require.Error(t, err)

	_, err = execute(t, context.Background(), "query", "aggregator", "round", "abc", "--node", server.URL)
	require.Error(t, err)
}

func TestStartCmd(t *testing.T) {
	home := t.TempDir()
	_, err := execute(t, context.Background(), "init", "--home", home, "--owner", newAddress().String())
	require.NoError(t, err)

	t.Setenv("AGGREGATORD_NODE_DB_BACKEND", "memdb")
	t.Setenv("AGGREGATORD_NODE_BLOCK_INTERVAL", "10ms")
	t.Setenv("AGGREGATORD_REST_ADDRESS", "127.0.0.1:0")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	_, err = execute(t, ctx, "start", "--home", home)
	require.NoError(t, err)
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, context.Background(), "version", "--output", "json")
	require.NoError(t, err)
	require.Contains(t, out, `"name": "aggregatord"`)
}
