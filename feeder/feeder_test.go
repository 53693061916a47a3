package feeder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/suite"
	"github.com/tendermint/tendermint/libs/log"
	tmdb "github.com/tendermint/tm-db"

	"github.com/GPTx-global/guru-aggregator/app"
	"github.com/GPTx-global/guru-aggregator/client"
	"github.com/GPTx-global/guru-aggregator/config"
	"github.com/GPTx-global/guru-aggregator/server/rest"
	gurutypes "github.com/GPTx-global/guru-aggregator/types"
	aggtypes "github.com/GPTx-global/guru-aggregator/x/aggregator/types"
	pricetypes "github.com/GPTx-global/guru-aggregator/x/priceaggregator/types"
	tokenstypes "github.com/GPTx-global/guru-aggregator/x/tokens/types"
)

const chainID = "feeder-test-1"

type FeederTestSuite struct {
	suite.Suite

	key    cryptotypes.PrivKey
	addr   sdk.AccAddress
	node   *app.App
	api    *httptest.Server
	source *httptest.Server
}

func TestFeederTestSuite(t *testing.T) {
	suite.Run(t, new(FeederTestSuite))
}

func (suite *FeederTestSuite) mustJSON(v interface{}) json.RawMessage {
	bz, err := json.Marshal(v)
	suite.Require().NoError(err)
	return bz
}

func (suite *FeederTestSuite) SetupTest() {
	suite.key = secp256k1.GenPrivKey()
	suite.addr = sdk.AccAddress(suite.key.PubKey().Address())
	owner := sdk.AccAddress(secp256k1.GenPrivKey().PubKey().Address())

	node, err := app.New(log.NewNopLogger(), tmdb.NewMemDB(), app.WithChainID(chainID))
	suite.Require().NoError(err)

	state := app.NewDefaultGenesisState(owner)
	state[tokenstypes.ModuleName] = suite.mustJSON(tokenstypes.GenesisState{
		ModuleBalances: []tokenstypes.ModuleBalance{
			{Module: aggtypes.ModuleName, Coins: sdk.NewCoins(sdk.NewInt64Coin(gurutypes.AttoGuru, 100))},
		},
	})
	state[aggtypes.ModuleName] = suite.mustJSON(aggtypes.NewGenesisState(
		owner.String(),
		aggtypes.DefaultFeedConfig(),
		aggtypes.Params{PaymentAmount: math.NewInt(5), MinSubmissionCount: 1, MaxSubmissionCount: 1, Timeout: 30},
		[]aggtypes.GenesisOracle{{Address: suite.addr.String(), Admin: suite.addr.String()}},
	))
	suite.Require().NoError(node.InitChain(app.GenesisDoc{ChainID: chainID, GenesisTime: time.Now().UTC(), AppState: state}))
	suite.node = node

	suite.api = httptest.NewServer(rest.NewServer(node, config.RESTConfig{}, log.NewNopLogger()).Handler())
	suite.source = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"price":"42.50"}}`))
	}))
}

func (suite *FeederTestSuite) TearDownTest() {
	suite.source.Close()
	suite.api.Close()
	suite.node.Close()
}

func (suite *FeederTestSuite) config(kind string) config.FeederConfig {
	return config.FeederConfig{
		Enabled:        true,
		Endpoint:       suite.api.URL,
		KeyName:        "feeder",
		Workers:        2,
		HealthInterval: "0s",
		Retry:          config.RetryConfig{MaxAttempts: 2, InitialBackoff: "10ms", MaxBackoff: "20ms"},
		Jobs: []config.JobConfig{{
			Name: "guru-usd", Kind: kind, URL: suite.source.URL, Path: "data.price",
			Decimals: 2, Interval: "1h", From: "GURU", To: "USD",
		}},
	}
}

func (suite *FeederTestSuite) TestReportsAggregatorRound() {
	node := client.NewNode(suite.api.URL)
	f, err := New(suite.config(config.JobKindAggregator), node, app.PrivKeySigner{PrivKey: suite.key}, suite.addr,
		log.NewNopLogger(), WithTick(10*time.Millisecond))
	suite.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.Start(ctx) }()

	var latest aggtypes.QueryRoundDataResponse
	suite.Require().Eventually(func() bool {
		return node.Get(context.Background(), "/aggregator/rounds/latest", &latest) == nil
	}, 5*time.Second, 20*time.Millisecond)
	suite.Require().Equal(uint64(1), latest.Round.RoundID)
	suite.Require().NotNil(latest.Round.Answer)
	suite.Require().Equal("4250", latest.Round.Answer.Values[0].String())

	suite.Require().Eventually(func() bool {
		status, ok := f.JobStatus("guru-usd")
		return ok && !status.LastSuccess.IsZero()
	}, 5*time.Second, 20*time.Millisecond)

	seq, err := node.Sequence(context.Background(), suite.addr)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(1), seq)
	suite.Require().True(f.Health()["node"].Healthy)

	cancel()
	suite.Require().NoError(<-done)
}

func (suite *FeederTestSuite) TestStartNodeUnreachable() {
	cfg := suite.config(config.JobKindAggregator)
	node := client.NewNode("http://127.0.0.1:1")
	f, err := New(cfg, node, app.PrivKeySigner{PrivKey: suite.key}, suite.addr, log.NewNopLogger())
	suite.Require().NoError(err)
	suite.Require().Error(f.Start(context.Background()))
}

func (suite *FeederTestSuite) TestNewInvalidConfig() {
	cfg := suite.config(config.JobKindAggregator)
	cfg.Jobs = append(cfg.Jobs, cfg.Jobs[0])
	_, err := New(cfg, client.NewNode(suite.api.URL), app.PrivKeySigner{PrivKey: suite.key}, suite.addr, log.NewNopLogger())
	suite.Require().Error(err)
}

type fakeNode struct {
	mtx   sync.Mutex
	state aggtypes.QueryOracleRoundStateResponse
	code  uint32
	txs   []app.Tx
}

func (n *fakeNode) Health(context.Context) error { return nil }

func (n *fakeNode) Status(context.Context) (rest.StatusResponse, error) {
	return rest.StatusResponse{ChainID: chainID}, nil
}

func (n *fakeNode) Sequence(context.Context, sdk.AccAddress) (uint64, error) {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	return uint64(len(n.txs)), nil
}

func (n *fakeNode) OracleRoundState(context.Context, sdk.AccAddress) (aggtypes.QueryOracleRoundStateResponse, error) {
	return n.state, nil
}

func (n *fakeNode) Broadcast(_ context.Context, tx app.Tx) (app.TxResult, error) {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	n.txs = append(n.txs, tx)
	return app.TxResult{Code: n.code, Height: int64(len(n.txs)), Log: "rejected"}, nil
}

func (suite *FeederTestSuite) newFeeder(node Node) *Feeder {
	f, err := New(suite.config(config.JobKindAggregator), node, app.PrivKeySigner{PrivKey: suite.key}, suite.addr, log.NewNopLogger())
	suite.Require().NoError(err)
	f.chainID = chainID
	return f
}

func (suite *FeederTestSuite) observation(kind string, value int64) Observation {
	return Observation{
		Job:        Job{Name: "guru-usd", Kind: kind, From: "GURU", To: "USD"},
		Value:      math.NewInt(value),
		ObservedAt: time.Unix(1_700_000_000, 0),
	}
}

func (suite *FeederTestSuite) TestReportPrice() {
	node := &fakeNode{}
	f := suite.newFeeder(node)

	suite.Require().NoError(f.Report(context.Background(), suite.observation(config.JobKindPrice, 1234)))
	suite.Require().Len(node.txs, 1)
	tx := node.txs[0]
	suite.Require().Equal(chainID, tx.ChainID)
	suite.Require().Equal(pricetypes.TypeMsgSubmitPrice, tx.Type)

	var msg pricetypes.MsgSubmitPrice
	suite.Require().NoError(json.Unmarshal(tx.Msg, &msg))
	suite.Require().Equal(suite.addr.String(), msg.Oracle)
	suite.Require().Equal(uint64(1_700_000_000), msg.Submission.Timestamp)
	suite.Require().Equal("1234", msg.Submission.Price.String())

	suite.Require().Error(f.Report(context.Background(), suite.observation(config.JobKindPrice, 0)))
	suite.Require().Len(node.txs, 1)
}

func (suite *FeederTestSuite) TestReportAggregatorSkips() {
	node := &fakeNode{state: aggtypes.QueryOracleRoundStateResponse{RoundID: 3}}
	f := suite.newFeeder(node)

	suite.Require().NoError(f.Report(context.Background(), suite.observation(config.JobKindAggregator, 7)))
	suite.Require().Empty(node.txs)

	node.state = aggtypes.QueryOracleRoundStateResponse{
		EligibleToSubmit: true, RoundID: 3, AvailableFunds: math.NewInt(1), PaymentAmount: math.NewInt(5),
	}
	suite.Require().NoError(f.Report(context.Background(), suite.observation(config.JobKindAggregator, 7)))
	suite.Require().Empty(node.txs)

	node.state.AvailableFunds = math.NewInt(5)
	suite.Require().NoError(f.Report(context.Background(), suite.observation(config.JobKindAggregator, 7)))
	suite.Require().Len(node.txs, 1)

	var msg aggtypes.MsgSubmit
	suite.Require().NoError(json.Unmarshal(node.txs[0].Msg, &msg))
	suite.Require().Equal(uint64(3), msg.RoundID)
	suite.Require().Equal("7", msg.Values[0].String())
}

func (suite *FeederTestSuite) TestReportRejected() {
	node := &fakeNode{code: 7}
	f := suite.newFeeder(node)

	err := f.Report(context.Background(), suite.observation(config.JobKindPrice, 10))
	suite.Require().ErrorContains(err, "rejected")
	suite.Require().Len(node.txs, 1)
	suite.Require().Equal(StateClosed, f.breaker.State())
}
