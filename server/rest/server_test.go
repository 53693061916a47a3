package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
	"github.com/tendermint/tendermint/libs/log"
	tmdb "github.com/tendermint/tm-db"

	"github.com/GPTx-global/guru-aggregator/app"
	"github.com/GPTx-global/guru-aggregator/config"
	gurutypes "github.com/GPTx-global/guru-aggregator/types"
	aggtypes "github.com/GPTx-global/guru-aggregator/x/aggregator/types"
	exchangetypes "github.com/GPTx-global/guru-aggregator/x/exchange/types"
	tokenstypes "github.com/GPTx-global/guru-aggregator/x/tokens/types"
)

const chainID = "rest-test-1"

type account struct {
	key  cryptotypes.PrivKey
	addr sdk.AccAddress
}

func newAccount() account {
	key := secp256k1.GenPrivKey()
	return account{key: key, addr: sdk.AccAddress(key.PubKey().Address())}
}

type ServerTestSuite struct {
	suite.Suite

	node   *app.App
	server *httptest.Server
	owner  account
	oracle account
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (suite *ServerTestSuite) mustJSON(v interface{}) json.RawMessage {
	bz, err := json.Marshal(v)
	suite.Require().NoError(err)
	return bz
}

func (suite *ServerTestSuite) SetupTest() {
	suite.owner = newAccount()
	suite.oracle = newAccount()
	now := time.Unix(1_700_000_000, 0).UTC()

	node, err := app.New(log.NewNopLogger(), tmdb.NewMemDB(),
		app.WithChainID(chainID),
		app.WithClock(func() time.Time { return now }),
	)
	suite.Require().NoError(err)

	state := app.NewDefaultGenesisState(suite.owner.addr)
	state[tokenstypes.ModuleName] = suite.mustJSON(tokenstypes.GenesisState{
		ModuleBalances: []tokenstypes.ModuleBalance{
			{Module: aggtypes.ModuleName, Coins: sdk.NewCoins(sdk.NewInt64Coin(gurutypes.AttoGuru, 100))},
			{Module: exchangetypes.ModuleName, Coins: sdk.NewCoins(sdk.NewInt64Coin("GURU", 10))},
		},
	})
	state[aggtypes.ModuleName] = suite.mustJSON(aggtypes.NewGenesisState(
		suite.owner.addr.String(),
		aggtypes.DefaultFeedConfig(),
		aggtypes.Params{PaymentAmount: math.NewInt(5), MinSubmissionCount: 1, MaxSubmissionCount: 1, Timeout: 30},
		[]aggtypes.GenesisOracle{{Address: suite.oracle.addr.String(), Admin: suite.oracle.addr.String()}},
	))
	state[exchangetypes.ModuleName] = suite.mustJSON(exchangetypes.NewGenesisState(
		suite.owner.addr.String(),
		sdk.NewInt64Coin("GURU", 10),
	))
	suite.Require().NoError(node.InitChain(app.GenesisDoc{ChainID: chainID, GenesisTime: now, AppState: state}))

	suite.node = node
	srv := NewServer(node, config.RESTConfig{CORSOrigins: []string{"*"}, WebSocket: true}, log.NewNopLogger())
	suite.server = httptest.NewServer(srv.Handler())
}

func (suite *ServerTestSuite) TearDownTest() {
	suite.server.Close()
	suite.node.Close()
}

func (suite *ServerTestSuite) get(path string, out interface{}) int {
	resp, err := http.Get(suite.server.URL + path)
	suite.Require().NoError(err)
	defer resp.Body.Close()
	if out != nil {
		suite.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (suite *ServerTestSuite) post(tx app.Tx, out interface{}) int {
	resp, err := http.Post(suite.server.URL+"/txs", "application/json", bytes.NewReader(suite.mustJSON(tx)))
	suite.Require().NoError(err)
	defer resp.Body.Close()
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func (suite *ServerTestSuite) submitTx(from account, sequence uint64, value int64) app.Tx {
	tx, err := app.NewTx(chainID, sequence, aggtypes.NewMsgSubmit(suite.oracle.addr, 1, math.NewInt(value)))
	suite.Require().NoError(err)
	suite.Require().NoError(tx.Sign(app.PrivKeySigner{PrivKey: from.key}))
	return tx
}

func (suite *ServerTestSuite) TestStatus() {
	var status StatusResponse
	suite.Require().Equal(http.StatusOK, suite.get("/status", &status))
	suite.Require().Equal(chainID, status.ChainID)
	suite.Require().Equal(int64(1), status.Height)
}

func (suite *ServerTestSuite) TestBroadcastAndQuery() {
	var seq SequenceResponse
	suite.Require().Equal(http.StatusOK, suite.get("/auth/sequence/"+suite.oracle.addr.String(), &seq))
	suite.Require().Equal(uint64(0), seq.Sequence)

	var res app.TxResult
	suite.Require().Equal(http.StatusOK, suite.post(suite.submitTx(suite.oracle, 0, 42), &res))
	suite.Require().Zero(res.Code, res.Log)
	suite.Require().Equal(int64(2), res.Height)

	var round aggtypes.QueryRoundDataResponse
	suite.Require().Equal(http.StatusOK, suite.get("/aggregator/rounds/latest", &round))
	suite.Require().Equal(uint64(1), round.Round.RoundID)
	suite.Require().NotNil(round.Round.Answer)
	suite.Require().Equal("[42]", fmt.Sprint(round.Round.Answer.Values))

	var funds FundsResponse
	suite.Require().Equal(http.StatusOK, suite.get("/aggregator/funds", &funds))
	suite.Require().Equal("5", funds.Allocated.String())
	suite.Require().Equal("95", funds.Available.String())

	var withdrawable aggtypes.QueryAmountResponse
	suite.Require().Equal(http.StatusOK, suite.get("/aggregator/oracles/"+suite.oracle.addr.String()+"/withdrawable", &withdrawable))
	suite.Require().Equal("5", withdrawable.Amount.String())

	suite.Require().Equal(http.StatusOK, suite.get("/auth/sequence/"+suite.oracle.addr.String(), &seq))
	suite.Require().Equal(uint64(1), seq.Sequence)
}

func (suite *ServerTestSuite) TestRejectedTransactions() {
	var res app.TxResult
	suite.Require().Equal(http.StatusOK, suite.post(suite.submitTx(suite.oracle, 0, 42), &res))

	var errRes ErrorResponse
	suite.Require().Equal(http.StatusConflict, suite.post(suite.submitTx(suite.oracle, 0, 42), &errRes))
	suite.Require().Contains(errRes.Error, "sequence")

	suite.Require().Equal(http.StatusUnauthorized, suite.post(suite.submitTx(suite.owner, 0, 42), &errRes))

	resp, err := http.Post(suite.server.URL+"/txs", "application/json", strings.NewReader("{"))
	suite.Require().NoError(err)
	resp.Body.Close()
	suite.Require().Equal(http.StatusBadRequest, resp.StatusCode)
}

func (suite *ServerTestSuite) TestQueryErrors() {
	testCases := []struct {
		name   string
		path   string
		status int
	}{
		{"missing round", "/aggregator/rounds/99", http.StatusNotFound},
		{"malformed round", "/aggregator/rounds/latest-ish", http.StatusBadRequest},
		{"bad address", "/tokens/balances/nobody", http.StatusBadRequest},
		{"unknown reserve", "/exchange/reserves/EUR", http.StatusNotFound},
		{"unknown request", "/exchange/requests/7", http.StatusNotFound},
		{"missing price pair", "/price/feeds/GURU/USD", http.StatusNotFound},
		{"bad payment", "/aggregator/required_reserve?payment=lots", http.StatusBadRequest},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			var errRes ErrorResponse
			suite.Require().Equal(tc.status, suite.get(tc.path, &errRes))
			suite.Require().NotEmpty(errRes.Error)
		})
	}
}

func (suite *ServerTestSuite) TestModuleQueries() {
	var reserves exchangetypes.QueryReservesResponse
	suite.Require().Equal(http.StatusOK, suite.get("/exchange/reserves", &reserves))
	suite.Require().Equal("10GURU", reserves.Reserves.String())

	var oracles aggtypes.QueryOraclesResponse
	suite.Require().Equal(http.StatusOK, suite.get("/aggregator/oracles", &oracles))
	suite.Require().Equal([]string{suite.oracle.addr.String()}, oracles.Oracles)

	var state aggtypes.QueryOracleRoundStateResponse
	suite.Require().Equal(http.StatusOK, suite.get("/aggregator/oracles/"+suite.oracle.addr.String()+"/round_state", &state))
	suite.Require().True(state.EligibleToSubmit)
	suite.Require().Equal(uint64(1), state.RoundID)

	var owner aggtypes.QueryOwnerResponse
	suite.Require().Equal(http.StatusOK, suite.get("/aggregator/owner", &owner))
	suite.Require().Equal(suite.owner.addr.String(), owner.Owner)
}

func (suite *ServerTestSuite) TestCORS() {
	req, err := http.NewRequest(http.MethodGet, suite.server.URL+"/health", nil)
	suite.Require().NoError(err)
	req.Header.Set("Origin", "https://dashboard.example")

	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	resp.Body.Close()
	suite.Require().Equal("*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func (suite *ServerTestSuite) TestWebSocketStream() {
	url := "ws" + strings.TrimPrefix(suite.server.URL, "http") + "/ws?events=" + aggtypes.EventTypeAnswerUpdated
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	suite.Require().NoError(err)
	defer conn.Close()
	// the handler subscribes right after the upgrade
	time.Sleep(100 * time.Millisecond)

	suite.node.Tick()
	_, err = suite.node.DeliverTx(suite.submitTx(suite.oracle, 0, 7))
	suite.Require().NoError(err)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg StreamMessage
	suite.Require().NoError(conn.ReadJSON(&msg))
	suite.Require().Equal(int64(3), msg.Height)
	suite.Require().NotEmpty(msg.Events)
	for _, e := range msg.Events {
		suite.Require().Equal(aggtypes.EventTypeAnswerUpdated, e.Type)
	}
}

func TestEventFilter(t *testing.T) {
	block := app.Block{Height: 4}
	block.Txs = []app.TxResult{{Events: nil}}
	_, ok := newEventFilter("answer_updated").apply(block)
	if ok {
		t.Fatal("empty block must not be streamed")
	}
	if len(newEventFilter(" a, ,b ")) != 2 {
		t.Fatal("filter must ignore blanks")
	}
}
