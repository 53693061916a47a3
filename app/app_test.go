package app_test

import (
	"context"
	"encoding/json"
	"time"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/tendermint/tendermint/libs/log"
	tmdb "github.com/tendermint/tm-db"

	"github.com/GPTx-global/guru-aggregator/app"
	gurutypes "github.com/GPTx-global/guru-aggregator/types"
	aggtypes "github.com/GPTx-global/guru-aggregator/x/aggregator/types"
	exchangetypes "github.com/GPTx-global/guru-aggregator/x/exchange/types"
	pricetypes "github.com/GPTx-global/guru-aggregator/x/priceaggregator/types"
	tokenstypes "github.com/GPTx-global/guru-aggregator/x/tokens/types"
)

const chainID = "aggregator-test-1"

var genesisTime = time.Unix(1_700_000_000, 0).UTC()

type account struct {
	key  cryptotypes.PrivKey
	addr sdk.AccAddress
}

func newAccount() account {
	key := secp256k1.GenPrivKey()
	return account{key: key, addr: sdk.AccAddress(key.PubKey().Address())}
}

func mustJSON(v interface{}) json.RawMessage {
	bz, err := json.Marshal(v)
	Expect(err).NotTo(HaveOccurred())
	return bz
}

func coins(denom string, amount int64) sdk.Coins {
	return sdk.NewCoins(sdk.NewInt64Coin(denom, amount))
}

var _ = Describe("App", func() {
	var (
		db    tmdb.DB
		node  *app.App
		now   time.Time
		owner account
		oracA account
		oracB account
		alice account
	)

	clock := func() time.Time { return now }

	genesisDoc := func() app.GenesisDoc {
		state := app.NewDefaultGenesisState(owner.addr)

		state[tokenstypes.ModuleName] = mustJSON(tokenstypes.GenesisState{
			Balances: []tokenstypes.Balance{
				{Address: owner.addr.String(), Coins: coins(gurutypes.AttoGuru, 1000)},
				{Address: alice.addr.String(), Coins: coins("GURU", 100)},
			},
			ModuleBalances: []tokenstypes.ModuleBalance{
				{Module: aggtypes.ModuleName, Coins: coins(gurutypes.AttoGuru, 100)},
				{Module: exchangetypes.ModuleName, Coins: sdk.NewCoins(sdk.NewInt64Coin("GURU", 1000), sdk.NewInt64Coin("USD", 1000))},
			},
		})

		aggGenesis := aggtypes.NewGenesisState(
			owner.addr.String(),
			aggtypes.DefaultFeedConfig(),
			aggtypes.Params{PaymentAmount: math.NewInt(5), MinSubmissionCount: 1, MaxSubmissionCount: 2, RestartDelay: 0, Timeout: 30},
			[]aggtypes.GenesisOracle{
				{Address: oracA.addr.String(), Admin: oracA.addr.String()},
				{Address: oracB.addr.String(), Admin: oracB.addr.String()},
			},
		)
		state[aggtypes.ModuleName] = mustJSON(aggGenesis)
		state[exchangetypes.ModuleName] = mustJSON(exchangetypes.NewGenesisState(
			owner.addr.String(),
			sdk.NewInt64Coin("GURU", 1000),
			sdk.NewInt64Coin("USD", 1000),
		))

		return app.GenesisDoc{ChainID: chainID, GenesisTime: genesisTime, AppState: state}
	}

	newNode := func() *app.App {
		n, err := app.New(log.NewNopLogger(), db, app.WithChainID(chainID), app.WithClock(clock), app.WithInvariantCheckPeriod(1))
		Expect(err).NotTo(HaveOccurred())
		return n
	}

	signedTx := func(from account, msg gurutypes.Msg) app.Tx {
		tx, err := app.NewTx(chainID, node.Sequence(from.addr), msg)
		Expect(err).NotTo(HaveOccurred())
		Expect(tx.Sign(app.PrivKeySigner{PrivKey: from.key})).To(Succeed())
		return tx
	}

	deliver := func(from account, msg gurutypes.Msg) app.TxResult {
		res, err := node.DeliverTx(signedTx(from, msg))
		Expect(err).NotTo(HaveOccurred())
		return res
	}

	latestRound := func() aggtypes.Round {
		var round aggtypes.Round
		Expect(node.Query(func(c context.Context) error {
			res, err := node.Queriers().Aggregator.LatestRoundData(c, &aggtypes.QueryLatestRoundDataRequest{})
			if err != nil {
				return err
			}
			round = res.Round
			return nil
		})).To(Succeed())
		return round
	}

	balance := func(addr sdk.AccAddress, denom string) int64 {
		var amount int64
		Expect(node.Query(func(c context.Context) error {
			res, err := node.Queriers().Tokens.Balance(c, &tokenstypes.QueryBalanceRequest{Address: addr.String(), Denom: denom})
			if err != nil {
				return err
			}
			amount = res.Balance.Amount.Int64()
			return nil
		})).To(Succeed())
		return amount
	}

	BeforeEach(func() {
		db = tmdb.NewMemDB()
		now = genesisTime
		owner, oracA, oracB, alice = newAccount(), newAccount(), newAccount(), newAccount()
		node = newNode()
		Expect(node.InitChain(genesisDoc())).To(Succeed())
	})

	AfterEach(func() {
		node.Close()
	})

	Describe("InitChain", func() {
		It("commits the genesis block", func() {
			Expect(node.LastBlockHeight()).To(Equal(int64(1)))
			Expect(node.CheckInvariants()).To(BeEmpty())
		})

		It("refuses a second initialization", func() {
			Expect(node.InitChain(genesisDoc())).NotTo(Succeed())
		})

		It("rejects a genesis for another chain", func() {
			other, err := app.New(log.NewNopLogger(), tmdb.NewMemDB(), app.WithChainID("other"))
			Expect(err).NotTo(HaveOccurred())
			Expect(other.InitChain(genesisDoc())).NotTo(Succeed())
		})

		It("boots from the default genesis", func() {
			state := app.NewDefaultGenesisState(owner.addr)
			var price pricetypes.GenesisState
			Expect(json.Unmarshal(state[pricetypes.ModuleName], &price)).To(Succeed())
			Expect(price.Validate()).To(Succeed())

			fresh, err := app.New(log.NewNopLogger(), tmdb.NewMemDB(), app.WithChainID(chainID))
			Expect(err).NotTo(HaveOccurred())
			defer fresh.Close()
			Expect(fresh.InitChain(app.GenesisDoc{ChainID: chainID, GenesisTime: genesisTime, AppState: state})).To(Succeed())
			Expect(fresh.LastBlockHeight()).To(Equal(int64(1)))
			Expect(fresh.CheckInvariants()).To(BeEmpty())
		})

		It("rejects an invalid module genesis", func() {
			doc := genesisDoc()
			doc.AppState[pricetypes.ModuleName] = json.RawMessage(`{"owner":"nope"}`)
			fresh, err := app.New(log.NewNopLogger(), tmdb.NewMemDB(), app.WithChainID(chainID))
			Expect(err).NotTo(HaveOccurred())
			Expect(fresh.InitChain(doc)).NotTo(Succeed())
			Expect(fresh.LastBlockHeight()).To(BeZero())
		})
	})

	Describe("DeliverTx", func() {
		It("executes a signed submission in a new block", func() {
			now = now.Add(5 * time.Second)
			res := deliver(oracA, aggtypes.NewMsgSubmit(oracA.addr, 1, math.NewInt(200_000_000)))
			Expect(res.Code).To(BeZero(), res.Log)
			Expect(res.Height).To(Equal(int64(2)))

			round := latestRound()
			Expect(round.RoundID).To(Equal(uint64(1)))
			Expect(round.Answer.Values).To(Equal([]math.Int{math.NewInt(200_000_000)}))
			Expect(round.UpdatedAt).To(Equal(uint64(now.Unix())))
			Expect(node.Sequence(oracA.addr)).To(Equal(uint64(1)))
		})

		It("reports message failures in the result and still advances the sequence", func() {
			res := deliver(oracA, aggtypes.NewMsgSubmit(oracA.addr, 5, math.NewInt(1)))
			Expect(res.Code).NotTo(BeZero())
			Expect(res.Codespace).To(Equal(aggtypes.ModuleName))
			Expect(node.Sequence(oracA.addr)).To(Equal(uint64(1)))
			Expect(latestRound().RoundID).To(BeZero())
		})

		It("rejects a replayed transaction", func() {
			tx := signedTx(oracA, aggtypes.NewMsgSubmit(oracA.addr, 1, math.NewInt(1)))
			_, err := node.DeliverTx(tx)
			Expect(err).NotTo(HaveOccurred())
			_, err = node.DeliverTx(tx)
			Expect(err).To(MatchError(sdkerrors.ErrWrongSequence))
		})

		It("rejects a message signed by someone else", func() {
			tx, err := app.NewTx(chainID, 0, aggtypes.NewMsgSubmit(oracA.addr, 1, math.NewInt(1)))
			Expect(err).NotTo(HaveOccurred())
			Expect(tx.Sign(app.PrivKeySigner{PrivKey: oracB.key})).To(Succeed())
			_, err = node.DeliverTx(tx)
			Expect(err).To(MatchError(sdkerrors.ErrUnauthorized))
		})

		It("rejects a tampered message", func() {
			tx := signedTx(oracA, aggtypes.NewMsgSubmit(oracA.addr, 1, math.NewInt(1)))
			tx.Msg = mustJSON(aggtypes.NewMsgSubmit(oracA.addr, 1, math.NewInt(2)))
			_, err := node.DeliverTx(tx)
			Expect(err).To(MatchError(sdkerrors.ErrUnauthorized))
			Expect(node.LastBlockHeight()).To(Equal(int64(1)))
		})

		It("rejects unknown message types", func() {
			_, err := node.DeliverTx(app.Tx{ChainID: chainID, Type: "unknown", Msg: json.RawMessage(`{}`)})
			Expect(err).To(MatchError(sdkerrors.ErrUnknownRequest))
		})
	})

	Describe("exchange relay", func() {
		It("settles requests at the end of the block", func() {
			deliver(oracA, aggtypes.NewMsgSubmit(oracA.addr, 1, math.NewInt(200_000_000)))

			res := deliver(alice, exchangetypes.NewMsgExchange(alice.addr, sdk.NewInt64Coin("GURU", 10), "USD"))
			Expect(res.Code).To(BeZero(), res.Log)

			Expect(balance(alice.addr, "USD")).To(Equal(int64(20)))
			Expect(balance(alice.addr, "GURU")).To(Equal(int64(90)))
			Expect(node.CheckInvariants()).To(BeEmpty())
		})

		It("refunds when the feed has no answer", func() {
			deliver(alice, exchangetypes.NewMsgExchange(alice.addr, sdk.NewInt64Coin("GURU", 10), "USD"))
			Expect(balance(alice.addr, "GURU")).To(Equal(int64(100)))
			Expect(balance(alice.addr, "USD")).To(BeZero())
		})
	})

	Describe("Tick", func() {
		It("produces empty blocks with monotonic time", func() {
			now = now.Add(time.Minute)
			block := node.Tick()
			Expect(block.Height).To(Equal(int64(2)))
			Expect(block.Time).To(BeTemporally("==", now))

			now = now.Add(-time.Hour)
			block = node.Tick()
			Expect(block.Time).To(BeTemporally("==", genesisTime.Add(time.Minute)))
		})

		It("publishes committed blocks", func() {
			blocks, cancel := node.Subscribe(4)
			defer cancel()

			deliver(oracA, aggtypes.NewMsgSubmit(oracA.addr, 1, math.NewInt(7)))
			var block app.Block
			Eventually(blocks).Should(Receive(&block))
			Expect(block.Txs).To(HaveLen(1))

			var types []string
			for _, ev := range block.Txs[0].Events {
				types = append(types, ev.Type)
			}
			Expect(types).To(ContainElement(aggtypes.EventTypeAnswerUpdated))
		})
	})

	Describe("persistence", func() {
		It("reloads the committed state", func() {
			deliver(oracA, aggtypes.NewMsgSubmit(oracA.addr, 1, math.NewInt(7)))
			node.Close()

			node = newNode()
			Expect(node.LastBlockHeight()).To(Equal(int64(2)))
			Expect(latestRound().RoundID).To(Equal(uint64(1)))
			Expect(node.Sequence(oracA.addr)).To(Equal(uint64(1)))

			now = now.Add(-time.Hour)
			Expect(node.Tick().Time).To(BeTemporally("==", genesisTime))
		})

		It("round trips an exported genesis", func() {
			deliver(oracA, aggtypes.NewMsgSubmit(oracA.addr, 1, math.NewInt(7)))
			deliver(alice, exchangetypes.NewMsgExchange(alice.addr, sdk.NewInt64Coin("GURU", 10), "USD"))

			doc, err := node.ExportGenesis()
			Expect(err).NotTo(HaveOccurred())

			db = tmdb.NewMemDB()
			node = newNode()
			Expect(node.InitChain(doc)).To(Succeed())
			Expect(latestRound().Answer.Values).To(Equal([]math.Int{math.NewInt(7)}))
			Expect(balance(authtypes.NewModuleAddress(aggtypes.ModuleName), gurutypes.AttoGuru)).To(Equal(int64(100)))
			Expect(node.CheckInvariants()).To(BeEmpty())
		})
	})
})
