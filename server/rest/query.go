package rest

import (
	"context"
	"net/http"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/gorilla/mux"

	aggtypes "github.com/GPTx-global/guru-aggregator/x/aggregator/types"
	exchangetypes "github.com/GPTx-global/guru-aggregator/x/exchange/types"
	pricetypes "github.com/GPTx-global/guru-aggregator/x/priceaggregator/types"
	tokenstypes "github.com/GPTx-global/guru-aggregator/x/tokens/types"
)

type queryFunc func(c context.Context, vars map[string]string, r *http.Request) (interface{}, error)

// FundsResponse groups the two fund counters of the aggregator.
type FundsResponse struct {
	Allocated sdkmath.Int `json:"allocated"`
	Available sdkmath.Int `json:"available"`
}

// query runs fn against the last committed state and writes its result.
func (s *Server) query(fn queryFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		var res interface{}
		err := s.app.Query(func(c context.Context) error {
			var err error
			res, err = fn(c, vars, r)
			return err
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func parseUint(name, value string) (uint64, error) {
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errorsmod.Wrapf(sdkerrors.ErrInvalidRequest, "invalid %s %q", name, value)
	}
	return n, nil
}

func (s *Server) registerTokensRoutes(r *mux.Router) {
	q := s.app.Queriers().Tokens

	r.HandleFunc("/balances/{address}", s.query(func(c context.Context, vars map[string]string, _ *http.Request) (interface{}, error) {
		return q.AllBalances(c, &tokenstypes.QueryAllBalancesRequest{Address: vars["address"]})
	})).Methods(http.MethodGet)
	r.HandleFunc("/balances/{address}/{denom}", s.query(func(c context.Context, vars map[string]string, _ *http.Request) (interface{}, error) {
		return q.Balance(c, &tokenstypes.QueryBalanceRequest{Address: vars["address"], Denom: vars["denom"]})
	})).Methods(http.MethodGet)
	r.HandleFunc("/supply/{denom}", s.query(func(c context.Context, vars map[string]string, _ *http.Request) (interface{}, error) {
		return q.Supply(c, &tokenstypes.QuerySupplyRequest{Denom: vars["denom"]})
	})).Methods(http.MethodGet)
}

func (s *Server) registerAggregatorRoutes(r *mux.Router) {
	q := s.app.Queriers().Aggregator

	r.HandleFunc("/rounds/latest", s.query(func(c context.Context, _ map[string]string, _ *http.Request) (interface{}, error) {
		return q.LatestRoundData(c, &aggtypes.QueryLatestRoundDataRequest{})
	})).Methods(http.MethodGet)
	r.HandleFunc("/rounds/{id}", s.query(func(c context.Context, vars map[string]string, _ *http.Request) (interface{}, error) {
		id, err := parseUint("round id", vars["id"])
		if err != nil {
			return nil, err
		}
		return q.RoundData(c, &aggtypes.QueryRoundDataRequest{RoundID: id})
	})).Methods(http.MethodGet)
	r.HandleFunc("/oracles", s.query(func(c context.Context, _ map[string]string, _ *http.Request) (interface{}, error) {
		return q.Oracles(c, &aggtypes.QueryOraclesRequest{})
	})).Methods(http.MethodGet)
	r.HandleFunc("/oracles/count", s.query(func(c context.Context, _ map[string]string, _ *http.Request) (interface{}, error) {
		return q.OracleCount(c, &aggtypes.QueryOracleCountRequest{})
	})).Methods(http.MethodGet)
	r.HandleFunc("/oracles/{oracle}", s.query(func(c context.Context, vars map[string]string, _ *http.Request) (interface{}, error) {
		return q.OracleStatus(c, &aggtypes.QueryOracleStatusRequest{Oracle: vars["oracle"]})
	})).Methods(http.MethodGet)
	r.HandleFunc("/oracles/{oracle}/round_state", s.query(func(c context.Context, vars map[string]string, r *http.Request) (interface{}, error) {
		var roundID uint64
		if v := r.URL.Query().Get("round_id"); v != "" {
			id, err := parseUint("round id", v)
			if err != nil {
				return nil, err
			}
			roundID = id
		}
		return q.OracleRoundState(c, &aggtypes.QueryOracleRoundStateRequest{Oracle: vars["oracle"], RoundID: roundID})
	})).Methods(http.MethodGet)
	r.HandleFunc("/oracles/{oracle}/withdrawable", s.query(func(c context.Context, vars map[string]string, _ *http.Request) (interface{}, error) {
		return q.WithdrawablePayment(c, &aggtypes.QueryOracleStatusRequest{Oracle: vars["oracle"]})
	})).Methods(http.MethodGet)
	r.HandleFunc("/oracles/{oracle}/admin", s.query(func(c context.Context, vars map[string]string, _ *http.Request) (interface{}, error) {
		return q.Admin(c, &aggtypes.QueryOracleStatusRequest{Oracle: vars["oracle"]})
	})).Methods(http.MethodGet)
	r.HandleFunc("/requesters/{address}", s.query(func(c context.Context, vars map[string]string, _ *http.Request) (interface{}, error) {
		return q.Requester(c, &aggtypes.QueryRequesterRequest{Requester: vars["address"]})
	})).Methods(http.MethodGet)
	r.HandleFunc("/funds", s.query(func(c context.Context, _ map[string]string, _ *http.Request) (interface{}, error) {
		allocated, err := q.AllocatedFunds(c, &aggtypes.QueryAllocatedFundsRequest{})
		if err != nil {
			return nil, err
		}
		available, err := q.AvailableFunds(c, &aggtypes.QueryAvailableFundsRequest{})
		if err != nil {
			return nil, err
		}
		return FundsResponse{Allocated: allocated.Amount, Available: available.Amount}, nil
	})).Methods(http.MethodGet)
	r.HandleFunc("/required_reserve", s.query(func(c context.Context, _ map[string]string, r *http.Request) (interface{}, error) {
		v := r.URL.Query().Get("payment")
		payment, ok := sdkmath.NewIntFromString(v)
		if !ok {
			return nil, errorsmod.Wrapf(sdkerrors.ErrInvalidRequest, "invalid payment %q", v)
		}
		return q.RequiredReserve(c, &aggtypes.QueryRequiredReserveRequest{PaymentAmount: payment})
	})).Methods(http.MethodGet)
	r.HandleFunc("/params", s.query(func(c context.Context, _ map[string]string, _ *http.Request) (interface{}, error) {
		return q.Params(c, &aggtypes.QueryParamsRequest{})
	})).Methods(http.MethodGet)
	r.HandleFunc("/feed_config", s.query(func(c context.Context, _ map[string]string, _ *http.Request) (interface{}, error) {
		return q.FeedConfig(c, &aggtypes.QueryFeedConfigRequest{})
	})).Methods(http.MethodGet)
	r.HandleFunc("/owner", s.query(func(c context.Context, _ map[string]string, _ *http.Request) (interface{}, error) {
		return q.Owner(c, &aggtypes.QueryOwnerRequest{})
	})).Methods(http.MethodGet)
}

func (s *Server) registerPriceRoutes(r *mux.Router) {
	q := s.app.Queriers().Price

	pair := func(vars map[string]string) *pricetypes.QueryPriceFeedRequest {
		return &pricetypes.QueryPriceFeedRequest{From: vars["from"], To: vars["to"]}
	}

	r.HandleFunc("/feeds", s.query(func(c context.Context, _ map[string]string, _ *http.Request) (interface{}, error) {
		return q.LatestRoundData(c, &pricetypes.QueryLatestRoundDataRequest{})
	})).Methods(http.MethodGet)
	r.HandleFunc("/feeds/{from}/{to}", s.query(func(c context.Context, vars map[string]string, r *http.Request) (interface{}, error) {
		if r.URL.Query().Get("optional") == "true" {
			return q.LatestPriceFeedOptional(c, pair(vars))
		}
		return q.LatestPriceFeed(c, pair(vars))
	})).Methods(http.MethodGet)
	r.HandleFunc("/pending/{from}/{to}", s.query(func(c context.Context, vars map[string]string, _ *http.Request) (interface{}, error) {
		return q.PendingSubmissions(c, &pricetypes.QueryPendingSubmissionsRequest{From: vars["from"], To: vars["to"]})
	})).Methods(http.MethodGet)
	r.HandleFunc("/oracles", s.query(func(c context.Context, _ map[string]string, _ *http.Request) (interface{}, error) {
		return q.Oracles(c, &pricetypes.QueryOraclesRequest{})
	})).Methods(http.MethodGet)
	r.HandleFunc("/oracles/{oracle}", s.query(func(c context.Context, vars map[string]string, _ *http.Request) (interface{}, error) {
		return q.OracleStatus(c, &pricetypes.QueryOracleStatusRequest{Oracle: vars["oracle"]})
	})).Methods(http.MethodGet)
	r.HandleFunc("/params", s.query(func(c context.Context, _ map[string]string, _ *http.Request) (interface{}, error) {
		return q.Params(c, &pricetypes.QueryParamsRequest{})
	})).Methods(http.MethodGet)
	r.HandleFunc("/owner", s.query(func(c context.Context, _ map[string]string, _ *http.Request) (interface{}, error) {
		return q.Owner(c, &pricetypes.QueryOwnerRequest{})
	})).Methods(http.MethodGet)
}

func (s *Server) registerExchangeRoutes(r *mux.Router) {
	q := s.app.Queriers().Exchange

	r.HandleFunc("/reserves", s.query(func(c context.Context, _ map[string]string, _ *http.Request) (interface{}, error) {
		return q.Reserves(c, &exchangetypes.QueryReservesRequest{})
	})).Methods(http.MethodGet)
	r.HandleFunc("/reserves/{denom}", s.query(func(c context.Context, vars map[string]string, _ *http.Request) (interface{}, error) {
		return q.Reserve(c, &exchangetypes.QueryReserveRequest{Denom: vars["denom"]})
	})).Methods(http.MethodGet)
	r.HandleFunc("/reserves/{denom}/pending", s.query(func(c context.Context, vars map[string]string, _ *http.Request) (interface{}, error) {
		return q.PendingTotal(c, &exchangetypes.QueryReserveRequest{Denom: vars["denom"]})
	})).Methods(http.MethodGet)
	r.HandleFunc("/requests", s.query(func(c context.Context, _ map[string]string, _ *http.Request) (interface{}, error) {
		return q.PendingRequests(c, &exchangetypes.QueryPendingRequestsRequest{})
	})).Methods(http.MethodGet)
	r.HandleFunc("/requests/{id}", s.query(func(c context.Context, vars map[string]string, _ *http.Request) (interface{}, error) {
		id, err := parseUint("request id", vars["id"])
		if err != nil {
			return nil, err
		}
		return q.Pending(c, &exchangetypes.QueryPendingRequest{ID: id})
	})).Methods(http.MethodGet)
	r.HandleFunc("/owner", s.query(func(c context.Context, _ map[string]string, _ *http.Request) (interface{}, error) {
		return q.Owner(c, &exchangetypes.QueryOwnerRequest{})
	})).Methods(http.MethodGet)
}
