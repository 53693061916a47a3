package rest

import (
	"encoding/json"
	"net/http"

	errorsmod "cosmossdk.io/errors"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/pkg/errors"

	aggtypes "github.com/GPTx-global/guru-aggregator/x/aggregator/types"
	exchangetypes "github.com/GPTx-global/guru-aggregator/x/exchange/types"
	pricetypes "github.com/GPTx-global/guru-aggregator/x/priceaggregator/types"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Code      uint32 `json:"code"`
	Codespace string `json:"codespace"`
	Error     string `json:"error"`
}

var notFound = []error{
	sdkerrors.ErrNotFound,
	sdkerrors.ErrKeyNotFound,
	aggtypes.ErrRoundNotFound,
	aggtypes.ErrDetailsNotFound,
	aggtypes.ErrOracleNotFound,
	aggtypes.ErrRequesterNotFound,
	aggtypes.ErrNoData,
	pricetypes.ErrTokenPairNotFound,
	pricetypes.ErrNoCompletedRounds,
	pricetypes.ErrOracleNotFound,
	exchangetypes.ErrRequestNotFound,
	exchangetypes.ErrUnsupportedDenom,
}

func httpStatus(err error) int {
	for _, target := range notFound {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}
	switch {
	case errors.Is(err, sdkerrors.ErrUnauthorized), errors.Is(err, sdkerrors.ErrInvalidPubKey):
		return http.StatusUnauthorized
	case errors.Is(err, sdkerrors.ErrWrongSequence):
		return http.StatusConflict
	}

	if _, code, _ := errorsmod.ABCIInfo(err, false); code == 1 {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

func writeError(w http.ResponseWriter, err error) {
	codespace, code, log := errorsmod.ABCIInfo(err, false)
	writeJSON(w, httpStatus(err), ErrorResponse{Code: code, Codespace: codespace, Error: log})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
