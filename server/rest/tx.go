package rest

import (
	"encoding/json"
	"io"
	"net/http"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/gorilla/mux"

	"github.com/GPTx-global/guru-aggregator/app"
)

const maxTxBytes = 1 << 20

// SequenceResponse carries the sequence the next transaction of Address must
// be signed with.
type SequenceResponse struct {
	Address  string `json:"address"`
	Sequence uint64 `json:"sequence,string"`
}

func (s *Server) handleBroadcastTx(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxTxBytes+1))
	if err != nil {
		writeError(w, errorsmod.Wrap(sdkerrors.ErrIO, err.Error()))
		return
	}
	if len(body) > maxTxBytes {
		writeError(w, errorsmod.Wrapf(sdkerrors.ErrTxTooLarge, "limit is %d bytes", maxTxBytes))
		return
	}

	var tx app.Tx
	if err := json.Unmarshal(body, &tx); err != nil {
		writeError(w, errorsmod.Wrap(sdkerrors.ErrTxDecode, err.Error()))
		return
	}

	res, err := s.app.DeliverTx(tx)
	if err != nil {
		s.logger.Debug("rejected transaction", "type", tx.Type, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSequence(w http.ResponseWriter, r *http.Request) {
	addr, err := sdk.AccAddressFromBech32(mux.Vars(r)["address"])
	if err != nil {
		writeError(w, errorsmod.Wrap(sdkerrors.ErrInvalidAddress, err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, SequenceResponse{Address: addr.String(), Sequence: s.app.Sequence(addr)})
}
