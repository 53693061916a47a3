package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"

	"github.com/GPTx-global/guru-aggregator/app"
	"github.com/GPTx-global/guru-aggregator/server/rest"
	aggtypes "github.com/GPTx-global/guru-aggregator/x/aggregator/types"
)

const defaultTimeout = 10 * time.Second

// NodeError is a non-2xx reply of the node.
type NodeError struct {
	Status   int
	Response rest.ErrorResponse
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node replied %d: %s (codespace %s, code %d)", e.Status, e.Response.Error, e.Response.Codespace, e.Response.Code)
}

// Temporary reports whether repeating the request may succeed.
func (e *NodeError) Temporary() bool {
	return e.Status == http.StatusConflict || e.Status >= http.StatusInternalServerError
}

// Node talks to the REST endpoint of an aggregatord node.
type Node struct {
	endpoint string
	http     *http.Client
}

// NewNode returns a client for endpoint, e.g. http://127.0.0.1:1317.
func NewNode(endpoint string) *Node {
	return &Node{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{Timeout: defaultTimeout},
	}
}

func (n *Node) Endpoint() string {
	return n.endpoint
}

// Get decodes the JSON reply of path into out.
func (n *Node) Get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.endpoint+path, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	return n.do(req, out)
}

// GetRaw returns the JSON reply of path as is.
func (n *Node) GetRaw(ctx context.Context, path string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := n.Get(ctx, path, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (n *Node) Health(ctx context.Context) error {
	return n.Get(ctx, "/health", nil)
}

func (n *Node) Status(ctx context.Context) (rest.StatusResponse, error) {
	var status rest.StatusResponse
	err := n.Get(ctx, "/status", &status)
	return status, err
}

func (n *Node) Sequence(ctx context.Context, addr sdk.AccAddress) (uint64, error) {
	var res rest.SequenceResponse
	if err := n.Get(ctx, "/auth/sequence/"+addr.String(), &res); err != nil {
		return 0, err
	}
	return res.Sequence, nil
}

// OracleRoundState asks which round oracle should report on next.
func (n *Node) OracleRoundState(ctx context.Context, oracle sdk.AccAddress) (aggtypes.QueryOracleRoundStateResponse, error) {
	var res aggtypes.QueryOracleRoundStateResponse
	err := n.Get(ctx, "/aggregator/oracles/"+oracle.String()+"/round_state", &res)
	return res, err
}

// Broadcast submits tx. A rejected transaction is returned as *NodeError; a
// message failure is reported in the result code.
func (n *Node) Broadcast(ctx context.Context, tx app.Tx) (app.TxResult, error) {
	var res app.TxResult
	bz, err := json.Marshal(tx)
	if err != nil {
		return res, errors.Wrap(err, "failed to encode tx")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint+"/txs", bytes.NewReader(bz))
	if err != nil {
		return res, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	err = n.do(req, &res)
	return res, err
}

func (n *Node) do(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	resp, err := n.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", req.Method, req.URL.Path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		nodeErr := &NodeError{Status: resp.StatusCode}
		if err := json.Unmarshal(body, &nodeErr.Response); err != nil || nodeErr.Response.Error == "" {
			nodeErr.Response.Error = strings.TrimSpace(string(body))
		}
		return nodeErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, "failed to decode %s reply", req.URL.Path)
	}
	return nil
}
