package types

import (
	"context"

	"cosmossdk.io/math"
)

// QueryServer is the aggregator read API
type QueryServer interface {
	RoundData(context.Context, *QueryRoundDataRequest) (*QueryRoundDataResponse, error)
	LatestRoundData(context.Context, *QueryLatestRoundDataRequest) (*QueryRoundDataResponse, error)
	OracleRoundState(context.Context, *QueryOracleRoundStateRequest) (*QueryOracleRoundStateResponse, error)
	AllocatedFunds(context.Context, *QueryAllocatedFundsRequest) (*QueryAmountResponse, error)
	AvailableFunds(context.Context, *QueryAvailableFundsRequest) (*QueryAmountResponse, error)
	OracleCount(context.Context, *QueryOracleCountRequest) (*QueryOracleCountResponse, error)
	RequiredReserve(context.Context, *QueryRequiredReserveRequest) (*QueryAmountResponse, error)
	Oracles(context.Context, *QueryOraclesRequest) (*QueryOraclesResponse, error)
	OracleStatus(context.Context, *QueryOracleStatusRequest) (*QueryOracleStatusResponse, error)
	WithdrawablePayment(context.Context, *QueryOracleStatusRequest) (*QueryAmountResponse, error)
	Admin(context.Context, *QueryOracleStatusRequest) (*QueryAdminResponse, error)
	Requester(context.Context, *QueryRequesterRequest) (*QueryRequesterResponse, error)
	Params(context.Context, *QueryParamsRequest) (*QueryParamsResponse, error)
	FeedConfig(context.Context, *QueryFeedConfigRequest) (*QueryFeedConfigResponse, error)
	Owner(context.Context, *QueryOwnerRequest) (*QueryOwnerResponse, error)
}

type QueryRoundDataRequest struct {
	RoundID uint64 `json:"round_id"`
}

type QueryLatestRoundDataRequest struct{}

type QueryRoundDataResponse struct {
	Round Round `json:"round"`
}

// QueryOracleRoundStateRequest asks what an oracle should do next. RoundID 0
// lets the module suggest the round to report on.
type QueryOracleRoundStateRequest struct {
	Oracle  string `json:"oracle"`
	RoundID uint64 `json:"round_id"`
}

type QueryOracleRoundStateResponse struct {
	EligibleToSubmit bool        `json:"eligible_to_submit"`
	RoundID          uint64      `json:"round_id"`
	LatestSubmission *Submission `json:"latest_submission,omitempty"`
	StartedAt        uint64      `json:"started_at"`
	Timeout          uint64      `json:"timeout"`
	AvailableFunds   math.Int    `json:"available_funds"`
	OracleCount      uint64      `json:"oracle_count"`
	PaymentAmount    math.Int    `json:"payment_amount"`
}

type QueryAllocatedFundsRequest struct{}

type QueryAvailableFundsRequest struct{}

type QueryRequiredReserveRequest struct {
	PaymentAmount math.Int `json:"payment_amount"`
}

type QueryAmountResponse struct {
	Amount math.Int `json:"amount"`
}

type QueryOracleCountRequest struct{}

type QueryOracleCountResponse struct {
	Count uint64 `json:"count"`
}

type QueryOraclesRequest struct{}

type QueryOraclesResponse struct {
	Oracles []string `json:"oracles"`
}

type QueryOracleStatusRequest struct {
	Oracle string `json:"oracle"`
}

type QueryOracleStatusResponse struct {
	Status OracleStatus `json:"status"`
}

type QueryAdminResponse struct {
	Admin        string `json:"admin"`
	PendingAdmin string `json:"pending_admin,omitempty"`
}

type QueryRequesterRequest struct {
	Requester string `json:"requester"`
}

type QueryRequesterResponse struct {
	Requester Requester `json:"requester"`
}

type QueryParamsRequest struct{}

type QueryParamsResponse struct {
	Owner      string     `json:"owner"`
	Params     Params     `json:"params"`
	FeedConfig FeedConfig `json:"feed_config"`
}

type QueryFeedConfigRequest struct{}

type QueryFeedConfigResponse struct {
	FeedConfig FeedConfig `json:"feed_config"`
}

type QueryOwnerRequest struct{}

type QueryOwnerResponse struct {
	Owner string `json:"owner"`
}
