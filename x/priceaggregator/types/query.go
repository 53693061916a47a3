package types

import (
	"context"
)

// QueryServer is the priceaggregator read API
type QueryServer interface {
	LatestRoundData(context.Context, *QueryLatestRoundDataRequest) (*QueryLatestRoundDataResponse, error)
	LatestPriceFeed(context.Context, *QueryPriceFeedRequest) (*QueryPriceFeedResponse, error)
	LatestPriceFeedOptional(context.Context, *QueryPriceFeedRequest) (*QueryPriceFeedOptionalResponse, error)
	Oracles(context.Context, *QueryOraclesRequest) (*QueryOraclesResponse, error)
	OracleStatus(context.Context, *QueryOracleStatusRequest) (*QueryOracleStatusResponse, error)
	PendingSubmissions(context.Context, *QueryPendingSubmissionsRequest) (*QueryPendingSubmissionsResponse, error)
	Params(context.Context, *QueryParamsRequest) (*QueryParamsResponse, error)
	Owner(context.Context, *QueryOwnerRequest) (*QueryOwnerResponse, error)
}

type QueryLatestRoundDataRequest struct{}

type QueryLatestRoundDataResponse struct {
	Feeds []PriceFeed `json:"feeds"`
}

type QueryPriceFeedRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type QueryPriceFeedResponse struct {
	Feed PriceFeed `json:"feed"`
}

type QueryPriceFeedOptionalResponse struct {
	Feed *PriceFeed `json:"feed,omitempty"`
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

type QueryPendingSubmissionsRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type QueryPendingSubmissionsResponse struct {
	Window      Window              `json:"window"`
	Submissions []PendingSubmission `json:"submissions"`
}

type QueryParamsRequest struct{}

type QueryParamsResponse struct {
	Params Params `json:"params"`
}

type QueryOwnerRequest struct{}

type QueryOwnerResponse struct {
	Owner string `json:"owner"`
}
