package keeper

import (
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	metrics "github.com/armon/go-metrics"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/GPTx-global/guru-aggregator/x/aggregator/median"
	"github.com/GPTx-global/guru-aggregator/x/priceaggregator/types"
)

// SubmitResult is the outcome of a single price submission.
type SubmitResult struct {
	Accepted bool
	// RoundID is the round completed by the submission, 0 if none.
	RoundID uint64
}

// Submit records a price from an oracle. Submissions that arrive while the
// oracle already has a price in the window, or that predate the window, are
// counted but not kept.
func (k Keeper) Submit(ctx sdk.Context, oracle sdk.AccAddress, submission types.PriceSubmission) (SubmitResult, error) {
	params, err := k.requireSubmitter(ctx, oracle)
	if err != nil {
		return SubmitResult{}, err
	}
	return k.submit(ctx, params, oracle, submission)
}

// SubmitBatch applies Submit to every entry. Any failure aborts the batch.
func (k Keeper) SubmitBatch(ctx sdk.Context, oracle sdk.AccAddress, submissions []types.PriceSubmission) ([]SubmitResult, error) {
	params, err := k.requireSubmitter(ctx, oracle)
	if err != nil {
		return nil, err
	}

	results := make([]SubmitResult, 0, len(submissions))
	for i, s := range submissions {
		res, err := k.submit(ctx, params, oracle, s)
		if err != nil {
			return nil, errorsmod.Wrapf(err, "submission %d", i)
		}
		results = append(results, res)
	}
	return results, nil
}

func (k Keeper) requireSubmitter(ctx sdk.Context, oracle sdk.AccAddress) (types.Params, error) {
	params := k.GetParams(ctx)
	if params.Paused {
		return params, types.ErrPaused
	}
	if !k.IsOracle(ctx, oracle) {
		return params, errorsmod.Wrapf(types.ErrNotOracle, "%s", oracle)
	}
	return params, nil
}

func (k Keeper) submit(ctx sdk.Context, params types.Params, oracle sdk.AccAddress, submission types.PriceSubmission) (SubmitResult, error) {
	if err := submission.Validate(); err != nil {
		return SubmitResult{}, err
	}

	pair := submission.Pair()
	current := now(ctx)
	if submission.Timestamp > current {
		return SubmitResult{}, errorsmod.Wrapf(types.ErrFutureTimestamp, "%d > %d", submission.Timestamp, current)
	}

	window, open := k.GetWindow(ctx, pair)
	first := false
	switch {
	case !open:
		if current-submission.Timestamp > types.FirstSubmissionMaxAge {
			return SubmitResult{}, errorsmod.Wrapf(types.ErrFirstSubmissionTooOld, "submitted at %d, now %d", submission.Timestamp, current)
		}
		window = types.Window{FirstSubmissionTimestamp: current, LastSubmissionTimestamp: current}
		first = true

	case current > window.FirstSubmissionTimestamp+types.MaxRoundDuration:
		k.discardWindow(ctx, pair, window)
		window = types.Window{FirstSubmissionTimestamp: current, LastSubmissionTimestamp: current}
		first = true
	}

	submitted := k.hasSubmitted(ctx, pair, oracle)
	accepted := !submitted && (first || submission.Timestamp >= window.FirstSubmissionTimestamp)

	var result SubmitResult
	if accepted {
		k.setSubmission(ctx, pair, oracle, submission.Price)
		window.LastSubmissionTimestamp = current
		k.setWindow(ctx, pair, window)

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeSubmission,
				sdk.NewAttribute(types.AttributeKeyFrom, pair.From),
				sdk.NewAttribute(types.AttributeKeyTo, pair.To),
				sdk.NewAttribute(types.AttributeKeyOracle, oracle.String()),
				sdk.NewAttribute(types.AttributeKeyTimestamp, strconv.FormatUint(submission.Timestamp, 10)),
				sdk.NewAttribute(types.AttributeKeyPrice, submission.Price.String()),
			),
		)

		roundID, err := k.completeRound(ctx, params, pair)
		if err != nil {
			return SubmitResult{}, err
		}
		result = SubmitResult{Accepted: true, RoundID: roundID}
	} else {
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeDiscardSubmission,
				sdk.NewAttribute(types.AttributeKeyFrom, pair.From),
				sdk.NewAttribute(types.AttributeKeyTo, pair.To),
				sdk.NewAttribute(types.AttributeKeyOracle, oracle.String()),
				sdk.NewAttribute(types.AttributeKeyTimestamp, strconv.FormatUint(submission.Timestamp, 10)),
				sdk.NewAttribute(types.AttributeKeyFirstTimestamp, strconv.FormatUint(window.FirstSubmissionTimestamp, 10)),
				sdk.NewAttribute(types.AttributeKeyHasSubmitted, strconv.FormatBool(submitted)),
			),
		)
	}

	status, _ := k.GetOracleStatus(ctx, oracle)
	status.TotalSubmissions++
	if accepted {
		status.AcceptedSubmissions++
	}
	k.setOracleStatus(ctx, oracle, status)

	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "submissions"},
		1,
		[]metrics.Label{
			telemetry.NewLabel("pair", pair.String()),
			telemetry.NewLabel("accepted", strconv.FormatBool(accepted)),
		},
	)
	return result, nil
}

// discardWindow drops the submissions of a window that did not fill in time.
func (k Keeper) discardWindow(ctx sdk.Context, pair types.TokenPair, window types.Window) {
	k.clearSubmissions(ctx, pair)
	k.deleteWindow(ctx, pair)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDiscardRound,
			sdk.NewAttribute(types.AttributeKeyFrom, pair.From),
			sdk.NewAttribute(types.AttributeKeyTo, pair.To),
			sdk.NewAttribute(types.AttributeKeyFirstTimestamp, strconv.FormatUint(window.FirstSubmissionTimestamp, 10)),
		),
	)
	k.Logger(ctx).Info("discarded stale price window", "pair", pair.String(), "opened_at", window.FirstSubmissionTimestamp)
}

// completeRound turns the window into a round once enough submissions are in.
func (k Keeper) completeRound(ctx sdk.Context, params types.Params, pair types.TokenPair) (uint64, error) {
	submissions := k.GetPendingSubmissions(ctx, pair)
	if len(submissions) < int(params.SubmissionCount) {
		return 0, nil
	}
	if len(submissions) > types.SubmissionListMaxLen {
		return 0, errorsmod.Wrapf(types.ErrSubmissionListCapacity, "%d > %d", len(submissions), types.SubmissionListMaxLen)
	}

	values := make([]math.Int, len(submissions))
	for i, s := range submissions {
		values[i] = s.Price
	}
	price, err := median.Calculate(values)
	if err != nil {
		return 0, errorsmod.Wrapf(types.ErrInvalidPrice, "median of %s: %s", pair, err)
	}

	timestamp := now(ctx)
	roundID := k.appendRound(ctx, pair, types.TimestampedPrice{Price: price, Timestamp: timestamp})
	k.clearSubmissions(ctx, pair)
	k.deleteWindow(ctx, pair)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeNewRound,
			sdk.NewAttribute(types.AttributeKeyFrom, pair.From),
			sdk.NewAttribute(types.AttributeKeyTo, pair.To),
			sdk.NewAttribute(types.AttributeKeyRoundID, strconv.FormatUint(roundID, 10)),
			sdk.NewAttribute(types.AttributeKeyPrice, price.String()),
			sdk.NewAttribute(types.AttributeKeyTimestamp, strconv.FormatUint(timestamp, 10)),
		),
	)
	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "rounds"},
		1,
		[]metrics.Label{telemetry.NewLabel("pair", pair.String())},
	)
	return roundID, nil
}

// LatestPriceFeed returns the latest round of a pair.
func (k Keeper) LatestPriceFeed(ctx sdk.Context, pair types.TokenPair) (types.PriceFeed, error) {
	roundID := k.GetRoundCount(ctx, pair)
	if roundID == 0 {
		return types.PriceFeed{}, errorsmod.Wrapf(types.ErrTokenPairNotFound, "%s", pair)
	}
	return k.priceFeed(ctx, pair, roundID), nil
}

// LatestRoundData returns the latest round of every pair.
func (k Keeper) LatestRoundData(ctx sdk.Context) ([]types.PriceFeed, error) {
	var feeds []types.PriceFeed
	k.IteratePairs(ctx, func(pair types.TokenPair, rounds uint64) bool {
		feeds = append(feeds, k.priceFeed(ctx, pair, rounds))
		return false
	})
	if len(feeds) == 0 {
		return nil, types.ErrNoCompletedRounds
	}
	return feeds, nil
}

func (k Keeper) priceFeed(ctx sdk.Context, pair types.TokenPair, roundID uint64) types.PriceFeed {
	round, found := k.GetRound(ctx, pair, roundID)
	if !found {
		panic(errorsmod.Wrapf(types.ErrTokenPairNotFound, "round %d of %s missing", roundID, pair))
	}
	return types.PriceFeed{
		RoundID:   roundID,
		From:      pair.From,
		To:        pair.To,
		Timestamp: round.Timestamp,
		Price:     round.Price,
		Decimals:  k.GetParams(ctx).Decimals,
	}
}
