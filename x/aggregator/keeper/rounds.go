package keeper

import (
	"errors"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	metrics "github.com/armon/go-metrics"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/GPTx-global/guru-aggregator/x/aggregator/median"
	"github.com/GPTx-global/guru-aggregator/x/aggregator/types"
)

// SubmitValues records values from an oracle for roundID, opening the round when
// the oracle is the first to report on it. The answer is updated once the
// round holds enough submissions and the oracle is paid.
func (k Keeper) SubmitValues(ctx sdk.Context, oracle sdk.AccAddress, roundID uint64, values []math.Int) error {
	if err := k.ValidateOracleRound(ctx, oracle, roundID); err != nil {
		return err
	}

	config := k.GetFeedConfig(ctx)
	for _, v := range values {
		if err := config.CheckValue(v); err != nil {
			return err
		}
	}

	k.oracleInitializeNewRound(ctx, oracle, roundID)

	if err := k.recordSubmission(ctx, oracle, roundID, types.NewSubmission(values...)); err != nil {
		return err
	}
	if _, err := k.updateRoundAnswer(ctx, roundID); err != nil {
		return err
	}
	if err := k.payOracle(ctx, roundID, oracle); err != nil {
		return err
	}
	k.deleteRoundDetails(ctx, roundID)

	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "submissions"},
		1,
		[]metrics.Label{telemetry.NewLabel("oracle", oracle.String())},
	)
	return nil
}

// ValidateOracleRound checks that oracle may report on roundID. It never
// writes to the store.
func (k Keeper) ValidateOracleRound(ctx sdk.Context, oracle sdk.AccAddress, roundID uint64) error {
	status, found := k.GetOracleStatus(ctx, oracle)
	if !found || status.StartingRound == 0 {
		return errorsmod.Wrap(types.ErrNotEnabledOracle, oracle.String())
	}
	if status.StartingRound > roundID {
		return errorsmod.Wrapf(types.ErrNotYetEnabledOracle, "starting round %d, got %d", status.StartingRound, roundID)
	}
	if status.EndingRound < roundID {
		return errorsmod.Wrapf(types.ErrNoLongerAllowedOracle, "ending round %d, got %d", status.EndingRound, roundID)
	}
	if status.LastReportedRound >= roundID {
		return errorsmod.Wrapf(types.ErrReportedPreviousRound, "last reported %d, got %d", status.LastReportedRound, roundID)
	}

	reporting := k.GetReportingRoundID(ctx)
	current, _ := k.GetRound(ctx, reporting)
	unansweredPrevious := roundID+1 == reporting && !current.Answered()
	if roundID != reporting && roundID != reporting+1 && !unansweredPrevious {
		return errorsmod.Wrapf(types.ErrInvalidRound, "reporting round %d, got %d", reporting, roundID)
	}
	if roundID != 1 && !k.supersedable(ctx, roundID-1) {
		return errorsmod.Wrapf(types.ErrPrevRoundNotSupersedable, "round %d", roundID-1)
	}
	return nil
}

func (k Keeper) newRoundGuard(ctx sdk.Context, roundID uint64) bool {
	return roundID == k.GetReportingRoundID(ctx)+1
}

// timedOut reports whether an open round outlived its timeout. Rounds whose
// details were purged never time out.
func (k Keeper) timedOut(ctx sdk.Context, roundID uint64) bool {
	round, found := k.GetRound(ctx, roundID)
	if !found || round.StartedAt == 0 {
		return false
	}
	details, found := k.GetDetails(ctx, roundID)
	if !found || details.Timeout == 0 {
		return false
	}
	current := now(ctx)
	return current > round.StartedAt && current-round.StartedAt > details.Timeout
}

func (k Keeper) supersedable(ctx sdk.Context, roundID uint64) bool {
	round, found := k.GetRound(ctx, roundID)
	if found && round.Answered() {
		return true
	}
	return k.timedOut(ctx, roundID)
}

func (k Keeper) acceptingSubmissions(ctx sdk.Context, roundID uint64) bool {
	details, found := k.GetDetails(ctx, roundID)
	return found && details.MaxSubmissions != 0 && !details.Full()
}

// delayed reports whether oracle left restart_delay rounds since the last
// round it opened.
func (k Keeper) delayed(ctx sdk.Context, oracle sdk.AccAddress, roundID uint64) bool {
	status, _ := k.GetOracleStatus(ctx, oracle)
	lastStarted := status.LastStartedRound
	return lastStarted == 0 || (roundID > lastStarted && roundID-lastStarted > uint64(k.GetParams(ctx).RestartDelay))
}

// initializeNewRound closes out the previous round and opens roundID with a
// snapshot of the current params.
func (k Keeper) initializeNewRound(ctx sdk.Context, roundID uint64, startedBy sdk.AccAddress) {
	k.updateTimedOutRoundInfo(ctx, roundID-1)

	previous, _ := k.GetRound(ctx, roundID-1)
	params := k.GetParams(ctx)
	config := k.GetFeedConfig(ctx)
	startedAt := now(ctx)

	k.SetRound(ctx, types.Round{
		RoundID:         roundID,
		Answer:          previous.Answer,
		StartedAt:       startedAt,
		AnsweredInRound: previous.AnsweredInRound,
		Decimals:        config.Decimals,
		Description:     config.Description,
	})
	k.SetDetails(ctx, roundID, types.RoundDetails{
		MaxSubmissions: params.MaxSubmissionCount,
		MinSubmissions: params.MinSubmissionCount,
		Timeout:        params.Timeout,
		PaymentAmount:  params.PaymentAmount,
	})
	k.setReportingRoundID(ctx, roundID)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeNewRound,
			sdk.NewAttribute(types.AttributeKeyRoundID, strconv.FormatUint(roundID, 10)),
			sdk.NewAttribute(types.AttributeKeyStartedBy, startedBy.String()),
			sdk.NewAttribute(types.AttributeKeyStartedAt, strconv.FormatUint(startedAt, 10)),
		),
	)
	telemetry.IncrCounter(1, types.ModuleName, "rounds")
	k.Logger(ctx).Debug("opened round", "round_id", roundID, "started_by", startedBy.String())
}

// updateTimedOutRoundInfo retires roundID if it timed out. An unanswered
// round takes over the answer of the round before it.
func (k Keeper) updateTimedOutRoundInfo(ctx sdk.Context, roundID uint64) {
	if !k.timedOut(ctx, roundID) {
		return
	}

	round, _ := k.GetRound(ctx, roundID)
	if !round.Answered() {
		previous, _ := k.GetRound(ctx, roundID-1)
		round.Answer = previous.Answer
		round.AnsweredInRound = previous.AnsweredInRound
		round.UpdatedAt = now(ctx)
		k.SetRound(ctx, round)
	}
	k.DeleteDetails(ctx, roundID)
}

func (k Keeper) oracleInitializeNewRound(ctx sdk.Context, oracle sdk.AccAddress, roundID uint64) {
	if !k.newRoundGuard(ctx, roundID) {
		return
	}
	if !k.delayed(ctx, oracle, roundID) {
		return
	}

	k.initializeNewRound(ctx, roundID, oracle)

	status, _ := k.GetOracleStatus(ctx, oracle)
	status.LastStartedRound = roundID
	k.SetOracleStatus(ctx, oracle, status)
}

func (k Keeper) recordSubmission(ctx sdk.Context, oracle sdk.AccAddress, roundID uint64, submission types.Submission) error {
	if !k.acceptingSubmissions(ctx, roundID) {
		return errorsmod.Wrapf(types.ErrRoundNotAccepting, "round %d", roundID)
	}

	details, _ := k.GetDetails(ctx, roundID)
	if len(details.Submissions) > 0 && len(details.Submissions[0].Values) != len(submission.Values) {
		return errorsmod.Wrapf(types.ErrSubmissionLength, "expected %d values, got %d", len(details.Submissions[0].Values), len(submission.Values))
	}
	details.Submissions = append(details.Submissions, submission)
	k.SetDetails(ctx, roundID, details)

	status, _ := k.GetOracleStatus(ctx, oracle)
	status.LastReportedRound = roundID
	status.LatestSubmission = &submission
	k.SetOracleStatus(ctx, oracle, status)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSubmissionReceived,
			sdk.NewAttribute(types.AttributeKeyRoundID, strconv.FormatUint(roundID, 10)),
			sdk.NewAttribute(types.AttributeKeyOracle, oracle.String()),
			sdk.NewAttribute(types.AttributeKeySubmission, submission.String()),
		),
	)
	return nil
}

// updateRoundAnswer computes the answer of roundID once it holds at least
// min_submissions submissions.
func (k Keeper) updateRoundAnswer(ctx sdk.Context, roundID uint64) (bool, error) {
	details, found := k.GetDetails(ctx, roundID)
	if !found {
		return false, errorsmod.Wrapf(types.ErrDetailsNotFound, "round %d", roundID)
	}
	if len(details.Submissions) == 0 || uint32(len(details.Submissions)) < details.MinSubmissions {
		return false, nil
	}

	series := make([][]math.Int, len(details.Submissions))
	for i, s := range details.Submissions {
		series[i] = s.Values
	}
	values, err := median.CalculateSubmissions(series)
	if err != nil {
		if errors.Is(err, median.ErrNoData) {
			return false, errorsmod.Wrap(types.ErrNoData, err.Error())
		}
		return false, errorsmod.Wrap(types.ErrSubmissionLength, err.Error())
	}

	round, _ := k.GetRound(ctx, roundID)
	answer := types.NewSubmission(values...)
	round.Answer = &answer
	round.UpdatedAt = now(ctx)
	round.AnsweredInRound = roundID
	k.SetRound(ctx, round)
	if roundID > k.GetLatestRoundID(ctx) {
		k.setLatestRoundID(ctx, roundID)
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAnswerUpdated,
			sdk.NewAttribute(types.AttributeKeyRoundID, strconv.FormatUint(roundID, 10)),
			sdk.NewAttribute(types.AttributeKeyAnswer, answer.String()),
			sdk.NewAttribute(types.AttributeKeyUpdatedAt, strconv.FormatUint(round.UpdatedAt, 10)),
		),
	)
	telemetry.IncrCounter(1, types.ModuleName, "answers")
	return true, nil
}

// deleteRoundDetails purges the submissions of a full round.
func (k Keeper) deleteRoundDetails(ctx sdk.Context, roundID uint64) {
	details, found := k.GetDetails(ctx, roundID)
	if !found || !details.Full() {
		return
	}
	k.DeleteDetails(ctx, roundID)
}

// GetRoundData returns a round by id.
func (k Keeper) GetRoundData(ctx sdk.Context, roundID uint64) (types.Round, error) {
	round, found := k.GetRound(ctx, roundID)
	if !found {
		return types.Round{}, errorsmod.Wrapf(types.ErrRoundNotFound, "round %d", roundID)
	}
	return round, nil
}

// LatestRoundData returns the most recently answered round.
func (k Keeper) LatestRoundData(ctx sdk.Context) (types.Round, error) {
	return k.GetRoundData(ctx, k.GetLatestRoundID(ctx))
}

// OracleRoundState tells an oracle whether and where it can report next.
// With queriedRoundID 0 the round to report on is suggested.
func (k Keeper) OracleRoundState(ctx sdk.Context, oracle sdk.AccAddress, queriedRoundID uint64) (types.QueryOracleRoundStateResponse, error) {
	status, found := k.GetOracleStatus(ctx, oracle)
	if !found {
		return types.QueryOracleRoundStateResponse{}, errorsmod.Wrap(types.ErrOracleNotFound, oracle.String())
	}

	funds := k.GetFunds(ctx)
	params := k.GetParams(ctx)
	res := types.QueryOracleRoundStateResponse{
		LatestSubmission: status.LatestSubmission,
		AvailableFunds:   funds.Available,
		OracleCount:      k.OracleCount(ctx),
	}

	if queriedRoundID > 0 {
		round, _ := k.GetRound(ctx, queriedRoundID)
		details, _ := k.GetDetails(ctx, queriedRoundID)
		res.RoundID = queriedRoundID
		res.StartedAt = round.StartedAt
		res.Timeout = details.Timeout
		res.PaymentAmount = params.PaymentAmount
		if round.StartedAt > 0 {
			res.PaymentAmount = paymentOrZero(details.PaymentAmount)
			res.EligibleToSubmit = k.acceptingSubmissions(ctx, queriedRoundID)
		} else {
			res.EligibleToSubmit = k.delayed(ctx, oracle, queriedRoundID)
		}
		res.EligibleToSubmit = res.EligibleToSubmit && k.ValidateOracleRound(ctx, oracle, queriedRoundID) == nil
		return res, nil
	}

	reporting := k.GetReportingRoundID(ctx)
	shouldSupersede := status.LastReportedRound == reporting || !k.acceptingSubmissions(ctx, reporting)
	if k.supersedable(ctx, reporting) && shouldSupersede {
		res.RoundID = reporting + 1
		res.PaymentAmount = params.PaymentAmount
		res.EligibleToSubmit = k.delayed(ctx, oracle, res.RoundID)
	} else {
		details, _ := k.GetDetails(ctx, reporting)
		res.RoundID = reporting
		res.PaymentAmount = paymentOrZero(details.PaymentAmount)
		res.EligibleToSubmit = k.acceptingSubmissions(ctx, reporting)
	}

	round, _ := k.GetRound(ctx, res.RoundID)
	details, _ := k.GetDetails(ctx, res.RoundID)
	res.StartedAt = round.StartedAt
	res.Timeout = details.Timeout
	if k.ValidateOracleRound(ctx, oracle, res.RoundID) != nil {
		res.EligibleToSubmit = false
	}
	return res, nil
}

func paymentOrZero(v math.Int) math.Int {
	if v.IsNil() {
		return math.ZeroInt()
	}
	return v
}
