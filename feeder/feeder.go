// Package feeder is the off-chain reporter. It polls HTTP price sources on a
// schedule, extracts values with gjson paths and reports them to a node as
// signed transactions: aggregator jobs submit to the round the oracle is
// eligible for, price jobs submit timestamped prices for a token pair.
package feeder

import (
	"context"
	"strings"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/GPTx-global/guru-aggregator/app"
	"github.com/GPTx-global/guru-aggregator/config"
	"github.com/GPTx-global/guru-aggregator/server/rest"
	gurutypes "github.com/GPTx-global/guru-aggregator/types"
	aggtypes "github.com/GPTx-global/guru-aggregator/x/aggregator/types"
	pricetypes "github.com/GPTx-global/guru-aggregator/x/priceaggregator/types"
)

const (
	fetchTimeout       = 10 * time.Second
	breakerMaxFailures = 5
	breakerReset       = time.Minute
	failingJobs        = 3
)

// Node is the part of the node API the feeder uses.
type Node interface {
	Health(ctx context.Context) error
	Status(ctx context.Context) (rest.StatusResponse, error)
	Sequence(ctx context.Context, addr sdk.AccAddress) (uint64, error)
	OracleRoundState(ctx context.Context, oracle sdk.AccAddress) (aggtypes.QueryOracleRoundStateResponse, error)
	Broadcast(ctx context.Context, tx app.Tx) (app.TxResult, error)
}

// Feeder reports the jobs of its configuration.
type Feeder struct {
	node    Node
	signer  app.Signer
	address sdk.AccAddress
	policy  config.RetryPolicy
	chainID string
	logger  log.Logger

	store     *JobStore
	executor  *Executor
	pool      *WorkerPool
	scheduler *Scheduler
	breaker   *CircuitBreaker
	health    *HealthChecker
}

// Option configures a Feeder.
type Option func(*Feeder)

// WithTick sets how often due jobs are looked for.
func WithTick(tick time.Duration) Option {
	return func(f *Feeder) {
		f.scheduler.tick = tick
	}
}

func New(cfg config.FeederConfig, node Node, signer app.Signer, address sdk.AccAddress, logger log.Logger, opts ...Option) (*Feeder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, err := cfg.Retry.Policy()
	if err != nil {
		return nil, err
	}

	logger = logger.With("module", "feeder")
	f := &Feeder{
		node:     node,
		signer:   signer,
		address:  address,
		policy:   policy,
		logger:   logger,
		store:    NewJobStore(),
		executor: NewExecutor(fetchTimeout),
		breaker:  NewCircuitBreaker(breakerMaxFailures, breakerReset),
		health:   NewHealthChecker(cfg.HealthIntervalDuration(), logger),
	}
	f.pool = NewWorkerPool(cfg.Workers, f.fetch, logger)
	f.scheduler = NewScheduler(f.store, f.pool, defaultTick, logger)

	now := time.Now()
	for _, jc := range cfg.Jobs {
		job, err := NewJob(jc)
		if err != nil {
			return nil, err
		}
		if err := f.store.Add(job, now); err != nil {
			return nil, err
		}
	}

	f.health.AddCheck(NewFuncCheck("node", node.Health))
	f.health.AddCheck(NewFuncCheck("breaker", func(context.Context) error {
		if f.breaker.State() == StateOpen {
			return ErrCircuitOpen
		}
		return nil
	}))
	f.health.AddCheck(NewFuncCheck("jobs", func(context.Context) error {
		if failing := f.store.Failing(failingJobs); len(failing) > 0 {
			return errors.Errorf("failing jobs: %s", strings.Join(failing, ", "))
		}
		return nil
	}))

	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Start runs the feeder until ctx is done.
func (f *Feeder) Start(ctx context.Context) error {
	err := Retry(ctx, f.logger, f.policy, func() error {
		status, err := f.node.Status(ctx)
		if err != nil {
			return err
		}
		f.chainID = status.ChainID
		return nil
	}, DefaultIsRetryable)
	if err != nil {
		return errors.Wrap(err, "node unreachable")
	}
	f.logger.Info("feeder started", "chain_id", f.chainID, "reporter", f.address.String(), "jobs", f.store.Count())

	f.pool.Start(ctx)
	defer f.pool.Stop()
	go f.scheduler.Start(ctx)
	go f.health.Start(ctx)

	for {
		select {
		case res := <-f.pool.Results():
			f.handle(ctx, res)
		case <-ctx.Done():
			f.logger.Info("feeder stopped")
			return nil
		}
	}
}

func (f *Feeder) Health() map[string]HealthStatus {
	return f.health.Status()
}

func (f *Feeder) JobStatus(name string) (JobStatus, bool) {
	return f.store.Status(name)
}

func (f *Feeder) fetch(ctx context.Context, job Job) (Observation, error) {
	var obs Observation
	err := Retry(ctx, f.logger, f.policy, func() error {
		var err error
		obs, err = f.executor.Execute(ctx, job)
		return err
	}, DefaultIsRetryable)
	return obs, err
}

func (f *Feeder) handle(ctx context.Context, res JobResult) {
	err := res.Err
	if err == nil {
		err = f.Report(ctx, res.Observation)
	}
	if err != nil {
		f.logger.Error("job failed", "job", res.Job.Name, "nonce", res.Job.Nonce, "error", err)
	}
	f.store.Done(res.Job.Name, time.Now(), err)
}

// Report submits obs to the node. Aggregator observations are skipped while
// the reporter is not eligible for any round.
func (f *Feeder) Report(ctx context.Context, obs Observation) error {
	msg, err := f.buildMsg(ctx, obs)
	if err != nil || msg == nil {
		return err
	}

	var res app.TxResult
	err = Retry(ctx, f.logger, f.policy, func() error {
		return f.breaker.Execute(func() error {
			var err error
			res, err = f.send(ctx, msg)
			return err
		})
	}, DefaultIsRetryable)
	if err != nil {
		return err
	}
	if res.Code != 0 {
		return errors.Errorf("%s rejected at height %d: %s", msg.Type(), res.Height, res.Log)
	}

	f.logger.Info("reported", "job", obs.Job.Name, "value", obs.Value.String(), "height", res.Height)
	return nil
}

func (f *Feeder) buildMsg(ctx context.Context, obs Observation) (gurutypes.Msg, error) {
	switch obs.Job.Kind {
	case config.JobKindAggregator:
		state, err := f.node.OracleRoundState(ctx, f.address)
		if err != nil {
			return nil, err
		}
		if !state.EligibleToSubmit {
			f.logger.Debug("not eligible to submit", "job", obs.Job.Name, "round", state.RoundID)
			return nil, nil
		}
		if !state.AvailableFunds.IsNil() && !state.PaymentAmount.IsNil() && state.AvailableFunds.LT(state.PaymentAmount) {
			f.logger.Info("aggregator cannot pay, skipping round", "round", state.RoundID)
			return nil, nil
		}
		return aggtypes.NewMsgSubmit(f.address, state.RoundID, obs.Value), nil

	case config.JobKindPrice:
		if !obs.Value.IsPositive() {
			return nil, errors.Errorf("price %s of %s/%s is not positive", obs.Value, obs.Job.From, obs.Job.To)
		}
		return pricetypes.NewMsgSubmitPrice(f.address, obs.Job.From, obs.Job.To, uint64(obs.ObservedAt.Unix()), obs.Value), nil

	default:
		return nil, errors.Errorf("unknown job kind %q", obs.Job.Kind)
	}
}

func (f *Feeder) send(ctx context.Context, msg gurutypes.Msg) (app.TxResult, error) {
	seq, err := f.node.Sequence(ctx, f.address)
	if err != nil {
		return app.TxResult{}, err
	}
	tx, err := app.NewTx(f.chainID, seq, msg)
	if err != nil {
		return app.TxResult{}, err
	}
	if err := tx.Sign(f.signer); err != nil {
		return app.TxResult{}, errors.Wrap(err, "failed to sign")
	}
	return f.node.Broadcast(ctx, tx)
}
