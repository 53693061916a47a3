package feeder

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/GPTx-global/guru-aggregator/config"
)

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// RetryableFunc is retried by Retry.
type RetryableFunc func() error

// IsRetryable decides whether an error is worth another attempt.
type IsRetryable func(error) bool

type temporary interface {
	Temporary() bool
}

// DefaultIsRetryable retries network failures, timeouts and errors that
// report themselves as temporary.
func DefaultIsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrCircuitOpen) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var tmp temporary
	if errors.As(err, &tmp) {
		return tmp.Temporary()
	}
	return false
}

// Backoff returns the delay before attempt+1, doubling from the initial
// backoff up to the maximum.
func Backoff(policy config.RetryPolicy, attempt int) time.Duration {
	delay := policy.InitialBackoff
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= policy.MaxBackoff {
			return policy.MaxBackoff
		}
	}
	if delay > policy.MaxBackoff {
		return policy.MaxBackoff
	}
	return delay
}

// Retry runs fn until it succeeds, returns a non retryable error, the
// attempts are exhausted or ctx is done.
func Retry(ctx context.Context, logger log.Logger, policy config.RetryPolicy, fn RetryableFunc, isRetryable IsRetryable) error {
	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == policy.MaxAttempts || !isRetryable(err) {
			break
		}

		delay := Backoff(policy, attempt)
		logger.Debug("attempt failed", "attempt", attempt, "retry_in", delay, "error", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}

// CircuitState is the state of a CircuitBreaker.
type CircuitState int

const (
	StateClosed CircuitState = iota
	StateOpen
	StateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker stops calling a failing dependency for resetTimeout after
// maxFailures consecutive failures, then lets one trial call through.
type CircuitBreaker struct {
	mtx          sync.Mutex
	maxFailures  int
	resetTimeout time.Duration
	failures     int
	lastFailure  time.Time
	state        CircuitState
	now          func() time.Time
}

func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        StateClosed,
		now:          time.Now,
	}
}

// Execute runs fn unless the breaker is open.
func (cb *CircuitBreaker) Execute(fn RetryableFunc) error {
	if err := cb.allow(); err != nil {
		return err
	}
	err := fn()
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) allow() error {
	cb.mtx.Lock()
	defer cb.mtx.Unlock()

	if cb.state != StateOpen {
		return nil
	}
	if cb.now().Sub(cb.lastFailure) < cb.resetTimeout {
		return ErrCircuitOpen
	}
	cb.state = StateHalfOpen
	return nil
}

func (cb *CircuitBreaker) record(err error) {
	cb.mtx.Lock()
	defer cb.mtx.Unlock()

	if err == nil {
		cb.failures = 0
		cb.state = StateClosed
		return
	}
	cb.failures++
	cb.lastFailure = cb.now()
	if cb.state == StateHalfOpen || cb.failures >= cb.maxFailures {
		cb.state = StateOpen
	}
}

func (cb *CircuitBreaker) State() CircuitState {
	cb.mtx.Lock()
	defer cb.mtx.Unlock()
	return cb.state
}
