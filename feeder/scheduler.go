package feeder

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const defaultTick = time.Second

var errQueueFull = errors.New("job queue full")

// Scheduler submits due jobs to the worker pool on every tick.
type Scheduler struct {
	store  *JobStore
	pool   *WorkerPool
	tick   time.Duration
	now    func() time.Time
	logger log.Logger
}

func NewScheduler(store *JobStore, pool *WorkerPool, tick time.Duration, logger log.Logger) *Scheduler {
	if tick <= 0 {
		tick = defaultTick
	}
	return &Scheduler{store: store, pool: pool, tick: tick, now: time.Now, logger: logger}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.Schedule()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Schedule()
		case <-ctx.Done():
			return
		}
	}
}

// Schedule submits the jobs that are due now and returns how many were
// accepted.
func (s *Scheduler) Schedule() int {
	now := s.now()
	accepted := 0
	for _, job := range s.store.Claim(now) {
		if !s.pool.Submit(job) {
			s.store.Done(job.Name, now, errQueueFull)
			continue
		}
		s.logger.Debug("scheduled job", "job", job.Name, "nonce", job.Nonce)
		accepted++
	}
	return accepted
}
