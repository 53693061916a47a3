package feeder

import (
	"context"
	"sync"
	"time"

	"github.com/tendermint/tendermint/libs/log"
)

// HealthCheck probes one dependency of the feeder.
type HealthCheck interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthStatus is the outcome of the last run of a check.
type HealthStatus struct {
	Healthy   bool      `json:"healthy"`
	LastCheck time.Time `json:"last_check"`
	LastError string    `json:"last_error,omitempty"`
}

// HealthChecker runs its checks periodically and keeps their last outcome.
type HealthChecker struct {
	mtx      sync.RWMutex
	checks   map[string]HealthCheck
	status   map[string]HealthStatus
	interval time.Duration
	logger   log.Logger
}

func NewHealthChecker(interval time.Duration, logger log.Logger) *HealthChecker {
	return &HealthChecker{
		checks:   make(map[string]HealthCheck),
		status:   make(map[string]HealthStatus),
		interval: interval,
		logger:   logger,
	}
}

// AddCheck registers check; it counts as healthy until it first runs.
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mtx.Lock()
	defer hc.mtx.Unlock()

	hc.checks[check.Name()] = check
	hc.status[check.Name()] = HealthStatus{Healthy: true}
}

// Start runs the checks until ctx is done.
func (hc *HealthChecker) Start(ctx context.Context) {
	hc.RunChecks(ctx)
	if hc.interval <= 0 {
		return
	}

	ticker := time.NewTicker(hc.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			hc.RunChecks(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// RunChecks runs every check concurrently and waits for all of them.
func (hc *HealthChecker) RunChecks(ctx context.Context) {
	hc.mtx.RLock()
	checks := make([]HealthCheck, 0, len(hc.checks))
	for _, c := range hc.checks {
		checks = append(checks, c)
	}
	hc.mtx.RUnlock()

	var wg sync.WaitGroup
	for _, check := range checks {
		wg.Add(1)
		go func(check HealthCheck) {
			defer wg.Done()
			err := check.Check(ctx)

			st := HealthStatus{Healthy: err == nil, LastCheck: time.Now()}
			if err != nil {
				st.LastError = err.Error()
				hc.logger.Error("health check failed", "check", check.Name(), "error", err)
			}

			hc.mtx.Lock()
			hc.status[check.Name()] = st
			hc.mtx.Unlock()
		}(check)
	}
	wg.Wait()
}

func (hc *HealthChecker) Status() map[string]HealthStatus {
	hc.mtx.RLock()
	defer hc.mtx.RUnlock()

	out := make(map[string]HealthStatus, len(hc.status))
	for name, st := range hc.status {
		out[name] = st
	}
	return out
}

func (hc *HealthChecker) IsHealthy() bool {
	hc.mtx.RLock()
	defer hc.mtx.RUnlock()

	for _, st := range hc.status {
		if !st.Healthy {
			return false
		}
	}
	return true
}

// FuncCheck adapts a function to HealthCheck.
type FuncCheck struct {
	name  string
	check func(ctx context.Context) error
}

func NewFuncCheck(name string, check func(ctx context.Context) error) FuncCheck {
	return FuncCheck{name: name, check: check}
}

func (c FuncCheck) Name() string                    { return c.name }
func (c FuncCheck) Check(ctx context.Context) error { return c.check(ctx) }
