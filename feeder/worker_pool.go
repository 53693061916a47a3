package feeder

import (
	"context"
	"sync"

	"github.com/tendermint/tendermint/libs/log"
)

// JobResult is the outcome of one execution of a job.
type JobResult struct {
	Job         Job
	Observation Observation
	Err         error
}

// JobFunc executes a job.
type JobFunc func(ctx context.Context, job Job) (Observation, error)

// WorkerPool runs jobs on a fixed number of workers. A dispatcher hands each
// queued job to the next idle worker.
type WorkerPool struct {
	maxWorkers  int
	run         JobFunc
	jobQueue    chan Job
	workerQueue chan chan Job
	results     chan JobResult
	quit        chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
	logger      log.Logger
}

func NewWorkerPool(maxWorkers int, run JobFunc, logger log.Logger) *WorkerPool {
	return &WorkerPool{
		maxWorkers:  maxWorkers,
		run:         run,
		jobQueue:    make(chan Job, maxWorkers*2),
		workerQueue: make(chan chan Job, maxWorkers),
		results:     make(chan JobResult, maxWorkers*2),
		quit:        make(chan struct{}),
		logger:      logger,
	}
}

// Results delivers the outcome of every executed job.
func (p *WorkerPool) Results() <-chan JobResult {
	return p.results
}

func (p *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < p.maxWorkers; i++ {
		w := &worker{id: i, jobs: make(chan Job), pool: p}
		p.wg.Add(1)
		go w.loop(ctx)
	}
	p.wg.Add(1)
	go p.dispatch(ctx)
}

// Stop ends the workers and waits for running jobs.
func (p *WorkerPool) Stop() {
	p.stopOnce.Do(func() {
		close(p.quit)
		p.wg.Wait()
	})
}

// Submit queues job. It reports false when the queue is full.
func (p *WorkerPool) Submit(job Job) bool {
	select {
	case p.jobQueue <- job:
		return true
	default:
		p.logger.Error("job queue full, dropping job", "job", job.Name)
		return false
	}
}

func (p *WorkerPool) dispatch(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobQueue:
			select {
			case jobs := <-p.workerQueue:
				select {
				case jobs <- job:
				case <-p.quit:
					return
				case <-ctx.Done():
					return
				}
			case <-p.quit:
				return
			case <-ctx.Done():
				return
			}
		case <-p.quit:
			return
		case <-ctx.Done():
			return
		}
	}
}

type worker struct {
	id   int
	jobs chan Job
	pool *WorkerPool
}

func (w *worker) loop(ctx context.Context) {
	defer w.pool.wg.Done()
	for {
		select {
		case w.pool.workerQueue <- w.jobs:
		case <-w.pool.quit:
			return
		case <-ctx.Done():
			return
		}

		select {
		case job := <-w.jobs:
			obs, err := w.pool.run(ctx, job)
			select {
			case w.pool.results <- JobResult{Job: job, Observation: obs, Err: err}:
			case <-w.pool.quit:
				return
			case <-ctx.Done():
				return
			}
		case <-w.pool.quit:
			return
		case <-ctx.Done():
			return
		}
	}
}
