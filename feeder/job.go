package feeder

import (
	"strings"
	"sync"
	"time"

	"cosmossdk.io/math"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/pkg/errors"

	"github.com/GPTx-global/guru-aggregator/config"
)

// Job is one value reported periodically.
type Job struct {
	Name     string
	Kind     string
	URL      string
	Path     string
	Decimals uint32
	Interval time.Duration
	From     string
	To       string

	// Nonce counts the executions of the job.
	Nonce uint64
}

func NewJob(cfg config.JobConfig) (Job, error) {
	if err := cfg.Validate(); err != nil {
		return Job{}, err
	}
	interval, err := cfg.IntervalDuration()
	if err != nil {
		return Job{}, err
	}
	return Job{
		Name:     cfg.Name,
		Kind:     cfg.Kind,
		URL:      cfg.URL,
		Path:     cfg.Path,
		Decimals: cfg.Decimals,
		Interval: interval,
		From:     strings.ToUpper(cfg.From),
		To:       strings.ToUpper(cfg.To),
	}, nil
}

// Observation is a value extracted for a job, scaled to an integer.
type Observation struct {
	Job        Job
	Value      math.Int
	ObservedAt time.Time
}

// JobStatus is the scheduling state of a job.
type JobStatus struct {
	Job                 Job
	NextRun             time.Time
	Running             bool
	LastSuccess         time.Time
	LastError           string
	ConsecutiveFailures int
}

type jobState struct {
	mtx    sync.Mutex
	status JobStatus
}

// JobStore holds the jobs and hands out the ones that are due.
type JobStore struct {
	jobs cmap.ConcurrentMap[string, *jobState]
}

func NewJobStore() *JobStore {
	return &JobStore{jobs: cmap.New[*jobState]()}
}

// Add registers job to run at start.
func (s *JobStore) Add(job Job, start time.Time) error {
	if !s.jobs.SetIfAbsent(job.Name, &jobState{status: JobStatus{Job: job, NextRun: start}}) {
		return errors.Errorf("job %s already registered", job.Name)
	}
	return nil
}

func (s *JobStore) Remove(name string) {
	s.jobs.Remove(name)
}

func (s *JobStore) Count() int {
	return s.jobs.Count()
}

// Claim marks every idle job due at now as running and returns them.
func (s *JobStore) Claim(now time.Time) []Job {
	var due []Job
	for item := range s.jobs.IterBuffered() {
		st := item.Val
		st.mtx.Lock()
		if !st.status.Running && !now.Before(st.status.NextRun) {
			st.status.Running = true
			st.status.Job.Nonce++
			due = append(due, st.status.Job)
		}
		st.mtx.Unlock()
	}
	return due
}

// Done releases a claimed job and schedules its next run.
func (s *JobStore) Done(name string, now time.Time, err error) {
	st, ok := s.jobs.Get(name)
	if !ok {
		return
	}
	st.mtx.Lock()
	defer st.mtx.Unlock()

	st.status.Running = false
	st.status.NextRun = now.Add(st.status.Job.Interval)
	if err != nil {
		st.status.LastError = err.Error()
		st.status.ConsecutiveFailures++
		return
	}
	st.status.LastError = ""
	st.status.LastSuccess = now
	st.status.ConsecutiveFailures = 0
}

func (s *JobStore) Status(name string) (JobStatus, bool) {
	st, ok := s.jobs.Get(name)
	if !ok {
		return JobStatus{}, false
	}
	st.mtx.Lock()
	defer st.mtx.Unlock()
	return st.status, true
}

// Failing returns the jobs that failed at least threshold times in a row.
func (s *JobStore) Failing(threshold int) []string {
	var names []string
	for item := range s.jobs.IterBuffered() {
		item.Val.mtx.Lock()
		if item.Val.status.ConsecutiveFailures >= threshold {
			names = append(names, item.Key)
		}
		item.Val.mtx.Unlock()
	}
	return names
}
