package resilience

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/skillsenselab/notifykit/failure"
	"github.com/skillsenselab/notifykit/logger"
)

// Status is the health state of a partition.
type Status int32

const (
	// StatusHealthy means the most recent execution succeeded.
	StatusHealthy Status = iota
	// StatusFailed means the most recent execution failed or timed out.
	StatusFailed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome describes how a single execution finished.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeTimeout Outcome = "timeout"
	OutcomeError   Outcome = "error"
)

// PartitionConfig configures a bulkhead partition.
type PartitionConfig struct {
	// Name identifies this partition; channel routing matches on it.
	Name string
	// MaxWorkers is the fixed size of the partition's worker pool.
	MaxWorkers int
	// Timeout bounds how long a caller waits for one execution.
	Timeout time.Duration
	// OnComplete, if set, is called after every execution with its outcome.
	OnComplete func(name string, outcome Outcome, elapsed time.Duration)
}

// PartitionMetrics is a point-in-time snapshot of partition statistics.
type PartitionMetrics struct {
	Name                 string  `json:"name"`
	Status               string  `json:"status"`
	TotalExecutions      int64   `json:"total_executions"`
	SuccessfulExecutions int64   `json:"successful_executions"`
	SuccessRate          float64 `json:"success_rate"`
}

type taskResult struct {
	value any
	err   error
}

type task struct {
	fn     func() (any, error)
	result chan taskResult
}

// Partition is a single bulkhead: a fixed-size worker pool with timeout
// enforcement and health accounting. Counters are mutated only by the
// partition's own execute path.
type Partition struct {
	cfg   PartitionConfig
	tasks chan task
	quit  chan struct{}

	total      atomic.Int64
	successful atomic.Int64
	status     atomic.Int32
	closed     atomic.Bool
	closeOnce  sync.Once

	log *logger.Logger
}

// NewPartition creates a partition and starts its worker pool.
// A non-positive MaxWorkers or Timeout is a configuration failure.
func NewPartition(cfg PartitionConfig) (*Partition, error) {
	if cfg.MaxWorkers < 1 {
		return nil, failure.Config("partition max workers must be at least 1").
			WithDetail("partition", cfg.Name)
	}
	if cfg.Timeout <= 0 {
		return nil, failure.Config("partition timeout must be positive").
			WithDetail("partition", cfg.Name)
	}

	p := &Partition{
		cfg:   cfg,
		tasks: make(chan task),
		quit:  make(chan struct{}),
		log:   logger.WithComponent("bulkhead").WithFields(logger.Fields("partition", cfg.Name)),
	}
	for i := 0; i < cfg.MaxWorkers; i++ {
		go p.worker()
	}

	p.log.Debug("partition initialized", logger.Fields(
		"max_workers", cfg.MaxWorkers,
		"timeout", cfg.Timeout.String(),
	))
	return p, nil
}

// Name returns the partition name.
func (p *Partition) Name() string { return p.cfg.Name }

// Status returns the current health status.
func (p *Partition) Status() Status { return Status(p.status.Load()) }

// Execute submits fn to the worker pool and waits until it completes or
// the partition timeout elapses, whichever comes first. The timeout covers
// both queue wait and execution. On timeout the caller stops waiting but
// the in-flight item is not cancelled; its worker slot stays busy until
// the item finishes.
func (p *Partition) Execute(fn func() (any, error)) (any, error) {
	if p.closed.Load() {
		return nil, failure.ShutDown("partition " + p.cfg.Name)
	}

	p.total.Add(1)
	start := time.Now()

	t := task{fn: fn, result: make(chan taskResult, 1)}
	timer := time.NewTimer(p.cfg.Timeout)
	defer timer.Stop()

	select {
	case p.tasks <- t:
	case <-timer.C:
		return nil, p.timedOut(start)
	case <-p.quit:
		return nil, failure.ShutDown("partition " + p.cfg.Name)
	}

	select {
	case res := <-t.result:
		if res.err != nil {
			p.status.Store(int32(StatusFailed))
			p.complete(OutcomeError, start)
			p.log.Debug("execution failed", logger.ErrorFields("execute", res.err))
			return nil, res.err
		}
		p.successful.Add(1)
		p.status.Store(int32(StatusHealthy))
		p.complete(OutcomeSuccess, start)
		return res.value, nil
	case <-timer.C:
		return nil, p.timedOut(start)
	}
}

// Metrics returns a snapshot of the partition's statistics. SuccessRate is
// a percentage rounded to one decimal place, 0 when nothing has executed.
func (p *Partition) Metrics() PartitionMetrics {
	total := p.total.Load()
	successful := p.successful.Load()

	var rate float64
	if total > 0 {
		rate = math.Round(float64(successful)/float64(total)*1000) / 10
	}

	return PartitionMetrics{
		Name:                 p.cfg.Name,
		Status:               p.Status().String(),
		TotalExecutions:      total,
		SuccessfulExecutions: successful,
		SuccessRate:          rate,
	}
}

// Shutdown releases the worker pool without draining in-flight work.
// Safe to call multiple times.
func (p *Partition) Shutdown() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.quit)
		p.log.Debug("partition shut down")
	})
}

func (p *Partition) worker() {
	for {
		select {
		case <-p.quit:
			return
		case t := <-p.tasks:
			value, err := t.fn()
			t.result <- taskResult{value: value, err: err}
		}
	}
}

func (p *Partition) timedOut(start time.Time) error {
	p.status.Store(int32(StatusFailed))
	p.complete(OutcomeTimeout, start)
	p.log.Warn("execution timed out", logger.Fields("timeout", p.cfg.Timeout.String()))
	return failure.Timeout(p.cfg.Name, p.cfg.Timeout)
}

func (p *Partition) complete(outcome Outcome, start time.Time) {
	if p.cfg.OnComplete != nil {
		p.cfg.OnComplete(p.cfg.Name, outcome, time.Since(start))
	}
}

// ExecuteTyped runs a typed unit of work in the partition.
func ExecuteTyped[T any](p *Partition, fn func() (T, error)) (T, error) {
	var zero T
	value, err := p.Execute(func() (any, error) { return fn() })
	if err != nil {
		return zero, err
	}
	result, ok := value.(T)
	if !ok {
		return zero, nil
	}
	return result, nil
}
