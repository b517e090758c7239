package resilience

import (
	"sort"
	"sync"
	"time"

	"github.com/skillsenselab/notifykit/failure"
	"github.com/skillsenselab/notifykit/logger"
)

// DefaultPartition is the fallback partition name used when a requested
// channel has no partition of its own.
const DefaultPartition = "default"

// HealthState is the aggregate health of an executor.
type HealthState string

const (
	// HealthHealthy means every partition is healthy.
	HealthHealthy HealthState = "healthy"
	// HealthDegraded means some, but not all, partitions are healthy.
	HealthDegraded HealthState = "degraded"
	// HealthFailed means no partition is healthy.
	HealthFailed HealthState = "failed"
)

// HealthSnapshot is the read-only health view backing liveness and
// readiness probes.
type HealthSnapshot struct {
	Status            HealthState                 `json:"status"`
	Partitions        map[string]PartitionMetrics `json:"partitions"`
	HealthyPartitions int                         `json:"healthy_partitions"`
	TotalPartitions   int                         `json:"total_partitions"`
}

// Executor owns a fixed set of named partitions and routes each call to
// the partition matching the requested channel, falling back to "default".
// The partition registry is built once at construction and never grows at
// request time.
type Executor struct {
	partitions map[string]*Partition
	names      []string

	shutdownOnce sync.Once
	log          *logger.Logger
}

// NewExecutor builds an executor from the given partition configs. With no
// configs it uses the container defaults from DefaultPartitionConfigs.
func NewExecutor(configs ...PartitionConfig) (*Executor, error) {
	if len(configs) == 0 {
		configs = DefaultPartitionConfigs()
	}

	e := &Executor{
		partitions: make(map[string]*Partition, len(configs)),
		log:        logger.WithComponent("bulkhead-executor"),
	}

	for _, cfg := range configs {
		if _, exists := e.partitions[cfg.Name]; exists {
			e.Shutdown()
			return nil, failure.Config("duplicate partition name").WithDetail("partition", cfg.Name)
		}
		p, err := NewPartition(cfg)
		if err != nil {
			e.Shutdown()
			return nil, err
		}
		e.partitions[cfg.Name] = p
		e.names = append(e.names, cfg.Name)
		e.log.Info("partition registered", logger.Fields(
			"partition", cfg.Name,
			"max_workers", cfg.MaxWorkers,
			"timeout", cfg.Timeout.String(),
		))
	}
	sort.Strings(e.names)

	return e, nil
}

// Execute routes fn to the partition named channel, or to "default" when
// no such partition exists. With neither available it fails with a
// configuration failure.
func (e *Executor) Execute(channel string, fn func() (any, error)) (any, error) {
	p, ok := e.partitions[channel]
	if !ok {
		p, ok = e.partitions[DefaultPartition]
		if !ok {
			return nil, failure.Config("no partitions available").WithDetail("channel", channel)
		}
	}
	return p.Execute(fn)
}

// Partition returns the named partition, or nil if not configured.
func (e *Executor) Partition(name string) *Partition {
	return e.partitions[name]
}

// ListPartitions returns the configured partition names in sorted order.
func (e *Executor) ListPartitions() []string {
	names := make([]string, len(e.names))
	copy(names, e.names)
	return names
}

// Health aggregates per-partition metrics into an overall status: healthy
// when every partition is healthy, failed when none is, degraded otherwise.
func (e *Executor) Health() HealthSnapshot {
	snapshot := HealthSnapshot{
		Partitions:      make(map[string]PartitionMetrics, len(e.partitions)),
		TotalPartitions: len(e.partitions),
	}

	for name, p := range e.partitions {
		snapshot.Partitions[name] = p.Metrics()
		if p.Status() == StatusHealthy {
			snapshot.HealthyPartitions++
		}
	}

	switch {
	case snapshot.HealthyPartitions == snapshot.TotalPartitions:
		snapshot.Status = HealthHealthy
	case snapshot.HealthyPartitions == 0:
		snapshot.Status = HealthFailed
	default:
		snapshot.Status = HealthDegraded
	}

	return snapshot
}

// Shutdown shuts down every partition without draining. Idempotent.
func (e *Executor) Shutdown() {
	e.shutdownOnce.Do(func() {
		for _, p := range e.partitions {
			p.Shutdown()
		}
		e.log.Info("executor shut down", logger.Fields("partitions", len(e.partitions)))
	})
}

// ExecuteIn runs a typed unit of work under the named channel's partition.
func ExecuteIn[T any](e *Executor, channel string, fn func() (T, error)) (T, error) {
	var zero T
	value, err := e.Execute(channel, func() (any, error) { return fn() })
	if err != nil {
		return zero, err
	}
	result, ok := value.(T)
	if !ok {
		return zero, nil
	}
	return result, nil
}

// DefaultPartitionConfigs returns the container-default partition set: one
// partition per notification channel plus the fallback. Worker counts and
// timeouts are overridable through BULKHEAD_* environment variables.
func DefaultPartitionConfigs() []PartitionConfig {
	baseWorkers := envInt("BULKHEAD_BASE_WORKERS", 2)
	baseTimeout := envSeconds("BULKHEAD_BASE_TIMEOUT_SECONDS", 30*time.Second)

	return []PartitionConfig{
		{
			Name:       "email",
			MaxWorkers: envInt("BULKHEAD_EMAIL_WORKERS", baseWorkers),
			Timeout:    envSeconds("BULKHEAD_EMAIL_TIMEOUT_SECONDS", baseTimeout),
		},
		{
			Name:       "sms",
			MaxWorkers: envInt("BULKHEAD_SMS_WORKERS", baseWorkers),
			Timeout:    envSeconds("BULKHEAD_SMS_TIMEOUT_SECONDS", 15*time.Second),
		},
		{
			Name:       "push",
			MaxWorkers: envInt("BULKHEAD_PUSH_WORKERS", baseWorkers+1),
			Timeout:    envSeconds("BULKHEAD_PUSH_TIMEOUT_SECONDS", 10*time.Second),
		},
		{
			Name:       DefaultPartition,
			MaxWorkers: envInt("BULKHEAD_DEFAULT_WORKERS", baseWorkers),
			Timeout:    envSeconds("BULKHEAD_DEFAULT_TIMEOUT_SECONDS", baseTimeout),
		},
	}
}
