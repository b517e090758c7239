// Package dispatch composes the fault-tolerance core: it wraps a channel
// adapter's send with the channel's retry policy and submits the wrapped
// call to the bulkhead executor under the channel's partition. The CRUD
// service layer above calls Dispatch and translates propagated failures
// into user-facing results.
package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/skillsenselab/notifykit/channel"
	"github.com/skillsenselab/notifykit/config"
	"github.com/skillsenselab/notifykit/logger"
	"github.com/skillsenselab/notifykit/observability"
	"github.com/skillsenselab/notifykit/resilience"
)

const tracerName = "github.com/skillsenselab/notifykit/dispatch"

// Dispatcher routes notifications through the retry and bulkhead layers.
type Dispatcher struct {
	executor *resilience.Executor
	registry *channel.Registry
	policies map[channel.Kind]resilience.RetryConfig
	metrics  *observability.BulkheadMetrics
	tracer   trace.Tracer
	log      *logger.Logger
}

// Option customizes dispatcher construction.
type Option func(*options)

type options struct {
	registry *channel.Registry
	metrics  *observability.BulkheadMetrics
	policies map[channel.Kind]resilience.RetryConfig
}

// WithRegistry injects a prebuilt adapter registry, e.g. one carrying real
// provider transports.
func WithRegistry(r *channel.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithMetrics attaches bulkhead instruments; partition completions and
// retry attempts are recorded on them.
func WithMetrics(m *observability.BulkheadMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithRetryPolicy overrides the retry policy for one channel.
func WithRetryPolicy(kind channel.Kind, cfg resilience.RetryConfig) Option {
	return func(o *options) { o.policies[kind] = cfg }
}

// New builds a dispatcher from configuration: one bulkhead partition per
// channel plus the fallback, the enabled channel adapters, and the
// configured retry policy for every channel unless overridden.
func New(cfg config.Config, opts ...Option) (*Dispatcher, error) {
	o := options{policies: make(map[channel.Kind]resilience.RetryConfig)}
	for _, opt := range opts {
		opt(&o)
	}

	partitionConfigs := cfg.PartitionConfigs()
	if o.metrics != nil {
		hook := o.metrics.CompletionHook()
		for i := range partitionConfigs {
			partitionConfigs[i].OnComplete = hook
		}
	}

	executor, err := resilience.NewExecutor(partitionConfigs...)
	if err != nil {
		return nil, err
	}

	registry := o.registry
	if registry == nil {
		kinds := make([]channel.Kind, 0, len(cfg.Channels))
		for _, name := range cfg.Channels {
			kind, err := channel.ParseKind(name)
			if err != nil {
				executor.Shutdown()
				return nil, err
			}
			kinds = append(kinds, kind)
		}
		registry, err = channel.NewRegistry(kinds)
		if err != nil {
			executor.Shutdown()
			return nil, err
		}
	}

	basePolicy := cfg.RetryConfig()
	policies := make(map[channel.Kind]resilience.RetryConfig, len(registry.Kinds()))
	for _, kind := range registry.Kinds() {
		if override, ok := o.policies[kind]; ok {
			policies[kind] = override
		} else {
			policies[kind] = basePolicy
		}
	}

	return &Dispatcher{
		executor: executor,
		registry: registry,
		policies: policies,
		metrics:  o.metrics,
		tracer:   observability.Tracer(tracerName),
		log:      logger.WithComponent("dispatch"),
	}, nil
}

// Dispatch delivers one message through the named channel. The adapter's
// send runs inside the channel's bulkhead partition, wrapped with the
// channel's retry policy; the partition timeout therefore bounds the full
// attempt sequence. Failures propagate classified and unchanged.
func (d *Dispatcher) Dispatch(ctx context.Context, kind channel.Kind, msg channel.Message) (*channel.Receipt, error) {
	adapter, err := d.registry.Get(kind)
	if err != nil {
		return nil, err
	}

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	ctx, span := d.tracer.Start(ctx, "dispatch."+string(kind), trace.WithAttributes(
		attribute.String("channel", string(kind)),
		attribute.String("message.id", msg.ID),
	))
	defer span.End()

	policy := d.policies[kind]
	if d.metrics != nil {
		metrics := d.metrics
		policy.OnRetry = func(attempt int, _ error, _ time.Duration) {
			metrics.RecordRetry(ctx, string(kind), attempt)
		}
	}

	work := resilience.Wrap(ctx, policy, func() (*channel.Receipt, error) {
		return adapter.Send(ctx, msg)
	})

	receipt, err := resilience.ExecuteIn(d.executor, string(kind), work)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.log.Warn("dispatch failed", logger.Fields(
			"channel", string(kind),
			"message_id", msg.ID,
			"error", err.Error(),
		))
		return nil, err
	}

	span.SetAttributes(attribute.String("receipt.id", receipt.MessageID))
	d.log.Info("dispatched", logger.Fields(
		"channel", string(kind),
		"message_id", msg.ID,
		"receipt_id", receipt.MessageID,
	))
	return receipt, nil
}

// Health returns the executor's aggregate snapshot for liveness and
// readiness probes.
func (d *Dispatcher) Health() resilience.HealthSnapshot {
	return d.executor.Health()
}

// Channels returns the enabled channel kinds.
func (d *Dispatcher) Channels() []channel.Kind {
	return d.registry.Kinds()
}

// Partitions returns the configured partition names.
func (d *Dispatcher) Partitions() []string {
	return d.executor.ListPartitions()
}

// Shutdown shuts down the bulkhead partitions without draining.
// Idempotent.
func (d *Dispatcher) Shutdown() {
	d.executor.Shutdown()
}
