package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/skillsenselab/notifykit/resilience"
)

// BulkheadMetrics holds the instruments describing partition activity.
type BulkheadMetrics struct {
	executions metric.Int64Counter
	duration   metric.Float64Histogram
	retries    metric.Int64Counter
}

// NewBulkheadMetrics creates the bulkhead instruments on the given meter.
func NewBulkheadMetrics(meter metric.Meter) (*BulkheadMetrics, error) {
	executions, err := meter.Int64Counter("bulkhead.executions",
		metric.WithDescription("Partition executions by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating bulkhead.executions counter: %w", err)
	}

	duration, err := meter.Float64Histogram("bulkhead.duration",
		metric.WithDescription("Partition execution duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating bulkhead.duration histogram: %w", err)
	}

	retries, err := meter.Int64Counter("retry.attempts",
		metric.WithDescription("Retry attempts by channel"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating retry.attempts counter: %w", err)
	}

	return &BulkheadMetrics{
		executions: executions,
		duration:   duration,
		retries:    retries,
	}, nil
}

// CompletionHook adapts the instruments to a partition's OnComplete
// callback. Set it on each PartitionConfig at construction.
func (m *BulkheadMetrics) CompletionHook() func(string, resilience.Outcome, time.Duration) {
	return func(partition string, outcome resilience.Outcome, elapsed time.Duration) {
		ctx := context.Background()
		m.executions.Add(ctx, 1, metric.WithAttributes(
			attribute.String("partition", partition),
			attribute.String("outcome", string(outcome)),
		))
		m.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
			attribute.String("partition", partition),
		))
	}
}

// RecordRetry counts one retry attempt for a channel.
func (m *BulkheadMetrics) RecordRetry(ctx context.Context, channel string, attempt int) {
	m.retries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("channel", channel),
		attribute.Int("attempt", attempt),
	))
}
