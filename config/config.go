// Package config loads the dispatch core's configuration: per-partition
// worker counts and timeouts, retry policy knobs, enabled channels, and
// logging. Values layer YAML file < .env file < process environment, so
// every knob is overridable without recompilation.
package config

import (
	"time"

	"github.com/skillsenselab/notifykit/logger"
	"github.com/skillsenselab/notifykit/resilience"
)

// PartitionSettings are the per-partition knobs.
type PartitionSettings struct {
	// Workers is the partition's fixed worker pool size.
	Workers int `mapstructure:"workers" validate:"min=1"`
	// TimeoutSeconds bounds how long a caller waits on one execution.
	TimeoutSeconds float64 `mapstructure:"timeout_seconds" validate:"gt=0"`
}

// BulkheadSettings hold one partition per notification channel plus the
// fallback partition.
type BulkheadSettings struct {
	Email   PartitionSettings `mapstructure:"email"`
	SMS     PartitionSettings `mapstructure:"sms"`
	Push    PartitionSettings `mapstructure:"push"`
	Default PartitionSettings `mapstructure:"default"`
}

// RetrySettings are the backoff policy knobs. Degenerate values are passed
// through rather than rejected; the retry wrapper itself clamps them.
type RetrySettings struct {
	MaxAttempts     int     `mapstructure:"max_attempts"`
	BackoffFactor   float64 `mapstructure:"backoff_factor"`
	MinDelaySeconds float64 `mapstructure:"min_delay_seconds"`
	MaxDelaySeconds float64 `mapstructure:"max_delay_seconds"`
}

// Config is the full configuration of the dispatch core.
type Config struct {
	Log      logger.Config    `mapstructure:"log"`
	Bulkhead BulkheadSettings `mapstructure:"bulkhead"`
	Retry    RetrySettings    `mapstructure:"retry"`
	// Channels lists the enabled notification channels.
	Channels []string `mapstructure:"channels" validate:"dive,oneof=email sms push"`
}

// DefaultConfig returns the container defaults: light concurrency per
// channel, shorter timeouts for push than for email.
func DefaultConfig() Config {
	return Config{
		Log: logger.Config{Level: "info", Format: "json", Output: "stdout", Timestamp: true},
		Bulkhead: BulkheadSettings{
			Email:   PartitionSettings{Workers: 2, TimeoutSeconds: 30},
			SMS:     PartitionSettings{Workers: 2, TimeoutSeconds: 15},
			Push:    PartitionSettings{Workers: 3, TimeoutSeconds: 10},
			Default: PartitionSettings{Workers: 2, TimeoutSeconds: 30},
		},
		Retry: RetrySettings{
			MaxAttempts:     3,
			BackoffFactor:   2,
			MinDelaySeconds: 1,
			MaxDelaySeconds: 30,
		},
		Channels: []string{"email", "sms", "push"},
	}
}

// PartitionConfigs converts the bulkhead settings into partition configs
// for the executor.
func (c Config) PartitionConfigs() []resilience.PartitionConfig {
	return []resilience.PartitionConfig{
		partitionConfig("email", c.Bulkhead.Email),
		partitionConfig("sms", c.Bulkhead.SMS),
		partitionConfig("push", c.Bulkhead.Push),
		partitionConfig(resilience.DefaultPartition, c.Bulkhead.Default),
	}
}

// RetryConfig converts the retry settings into a retry policy.
func (c Config) RetryConfig() resilience.RetryConfig {
	cfg := resilience.StandardRetry()
	cfg.MaxAttempts = c.Retry.MaxAttempts
	cfg.BackoffFactor = c.Retry.BackoffFactor
	cfg.MinDelay = seconds(c.Retry.MinDelaySeconds)
	cfg.MaxDelay = seconds(c.Retry.MaxDelaySeconds)
	return cfg
}

func partitionConfig(name string, s PartitionSettings) resilience.PartitionConfig {
	return resilience.PartitionConfig{
		Name:       name,
		MaxWorkers: s.Workers,
		Timeout:    seconds(s.TimeoutSeconds),
	}
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
