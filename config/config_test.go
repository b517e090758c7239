package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/skillsenselab/notifykit/failure"
	"github.com/skillsenselab/notifykit/resilience"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Bulkhead.Email.Workers != 2 || cfg.Bulkhead.Email.TimeoutSeconds != 30 {
		t.Errorf("unexpected email defaults: %+v", cfg.Bulkhead.Email)
	}
	if cfg.Bulkhead.Push.Workers != 3 || cfg.Bulkhead.Push.TimeoutSeconds != 10 {
		t.Errorf("unexpected push defaults: %+v", cfg.Bulkhead.Push)
	}
	if cfg.Retry.MaxAttempts != 3 || cfg.Retry.BackoffFactor != 2 {
		t.Errorf("unexpected retry defaults: %+v", cfg.Retry)
	}
	if len(cfg.Channels) != 3 {
		t.Errorf("expected 3 default channels, got %v", cfg.Channels)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("BULKHEAD_EMAIL_WORKERS", "7")
	t.Setenv("BULKHEAD_SMS_TIMEOUT_SECONDS", "5")
	t.Setenv("RETRY_MAX_ATTEMPTS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Bulkhead.Email.Workers != 7 {
		t.Errorf("expected email workers 7, got %d", cfg.Bulkhead.Email.Workers)
	}
	if cfg.Bulkhead.SMS.TimeoutSeconds != 5 {
		t.Errorf("expected sms timeout 5s, got %v", cfg.Bulkhead.SMS.TimeoutSeconds)
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("expected retry max attempts 5, got %d", cfg.Retry.MaxAttempts)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := []byte("bulkhead:\n  email:\n    workers: 4\n    timeout_seconds: 12\nretry:\n  max_attempts: 2\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(WithConfigFile(path))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Bulkhead.Email.Workers != 4 || cfg.Bulkhead.Email.TimeoutSeconds != 12 {
		t.Errorf("unexpected email settings: %+v", cfg.Bulkhead.Email)
	}
	if cfg.Retry.MaxAttempts != 2 {
		t.Errorf("expected retry max attempts 2, got %d", cfg.Retry.MaxAttempts)
	}
	// Untouched settings keep their defaults.
	if cfg.Bulkhead.Push.Workers != 3 {
		t.Errorf("expected push defaults preserved, got %+v", cfg.Bulkhead.Push)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("BULKHEAD_PUSH_WORKERS=9\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("BULKHEAD_PUSH_WORKERS") })

	cfg, err := Load(WithEnvFile(path))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Bulkhead.Push.Workers != 9 {
		t.Errorf("expected push workers 9, got %d", cfg.Bulkhead.Push.Workers)
	}
}

func TestLoad_RejectsZeroWorkers(t *testing.T) {
	t.Setenv("BULKHEAD_EMAIL_WORKERS", "0")

	_, err := Load()
	if !failure.IsConfig(err) {
		t.Errorf("expected configuration failure, got %v", err)
	}
}

func TestValidate_RejectsUnknownChannel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Channels = append(cfg.Channels, "fax")

	if err := Validate(cfg); !failure.IsConfig(err) {
		t.Errorf("expected configuration failure, got %v", err)
	}
}

func TestPartitionConfigs(t *testing.T) {
	cfg := DefaultConfig()
	configs := cfg.PartitionConfigs()

	if len(configs) != 4 {
		t.Fatalf("expected 4 partitions, got %d", len(configs))
	}

	byName := make(map[string]resilience.PartitionConfig, len(configs))
	for _, pc := range configs {
		byName[pc.Name] = pc
	}

	if _, ok := byName[resilience.DefaultPartition]; !ok {
		t.Error("expected a default fallback partition")
	}
	if byName["sms"].Timeout != 15*time.Second {
		t.Errorf("expected sms timeout 15s, got %v", byName["sms"].Timeout)
	}
	if byName["push"].MaxWorkers != 3 {
		t.Errorf("expected push workers 3, got %d", byName["push"].MaxWorkers)
	}
}

func TestRetryConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Retry.MinDelaySeconds = 0.5

	rc := cfg.RetryConfig()
	if rc.MaxAttempts != 3 {
		t.Errorf("expected 3 attempts, got %d", rc.MaxAttempts)
	}
	if rc.MinDelay != 500*time.Millisecond {
		t.Errorf("expected 500ms min delay, got %v", rc.MinDelay)
	}
	if rc.MaxDelay != 30*time.Second {
		t.Errorf("expected 30s max delay, got %v", rc.MaxDelay)
	}
}
