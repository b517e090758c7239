package resilience

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/skillsenselab/notifykit/logger"
)

// The process-wide executor has an explicit lifecycle: Default constructs
// it on first use from environment configuration, ShutdownDefault tears it
// down. A Default call after shutdown builds a fresh instance rather than
// returning the shut-down one.

var (
	defaultMu       sync.Mutex
	defaultExecutor *Executor
)

// Default returns the process-wide executor, constructing it on first use.
func Default() *Executor {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultExecutor == nil {
		e, err := NewExecutor()
		if err != nil {
			// Container defaults are always valid; only env overrides can
			// break construction, and that is fatal misconfiguration.
			logger.Error("default executor construction failed", logger.ErrorFields("init", err))
			panic(err)
		}
		defaultExecutor = e
	}
	return defaultExecutor
}

// SetDefault replaces the process-wide executor. The previous one, if any,
// is not shut down; callers own that transition.
func SetDefault(e *Executor) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultExecutor = e
}

// ShutdownDefault shuts down and clears the process-wide executor.
func ShutdownDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultExecutor != nil {
		defaultExecutor.Shutdown()
		defaultExecutor = nil
	}
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envSeconds(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil {
			return time.Duration(secs * float64(time.Second))
		}
	}
	return fallback
}
