package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/skillsenselab/notifykit/failure"
)

// LoaderOption customizes Load.
type LoaderOption func(*loaderOptions)

type loaderOptions struct {
	configFile string
	envFile    string
}

// WithConfigFile sets an explicit YAML config file path.
func WithConfigFile(path string) LoaderOption {
	return func(o *loaderOptions) { o.configFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(o *loaderOptions) { o.envFile = path }
}

// Load builds the configuration. Defaults come first, then an optional
// YAML config file, then an optional .env file, then process environment
// variables (BULKHEAD_EMAIL_WORKERS, RETRY_MAX_ATTEMPTS, LOG_LEVEL, ...).
// Invalid partition settings fail here, at construction time.
func Load(opts ...LoaderOption) (Config, error) {
	var o loaderOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.envFile == "" {
		if _, err := os.Stat(".env"); err == nil {
			o.envFile = ".env"
		}
	}
	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil {
			return Config{}, failure.Config("unable to load env file").
				WithDetail("path", o.envFile).WithCause(err)
		}
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	if o.configFile != "" {
		v.SetConfigFile(o.configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, failure.Config("unable to read config file").
				WithDetail("path", o.configFile).WithCause(err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, failure.Config("unable to unmarshal configuration").WithCause(err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// setDefaults registers every key so environment overrides bind during
// Unmarshal.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.output", d.Log.Output)
	v.SetDefault("log.timestamp", d.Log.Timestamp)

	partitions := map[string]PartitionSettings{
		"email":   d.Bulkhead.Email,
		"sms":     d.Bulkhead.SMS,
		"push":    d.Bulkhead.Push,
		"default": d.Bulkhead.Default,
	}
	for name, s := range partitions {
		v.SetDefault("bulkhead."+name+".workers", s.Workers)
		v.SetDefault("bulkhead."+name+".timeout_seconds", s.TimeoutSeconds)
	}

	v.SetDefault("retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("retry.backoff_factor", d.Retry.BackoffFactor)
	v.SetDefault("retry.min_delay_seconds", d.Retry.MinDelaySeconds)
	v.SetDefault("retry.max_delay_seconds", d.Retry.MaxDelaySeconds)

	v.SetDefault("channels", d.Channels)
}
