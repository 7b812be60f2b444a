package stream

import "time"

// ReconnectConfig controls how a dropped stream is re-established.
// MaxRetries of zero disables reconnection: a dropped stream closes and the
// camera goes offline.
type ReconnectConfig struct {
	MaxRetries    int           `yaml:"max_retries" env-default:"0"`
	RetryDelay    time.Duration `yaml:"retry_delay" env-default:"1s"`
	MaxRetryDelay time.Duration `yaml:"max_retry_delay" env-default:"30s"`
}

func (c ReconnectConfig) Enabled() bool {
	return c.MaxRetries > 0
}

// backoff returns RetryDelay * 2^(attempt-1), capped at MaxRetryDelay.
func backoff(attempt int, cfg ReconnectConfig) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 30 {
		return cfg.MaxRetryDelay
	}

	delay := cfg.RetryDelay * time.Duration(1<<uint(attempt-1))
	if delay > cfg.MaxRetryDelay || delay <= 0 {
		delay = cfg.MaxRetryDelay
	}

	return delay
}
