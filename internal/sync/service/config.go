package service

import "time"

// Config controls batch sizing and the retry policy.
type Config struct {
	BatchSize  int
	Delay      time.Duration
	MaxRetries int
}

func DefaultConfig() Config {
	return Config{
		BatchSize:  10,
		Delay:      5 * time.Second,
		MaxRetries: 5,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.BatchSize <= 0 {
		c.BatchSize = defaults.BatchSize
	}
	if c.Delay <= 0 {
		c.Delay = defaults.Delay
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = defaults.MaxRetries
	}
	return c
}
