// internal/handlers/search/insider-transactions/config.go
package insidertransactions

import "time"

type Config struct {
	Timeout time.Duration
	// MaxLimit caps the per-request transaction limit.
	MaxLimit int
	// MaxConcurrentFetch bounds parallel Form 4 downloads.
	MaxConcurrentFetch int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:            60 * time.Second,
		MaxLimit:           200,
		MaxConcurrentFetch: 4,
	}
}

func (c *Config) normalized() *Config {
	out := *c
	if out.Timeout <= 0 {
		out.Timeout = 60 * time.Second
	}
	if out.MaxLimit <= 0 {
		out.MaxLimit = 200
	}
	if out.MaxConcurrentFetch <= 0 {
		out.MaxConcurrentFetch = 4
	}
	return &out
}
