// internal/handlers/search/filing-search/config.go
package filingsearch

import "time"

type Config struct {
	Timeout time.Duration
	// MaxLimit caps the per-request result limit.
	MaxLimit int
	// ScanCap bounds how many documents a content search may download
	// when the section index cannot answer.
	ScanCap int
	// MaxConcurrentFetch bounds parallel document downloads.
	MaxConcurrentFetch int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:            60 * time.Second,
		MaxLimit:           100,
		ScanCap:            25,
		MaxConcurrentFetch: 4,
	}
}

func (c *Config) normalized() *Config {
	out := *c
	if out.Timeout <= 0 {
		out.Timeout = 60 * time.Second
	}
	if out.MaxLimit <= 0 {
		out.MaxLimit = 100
	}
	if out.ScanCap <= 0 {
		out.ScanCap = 25
	}
	if out.MaxConcurrentFetch <= 0 {
		out.MaxConcurrentFetch = 4
	}
	return &out
}
