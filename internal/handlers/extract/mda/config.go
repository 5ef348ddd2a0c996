// internal/handlers/extract/mda/config.go
package mda

import "time"

type Config struct {
	Timeout time.Duration
	// MaxChars truncates the returned MD&A text.
	MaxChars int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  60 * time.Second,
		MaxChars: 10000,
	}
}

func (c *Config) normalized() *Config {
	out := *c
	if out.Timeout <= 0 {
		out.Timeout = 60 * time.Second
	}
	if out.MaxChars <= 0 {
		out.MaxChars = 10000
	}
	return &out
}
