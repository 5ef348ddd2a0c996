// internal/handlers/compare/filing-compare/config.go
package filingcompare

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 90 * time.Second,
	}
}

func (c *Config) normalized() *Config {
	out := *c
	if out.Timeout <= 0 {
		out.Timeout = 90 * time.Second
	}
	return &out
}
