// internal/handlers/extract/financial-statements/config.go
package financialstatements

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 60 * time.Second,
	}
}

func (c *Config) normalized() *Config {
	out := *c
	if out.Timeout <= 0 {
		out.Timeout = 60 * time.Second
	}
	return &out
}
