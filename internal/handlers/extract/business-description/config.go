// internal/handlers/extract/business-description/config.go
package businessdescription

import "time"

type Config struct {
	Timeout time.Duration
	// MaxChars truncates the returned description.
	MaxChars int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  60 * time.Second,
		MaxChars: 5000,
	}
}

func (c *Config) normalized() *Config {
	out := *c
	if out.Timeout <= 0 {
		out.Timeout = 60 * time.Second
	}
	if out.MaxChars <= 0 {
		out.MaxChars = 5000
	}
	return &out
}
