// internal/handlers/extract/risk-factors/config.go
package riskfactors

import "time"

type Config struct {
	Timeout time.Duration
	// MaxRiskFactors caps the returned list.
	MaxRiskFactors int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:        60 * time.Second,
		MaxRiskFactors: 20,
	}
}

func (c *Config) normalized() *Config {
	out := *c
	if out.Timeout <= 0 {
		out.Timeout = 60 * time.Second
	}
	if out.MaxRiskFactors <= 0 {
		out.MaxRiskFactors = 20
	}
	return &out
}
