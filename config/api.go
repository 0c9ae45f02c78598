package config

import (
	"strings"
	"time"
)

const (
	defaultAPIBaseURL        = "http://localhost:8000"
	defaultAPITimeout        = 10 * time.Second
	defaultAPIBreakerTimeout = 30 * time.Second
)

// APIConfig configures the client for the stats REST API.
type APIConfig struct {
	// BaseURL is the API root, e.g. "https://stats.example.com/api".
	BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:8000"`
	Timeout time.Duration `env:"TIMEOUT"  envDefault:"10s"`

	// BreakerFailures consecutive failures open the circuit for BreakerTimeout.
	BreakerFailures uint32        `env:"BREAKER_FAILURES" envDefault:"5"`
	BreakerTimeout  time.Duration `env:"BREAKER_TIMEOUT"  envDefault:"30s"`
}

// Sanitize applies guardrails to API client values.
func (a *APIConfig) Sanitize() {
	a.BaseURL = strings.TrimRight(strings.TrimSpace(a.BaseURL), "/")
	if a.BaseURL == "" {
		a.BaseURL = defaultAPIBaseURL
	}
	if a.Timeout <= 0 {
		a.Timeout = defaultAPITimeout
	}
	if a.BreakerFailures == 0 {
		a.BreakerFailures = 5
	}
	if a.BreakerTimeout <= 0 {
		a.BreakerTimeout = defaultAPIBreakerTimeout
	}
}
