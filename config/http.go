package config

import "time"

const (
	defaultHTTPAddr         = ":8080"
	defaultHTTPReadTimeout  = 30 * time.Second
	defaultHTTPWriteTimeout = 30 * time.Second
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT"  envDefault:"30s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Addr == "" {
		h.Addr = defaultHTTPAddr
	}
	if h.ReadTimeout <= 0 {
		h.ReadTimeout = defaultHTTPReadTimeout
	}
	if h.WriteTimeout <= 0 {
		h.WriteTimeout = defaultHTTPWriteTimeout
	}
}

// RateLimitConfig bounds sign-in attempts per client IP.
type RateLimitConfig struct {
	LoginLimit  int           `env:"LOGIN_RATE_LIMIT"  envDefault:"10"`
	LoginWindow time.Duration `env:"LOGIN_RATE_WINDOW" envDefault:"1m"`
}

// Sanitize applies guardrails to rate limit values.
func (r *RateLimitConfig) Sanitize() {
	if r.LoginLimit < 1 {
		r.LoginLimit = 10
	}
	if r.LoginWindow <= 0 {
		r.LoginWindow = time.Minute
	}
}
