package config

import (
	"net"
	"strconv"
	"strings"
	"time"
)

// SessionStoreKind selects where browser sessions are kept.
type SessionStoreKind string

const (
	SessionStoreRedis  SessionStoreKind = "redis"
	SessionStoreMemory SessionStoreKind = "memory"
)

// SessionConfig contains browser session storage configuration.
type SessionConfig struct {
	Store SessionStoreKind `env:"STORE" envDefault:"redis"`

	// TTL applies to keys when the token carries no usable expiry.
	TTL       time.Duration `env:"TTL"        envDefault:"8h"`
	KeyPrefix string        `env:"KEY_PREFIX" envDefault:"paddock:"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionConfig) Sanitize() {
	switch SessionStoreKind(strings.ToLower(strings.TrimSpace(string(s.Store)))) {
	case SessionStoreMemory:
		s.Store = SessionStoreMemory
	default:
		s.Store = SessionStoreRedis
	}
	if s.TTL <= 0 {
		s.TTL = 8 * time.Hour
	}
}

// RedisConfig contains Redis configuration.
// URI wins over Host and Port when set; it may be a redis:// or rediss:// URL
// or a bare host:port.
type RedisConfig struct {
	URI      string `env:"URI"      envDefault:""`
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}

// Sanitize applies guardrails to Redis configuration values.
func (r *RedisConfig) Sanitize() {
	r.URI = strings.TrimSpace(r.URI)
	r.Host = strings.TrimSpace(r.Host)
	if r.Host == "" {
		r.Host = "localhost"
	}
	if r.Port <= 0 || r.Port > 65535 {
		r.Port = 6379
	}
	if r.DB < 0 {
		r.DB = 0
	}
}

// Addr returns the host:port pair used when URI is empty.
func (r *RedisConfig) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}
