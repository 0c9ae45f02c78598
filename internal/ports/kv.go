package ports

// Package ports defines interfaces (hexagonal ports) for session storage and the backend API.
// Implementations live in internal/adapters and internal/apiclient; orchestration in internal/service.

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by KeyValueStore.Get when a key is absent or expired.
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore is the durable per-browser storage behind the session store.
// Implementations must be safe for concurrent use; each Set is atomic per key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete removes all keys in one call; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
