package redis

// Package redis provides Redis-based adapters for paddock.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/esm-labs/paddock/internal/ports"
)

var _ ports.KeyValueStore = (*KVStore)(nil)

// KVStore is a Redis-backed key-value store for browser session state.
// Keys are namespaced with a prefix so several deployments can share one Redis.
type KVStore struct {
	client redis.UniversalClient
	prefix string
}

// NewKVStore creates a Redis key-value store without a key prefix.
func NewKVStore(client redis.UniversalClient) *KVStore {
	return &KVStore{client: client}
}

// NewKVStoreWithPrefix creates a Redis key-value store with a custom key prefix.
func NewKVStoreWithPrefix(client redis.UniversalClient, prefix string) *KVStore {
	return &KVStore{
		client: client,
		prefix: prefix,
	}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ports.ErrKeyNotFound
	}

	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ports.ErrKeyNotFound
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes every key with a single DEL.
func (s *KVStore) Delete(ctx context.Context, keys ...string) error {
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			full = append(full, s.prefix+k)
		}
	}
	if len(full) == 0 {
		return nil // Nothing to delete
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
