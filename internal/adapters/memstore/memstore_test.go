package memstore

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esm-labs/paddock/internal/ports"
)

func TestStore_SetGetDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", "1", 0))
	require.NoError(t, s.Set(ctx, "b", "2", time.Hour))

	v, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	require.NoError(t, s.Delete(ctx, "a", "b", "missing"))
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ports.ErrKeyNotFound)
	assert.Equal(t, 0, s.Len())
}

func TestStore_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := New(WithClock(func() time.Time { return now }))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "v", time.Minute))

	now = now.Add(59 * time.Second)
	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	now = now.Add(time.Second)
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ports.ErrKeyNotFound)
	assert.Equal(t, 0, s.Len())
}

func TestStore_EmptyKey(t *testing.T) {
	assert.Error(t, New().Set(context.Background(), "", "v", 0))
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("sid-%d:token", i)
			assert.NoError(t, s.Set(ctx, key, "t", time.Minute))
			v, err := s.Get(ctx, key)
			assert.NoError(t, err)
			assert.Equal(t, "t", v)
			assert.NoError(t, s.Delete(ctx, key))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, s.Len())
}
