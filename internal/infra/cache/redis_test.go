package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 需要本地运行的 redis,不可用时跳过
func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewRedisStore(ctx, "localhost:6379", "", 15)
	if err != nil {
		t.Skip("Redis is not available, skipping test")
	}
	defer store.Close()

	key := "rczpfeed:test:" + time.Now().Format("150405.000")
	_, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, key, "value", time.Second))
	val, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "value", val)
}
