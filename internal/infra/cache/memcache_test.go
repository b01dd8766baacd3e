package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemcacheKey(t *testing.T) {
	assert.Equal(t, "recruitment:42", memcacheKey("recruitment:42"))
	assert.True(t, strings.HasPrefix(memcacheKey("has space"), "sha256:"))
	assert.True(t, strings.HasPrefix(memcacheKey(strings.Repeat("x", 300)), "sha256:"))
}

// 需要本地运行的 memcached,不可用时跳过
func TestMemcacheStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemcacheStore("localhost:11211")
	if _, err := store.client.Get("probe"); err != nil && err != memcache.ErrCacheMiss {
		t.Skip("Memcached is not available, skipping test")
	}
	defer store.Close()

	require.NoError(t, store.Set(ctx, "rczpfeed_test", "value", time.Second))
	val, ok, err := store.Get(ctx, "rczpfeed_test")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "value", val)

	_, ok, err = store.Get(ctx, "rczpfeed_missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
