package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryGetComputesOnce(t *testing.T) {
	ctx := context.Background()
	rt := NewReadThrough(NewMemoryStore(), time.Hour)

	var calls atomic.Int32
	compute := func(context.Context) (string, error) {
		calls.Add(1)
		return "content", nil
	}

	for range 3 {
		val, err := rt.TryGet(ctx, "dynamic:9", compute)
		require.NoError(t, err)
		assert.Equal(t, "content", val)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestTryGetConcurrentCallersShareOneComputation(t *testing.T) {
	ctx := context.Background()
	rt := NewReadThrough(NewMemoryStore(), time.Hour)

	var calls atomic.Int32
	release := make(chan struct{})
	compute := func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	}

	const callers = 20
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			val, err := rt.TryGet(ctx, "recruitment:5", compute)
			assert.NoError(t, err)
			results[i] = val
		}()
	}
	// 留出时间让所有调用进入同一次计算
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, "shared", r)
	}
}

func TestTryGetDoesNotCacheFailures(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	rt := NewReadThrough(store, time.Hour)

	boom := errors.New("timeout")
	_, err := rt.TryGet(ctx, "k", func(context.Context) (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, store.Len())

	val, err := rt.TryGet(ctx, "k", func(context.Context) (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", val)
}

func TestTryGetDistinctKeysRunIndependently(t *testing.T) {
	ctx := context.Background()
	rt := NewReadThrough(NewMemoryStore(), time.Hour)

	var calls atomic.Int32
	compute := func(context.Context) (string, error) {
		calls.Add(1)
		return "v", nil
	}
	_, _ = rt.TryGet(ctx, "recruitment:1", compute)
	_, _ = rt.TryGet(ctx, "dynamic:1", compute)

	assert.Equal(t, int32(2), calls.Load())
}

type failingStore struct{ *MemoryStore }

func (f *failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

func TestTryGetTreatsStoreErrorsAsMiss(t *testing.T) {
	rt := NewReadThrough(&failingStore{MemoryStore: NewMemoryStore()}, time.Hour)

	val, err := rt.TryGet(context.Background(), "k", func(context.Context) (string, error) { return "fresh", nil })
	require.NoError(t, err)
	assert.Equal(t, "fresh", val)
}

func TestTryGetWaiterSurvivesFirstCallerCancel(t *testing.T) {
	rt := NewReadThrough(NewMemoryStore(), time.Hour)

	started := make(chan struct{})
	release := make(chan struct{})
	compute := func(ctx context.Context) (string, error) {
		close(started)
		select {
		case <-release:
			return "detail", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := rt.TryGet(ctxA, "recruitment:11", compute)
		errA <- err
	}()
	<-started

	type result struct {
		val string
		err error
	}
	resB := make(chan result, 1)
	go func() {
		val, err := rt.TryGet(context.Background(), "recruitment:11", func(context.Context) (string, error) {
			return "", errors.New("second compute")
		})
		resB <- result{val, err}
	}()
	// 等 B 加入同一次计算
	time.Sleep(50 * time.Millisecond)

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(release)
	got := <-resB
	require.NoError(t, got.err)
	assert.Equal(t, "detail", got.val)

	val, ok, err := rt.store.Get(context.Background(), "recruitment:11")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "detail", val)
}
