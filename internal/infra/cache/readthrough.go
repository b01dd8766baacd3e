package cache

import (
	"context"
	"time"

	"github.com/LouYuanbo1/rczpfeed/internal/logger"
	"golang.org/x/sync/singleflight"
)

// ReadThrough 在 Store 之上提供按键合并的读穿透
type ReadThrough struct {
	store Store
	ttl   time.Duration
	group singleflight.Group
	log   *logger.Logger
}

func NewReadThrough(store Store, ttl time.Duration) *ReadThrough {
	return &ReadThrough{store: store, ttl: ttl, log: logger.For("cache")}
}

// TryGet 命中则直接返回;未命中时同一个 key 只会执行一次 compute,
// 其余并发调用等待并共享结果。compute 失败的结果不会写入缓存。
// compute 不随任何单个调用方取消,由 compute 自身的超时约束;
// 调用方的 ctx 结束时只有该调用方提前返回
func (rt *ReadThrough) TryGet(ctx context.Context, key string, compute func(ctx context.Context) (string, error)) (string, error) {
	if val, ok := rt.lookup(ctx, key); ok {
		return val, nil
	}
	flightCtx := context.WithoutCancel(ctx)
	ch := rt.group.DoChan(key, func() (any, error) {
		// 等待期间可能已有其他调用写入
		if val, ok := rt.lookup(flightCtx, key); ok {
			return val, nil
		}
		val, err := compute(flightCtx)
		if err != nil {
			return "", err
		}
		if err := rt.store.Set(flightCtx, key, val, rt.ttl); err != nil {
			rt.log.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
		return val, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Shared {
			rt.log.Debug().Str("key", key).Msg("shared in-flight result")
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// lookup 存储故障按未命中处理
func (rt *ReadThrough) lookup(ctx context.Context, key string) (string, bool) {
	val, ok, err := rt.store.Get(ctx, key)
	if err != nil {
		rt.log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		return "", false
	}
	return val, ok
}

func (rt *ReadThrough) Close() error {
	return rt.store.Close()
}
