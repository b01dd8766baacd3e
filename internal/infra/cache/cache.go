package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/LouYuanbo1/rczpfeed/internal/config"
)

// Store 字符串键值存储, ttl 为 0 表示不过期
type Store interface {
	// Get 未命中时返回 ok=false, err=nil
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Close() error
}

// New 按配置创建存储后端
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Cache.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(ctx, cfg.Cache.Redis.Address, cfg.Cache.Redis.Password, cfg.Cache.Redis.DB)
	case "memcache":
		return NewMemcacheStore(cfg.Cache.Memcache.Address), nil
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Cache.Type)
	}
}
