package cache

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

type MemcacheStore struct {
	client *memcache.Client
}

func NewMemcacheStore(serverAddr string) *MemcacheStore {
	return &MemcacheStore{client: memcache.New(serverAddr)}
}

// memcache 的键不能超过250字节也不能含空白
func memcacheKey(key string) string {
	if len(key) <= 200 {
		valid := true
		for _, r := range key {
			if r <= ' ' || r == 0x7f {
				valid = false
				break
			}
		}
		if valid {
			return key
		}
	}
	return fmt.Sprintf("sha256:%x", sha256.Sum256([]byte(key)))
}

func (m *MemcacheStore) Get(_ context.Context, key string) (string, bool, error) {
	item, err := m.client.Get(memcacheKey(key))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return string(item.Value), true, nil
}

func (m *MemcacheStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	err := m.client.Set(&memcache.Item{
		Key:        memcacheKey(key),
		Value:      []byte(value),
		Expiration: int32(ttl.Seconds()),
	})
	if err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Close 连接由客户端内部的空闲池管理
func (m *MemcacheStore) Close() error {
	return nil
}
