package limiter

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
	"github.com/zeebo/xxh3"
)

// Memcache shares failure counters between instances.
type Memcache struct {
	client      *memcache.Client
	maxFailures int
	window      time.Duration
}

func NewMemcache(client *memcache.Client, maxFailures int, window time.Duration) *Memcache {
	return &Memcache{
		client:      client,
		maxFailures: maxFailures,
		window:      window,
	}
}

// cacheKey keeps arbitrary identifiers within memcached's key rules.
func cacheKey(key string) string {
	return fmt.Sprintf("limiter:%016x", xxh3.HashString(key))
}

func (m *Memcache) Allow(ctx context.Context, key string) (bool, error) {
	item, err := m.client.Get(cacheKey(key))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return true, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "memcache get failed")
	}
	count, err := strconv.Atoi(string(item.Value))
	if err != nil {
		return true, nil
	}
	return count < m.maxFailures, nil
}

func (m *Memcache) Failure(ctx context.Context, key string) error {
	k := cacheKey(key)
	_, err := m.client.Increment(k, 1)
	if err == nil {
		return nil
	}
	if !errors.Is(err, memcache.ErrCacheMiss) {
		return errors.Wrap(err, "memcache increment failed")
	}

	err = m.client.Add(&memcache.Item{
		Key:        k,
		Value:      []byte("1"),
		Expiration: int32(m.window.Seconds()),
	})
	if errors.Is(err, memcache.ErrNotStored) {
		// another instance created it first
		_, err = m.client.Increment(k, 1)
	}
	if err != nil {
		return errors.Wrap(err, "memcache add failed")
	}
	return nil
}

func (m *Memcache) Success(ctx context.Context, key string) error {
	err := m.client.Delete(cacheKey(key))
	if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		return errors.Wrap(err, "memcache delete failed")
	}
	return nil
}
