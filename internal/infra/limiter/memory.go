package limiter

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// Memory counts failures in process. Counters expire window after the
// first failure.
type Memory struct {
	cache       *cache.Cache
	maxFailures int
	window      time.Duration
}

func NewMemory(maxFailures int, window time.Duration) *Memory {
	return &Memory{
		cache:       cache.New(window, 2*window),
		maxFailures: maxFailures,
		window:      window,
	}
}

func (m *Memory) Allow(ctx context.Context, key string) (bool, error) {
	v, ok := m.cache.Get(key)
	if !ok {
		return true, nil
	}
	return v.(int) < m.maxFailures, nil
}

func (m *Memory) Failure(ctx context.Context, key string) error {
	if err := m.cache.Add(key, 1, m.window); err == nil {
		return nil
	}
	_, err := m.cache.IncrementInt(key, 1)
	if err != nil {
		// expired between Add and IncrementInt
		m.cache.Set(key, 1, m.window)
	}
	return nil
}

func (m *Memory) Success(ctx context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}
