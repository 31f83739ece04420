package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

type Memcache struct{ client *memcache.Client }

func NewMemcache(addr string) (*Memcache, error) {
	client := memcache.New(addr)
	client.MaxIdleConns = 100
	if err := client.Ping(); err != nil {
		return nil, err
	}
	return &Memcache{client: client}, nil
}

func (m *Memcache) Get(_ context.Context, key string) ([]byte, error) {
	item, err := m.client.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return item.Value, nil
}

func (m *Memcache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return m.client.Set(&memcache.Item{Key: key, Value: value, Expiration: expiration(ttl, time.Now())})
}

// memcached reads expirations above 30 days as absolute unix times.
const maxRelativeTTL = 30 * 24 * time.Hour

// expiration maps ttl to memcached's expiration field. Zero means no expiry;
// a positive ttl never rounds down to zero.
func expiration(ttl time.Duration, now time.Time) int32 {
	switch {
	case ttl <= 0:
		return 0
	case ttl > maxRelativeTTL:
		return int32(now.Add(ttl).Unix())
	case ttl < time.Second:
		return 1
	}
	return int32(ttl / time.Second)
}

func (m *Memcache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		if err := m.client.Delete(k); err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
			return err
		}
	}
	return nil
}

func (m *Memcache) Close() error { return m.client.Close() }
