// Package cache is the read-through cache in front of single-document reads.
// Entries are JSON and are dropped on every write to the same document.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/baharkarakas/thoughts-backend/internal/metrics"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

func ThoughtKey(id string) string { return "thought:" + id }
func UserKey(id string) string { return "user:" + id }

// GetJSON decodes the cached value into v. It reports false on a miss or on
// any backend error; callers fall through to the store either way.
func GetJSON(ctx context.Context, c Cache, key string, v any) bool {
	b, err := c.Get(ctx, key)
	switch {
	case errors.Is(err, ErrMiss):
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return false
	case err != nil:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return false
	}
	if err := json.Unmarshal(b, v); err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return true
}

func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, b, ttl)
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }
func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Noop) Delete(context.Context, ...string) error { return nil }
func (Noop) Close() error { return nil }
