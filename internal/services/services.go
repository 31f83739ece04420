package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/baharkarakas/thoughts-backend/internal/cache"
	"github.com/baharkarakas/thoughts-backend/internal/events"
	"github.com/baharkarakas/thoughts-backend/internal/metrics"
	"github.com/baharkarakas/thoughts-backend/internal/models"
	repo "github.com/baharkarakas/thoughts-backend/internal/repository"
	"github.com/baharkarakas/thoughts-backend/internal/worker"
)

// Deps is everything the domain services share. Zero-value Cache and
// Events are replaced with no-op implementations. Every service in front of
// one Cache must share one Fence; a nil Fence gets a private one.
type Deps struct {
	Repos    repo.Repositories
	Cache    cache.Cache
	Fence    *cache.Fence
	CacheTTL time.Duration
	Events   events.Publisher
	Pool     *worker.Pool
	Log      *slog.Logger
	Cascade  bool
}

type base struct {
	Deps
}

func newBase(d Deps) base {
	if d.Cache == nil {
		d.Cache = cache.Noop{}
	}
	if d.Events == nil {
		d.Events = events.Noop{}
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Fence == nil {
		d.Fence = cache.NewFence()
	}
	return base{d}
}

const backgroundTimeout = 10 * time.Second

// background runs fn on the worker pool detached from the request's
// cancellation. Jobs with the same non-empty key run in order. Without a
// pool, or when the pool refuses the job, it runs inline.
func (b base) background(ctx context.Context, key string, fn func(context.Context)) {
	job := func() {
		bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), backgroundTimeout)
		defer cancel()
		fn(bctx)
	}
	if b.Pool == nil {
		job()
		return
	}
	var ok bool
	if key != "" {
		ok = b.Pool.SubmitKey(key, job)
	} else {
		ok = b.Pool.Submit(job)
	}
	if !ok {
		job()
	}
}

// emit publishes in the background; events for one id keep their order.
func (b base) emit(ctx context.Context, typ, id string, data any) {
	e := events.New(typ, id, data)
	b.background(ctx, id, func(ctx context.Context) {
		if err := b.Events.Publish(ctx, e); err != nil {
			metrics.EventsPublished.WithLabelValues(typ, "error").Inc()
			b.Log.WarnContext(ctx, "publish event failed", "type", typ, "id", id, "err", err)
			return
		}
		metrics.EventsPublished.WithLabelValues(typ, "ok").Inc()
	})
}

func (b base) invalidate(ctx context.Context, keys ...string) {
	b.Fence.Bump(keys...)
	if err := b.Cache.Delete(ctx, keys...); err != nil {
		b.Log.WarnContext(ctx, "cache invalidation failed", "keys", keys, "err", err)
	}
}

// fill caches v under key unless key was invalidated after token was
// taken. The second check covers an invalidation landing between the first
// check and the write.
func (b base) fill(ctx context.Context, key string, token uint64, v any) {
	if !b.Fence.Fresh(key, token) {
		return
	}
	if err := cache.SetJSON(ctx, b.Cache, key, v, b.CacheTTL); err != nil {
		b.Log.WarnContext(ctx, "cache fill failed", "key", key, "err", err)
		return
	}
	if !b.Fence.Fresh(key, token) {
		b.invalidate(ctx, key)
	}
}

// record counts a mutation outcome and passes err through.
func record(entity, op string, err error) error {
	if err != nil {
		metrics.MutationsFailed.WithLabelValues(entity, models.CodeOf(err)).Inc()
		return err
	}
	metrics.MutationsTotal.WithLabelValues(entity, op).Inc()
	return nil
}

func userKeys(ids []string) []string {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, cache.UserKey(id))
	}
	return keys
}

func thoughtKeys(ids []string) []string {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, cache.ThoughtKey(id))
	}
	return keys
}
