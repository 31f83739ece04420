// Package bootstrap builds the application graph once at startup: store,
// cache, event publisher, worker pool, services and router.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/baharkarakas/thoughts-backend/internal/api"
	"github.com/baharkarakas/thoughts-backend/internal/auth"
	"github.com/baharkarakas/thoughts-backend/internal/cache"
	"github.com/baharkarakas/thoughts-backend/internal/config"
	"github.com/baharkarakas/thoughts-backend/internal/db"
	"github.com/baharkarakas/thoughts-backend/internal/events"
	"github.com/baharkarakas/thoughts-backend/internal/repository"
	"github.com/baharkarakas/thoughts-backend/internal/repository/memory"
	"github.com/baharkarakas/thoughts-backend/internal/repository/mongodb"
	"github.com/baharkarakas/thoughts-backend/internal/repository/postgres"
	"github.com/baharkarakas/thoughts-backend/internal/services"
	"github.com/baharkarakas/thoughts-backend/internal/worker"
)

type App struct {
	Cfg config.Config
	Log *slog.Logger

	Repos  repository.Repositories
	Cache  cache.Cache
	Events events.Publisher
	Pool   *worker.Pool
	TM     *auth.TokenManager

	Thoughts *services.ThoughtService
	Users    *services.UserService
	Auth     *services.AuthService

	migrate func(context.Context) error
	closers []func()
}

// Open connects every backend named by cfg. On error whatever was already
// opened is closed again.
func Open(ctx context.Context, cfg config.Config, log *slog.Logger) (_ *App, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &App{Cfg: cfg, Log: log}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if err := a.openStore(ctx); err != nil {
		return nil, err
	}
	if err := a.openCache(ctx); err != nil {
		return nil, err
	}
	if err := a.openEvents(); err != nil {
		return nil, err
	}

	a.Pool = worker.NewPool(cfg.Workers, log)
	a.closers = append(a.closers, a.Pool.Stop)

	a.TM = auth.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	deps := services.Deps{
		Repos:    a.Repos,
		Cache:    a.Cache,
		Fence:    cache.NewFence(),
		CacheTTL: cfg.CacheTTL,
		Events:   a.Events,
		Pool:     a.Pool,
		Log:      log,
		Cascade:  cfg.CascadeDeletes,
	}
	a.Thoughts = services.NewThoughtService(deps)
	a.Users = services.NewUserService(deps)
	a.Auth = services.NewAuthService(a.Repos.Users, a.TM)
	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	switch a.Cfg.StoreDriver {
	case config.StoreMongo:
		client, err := db.NewMongoClient(ctx, a.Cfg.MongoURI)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() { _ = client.Disconnect(context.Background()) })
		database := client.Database(a.Cfg.MongoDatabase)
		// uniqueness of username and email lives in these indexes
		if err := db.EnsureIndexes(ctx, database); err != nil {
			return fmt.Errorf("mongo indexes: %w", err)
		}
		a.Repos = mongodb.NewRepositories(database)
		a.migrate = func(ctx context.Context) error { return db.EnsureIndexes(ctx, database) }

	case config.StorePostgres:
		pool, err := db.NewPool(ctx, a.Cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		a.Repos = postgres.NewRepositories(pool)
		a.migrate = func(ctx context.Context) error { return db.RunMigrations(ctx, pool, a.Log) }

	case config.StoreMemory:
		a.Repos = memory.NewRepositories()
		a.migrate = func(context.Context) error { return nil }
	}
	a.Log.Info("store ready", "driver", a.Cfg.StoreDriver)
	return nil
}

func (a *App) openCache(ctx context.Context) error {
	switch a.Cfg.CacheDriver {
	case config.CacheRedis:
		c, err := cache.NewRedis(ctx, a.Cfg.RedisURL)
		if err != nil {
			return err
		}
		a.Cache = c
	case config.CacheMemcache:
		c, err := cache.NewMemcache(a.Cfg.MemcacheAddr)
		if err != nil {
			return fmt.Errorf("memcache: %w", err)
		}
		a.Cache = c
	default:
		a.Cache = cache.Noop{}
	}
	a.closers = append(a.closers, func() { _ = a.Cache.Close() })
	return nil
}

func (a *App) openEvents() error {
	if a.Cfg.AMQPURL == "" {
		a.Events = events.Noop{}
		return nil
	}
	p, err := events.NewAMQP(a.Cfg.AMQPURL, a.Cfg.EventsExchange)
	if err != nil {
		return err
	}
	a.Events = p
	a.closers = append(a.closers, func() { _ = p.Close() })
	return nil
}

// Migrate applies SQL migrations (postgres) or creates indexes (mongo).
func (a *App) Migrate(ctx context.Context) error {
	if a.migrate == nil {
		return errors.New("store not opened")
	}
	return a.migrate(ctx)
}

func (a *App) Handler() http.Handler {
	return api.NewRouter(api.RouterDeps{
		Cfg:        a.Cfg,
		Log:        a.Log,
		TM:         a.TM,
		ThoughtSvc: a.Thoughts,
		UserSvc:    a.Users,
		AuthSvc:    a.Auth,
	})
}

// Close releases resources in reverse order of acquisition, so the worker
// pool drains before the publisher, cache and store go away.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
