package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/baharkarakas/thoughts-backend/internal/bootstrap"
	"github.com/baharkarakas/thoughts-backend/internal/config"
	"github.com/baharkarakas/thoughts-backend/internal/logger"
	"github.com/baharkarakas/thoughts-backend/internal/metrics"
	"github.com/baharkarakas/thoughts-backend/internal/seed"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := newServeCmd()
	root := &cobra.Command{
		Use:           "api",
		Short:         "Thoughts, reactions and friends REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.AddCommand(serve, newMigrateCmd(), newSeedCmd())
	return root
}

// setup loads config, installs the logger and opens the app. The returned
// context is cancelled on SIGINT/SIGTERM.
func setup(cmd *cobra.Command) (context.Context, *bootstrap.App, func(), error) {
	cfg := config.Load()
	log := logger.New(cfg.Env, cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	app, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		stop()
		log.Error("startup failed", "err", err)
		return nil, nil, nil, err
	}
	return ctx, app, func() { app.Close(); stop() }, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, app, cleanup, err := setup(cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			log := app.Log

			if app.Cfg.AutoMigrate {
				if err := app.Migrate(ctx); err != nil {
					log.Error("migrations", "err", err)
					return err
				}
			}

			metrics.Init()
			srv := &http.Server{
				Addr:              ":" + app.Cfg.HTTPPort,
				Handler:           app.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errc := make(chan error, 1)
			go func() {
				log.Info("server starting", "port", app.Cfg.HTTPPort, "store", app.Cfg.StoreDriver, "cache", app.Cfg.CacheDriver)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
			}()

			select {
			case <-ctx.Done():
			case err := <-errc:
				log.Error("server", "err", err)
				return err
			}

			log.Info("shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply SQL migrations (postgres) or create indexes (mongo)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, app, cleanup, err := setup(cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := app.Migrate(ctx); err != nil {
				app.Log.Error("migrate", "err", err)
				return err
			}
			app.Log.Info("migrate done", "store", app.Cfg.StoreDriver)
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var opts seed.Options
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the store with fake users, thoughts and friendships",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, app, cleanup, err := setup(cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := app.Migrate(ctx); err != nil {
				return err
			}
			_, err = seed.Run(ctx, app.Users, app.Thoughts, opts, app.Log)
			return err
		},
	}
	cmd.Flags().IntVar(&opts.Users, "users", 10, "number of users")
	cmd.Flags().IntVar(&opts.ThoughtsPerUser, "thoughts", 3, "thoughts per user")
	cmd.Flags().IntVar(&opts.ReactionsPerPost, "reactions", 2, "reactions per thought")
	cmd.Flags().IntVar(&opts.FriendsPerUser, "friends", 2, "friend edges per user")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed (0 = random)")
	return cmd
}
