package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/thoughts-backend/internal/api/handlers"
	"github.com/baharkarakas/thoughts-backend/internal/api/httpx"
	"github.com/baharkarakas/thoughts-backend/internal/auth"
	"github.com/baharkarakas/thoughts-backend/internal/config"
	"github.com/baharkarakas/thoughts-backend/internal/metrics"
	"github.com/baharkarakas/thoughts-backend/internal/middleware"
	"github.com/baharkarakas/thoughts-backend/internal/models"
	"github.com/baharkarakas/thoughts-backend/internal/services"
)

type RouterDeps struct {
	Cfg        config.Config
	Log        *slog.Logger
	TM         *auth.TokenManager
	ThoughtSvc *services.ThoughtService
	UserSvc    *services.UserService
	AuthSvc    *services.AuthService
}

func NewRouter(d RouterDeps) http.Handler {
	th := handlers.NewThoughtHandler(d.ThoughtSvc)
	uh := handlers.NewUserHandler(d.UserSvc)
	ah := handlers.NewAuthHandler(d.AuthSvc)

	r := chi.NewRouter()
	r.Use(chimw.CleanPath, middleware.RequestID, middleware.Logging(d.Log), middleware.Recover)
	r.Use(middleware.RateLimit(d.Cfg.RateRPS), middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, models.CodeNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	// mutating routes need a bearer token when AUTH_REQUIRED is on
	protect := func(r chi.Router) chi.Router {
		if !d.Cfg.AuthRequired {
			return r
		}
		return r.With(middleware.NewAuthMiddleware(d.TM, d.Cfg.Env).Auth)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Deadline(d.Cfg.RequestTimeout))

		// ---------- auth ----------
		r.Post("/auth/token", ah.Token)
		r.Post("/auth/refresh", ah.Refresh)

		// ---------- thoughts ----------
		r.Route("/thoughts", func(r chi.Router) {
			r.Get("/", th.List)
			r.Get("/{thoughtId}", th.Get)

			w := protect(r)
			w.Post("/", th.Create)
			w.Put("/{thoughtId}", th.Update)
			w.Delete("/{thoughtId}", th.Delete)
			w.Post("/{thoughtId}/reactions", th.AddReaction)
			w.Delete("/{thoughtId}/reactions/{reactionId}", th.RemoveReaction)
		})

		// ---------- users ----------
		r.Route("/users", func(r chi.Router) {
			r.Get("/", uh.List)
			r.Get("/{userId}", uh.Get)

			w := protect(r)
			w.Post("/", uh.Create)
			w.Put("/{userId}", uh.Update)
			w.Delete("/{userId}", uh.Delete)
			w.Post("/{userId}/friends/{friendId}", uh.AddFriend)
			w.Delete("/{userId}/friends/{friendId}", uh.RemoveFriend)
		})
	})

	return r
}
