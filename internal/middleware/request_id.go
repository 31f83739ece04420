package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/baharkarakas/thoughts-backend/internal/logger"
)

const RequestIDHeader = "X-Request-Id"

func RequestIDFrom(ctx context.Context) string { return logger.RequestID(ctx) }

// RequestID reuses a sane incoming X-Request-Id or mints a new one, echoes it
// in the response header and stores it for the logger.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
	})
}
