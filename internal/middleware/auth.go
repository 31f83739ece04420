package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/baharkarakas/thoughts-backend/internal/api/httpx"
	"github.com/baharkarakas/thoughts-backend/internal/auth"
	"github.com/baharkarakas/thoughts-backend/internal/logger"
	"github.com/baharkarakas/thoughts-backend/internal/models"
)

type ctxKey string

const ctxUserIDKey ctxKey = "uid"

// UserID returns the caller authenticated by AuthMiddleware.
func UserID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxUserIDKey).(string)
	return v, ok
}

type AuthMiddleware struct {
	TM     *auth.TokenManager
	AppEnv string
}

func NewAuthMiddleware(tm *auth.TokenManager, appEnv string) *AuthMiddleware {
	return &AuthMiddleware{TM: tm, AppEnv: appEnv}
}

func unauthorized(w http.ResponseWriter, msg string) {
	httpx.WriteError(w, http.StatusUnauthorized, models.CodeUnauthorized, msg, nil)
}

// Auth accepts "Bearer <access JWT>"; in dev also "Bearer dev-<id>".
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ah := r.Header.Get("Authorization")
		if len(ah) < len("Bearer ") || !strings.EqualFold(ah[:len("Bearer ")], "bearer ") {
			unauthorized(w, "missing bearer token")
			return
		}
		token := strings.TrimSpace(ah[len("Bearer "):])

		var uid string
		if m.AppEnv == "dev" && strings.HasPrefix(token, "dev-") {
			uid = strings.TrimPrefix(token, "dev-")
		} else {
			claims, isRefresh, err := m.TM.ParseAny(token)
			if err != nil || isRefresh {
				unauthorized(w, "invalid access token")
				return
			}
			uid = claims.UserID
		}

		ctx := context.WithValue(r.Context(), ctxUserIDKey, uid)
		next.ServeHTTP(w, r.WithContext(logger.WithUserID(ctx, uid)))
	})
}
