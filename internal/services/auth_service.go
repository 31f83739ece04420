package services

import (
	"context"

	"github.com/baharkarakas/thoughts-backend/internal/auth"
	"github.com/baharkarakas/thoughts-backend/internal/models"
	repo "github.com/baharkarakas/thoughts-backend/internal/repository"
)

// AuthService issues bearer tokens for existing users. There are no
// passwords; the token only proves which user id the caller acts as.
type AuthService struct {
	users repo.Users
	tm    *auth.TokenManager
}

func NewAuthService(users repo.Users, tm *auth.TokenManager) *AuthService {
	return &AuthService{users: users, tm: tm}
}

func (s *AuthService) Issue(ctx context.Context, userID string) (auth.Pair, error) {
	if userID == "" {
		return auth.Pair{}, models.NewValidationError("userId is required")
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return auth.Pair{}, err
	}
	return s.generate(userID)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (auth.Pair, error) {
	claims, isRefresh, err := s.tm.ParseAny(refreshToken)
	if err != nil || !isRefresh {
		return auth.Pair{}, models.NewUnauthorizedError("invalid refresh token")
	}
	if _, err := s.users.GetByID(ctx, claims.UserID); err != nil {
		if models.IsNotFound(err) {
			return auth.Pair{}, models.NewUnauthorizedError("invalid refresh token")
		}
		return auth.Pair{}, err
	}
	return s.generate(claims.UserID)
}

func (s *AuthService) generate(userID string) (auth.Pair, error) {
	p, err := s.tm.GeneratePair(userID)
	if err != nil {
		return auth.Pair{}, models.NewInternalError(err)
	}
	return p, nil
}
