package services

import (
	"context"

	"github.com/baharkarakas/thoughts-backend/internal/cache"
	"github.com/baharkarakas/thoughts-backend/internal/events"
	"github.com/baharkarakas/thoughts-backend/internal/models"
)

type UserService struct {
	base
}

func NewUserService(d Deps) *UserService { return &UserService{newBase(d)} }

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.Repos.Users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	key := cache.UserKey(id)
	var u models.User
	if cache.GetJSON(ctx, s.Cache, key, &u) {
		return u, nil
	}
	token := s.Fence.Token(key)
	u, err := s.Repos.Users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	s.fill(ctx, key, token, u)
	return u, nil
}

func (s *UserService) Create(ctx context.Context, in models.User) (models.User, error) {
	u := models.User{Username: in.Username, Email: in.Email}
	if err := u.Validate(); err != nil {
		return models.User{}, record("user", "create", err)
	}
	u, err := s.Repos.Users.Create(ctx, u)
	if err != nil {
		return models.User{}, record("user", "create", err)
	}
	s.emit(ctx, events.UserCreated, u.ID, map[string]string{"username": u.Username})
	return u, record("user", "create", nil)
}

func (s *UserService) Update(ctx context.Context, id string, p models.UserPatch) (models.User, error) {
	if err := p.Validate(); err != nil {
		return models.User{}, record("user", "update", err)
	}
	u, err := s.Repos.Users.Update(ctx, id, p)
	if err != nil {
		return models.User{}, record("user", "update", err)
	}
	s.invalidate(ctx, cache.UserKey(id))
	if !p.Empty() {
		s.emit(ctx, events.UserUpdated, u.ID, p)
	}
	return u, record("user", "update", nil)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	u, err := s.Repos.Users.Delete(ctx, id)
	if err != nil {
		return record("user", "delete", err)
	}
	s.invalidate(ctx, cache.UserKey(id))
	if s.Cascade {
		s.background(ctx, "", func(ctx context.Context) { s.detachUser(ctx, u) })
	}
	s.emit(ctx, events.UserDeleted, u.ID, nil)
	return record("user", "delete", nil)
}

// detachUser deletes a removed user's thoughts and drops the user from
// every friend list.
func (s *UserService) detachUser(ctx context.Context, u models.User) {
	if len(u.Thoughts) > 0 {
		n, err := s.Repos.Thoughts.DeleteMany(ctx, u.Thoughts)
		if err != nil {
			s.Log.WarnContext(ctx, "cascade: delete thoughts failed", "user_id", u.ID, "err", err)
		} else {
			s.invalidate(ctx, thoughtKeys(u.Thoughts)...)
			s.Log.DebugContext(ctx, "cascade: thoughts deleted", "user_id", u.ID, "count", n)
		}
	}
	changed, err := s.Repos.Users.PullFriend(ctx, u.ID)
	if err != nil {
		s.Log.WarnContext(ctx, "cascade: pull friend failed", "user_id", u.ID, "err", err)
		return
	}
	if len(changed) > 0 {
		s.invalidate(ctx, userKeys(changed)...)
	}
}

func (s *UserService) AddFriend(ctx context.Context, userID, friendID string) (models.User, error) {
	u, err := s.Repos.Users.AddFriend(ctx, userID, friendID)
	if err != nil {
		return models.User{}, record("friend", "add", err)
	}
	s.invalidate(ctx, cache.UserKey(userID))
	s.emit(ctx, events.FriendAdded, userID, map[string]string{"friendId": friendID})
	return u, record("friend", "add", nil)
}

func (s *UserService) RemoveFriend(ctx context.Context, userID, friendID string) (models.User, error) {
	u, err := s.Repos.Users.RemoveFriend(ctx, userID, friendID)
	if err != nil {
		return models.User{}, record("friend", "remove", err)
	}
	s.invalidate(ctx, cache.UserKey(userID))
	s.emit(ctx, events.FriendRemoved, userID, map[string]string{"friendId": friendID})
	return u, record("friend", "remove", nil)
}
