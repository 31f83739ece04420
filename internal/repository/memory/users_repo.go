package memory

import (
	"context"

	"github.com/baharkarakas/thoughts-backend/internal/models"
)

type usersRepo struct{ s *store }

func (r *usersRepo) List(_ context.Context) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.User, 0, len(r.s.userOrder))
	for _, id := range r.s.userOrder {
		out = append(out, cloneUser(r.s.users[id]))
	}
	return out, nil
}

func (r *usersRepo) GetByID(_ context.Context, id string) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return models.User{}, models.NewNotFoundError(models.MsgUserNotFound)
	}
	return cloneUser(u), nil
}

// conflict reports a unique-field clash with any user other than self.
func (r *usersRepo) conflict(self, username, email string) error {
	for id, u := range r.s.users {
		if id == self {
			continue
		}
		if u.Username == username {
			return models.NewConflictError("username already exists", nil)
		}
		if u.Email == email {
			return models.NewConflictError("email already exists", nil)
		}
	}
	return nil
}

func (r *usersRepo) Create(_ context.Context, u models.User) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.conflict("", u.Username, u.Email); err != nil {
		return models.User{}, err
	}
	u.ID = r.s.newID()
	stored := cloneUser(&u)
	r.s.users[u.ID] = &stored
	r.s.userOrder = append(r.s.userOrder, u.ID)
	return cloneUser(&stored), nil
}

func (r *usersRepo) Update(_ context.Context, id string, p models.UserPatch) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return models.User{}, models.NewNotFoundError(models.MsgUserNotFound)
	}
	next := cloneUser(u)
	p.Apply(&next)
	if err := r.conflict(id, next.Username, next.Email); err != nil {
		return models.User{}, err
	}
	*u = next
	return cloneUser(u), nil
}

func (r *usersRepo) Delete(_ context.Context, id string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return models.User{}, models.NewNotFoundError(models.MsgUserNotFound)
	}
	delete(r.s.users, id)
	r.s.userOrder = removeID(r.s.userOrder, id)
	return cloneUser(u), nil
}

func (r *usersRepo) AddFriend(_ context.Context, userID, friendID string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if _, friendOK := r.s.users[friendID]; !ok || !friendOK {
		return models.User{}, models.NewNotFoundError(models.MsgFriendNotFound)
	}
	if u.HasFriend(friendID) {
		return models.User{}, models.NewValidationError(models.MsgFriendExists)
	}
	u.Friends = append(u.Friends, friendID)
	return cloneUser(u), nil
}

func (r *usersRepo) RemoveFriend(_ context.Context, userID, friendID string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return models.User{}, models.NewNotFoundError(models.MsgUserNotFound)
	}
	u.Friends = removeID(u.Friends, friendID)
	return cloneUser(u), nil
}

func (r *usersRepo) LinkThought(_ context.Context, username, thoughtID string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range r.s.userOrder {
		u := r.s.users[id]
		if u.Username != username {
			continue
		}
		if !u.HasThought(thoughtID) {
			u.Thoughts = append(u.Thoughts, thoughtID)
		}
		return id, nil
	}
	return "", nil
}

func (r *usersRepo) PullThought(_ context.Context, thoughtID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var changed []string
	for _, id := range r.s.userOrder {
		u := r.s.users[id]
		if u.HasThought(thoughtID) {
			u.Thoughts = removeID(u.Thoughts, thoughtID)
			changed = append(changed, id)
		}
	}
	return changed, nil
}

func (r *usersRepo) PullFriend(_ context.Context, friendID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var changed []string
	for _, id := range r.s.userOrder {
		u := r.s.users[id]
		if u.HasFriend(friendID) {
			u.Friends = removeID(u.Friends, friendID)
			changed = append(changed, id)
		}
	}
	return changed, nil
}
