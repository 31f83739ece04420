// Package memory keeps users and thoughts in process memory. It backs
// STORE_DRIVER=memory and the HTTP-level tests.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/baharkarakas/thoughts-backend/internal/models"
	"github.com/baharkarakas/thoughts-backend/internal/repository"
)

type store struct {
	mu sync.RWMutex

	users     map[string]*models.User
	userOrder []string

	thoughts     map[string]*models.Thought
	thoughtOrder []string

	newID func() string
}

func NewRepositories() repository.Repositories {
	s := &store{
		users:    map[string]*models.User{},
		thoughts: map[string]*models.Thought{},
		newID:    uuid.NewString,
	}
	return repository.Repositories{
		Users:    &usersRepo{s},
		Thoughts: &thoughtsRepo{s},
	}
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func cloneUser(u *models.User) models.User {
	c := *u
	c.Thoughts = append([]string{}, u.Thoughts...)
	c.Friends = append([]string{}, u.Friends...)
	return c
}

func cloneThought(t *models.Thought) models.Thought {
	c := *t
	c.Reactions = append([]models.Reaction{}, t.Reactions...)
	return c
}
