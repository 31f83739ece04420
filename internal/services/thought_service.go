package services

import (
	"context"
	"time"

	"github.com/baharkarakas/thoughts-backend/internal/cache"
	"github.com/baharkarakas/thoughts-backend/internal/events"
	"github.com/baharkarakas/thoughts-backend/internal/models"
)

type ThoughtService struct {
	base
}

func NewThoughtService(d Deps) *ThoughtService { return &ThoughtService{newBase(d)} }

func (s *ThoughtService) List(ctx context.Context) ([]models.Thought, error) {
	return s.Repos.Thoughts.List(ctx)
}

func (s *ThoughtService) Get(ctx context.Context, id string) (models.Thought, error) {
	key := cache.ThoughtKey(id)
	var t models.Thought
	if cache.GetJSON(ctx, s.Cache, key, &t) {
		return t, nil
	}
	token := s.Fence.Token(key)
	t, err := s.Repos.Thoughts.GetByID(ctx, id)
	if err != nil {
		return models.Thought{}, err
	}
	s.fill(ctx, key, token, t)
	return t, nil
}

// Create stores a new thought and links it to the user with the same
// username, if there is one.
func (s *ThoughtService) Create(ctx context.Context, in models.Thought) (models.Thought, error) {
	t := models.Thought{
		ThoughtText: in.ThoughtText,
		Username:    in.Username,
		CreatedAt:   time.Now().UTC(),
	}
	if err := t.Validate(); err != nil {
		return models.Thought{}, record("thought", "create", err)
	}
	t, err := s.Repos.Thoughts.Create(ctx, t)
	if err != nil {
		return models.Thought{}, record("thought", "create", err)
	}

	owner, err := s.Repos.Users.LinkThought(ctx, t.Username, t.ID)
	switch {
	case err != nil:
		s.Log.WarnContext(ctx, "link thought to user failed", "thought_id", t.ID, "username", t.Username, "err", err)
	case owner != "":
		s.invalidate(ctx, cache.UserKey(owner))
	}

	s.emit(ctx, events.ThoughtCreated, t.ID, t)
	return t, record("thought", "create", nil)
}

func (s *ThoughtService) Update(ctx context.Context, id string, p models.ThoughtPatch) (models.Thought, error) {
	if err := p.Validate(); err != nil {
		return models.Thought{}, record("thought", "update", err)
	}
	t, err := s.Repos.Thoughts.Update(ctx, id, p)
	if err != nil {
		return models.Thought{}, record("thought", "update", err)
	}
	s.invalidate(ctx, cache.ThoughtKey(id))
	if !p.Empty() {
		s.emit(ctx, events.ThoughtUpdated, t.ID, p)
	}
	return t, record("thought", "update", nil)
}

func (s *ThoughtService) Delete(ctx context.Context, id string) error {
	t, err := s.Repos.Thoughts.Delete(ctx, id)
	if err != nil {
		return record("thought", "delete", err)
	}
	s.invalidate(ctx, cache.ThoughtKey(id))
	if s.Cascade {
		s.background(ctx, "", func(ctx context.Context) { s.detachThought(ctx, t.ID) })
	}
	s.emit(ctx, events.ThoughtDeleted, t.ID, nil)
	return record("thought", "delete", nil)
}

// detachThought removes a deleted thought's id from every user.
func (s *ThoughtService) detachThought(ctx context.Context, id string) {
	changed, err := s.Repos.Users.PullThought(ctx, id)
	if err != nil {
		s.Log.WarnContext(ctx, "cascade: pull thought failed", "thought_id", id, "err", err)
		return
	}
	if len(changed) > 0 {
		s.invalidate(ctx, userKeys(changed)...)
	}
}

func (s *ThoughtService) AddReaction(ctx context.Context, thoughtID string, in models.Reaction) (models.Thought, error) {
	r := models.Reaction{
		ReactionID:   in.ReactionID,
		ReactionBody: in.ReactionBody,
		Username:     in.Username,
		CreatedAt:    time.Now().UTC(),
	}
	if err := r.Validate(); err != nil {
		return models.Thought{}, record("reaction", "add", err)
	}
	t, err := s.Repos.Thoughts.AddReaction(ctx, thoughtID, r)
	if err != nil {
		return models.Thought{}, record("reaction", "add", err)
	}
	s.invalidate(ctx, cache.ThoughtKey(thoughtID))
	s.emit(ctx, events.ReactionAdded, thoughtID, r)
	return t, record("reaction", "add", nil)
}

func (s *ThoughtService) RemoveReaction(ctx context.Context, thoughtID, reactionID string) (models.Thought, error) {
	t, err := s.Repos.Thoughts.RemoveReaction(ctx, thoughtID, reactionID)
	if err != nil {
		return models.Thought{}, record("reaction", "remove", err)
	}
	s.invalidate(ctx, cache.ThoughtKey(thoughtID))
	s.emit(ctx, events.ReactionRemoved, thoughtID, map[string]string{"reactionId": reactionID})
	return t, record("reaction", "remove", nil)
}
