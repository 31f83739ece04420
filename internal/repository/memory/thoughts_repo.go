package memory

import (
	"context"

	"github.com/baharkarakas/thoughts-backend/internal/models"
)

type thoughtsRepo struct{ s *store }

func (r *thoughtsRepo) List(_ context.Context) ([]models.Thought, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.Thought, 0, len(r.s.thoughtOrder))
	for _, id := range r.s.thoughtOrder {
		out = append(out, cloneThought(r.s.thoughts[id]))
	}
	return out, nil
}

func (r *thoughtsRepo) GetByID(_ context.Context, id string) (models.Thought, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.thoughts[id]
	if !ok {
		return models.Thought{}, models.NewNotFoundError(models.MsgThoughtNotFound)
	}
	return cloneThought(t), nil
}

func (r *thoughtsRepo) Create(_ context.Context, t models.Thought) (models.Thought, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.ID = r.s.newID()
	stored := cloneThought(&t)
	r.s.thoughts[t.ID] = &stored
	r.s.thoughtOrder = append(r.s.thoughtOrder, t.ID)
	return cloneThought(&stored), nil
}

func (r *thoughtsRepo) Update(_ context.Context, id string, p models.ThoughtPatch) (models.Thought, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.thoughts[id]
	if !ok {
		return models.Thought{}, models.NewNotFoundError(models.MsgThoughtNotFound)
	}
	p.Apply(t)
	return cloneThought(t), nil
}

func (r *thoughtsRepo) Delete(_ context.Context, id string) (models.Thought, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.thoughts[id]
	if !ok {
		return models.Thought{}, models.NewNotFoundError(models.MsgThoughtNotFound)
	}
	delete(r.s.thoughts, id)
	r.s.thoughtOrder = removeID(r.s.thoughtOrder, id)
	return cloneThought(t), nil
}

func (r *thoughtsRepo) AddReaction(_ context.Context, thoughtID string, reaction models.Reaction) (models.Thought, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.thoughts[thoughtID]
	if !ok {
		return models.Thought{}, models.NewNotFoundError(models.MsgThoughtNotFound)
	}
	if reaction.ReactionID == "" {
		reaction.ReactionID = r.s.newID()
	}
	if !t.HasReaction(reaction.ReactionID) {
		t.Reactions = append(t.Reactions, reaction)
	}
	return cloneThought(t), nil
}

func (r *thoughtsRepo) RemoveReaction(_ context.Context, thoughtID, reactionID string) (models.Thought, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.thoughts[thoughtID]
	if !ok {
		return models.Thought{}, models.NewNotFoundError(models.MsgThoughtNotFound)
	}
	kept := t.Reactions[:0]
	for _, re := range t.Reactions {
		if re.ReactionID != reactionID {
			kept = append(kept, re)
		}
	}
	t.Reactions = kept
	return cloneThought(t), nil
}

func (r *thoughtsRepo) DeleteMany(_ context.Context, ids []string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := r.s.thoughts[id]; ok {
			delete(r.s.thoughts, id)
			r.s.thoughtOrder = removeID(r.s.thoughtOrder, id)
			n++
		}
	}
	return n, nil
}
