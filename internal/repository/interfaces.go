package repository

import (
	"context"

	"github.com/baharkarakas/thoughts-backend/internal/models"
)

// Thoughts errors are *models.AppError: NOT_FOUND for a missing or
// malformed id, INTERNAL_ERROR for anything the driver reports.
type Thoughts interface {
	List(ctx context.Context) ([]models.Thought, error)
	GetByID(ctx context.Context, id string) (models.Thought, error)
	Create(ctx context.Context, t models.Thought) (models.Thought, error)
	Update(ctx context.Context, id string, p models.ThoughtPatch) (models.Thought, error)
	Delete(ctx context.Context, id string) (models.Thought, error)

	// AddReaction appends r unless a reaction with the same reactionId is
	// already present; either way the current thought is returned.
	AddReaction(ctx context.Context, thoughtID string, r models.Reaction) (models.Thought, error)
	// RemoveReaction pulls every reaction whose reactionId matches.
	RemoveReaction(ctx context.Context, thoughtID, reactionID string) (models.Thought, error)

	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

type Users interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	Create(ctx context.Context, u models.User) (models.User, error)
	Update(ctx context.Context, id string, p models.UserPatch) (models.User, error)
	Delete(ctx context.Context, id string) (models.User, error)

	// AddFriend appends friendID to userID's friends in one atomic step.
	// NOT_FOUND when either user is missing, VALIDATION_ERROR when the edge
	// already exists.
	AddFriend(ctx context.Context, userID, friendID string) (models.User, error)
	RemoveFriend(ctx context.Context, userID, friendID string) (models.User, error)

	// LinkThought adds thoughtID to the thoughts of the user named username.
	// It returns the user's id, or "" when nobody has that username.
	LinkThought(ctx context.Context, username, thoughtID string) (string, error)
	// PullThought and PullFriend remove a dangling reference from every
	// user holding it and return the ids of the users they changed.
	PullThought(ctx context.Context, thoughtID string) ([]string, error)
	PullFriend(ctx context.Context, friendID string) ([]string, error)
}

type Repositories struct {
	Users    Users
	Thoughts Thoughts
}
