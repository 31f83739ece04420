package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/thoughts-backend/internal/models"
)

func TestUsersCRUD(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()

	alice, err := repos.Users.Create(ctx, models.User{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	require.NotEmpty(t, alice.ID)

	_, err = repos.Users.Create(ctx, models.User{Username: "alice", Email: "other@example.com"})
	assert.Equal(t, models.CodeConflict, models.CodeOf(err))

	name := "alicia"
	updated, err := repos.Users.Update(ctx, alice.ID, models.UserPatch{Username: &name})
	require.NoError(t, err)
	assert.Equal(t, "alicia", updated.Username)
	assert.Equal(t, "alice@example.com", updated.Email)

	_, err = repos.Users.Update(ctx, "missing", models.UserPatch{Username: &name})
	assert.True(t, models.IsNotFound(err))

	list, err := repos.Users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = repos.Users.Delete(ctx, alice.ID)
	require.NoError(t, err)
	_, err = repos.Users.GetByID(ctx, alice.ID)
	assert.True(t, models.IsNotFound(err))
}

func TestUsersUpdateConflict(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()
	a, _ := repos.Users.Create(ctx, models.User{Username: "a", Email: "a@x.io"})
	_, _ = repos.Users.Create(ctx, models.User{Username: "b", Email: "b@x.io"})

	email := "b@x.io"
	_, err := repos.Users.Update(ctx, a.ID, models.UserPatch{Email: &email})
	assert.Equal(t, models.CodeConflict, models.CodeOf(err))

	same := "a@x.io"
	_, err = repos.Users.Update(ctx, a.ID, models.UserPatch{Email: &same})
	assert.NoError(t, err)
}

func TestFriendEdges(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()
	a, _ := repos.Users.Create(ctx, models.User{Username: "a", Email: "a@x.io"})
	b, _ := repos.Users.Create(ctx, models.User{Username: "b", Email: "b@x.io"})

	got, err := repos.Users.AddFriend(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, got.Friends)

	_, err = repos.Users.AddFriend(ctx, a.ID, b.ID)
	assert.Equal(t, models.CodeValidation, models.CodeOf(err))

	other, _ := repos.Users.GetByID(ctx, b.ID)
	assert.Empty(t, other.Friends, "edges are directed")

	_, err = repos.Users.AddFriend(ctx, a.ID, "ghost")
	assert.True(t, models.IsNotFound(err))

	got, err = repos.Users.RemoveFriend(ctx, a.ID, "ghost")
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, got.Friends)

	got, err = repos.Users.RemoveFriend(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Friends)
}

func TestReactionsSetSemantics(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()
	th, err := repos.Thoughts.Create(ctx, models.Thought{ThoughtText: "hello", Username: "alice", Reactions: []models.Reaction{}})
	require.NoError(t, err)

	th, err = repos.Thoughts.AddReaction(ctx, th.ID, models.Reaction{ReactionID: "r1", ReactionBody: "nice", Username: "bob"})
	require.NoError(t, err)
	th, err = repos.Thoughts.AddReaction(ctx, th.ID, models.Reaction{ReactionID: "r1", ReactionBody: "again", Username: "bob"})
	require.NoError(t, err)
	assert.Equal(t, 1, th.ReactionCount())

	th, err = repos.Thoughts.AddReaction(ctx, th.ID, models.Reaction{ReactionBody: "generated", Username: "carol"})
	require.NoError(t, err)
	require.Len(t, th.Reactions, 2)
	assert.NotEmpty(t, th.Reactions[1].ReactionID)

	th, err = repos.Thoughts.RemoveReaction(ctx, th.ID, "r1")
	require.NoError(t, err)
	assert.False(t, th.HasReaction("r1"))
	assert.Equal(t, 1, th.ReactionCount())

	_, err = repos.Thoughts.AddReaction(ctx, "missing", models.Reaction{ReactionBody: "x", Username: "y"})
	assert.True(t, models.IsNotFound(err))
}

func TestReturnedValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()
	a, _ := repos.Users.Create(ctx, models.User{Username: "a", Email: "a@x.io", Friends: []string{}})
	a.Friends = append(a.Friends, "tampered")

	stored, _ := repos.Users.GetByID(ctx, a.ID)
	assert.Empty(t, stored.Friends)
}

func TestReferenceCleanup(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()
	a, _ := repos.Users.Create(ctx, models.User{Username: "a", Email: "a@x.io"})
	b, _ := repos.Users.Create(ctx, models.User{Username: "b", Email: "b@x.io"})
	_, _ = repos.Users.AddFriend(ctx, a.ID, b.ID)

	th, _ := repos.Thoughts.Create(ctx, models.Thought{ThoughtText: "t", Username: "a"})
	owner, err := repos.Users.LinkThought(ctx, "a", th.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, owner)

	none, err := repos.Users.LinkThought(ctx, "nobody", th.ID)
	require.NoError(t, err)
	assert.Empty(t, none)

	changed, err := repos.Users.PullThought(ctx, th.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, changed)

	changed, err = repos.Users.PullFriend(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, changed)

	n, err := repos.Thoughts.DeleteMany(ctx, []string{th.ID, "missing"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
