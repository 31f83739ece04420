package postgres

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/thoughts-backend/internal/db"
	"github.com/baharkarakas/thoughts-backend/internal/models"
)

func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, url)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(ctx, pool, slog.New(slog.NewTextHandler(io.Discard, nil))))
	_, err = pool.Exec(ctx, `TRUNCATE users, thoughts`)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestValidIDs(t *testing.T) {
	id := uuid.NewString()
	assert.Equal(t, []string{id}, validIDs([]string{"x", id, ""}))
	assert.True(t, models.IsNotFound(dbError(pgx.ErrNoRows, models.MsgUserNotFound)))
}

func TestUsersRepoPostgres(t *testing.T) {
	repos := NewRepositories(newTestPool(t))
	ctx := context.Background()

	a, err := repos.Users.Create(ctx, models.User{Username: "a", Email: "a@x.io"})
	require.NoError(t, err)
	b, err := repos.Users.Create(ctx, models.User{Username: "b", Email: "b@x.io"})
	require.NoError(t, err)

	_, err = repos.Users.Create(ctx, models.User{Username: "a", Email: "z@x.io"})
	assert.Equal(t, models.CodeConflict, models.CodeOf(err))

	got, err := repos.Users.AddFriend(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, got.Friends)

	_, err = repos.Users.AddFriend(ctx, a.ID, b.ID)
	assert.Equal(t, models.CodeValidation, models.CodeOf(err))

	_, err = repos.Users.AddFriend(ctx, a.ID, uuid.NewString())
	assert.True(t, models.IsNotFound(err))

	name := "alpha"
	got, err = repos.Users.Update(ctx, a.ID, models.UserPatch{Username: &name})
	require.NoError(t, err)
	assert.Equal(t, "alpha", got.Username)
	assert.Equal(t, "a@x.io", got.Email)

	changed, err := repos.Users.PullFriend(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, changed)
}

func TestThoughtsRepoPostgres(t *testing.T) {
	repos := NewRepositories(newTestPool(t))
	ctx := context.Background()

	th, err := repos.Thoughts.Create(ctx, models.Thought{ThoughtText: "hi", Username: "a", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	assert.Empty(t, th.Reactions)

	th, err = repos.Thoughts.AddReaction(ctx, th.ID, models.Reaction{ReactionID: "r1", ReactionBody: "x", Username: "b"})
	require.NoError(t, err)
	th, err = repos.Thoughts.AddReaction(ctx, th.ID, models.Reaction{ReactionID: "r1", ReactionBody: "y", Username: "b"})
	require.NoError(t, err)
	require.Equal(t, 1, th.ReactionCount())
	assert.Equal(t, "x", th.Reactions[0].ReactionBody)

	th, err = repos.Thoughts.RemoveReaction(ctx, th.ID, "r1")
	require.NoError(t, err)
	assert.Empty(t, th.Reactions)

	_, err = repos.Thoughts.GetByID(ctx, "nope")
	assert.True(t, models.IsNotFound(err))

	n, err := repos.Thoughts.DeleteMany(ctx, []string{th.ID, "nope"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
