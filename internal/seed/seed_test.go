package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/thoughts-backend/internal/repository/memory"
	"github.com/baharkarakas/thoughts-backend/internal/services"
)

func TestRun(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	d := services.Deps{Repos: repos, Log: log}
	users, thoughts := services.NewUserService(d), services.NewThoughtService(d)

	sum, err := Run(ctx, users, thoughts, Options{Users: 5, ThoughtsPerUser: 2, ReactionsPerPost: 1, FriendsPerUser: 2, Seed: 42}, log)
	require.NoError(t, err)

	all, err := repos.Users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, sum.Users)

	ts, err := repos.Thoughts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, ts, sum.Thoughts)
	assert.Equal(t, sum.Users*2, sum.Thoughts)

	linked, friends := 0, 0
	for _, u := range all {
		linked += len(u.Thoughts)
		friends += u.FriendCount()
		assert.NotContains(t, u.Friends, u.ID)
	}
	assert.Equal(t, sum.Thoughts, linked, "every seeded thought is linked to its author")
	assert.Equal(t, sum.Friends, friends)

	reactions := 0
	for _, th := range ts {
		assert.LessOrEqual(t, len([]rune(th.ThoughtText)), 280)
		reactions += th.ReactionCount()
	}
	assert.Equal(t, sum.Reactions, reactions)
}
